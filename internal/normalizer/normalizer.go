// Package normalizer canonicalizes Korean land addresses: legacy naming,
// dash variants, whitespace, and province-level synonym expansion.
package normalizer

import (
	"regexp"
	"strings"
)

var reSpaces = regexp.MustCompile(`\s+`)

// legacyForms maps outdated or spaced spellings to the current official form.
// Applied in order; each replacement must leave no occurrence of its own key
// behind, which keeps Canonicalize idempotent.
var legacyForms = [][2]string{
	{"서울 특별시", "서울특별시"},
	{"서울시", "서울특별시"},
	{"광역 시", "광역시"},
}

// dashVariants are the full-width minus, en dash and em dash forms that show
// up in pasted lot numbers.
var dashVariants = []string{"－", "–", "—"}

// CollapseSpaces reduces every whitespace run to a single space and trims.
func CollapseSpaces(s string) string {
	return strings.TrimSpace(reSpaces.ReplaceAllString(s, " "))
}

// Canonicalize unifies an address string: legacy name variants, dash
// variants, whitespace. Pure and idempotent.
func Canonicalize(s string) string {
	s = strings.TrimSpace(s)
	for _, lf := range legacyForms {
		s = strings.ReplaceAll(s, lf[0], lf[1])
	}
	for _, d := range dashVariants {
		s = strings.ReplaceAll(s, d, "-")
	}
	return CollapseSpaces(s)
}
