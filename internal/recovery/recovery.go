// Package recovery repairs raw query text before normalization: percent
// decoding (including the double-encoded case) and best-effort repair of
// Korean text that was mangled on the way in.
package recovery

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/korean"
)

var reSpaces = regexp.MustCompile(`\s+`)

// Recover restores a raw query string to usable text. It never fails: every
// repair step is best-effort and falls back to the text it started with.
// Empty input yields an empty string.
func Recover(raw string) string {
	if raw == "" {
		return ""
	}

	text := unescape(raw)

	// Clients occasionally double-encode. A leftover '%' is the tell; decode
	// once more only when that second pass actually changes something.
	if strings.Contains(text, "%") {
		if again := unescape(text); again != text {
			text = again
		}
	}

	text = repairKorean(text)

	return strings.TrimSpace(reSpaces.ReplaceAllString(text, " "))
}

// unescape applies query-component decoding ('+' means space). Malformed
// percent sequences leave the input unchanged rather than erroring out.
func unescape(s string) string {
	out, err := url.QueryUnescape(s)
	if err != nil {
		return s
	}
	return out
}

// repairKorean handles the common mis-decoding path for Korean input: the
// client sent EUC-KR (CP949) bytes but something upstream treated them as
// Latin-1 or passed them through undecoded. Reinterpreting the byte sequence
// as EUC-KR recovers the original text; if the result still is not clean
// Korean the original text is kept.
func repairKorean(s string) string {
	switch {
	case !utf8.ValidString(s):
		// Raw undecoded bytes survived percent-decoding. Read them as EUC-KR.
		if fixed, ok := decodeEUCKR([]byte(s)); ok {
			return fixed
		}
	case strings.ContainsRune(s, utf8.RuneError):
		// A lossy single-byte decode happened upstream. Drop everything above
		// 0xFF (the replacement characters themselves) and re-decode the byte
		// sequence as EUC-KR.
		raw := make([]byte, 0, len(s))
		for _, r := range s {
			if r < 0x100 {
				raw = append(raw, byte(r))
			}
		}
		if fixed, ok := decodeEUCKR(raw); ok {
			return fixed
		}
	}
	return s
}

func decodeEUCKR(b []byte) (string, bool) {
	out, err := korean.EUCKR.NewDecoder().Bytes(b)
	if err != nil {
		return "", false
	}
	s := string(out)
	if s == "" || strings.ContainsRune(s, utf8.RuneError) {
		return "", false
	}
	return s, true
}
