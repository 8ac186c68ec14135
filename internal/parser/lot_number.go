// Package parser extracts 지번 (lot number) information from a cleaned
// address string: the mountain-lot flag, the main lot (본번/bun) and the
// sub lot (부번/ji).
package parser

import (
	"strings"
	"unicode"
)

// ParsedAddress is the per-request lot-number extraction result. Bun and Ji
// are nil when the address carries no lot number at all; an address with a
// main lot but no sub lot gets Ji pointing at zero.
type ParsedAddress struct {
	MountainLot int  // 1 when the 산 marker precedes a digit, else 0
	Bun         *int // main lot number
	Ji          *int // sub lot number
}

// lotSpan is one lot-number occurrence, with rune offsets covering the
// leading boundary character (so stripping a span removes its separator too).
type lotSpan struct {
	start, end int
	bun, ji    int
	hasJi      bool
}

// Parse scans addr for lot numbers. The grammar is deliberately narrow:
// a number starts at the beginning of the string or after whitespace, a
// comma or a parenthesis, optionally prefixed by the 산 marker, and is
// 1 to 6 digits, optionally followed by a hyphen and 1 to 6 more. A run
// longer than 6 digits never matches, not even partially. Addresses put the
// lot number after the district name, so the last occurrence wins.
func Parse(addr string) ParsedAddress {
	r := []rune(addr)

	var pa ParsedAddress
	if hasMountainMarker(r) {
		pa.MountainLot = 1
	}

	spans := findLotSpans(r)
	if len(spans) == 0 {
		return pa
	}

	last := spans[len(spans)-1]
	bun, ji := last.bun, 0
	if last.hasJi {
		ji = last.ji
	}
	pa.Bun = &bun
	pa.Ji = &ji
	return pa
}

// Strip removes every lot-number occurrence from addr, replacing each with a
// single space. Callers re-collapse whitespace afterwards.
func Strip(addr string) string {
	r := []rune(addr)
	spans := findLotSpans(r)
	if len(spans) == 0 {
		return addr
	}

	var b strings.Builder
	prev := 0
	for _, sp := range spans {
		b.WriteString(string(r[prev:sp.start]))
		b.WriteRune(' ')
		prev = sp.end
	}
	b.WriteString(string(r[prev:]))
	return b.String()
}

// hasMountainMarker reports whether a 산 token, not glued to the tail of a
// word (부산, 울산, ...), is followed by optional spaces and a digit. This is
// a global scan, independent of which lot number is ultimately picked.
func hasMountainMarker(r []rune) bool {
	for i, c := range r {
		if c != '산' {
			continue
		}
		if i > 0 {
			p := r[i-1]
			if unicode.IsLetter(p) || unicode.IsDigit(p) || p == '_' {
				continue
			}
		}
		j := i + 1
		for j < len(r) && unicode.IsSpace(r[j]) {
			j++
		}
		if j < len(r) && isDigit(r[j]) {
			return true
		}
	}
	return false
}

func findLotSpans(r []rune) []lotSpan {
	var spans []lotSpan
	i := 0
	for i < len(r) {
		var spanStart, contentStart int
		switch {
		case i == 0:
			spanStart, contentStart = 0, 0
		case isBoundary(r[i]):
			spanStart, contentStart = i, i+1
		default:
			i++
			continue
		}

		j := contentStart
		// Optional 산 marker, consumed only when digits actually follow; the
		// flag itself is handled by hasMountainMarker.
		if j < len(r) && r[j] == '산' {
			k := j + 1
			for k < len(r) && unicode.IsSpace(r[k]) {
				k++
			}
			if k < len(r) && isDigit(r[k]) {
				j = k
			}
		}

		d := j
		for d < len(r) && isDigit(r[d]) {
			d++
		}
		if n := d - j; n == 0 || n > 6 {
			i++
			continue
		}

		sp := lotSpan{start: spanStart, end: d, bun: atoi(r[j:d])}

		// Optional sub lot: hyphen then another bounded digit run. An
		// overlong run cancels just the sub lot, not the whole match.
		k := d
		for k < len(r) && unicode.IsSpace(r[k]) {
			k++
		}
		if k < len(r) && r[k] == '-' {
			k++
			for k < len(r) && unicode.IsSpace(r[k]) {
				k++
			}
			e := k
			for e < len(r) && isDigit(r[e]) {
				e++
			}
			if m := e - k; m >= 1 && m <= 6 {
				sp.ji = atoi(r[k:e])
				sp.hasJi = true
				sp.end = e
			}
		}

		spans = append(spans, sp)
		i = sp.end
	}
	return spans
}

func isBoundary(c rune) bool {
	return unicode.IsSpace(c) || c == ',' || c == '(' || c == ')'
}

func isDigit(c rune) bool { return c >= '0' && c <= '9' }

func atoi(digits []rune) int {
	n := 0
	for _, c := range digits {
		n = n*10 + int(c-'0')
	}
	return n
}
