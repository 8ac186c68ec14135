// Package index holds the in-memory district index built once from the
// 법정동 reference table, and the tiered resolution algorithm that maps a
// district name (or a whole cleaned address) to its 10-digit code.
package index

import (
	"strings"

	"github.com/pnu-resolver/app/models"
	"github.com/pnu-resolver/internal/normalizer"
	"github.com/pnu-resolver/internal/parser"
)

// Reason classifies an unresolved lookup.
type Reason string

const (
	ReasonNone                 Reason = ""
	ReasonEmptyQuery           Reason = "EMPTY_QUERY"
	ReasonNotFound             Reason = "NOT_FOUND"
	ReasonAmbiguousSiguEmd     Reason = "AMBIGUOUS_SIGU_EMD"
	ReasonAmbiguousProvinceEmd Reason = "AMBIGUOUS_PROVINCE_EMD"
	ReasonAmbiguousEmd         Reason = "AMBIGUOUS_EMD"
	ReasonAmbiguousSubstring   Reason = "AMBIGUOUS_SUBSTRING"
)

// Result is the outcome of one resolution attempt: either a single code or
// an unresolved reason, possibly with the ambiguous candidate names in
// reference-table order.
type Result struct {
	OK         bool
	Code10     string
	Matched    string
	Reason     Reason
	Candidates []string
}

// entry is one reference row decomposed for the secondary lookup maps.
type entry struct {
	full string
	code string
	si   string
	sigu string
}

type siguEmdKey struct {
	sigu string
	emd  string
}

// Index is immutable after Build and safe for concurrent lookups.
type Index struct {
	rows []models.DistrictRecord

	// fulls keeps the unique full names in first-appearance order so that
	// linear scans and candidate lists stay deterministic; Go map iteration
	// order would not be.
	fulls      []string
	byFull     map[string]string
	bySiguEmd  map[siguEmdKey][]entry
	byEmd      map[string][]entry
	duplicates int
}

// Build constructs the index from reference rows. Duplicate full names keep
// their first position but the later row's code wins; this matches the
// historical loader behavior and is deliberate, not accidental.
func Build(rows []models.DistrictRecord) *Index {
	ix := &Index{
		rows:      rows,
		byFull:    make(map[string]string, len(rows)),
		bySiguEmd: make(map[siguEmdKey][]entry),
		byEmd:     make(map[string][]entry),
	}

	for _, r := range rows {
		full := normalizer.CollapseSpaces(r.FullName)
		si, sigu, emd := splitParts(full)

		if _, seen := ix.byFull[full]; seen {
			ix.duplicates++
		} else {
			ix.fulls = append(ix.fulls, full)
		}
		ix.byFull[full] = r.Code10

		if emd != "" {
			e := entry{full: full, code: r.Code10, si: si, sigu: sigu}
			if sigu != "" {
				k := siguEmdKey{sigu: sigu, emd: emd}
				ix.bySiguEmd[k] = append(ix.bySiguEmd[k], e)
			}
			ix.byEmd[emd] = append(ix.byEmd[emd], e)
		}
	}

	return ix
}

// Len returns the number of reference rows.
func (ix *Index) Len() int { return len(ix.rows) }

// Duplicates returns how many rows repeated an earlier full name.
func (ix *Index) Duplicates() int { return ix.duplicates }

// Rows returns the loaded reference rows in table order.
func (ix *Index) Rows() []models.DistrictRecord { return ix.rows }

// splitParts decomposes a full name into (province, secondary unit, lowest
// unit). One token is a bare province; with two or more tokens the lowest
// unit is always the last.
func splitParts(full string) (si, sigu, emd string) {
	parts := strings.Fields(full)
	switch len(parts) {
	case 0:
		return "", "", ""
	case 1:
		return parts[0], "", ""
	case 2:
		return parts[0], "", parts[1]
	default:
		return parts[0], parts[1], parts[len(parts)-1]
	}
}

// ResolveName resolves a lot-number-free district name through the tier
// ladder: exact full name, tail-of-3, two-token (sigu+emd, then
// province+emd), single-token emd. The first tier that yields any match,
// unique or ambiguous, decides the outcome.
func (ix *Index) ResolveName(name string) Result {
	q := normalizer.CollapseSpaces(name)
	if q == "" {
		return Result{Reason: ReasonEmptyQuery}
	}

	parts := strings.Fields(q)
	parts[0] = normalizer.CanonicalProvince(parts[0])

	// Tier 1: exact full-name match.
	full := strings.Join(parts, " ")
	if code, ok := ix.byFull[full]; ok {
		return Result{OK: true, Code10: code, Matched: full}
	}

	// Tier 2: the trailing three tokens are the most reliable 3-part name
	// even when descriptive tokens precede them.
	if len(parts) >= 3 {
		tail := normalizer.CanonicalProvince(parts[len(parts)-3]) + " " +
			parts[len(parts)-2] + " " + parts[len(parts)-1]
		if code, ok := ix.byFull[tail]; ok {
			return Result{OK: true, Code10: code, Matched: tail}
		}
	}

	// Tier 3: two tokens, read either as (secondary unit, lowest unit) or
	// as (province, lowest unit).
	if len(parts) == 2 {
		a, b := parts[0], parts[1]

		if strings.HasSuffix(a, "구") || strings.HasSuffix(a, "군") || strings.HasSuffix(a, "시") {
			if hits := ix.bySiguEmd[siguEmdKey{sigu: a, emd: b}]; len(hits) == 1 {
				return Result{OK: true, Code10: hits[0].code, Matched: hits[0].full}
			} else if len(hits) > 1 {
				return Result{Reason: ReasonAmbiguousSiguEmd, Candidates: fullNames(hits)}
			}
		}

		si := normalizer.CanonicalProvince(a)
		var hits []entry
		for _, fn := range ix.fulls {
			hsi, _, hemd := splitParts(fn)
			if hsi == si && hemd == b {
				hits = append(hits, entry{full: fn, code: ix.byFull[fn]})
			}
		}
		switch len(hits) {
		case 0:
			return Result{Reason: ReasonNotFound}
		case 1:
			return Result{OK: true, Code10: hits[0].code, Matched: hits[0].full}
		default:
			return Result{Reason: ReasonAmbiguousProvinceEmd, Candidates: fullNames(hits)}
		}
	}

	// Tier 4: single token taken as a lowest-level unit name.
	if len(parts) == 1 {
		hits := ix.byEmd[parts[0]]
		switch len(hits) {
		case 0:
			return Result{Reason: ReasonNotFound}
		case 1:
			return Result{OK: true, Code10: hits[0].code, Matched: hits[0].full}
		default:
			return Result{Reason: ReasonAmbiguousEmd, Candidates: fullNames(hits)}
		}
	}

	return Result{Reason: ReasonNotFound}
}

// ResolveAddress strips the lot number off a cleaned address, runs the name
// tiers, and falls back to a substring scan of the whole address when the
// tiers produced neither a match nor a candidate set.
func (ix *Index) ResolveAddress(cleaned string) Result {
	namePart := normalizer.CollapseSpaces(parser.Strip(cleaned))

	res := ix.ResolveName(namePart)
	if res.OK || len(res.Candidates) > 0 {
		return res
	}

	// Last resort: a reference full name spelled out contiguously anywhere
	// in the address, lot number and all.
	var hits []string
	for _, fn := range ix.fulls {
		if strings.Contains(cleaned, fn) {
			hits = append(hits, fn)
		}
	}
	switch len(hits) {
	case 0:
		if res.Reason == ReasonEmptyQuery {
			return res
		}
		return Result{Reason: ReasonNotFound}
	case 1:
		return Result{OK: true, Code10: ix.byFull[hits[0]], Matched: hits[0]}
	default:
		return Result{Reason: ReasonAmbiguousSubstring, Candidates: hits}
	}
}

func fullNames(hits []entry) []string {
	names := make([]string, len(hits))
	for i, h := range hits {
		names[i] = h.full
	}
	return names
}
