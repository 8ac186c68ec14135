package index

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/xrash/smetrics"
)

// Suggestion is a near-miss district name with its similarity score.
type Suggestion struct {
	FullName string  `json:"full"`
	Score    float64 `json:"score"`
}

// Suggest scores the query against the lowest-unit token of every unique
// full name and returns the topK above minScore. The score blends
// Jaro-Winkler and normalized Levenshtein similarity; ties keep reference
// table order.
func (ix *Index) Suggest(query string, jwWeight, levWeight, minScore float64, topK int) []Suggestion {
	query = strings.TrimSpace(query)
	if query == "" || topK <= 0 {
		return nil
	}

	type scored struct {
		Suggestion
		pos int
	}
	var out []scored

	seen := make(map[string]bool)
	for pos, fn := range ix.fulls {
		_, _, emd := splitParts(fn)
		if emd == "" || seen[emd] {
			continue
		}
		seen[emd] = true

		jw := smetrics.JaroWinkler(query, emd, 0.7, 4)

		dist := levenshtein.ComputeDistance(query, emd)
		maxLen := len([]rune(query))
		if l := len([]rune(emd)); l > maxLen {
			maxLen = l
		}
		lev := 0.0
		if maxLen > 0 {
			lev = 1.0 - float64(dist)/float64(maxLen)
		}

		score := jwWeight*jw + levWeight*lev
		if score >= minScore {
			out = append(out, scored{Suggestion{FullName: fn, Score: score}, pos})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].pos < out[j].pos
	})

	if len(out) > topK {
		out = out[:topK]
	}
	res := make([]Suggestion, len(out))
	for i, s := range out {
		res[i] = s.Suggestion
	}
	return res
}
