package models

// ResolveRecord is the full per-request resolution output. Every field is
// present in the JSON even when the lookup failed; the nullable ones carry
// null so clients can rely on the shape.
type ResolveRecord struct {
	OK         bool    `json:"ok"`         // true iff a code10 was resolved
	Input      string  `json:"input"`      // original text as received
	Normalized string  `json:"normalized"` // after recovery + canonicalization
	Full       *string `json:"full"`       // matched reference full name
	AdmCd10    *string `json:"admCd10"`    // resolved 10-digit district code
	Bun        *string `json:"bun"`        // zero-padded main lot
	Ji         *string `json:"ji"`         // zero-padded sub lot
	MtYn       *string `json:"mtYn"`       // mountain-lot flag, "0" or "1"
	Pnu        *string `json:"pnu"`        // 19-digit identifier, when assemblable
	Source     string  `json:"source"`     // reference table origin, "csv"

	Romanized   *string  `json:"romanized,omitempty"`   // transliterated matched name
	Reason      string   `json:"reason,omitempty"`      // unresolved reason code
	Candidates  []string `json:"candidates,omitempty"`  // ambiguous matches, table order
	Suggestions []string `json:"suggestions,omitempty"` // near-miss names on NOT_FOUND
}

// Resolution status values mirrored from the resolution engine; kept as
// plain strings on the wire.
const (
	ReasonEmptyQuery           = "EMPTY_QUERY"
	ReasonNotFound             = "NOT_FOUND"
	ReasonAmbiguousSiguEmd     = "AMBIGUOUS_SIGU_EMD"
	ReasonAmbiguousProvinceEmd = "AMBIGUOUS_PROVINCE_EMD"
	ReasonAmbiguousEmd         = "AMBIGUOUS_EMD"
	ReasonAmbiguousSubstring   = "AMBIGUOUS_SUBSTRING"
)

// IsAmbiguous reports whether the record failed because more than one
// reference row matched.
func (rr *ResolveRecord) IsAmbiguous() bool {
	switch rr.Reason {
	case ReasonAmbiguousSiguEmd, ReasonAmbiguousProvinceEmd, ReasonAmbiguousEmd, ReasonAmbiguousSubstring:
		return true
	}
	return false
}
