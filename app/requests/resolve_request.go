package requests

// ResolveRequest is the single-query POST body.
type ResolveRequest struct {
	Text    string         `json:"text" binding:"required"`
	Options ResolveOptions `json:"options,omitempty"`
}

// ResolveOptions tunes one request. UseCache defaults to true; a literal
// false skips both cache read and write.
type ResolveOptions struct {
	UseCache *bool `json:"use_cache,omitempty"`
	Suggest  *bool `json:"suggest,omitempty"`
}

// CacheEnabled resolves the UseCache default.
func (o ResolveOptions) CacheEnabled() bool {
	return o.UseCache == nil || *o.UseCache
}

// SuggestEnabled resolves the Suggest default. A literal false skips the
// near-miss lookup on unmatched queries.
func (o ResolveOptions) SuggestEnabled() bool {
	return o.Suggest == nil || *o.Suggest
}

// BatchResolveRequest starts a background batch job.
type BatchResolveRequest struct {
	Texts   []string       `json:"texts" binding:"required,min=1,max=20000"`
	Options ResolveOptions `json:"options,omitempty"`
}
