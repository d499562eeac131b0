package images

// Result is one resolved image for a free-text query. Width/Height and
// Thumbnail are nullable because the upstream search omits them freely.
type Result struct {
	URL        string  `json:"url"`
	Title      string  `json:"title"`
	Width      *int    `json:"width"`
	Height     *int    `json:"height"`
	Thumbnail  *string `json:"thumbnail"`
	SourcePage string  `json:"source_page"`
	Query      string  `json:"search_query"`
	CachedAt   string  `json:"cached_at"`
}
