package models

import "time"

// Article is the canonical shape every upstream payload is normalized
// into, regardless of whether it came from an RSS/Atom feed or a
// custom JSON API. URL is the identity key and is never empty for an
// article that survives normalization.
type Article struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	URL         string     `json:"url"`
	ImageURL    string     `json:"imageUrl,omitempty"`
	SourceName  string     `json:"sourceName"`
	PublishedAt *time.Time `json:"publishedAt"`
	Category    string     `json:"category,omitempty"`
}

// SourceCount is the per-source article count computed over a
// filtered result set.
type SourceCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// SourceReport describes the outcome of one source fetch within an
// aggregation round. Err is empty when the fetch succeeded.
type SourceReport struct {
	Name  string `json:"name"`
	URL   string `json:"url"`
	Count int    `json:"count"`
	Err   string `json:"error,omitempty"`
}

// QueryResult is one page of filtered articles plus the facet
// metadata the filter UI needs. AvailableSources and SourceCounts
// reflect the full filtered set, not just the visible page.
type QueryResult struct {
	Articles         []Article     `json:"articles"`
	Total            int           `json:"total"`
	Page             int           `json:"page"`
	PageSize         int           `json:"pageSize"`
	AvailableSources []string      `json:"availableSources"`
	SourceCounts     []SourceCount `json:"sourceCounts"`
}
