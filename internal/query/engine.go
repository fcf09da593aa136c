// Package query filters, sorts and paginates a merged article set.
// Everything here is pure: identical inputs yield identical results,
// which is what makes presentation deterministic even though the
// aggregator merges sources in settle order.
package query

import (
	"sort"
	"strings"
	"time"

	"github.com/feedwire/newsdesk/internal/models"
)

// Sort orders accepted by Run. An unknown value falls back to
// SortNewest.
const (
	SortNewest    = "newest"
	SortOldest    = "oldest"
	SortTitleAsc  = "title-asc"
	SortTitleDesc = "title-desc"
)

const defaultPageSize = 20

// Params is one query over the merged set. Empty filter fields are
// no-ops. Page is 1-indexed.
type Params struct {
	Q        string
	Category string
	Source   string
	Sort     string
	Page     int
	PageSize int
}

// Engine applies queries with configured page-size bounds.
type Engine struct {
	minPageSize int
	maxPageSize int
}

func NewEngine(minPageSize, maxPageSize int) *Engine {
	if minPageSize < 1 {
		minPageSize = 5
	}
	if maxPageSize < minPageSize {
		maxPageSize = 50
	}
	return &Engine{minPageSize: minPageSize, maxPageSize: maxPageSize}
}

// Run filters, sorts and slices the article set. Facet metadata
// (AvailableSources, SourceCounts) is computed over the filtered but
// unpaginated set so the filter UI reflects the whole query, not just
// the visible page.
func (e *Engine) Run(articles []models.Article, p Params) models.QueryResult {
	filtered := filter(articles, p)
	sortArticles(filtered, p.Sort)

	page := p.Page
	if page < 1 {
		page = 1
	}
	pageSize := p.PageSize
	if pageSize == 0 {
		pageSize = defaultPageSize
	}
	if pageSize < e.minPageSize {
		pageSize = e.minPageSize
	}
	if pageSize > e.maxPageSize {
		pageSize = e.maxPageSize
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(filtered) {
		start = len(filtered)
	}
	if end > len(filtered) {
		end = len(filtered)
	}

	return models.QueryResult{
		Articles:         filtered[start:end],
		Total:            len(filtered),
		Page:             page,
		PageSize:         pageSize,
		AvailableSources: availableSources(filtered),
		SourceCounts:     sourceCounts(filtered),
	}
}

func filter(articles []models.Article, p Params) []models.Article {
	q := strings.ToLower(strings.TrimSpace(p.Q))
	out := make([]models.Article, 0, len(articles))

	for _, a := range articles {
		if p.Category != "" && a.Category != p.Category {
			continue
		}
		if p.Source != "" && a.SourceName != p.Source {
			continue
		}
		if q != "" && !matchesQuery(a, q) {
			continue
		}
		out = append(out, a)
	}
	return out
}

func matchesQuery(a models.Article, q string) bool {
	return strings.Contains(strings.ToLower(a.Title), q) ||
		strings.Contains(strings.ToLower(a.Description), q) ||
		strings.Contains(strings.ToLower(a.SourceName), q)
}

// publishedOrEpoch keeps the timestamp comparator total: articles
// without a parseable date sort as the oldest possible.
func publishedOrEpoch(a models.Article) time.Time {
	if a.PublishedAt == nil {
		return time.Unix(0, 0).UTC()
	}
	return *a.PublishedAt
}

func sortArticles(articles []models.Article, order string) {
	var less func(i, j int) bool

	switch order {
	case SortOldest:
		less = func(i, j int) bool {
			ti, tj := publishedOrEpoch(articles[i]), publishedOrEpoch(articles[j])
			if !ti.Equal(tj) {
				return ti.Before(tj)
			}
			return articles[i].URL < articles[j].URL
		}
	case SortTitleAsc:
		less = func(i, j int) bool {
			if articles[i].Title != articles[j].Title {
				return articles[i].Title < articles[j].Title
			}
			return articles[i].URL < articles[j].URL
		}
	case SortTitleDesc:
		less = func(i, j int) bool {
			if articles[i].Title != articles[j].Title {
				return articles[i].Title > articles[j].Title
			}
			return articles[i].URL < articles[j].URL
		}
	default: // SortNewest
		less = func(i, j int) bool {
			ti, tj := publishedOrEpoch(articles[i]), publishedOrEpoch(articles[j])
			if !ti.Equal(tj) {
				return ti.After(tj)
			}
			return articles[i].URL < articles[j].URL
		}
	}

	sort.SliceStable(articles, less)
}

func availableSources(articles []models.Article) []string {
	seen := make(map[string]struct{}, len(articles))
	var names []string
	for _, a := range articles {
		if _, ok := seen[a.SourceName]; ok {
			continue
		}
		seen[a.SourceName] = struct{}{}
		names = append(names, a.SourceName)
	}
	sort.Strings(names)
	return names
}

func sourceCounts(articles []models.Article) []models.SourceCount {
	counts := make(map[string]int, len(articles))
	for _, a := range articles {
		counts[a.SourceName]++
	}

	out := make([]models.SourceCount, 0, len(counts))
	for name, count := range counts {
		out = append(out, models.SourceCount{Name: name, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
