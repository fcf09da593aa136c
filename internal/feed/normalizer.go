package feed

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"regexp"
	"strings"
	"time"

	"github.com/feedwire/newsdesk/internal/models"
	"github.com/mmcdole/gofeed"
)

const (
	// fallbackTitle replaces a missing upstream title so no article
	// reaches downstream stages with an empty one.
	fallbackTitle = "Untitled"
	// fallbackCustomSource labels custom API items that carry no
	// source field of their own.
	fallbackCustomSource = "Custom API"
	fallbackFeedSource   = "Unknown"
)

// Normalizer converts heterogeneous upstream payloads (RSS 2.0, Atom,
// ad-hoc JSON) into the canonical Article shape. Malformed individual
// items are skipped; only a payload that cannot be parsed at the top
// level is reported as an error, in which case the aggregator treats
// the whole source as failed.
type Normalizer struct {
	feedParser   *gofeed.Parser
	htmlTagRegex *regexp.Regexp
}

func NewNormalizer() *Normalizer {
	return &Normalizer{
		feedParser:   gofeed.NewParser(),
		htmlTagRegex: regexp.MustCompile(`<[^>]*>`),
	}
}

// NormalizeFeed parses an RSS or Atom payload fetched for the given
// descriptor. gofeed handles both shapes, including link elements that
// arrive as objects rather than strings.
func (n *Normalizer) NormalizeFeed(data []byte, desc Descriptor) ([]models.Article, error) {
	parsed, err := n.feedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed %s: %w", desc.URL, err)
	}

	sourceName := firstNonEmpty(parsed.Title, desc.Label, fallbackFeedSource)

	articles := make([]models.Article, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		url := strings.TrimSpace(item.Link)
		if url == "" && len(item.Links) > 0 {
			url = strings.TrimSpace(item.Links[0])
		}
		if url == "" {
			// No resolvable URL means no identity key; drop the item.
			continue
		}

		articles = append(articles, models.Article{
			Title:       firstNonEmpty(n.CleanHTML(item.Title), fallbackTitle),
			Description: n.CleanHTML(firstNonEmpty(item.Description, item.Content)),
			URL:         url,
			ImageURL:    feedItemImage(item),
			SourceName:  sourceName,
			PublishedAt: feedItemTime(item),
			Category:    desc.Category,
		})
	}

	return articles, nil
}

// NormalizeJSON parses a custom API payload: either a bare array of
// article-like objects, or an object wrapping one under "articles" or
// "items". Field names vary wildly across third-party endpoints, so
// every field goes through a defensive coercion.
func (n *Normalizer) NormalizeJSON(data []byte) ([]models.Article, error) {
	items, err := decodeItemList(data)
	if err != nil {
		return nil, err
	}

	var articles []models.Article
	for _, raw := range items {
		item, ok := raw.(map[string]any)
		if !ok {
			continue
		}

		url := asURL(pick(item, "url", "link", "href"))
		if url == "" {
			continue
		}

		articles = append(articles, models.Article{
			Title:       firstNonEmpty(n.CleanHTML(asText(pick(item, "title", "name"))), fallbackTitle),
			Description: n.CleanHTML(asText(pick(item, "description", "summary", "content"))),
			URL:         url,
			ImageURL:    asURL(pick(item, "image", "imageUrl", "image_url", "urlToImage")),
			SourceName:  firstNonEmpty(jsonSourceName(item), fallbackCustomSource),
			PublishedAt: parseTimestamp(asText(pick(item, "publishedAt", "published", "pubDate", "date", "updated_at"))),
			Category:    asText(pick(item, "category")),
		})
	}

	return articles, nil
}

// CleanHTML removes HTML tags and normalizes whitespace
func (n *Normalizer) CleanHTML(input string) string {
	cleaned := n.htmlTagRegex.ReplaceAllString(input, " ")
	cleaned = html.UnescapeString(cleaned)
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	return strings.TrimSpace(cleaned)
}

func decodeItemList(data []byte) ([]any, error) {
	var list []any
	if err := json.Unmarshal(data, &list); err == nil {
		return list, nil
	}

	var wrapper map[string]any
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil, fmt.Errorf("failed to parse custom API response: %w", err)
	}
	for _, key := range []string{"articles", "items"} {
		if list, ok := wrapper[key].([]any); ok {
			return list, nil
		}
	}
	return nil, fmt.Errorf("custom API response has no articles or items array")
}

// jsonSourceName resolves the source label across the field shapes
// seen in the wild: {source: {name}}, {source: "x"}, {site}, {domain}.
func jsonSourceName(item map[string]any) string {
	if src, ok := item["source"].(map[string]any); ok {
		if name := asText(src["name"]); name != "" {
			return name
		}
	}
	return asText(pick(item, "source", "site", "domain"))
}

// asText coerces a loosely typed upstream value into a string. Link
// fields in particular arrive as plain strings, {href: "..."} objects
// (Atom) or {_: "..."} objects (lenient XML-to-JSON converters).
func asText(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case map[string]any:
		for _, key := range []string{"href", "_", "#text"} {
			if s, ok := t[key].(string); ok {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}

func asURL(v any) string {
	s := asText(v)
	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
		return s
	}
	return ""
}

func pick(item map[string]any, keys ...string) any {
	for _, key := range keys {
		if v, ok := item[key]; ok && v != nil {
			if asText(v) != "" {
				return v
			}
		}
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func feedItemTime(item *gofeed.Item) *time.Time {
	if item.PublishedParsed != nil {
		return item.PublishedParsed
	}
	if item.UpdatedParsed != nil {
		return item.UpdatedParsed
	}
	return nil
}

func feedItemImage(item *gofeed.Item) string {
	if item.Image != nil && item.Image.URL != "" {
		return item.Image.URL
	}
	for _, enc := range item.Enclosures {
		if strings.HasPrefix(enc.Type, "image/") && enc.URL != "" {
			return enc.URL
		}
	}
	return ""
}

// timestampLayouts are tried in order; anything unparseable yields a
// nil PublishedAt rather than an error.
var timestampLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	time.RFC1123Z,
	time.RFC1123,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTimestamp(value string) *time.Time {
	if value == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			utc := ts.UTC()
			return &utc
		}
	}
	return nil
}
