package curation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/feedwire/newsdesk/internal/models"
)

// ErrNoSummaries indicates the backend responded but nothing usable
// could be parsed out of it. Surfaced to the operator as a retry
// prompt.
var ErrNoSummaries = errors.New("summarization backend returned no usable summaries")

// Summarizer is one interchangeable summarization backend. It
// receives the full selection as a single batch and returns the raw
// response text; alignment back onto the input articles happens in
// SplitSummaries so every backend shares the same tolerance for
// short or oddly formatted responses.
type Summarizer interface {
	Name() string
	Summarize(ctx context.Context, articles []models.Article) (string, error)
}

// ordinalPrefix matches "1. ", "2) ", "3 - " and similar numbering at
// the start of a line.
var ordinalPrefix = regexp.MustCompile(`^\s*\d+\s*[.):\-]\s*`)

// SplitSummaries aligns a backend response onto the input order. Two
// response shapes are accepted: a JSON array of strings, or a text
// block with one numbered line per article. A response with fewer
// entries than articles is valid; trailing articles simply get no
// summary.
func SplitSummaries(raw string, count int) []string {
	raw = strings.TrimSpace(stripCodeFence(raw))
	if raw == "" {
		return nil
	}

	var arr []string
	if err := json.Unmarshal([]byte(raw), &arr); err == nil {
		return clip(arr, count)
	}

	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if !ordinalPrefix.MatchString(line) {
			// Preamble or filler the model added around the list.
			continue
		}
		if stripped := strings.TrimSpace(ordinalPrefix.ReplaceAllString(line, "")); stripped != "" {
			lines = append(lines, stripped)
		}
	}
	return clip(lines, count)
}

func clip(lines []string, count int) []string {
	out := make([]string, 0, count)
	for _, line := range lines {
		if len(out) == count {
			break
		}
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// stripCodeFence unwraps responses that arrive inside a markdown code
// block, which LLM backends are prone to despite instructions.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return s
}

// articleDigest renders the selection as a numbered list of
// title/description pairs, the shared body of every backend prompt.
func articleDigest(articles []models.Article) string {
	var b strings.Builder
	for i, a := range articles {
		fmt.Fprintf(&b, "%d. %s", i+1, oneLine(a.Title))
		if a.Description != "" {
			b.WriteString(" - ")
			b.WriteString(oneLine(a.Description))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
