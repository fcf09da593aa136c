// Package curation drives the human workflow downstream of
// aggregation: a bounded selection of articles, batch summarization
// through a pluggable backend, and a per-summary approval state
// machine that ends in an external publish or a discard.
package curation

import (
	"errors"

	"github.com/feedwire/newsdesk/internal/models"
)

// MaxSelection bounds the curation working set. The summarization
// backends receive the whole selection as one batch request, so the
// bound also caps prompt size.
const MaxSelection = 5

var (
	// ErrSelectionFull rejects a sixth member without mutating the set.
	ErrSelectionFull = errors.New("selection is full: at most 5 articles can be curated at once")
	// ErrDuplicateSelection rejects an article whose URL is already selected.
	ErrDuplicateSelection = errors.New("article is already selected")
	// ErrNotSelected is returned when deselecting an unknown URL.
	ErrNotSelected = errors.New("article is not in the selection")
)

// SelectionSet is the ordered, bounded set of articles chosen for
// summarization. URL is the identity key; duplicates are rejected.
type SelectionSet struct {
	articles []models.Article
}

// Select appends an article. The set is left untouched on error.
func (s *SelectionSet) Select(article models.Article) error {
	if len(s.articles) >= MaxSelection {
		return ErrSelectionFull
	}
	for _, a := range s.articles {
		if a.URL == article.URL {
			return ErrDuplicateSelection
		}
	}
	s.articles = append(s.articles, article)
	return nil
}

// Deselect removes the article with the given URL, preserving the
// order of the rest.
func (s *SelectionSet) Deselect(url string) error {
	for i, a := range s.articles {
		if a.URL == url {
			s.articles = append(s.articles[:i], s.articles[i+1:]...)
			return nil
		}
	}
	return ErrNotSelected
}

// Articles returns a copy of the selection in insertion order.
func (s *SelectionSet) Articles() []models.Article {
	out := make([]models.Article, len(s.articles))
	copy(out, s.articles)
	return out
}

func (s *SelectionSet) Len() int {
	return len(s.articles)
}
