package curation

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/feedwire/newsdesk/internal/logger"
	"github.com/feedwire/newsdesk/internal/models"
)

var (
	// ErrUnknownBackend rejects a summarize request naming a backend
	// that was never registered.
	ErrUnknownBackend = errors.New("unknown summarization backend")
	// ErrNoSelection rejects summarizing an empty selection.
	ErrNoSelection = errors.New("nothing selected for summarization")
	// ErrSummaryNotFound is returned for an out-of-range summary index.
	ErrSummaryNotFound = errors.New("summary not found")
	// ErrNotPending rejects transitions on a summary that already
	// reached a terminal state.
	ErrNotPending = errors.New("summary is not pending")
)

// Session is one curation working set: the bounded article selection
// and the summaries generated from it. All methods are safe for
// concurrent use; the session is the only mutable state downstream of
// aggregation.
type Session struct {
	mu        sync.Mutex
	selection SelectionSet
	summaries []*models.Summary
}

// State is a consistent snapshot of a session for API responses.
type State struct {
	Selection []models.Article `json:"selection"`
	Summaries []models.Summary `json:"summaries"`
}

func (s *Session) Select(article models.Article) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.Select(article)
}

func (s *Session) Deselect(url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.Deselect(url)
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := State{
		Selection: s.selection.Articles(),
		Summaries: make([]models.Summary, len(s.summaries)),
	}
	for i, sum := range s.summaries {
		state.Summaries[i] = *sum
	}
	return state
}

// Summarize sends the current selection to the backend as one batch
// and replaces the session's working summaries with the result.
// Summaries are positionally correlated to the selection order; if the
// backend returns fewer lines than articles, the trailing articles are
// left unsummarized rather than failing the batch.
func (s *Session) Summarize(ctx context.Context, backend Summarizer) ([]models.Summary, error) {
	s.mu.Lock()
	articles := s.selection.Articles()
	s.mu.Unlock()

	if len(articles) == 0 {
		return nil, ErrNoSelection
	}

	raw, err := backend.Summarize(ctx, articles)
	if err != nil {
		return nil, fmt.Errorf("summarization via %s failed: %w", backend.Name(), err)
	}

	lines := SplitSummaries(raw, len(articles))
	if len(lines) == 0 {
		return nil, ErrNoSummaries
	}
	if len(lines) < len(articles) {
		logger.Get().Warn().
			Str("backend", backend.Name()).
			Int("requested", len(articles)).
			Int("received", len(lines)).
			Msg("Backend returned fewer summaries than articles")
	}

	summaries := make([]*models.Summary, len(lines))
	for i, line := range lines {
		summaries[i] = &models.Summary{
			Title:      articles[i].Title,
			Source:     articles[i].SourceName,
			ArticleURL: articles[i].URL,
			Text:       line,
			Status:     models.SummaryPending,
		}
	}

	s.mu.Lock()
	s.summaries = summaries
	s.mu.Unlock()

	out := make([]models.Summary, len(summaries))
	for i, sum := range summaries {
		out[i] = *sum
	}
	return out, nil
}

// Approve moves a pending summary to its terminal approved state and
// publishes it. A publish failure does not block the operator: the
// summary is still approved, with a locally composed share link in
// place of the sink's resource handle.
func (s *Session) Approve(ctx context.Context, index int, publisher Publisher) (models.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sum, err := s.summaryAt(index)
	if err != nil {
		return models.Summary{}, err
	}
	if sum.Status != models.SummaryPending {
		return models.Summary{}, ErrNotPending
	}

	sum.Status = models.SummaryApproved

	handle, err := publisher.Publish(ctx, sum.Text, sum.ArticleURL)
	if err != nil {
		logger.Get().Warn().
			Err(err).
			Str("article", sum.ArticleURL).
			Msg("Publish failed, falling back to share link")
		sum.PostURL = ShareIntentURL(sum.Text, sum.ArticleURL)
	} else {
		sum.PostURL = handle
	}

	return *sum, nil
}

// Reject removes a pending summary from the working set entirely.
func (s *Session) Reject(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sum, err := s.summaryAt(index)
	if err != nil {
		return err
	}
	if sum.Status != models.SummaryPending {
		return ErrNotPending
	}

	sum.Status = models.SummaryRejected
	s.summaries = append(s.summaries[:index], s.summaries[index+1:]...)
	return nil
}

func (s *Session) summaryAt(index int) (*models.Summary, error) {
	if index < 0 || index >= len(s.summaries) {
		return nil, ErrSummaryNotFound
	}
	return s.summaries[index], nil
}

// Manager owns the live sessions, keyed by a caller-chosen session
// id, plus the registered summarization backends and the publisher.
type Manager struct {
	mu          sync.Mutex
	sessions    map[string]*Session
	summarizers map[string]Summarizer
	publisher   Publisher
}

func NewManager(publisher Publisher, summarizers ...Summarizer) *Manager {
	byName := make(map[string]Summarizer, len(summarizers))
	for _, s := range summarizers {
		byName[s.Name()] = s
	}
	return &Manager{
		sessions:    make(map[string]*Session),
		summarizers: byName,
		publisher:   publisher,
	}
}

// Session returns the session for the given id, creating it on first
// use.
func (m *Manager) Session(id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[id]; ok {
		return s
	}
	s := &Session{}
	m.sessions[id] = s
	return s
}

// Backend resolves a registered summarizer by name.
func (m *Manager) Backend(name string) (Summarizer, error) {
	if s, ok := m.summarizers[name]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
}

// Publisher returns the configured publish sink.
func (m *Manager) Publisher() Publisher {
	return m.publisher
}
