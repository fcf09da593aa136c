package sources

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepository keeps the custom source list in memory. Used in
// tests and when no REDIS_URL is configured.
type MemoryRepository struct {
	mu     sync.Mutex
	urls   map[string]struct{}
	active string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		urls: make(map[string]struct{}),
	}
}

func (m *MemoryRepository) Close() error {
	return nil
}

func (m *MemoryRepository) List(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	urls := make([]string, 0, len(m.urls))
	for u := range m.urls {
		urls = append(urls, u)
	}
	sort.Strings(urls)
	return urls, nil
}

func (m *MemoryRepository) Add(ctx context.Context, rawURL string) error {
	if !IsValidHTTPURL(rawURL) {
		return ErrInvalidURL
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.urls[rawURL] = struct{}{}
	return nil
}

func (m *MemoryRepository) Remove(ctx context.Context, rawURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.urls[rawURL]; !ok {
		return ErrNotFound
	}
	delete(m.urls, rawURL)
	if m.active == rawURL {
		m.active = ""
	}
	return nil
}

func (m *MemoryRepository) Active(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active, nil
}

func (m *MemoryRepository) SetActive(ctx context.Context, rawURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if rawURL == "" {
		m.active = ""
		return nil
	}
	if _, ok := m.urls[rawURL]; !ok {
		return ErrNotFound
	}
	m.active = rawURL
	return nil
}
