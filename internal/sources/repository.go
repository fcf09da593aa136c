// Package sources manages the user-added custom API source list: the
// only runtime-mutable input to aggregation. Validation is a pure
// function so the persistence backend (redis or in-memory) is
// swappable without touching it.
package sources

import (
	"context"
	"errors"
	"net/url"
)

var (
	// ErrInvalidURL rejects custom source URLs that are not absolute
	// http(s) URLs.
	ErrInvalidURL = errors.New("custom source must be an absolute http or https URL")
	// ErrNotFound is returned when removing or activating a URL that
	// was never added.
	ErrNotFound = errors.New("custom source not found")
)

// Repository is the custom source list. At most one source is active
// at a time; the active source is included in aggregation rounds as an
// extra JSON input alongside the default feeds.
type Repository interface {
	List(ctx context.Context) ([]string, error)
	Add(ctx context.Context, rawURL string) error
	Remove(ctx context.Context, rawURL string) error
	Active(ctx context.Context) (string, error)
	// SetActive marks one stored URL as the active custom API. An
	// empty URL clears the selection.
	SetActive(ctx context.Context, rawURL string) error
}

// IsValidHTTPURL reports whether s is a well-formed absolute
// http/https URL with a host.
func IsValidHTTPURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
