package cache

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/quantmind-br/wploader-go/internal/domain"
)

// Ensure BadgerCache implements domain.Cache
var _ domain.Cache = (*BadgerCache)(nil)

// Entry is a cached HTTP response. Headers are kept so pagination
// metadata such as X-WP-TotalPages survives a cache hit.
type Entry struct {
	URL         string              `json:"url"`
	StatusCode  int                 `json:"status_code"`
	Headers     map[string][]string `json:"headers,omitempty"`
	Body        []byte              `json:"body"`
	ContentType string              `json:"content_type"`
	FetchedAt   time.Time           `json:"fetched_at"`
	ExpiresAt   time.Time           `json:"expires_at"`
}

// NewEntry captures resp for caching with the given ttl
func NewEntry(resp *domain.Response, ttl time.Duration) *Entry {
	now := time.Now()
	return &Entry{
		URL:         resp.URL,
		StatusCode:  resp.StatusCode,
		Headers:     resp.Headers,
		Body:        resp.Body,
		ContentType: resp.ContentType,
		FetchedAt:   now,
		ExpiresAt:   now.Add(ttl),
	}
}

// Response rebuilds the cached response
func (e *Entry) Response() *domain.Response {
	return &domain.Response{
		StatusCode:  e.StatusCode,
		Body:        e.Body,
		Headers:     domain.Header(e.Headers),
		ContentType: e.ContentType,
		URL:         e.URL,
		FromCache:   true,
	}
}

// IsExpired returns true if the entry has expired
func (e *Entry) IsExpired() bool {
	return time.Now().After(e.ExpiresAt)
}

// TTL returns the remaining time-to-live
func (e *Entry) TTL() time.Duration {
	remaining := time.Until(e.ExpiresAt)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Marshal encodes the entry for storage
func (e *Entry) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

// UnmarshalEntry decodes a stored entry
func UnmarshalEntry(data []byte) (*Entry, error) {
	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("corrupt cache entry: %w", err)
	}
	return &e, nil
}

// Options contains cache configuration options
type Options struct {
	Directory string
	InMemory  bool
	Logger    bool
}

// DefaultOptions returns default cache options
func DefaultOptions() Options {
	return Options{
		Directory: "",
		InMemory:  false,
		Logger:    false,
	}
}
