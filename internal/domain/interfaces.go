package domain

//go:generate mockgen -destination=../mocks/domain_mock.go -package=mocks github.com/quantmind-br/wploader-go/internal/domain Fetcher,Sink,Reader

import (
	"context"
	"time"
)

// Fetcher defines the interface for HTTP fetching
type Fetcher interface {
	// Get fetches content from a URL
	Get(ctx context.Context, url string) (*Response, error)
	// GetWithHeaders fetches content with custom headers
	GetWithHeaders(ctx context.Context, url string, headers map[string]string) (*Response, error)
	// Close releases resources
	Close() error
}

// Cache defines the interface for response caching
type Cache interface {
	// Get retrieves a value from cache
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores a value in cache with TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Has checks if a key exists in cache
	Has(ctx context.Context, key string) bool
	// Delete removes a key from cache
	Delete(ctx context.Context, key string) error
	// Close releases cache resources
	Close() error
}

// Sink is the write side of the entry store
type Sink interface {
	// Set writes an entry, replacing any entry with the same kind and id
	Set(ctx context.Context, entry Entry) error
	// Clear removes every entry of a kind
	Clear(ctx context.Context, kind Kind) error
}

// Reader is the read side of the entry store
type Reader interface {
	// Get returns a single entry or ErrNotFound
	Get(ctx context.Context, kind Kind, id string) (*Entry, error)
	// Collection returns every entry of a kind in insertion order
	Collection(ctx context.Context, kind Kind) ([]Entry, error)
}

// Store combines both sides of the entry store
type Store interface {
	Sink
	Reader
	// Close releases store resources
	Close() error
}
