package store

import (
	"context"
	"strings"
	"sync"

	"github.com/patrickmn/go-cache"

	"github.com/quantmind-br/wploader-go/internal/domain"
)

// Ensure MemoryStore implements domain.Store
var _ domain.Store = (*MemoryStore)(nil)

// MemoryStore keeps entries in process memory. It backs tests and dry runs.
type MemoryStore struct {
	mu    sync.Mutex
	items *cache.Cache
	seq   uint64
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: cache.New(cache.NoExpiration, 0)}
}

// Set writes an entry. Replacing an entry keeps its original position.
func (s *MemoryStore) Set(ctx context.Context, entry domain.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateEntry(entry); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := entryKey(entry.Kind, entry.ID)
	rec := record{Entry: entry}
	if prev, ok := s.items.Get(key); ok {
		rec.Seq = prev.(record).Seq
	} else {
		s.seq++
		rec.Seq = s.seq
	}
	s.items.Set(key, rec, cache.NoExpiration)
	return nil
}

// Clear removes every entry of kind
func (s *MemoryStore) Clear(ctx context.Context, kind domain.Kind) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prefix := kindPrefix(kind)
	for key := range s.items.Items() {
		if strings.HasPrefix(key, prefix) {
			s.items.Delete(key)
		}
	}
	return nil
}

// Get returns one entry or domain.ErrNotFound
func (s *MemoryStore) Get(ctx context.Context, kind domain.Kind, id string) (*domain.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	v, ok := s.items.Get(entryKey(kind, id))
	if !ok {
		return nil, notFound(kind, id)
	}
	entry := v.(record).Entry
	return &entry, nil
}

// Collection returns every entry of kind in insertion order
func (s *MemoryStore) Collection(ctx context.Context, kind domain.Kind) ([]domain.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := kindPrefix(kind)
	var records []record
	for key, item := range s.items.Items() {
		if strings.HasPrefix(key, prefix) {
			records = append(records, item.Object.(record))
		}
	}
	return sortedEntries(records), nil
}

// Len returns the number of stored entries across all kinds
func (s *MemoryStore) Len() int {
	return s.items.ItemCount()
}

// Close empties the store
func (s *MemoryStore) Close() error {
	s.items.Flush()
	return nil
}
