// Package store holds the entry sinks that loaders write into and read
// commands query.
package store

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/quantmind-br/wploader-go/internal/domain"
)

// Backend names
const (
	BackendBadger = "badger"
	BackendMemory = "memory"
)

// Options selects and configures a store backend
type Options struct {
	Backend   string
	Directory string
	InMemory  bool
	Logger    bool
}

// New opens the store selected by opts.Backend
func New(opts Options) (domain.Store, error) {
	switch strings.ToLower(opts.Backend) {
	case "", BackendBadger:
		return NewBadgerStore(opts)
	case BackendMemory:
		return NewMemoryStore(), nil
	}
	return nil, domain.NewConfigError("store.backend", "use badger or memory", fmt.Errorf("unknown backend %q", opts.Backend))
}

const keyRoot = "entry/"

func kindPrefix(kind domain.Kind) string {
	return keyRoot + string(kind) + "/"
}

func entryKey(kind domain.Kind, id string) string {
	return kindPrefix(kind) + id
}

// record is the stored form of an entry. Seq preserves insertion order.
type record struct {
	Seq   uint64       `json:"seq"`
	Entry domain.Entry `json:"entry"`
}

func encodeRecord(r record) ([]byte, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to encode entry %s/%s: %w", r.Entry.Kind, r.Entry.ID, err)
	}
	return data, nil
}

func decodeRecord(data []byte) (record, error) {
	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		return record{}, fmt.Errorf("corrupt stored entry: %w", err)
	}
	return r, nil
}

func validateEntry(e domain.Entry) error {
	if e.Kind == "" {
		return fmt.Errorf("entry %q has no kind", e.ID)
	}
	if e.ID == "" {
		return fmt.Errorf("entry of kind %s has no id", e.Kind)
	}
	return nil
}

func sortedEntries(records []record) []domain.Entry {
	sort.Slice(records, func(i, j int) bool { return records[i].Seq < records[j].Seq })
	entries := make([]domain.Entry, len(records))
	for i, r := range records {
		entries[i] = r.Entry
	}
	return entries
}

func notFound(kind domain.Kind, id string) error {
	return fmt.Errorf("%w: %s/%s", domain.ErrNotFound, kind, id)
}
