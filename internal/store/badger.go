package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/dgraph-io/badger/v4"

	"github.com/quantmind-br/wploader-go/internal/domain"
)

// Ensure BadgerStore implements domain.Store
var _ domain.Store = (*BadgerStore)(nil)

const (
	seqKey       = "meta/seq"
	seqBandwidth = 1000
)

// BadgerStore persists entries in BadgerDB so read commands can query the
// result of an earlier build.
type BadgerStore struct {
	db  *badger.DB
	seq *badger.Sequence
}

// NewBadgerStore opens a BadgerDB-backed store
func NewBadgerStore(opts Options) (*BadgerStore, error) {
	var badgerOpts badger.Options

	if opts.InMemory {
		badgerOpts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if opts.Directory == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return nil, err
			}
			opts.Directory = filepath.Join(homeDir, ".wploader", "store")
		}
		if err := os.MkdirAll(opts.Directory, 0755); err != nil {
			return nil, err
		}
		badgerOpts = badger.DefaultOptions(opts.Directory)
	}

	if !opts.Logger {
		badgerOpts = badgerOpts.WithLogger(nil)
	}

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, err
	}

	seq, err := db.GetSequence([]byte(seqKey), seqBandwidth)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &BadgerStore{db: db, seq: seq}, nil
}

// Set writes an entry. Replacing an entry keeps its original position.
func (s *BadgerStore) Set(ctx context.Context, entry domain.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateEntry(entry); err != nil {
		return err
	}

	key := []byte(entryKey(entry.Kind, entry.ID))
	return s.db.Update(func(txn *badger.Txn) error {
		var seq uint64
		item, err := txn.Get(key)
		switch {
		case err == nil:
			var prev record
			if err := item.Value(func(val []byte) error {
				prev, err = decodeRecord(val)
				return err
			}); err != nil {
				return err
			}
			seq = prev.Seq
		case errors.Is(err, badger.ErrKeyNotFound):
			if seq, err = s.seq.Next(); err != nil {
				return err
			}
		default:
			return err
		}

		data, err := encodeRecord(record{Seq: seq, Entry: entry})
		if err != nil {
			return err
		}
		return txn.Set(key, data)
	})
}

// Clear removes every entry of kind
func (s *BadgerStore) Clear(ctx context.Context, kind domain.Kind) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// DropPrefix blocks writes to every kind, so keys are deleted in a batch.
	var keys [][]byte
	prefix := []byte(kindPrefix(kind))
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})
	if err != nil || len(keys) == 0 {
		return err
	}

	wb := s.db.NewWriteBatch()
	defer wb.Cancel()
	for _, key := range keys {
		if err := wb.Delete(key); err != nil {
			return err
		}
	}
	return wb.Flush()
}

// Get returns one entry or domain.ErrNotFound
func (s *BadgerStore) Get(ctx context.Context, kind domain.Kind, id string) (*domain.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var rec record
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(entryKey(kind, id)))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return notFound(kind, id)
			}
			return err
		}
		return item.Value(func(val []byte) error {
			rec, err = decodeRecord(val)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return &rec.Entry, nil
}

// Collection returns every entry of kind in insertion order
func (s *BadgerStore) Collection(ctx context.Context, kind domain.Kind) ([]domain.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var records []record
	prefix := []byte(kindPrefix(kind))
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := it.Item().Value(func(val []byte) error {
				rec, err := decodeRecord(val)
				if err != nil {
					return err
				}
				records = append(records, rec)
				return nil
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return sortedEntries(records), nil
}

// Close releases the sequence lease and the database
func (s *BadgerStore) Close() error {
	seqErr := s.seq.Release()
	if err := s.db.Close(); err != nil {
		return err
	}
	return seqErr
}
