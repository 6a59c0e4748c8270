package roster

import (
	"context"
	"fmt"

	"github.com/dgraph-io/badger/v3"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/lox/derby/internal/race"
)

const badgerPrefix = "roster/"

// BadgerStore keeps one msgpack record per entrant under a common key
// prefix. Keys carry a zero-padded index so iteration preserves roster order.
type BadgerStore struct {
	db *badger.DB
}

// NewBadgerStore wraps an open database. The caller owns db.
func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

// OpenBadgerStore opens (or creates) a database in dir.
func OpenBadgerStore(dir string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %s: %w", dir, err)
	}
	return &BadgerStore{db: db}, nil
}

// Close closes the underlying database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

func badgerKey(i int) []byte {
	return []byte(fmt.Sprintf("%s%06d", badgerPrefix, i))
}

// Load reads every record under the roster prefix. An empty prefix yields
// ErrNotFound.
func (s *BadgerStore) Load(ctx context.Context) ([]*race.Entrant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var records []Record
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(badgerPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var rec Record
			if err := it.Item().Value(func(val []byte) error {
				return msgpack.Unmarshal(val, &rec)
			}); err != nil {
				return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
			}
			records = append(records, rec)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrNotFound
	}
	return ToEntrants(records)
}

// Save replaces the stored roster in a single transaction.
func (s *BadgerStore) Save(ctx context.Context, entrants []*race.Entrant) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	records := FromEntrants(entrants)
	return s.db.Update(func(txn *badger.Txn) error {
		var stale [][]byte
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		prefix := []byte(badgerPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			stale = append(stale, it.Item().KeyCopy(nil))
		}
		it.Close()

		for _, key := range stale {
			if err := txn.Delete(key); err != nil {
				return fmt.Errorf("delete %s: %w", key, err)
			}
		}

		for i, rec := range records {
			buf, err := msgpack.Marshal(rec)
			if err != nil {
				return fmt.Errorf("encode %s: %w", rec.Name, err)
			}
			if err := txn.Set(badgerKey(i), buf); err != nil {
				return fmt.Errorf("write %s: %w", rec.Name, err)
			}
		}
		return nil
	})
}
