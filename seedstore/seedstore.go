// Package seedstore persists minimal failing candidates between test runs.
//
// When a run finds and shrinks a failure, the minimal candidate is stored
// under the test name; the next run replays it before generating fresh
// candidates, so a once-found failure keeps reproducing until it is fixed.
package seedstore

import (
	stderrors "errors"

	badger "github.com/dgraph-io/badger/v2"
	"github.com/pkg/errors"
)

// Returned by Get when no failing candidate is stored for the test.
var NotFoundError = stderrors.New("seedstore: no failing candidate stored")

// Store is a key-value store of encoded failing candidates, keyed by test
// name.
type Store struct {
	db *badger.DB
}

// Open opens the store in dirPath. An empty path opens an in-memory store,
// useful for tests.
func Open(dirPath string) (*Store, error) {
	var badgerOpts badger.Options
	if dirPath == "" {
		badgerOpts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		badgerOpts = badger.DefaultOptions(dirPath).WithSyncWrites(false).WithTruncate(true)
	}
	badgerOpts = badgerOpts.WithLogger(nil)

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, errors.WithMessage(err, "could not open backing db")
	}

	return &Store{
		db: db,
	}, nil
}

// Put stores the encoded candidate for the test, replacing any previous one.
func (s *Store) Put(test string, data []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(test), data)
	})
}

// Get returns the encoded candidate stored for the test, or NotFoundError.
func (s *Store) Get(test string) ([]byte, error) {
	var valCopy []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(test))
		if err != nil {
			return err
		}

		valCopy, err = item.ValueCopy(nil)
		return err
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return nil, NotFoundError
	}

	return valCopy, err
}

// Delete removes the stored candidate for the test, if any.
func (s *Store) Delete(test string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(test))
	})
}

// List calls fn for every stored test, in key order.
func (s *Store) List(fn func(test string, data []byte) error) error {
	return s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			data, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			if err := fn(string(item.Key()), data); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) Sync() error {
	return s.db.Sync()
}

func (s *Store) Close() {
	s.db.Close()
}
