package store

import (
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"demandcast/pkg/errors"
)

// BadgerStore is the embedded ArtifactStore used in production. BadgerDB
// gives durable, low-latency local storage and is safe for concurrent use,
// which is what the parallel build flow needs.
type BadgerStore struct {
	db *badger.DB
}

// badgerLogger adapts zerolog to badger's Logger interface.
type badgerLogger struct {
	log zerolog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{})   { l.log.Error().Msgf(format, args...) }
func (l *badgerLogger) Warningf(format string, args ...interface{}) { l.log.Warn().Msgf(format, args...) }
func (l *badgerLogger) Infof(format string, args ...interface{})    { l.log.Debug().Msgf(format, args...) }
func (l *badgerLogger) Debugf(format string, args ...interface{})   { l.log.Debug().Msgf(format, args...) }

// OpenBadger opens a persistent artifact store at path, creating the
// directory when missing.
func OpenBadger(path string, log zerolog.Logger) (*BadgerStore, error) {
	if err := os.MkdirAll(path, 0o750); err != nil {
		return nil, errors.Wrapf(err, "creating artifact directory %s", path)
	}
	opts := badger.DefaultOptions(path).
		WithLogger(&badgerLogger{log: log})
	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrap(err, "opening artifact store")
	}
	return &BadgerStore{db: db}, nil
}

// OpenBadgerInMemory opens a throwaway in-memory store, used by tests.
func OpenBadgerInMemory() (*BadgerStore, error) {
	opts := badger.DefaultOptions("").
		WithInMemory(true).
		WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrap(err, "opening in-memory artifact store")
	}
	return &BadgerStore{db: db}, nil
}

// Put stores value under key, overwriting any previous artifact.
func (s *BadgerStore) Put(key string, value []byte) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
	return errors.Wrapf(err, "storing artifact %s", key)
}

// Get retrieves the artifact stored under key. A missing key yields an
// ArtifactNotFoundError.
func (s *BadgerStore) Get(key string) ([]byte, error) {
	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, errors.NewArtifactNotFoundError(key)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "loading artifact %s", key)
	}
	return value, nil
}

// Exists reports whether an artifact is stored under key.
func (s *BadgerStore) Exists(key string) (bool, error) {
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(key))
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "checking artifact %s", key)
	}
	return true, nil
}

// Close releases the underlying database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}
