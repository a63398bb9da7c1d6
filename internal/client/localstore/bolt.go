package localstore

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

var bucketName = []byte("localStorage")

// BoltStore persists values in a single bbolt bucket.
type BoltStore struct {
	path   string
	db     *bolt.DB
	logger *slog.Logger
}

// OpenBoltStore creates the file and its directory if needed and opens it.
func OpenBoltStore(path string, logger *slog.Logger) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, errors.Wrapf(err, "unable to create directory for %s", path)
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open bolt file %s", path)
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)

		return err
	}); err != nil {
		_ = db.Close()

		return nil, errors.Wrap(err, "unable to create local storage bucket")
	}

	logger.Debug("Local store opened", slog.String("path", path))

	return &BoltStore{path: path, db: db, logger: logger}, nil
}

func (s *BoltStore) Get(key string) ([]byte, error) {
	var out []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketName).Get([]byte(key))
		if v == nil {
			return ErrKeyNotFound
		}
		// Values are only valid for the life of the transaction.
		out = slices.Clone(v)

		return nil
	})

	return out, err
}

func (s *BoltStore) Put(key string, value []byte) error {
	return errors.WithStack(s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte(key), value)
	}))
}

func (s *BoltStore) Delete(key string) error {
	return errors.WithStack(s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Delete([]byte(key))
	}))
}

func (s *BoltStore) Keys() ([]string, error) {
	var keys []string
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).ForEach(func(k, _ []byte) error {
			keys = append(keys, string(k))

			return nil
		})
	})

	return keys, errors.WithStack(err)
}

func (s *BoltStore) DeleteByPrefix(prefix string) (int, error) {
	n := 0
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName)
		p := []byte(prefix)

		// Collect first; deleting under a live cursor skips entries.
		var matched [][]byte
		c := b.Cursor()
		for k, _ := c.Seek(p); k != nil && bytes.HasPrefix(k, p); k, _ = c.Next() {
			matched = append(matched, slices.Clone(k))
		}
		for _, k := range matched {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		n = len(matched)

		return nil
	})
	if err != nil {
		return 0, errors.WithStack(err)
	}

	s.logger.Debug("Local store keys purged", slog.String("prefix", prefix), slog.Int("count", n))

	return n, nil
}

// Close releases the file lock.
func (s *BoltStore) Close() error {
	if s.db == nil {
		return nil
	}

	return errors.WithStack(s.db.Close())
}
