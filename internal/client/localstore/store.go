// Package localstore is the storefront's local key-value cache, the
// equivalent of browser local storage. Values are opaque bytes; callers
// serialize what they keep.
package localstore

import (
	"github.com/pkg/errors"
)

// ErrKeyNotFound is returned by Get when the key is absent.
var ErrKeyNotFound = errors.New("key not found")

// Store is a flat string-keyed store.
type Store interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
	Delete(key string) error
	Keys() ([]string, error)
	// DeleteByPrefix removes every key starting with prefix and reports how many went.
	DeleteByPrefix(prefix string) (int, error)
	Close() error
}
