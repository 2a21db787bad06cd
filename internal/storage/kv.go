package storage

import (
	"context"
	"errors"
	"time"
)

// Persisted key names. The legacy key is only ever read, migrated and then
// deleted on reset.
const (
	CurrentKey = "ppd_v7"
	LegacyKey  = "ppd_v6"
)

var (
	ErrNotFound      = errors.New("storage: not found")
	ErrInvalidKey    = errors.New("storage: invalid key")
	ErrInvalidImport = errors.New("storage: invalid import")
	// ErrReadFailed means a stored document exists but could not be read.
	// The returned default must not be written over it.
	ErrReadFailed    = errors.New("storage: stored document could not be read")
)

// KV is a string-keyed byte store. Delete of a missing key is not an error.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Entry describes one stored key without its value.
type Entry struct {
	Key       string
	Size      int
	UpdatedAt time.Time
}

// Lister is implemented by stores that can enumerate their keys.
type Lister interface {
	List(ctx context.Context) ([]Entry, error)
}
