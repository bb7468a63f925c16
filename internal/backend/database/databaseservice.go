package database

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no record is stored under the key.
var ErrNotFound = errors.New("record not found")

// DatabaseService is a key-value record store. Every Put replaces the whole
// value atomically: on failure the previous value is left untouched.
type DatabaseService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	// Delete removes the record. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	Close() error
}
