// Package keyval abstracts the persistent key-value store that holds all
// fitbuddy state: the session marker, the user profile, and the three
// record collections, each serialized as a whole JSON blob under its key.
package keyval

import (
	"context"
	"errors"
)

var ErrKeyNotFound = errors.New("key not found")

type Store interface {
	// Get returns the blob stored under key, or ErrKeyNotFound
	Get(ctx context.Context, key string) (string, error)
	// Set stores the blob under key, replacing any previous value
	Set(ctx context.Context, key, value string) error
	// Del removes the given keys; missing keys are not an error
	Del(ctx context.Context, keys ...string) error
}
