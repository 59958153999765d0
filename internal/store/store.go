// Package store provides the durable key-value persistence behind the quote
// collection and the selected category filter.
package store

import (
	"context"
	"errors"
)

// Keys used by quoted.
const (
	KeyQuotes           = "quotes"
	KeySelectedCategory = "selected_category"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("store is closed")

// Store persists opaque values by key. Writes to different keys are independent;
// there is no transaction spanning them.
type Store interface {
	// Get returns the value for key. ok is false when the key has never been written.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	// Put replaces the value for key.
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}
