// Package storage holds the small key-value port the cart persists its
// snapshot through.
package storage

import "context"

// KV is a string-keyed store of string values.
type KV interface {
	// Get returns the stored value and whether the key was present.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}
