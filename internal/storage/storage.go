package storage

import (
	"context"
)

// Repository is the key/value persistence used to keep task statuses across
// process restarts.
type Repository interface {
	// Get returns the value stored for key, or model.ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value for key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error
}
