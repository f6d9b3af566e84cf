package storage

import (
	"context"
	"time"
)

// Store is the persistence port used by the application controller. Values are
// opaque JSON blobs addressed by key.
type Store interface {
	LoadRaw(ctx context.Context, key string) ([]byte, bool, error)
	SaveRaw(ctx context.Context, key string, value []byte) error
	// SaveManyRaw writes every value in one atomic step.
	SaveManyRaw(ctx context.Context, values map[string][]byte) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
}

// KeyStats describes one stored blob.
type KeyStats struct {
	Key       string
	Bytes     int
	UpdatedAt time.Time
}
