package session

import (
	"context"
	"errors"
)

// ErrNotFound indicates no record exists under the requested key.
var ErrNotFound = errors.New("session record not found")

// Event announces that a key in the shared store changed. It carries only
// the key: the record may already have been rewritten by the time a consumer
// reacts, so consumers must re-read the store rather than trust any payload.
type Event struct {
	Key string
}

// Store is the shared key/value backend for session records. Values are
// opaque JSON blobs; expiry enforcement beyond the backend's own TTL is the
// Manager's job. Writes are last-write-wins: the record is a convenience
// cache, not a source of truth.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error

	// Watch returns a channel of change events. The channel closes when ctx
	// is done. Slow consumers may miss events; they must treat the stream as
	// eventually consistent.
	Watch(ctx context.Context) (<-chan Event, error)
}
