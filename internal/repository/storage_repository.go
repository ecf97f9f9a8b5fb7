package repository

import (
	"context"
)

// ObjectStorage is the archive service's view of the backing object store.
// Keys are written once and never overwritten; immutability comes from the
// timestamped key scheme, not from the store.
type ObjectStorage interface {
	PutObject(ctx context.Context, key string, body []byte, metadata map[string]string) error
	GetObject(ctx context.Context, key string) ([]byte, error)
	RemoveObject(ctx context.Context, key string) error
	ListKeys(ctx context.Context, prefix string, maxKeys int) ([]string, error)
	ObjectExists(ctx context.Context, key string) (bool, error)
}
