package state

import "context"

// KV is the durable local record store. Values are opaque blobs; callers
// own their encoding.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Record keys.
const (
	KeyUserProgress = "userProgress"
	KeyUserProfile  = "userProfile"
)
