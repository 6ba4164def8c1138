package ttl

import (
	"context"
	"time"

	"github.com/santimattius/kmp-kvs-storage/internal/stream"
)

// KvsExtended is the TTL-aware analog of preferences.Kvs: every getter is
// liveness-aware (an expired entry reads back as its default, never as the
// stale value) and every put accepts an optional per-key duration.
type KvsExtended interface {
	GetString(ctx context.Context, key, def string) (string, error)
	GetInt32(ctx context.Context, key string, def int32) (int32, error)
	GetInt64(ctx context.Context, key string, def int64) (int64, error)
	GetFloat32(ctx context.Context, key string, def float32) (float32, error)
	GetBool(ctx context.Context, key string, def bool) (bool, error)
	GetAll(ctx context.Context) (map[string]string, error)
	Contains(ctx context.Context, key string) (bool, error)

	StringStream(key, def string) *stream.Broadcast[string]
	Int32Stream(key string, def int32) *stream.Broadcast[int32]
	Int64Stream(key string, def int64) *stream.Broadcast[int64]
	Float32Stream(key string, def float32) *stream.Broadcast[float32]
	BoolStream(key string, def bool) *stream.Broadcast[bool]
	AllStream() *stream.Broadcast[map[string]string]

	Edit() *Editor
	CleanupJob(interval time.Duration, opts ...CleanupOption) *CleanupJob
}
