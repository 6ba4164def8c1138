// Package preferences implements the Kvs contract: a typed map of scalar
// values persisted through a PersistentCell, with batched atomic commits
// via Editor.
package preferences

import (
	"context"

	"github.com/santimattius/kmp-kvs-storage/internal/stream"
)

// Kvs is the preference store's public contract: snapshot getters, derived
// streams, and a batched editor.
type Kvs interface {
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
}
