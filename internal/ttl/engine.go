// Package ttl implements the expiring-entry store: the same typed
// get/put/stream/edit contract as preferences.Store, but every entry carries
// an absolute expiresAt and reads never return an expired value.
package ttl

import (
	"context"
	"time"

	"github.com/santimattius/kmp-kvs-storage/internal/cell"
	"github.com/santimattius/kmp-kvs-storage/internal/codec"
	"github.com/santimattius/kmp-kvs-storage/internal/crypto"
	"github.com/santimattius/kmp-kvs-storage/internal/logging"
	"github.com/santimattius/kmp-kvs-storage/internal/metrics"
	"github.com/santimattius/kmp-kvs-storage/internal/stream"
	"github.com/santimattius/kmp-kvs-storage/internal/ttlentry"
	"github.com/santimattius/kmp-kvs-storage/internal/valuekind"
)

// Engine wraps a PersistentCell[ttlentry.State] and implements KvsExtended.
type Engine struct {
	cell      *cell.PersistentCell[ttlentry.State]
	manager   *Manager
	encrypted bool
}

var _ KvsExtended = (*Engine)(nil)

// New builds an Engine backed by path. defaultTTL is used by puts that omit
// a per-key duration; a nil clock uses the system clock.
func New(path string, defaultTTL *time.Duration, clock Clock, encryptor crypto.Encryptor, logger logging.Logger) *Engine {
	opts := []cell.Option[ttlentry.State]{}
	encrypted := false
	if encryptor != nil {
		if _, passthrough := encryptor.(crypto.Passthrough); !passthrough {
			encrypted = true
		}
		opts = append(opts, cell.WithEncryptor[ttlentry.State](encryptor))
	}
	if logger != nil {
		opts = append(opts, cell.WithLogger[ttlentry.State](logger))
	}
	return &Engine{
		cell:      cell.New(path, codec.NewTTLCodec(), opts...),
		manager:   NewManager(defaultTTL, clock),
		encrypted: encrypted,
	}
}

// Cell exposes the underlying PersistentCell, mirroring preferences.Store.
func (e *Engine) Cell() *cell.PersistentCell[ttlentry.State] { return e.cell }

// Manager exposes the TTL math, mainly so a cleanup job can be built
// externally against the same clock.
func (e *Engine) Manager() *Manager { return e.manager }

func (e *Engine) lookup(ctx context.Context, key string) (string, bool, error) {
	state, err := e.cell.Read(ctx)
	if err != nil {
		return "", false, err
	}
	entry, ok := state[key]
	if !ok {
		return "", false, nil
	}
	if e.manager.IsExpired(entry.ExpiresAt) {
		return "", false, nil
	}
	return entry.Value, true, nil
}

func (e *Engine) GetString(ctx context.Context, key, def string) (string, error) {
	text, ok, err := e.lookup(ctx, key)
	if err != nil {
		return def, err
	}
	if !ok {
		return def, nil
	}
	return text, nil
}

func (e *Engine) GetInt32(ctx context.Context, key string, def int32) (int32, error) {
	text, ok, err := e.lookup(ctx, key)
	if err != nil {
		return def, err
	}
	if !ok {
		return def, nil
	}
	return valuekind.ParseInt32(text, def), nil
}

func (e *Engine) GetInt64(ctx context.Context, key string, def int64) (int64, error) {
	text, ok, err := e.lookup(ctx, key)
	if err != nil {
		return def, err
	}
	if !ok {
		return def, nil
	}
	return valuekind.ParseInt64(text, def), nil
}

func (e *Engine) GetFloat32(ctx context.Context, key string, def float32) (float32, error) {
	text, ok, err := e.lookup(ctx, key)
	if err != nil {
		return def, err
	}
	if !ok {
		return def, nil
	}
	return valuekind.ParseFloat32(text, def), nil
}

func (e *Engine) GetBool(ctx context.Context, key string, def bool) (bool, error) {
	text, ok, err := e.lookup(ctx, key)
	if err != nil {
		return def, err
	}
	if !ok {
		return def, nil
	}
	return valuekind.ParseBool(text, def), nil
}

// GetAll returns every non-expired entry's raw text, keyed by name. Any
// expired entries encountered are swept in a single UpdateData call before
// returning, so the persisted file never accumulates dead entries just from
// being read.
func (e *Engine) GetAll(ctx context.Context) (map[string]string, error) {
	state, err := e.cell.Read(ctx)
	if err != nil {
		return nil, err
	}

	expired := make([]string, 0)
	out := make(map[string]string, len(state))
	for key, entry := range state {
		if e.manager.IsExpired(entry.ExpiresAt) {
			expired = append(expired, key)
			continue
		}
		out[key] = entry.Value
	}

	if len(expired) > 0 {
		if _, err := e.cell.UpdateData(ctx, func(current ttlentry.State) ttlentry.State {
			next := current.Clone()
			for _, key := range expired {
				delete(next, key)
			}
			return next
		}); err != nil {
			return nil, err
		}
		metrics.ObserveCleanup(e.cell.Name(), "lazy_get_all", len(expired))
	}

	return out, nil
}

// Contains reports whether key is present AND not expired. This is the
// liveness-aware analog of preferences.Store.Contains, which knows nothing
// about expiration.
func (e *Engine) Contains(ctx context.Context, key string) (bool, error) {
	_, ok, err := e.lookup(ctx, key)
	return ok, err
}

func (e *Engine) snapshotAsText() func(ttlentry.State) map[string]string {
	manager := e.manager
	return func(state ttlentry.State) map[string]string {
		out := make(map[string]string, len(state))
		for key, entry := range state {
			if manager.IsExpired(entry.ExpiresAt) {
				continue
			}
			out[key] = entry.Value
		}
		return out
	}
}

func (e *Engine) StringStream(key, def string) *stream.Broadcast[string] {
	return stream.DistinctMap(e.cell.Snapshot(), func(state ttlentry.State) string {
		entry, ok := state[key]
		if !ok || e.manager.IsExpired(entry.ExpiresAt) {
			return def
		}
		return entry.Value
	})
}

func (e *Engine) Int32Stream(key string, def int32) *stream.Broadcast[int32] {
	return stream.DistinctMap(e.cell.Snapshot(), func(state ttlentry.State) int32 {
		entry, ok := state[key]
		if !ok || e.manager.IsExpired(entry.ExpiresAt) {
			return def
		}
		return valuekind.ParseInt32(entry.Value, def)
	})
}

func (e *Engine) Int64Stream(key string, def int64) *stream.Broadcast[int64] {
	return stream.DistinctMap(e.cell.Snapshot(), func(state ttlentry.State) int64 {
		entry, ok := state[key]
		if !ok || e.manager.IsExpired(entry.ExpiresAt) {
			return def
		}
		return valuekind.ParseInt64(entry.Value, def)
	})
}

func (e *Engine) Float32Stream(key string, def float32) *stream.Broadcast[float32] {
	return stream.DistinctMap(e.cell.Snapshot(), func(state ttlentry.State) float32 {
		entry, ok := state[key]
		if !ok || e.manager.IsExpired(entry.ExpiresAt) {
			return def
		}
		return valuekind.ParseFloat32(entry.Value, def)
	})
}

func (e *Engine) BoolStream(key string, def bool) *stream.Broadcast[bool] {
	return stream.DistinctMap(e.cell.Snapshot(), func(state ttlentry.State) bool {
		entry, ok := state[key]
		if !ok || e.manager.IsExpired(entry.ExpiresAt) {
			return def
		}
		return valuekind.ParseBool(entry.Value, def)
	})
}

// AllStream emits the current non-expired {key: value} map on every
// committed change, de-duplicated against the last map this stream emitted.
func (e *Engine) AllStream() *stream.Broadcast[map[string]string] {
	return stream.DistinctMapFunc(e.cell.Snapshot(), e.snapshotAsText(), stringMapEqual)
}

func stringMapEqual(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if bv, ok := b[k]; !ok || bv != v {
			return false
		}
	}
	return true
}

// Edit opens a batched editor over the TTL store.
func (e *Engine) Edit() *Editor {
	return newEditor(e.cell, e.manager, e.encrypted)
}

// CleanupJob builds a periodic sweep bound to this engine's cell and clock.
func (e *Engine) CleanupJob(interval time.Duration, opts ...CleanupOption) *CleanupJob {
	return newCleanupJob(e.cell, e.manager, interval, opts...)
}
