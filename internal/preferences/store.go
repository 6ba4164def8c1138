package preferences

import (
	"context"

	"github.com/santimattius/kmp-kvs-storage/internal/cell"
	"github.com/santimattius/kmp-kvs-storage/internal/codec"
	"github.com/santimattius/kmp-kvs-storage/internal/crypto"
	"github.com/santimattius/kmp-kvs-storage/internal/logging"
	"github.com/santimattius/kmp-kvs-storage/internal/stream"
	"github.com/santimattius/kmp-kvs-storage/internal/valuekind"
)

// Store wraps a PersistentCell[map[string]string] and implements Kvs.
type Store struct {
	cell *cell.PersistentCell[map[string]string]
}

var _ Kvs = (*Store)(nil)

// New builds a Store backed by path.
func New(path string, encryptor crypto.Encryptor, logger logging.Logger) *Store {
	opts := []cell.Option[map[string]string]{}
	if encryptor != nil {
		opts = append(opts, cell.WithEncryptor[map[string]string](encryptor))
	}
	if logger != nil {
		opts = append(opts, cell.WithLogger[map[string]string](logger))
	}
	return &Store{cell: cell.New(path, codec.NewPreferenceCodec(), opts...)}
}

// Cell exposes the underlying PersistentCell for callers (e.g. the
// registry) that need to key on it directly.
func (s *Store) Cell() *cell.PersistentCell[map[string]string] { return s.cell }

func (s *Store) GetString(ctx context.Context, key, def string) (string, error) {
	state, err := s.cell.Read(ctx)
	if err != nil {
		return def, err
	}
	text, ok := state[key]
	if !ok {
		return def, nil
	}
	return text, nil
}

func (s *Store) GetInt32(ctx context.Context, key string, def int32) (int32, error) {
	state, err := s.cell.Read(ctx)
	if err != nil {
		return def, err
	}
	text, ok := state[key]
	if !ok {
		return def, nil
	}
	return valuekind.ParseInt32(text, def), nil
}

func (s *Store) GetInt64(ctx context.Context, key string, def int64) (int64, error) {
	state, err := s.cell.Read(ctx)
	if err != nil {
		return def, err
	}
	text, ok := state[key]
	if !ok {
		return def, nil
	}
	return valuekind.ParseInt64(text, def), nil
}

func (s *Store) GetFloat32(ctx context.Context, key string, def float32) (float32, error) {
	state, err := s.cell.Read(ctx)
	if err != nil {
		return def, err
	}
	text, ok := state[key]
	if !ok {
		return def, nil
	}
	return valuekind.ParseFloat32(text, def), nil
}

func (s *Store) GetBool(ctx context.Context, key string, def bool) (bool, error) {
	state, err := s.cell.Read(ctx)
	if err != nil {
		return def, err
	}
	text, ok := state[key]
	if !ok {
		return def, nil
	}
	return valuekind.ParseBool(text, def), nil
}

// GetAll returns a snapshot of the current state. Unlike the TTL variant,
// this is a plain map copy with no liveness filtering.
func (s *Store) GetAll(ctx context.Context) (map[string]string, error) {
	state, err := s.cell.Read(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(state))
	for k, v := range state {
		out[k] = v
	}
	return out, nil
}

// Contains reports whether key is present in the raw map. On the TTL
// variant this additionally requires liveness; callers migrating between
// the two must account for that difference.
func (s *Store) Contains(ctx context.Context, key string) (bool, error) {
	state, err := s.cell.Read(ctx)
	if err != nil {
		return false, err
	}
	_, ok := state[key]
	return ok, nil
}

func (s *Store) StringStream(key, def string) *stream.Broadcast[string] {
	return stream.DistinctMap(s.cell.Snapshot(), func(state map[string]string) string {
		text, ok := state[key]
		if !ok {
			return def
		}
		return text
	})
}

func (s *Store) Int32Stream(key string, def int32) *stream.Broadcast[int32] {
	return stream.DistinctMap(s.cell.Snapshot(), func(state map[string]string) int32 {
		text, ok := state[key]
		if !ok {
			return def
		}
		return valuekind.ParseInt32(text, def)
	})
}

func (s *Store) Int64Stream(key string, def int64) *stream.Broadcast[int64] {
	return stream.DistinctMap(s.cell.Snapshot(), func(state map[string]string) int64 {
		text, ok := state[key]
		if !ok {
			return def
		}
		return valuekind.ParseInt64(text, def)
	})
}

func (s *Store) Float32Stream(key string, def float32) *stream.Broadcast[float32] {
	return stream.DistinctMap(s.cell.Snapshot(), func(state map[string]string) float32 {
		text, ok := state[key]
		if !ok {
			return def
		}
		return valuekind.ParseFloat32(text, def)
	})
}

func (s *Store) BoolStream(key string, def bool) *stream.Broadcast[bool] {
	return stream.DistinctMap(s.cell.Snapshot(), func(state map[string]string) bool {
		text, ok := state[key]
		if !ok {
			return def
		}
		return valuekind.ParseBool(text, def)
	})
}

// AllStream emits the entire current map on every committed change, after
// de-duplication (no emission if the new map is equal to the last one this
// stream emitted).
func (s *Store) AllStream() *stream.Broadcast[map[string]string] {
	return stream.DistinctMapFunc(s.cell.Snapshot(), cloneStringMap, stringMapEqual)
}

func cloneStringMap(state map[string]string) map[string]string {
	out := make(map[string]string, len(state))
	for k, v := range state {
		out[k] = v
	}
	return out
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

func (s *Store) Edit() *Editor {
	return NewEditor(s.cell)
}
