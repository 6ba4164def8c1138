// Package memstore implements the non-persistent variant of the preference
// contract: same typed get/put/stream/edit surface as preferences.Store, but
// backed by an in-process map instead of a file, for callers that want the
// reactive/editor ergonomics without any disk I/O.
package memstore

import (
	"context"
	"sync"

	"github.com/santimattius/kmp-kvs-storage/internal/preferences"
	"github.com/santimattius/kmp-kvs-storage/internal/stream"
	"github.com/santimattius/kmp-kvs-storage/internal/valuekind"
)

// Store implements preferences.Kvs entirely in memory. State does not
// survive process restart.
type Store struct {
	mu     sync.Mutex
	state  map[string]string
	stream *stream.Broadcast[map[string]string]
}

var _ preferences.Kvs = (*Store)(nil)

// New builds an empty in-memory Store.
func New() *Store {
	s := &Store{
		state:  make(map[string]string),
		stream: stream.New[map[string]string](),
	}
	s.stream.Publish(cloneStringMap(s.state))
	return s
}

func (s *Store) snapshot() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Store) GetString(_ context.Context, key, def string) (string, error) {
	state := s.snapshot()
	text, ok := state[key]
	if !ok {
		return def, nil
	}
	return text, nil
}

func (s *Store) GetInt32(_ context.Context, key string, def int32) (int32, error) {
	state := s.snapshot()
	text, ok := state[key]
	if !ok {
		return def, nil
	}
	return valuekind.ParseInt32(text, def), nil
}

func (s *Store) GetInt64(_ context.Context, key string, def int64) (int64, error) {
	state := s.snapshot()
	text, ok := state[key]
	if !ok {
		return def, nil
	}
	return valuekind.ParseInt64(text, def), nil
}

func (s *Store) GetFloat32(_ context.Context, key string, def float32) (float32, error) {
	state := s.snapshot()
	text, ok := state[key]
	if !ok {
		return def, nil
	}
	return valuekind.ParseFloat32(text, def), nil
}

func (s *Store) GetBool(_ context.Context, key string, def bool) (bool, error) {
	state := s.snapshot()
	text, ok := state[key]
	if !ok {
		return def, nil
	}
	return valuekind.ParseBool(text, def), nil
}

func (s *Store) GetAll(_ context.Context) (map[string]string, error) {
	return cloneStringMap(s.snapshot()), nil
}

func (s *Store) Contains(_ context.Context, key string) (bool, error) {
	state := s.snapshot()
	_, ok := state[key]
	return ok, nil
}

func (s *Store) StringStream(key, def string) *stream.Broadcast[string] {
	return stream.DistinctMap(s.stream, func(state map[string]string) string {
		text, ok := state[key]
		if !ok {
			return def
		}
		return text
	})
}

func (s *Store) Int32Stream(key string, def int32) *stream.Broadcast[int32] {
	return stream.DistinctMap(s.stream, func(state map[string]string) int32 {
		text, ok := state[key]
		if !ok {
			return def
		}
		return valuekind.ParseInt32(text, def)
	})
}

func (s *Store) Int64Stream(key string, def int64) *stream.Broadcast[int64] {
	return stream.DistinctMap(s.stream, func(state map[string]string) int64 {
		text, ok := state[key]
		if !ok {
			return def
		}
		return valuekind.ParseInt64(text, def)
	})
}

func (s *Store) Float32Stream(key string, def float32) *stream.Broadcast[float32] {
	return stream.DistinctMap(s.stream, func(state map[string]string) float32 {
		text, ok := state[key]
		if !ok {
			return def
		}
		return valuekind.ParseFloat32(text, def)
	})
}

func (s *Store) BoolStream(key string, def bool) *stream.Broadcast[bool] {
	return stream.DistinctMap(s.stream, func(state map[string]string) bool {
		text, ok := state[key]
		if !ok {
			return def
		}
		return valuekind.ParseBool(text, def)
	})
}

func (s *Store) AllStream() *stream.Broadcast[map[string]string] {
	return stream.DistinctMapFunc(s.stream, cloneStringMap, stringMapEqual)
}

// Edit opens a batched editor. Unlike preferences.Store's editor, commit has
// nothing to persist to disk: it just swaps the in-memory map and publishes.
func (s *Store) Edit() *preferences.Editor {
	return preferences.NewEditor(s)
}

// UpdateData satisfies preferences' dataSink so Store can be committed into
// by the shared Editor without any file I/O.
func (s *Store) UpdateData(_ context.Context, transform func(map[string]string) map[string]string) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := transform(s.state)
	s.state = next
	s.stream.Publish(cloneStringMap(next))
	return next, nil
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
