// Package registry implements the process-wide name->cell singleton map:
// the guarantee that every caller asking for the same store name shares the
// same PersistentCell, and therefore the same underlying file and broadcast
// stream.
package registry

import (
	"sync"

	"github.com/santimattius/kmp-kvs-storage/internal/metrics"
	"golang.org/x/sync/singleflight"
)

// Registry is a process-wide, lock-free-on-the-fast-path map from an
// absolute file path to its cell. Misses are coalesced through a
// singleflight.Group so concurrent first-callers for the same path build
// exactly one cell.
type Registry struct {
	cells sync.Map // path string -> whatever the factory built (a store wrapping its cell)
	group singleflight.Group
}

// New returns an empty Registry. Most callers should use Default().
func New() *Registry {
	return &Registry{}
}

var (
	defaultOnce sync.Once
	defaultReg  *Registry
)

// Default returns the process-wide Registry every store variant shares
// unless a caller explicitly constructs its own (tests do this to isolate
// state between cases).
func Default() *Registry {
	defaultOnce.Do(func() { defaultReg = New() })
	return defaultReg
}

// GetOrCreate returns the cell already registered for path, or builds one
// via factory and registers it. Concurrent callers for the same path that
// miss the fast path are coalesced onto a single factory invocation.
func GetOrCreate[T any](r *Registry, path string, factory func() T) T {
	if v, ok := r.cells.Load(path); ok {
		return v.(T)
	}

	v, _, _ := r.group.Do(path, func() (any, error) {
		if v, ok := r.cells.Load(path); ok {
			return v, nil
		}
		created := factory()
		r.cells.Store(path, created)
		if r == defaultReg {
			metrics.SetRegisteredCells(r.Count())
		}
		return created, nil
	})

	return v.(T)
}

// Count reports how many cells are currently registered. Introspection
// only; not part of the storage contract.
func (r *Registry) Count() int {
	n := 0
	r.cells.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
