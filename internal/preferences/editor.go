package preferences

import (
	"context"
	"sync"

	"github.com/santimattius/kmp-kvs-storage/internal/kvserrors"
	"github.com/santimattius/kmp-kvs-storage/internal/valuekind"
)

type editorState int

const (
	stateOpen editorState = iota
	stateCommitting
	stateCommitted
	stateFailed
)

// dataSink is what an Editor commits into: PersistentCell[map[string]string]
// satisfies it directly, and memstore.Store supplies its own in-memory
// implementation so the two backends share this one Editor.
type dataSink interface {
	UpdateData(ctx context.Context, transform func(map[string]string) map[string]string) (map[string]string, error)
}

// Editor accumulates a batch of mutations and applies them atomically on
// commit. It is single-use: after a successful commit, or while a commit is
// in flight, further mutation or a second commit fails with InvalidState.
type Editor struct {
	mu sync.Mutex

	state     editorState
	sink      dataSink
	additions map[string]string
	removals  map[string]struct{}
	clearAll  bool
}

// NewEditor builds an Editor committing into sink. Exported so backends
// outside this package (memstore) can supply their own dataSink
// implementation and still return the same Editor type from their Kvs.Edit.
func NewEditor(sink dataSink) *Editor {
	return &Editor{
		sink:      sink,
		additions: make(map[string]string),
		removals:  make(map[string]struct{}),
	}
}

// Size reports the number of pending mutations (puts + removes), not
// counting a pending Clear.
func (e *Editor) Size() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.additions) + len(e.removals)
}

func (e *Editor) put(key, text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != stateOpen {
		return kvserrors.InvalidState("editor is not open")
	}
	e.additions[key] = text
	delete(e.removals, key)
	return nil
}

// PutString stages key=value as a string.
func (e *Editor) PutString(key, value string) error { return e.put(key, valuekind.FormatString(value)) }

// PutInt32 stages key=value as an int32.
func (e *Editor) PutInt32(key string, value int32) error { return e.put(key, valuekind.FormatInt32(value)) }

// PutInt64 stages key=value as an int64.
func (e *Editor) PutInt64(key string, value int64) error { return e.put(key, valuekind.FormatInt64(value)) }

// PutFloat32 stages key=value as a float32.
func (e *Editor) PutFloat32(key string, value float32) error {
	return e.put(key, valuekind.FormatFloat32(value))
}

// PutBool stages key=value as a bool.
func (e *Editor) PutBool(key string, value bool) error { return e.put(key, valuekind.FormatBool(value)) }

// Remove stages the removal of key.
func (e *Editor) Remove(key string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != stateOpen {
		return kvserrors.InvalidState("editor is not open")
	}
	e.removals[key] = struct{}{}
	delete(e.additions, key)
	return nil
}

// Clear stages wiping the entire store before this editor's other
// mutations are applied.
func (e *Editor) Clear() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != stateOpen {
		return kvserrors.InvalidState("editor is not open")
	}
	e.clearAll = true
	return nil
}

// Commit atomically applies every staged mutation via the cell's
// updateData, producing exactly one new state and one stream emission.
func (e *Editor) Commit(ctx context.Context) error {
	e.mu.Lock()
	if e.state != stateOpen {
		e.mu.Unlock()
		return kvserrors.InvalidState("editor already committed or committing")
	}
	e.state = stateCommitting
	additions := make(map[string]string, len(e.additions))
	for k, v := range e.additions {
		additions[k] = v
	}
	removals := make(map[string]struct{}, len(e.removals))
	for k := range e.removals {
		removals[k] = struct{}{}
	}
	clearAll := e.clearAll
	e.mu.Unlock()

	_, err := e.sink.UpdateData(ctx, func(state map[string]string) map[string]string {
		return apply(state, clearAll, removals, additions)
	})

	e.mu.Lock()
	defer e.mu.Unlock()
	if err != nil {
		e.state = stateFailed
		return kvserrors.Wrap(kvserrors.KindWrite, "commit preference edit", err)
	}
	e.state = stateCommitted
	e.additions = nil
	e.removals = nil
	return nil
}

func apply(state map[string]string, clearAll bool, removals map[string]struct{}, additions map[string]string) map[string]string {
	var next map[string]string
	if clearAll {
		next = make(map[string]string, len(additions))
	} else {
		next = make(map[string]string, len(state)+len(additions))
		for k, v := range state {
			next[k] = v
		}
	}
	for k := range removals {
		delete(next, k)
	}
	for k, v := range additions {
		next[k] = v
	}
	return next
}
