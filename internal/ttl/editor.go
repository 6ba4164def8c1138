package ttl

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/santimattius/kmp-kvs-storage/internal/cell"
	"github.com/santimattius/kmp-kvs-storage/internal/kvserrors"
	"github.com/santimattius/kmp-kvs-storage/internal/ttlentry"
	"github.com/santimattius/kmp-kvs-storage/internal/valuekind"
)

type editorState int

const (
	stateOpen editorState = iota
	stateCommitting
	stateCommitted
	stateFailed
)

type pendingPut struct {
	text     string
	duration *time.Duration
}

// Editor is the TTL variant of the batched-commit editor: each put may
// carry an optional per-key duration, resolved to an absolute expiresAt at
// commit time via the store's Manager.
type Editor struct {
	mu sync.Mutex

	state     editorState
	cell      *cell.PersistentCell[ttlentry.State]
	manager   *Manager
	encrypted bool

	additions map[string]pendingPut
	removals  map[string]struct{}
	clearAll  bool
}

func newEditor(c *cell.PersistentCell[ttlentry.State], manager *Manager, encrypted bool) *Editor {
	return &Editor{
		cell:      c,
		manager:   manager,
		encrypted: encrypted,
		additions: make(map[string]pendingPut),
		removals:  make(map[string]struct{}),
	}
}

// Size reports the number of pending mutations (puts + removes).
func (e *Editor) Size() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.additions) + len(e.removals)
}

func (e *Editor) put(key, text string, duration *time.Duration) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != stateOpen {
		return kvserrors.InvalidState("editor is not open")
	}
	e.additions[key] = pendingPut{text: text, duration: duration}
	delete(e.removals, key)
	return nil
}

func (e *Editor) PutString(key, value string, duration *time.Duration) error {
	return e.put(key, valuekind.FormatString(value), duration)
}

func (e *Editor) PutInt32(key string, value int32, duration *time.Duration) error {
	return e.put(key, valuekind.FormatInt32(value), duration)
}

func (e *Editor) PutInt64(key string, value int64, duration *time.Duration) error {
	return e.put(key, valuekind.FormatInt64(value), duration)
}

func (e *Editor) PutFloat32(key string, value float32, duration *time.Duration) error {
	return e.put(key, valuekind.FormatFloat32(value), duration)
}

func (e *Editor) PutBool(key string, value bool, duration *time.Duration) error {
	return e.put(key, valuekind.FormatBool(value), duration)
}

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

// Commit atomically applies every staged mutation, resolving each put's
// expiresAt against the current clock at commit time (not at put time).
func (e *Editor) Commit(ctx context.Context) error {
	e.mu.Lock()
	if e.state != stateOpen {
		e.mu.Unlock()
		return kvserrors.InvalidState("editor already committed or committing")
	}
	e.state = stateCommitting
	additions := make(map[string]pendingPut, len(e.additions))
	for k, v := range e.additions {
		additions[k] = v
	}
	removals := make(map[string]struct{}, len(e.removals))
	for k := range e.removals {
		removals[k] = struct{}{}
	}
	clearAll := e.clearAll
	manager := e.manager
	encrypted := e.encrypted
	e.mu.Unlock()

	_, err := e.cell.UpdateData(ctx, func(state ttlentry.State) ttlentry.State {
		var next ttlentry.State
		if clearAll {
			next = make(ttlentry.State, len(additions))
		} else {
			next = state.Clone()
		}
		for k := range removals {
			delete(next, k)
		}
		for key, pending := range additions {
			expiresAt := manager.CalculateExpiration(pending.duration)
			var durationText string
			if pending.duration != nil {
				durationText = formatISO8601Duration(*pending.duration)
			}
			next[key] = ttlentry.Entry{
				Key:       key,
				Value:     pending.text,
				Duration:  durationText,
				ExpiresAt: expiresAt,
				Encrypted: encrypted,
			}
		}
		return next
	})

	e.mu.Lock()
	defer e.mu.Unlock()
	if err != nil {
		e.state = stateFailed
		return kvserrors.Wrap(kvserrors.KindWrite, "commit ttl edit", err)
	}
	e.state = stateCommitted
	e.additions = nil
	e.removals = nil
	return nil
}

// formatISO8601Duration renders d as an ISO-8601 duration ("PT1H30M5S"),
// the on-disk representation the TTL schema prescribes for the audit-only
// duration field. Only the time-of-day designators are needed since TTLs
// are always non-negative sub-year durations; a zero duration renders as
// "PT0S" rather than the empty string.
func formatISO8601Duration(d time.Duration) string {
	if d < 0 {
		d = -d
	}

	hours := int64(d / time.Hour)
	d -= time.Duration(hours) * time.Hour
	minutes := int64(d / time.Minute)
	d -= time.Duration(minutes) * time.Minute
	seconds := d.Seconds()

	var b strings.Builder
	b.WriteString("PT")
	if hours > 0 {
		fmt.Fprintf(&b, "%dH", hours)
	}
	if minutes > 0 {
		fmt.Fprintf(&b, "%dM", minutes)
	}
	if seconds > 0 || (hours == 0 && minutes == 0) {
		if seconds == float64(int64(seconds)) {
			fmt.Fprintf(&b, "%dS", int64(seconds))
		} else {
			fmt.Fprintf(&b, "%gS", seconds)
		}
	}
	return b.String()
}
