// Package cell implements PersistentCell[T], the file-backed atomic
// container every store variant is built on: crash-safe replace-by-rename
// writes, a serialized read-modify-write mutator, and a broadcast of
// committed snapshots.
package cell

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/santimattius/kmp-kvs-storage/internal/codec"
	"github.com/santimattius/kmp-kvs-storage/internal/crypto"
	"github.com/santimattius/kmp-kvs-storage/internal/kvserrors"
	"github.com/santimattius/kmp-kvs-storage/internal/logging"
	"github.com/santimattius/kmp-kvs-storage/internal/metrics"
	"github.com/santimattius/kmp-kvs-storage/internal/stream"
)

// Stats is a point-in-time introspection snapshot.
type Stats struct {
	Commits        uint64
	LastCommitUnix int64
}

// PersistentCell owns the on-disk representation of a single value of type
// T and publishes its in-memory snapshot through a Broadcast stream.
type PersistentCell[T any] struct {
	path      string
	codec     codec.Codec[T]
	encryptor crypto.Encryptor
	logger    logging.Logger
	strict    bool // strict decryption: surface a Read error instead of downgrading to default

	mu       sync.Mutex // serializes writers and file I/O, one at a time per cell
	loaded   bool
	loadErr  error // sticky strict-mode load failure; nil once a load succeeds
	current  T
	stream   *stream.Broadcast[T]
	commits  uint64
	lastUnix int64
}

// Option configures a PersistentCell at construction.
type Option[T any] func(*PersistentCell[T])

// WithEncryptor overrides the default pass-through Encryptor.
func WithEncryptor[T any](e crypto.Encryptor) Option[T] {
	return func(c *PersistentCell[T]) { c.encryptor = e }
}

// WithLogger overrides the default stdlib-backed Logger.
func WithLogger[T any](l logging.Logger) Option[T] {
	return func(c *PersistentCell[T]) { c.logger = l }
}

// WithStrictDecryption makes a decrypt/decode failure on the first load
// surface as an error from Read/UpdateData instead of silently downgrading
// to the codec's default value. The failure is sticky: once a strict load
// fails, every subsequent Read/UpdateData on this cell returns the same
// error until the process restarts (there is nothing to retry against an
// unchanged file). Off by default, matching the engine's general read-side
// propagation policy; security-sensitive builds should turn it on (see
// design notes on the encrypt/decrypt failure open question).
func WithStrictDecryption[T any](strict bool) Option[T] {
	return func(c *PersistentCell[T]) { c.strict = strict }
}

// New builds a PersistentCell backed by path, using codec for
// serialization and encryptor (pass-through if none given) below it.
func New[T any](path string, c codec.Codec[T], opts ...Option[T]) *PersistentCell[T] {
	cell := &PersistentCell[T]{
		path:      path,
		codec:     c,
		encryptor: crypto.Passthrough{},
		logger:    logging.New("CELL"),
		stream:    stream.New[T](),
	}
	for _, opt := range opts {
		opt(cell)
	}
	return cell
}

// Name is the metrics label identifying this cell: the base file name of
// its backing path.
func (c *PersistentCell[T]) Name() string {
	return filepath.Base(c.path)
}

// Snapshot returns the cell's broadcast stream. Every new subscriber
// immediately receives the current state, then every subsequently
// committed state. If the initial load fails under strict decryption, no
// value is ever published: the failure is sticky, so every later
// UpdateData fails too, and callers relying solely on Snapshot won't
// observe the failure directly (use Read to surface it).
func (c *PersistentCell[T]) Snapshot() *stream.Broadcast[T] {
	c.mu.Lock()
	_ = c.ensureLoadedLocked()
	c.mu.Unlock()
	return c.stream
}

// Read returns the current value, loading it from disk on first access.
// ctx is checked before the (potential) disk read; a caller that cancels
// ctx before this suspension point gets ctx.Err() back rather than a
// StorageError, per the propagation policy that cancellation is never
// downgraded to a local error. Under strict decryption, a failed load
// surfaces its error here instead of downgrading to the codec's default.
func (c *PersistentCell[T]) Read(ctx context.Context) (T, error) {
	if err := ctx.Err(); err != nil {
		var zero T
		return zero, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ensureLoadedLocked(); err != nil {
		var zero T
		return zero, err
	}
	return c.current, nil
}

// Stats returns a point-in-time introspection snapshot.
func (c *PersistentCell[T]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{Commits: c.commits, LastCommitUnix: c.lastUnix}
}

// UpdateData atomically applies transform to the current state and persists
// the result, returning the new value. Transforms on a given cell are
// totally ordered: only one runs at a time, serialized by the cell's mutex.
//
// Once the file replacement begins it always runs to completion: ctx is
// only consulted before the write starts. If ctx was cancelled while the
// write was in flight, the write still lands (durability is all-or-nothing
// on the rename) and ctx.Err() is returned alongside the committed value so
// callers still observe the cancellation.
func (c *PersistentCell[T]) UpdateData(ctx context.Context, transform func(T) T) (T, error) {
	if err := ctx.Err(); err != nil {
		var zero T
		return zero, err
	}

	start := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureLoadedLocked(); err != nil {
		var zero T
		metrics.ObserveCommit(c.Name(), "error", time.Since(start).Seconds())
		return zero, err
	}

	next := transform(c.current)

	encoded, err := c.codec.Encode(next)
	if err != nil {
		var zero T
		metrics.ObserveCommit(c.Name(), "error", time.Since(start).Seconds())
		return zero, kvserrors.Wrap(kvserrors.KindWrite, "encode state", err)
	}

	ciphertext, err := c.encryptor.Encrypt(encoded)
	if err != nil {
		var zero T
		metrics.ObserveCommit(c.Name(), "error", time.Since(start).Seconds())
		return zero, kvserrors.Wrap(kvserrors.KindEncrypt, "encrypt state", err)
	}

	if err := writeFileAtomic(c.path, ciphertext); err != nil {
		var zero T
		metrics.ObserveCommit(c.Name(), "error", time.Since(start).Seconds())
		return zero, kvserrors.Wrap(kvserrors.KindWrite, "replace store file", err)
	}

	c.current = next
	c.commits++
	c.lastUnix = time.Now().Unix()
	c.stream.Publish(next)
	metrics.ObserveCommit(c.Name(), "success", time.Since(start).Seconds())

	if err := ctx.Err(); err != nil {
		return next, err
	}
	return next, nil
}

// ensureLoadedLocked loads the backing file into memory on first access.
// Caller must hold c.mu. Under strict decryption, a decrypt or decode
// failure returns an error instead of downgrading to the codec's default;
// that failure is cached in c.loadErr and returned again on every later
// call, since the underlying file hasn't changed and re-reading would just
// fail the same way.
func (c *PersistentCell[T]) ensureLoadedLocked() error {
	if c.loaded {
		return c.loadErr
	}
	c.loaded = true

	data, err := os.ReadFile(c.path)
	if err != nil {
		if !os.IsNotExist(err) {
			c.logger.Errorf("read %s failed, adopting default: %v", c.path, err)
		}
		c.current = c.codec.Default()
		c.stream.Publish(c.current)
		return nil
	}

	if len(data) == 0 {
		c.current = c.codec.Default()
		c.stream.Publish(c.current)
		return nil
	}

	plaintext, err := c.encryptor.Decrypt(data)
	if err != nil {
		if c.strict {
			c.logger.Errorf("decrypt %s failed (strict mode): %v", c.path, err)
			c.loadErr = kvserrors.Wrap(kvserrors.KindDecrypt, "decrypt store file", err)
			return c.loadErr
		}
		c.logger.Errorf("decrypt %s failed, adopting default: %v", c.path, err)
		c.current = c.codec.Default()
		c.stream.Publish(c.current)
		return nil
	}

	decoded, err := c.codec.Decode(plaintext)
	if err != nil {
		if c.strict {
			c.logger.Errorf("decode %s failed (strict mode): %v", c.path, err)
			c.loadErr = kvserrors.Wrap(kvserrors.KindRead, "decode store file", err)
			return c.loadErr
		}
		c.logger.Errorf("decode %s failed, adopting default: %v", c.path, err)
		c.current = c.codec.Default()
		c.stream.Publish(c.current)
		return nil
	}

	c.current = decoded
	c.stream.Publish(c.current)
	return nil
}

// writeFileAtomic writes data to a temp file in the same directory and
// renames it over path, so readers never observe a torn write.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file over store: %w", err)
	}

	return nil
}
