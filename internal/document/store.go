// Package document implements the single-blob text store: one
// PersistentCell[string] with no key/value structure, for callers storing a
// single opaque document (a serialized session, a cached response body).
package document

import (
	"context"

	"github.com/santimattius/kmp-kvs-storage/internal/cell"
	"github.com/santimattius/kmp-kvs-storage/internal/codec"
	"github.com/santimattius/kmp-kvs-storage/internal/crypto"
	"github.com/santimattius/kmp-kvs-storage/internal/logging"
	"github.com/santimattius/kmp-kvs-storage/internal/stream"
)

// Store wraps a PersistentCell[string] holding one document's full text.
type Store struct {
	cell *cell.PersistentCell[string]
}

// New builds a Store backed by path. The document defaults to the empty
// string until the first Write.
func New(path string, encryptor crypto.Encryptor, logger logging.Logger) *Store {
	opts := []cell.Option[string]{}
	if encryptor != nil {
		opts = append(opts, cell.WithEncryptor[string](encryptor))
	}
	if logger != nil {
		opts = append(opts, cell.WithLogger[string](logger))
	}
	return &Store{cell: cell.New(path, codec.NewDocumentCodec(), opts...)}
}

// Cell exposes the underlying PersistentCell.
func (s *Store) Cell() *cell.PersistentCell[string] { return s.cell }

// Read returns the document's current text.
func (s *Store) Read(ctx context.Context) (string, error) {
	return s.cell.Read(ctx)
}

// Write replaces the document's text in a single atomic commit and returns
// the new value (mirroring UpdateData's contract, since a whole-document
// replace has no meaningful "transform" step).
func (s *Store) Write(ctx context.Context, text string) (string, error) {
	return s.cell.UpdateData(ctx, func(string) string { return text })
}

// TextStream emits the document's text on every committed write.
func (s *Store) TextStream() *stream.Broadcast[string] {
	return s.cell.Snapshot()
}
