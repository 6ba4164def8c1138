// Package kvs is the module's public entry point: it wires together the
// registry, path resolution, crypto, and the four store variants
// (preferences, TTL, document, in-memory) into the small set of
// constructors most callers need.
package kvs

import (
	"time"

	"github.com/santimattius/kmp-kvs-storage/internal/config"
	"github.com/santimattius/kmp-kvs-storage/internal/crypto"
	"github.com/santimattius/kmp-kvs-storage/internal/document"
	"github.com/santimattius/kmp-kvs-storage/internal/logging"
	"github.com/santimattius/kmp-kvs-storage/internal/memstore"
	"github.com/santimattius/kmp-kvs-storage/internal/preferences"
	"github.com/santimattius/kmp-kvs-storage/internal/registry"
	"github.com/santimattius/kmp-kvs-storage/internal/ttl"
)

// Option configures how a store is opened.
type Option func(*openOptions)

type openOptions struct {
	baseDir       string
	encryptionKey string
	defaultTTL    *time.Duration
}

// WithBaseDir overrides where store files are written. Defaults to
// KVS_BASE_DIR, or "<user-home>/.kvs" if that is also unset.
func WithBaseDir(dir string) Option {
	return func(o *openOptions) { o.baseDir = dir }
}

// WithEncryptionKey turns on AES-256-GCM for the store's file, deriving the
// key from passphrase. Without this, the key comes from KVS_ENCRYPTION_KEY;
// if that is also unset, stores are written in plaintext.
func WithEncryptionKey(passphrase string) Option {
	return func(o *openOptions) { o.encryptionKey = passphrase }
}

// WithDefaultTTL sets the duration a TTL store's puts get when they don't
// specify their own. Only meaningful for NewTTLStore.
func WithDefaultTTL(d time.Duration) Option {
	return func(o *openOptions) { o.defaultTTL = &d }
}

func resolveOptions(opts []Option) openOptions {
	cfg := config.Load()
	resolved := openOptions{
		baseDir:       cfg.BaseDir,
		encryptionKey: cfg.EncryptionKey,
	}
	if cfg.DefaultTTL > 0 {
		resolved.defaultTTL = &cfg.DefaultTTL
	}
	for _, opt := range opts {
		opt(&resolved)
	}
	return resolved
}

func (o openOptions) encryptor() (crypto.Encryptor, error) {
	if o.encryptionKey == "" {
		return crypto.Passthrough{}, nil
	}
	return crypto.NewAESGCM(o.encryptionKey)
}

func (o openOptions) resolvePath(name string) (string, error) {
	provider, err := registry.NewDefaultPathProvider(o.baseDir)
	if err != nil {
		return "", err
	}
	return provider.Resolve(name)
}

// NewPreferenceStore opens (or returns the already-open) preference store
// named name. Every caller in this process asking for the same name shares
// the same underlying cell.
func NewPreferenceStore(name string, opts ...Option) (preferences.Kvs, error) {
	resolved := resolveOptions(opts)
	path, err := resolved.resolvePath(name)
	if err != nil {
		return nil, err
	}
	encryptor, err := resolved.encryptor()
	if err != nil {
		return nil, err
	}
	store := registry.GetOrCreate(registry.Default(), path, func() *preferences.Store {
		return preferences.New(path, encryptor, logging.New("PREFS:"+name))
	})
	return store, nil
}

// NewTTLStore opens (or returns the already-open) TTL store named name.
func NewTTLStore(name string, opts ...Option) (ttl.KvsExtended, error) {
	resolved := resolveOptions(opts)
	path, err := resolved.resolvePath(name)
	if err != nil {
		return nil, err
	}
	encryptor, err := resolved.encryptor()
	if err != nil {
		return nil, err
	}
	store := registry.GetOrCreate(registry.Default(), path, func() *ttl.Engine {
		return ttl.New(path, resolved.defaultTTL, nil, encryptor, logging.New("TTL:"+name))
	})
	return store, nil
}

// NewDocumentStore opens (or returns the already-open) document store named
// name.
func NewDocumentStore(name string, opts ...Option) (*document.Store, error) {
	resolved := resolveOptions(opts)
	path, err := resolved.resolvePath(name)
	if err != nil {
		return nil, err
	}
	encryptor, err := resolved.encryptor()
	if err != nil {
		return nil, err
	}
	store := registry.GetOrCreate(registry.Default(), path, func() *document.Store {
		return document.New(path, encryptor, logging.New("DOC:"+name))
	})
	return store, nil
}

// NewInMemoryStore builds a fresh, unshared, non-persistent preference
// store. Unlike the other constructors, repeated calls never return the
// same instance: there is no file path to key a registry entry on.
func NewInMemoryStore() preferences.Kvs {
	return memstore.New()
}
