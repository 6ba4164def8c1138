package registry

import (
	"fmt"
	"os"
	"path/filepath"
)

// PathProvider resolves a store name to an absolute file path. Platform
// bindings supply their own; DefaultPathProvider is the UNIX-like fallback
// this module ships.
type PathProvider interface {
	Resolve(name string) (string, error)
}

// DefaultPathProvider resolves "<baseDir>/<name>.preferences_pb", creating
// baseDir on first use if it doesn't exist.
type DefaultPathProvider struct {
	BaseDir string
}

// NewDefaultPathProvider returns a PathProvider rooted at baseDir. If
// baseDir is empty, it defaults to "<user-home>/.kvs".
func NewDefaultPathProvider(baseDir string) (*DefaultPathProvider, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("kvs: resolve home directory: %w", err)
		}
		baseDir = filepath.Join(home, ".kvs")
	}
	return &DefaultPathProvider{BaseDir: baseDir}, nil
}

func (p *DefaultPathProvider) Resolve(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("kvs: store name must not be empty")
	}
	if err := os.MkdirAll(p.BaseDir, 0o755); err != nil {
		return "", fmt.Errorf("kvs: create base dir %s: %w", p.BaseDir, err)
	}
	return filepath.Join(p.BaseDir, name+".preferences_pb"), nil
}
