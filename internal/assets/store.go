// Package assets serves the browser UI document from a directory on the board.
package assets

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"path"

	"github.com/spf13/afero"
)

// DefaultIndex is the UI document name.
const DefaultIndex = "index.html"

// Bundled is the UI shipped with the binary, seeded into an empty store on first boot.
//
//go:embed ui/index.html
var Bundled []byte

// ErrAssetUnavailable means the requested document is not in the store.
var ErrAssetUnavailable = errors.New("asset unavailable")

// Store reads documents by name from a filesystem root.
type Store struct {
	fs afero.Fs
}

// NewDirStore roots a store at dir on the OS filesystem.
func NewDirStore(dir string) *Store {
	return NewStore(afero.NewBasePathFs(afero.NewOsFs(), dir))
}

func NewStore(fsys afero.Fs) *Store {
	return &Store{fs: fsys}
}

// Read returns the named document. Missing files yield ErrAssetUnavailable.
func (s *Store) Read(name string) ([]byte, error) {
	clean := path.Clean("/" + name)
	b, err := afero.ReadFile(s.fs, clean)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", name, ErrAssetUnavailable)
		}
		return nil, fmt.Errorf("read asset %q: %w", name, err)
	}
	return b, nil
}

// Seed writes the bundled UI document to the store unless one is already there.
func (s *Store) Seed(name string, doc []byte) (bool, error) {
	clean := path.Clean("/" + name)
	ok, err := afero.Exists(s.fs, clean)
	if err != nil {
		return false, fmt.Errorf("stat asset %q: %w", name, err)
	}
	if ok {
		return false, nil
	}
	if err := s.fs.MkdirAll("/", 0o755); err != nil {
		return false, fmt.Errorf("create asset root: %w", err)
	}
	if err := afero.WriteFile(s.fs, clean, doc, 0o644); err != nil {
		return false, fmt.Errorf("write asset %q: %w", name, err)
	}
	return true, nil
}
