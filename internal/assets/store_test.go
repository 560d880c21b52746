package assets

import (
	"errors"
	"testing"

	"github.com/spf13/afero"
)

func TestStore_Read(t *testing.T) {
	fsys := afero.NewMemMapFs()
	if err := afero.WriteFile(fsys, "/index.html", []byte("<html></html>"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	s := NewStore(fsys)

	b, err := s.Read(DefaultIndex)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(b) != "<html></html>" {
		t.Fatalf("got %q", b)
	}

	if _, err := s.Read("missing.html"); !errors.Is(err, ErrAssetUnavailable) {
		t.Fatalf("err=%v, want ErrAssetUnavailable", err)
	}
}

func TestStore_ReadCleansTraversal(t *testing.T) {
	fsys := afero.NewMemMapFs()
	_ = afero.WriteFile(fsys, "/index.html", []byte("ui"), 0o644)
	s := NewStore(fsys)

	b, err := s.Read("../../index.html")
	if err != nil || string(b) != "ui" {
		t.Fatalf("got %q, %v", b, err)
	}
}

func TestStore_Seed(t *testing.T) {
	fsys := afero.NewMemMapFs()
	s := NewStore(fsys)

	wrote, err := s.Seed(DefaultIndex, Bundled)
	if err != nil || !wrote {
		t.Fatalf("first Seed: wrote=%v err=%v", wrote, err)
	}
	b, _ := s.Read(DefaultIndex)
	if len(b) == 0 || string(b) != string(Bundled) {
		t.Fatalf("seeded document mismatch")
	}

	_ = afero.WriteFile(fsys, "/index.html", []byte("custom"), 0o644)
	wrote, err = s.Seed(DefaultIndex, Bundled)
	if err != nil || wrote {
		t.Fatalf("second Seed: wrote=%v err=%v", wrote, err)
	}
	b, _ = s.Read(DefaultIndex)
	if string(b) != "custom" {
		t.Fatalf("Seed overwrote existing document: %q", b)
	}
}
