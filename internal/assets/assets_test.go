package assets

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
)

func TestManagerLoad(t *testing.T) {
	m := NewManager()
	m.AddFS(fstest.MapFS{
		"models/tris.md2": {Data: []byte("low")},
		"skin.tga":        {Data: []byte("skin")},
	})
	m.AddFS(fstest.MapFS{
		"models/tris.md2": {Data: []byte("high")},
	})

	tests := []struct {
		name string
		want string
	}{
		{"models/tris.md2", "high"},
		{"skin.tga", "skin"},
	}
	for _, tt := range tests {
		data, err := m.Load(tt.name)
		if err != nil {
			t.Fatalf("Load(%q): %v", tt.name, err)
		}
		if string(data) != tt.want {
			t.Errorf("Load(%q) = %q, want %q", tt.name, data, tt.want)
		}
	}

	if _, err := m.Load("missing.obj"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := m.Load("../escape.obj"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for escaping path, got %v", err)
	}
}

func TestManagerDiskAndCache(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cube.obj")
	if err := os.WriteFile(path, []byte("v 0 0 0"), 0o644); err != nil {
		t.Fatal(err)
	}

	m := NewManager()
	if err := m.AddDir(dir); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Load("cube.obj"); err != nil {
		t.Fatalf("relative load: %v", err)
	}
	if _, err := m.Load(path); err != nil {
		t.Fatalf("absolute load: %v", err)
	}
	if _, err := m.Load("cube.obj"); err != nil {
		t.Fatal(err)
	}
	if hits, misses := m.Cache().Stats(); hits != 1 || misses != 2 {
		t.Errorf("hits %d misses %d, want 1 and 2", hits, misses)
	}

	if err := m.AddDir(path); err == nil {
		t.Error("expected error adding a file as a root")
	}

	m.Close()
	if hits, _ := m.Cache().Stats(); hits != 0 {
		t.Error("cache not cleared")
	}
}

func TestManagerAddDirs(t *testing.T) {
	base := t.TempDir()
	hd := t.TempDir()
	for dir, body := range map[string]string{base: "base", hd: "hd"} {
		if err := os.WriteFile(filepath.Join(dir, "skin.tga"), []byte(body), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(base, "only.obj"), []byte("obj"), 0644); err != nil {
		t.Fatal(err)
	}

	m := NewManager()
	if err := m.AddDirs([]string{base, hd}); err != nil {
		t.Fatalf("AddDirs: %v", err)
	}
	for name, want := range map[string]string{"skin.tga": "hd", "only.obj": "obj"} {
		got, err := m.Load(name)
		if err != nil || string(got) != want {
			t.Errorf("Load(%s) = %q, %v; want %q", name, got, err, want)
		}
	}

	file := filepath.Join(base, "only.obj")
	err := NewManager().AddDirs([]string{filepath.Join(base, "missing"), file, hd})
	if err == nil {
		t.Fatal("expected an error for a missing dir and a plain file")
	}
	if n := strings.Count(err.Error(), "adding asset dir"); n != 2 {
		t.Errorf("error reports %d dirs, want 2: %v", n, err)
	}
}
