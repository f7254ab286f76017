package mountfs

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/user/camsnap/pkg/mocks"
)

func TestRoutesPrefixToMount(t *testing.T) {
	backend := mocks.NewFileSystem()
	backend.AddFile("a.bin", []byte{0xFF, 0xFF, 0xFF, 0xFF})

	fs := New()
	fs.Mount("S", backend)

	f, err := fs.Open(context.Background(), "S:/a.bin")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	data, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	f.Close()

	if len(data) != 4 {
		t.Errorf("read %d bytes, want 4", len(data))
	}
	if backend.OpenCalls != 1 {
		t.Errorf("backend OpenCalls = %d, want 1", backend.OpenCalls)
	}
}

func TestPrefixMatchingIsCaseInsensitive(t *testing.T) {
	backend := mocks.NewFileSystem()
	backend.AddFile("x", []byte{1})

	fs := New()
	fs.Mount("sd", backend)

	for _, path := range []string{"sd:/x", "SD:/x", "Sd:/x"} {
		f, err := fs.Open(context.Background(), path)
		if err != nil {
			t.Errorf("Open(%q) failed: %v", path, err)
			continue
		}
		f.Close()
	}
}

func TestUnknownPrefixIsNotMounted(t *testing.T) {
	fs := New()
	fs.Mount("S", mocks.NewFileSystem())

	_, err := fs.Open(context.Background(), "Q:/a.bin")
	if !errors.Is(err, ErrNotMounted) {
		t.Errorf("expected ErrNotMounted, got %v", err)
	}
}

func TestFallbackServesUnprefixedPaths(t *testing.T) {
	fallback := mocks.NewFileSystem()
	fallback.AddFile("plain.bin", []byte{1, 2, 3})

	fs := New()
	fs.SetFallback(fallback)

	f, err := fs.Open(context.Background(), "plain.bin")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	f.Close()

	// A prefixed path must not fall through to the fallback.
	if _, err := fs.Open(context.Background(), "S:/plain.bin"); !errors.Is(err, ErrNotMounted) {
		t.Errorf("expected ErrNotMounted for prefixed path, got %v", err)
	}
}

func TestNoFallbackNoPrefix(t *testing.T) {
	fs := New()

	if _, err := fs.Open(context.Background(), "plain.bin"); !errors.Is(err, ErrNotMounted) {
		t.Errorf("expected ErrNotMounted, got %v", err)
	}
}

func TestWriteFileRoutes(t *testing.T) {
	backend := mocks.NewFileSystem()

	fs := New()
	fs.Mount("OUT", backend)

	if err := fs.WriteFile(context.Background(), "out:/dir/result.txt", []byte("ok")); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	data, ok := backend.GetFile("dir/result.txt")
	if !ok {
		t.Fatal("backend did not receive the write")
	}
	if string(data) != "ok" {
		t.Errorf("wrote %q, want %q", data, "ok")
	}
}

func TestSplitPrefix(t *testing.T) {
	tests := []struct {
		path   string
		prefix string
		rest   string
		ok     bool
	}{
		{"S:/a.bin", "S", "a.bin", true},
		{"SD:/dir/f.jpg", "SD", "dir/f.jpg", true},
		{"S://double", "S", "double", true},
		{"noprefix.bin", "", "", false},
		{":/empty", "", "", false},
		{"S:nope", "", "", false},
	}

	for _, tt := range tests {
		prefix, rest, ok := splitPrefix(tt.path)
		if prefix != tt.prefix || rest != tt.rest || ok != tt.ok {
			t.Errorf("splitPrefix(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tt.path, prefix, rest, ok, tt.prefix, tt.rest, tt.ok)
		}
	}
}

func TestPrefixesSorted(t *testing.T) {
	fs := New()
	fs.Mount("S", mocks.NewFileSystem())
	fs.Mount("cam", mocks.NewFileSystem())

	got := fs.Prefixes()
	if len(got) != 2 || got[0] != "CAM" || got[1] != "S" {
		t.Errorf("Prefixes() = %v, want [CAM S]", got)
	}
}
