// Package mountfs routes drive-prefixed paths like "S:/photo.jpg" to
// mounted filesystem backends.
package mountfs

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/user/camsnap/pkg/ports"
)

// ErrNotMounted is returned when a path carries a prefix that has no
// mounted backend, or no prefix while no fallback is set.
var ErrNotMounted = errors.New("no filesystem mounted for path")

// FileSystem implements ports.FileSystem by dispatching on a
// drive-style path prefix: "S:/a.bin" selects the backend mounted as
// "S" and hands it "a.bin". Prefixes are case-insensitive.
type FileSystem struct {
	mu       sync.RWMutex
	mounts   map[string]ports.FileSystem
	fallback ports.FileSystem
}

// New creates an empty mount table.
func New() *FileSystem {
	return &FileSystem{mounts: make(map[string]ports.FileSystem)}
}

// Mount registers a backend for a prefix. Mounting an already-used
// prefix replaces the previous backend.
func (fs *FileSystem) Mount(prefix string, backend ports.FileSystem) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.mounts[strings.ToUpper(prefix)] = backend
}

// SetFallback registers the backend serving paths without a prefix.
func (fs *FileSystem) SetFallback(backend ports.FileSystem) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.fallback = backend
}

// Prefixes returns the mounted prefixes in sorted order.
func (fs *FileSystem) Prefixes() []string {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	prefixes := make([]string, 0, len(fs.mounts))
	for p := range fs.mounts {
		prefixes = append(prefixes, p)
	}
	sort.Strings(prefixes)
	return prefixes
}

// Open opens the file at path on the backend its prefix selects.
func (fs *FileSystem) Open(ctx context.Context, path string) (ports.File, error) {
	backend, rest, err := fs.resolve(path)
	if err != nil {
		return nil, err
	}
	return backend.Open(ctx, rest)
}

// WriteFile writes data on the backend the path's prefix selects.
func (fs *FileSystem) WriteFile(ctx context.Context, path string, data []byte) error {
	backend, rest, err := fs.resolve(path)
	if err != nil {
		return err
	}
	return backend.WriteFile(ctx, rest, data)
}

// resolve splits a path into its backend and the remainder handed to
// it. Prefixed paths must match a mount; unprefixed paths go to the
// fallback when one is set.
func (fs *FileSystem) resolve(path string) (ports.FileSystem, string, error) {
	prefix, rest, ok := splitPrefix(path)

	fs.mu.RLock()
	defer fs.mu.RUnlock()
	if ok {
		if backend, found := fs.mounts[strings.ToUpper(prefix)]; found {
			return backend, rest, nil
		}
		return nil, "", fmt.Errorf("%w: %q", ErrNotMounted, path)
	}
	if fs.fallback != nil {
		return fs.fallback, path, nil
	}
	return nil, "", fmt.Errorf("%w: %q", ErrNotMounted, path)
}

// splitPrefix parses "PREFIX:/rest". A colon without a following slash,
// or with nothing before it, does not form a prefix.
func splitPrefix(path string) (prefix, rest string, ok bool) {
	i := strings.Index(path, ":/")
	if i <= 0 {
		return "", "", false
	}
	return path[:i], strings.TrimLeft(path[i+2:], "/"), true
}

// Ensure FileSystem implements ports.FileSystem
var _ ports.FileSystem = (*FileSystem)(nil)
