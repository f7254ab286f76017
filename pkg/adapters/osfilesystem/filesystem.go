// Package osfilesystem provides a filesystem implementation using the os package.
package osfilesystem

import (
	"context"
	"os"
	"path/filepath"

	"github.com/user/camsnap/pkg/ports"
)

// FileSystem implements ports.FileSystem using the os package.
// An optional root confines all paths beneath one directory.
type FileSystem struct {
	root string
}

// New creates a FileSystem that resolves paths as given.
func New() *FileSystem {
	return &FileSystem{}
}

// NewRooted creates a FileSystem that resolves every path relative to root.
func NewRooted(root string) *FileSystem {
	return &FileSystem{root: root}
}

func (fs *FileSystem) resolve(path string) string {
	if fs.root == "" {
		return path
	}
	return filepath.Join(fs.root, path)
}

// Open opens the file at path for reading. The returned handle reports
// the size captured at open time.
func (fs *FileSystem) Open(ctx context.Context, path string) (ports.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(fs.resolve(path))
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	return &file{File: f, size: info.Size()}, nil
}

// WriteFile writes data to a file, creating it if necessary.
func (fs *FileSystem) WriteFile(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	full := fs.resolve(path)

	// Ensure parent directory exists
	dir := filepath.Dir(full)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(full, data, 0644)
}

// file wraps an *os.File with its size captured at open time.
type file struct {
	*os.File
	size int64
}

// Size returns the file's length in bytes.
func (f *file) Size() int64 {
	return f.size
}

// Ensure FileSystem implements ports.FileSystem
var _ ports.FileSystem = (*FileSystem)(nil)
