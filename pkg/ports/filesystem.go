package ports

import (
	"context"
	"io"
)

// File is an open read handle with a known size.
type File interface {
	io.Reader
	io.Closer

	// Size returns the file's length in bytes, or a negative value
	// when the backend cannot determine it.
	Size() int64
}

// FileSystem abstracts file access for a mounted storage backend.
// Contexts are honored by remote backends; local ones may ignore them
// beyond an initial cancellation check.
type FileSystem interface {
	// Open opens the file at path for reading. Every successfully
	// opened File must be closed exactly once.
	Open(ctx context.Context, path string) (File, error)

	// WriteFile writes data to a file, creating it if necessary.
	WriteFile(ctx context.Context, path string, data []byte) error
}
