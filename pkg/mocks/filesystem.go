package mocks

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/user/camsnap/pkg/ports"
)

// FileSystem is a mock implementation of ports.FileSystem backed by an
// in-memory path to content map.
type FileSystem struct {
	mu    sync.RWMutex
	files map[string][]byte

	OpenFunc      func(ctx context.Context, path string) (ports.File, error)
	WriteFileFunc func(ctx context.Context, path string, data []byte) error

	// Recorded calls for verification
	OpenCalls      int
	CloseCalls     int
	WriteFileCalls int
}

// NewFileSystem creates a new mock FileSystem.
func NewFileSystem() *FileSystem {
	return &FileSystem{
		files: make(map[string][]byte),
	}
}

// AddFile seeds the filesystem with a file.
func (m *FileSystem) AddFile(path string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = data
}

func (m *FileSystem) Open(ctx context.Context, path string) (ports.File, error) {
	m.mu.Lock()
	m.OpenCalls++
	m.mu.Unlock()

	if m.OpenFunc != nil {
		return m.OpenFunc(ctx, path)
	}

	m.mu.RLock()
	data, ok := m.files[path]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("file not found: %s", path)
	}
	return &File{
		Reader:  bytes.NewReader(data),
		SizeVal: int64(len(data)),
		onClose: m.fileClosed,
	}, nil
}

func (m *FileSystem) WriteFile(ctx context.Context, path string, data []byte) error {
	m.mu.Lock()
	m.WriteFileCalls++
	m.mu.Unlock()

	if m.WriteFileFunc != nil {
		return m.WriteFileFunc(ctx, path, data)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = append([]byte(nil), data...)
	return nil
}

func (m *FileSystem) fileClosed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CloseCalls++
}

// GetFile returns the contents of a file (for test verification).
func (m *FileSystem) GetFile(path string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.files[path]
	return data, ok
}

var _ ports.FileSystem = (*FileSystem)(nil)

// File is a mock implementation of ports.File with injectable failures.
type File struct {
	Reader   *bytes.Reader
	SizeVal  int64
	ReadErr  error
	CloseErr error

	// Recorded state for verification
	Closed bool

	onClose func()
}

// NewFile creates a standalone mock File serving data.
func NewFile(data []byte) *File {
	return &File{Reader: bytes.NewReader(data), SizeVal: int64(len(data))}
}

func (f *File) Read(p []byte) (int, error) {
	if f.ReadErr != nil {
		return 0, f.ReadErr
	}
	return f.Reader.Read(p)
}

func (f *File) Close() error {
	f.Closed = true
	if f.onClose != nil {
		f.onClose()
	}
	return f.CloseErr
}

func (f *File) Size() int64 {
	return f.SizeVal
}

var _ ports.File = (*File)(nil)
