package mocks

import (
	"github.com/user/camsnap/pkg/ports"
)

// Compressor is a mock implementation of ports.Compressor.
// By default it returns a copy of the frame's data unchanged.
type Compressor struct {
	CompressFunc func(frame *ports.Frame) ([]byte, error)

	// Recorded calls for verification
	CompressCalls int
}

// NewCompressor creates a new mock Compressor.
func NewCompressor() *Compressor {
	return &Compressor{}
}

func (m *Compressor) Compress(frame *ports.Frame) ([]byte, error) {
	m.CompressCalls++
	if m.CompressFunc != nil {
		return m.CompressFunc(frame)
	}
	out := make([]byte, len(frame.Data))
	copy(out, frame.Data)
	return out, nil
}

var _ ports.Compressor = (*Compressor)(nil)
