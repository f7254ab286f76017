package mocks

import (
	"context"

	"github.com/user/camsnap/pkg/ports"
)

// FrameSource is a mock implementation of ports.FrameSource.
// Frames queued via QueueFrame are served in order; an empty queue
// reports ports.ErrNoFrame.
type FrameSource struct {
	frames []*ports.Frame

	AcquireFunc func(ctx context.Context) (*ports.Frame, error)
	ReleaseFunc func(frame *ports.Frame)

	// Recorded calls for verification
	AcquireCalls   int
	ReleaseCalls   int
	ReleasedFrames []*ports.Frame
}

// NewFrameSource creates a new mock FrameSource.
func NewFrameSource() *FrameSource {
	return &FrameSource{}
}

// QueueFrame appends a frame for Acquire to serve.
func (m *FrameSource) QueueFrame(frame *ports.Frame) {
	m.frames = append(m.frames, frame)
}

func (m *FrameSource) Acquire(ctx context.Context) (*ports.Frame, error) {
	m.AcquireCalls++
	if m.AcquireFunc != nil {
		return m.AcquireFunc(ctx)
	}
	if len(m.frames) == 0 {
		return nil, ports.ErrNoFrame
	}
	frame := m.frames[0]
	m.frames = m.frames[1:]
	return frame, nil
}

func (m *FrameSource) Release(frame *ports.Frame) {
	m.ReleaseCalls++
	m.ReleasedFrames = append(m.ReleasedFrames, frame)
	if m.ReleaseFunc != nil {
		m.ReleaseFunc(frame)
	}
}

var _ ports.FrameSource = (*FrameSource)(nil)
