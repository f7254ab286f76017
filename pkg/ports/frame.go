// Package ports defines the interfaces and shared types that decouple the
// snapshot encoder from camera, compression, codec, and storage backends.
package ports

import (
	"context"
	"errors"
	"time"
)

// PixelFormat identifies the in-memory layout of a frame's Data.
type PixelFormat int

const (
	// FormatRGBA is 8-bit RGBA, 4 bytes per pixel, row-major.
	FormatRGBA PixelFormat = iota
	// FormatRGB is 8-bit RGB, 3 bytes per pixel, row-major.
	FormatRGB
	// FormatGray is 8-bit grayscale, 1 byte per pixel.
	FormatGray
	// FormatJPEG is an already-compressed JPEG payload.
	FormatJPEG
)

// String returns the string representation of the pixel format.
func (f PixelFormat) String() string {
	switch f {
	case FormatRGBA:
		return "rgba"
	case FormatRGB:
		return "rgb"
	case FormatGray:
		return "gray"
	case FormatJPEG:
		return "jpeg"
	default:
		return "unknown"
	}
}

// BytesPerPixel returns the size of one pixel in Data for raw formats,
// and 0 for compressed formats whose length is not derivable from the
// dimensions.
func (f PixelFormat) BytesPerPixel() int {
	switch f {
	case FormatRGBA:
		return 4
	case FormatRGB:
		return 3
	case FormatGray:
		return 1
	default:
		return 0
	}
}

// ErrNoFrame is reported by FrameSource.Acquire when its bounded wait
// expires without a frame becoming available.
var ErrNoFrame = errors.New("no frame available")

// Frame is a single camera frame borrowed from a FrameSource.
//
// Data is owned by the source. Holders may read it until they call
// Release; after that the source is free to reuse or discard the
// backing buffer.
type Frame struct {
	// Data holds the payload in the layout described by Format.
	Data []byte

	// Width and Height are the frame dimensions in pixels.
	Width  int
	Height int

	// Format describes the layout of Data.
	Format PixelFormat

	// Timestamp is when the source produced the frame.
	Timestamp time.Time

	// Seq increases by one for every frame the source publishes.
	Seq uint64

	// TraceID correlates one frame across log lines.
	TraceID string
}

// FrameSource hands out camera frames one at a time.
//
// Sources keep only the most recent frame and a small pool of buffers,
// so holders must release promptly: a borrowed frame occupies one of
// the source's slots until Release is called.
type FrameSource interface {
	// Acquire returns the most recent frame, waiting up to the
	// source's configured bound for one to become available. It
	// returns an error wrapping ErrNoFrame when the wait expires
	// empty-handed, or ctx.Err() when the context is done first.
	Acquire(ctx context.Context) (*Frame, error)

	// Release returns a frame obtained from Acquire to the source.
	// Every acquired frame must be released exactly once; releasing
	// nil is a no-op.
	Release(frame *Frame)
}
