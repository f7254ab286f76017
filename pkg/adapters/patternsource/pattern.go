// Package patternsource provides a FrameSource that synthesizes test
// pattern frames, for running the capture path without camera hardware.
package patternsource

import (
	"context"
	"fmt"
	"image"
	"sync/atomic"
	"time"

	"github.com/fogleman/gg"
	"github.com/google/uuid"

	"github.com/user/camsnap/pkg/ports"
)

// Pattern selects which test pattern the source draws.
type Pattern string

const (
	// PatternColorBars draws vertical SMPTE-style color bars.
	PatternColorBars Pattern = "colorbars"
	// PatternGradient draws a horizontal black-to-white gradient.
	PatternGradient Pattern = "gradient"
	// PatternGrid draws a line grid over a dark background.
	PatternGrid Pattern = "grid"
)

// DefaultWidth and DefaultHeight are the frame dimensions when the
// config leaves them zero.
const (
	DefaultWidth  = 640
	DefaultHeight = 480
)

// DefaultSlots bounds concurrently borrowed frames, mirroring the
// small buffer pools of real camera drivers.
const DefaultSlots = 2

// Config configures a Source. Zero values select the defaults.
type Config struct {
	Pattern Pattern
	Width   int
	Height  int

	// Slots bounds the number of borrowed, unreleased frames. While
	// every slot is taken Acquire reports ErrNoFrame, like a camera
	// with an exhausted buffer pool.
	Slots int
}

// Source implements ports.FrameSource by rendering a test pattern for
// every Acquire. The pattern pixels are drawn once and shared; each
// acquired frame gets its own copy so Release semantics match a real
// driver handing out distinct buffers.
type Source struct {
	pattern Pattern
	width   int
	height  int
	slots   int64
	pix     []byte

	inFlight atomic.Int64
	seq      atomic.Uint64
}

// New creates a pattern source, rendering the pattern eagerly.
func New(cfg Config) (*Source, error) {
	pattern := cfg.Pattern
	if pattern == "" {
		pattern = PatternColorBars
	}
	width := cfg.Width
	if width <= 0 {
		width = DefaultWidth
	}
	height := cfg.Height
	if height <= 0 {
		height = DefaultHeight
	}
	slots := cfg.Slots
	if slots <= 0 {
		slots = DefaultSlots
	}

	pix, err := render(pattern, width, height)
	if err != nil {
		return nil, err
	}
	return &Source{
		pattern: pattern,
		width:   width,
		height:  height,
		slots:   int64(slots),
		pix:     pix,
	}, nil
}

// Pattern returns the pattern this source draws.
func (s *Source) Pattern() Pattern {
	return s.pattern
}

// Acquire hands out a fresh copy of the pattern frame. It fails with
// ErrNoFrame only while every borrow slot is taken.
func (s *Source) Acquire(ctx context.Context) (*ports.Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for {
		cur := s.inFlight.Load()
		if cur >= s.slots {
			return nil, fmt.Errorf("%w: all %d slots borrowed", ports.ErrNoFrame, s.slots)
		}
		if s.inFlight.CompareAndSwap(cur, cur+1) {
			break
		}
	}

	data := make([]byte, len(s.pix))
	copy(data, s.pix)
	return &ports.Frame{
		Data:      data,
		Width:     s.width,
		Height:    s.height,
		Format:    ports.FormatRGBA,
		Timestamp: time.Now(),
		Seq:       s.seq.Add(1),
		TraceID:   uuid.New().String(),
	}, nil
}

// Release returns a borrowed frame's slot. Releasing nil is a no-op.
func (s *Source) Release(frame *ports.Frame) {
	if frame == nil {
		return
	}
	for {
		cur := s.inFlight.Load()
		if cur <= 0 {
			return
		}
		if s.inFlight.CompareAndSwap(cur, cur-1) {
			return
		}
	}
}

// render draws the pattern and returns its RGBA pixels.
func render(pattern Pattern, width, height int) ([]byte, error) {
	dc := gg.NewContext(width, height)

	switch pattern {
	case PatternColorBars:
		drawColorBars(dc, width, height)
	case PatternGradient:
		drawGradient(dc, width, height)
	case PatternGrid:
		drawGrid(dc, width, height)
	default:
		return nil, fmt.Errorf("unknown pattern %q", pattern)
	}

	img, ok := dc.Image().(*image.RGBA)
	if !ok {
		return nil, fmt.Errorf("unexpected image type %T", dc.Image())
	}
	return img.Pix, nil
}

var barColors = [][3]float64{
	{0.75, 0.75, 0.75}, // white
	{0.75, 0.75, 0},    // yellow
	{0, 0.75, 0.75},    // cyan
	{0, 0.75, 0},       // green
	{0.75, 0, 0.75},    // magenta
	{0.75, 0, 0},       // red
	{0, 0, 0.75},       // blue
}

func drawColorBars(dc *gg.Context, width, height int) {
	barWidth := float64(width) / float64(len(barColors))
	for i, c := range barColors {
		dc.SetRGB(c[0], c[1], c[2])
		dc.DrawRectangle(float64(i)*barWidth, 0, barWidth+1, float64(height))
		dc.Fill()
	}
}

func drawGradient(dc *gg.Context, width, height int) {
	span := width - 1
	if span < 1 {
		span = 1
	}
	for x := 0; x < width; x++ {
		v := float64(x) / float64(span)
		dc.SetRGB(v, v, v)
		dc.DrawRectangle(float64(x), 0, 1, float64(height))
		dc.Fill()
	}
}

const gridSpacing = 32

func drawGrid(dc *gg.Context, width, height int) {
	dc.SetRGB(0.1, 0.1, 0.15)
	dc.Clear()
	dc.SetRGB(0.3, 0.9, 0.5)
	dc.SetLineWidth(1)
	for x := 0; x <= width; x += gridSpacing {
		dc.DrawLine(float64(x), 0, float64(x), float64(height))
	}
	for y := 0; y <= height; y += gridSpacing {
		dc.DrawLine(0, float64(y), float64(width), float64(y))
	}
	dc.Stroke()
}

// Ensure Source implements ports.FrameSource
var _ ports.FrameSource = (*Source)(nil)
