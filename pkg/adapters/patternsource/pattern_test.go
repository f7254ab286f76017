package patternsource

import (
	"context"
	"errors"
	"testing"

	"github.com/user/camsnap/pkg/ports"
)

func TestAcquireReturnsPatternFrame(t *testing.T) {
	src, err := New(Config{Pattern: PatternColorBars, Width: 64, Height: 48})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	frame, err := src.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	defer src.Release(frame)

	if frame.Width != 64 || frame.Height != 48 {
		t.Errorf("dimensions = %dx%d, want 64x48", frame.Width, frame.Height)
	}
	if frame.Format != ports.FormatRGBA {
		t.Errorf("format = %s, want rgba", frame.Format)
	}
	if len(frame.Data) != 64*48*4 {
		t.Errorf("data length = %d, want %d", len(frame.Data), 64*48*4)
	}
	if frame.TraceID == "" {
		t.Error("TraceID is empty")
	}
}

func TestFramesAreDeterministicCopies(t *testing.T) {
	src, err := New(Config{Pattern: PatternGradient, Width: 32, Height: 8})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ctx := context.Background()
	a, err := src.Acquire(ctx)
	if err != nil {
		t.Fatalf("first Acquire failed: %v", err)
	}
	b, err := src.Acquire(ctx)
	if err != nil {
		t.Fatalf("second Acquire failed: %v", err)
	}

	if &a.Data[0] == &b.Data[0] {
		t.Error("frames share a backing buffer")
	}
	for i := range a.Data {
		if a.Data[i] != b.Data[i] {
			t.Fatalf("pixel data differs at byte %d", i)
		}
	}
	if a.Seq == b.Seq {
		t.Error("sequence numbers should differ")
	}

	src.Release(a)
	src.Release(b)
}

func TestSlotExhaustion(t *testing.T) {
	src, err := New(Config{Pattern: PatternGrid, Width: 32, Height: 32, Slots: 1})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ctx := context.Background()
	frame, err := src.Acquire(ctx)
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}

	if _, err := src.Acquire(ctx); !errors.Is(err, ports.ErrNoFrame) {
		t.Errorf("second Acquire error = %v, want ErrNoFrame", err)
	}

	src.Release(frame)
	again, err := src.Acquire(ctx)
	if err != nil {
		t.Fatalf("Acquire after release failed: %v", err)
	}
	src.Release(again)
}

func TestUnknownPattern(t *testing.T) {
	if _, err := New(Config{Pattern: "plasma"}); err == nil {
		t.Error("expected error for unknown pattern")
	}
}

func TestCanceledContext(t *testing.T) {
	src, err := New(Config{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := src.Acquire(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Acquire error = %v, want context.Canceled", err)
	}
}
