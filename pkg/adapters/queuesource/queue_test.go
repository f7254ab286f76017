package queuesource

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/user/camsnap/pkg/ports"
)

func shortQueue(slots int) *Queue {
	return New(Config{Slots: slots, AcquireTimeout: 50 * time.Millisecond})
}

func TestAcquireReturnsPublishedFrame(t *testing.T) {
	q := shortQueue(2)
	q.Publish(&ports.Frame{Data: []byte{0x01}})

	frame, err := q.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if frame.Seq != 1 {
		t.Errorf("Seq = %d, want 1", frame.Seq)
	}
	q.Release(frame)

	stats := q.Stats()
	if stats.Acquired != 1 || stats.Released != 1 || stats.InFlight != 0 {
		t.Errorf("stats = %+v, want one acquire, one release, none in flight", stats)
	}
}

func TestAcquireTimesOutEmpty(t *testing.T) {
	q := shortQueue(2)

	start := time.Now()
	_, err := q.Acquire(context.Background())
	if !errors.Is(err, ports.ErrNoFrame) {
		t.Fatalf("error = %v, want ErrNoFrame", err)
	}
	if elapsed := time.Since(start); elapsed < 40*time.Millisecond {
		t.Errorf("returned after %v, want the full bound", elapsed)
	}
}

func TestLatestFrameWins(t *testing.T) {
	q := shortQueue(2)
	q.Publish(&ports.Frame{Data: []byte{0x01}})
	q.Publish(&ports.Frame{Data: []byte{0x02}})

	frame, err := q.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if frame.Data[0] != 0x02 {
		t.Errorf("got frame %x, want the newest (02)", frame.Data)
	}
	q.Release(frame)

	if stats := q.Stats(); stats.Dropped != 1 {
		t.Errorf("Dropped = %d, want 1", stats.Dropped)
	}
}

func TestPublishRefusedWhileSlotsBorrowed(t *testing.T) {
	q := shortQueue(1)
	q.Publish(&ports.Frame{Data: []byte{0x01}})

	frame, err := q.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}

	// The only slot is borrowed; a new frame must be refused, not
	// queued behind it.
	q.Publish(&ports.Frame{Data: []byte{0x02}})
	if stats := q.Stats(); stats.DroppedNoSlot != 1 {
		t.Errorf("DroppedNoSlot = %d, want 1", stats.DroppedNoSlot)
	}

	q.Release(frame)
	q.Publish(&ports.Frame{Data: []byte{0x03}})
	again, err := q.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire after release failed: %v", err)
	}
	q.Release(again)
}

func TestAcquireHonorsContext(t *testing.T) {
	q := New(Config{AcquireTimeout: time.Minute})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := q.Acquire(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want DeadlineExceeded", err)
	}
}

func TestCloseWakesWaiters(t *testing.T) {
	q := New(Config{AcquireTimeout: time.Minute})

	done := make(chan error, 1)
	go func() {
		_, err := q.Acquire(context.Background())
		done <- err
	}()

	time.Sleep(10 * time.Millisecond)
	q.Close()

	select {
	case err := <-done:
		if !errors.Is(err, ports.ErrNoFrame) {
			t.Errorf("error = %v, want ErrNoFrame", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Acquire did not return after Close")
	}

	// Publishing after close is dropped silently.
	q.Publish(&ports.Frame{Data: []byte{0x01}})
	if stats := q.Stats(); stats.Published != 0 {
		t.Errorf("Published = %d after close, want 0", stats.Published)
	}
}

func TestReleaseNilIsNoOp(t *testing.T) {
	q := shortQueue(2)
	q.Release(nil)
	if stats := q.Stats(); stats.Released != 0 || stats.InFlight != 0 {
		t.Errorf("stats = %+v, want untouched counters", stats)
	}
}
