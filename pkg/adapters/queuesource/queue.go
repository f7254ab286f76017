// Package queuesource provides a channel-backed FrameSource that holds
// the most recent published frame.
package queuesource

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/user/camsnap/pkg/ports"
)

// DefaultAcquireTimeout bounds the wait in Acquire when the context has
// no tighter deadline.
const DefaultAcquireTimeout = 1 * time.Second

// DefaultSlots is the number of frames that may be borrowed and not yet
// released at once, mirroring the small buffer pools of camera drivers.
const DefaultSlots = 2

// Config configures a Queue. Zero values select the defaults.
type Config struct {
	// Slots bounds the number of concurrently borrowed frames.
	// Publishing while every slot is taken drops the frame.
	Slots int

	// AcquireTimeout bounds the wait for a frame in Acquire.
	AcquireTimeout time.Duration
}

// Stats is a point-in-time snapshot of queue counters.
type Stats struct {
	Published     uint64 // frames accepted into the mailbox
	Dropped       uint64 // frames discarded by latest-wins overwrite
	DroppedNoSlot uint64 // frames refused because every slot was borrowed
	Acquired      uint64
	Released      uint64
	InFlight      int64
}

// Queue implements ports.FrameSource with latest-wins semantics: the
// mailbox holds one frame, and a new publish replaces an unconsumed
// older frame rather than queueing behind it.
type Queue struct {
	mailbox chan *ports.Frame
	slots   int64
	timeout time.Duration
	done    chan struct{}

	inFlight      atomic.Int64
	seq           atomic.Uint64
	closed        atomic.Bool
	published     atomic.Uint64
	dropped       atomic.Uint64
	droppedNoSlot atomic.Uint64
	acquired      atomic.Uint64
	released      atomic.Uint64
}

// New creates a Queue.
func New(cfg Config) *Queue {
	slots := cfg.Slots
	if slots <= 0 {
		slots = DefaultSlots
	}
	timeout := cfg.AcquireTimeout
	if timeout <= 0 {
		timeout = DefaultAcquireTimeout
	}
	return &Queue{
		mailbox: make(chan *ports.Frame, 1),
		slots:   int64(slots),
		timeout: timeout,
		done:    make(chan struct{}),
	}
}

// Publish offers a frame to the mailbox and never blocks. The newest
// frame wins: an unconsumed older frame is discarded. While every
// borrow slot is taken the frame is refused instead, keeping the number
// of live buffers bounded. Publish assigns Seq; the publisher hands
// over ownership of frame.Data and must not touch it afterwards.
func (q *Queue) Publish(frame *ports.Frame) {
	if frame == nil || q.closed.Load() {
		return
	}
	if q.inFlight.Load() >= q.slots {
		q.droppedNoSlot.Add(1)
		return
	}
	frame.Seq = q.seq.Add(1)

	select {
	case q.mailbox <- frame:
		q.published.Add(1)
		return
	default:
	}

	// Mailbox occupied: evict the stale frame and retry once. A
	// concurrent Acquire may win the eviction race, in which case the
	// new frame is the one lost.
	select {
	case <-q.mailbox:
		q.dropped.Add(1)
	default:
	}
	select {
	case q.mailbox <- frame:
		q.published.Add(1)
	default:
		q.dropped.Add(1)
	}
}

// Acquire returns the mailbox frame, waiting up to the configured
// bound for one to arrive. The error wraps ports.ErrNoFrame when the
// bound expires or the queue is closed; a done context reports ctx.Err.
func (q *Queue) Acquire(ctx context.Context) (*ports.Frame, error) {
	// Fast path: a frame is already waiting.
	select {
	case frame := <-q.mailbox:
		return q.borrowed(frame), nil
	default:
	}

	timer := time.NewTimer(q.timeout)
	defer timer.Stop()

	select {
	case frame := <-q.mailbox:
		return q.borrowed(frame), nil
	case <-timer.C:
		return nil, fmt.Errorf("%w after %s", ports.ErrNoFrame, q.timeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-q.done:
		return nil, fmt.Errorf("%w: source closed", ports.ErrNoFrame)
	}
}

func (q *Queue) borrowed(frame *ports.Frame) *ports.Frame {
	q.inFlight.Add(1)
	q.acquired.Add(1)
	return frame
}

// Release returns a borrowed frame's slot. Releasing nil is a no-op;
// an unmatched release does not drive the slot count negative.
func (q *Queue) Release(frame *ports.Frame) {
	if frame == nil {
		return
	}
	q.released.Add(1)
	for {
		cur := q.inFlight.Load()
		if cur <= 0 {
			return
		}
		if q.inFlight.CompareAndSwap(cur, cur-1) {
			return
		}
	}
}

// Close shuts the queue: later publishes are dropped and waiting
// acquirers return. Safe to call more than once.
func (q *Queue) Close() {
	if q.closed.CompareAndSwap(false, true) {
		close(q.done)
	}
}

// Stats returns a snapshot of the queue counters.
func (q *Queue) Stats() Stats {
	return Stats{
		Published:     q.published.Load(),
		Dropped:       q.dropped.Load(),
		DroppedNoSlot: q.droppedNoSlot.Load(),
		Acquired:      q.acquired.Load(),
		Released:      q.released.Load(),
		InFlight:      q.inFlight.Load(),
	}
}

// Ensure Queue implements ports.FrameSource
var _ ports.FrameSource = (*Queue)(nil)
