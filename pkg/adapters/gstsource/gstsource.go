// Package gstsource provides a FrameSource backed by a GStreamer
// capture pipeline reading from a V4L2 camera device or an RTSP stream.
//
// Decoded frames are published into a latest-wins mailbox
// (queuesource.Queue), so a slow consumer sees the freshest frame and
// never a backlog.
package gstsource

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/ideamans/go-l10n"

	"github.com/user/camsnap/pkg/adapters/queuesource"
	"github.com/user/camsnap/pkg/ports"
)

// Kind selects the capture pipeline's input element.
type Kind string

const (
	// KindV4L2 captures from a local camera device via v4l2src.
	KindV4L2 Kind = "v4l2"
	// KindRTSP captures from a network stream via rtspsrc.
	KindRTSP Kind = "rtsp"
)

// Defaults applied when the config leaves the fields zero.
const (
	DefaultDevice = "/dev/video0"
	DefaultWidth  = 640
	DefaultHeight = 480
	DefaultFPS    = 5.0
)

// ErrNotStarted is returned by Acquire before Start has run.
var ErrNotStarted = errors.New("capture pipeline not started")

// Config configures a Source.
type Config struct {
	// Kind selects v4l2 or rtsp capture.
	Kind Kind

	// Device is the V4L2 device path; used when Kind is KindV4L2.
	Device string

	// URL is the RTSP stream location; used when Kind is KindRTSP.
	URL string

	// Width and Height are the output frame dimensions; the pipeline
	// scales the camera's native resolution to them.
	Width  int
	Height int

	// FPS caps the capture rate; frames above it are dropped before
	// reaching the mailbox.
	FPS float64

	// Queue configures the mailbox frames are published into.
	Queue queuesource.Config
}

func (c *Config) applyDefaults() {
	if c.Kind == "" {
		c.Kind = KindV4L2
	}
	if c.Device == "" {
		c.Device = DefaultDevice
	}
	if c.Width <= 0 {
		c.Width = DefaultWidth
	}
	if c.Height <= 0 {
		c.Height = DefaultHeight
	}
	if c.FPS <= 0 {
		c.FPS = DefaultFPS
	}
}

func (c *Config) validate() error {
	switch c.Kind {
	case KindV4L2:
		if !strings.HasPrefix(c.Device, "/dev/") {
			return fmt.Errorf("v4l2 device %q is not a device path", c.Device)
		}
	case KindRTSP:
		if !strings.HasPrefix(c.URL, "rtsp://") && !strings.HasPrefix(c.URL, "rtsps://") {
			return fmt.Errorf("rtsp url %q must use an rtsp scheme", c.URL)
		}
	default:
		return fmt.Errorf("unknown source kind %q", c.Kind)
	}
	return nil
}

// location returns the human-readable capture target for log lines.
func (c *Config) location() string {
	if c.Kind == KindRTSP {
		return c.URL
	}
	return c.Device
}

// Source implements ports.FrameSource over a GStreamer pipeline.
type Source struct {
	cfg    Config
	queue  *queuesource.Queue
	logger ports.Logger

	mu       sync.Mutex
	pipeline *pipeline
	stopped  chan struct{}
	started  bool
}

// New creates a Source. The pipeline is built and started by Start;
// Acquire before Start reports ErrNotStarted.
func New(cfg Config, log ports.Logger) (*Source, error) {
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Source{
		cfg:    cfg,
		queue:  queuesource.New(cfg.Queue),
		logger: log.WithComponent("gstsource"),
	}, nil
}

// Start builds the capture pipeline and sets it playing. Frames flow
// into the mailbox until Stop or a pipeline error.
func (s *Source) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return errors.New("capture pipeline already started")
	}

	s.logger.Info(l10n.F("Starting capture pipeline for %s", s.cfg.location()))

	p, err := buildPipeline(s.cfg, s.queue, s.logger)
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}
	if err := p.play(); err != nil {
		p.destroy()
		return fmt.Errorf("start pipeline: %w", err)
	}
	s.logger.Debug(l10n.T("Capture pipeline is playing"))

	s.pipeline = p
	s.started = true
	s.stopped = make(chan struct{})

	go s.watchBus(ctx)
	return nil
}

// watchBus drains pipeline bus messages until Stop or a fatal error.
func (s *Source) watchBus(ctx context.Context) {
	err := s.pipeline.monitor(ctx, s.stopped, s.logger)
	if err != nil {
		s.logger.Error(l10n.F("Pipeline error: %s", err))
		// A dead pipeline publishes nothing more; close the mailbox so
		// waiting acquirers fail fast instead of timing out.
		s.queue.Close()
	}
}

// Acquire returns the most recent decoded frame, waiting up to the
// mailbox's bound.
func (s *Source) Acquire(ctx context.Context) (*ports.Frame, error) {
	s.mu.Lock()
	started := s.started
	s.mu.Unlock()
	if !started {
		return nil, ErrNotStarted
	}
	return s.queue.Acquire(ctx)
}

// Release returns a borrowed frame to the mailbox.
func (s *Source) Release(frame *ports.Frame) {
	s.queue.Release(frame)
}

// Stats exposes the mailbox counters.
func (s *Source) Stats() queuesource.Stats {
	return s.queue.Stats()
}

// Stop tears the pipeline down. Safe to call more than once.
func (s *Source) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	s.logger.Info(l10n.T("Stopping capture pipeline"))
	close(s.stopped)
	s.pipeline.destroy()
	s.queue.Close()
	s.started = false
}

// Ensure Source implements ports.FrameSource
var _ ports.FrameSource = (*Source)(nil)
