package gstsource

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/ideamans/go-l10n"
	"github.com/tinyzimmer/go-gst/gst"
	"github.com/tinyzimmer/go-gst/gst/app"

	"github.com/user/camsnap/pkg/adapters/queuesource"
	"github.com/user/camsnap/pkg/ports"
)

// rtspLatencyMs is the jitter buffer depth for network streams.
const rtspLatencyMs = 200

// busPollInterval keeps bus monitoring responsive to shutdown.
const busPollInterval = 50 * time.Millisecond

// pipeline wraps the GStreamer elements for one capture session.
type pipeline struct {
	gp   *gst.Pipeline
	sink *app.Sink
}

// buildPipeline assembles the capture pipeline and wires its appsink
// into the mailbox. Layout:
//
//	v4l2src → videoconvert → videoscale → videorate → capsfilter → appsink
//	rtspsrc → rtph264depay → avdec_h264 → videoconvert → videoscale →
//	          videorate → capsfilter → appsink
//
// The pipeline is left in the NULL state; play() starts it.
func buildPipeline(cfg Config, queue *queuesource.Queue, log ports.Logger) (*pipeline, error) {
	gst.Init(nil)

	gp, err := gst.NewPipeline("")
	if err != nil {
		return nil, fmt.Errorf("create pipeline: %w", err)
	}

	convert, err := gst.NewElement("videoconvert")
	if err != nil {
		return nil, fmt.Errorf("create videoconvert: %w", err)
	}
	scale, err := gst.NewElement("videoscale")
	if err != nil {
		return nil, fmt.Errorf("create videoscale: %w", err)
	}

	// videorate drops frames above the target FPS, never duplicates.
	rate, err := gst.NewElement("videorate")
	if err != nil {
		return nil, fmt.Errorf("create videorate: %w", err)
	}
	rate.SetProperty("drop-only", true)
	rate.SetProperty("skip-to-first", true)

	capsfilter, err := gst.NewElement("capsfilter")
	if err != nil {
		return nil, fmt.Errorf("create capsfilter: %w", err)
	}
	capsfilter.SetProperty("caps", gst.NewCapsFromString(capsString(cfg.Width, cfg.Height, cfg.FPS)))

	sink, err := app.NewAppSink()
	if err != nil {
		return nil, fmt.Errorf("create appsink: %w", err)
	}
	sink.SetProperty("sync", false)
	sink.SetProperty("max-buffers", 1)
	sink.SetProperty("drop", true)

	sink.SetCallbacks(&app.SinkCallbacks{
		NewSampleFunc: func(s *app.Sink) gst.FlowReturn {
			return publishSample(s, cfg, queue, log)
		},
	})

	switch cfg.Kind {
	case KindV4L2:
		src, err := gst.NewElement("v4l2src")
		if err != nil {
			return nil, fmt.Errorf("create v4l2src: %w", err)
		}
		src.SetProperty("device", cfg.Device)

		gp.AddMany(src, convert, scale, rate, capsfilter, sink.Element)
		if err := gst.ElementLinkMany(src, convert, scale, rate, capsfilter, sink.Element); err != nil {
			return nil, fmt.Errorf("link v4l2 pipeline: %w", err)
		}

	case KindRTSP:
		src, err := gst.NewElement("rtspsrc")
		if err != nil {
			return nil, fmt.Errorf("create rtspsrc: %w", err)
		}
		src.SetProperty("location", cfg.URL)
		src.SetProperty("latency", rtspLatencyMs)

		depay, err := gst.NewElement("rtph264depay")
		if err != nil {
			return nil, fmt.Errorf("create rtph264depay: %w", err)
		}
		decode, err := gst.NewElement("avdec_h264")
		if err != nil {
			return nil, fmt.Errorf("create avdec_h264: %w", err)
		}

		gp.AddMany(src, depay, decode, convert, scale, rate, capsfilter, sink.Element)
		if err := gst.ElementLinkMany(depay, decode, convert, scale, rate, capsfilter, sink.Element); err != nil {
			return nil, fmt.Errorf("link rtsp pipeline: %w", err)
		}

		// rtspsrc pads are dynamic; link to the depayloader as they
		// appear.
		src.Connect("pad-added", func(_ *gst.Element, pad *gst.Pad) {
			sinkPad := depay.GetStaticPad("sink")
			if sinkPad == nil || sinkPad.IsLinked() {
				return
			}
			pad.Link(sinkPad)
		})

	default:
		return nil, fmt.Errorf("unknown source kind %q", cfg.Kind)
	}

	return &pipeline{gp: gp, sink: sink}, nil
}

// publishSample copies one appsink sample into a Frame and offers it
// to the mailbox.
func publishSample(sink *app.Sink, cfg Config, queue *queuesource.Queue, log ports.Logger) gst.FlowReturn {
	sample := sink.PullSample()
	if sample == nil {
		// A corrupt sample should not kill the stream; skip it.
		log.Warn(l10n.T("Empty sample from appsink, skipping"))
		return gst.FlowOK
	}

	buffer := sample.GetBuffer()
	if buffer == nil {
		log.Warn(l10n.T("Empty sample from appsink, skipping"))
		return gst.FlowOK
	}

	mapInfo := buffer.Map(gst.MapRead)
	src := mapInfo.Bytes()
	if len(src) == 0 {
		buffer.Unmap()
		log.Warn(l10n.T("Empty sample from appsink, skipping"))
		return gst.FlowOK
	}

	// GStreamer reuses the buffer after Unmap; the frame needs its own
	// copy.
	data := make([]byte, len(src))
	copy(data, src)
	buffer.Unmap()

	queue.Publish(&ports.Frame{
		Data:      data,
		Width:     cfg.Width,
		Height:    cfg.Height,
		Format:    ports.FormatRGBA,
		Timestamp: time.Now(),
		TraceID:   uuid.New().String(),
	})
	return gst.FlowOK
}

// capsString builds the appsink caps, converting FPS to an exact
// fraction for GStreamer.
func capsString(width, height int, fps float64) string {
	num, den := framerateFraction(fps)
	return fmt.Sprintf("video/x-raw,format=RGBA,width=%d,height=%d,framerate=%d/%d",
		width, height, num, den)
}

// framerateFraction converts an FPS value to a numerator/denominator
// pair. Whole rates become n/1; fractional rates are scaled to keep
// two decimal places (0.5 fps → 50/100).
func framerateFraction(fps float64) (int, int) {
	if fps <= 0 {
		return 1, 1
	}
	if fps == math.Trunc(fps) {
		return int(fps), 1
	}
	return int(math.Round(fps * 100)), 100
}

// play sets the pipeline to the PLAYING state.
func (p *pipeline) play() error {
	return p.gp.SetState(gst.StatePlaying)
}

// destroy stops the pipeline and releases its resources. Safe to call
// on an already destroyed pipeline.
func (p *pipeline) destroy() {
	if p == nil || p.gp == nil {
		return
	}
	p.gp.SetState(gst.StateNull)
}

// monitor drains bus messages until stop closes or the pipeline fails.
// EOS and error messages end monitoring with an error so the owner can
// close the mailbox.
func (p *pipeline) monitor(ctx context.Context, stop <-chan struct{}, log ports.Logger) error {
	bus := p.gp.GetPipelineBus()
	for {
		select {
		case <-stop:
			return nil
		case <-ctx.Done():
			return nil
		default:
		}

		msg := bus.TimedPop(busPollInterval)
		if msg == nil {
			continue
		}
		switch msg.Type() {
		case gst.MessageEOS:
			log.Info(l10n.T("End of stream"))
			return fmt.Errorf("end of stream")
		case gst.MessageError:
			gerr := msg.ParseError()
			return fmt.Errorf("gstreamer: %s", gerr.Error())
		}
	}
}
