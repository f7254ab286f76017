// Package snapshot implements the two encoding operations of the module:
// capturing one camera frame as Base64 text and encoding a file's
// contents as Base64 text.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/ideamans/go-l10n"

	"github.com/user/camsnap/pkg/ports"
)

// ErrEmptyCompression is returned when the compressor reports success
// but hands back an empty buffer.
var ErrEmptyCompression = errors.New("compressor returned an empty buffer")

// ErrUnknownSize is returned when a file handle cannot report its size.
var ErrUnknownSize = errors.New("file size unknown")

var (
	// ErrNoSource is returned by CaptureFrame when the Encoder was
	// built without a frame source.
	ErrNoSource = errors.New("no frame source configured")
	// ErrNoFileSystem is returned by EncodeFile when the Encoder was
	// built without a filesystem.
	ErrNoFileSystem = errors.New("no filesystem configured")
)

// Encoder produces Base64 text from camera frames and files. All
// collaborators are injected; the Encoder holds no global state and is
// safe to construct once per deployment or once per test.
type Encoder struct {
	source     ports.FrameSource
	compressor ports.Compressor
	codec      ports.TextCodec
	fs         ports.FileSystem
	logger     ports.Logger
}

// New creates a new Encoder. source and compressor may be nil when only
// EncodeFile is used; fs may be nil when only CaptureFrame is used.
func New(
	source ports.FrameSource,
	compressor ports.Compressor,
	codec ports.TextCodec,
	fs ports.FileSystem,
	logger ports.Logger,
) *Encoder {
	return &Encoder{
		source:     source,
		compressor: compressor,
		codec:      codec,
		fs:         fs,
		logger:     logger,
	}
}

// CaptureFrame borrows one frame from the source, compresses it, and
// returns the Base64 text of the compressed image.
//
// The frame is released back to the source as soon as the compressor
// returns, before any encoding work, on success and failure alike. The
// bounded wait for a frame belongs to the source; callers wanting a
// tighter bound pass a context with a deadline. One attempt per call:
// when nothing is available the error wraps ports.ErrNoFrame and any
// retry is the caller's.
func (e *Encoder) CaptureFrame(ctx context.Context) (string, error) {
	if e.source == nil {
		return "", ErrNoSource
	}

	// 1. Borrow the most recent frame
	frame, err := e.source.Acquire(ctx)
	if err != nil {
		if errors.Is(err, ports.ErrNoFrame) {
			e.logger.Warn(l10n.T("No frame available from source"))
		} else {
			e.logger.Error(l10n.F("Failed to acquire frame: %s", err))
		}
		return "", fmt.Errorf("acquire frame: %w", err)
	}
	e.logger.Debug(l10n.F("Acquired frame seq=%d (%dx%d %s)", frame.Seq, frame.Width, frame.Height, frame.Format))

	// 2. Compress, then release the borrow immediately: the source's
	// buffer pool is small, and the encoding work below must not hold
	// a slot.
	data, cerr := e.compressor.Compress(frame)
	e.source.Release(frame)
	if cerr != nil {
		e.logger.Error(l10n.F("Failed to compress frame: %s", cerr))
		return "", fmt.Errorf("compress frame: %w", cerr)
	}
	if len(data) == 0 {
		e.logger.Error(l10n.T("Compressor returned an empty buffer"))
		return "", ErrEmptyCompression
	}

	// 3. Encode to text. This cannot fail once a non-empty compressed
	// buffer exists.
	text := e.codec.Encode(data)
	e.logger.Info(l10n.F("Captured frame: %d compressed bytes, %d text chars", len(data), len(text)))
	return text, nil
}

// EncodeFile reads the file at path through the filesystem and returns
// the Base64 text of its contents. The handle is closed before encoding
// begins, so every successful open is balanced by exactly one close on
// every path. An empty file yields an empty string with a nil error.
func (e *Encoder) EncodeFile(ctx context.Context, path string) (string, error) {
	if e.fs == nil {
		return "", ErrNoFileSystem
	}

	// 1. Open and size
	f, err := e.fs.Open(ctx, path)
	if err != nil {
		e.logger.Error(l10n.F("Failed to open %s: %s", path, err))
		return "", fmt.Errorf("open %s: %w", path, err)
	}

	size := f.Size()
	if size < 0 {
		f.Close()
		e.logger.Error(l10n.F("Size of %s is unknown", path))
		return "", fmt.Errorf("%w: %s", ErrUnknownSize, path)
	}

	// 2. Read fully into a buffer sized exactly to the file, then
	// close before any encoding work.
	buf := make([]byte, size)
	_, err = io.ReadFull(f, buf)
	f.Close()
	if err != nil {
		e.logger.Error(l10n.F("Failed to read %s: %s", path, err))
		return "", fmt.Errorf("read %s: %w", path, err)
	}

	// 3. Encode
	text := e.codec.Encode(buf)
	e.logger.Info(l10n.F("Encoded %s: %d bytes, %d text chars", path, size, len(text)))
	return text, nil
}
