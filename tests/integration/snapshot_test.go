// Package integration exercises the snapshot encoder through real
// adapters instead of mocks.
package integration

import (
	"bytes"
	"context"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/user/camsnap/pkg/adapters/base64codec"
	"github.com/user/camsnap/pkg/adapters/jpegcompressor"
	"github.com/user/camsnap/pkg/adapters/logger"
	"github.com/user/camsnap/pkg/adapters/mountfs"
	"github.com/user/camsnap/pkg/adapters/osfilesystem"
	"github.com/user/camsnap/pkg/adapters/patternsource"
	"github.com/user/camsnap/pkg/snapshot"
)

// TestCaptureThroughRealAdapters runs the full frame path: pattern
// source → JPEG compressor → Base64 codec.
func TestCaptureThroughRealAdapters(t *testing.T) {
	source, err := patternsource.New(patternsource.Config{
		Pattern: patternsource.PatternColorBars,
		Width:   320,
		Height:  240,
	})
	if err != nil {
		t.Fatalf("pattern source: %v", err)
	}

	codec := base64codec.New()
	enc := snapshot.New(source, jpegcompressor.New(), codec, nil, logger.NewNoop())

	text, err := enc.CaptureFrame(context.Background())
	if err != nil {
		t.Fatalf("CaptureFrame failed: %v", err)
	}
	if text == "" {
		t.Fatal("CaptureFrame returned empty text")
	}

	// The text must decode to a parseable JPEG of the source's size.
	data, err := codec.Decode(text)
	if err != nil {
		t.Fatalf("output is not valid Base64: %v", err)
	}
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a valid JPEG: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != 320 || bounds.Dy() != 240 {
		t.Errorf("decoded image is %dx%d, want 320x240", bounds.Dx(), bounds.Dy())
	}
}

// TestEncodeFileThroughMountTable runs the full file path: mountfs →
// rooted os filesystem → Base64 codec, using a drive-prefixed path.
func TestEncodeFileThroughMountTable(t *testing.T) {
	root := t.TempDir()
	content := []byte{0xFF, 0xFF, 0xFF, 0xFF}
	if err := os.WriteFile(filepath.Join(root, "a.bin"), content, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	fs := mountfs.New()
	fs.Mount("S", osfilesystem.NewRooted(root))

	codec := base64codec.New()
	enc := snapshot.New(nil, nil, codec, fs, logger.NewNoop())

	text, err := enc.EncodeFile(context.Background(), "S:/a.bin")
	if err != nil {
		t.Fatalf("EncodeFile failed: %v", err)
	}
	if text != "/////w==" {
		t.Errorf("text = %q, want %q", text, "/////w==")
	}

	// An unmounted prefix fails without producing text.
	if _, err := enc.EncodeFile(context.Background(), "Z:/a.bin"); err == nil {
		t.Error("expected error for unmounted prefix")
	}
}

// TestCaptureAndStoreRoundTrip captures a frame, writes the text
// through the mount table, and reads it back via the file path.
func TestCaptureAndStoreRoundTrip(t *testing.T) {
	root := t.TempDir()
	fs := mountfs.New()
	fs.Mount("S", osfilesystem.NewRooted(root))

	source, err := patternsource.New(patternsource.Config{
		Pattern: patternsource.PatternGrid,
		Width:   64,
		Height:  64,
	})
	if err != nil {
		t.Fatalf("pattern source: %v", err)
	}

	codec := base64codec.New()
	enc := snapshot.New(source, jpegcompressor.New(), codec, fs, logger.NewNoop())

	ctx := context.Background()
	text, err := enc.CaptureFrame(ctx)
	if err != nil {
		t.Fatalf("CaptureFrame failed: %v", err)
	}
	if err := fs.WriteFile(ctx, "S:/snap.b64", []byte(text)); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	again, err := enc.EncodeFile(ctx, "S:/snap.b64")
	if err != nil {
		t.Fatalf("EncodeFile failed: %v", err)
	}
	decoded, err := codec.Decode(again)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if string(decoded) != text {
		t.Error("stored text does not round-trip through the file path")
	}
}
