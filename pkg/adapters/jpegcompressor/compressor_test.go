package jpegcompressor

import (
	"bytes"
	"errors"
	"image/jpeg"
	"testing"

	"github.com/user/camsnap/pkg/ports"
)

func rgbaFrame(w, h int) *ports.Frame {
	data := make([]byte, w*h*4)
	for i := 0; i < len(data); i += 4 {
		data[i] = byte(i)
		data[i+1] = byte(i / 3)
		data[i+2] = 0x40
		data[i+3] = 0xFF
	}
	return &ports.Frame{Data: data, Width: w, Height: h, Format: ports.FormatRGBA}
}

func TestCompressProducesDecodableJPEG(t *testing.T) {
	c := New()

	out, err := c.Compress(rgbaFrame(64, 48))
	if err != nil {
		t.Fatalf("Compress failed: %v", err)
	}
	if len(out) == 0 {
		t.Fatal("Compress returned an empty buffer")
	}

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("output is not decodable JPEG: %v", err)
	}
	if cfg.Width != 64 || cfg.Height != 48 {
		t.Errorf("decoded dimensions = %dx%d, want 64x48", cfg.Width, cfg.Height)
	}
}

func TestQualityPolicy(t *testing.T) {
	tests := []struct {
		name string
		give int
		want int
	}{
		{"default", 0, DefaultQuality},
		{"explicit", 60, 60},
		{"clamped low", -5, 1},
		{"clamped high", 400, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewWithOptions(Options{Quality: tt.give})
			if got := c.Quality(); got != tt.want {
				t.Errorf("Quality() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestJPEGPassthroughCopies(t *testing.T) {
	c := New()

	orig := []byte{0xFF, 0xD8, 0xFF, 0xD9}
	frame := &ports.Frame{Data: orig, Width: 1, Height: 1, Format: ports.FormatJPEG}

	out, err := c.Compress(frame)
	if err != nil {
		t.Fatalf("Compress failed: %v", err)
	}
	if !bytes.Equal(out, orig) {
		t.Fatalf("passthrough changed payload: got %v, want %v", out, orig)
	}

	// Mutating the frame buffer afterwards must not affect the output.
	orig[0] = 0x00
	if out[0] != 0xFF {
		t.Error("output shares memory with the frame buffer")
	}
}

func TestGrayAndRGBFrames(t *testing.T) {
	tests := []struct {
		name   string
		format ports.PixelFormat
		bpp    int
	}{
		{"gray", ports.FormatGray, 1},
		{"rgb", ports.FormatRGB, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := make([]byte, 8*8*tt.bpp)
			for i := range data {
				data[i] = 0x80
			}
			frame := &ports.Frame{Data: data, Width: 8, Height: 8, Format: tt.format}

			out, err := New().Compress(frame)
			if err != nil {
				t.Fatalf("Compress failed: %v", err)
			}
			cfg, err := jpeg.DecodeConfig(bytes.NewReader(out))
			if err != nil {
				t.Fatalf("output is not decodable JPEG: %v", err)
			}
			if cfg.Width != 8 || cfg.Height != 8 {
				t.Errorf("decoded dimensions = %dx%d, want 8x8", cfg.Width, cfg.Height)
			}
		})
	}
}

func TestDownscaleCap(t *testing.T) {
	c := NewWithOptions(Options{MaxWidth: 32, MaxHeight: 32})

	out, err := c.Compress(rgbaFrame(128, 64))
	if err != nil {
		t.Fatalf("Compress failed: %v", err)
	}
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("output is not decodable JPEG: %v", err)
	}
	if cfg.Width != 32 || cfg.Height != 16 {
		t.Errorf("decoded dimensions = %dx%d, want 32x16 (aspect preserved)", cfg.Width, cfg.Height)
	}
}

func TestRejectsShortData(t *testing.T) {
	frame := &ports.Frame{Data: []byte{1, 2, 3}, Width: 10, Height: 10, Format: ports.FormatRGBA}

	if _, err := New().Compress(frame); !errors.Is(err, ErrShortFrame) {
		t.Errorf("want ErrShortFrame, got %v", err)
	}
}

func TestRejectsEmptyFrame(t *testing.T) {
	if _, err := New().Compress(nil); !errors.Is(err, ErrEmptyFrame) {
		t.Errorf("nil frame: want ErrEmptyFrame, got %v", err)
	}
	if _, err := New().Compress(&ports.Frame{}); !errors.Is(err, ErrEmptyFrame) {
		t.Errorf("zero frame: want ErrEmptyFrame, got %v", err)
	}
}
