// Package jpegcompressor provides a Compressor implementation using image/jpeg.
package jpegcompressor

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"

	"golang.org/x/image/draw"

	"github.com/user/camsnap/pkg/ports"
)

// DefaultQuality is the fixed compression policy for captured frames.
const DefaultQuality = 80

// growHint preallocates the output buffer; typical camera JPEGs stay
// well under this.
const growHint = 256 * 1024

// ErrEmptyFrame is returned when the frame carries no data.
var ErrEmptyFrame = errors.New("frame has no data")

// ErrShortFrame is returned when Data holds fewer bytes than the frame
// dimensions imply.
var ErrShortFrame = errors.New("frame data shorter than dimensions imply")

// Options configures a Compressor. The zero value selects the defaults.
type Options struct {
	// Quality is the JPEG quality, clamped to [1, 100]. Zero selects
	// DefaultQuality.
	Quality int

	// MaxWidth and MaxHeight cap the output dimensions. Frames larger
	// than a cap are downscaled preserving aspect ratio; zero means
	// no cap.
	MaxWidth  int
	MaxHeight int
}

// Compressor implements ports.Compressor producing baseline JPEG.
// The policy (quality, size cap) is fixed at construction; callers of
// Compress cannot vary it per frame.
type Compressor struct {
	quality   int
	maxWidth  int
	maxHeight int
}

// New creates a Compressor with the default policy.
func New() *Compressor {
	return NewWithOptions(Options{})
}

// NewWithOptions creates a Compressor with a fixed policy.
func NewWithOptions(opts Options) *Compressor {
	q := opts.Quality
	if q == 0 {
		q = DefaultQuality
	}
	if q < 1 {
		q = 1
	}
	if q > 100 {
		q = 100
	}
	return &Compressor{quality: q, maxWidth: opts.MaxWidth, maxHeight: opts.MaxHeight}
}

// Quality returns the fixed JPEG quality this compressor applies.
func (c *Compressor) Quality() int {
	return c.quality
}

// Compress encodes the frame as JPEG. Frames already in JPEG format are
// copied through unchanged; raw frames are wrapped without copying and
// encoded, so the frame may be released as soon as Compress returns.
func (c *Compressor) Compress(frame *ports.Frame) ([]byte, error) {
	if frame == nil || len(frame.Data) == 0 {
		return nil, ErrEmptyFrame
	}

	if frame.Format == ports.FormatJPEG {
		// The source reclaims frame.Data after release; hand the
		// caller its own copy.
		out := make([]byte, len(frame.Data))
		copy(out, frame.Data)
		return out, nil
	}

	img, err := imageForFrame(frame)
	if err != nil {
		return nil, err
	}

	if w, h, capped := c.fitWithin(frame.Width, frame.Height); capped {
		img = resizeImage(img, w, h)
	}

	var buf bytes.Buffer
	buf.Grow(growHint)
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: c.quality}); err != nil {
		return nil, fmt.Errorf("encode JPEG: %w", err)
	}
	return buf.Bytes(), nil
}

// imageForFrame wraps the frame's raw data into an image.Image without
// copying. RGB is the exception: the image package has no 24-bit type,
// so those frames are expanded into a fresh RGBA buffer.
func imageForFrame(frame *ports.Frame) (image.Image, error) {
	w, h := frame.Width, frame.Height
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid frame dimensions %dx%d", w, h)
	}
	bpp := frame.Format.BytesPerPixel()
	if bpp == 0 {
		return nil, fmt.Errorf("unsupported pixel format %s", frame.Format)
	}
	if len(frame.Data) < w*h*bpp {
		return nil, fmt.Errorf("%w: have %d bytes, need %d", ErrShortFrame, len(frame.Data), w*h*bpp)
	}

	rect := image.Rect(0, 0, w, h)
	switch frame.Format {
	case ports.FormatRGBA:
		return &image.RGBA{Pix: frame.Data, Stride: 4 * w, Rect: rect}, nil
	case ports.FormatGray:
		return &image.Gray{Pix: frame.Data, Stride: w, Rect: rect}, nil
	case ports.FormatRGB:
		rgba := image.NewRGBA(rect)
		src := frame.Data
		for p, q := 0, 0; p < w*h*3; p, q = p+3, q+4 {
			rgba.Pix[q] = src[p]
			rgba.Pix[q+1] = src[p+1]
			rgba.Pix[q+2] = src[p+2]
			rgba.Pix[q+3] = 0xFF
		}
		return rgba, nil
	default:
		return nil, fmt.Errorf("unsupported pixel format %s", frame.Format)
	}
}

// fitWithin reports the output dimensions and whether downscaling is
// needed to honor the configured caps.
func (c *Compressor) fitWithin(w, h int) (int, int, bool) {
	if (c.maxWidth <= 0 || w <= c.maxWidth) && (c.maxHeight <= 0 || h <= c.maxHeight) {
		return w, h, false
	}
	scale := 1.0
	if c.maxWidth > 0 && w > c.maxWidth {
		scale = float64(c.maxWidth) / float64(w)
	}
	if c.maxHeight > 0 && float64(h)*scale > float64(c.maxHeight) {
		scale = float64(c.maxHeight) / float64(h)
	}
	ow := int(float64(w)*scale + 0.5)
	oh := int(float64(h)*scale + 0.5)
	if ow < 1 {
		ow = 1
	}
	if oh < 1 {
		oh = 1
	}
	return ow, oh, true
}

// resizeImage resizes an image to the specified dimensions.
func resizeImage(img image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
	return dst
}

// Ensure Compressor implements ports.Compressor
var _ ports.Compressor = (*Compressor)(nil)
