package ports

// Compressor turns a raw frame into a compressed image payload.
type Compressor interface {
	// Compress encodes the frame and returns a buffer owned by the
	// caller. The frame's Data is only read, never retained, so the
	// frame may be released as soon as Compress returns.
	Compress(frame *Frame) ([]byte, error)
}
