package ports

// TextCodec converts binary payloads to and from a representation safe
// for text-only channels such as serial consoles and JSON fields.
type TextCodec interface {
	// Encode returns the textual form of data. Encoding never fails;
	// empty input yields an empty string.
	Encode(data []byte) string

	// Decode parses text produced by Encode back into bytes.
	Decode(text string) ([]byte, error)
}
