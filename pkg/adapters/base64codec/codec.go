// Package base64codec provides a TextCodec implementation using standard Base64.
package base64codec

import (
	"encoding/base64"
	"fmt"

	"github.com/user/camsnap/pkg/ports"
)

// Codec implements ports.TextCodec with the RFC 4648 standard alphabet
// and '=' padding.
type Codec struct {
	enc *base64.Encoding
}

// New creates a new Codec.
func New() *Codec {
	return &Codec{enc: base64.StdEncoding}
}

// Encode returns the Base64 text for data. The output length is always
// (len(data)+2)/3*4 bytes.
func (c *Codec) Encode(data []byte) string {
	return c.enc.EncodeToString(data)
}

// Decode parses Base64 text back into bytes.
func (c *Codec) Decode(text string) ([]byte, error) {
	return c.enc.DecodeString(text)
}

// DataURI wraps data into a data URI with the given MIME type,
// e.g. "data:image/jpeg;base64,<payload>".
func (c *Codec) DataURI(mime string, data []byte) string {
	return fmt.Sprintf("data:%s;base64,%s", mime, c.Encode(data))
}

// Ensure Codec implements ports.TextCodec
var _ ports.TextCodec = (*Codec)(nil)
