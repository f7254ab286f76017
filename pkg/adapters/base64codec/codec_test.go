package base64codec

import (
	"bytes"
	"testing"
)

func TestEncodeKnownVectors(t *testing.T) {
	codec := New()

	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{"three bytes", []byte{0x01, 0x02, 0x03}, "AQID"},
		{"four bytes all set", []byte{0xFF, 0xFF, 0xFF, 0xFF}, "/////w=="},
		{"empty", nil, ""},
		{"one byte", []byte{0x00}, "AA=="},
		{"two bytes", []byte{0x00, 0x01}, "AAE="},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := codec.Encode(tt.in); got != tt.want {
				t.Errorf("Encode(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestEncodedLength(t *testing.T) {
	codec := New()

	for n := 0; n <= 300; n++ {
		data := make([]byte, n)
		for i := range data {
			data[i] = byte(i * 7)
		}
		want := (n + 2) / 3 * 4
		if got := len(codec.Encode(data)); got != want {
			t.Fatalf("encoded length for %d input bytes = %d, want %d", n, got, want)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	codec := New()

	payloads := [][]byte{
		{0x01, 0x02, 0x03},
		{0xFF, 0xFE, 0xFD, 0xFC, 0xFB},
		[]byte("the quick brown fox"),
		bytes.Repeat([]byte{0xAB}, 1024),
	}
	for _, p := range payloads {
		text := codec.Encode(p)
		back, err := codec.Decode(text)
		if err != nil {
			t.Fatalf("Decode(%q) failed: %v", text, err)
		}
		if !bytes.Equal(back, p) {
			t.Errorf("round trip changed payload: got %v, want %v", back, p)
		}
	}
}

func TestDecodeRejectsInvalidText(t *testing.T) {
	codec := New()

	if _, err := codec.Decode("not base64!!!"); err == nil {
		t.Error("expected an error for invalid input")
	}
}

func TestDataURI(t *testing.T) {
	codec := New()

	got := codec.DataURI("image/jpeg", []byte{0x01, 0x02, 0x03})
	want := "data:image/jpeg;base64,AQID"
	if got != want {
		t.Errorf("DataURI = %q, want %q", got, want)
	}
}
