package convert

import (
	"encoding/binary"
	"fmt"

	"github.com/relex/textualize/defs"
)

// Header is the opaque prefix of an input, discarded from the binary text
//
// Inputs produced by the image model carry width and height as little-endian uint32. Nothing here relies on it:
// the decoded values are informational and never validated.
type Header struct {
	Raw []byte // the first defs.HeaderBytes of input, or fewer if the input is shorter
}

// NewHeader creates a complete header from image dimensions
func NewHeader(width uint32, height uint32) Header {
	raw := make([]byte, defs.HeaderBytes)
	binary.LittleEndian.PutUint32(raw[0:defs.HeaderDimensionBytes], width)
	binary.LittleEndian.PutUint32(raw[defs.HeaderDimensionBytes:defs.HeaderBytes], height)
	return Header{Raw: raw}
}

// SplitHeader splits data into the header and the body after it
//
// Short data isn't an error: the header keeps whatever exists and the body is empty
func SplitHeader(data []byte) (Header, []byte) {
	if len(data) < defs.HeaderBytes {
		return Header{Raw: data}, data[len(data):]
	}
	return Header{Raw: data[:defs.HeaderBytes]}, data[defs.HeaderBytes:]
}

// Complete returns true if all header bytes were present in input
func (h Header) Complete() bool {
	return len(h.Raw) == defs.HeaderBytes
}

// Width returns the first dimension, or 0 if the header is incomplete
func (h Header) Width() uint32 {
	if !h.Complete() {
		return 0
	}
	return binary.LittleEndian.Uint32(h.Raw[0:defs.HeaderDimensionBytes])
}

// Height returns the second dimension, or 0 if the header is incomplete
func (h Header) Height() uint32 {
	if !h.Complete() {
		return 0
	}
	return binary.LittleEndian.Uint32(h.Raw[defs.HeaderDimensionBytes:defs.HeaderBytes])
}

// Pixels returns width * height as claimed by the header
func (h Header) Pixels() uint64 {
	return uint64(h.Width()) * uint64(h.Height())
}

func (h Header) String() string {
	if !h.Complete() {
		return fmt.Sprintf("incomplete header (%d bytes)", len(h.Raw))
	}
	return fmt.Sprintf("width=%d height=%d", h.Width(), h.Height())
}
