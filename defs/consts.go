package defs

// Common labels for logging
const (
	LabelComponent = "component"
	LabelInput     = "input"
	LabelOutput    = "output"
)

// Layout of .bin images and their binary text rendering
const (
	// HeaderBytes is the size of the opaque header in front of every input, discarded before conversion
	HeaderBytes = 8

	// HeaderDimensionBytes is the size of each of the two little-endian dimensions (width, height) in the header
	HeaderDimensionBytes = 4

	// BitsPerLine is the number of '0'/'1' characters in one binary text line, excluding the line terminator
	BitsPerLine = 8

	// LineBytes is the full size of one binary text line including '\n'
	LineBytes = BitsPerLine + 1
)

// Extended attributes written to tagged outputs
const (
	XattrSource = "user.textualize.source"
	XattrHeader = "user.textualize.header"
)
