package convert

import (
	"bufio"
	"io"

	"github.com/relex/textualize/defs"
)

// lineTable holds the rendered line of every byte value, including the trailing '\n'
var lineTable [256][defs.LineBytes]byte

func init() {
	for value := 0; value < 256; value++ {
		line := &lineTable[value]
		for bit := 0; bit < defs.BitsPerLine; bit++ {
			if value&(0x80>>bit) != 0 {
				line[bit] = '1'
			} else {
				line[bit] = '0'
			}
		}
		line[defs.BitsPerLine] = '\n'
	}
}

// FormatByte renders a byte as 8 binary digits without line terminator, e.g. 5 => "00000101"
func FormatByte(b byte) string {
	return string(lineTable[b][:defs.BitsPerLine])
}

// AppendByte appends the full binary text line of a byte, including '\n', to dst
func AppendByte(dst []byte, b byte) []byte {
	return append(dst, lineTable[b][:]...)
}

// Textualize writes one binary text line for each byte of body, in order
//
// Returns the number of lines written, which is always len(body) unless an error occurs
func Textualize(writer io.Writer, body []byte) (int, error) {
	bufWriter, ok := writer.(*bufio.Writer)
	if !ok {
		bufWriter = bufio.NewWriterSize(writer, defs.OutputBufferSize)
	}
	for i, b := range body {
		if _, err := bufWriter.Write(lineTable[b][:]); err != nil {
			return flushedLines(i, bufWriter), err
		}
	}
	if err := bufWriter.Flush(); err != nil {
		return flushedLines(len(body), bufWriter), err
	}
	return len(body), nil
}

// flushedLines counts complete lines that have reached the underlying writer
func flushedLines(accepted int, bufWriter *bufio.Writer) int {
	flushed := accepted*defs.LineBytes - bufWriter.Buffered()
	if flushed <= 0 {
		return 0
	}
	return flushed / defs.LineBytes
}
