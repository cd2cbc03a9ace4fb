package convert

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/relex/textualize/defs"
)

// ParseLine parses one binary text line back into a byte
//
// The line must consist of exactly 8 of '0' or '1'. A trailing "\r" or "\n" is tolerated.
func ParseLine(line string) (byte, error) {
	trimmed := strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
	if len(trimmed) != defs.BitsPerLine {
		return 0, fmt.Errorf("%w: %q", ErrMalformedLine, line)
	}
	var value byte
	for i := 0; i < defs.BitsPerLine; i++ {
		switch trimmed[i] {
		case '0':
			value <<= 1
		case '1':
			value = value<<1 | 1
		default:
			return 0, fmt.Errorf("%w: %q", ErrMalformedLine, line)
		}
	}
	return value, nil
}

// Detextualize reads binary text lines until EOF and returns the bytes they represent
//
// Blank lines at the end are ignored; blank lines in between are malformed
func Detextualize(reader io.Reader) ([]byte, error) {
	scanner := bufio.NewScanner(reader)
	result := make([]byte, 0, 4096)
	lineNumber := 0
	firstBlankLine := 0
	for scanner.Scan() {
		lineNumber++
		line := scanner.Text()
		if len(strings.TrimSuffix(line, "\r")) == 0 {
			if firstBlankLine == 0 {
				firstBlankLine = lineNumber
			}
			continue
		}
		if firstBlankLine != 0 {
			return nil, fmt.Errorf("line %d: %w: blank line", firstBlankLine, ErrMalformedLine)
		}
		value, err := ParseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNumber, err)
		}
		result = append(result, value)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("line %d: %w", lineNumber+1, err)
	}
	return result, nil
}
