package convert

import (
	"errors"
)

var (
	// ErrInputTooLarge is returned when an input exceeds the configured size limit
	ErrInputTooLarge = errors.New("input too large")

	// ErrMalformedLine is returned when a line of binary text isn't exactly 8 of '0' or '1'
	ErrMalformedLine = errors.New("malformed binary text line")
)
