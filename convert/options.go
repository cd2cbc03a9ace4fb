package convert

import (
	"github.com/c2h5oh/datasize"
)

// Options controls file conversions. The zero value converts without limits, compression or tagging.
type Options struct {
	Compress     bool              // gzip the binary text output
	MaxInputSize datasize.ByteSize // 0 = unlimited
	Tag          bool              // record source and header as extended attributes of the output
}
