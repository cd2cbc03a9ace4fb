package defs

import (
	"os"
)

var (
	// OutputFileMode is the permission of newly created output files, before umask
	OutputFileMode os.FileMode = 0o644

	// OutputDirMode is the permission of output directories created by batch conversion
	OutputDirMode os.FileMode = 0o755

	// OutputBufferSize is the size of the buffered writer in front of output files
	//
	// Each input byte expands to LineBytes of output, so the buffer is flushed roughly every 7 KB of input
	OutputBufferSize = 64 * 1024

	// MetricPrefix is prepended to all metric names
	MetricPrefix = "textualize_"
)

// Defaults of the config file
var (
	DefaultBatchInclude = []string{"*.bin"}
	DefaultBatchSuffix  = ".txt"
)
