// Package run runs conversions as configured, single or batch, and keeps their metrics
package run

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/relex/gotils/logger"
	"github.com/relex/textualize/base"
	"github.com/relex/textualize/convert"
	"github.com/relex/textualize/defs"
	"github.com/relex/textualize/util"
)

// Runner runs conversions with the options from Config
type Runner struct {
	logger    logger.Logger
	config    Config
	converter *convert.Converter

	convertMetrics opMetrics
	restoreMetrics opMetrics
}

// BatchStats summarizes a batch conversion
type BatchStats struct {
	Matched   int // files matching the include patterns
	Converted int
	Failed    int
	Skipped   int // files not matching the include patterns
}

// NewRunner creates a Runner. The config should have been verified.
func NewRunner(parentLogger logger.Logger, config Config, metricFactory *base.MetricFactory) *Runner {
	return &Runner{
		logger:    parentLogger.WithField(defs.LabelComponent, "Runner"),
		config:    config,
		converter: convert.NewConverter(parentLogger, config.ConverterOptions()),

		convertMetrics: newOpMetrics(metricFactory, opConvert),
		restoreMetrics: newOpMetrics(metricFactory, opRestore),
	}
}

// Convert converts one .bin file to binary text
func (r *Runner) Convert(inputPath string, outputPath string) (convert.Result, error) {
	result, err := r.converter.ConvertFile(inputPath, outputPath)
	r.convertMetrics.record(result, err)
	return result, err
}

// Restore converts one binary text file back to .bin with the given header
func (r *Runner) Restore(textPath string, outputPath string, header convert.Header) (convert.Result, error) {
	result, err := r.converter.RestoreFile(textPath, outputPath, header)
	r.restoreMetrics.record(result, err)
	return result, err
}

// ReadHeader reads the header of an input and the size of its body
func (r *Runner) ReadHeader(inputPath string) (convert.Header, int64, error) {
	return r.converter.ReadHeader(inputPath)
}

// ConvertBatch converts all files matching the pattern and include globs into outputDir
//
// The pattern is a directory, a file or a filepath.Glob pattern; directories are expanded one level.
// Failed files are logged and counted, the rest are still converted.
func (r *Runner) ConvertBatch(pattern string, outputDir string) (BatchStats, error) {
	stats := BatchStats{}
	blogger := r.logger.WithField(defs.LabelOutput, outputDir)

	inputList, lerr := util.ListFiles(pattern)
	if lerr != nil {
		return stats, fmt.Errorf("failed to list %s: %w", pattern, lerr)
	}
	if err := os.MkdirAll(outputDir, defs.OutputDirMode); err != nil {
		return stats, fmt.Errorf("failed to create output directory: %w", err)
	}

	outputOwners := make(map[string]string, len(inputList))
	for _, inputPath := range inputList {
		if !r.config.Batch.Include.Match(filepath.Base(inputPath)) {
			stats.Skipped++
			continue
		}
		stats.Matched++

		outputPath := filepath.Join(outputDir, r.batchOutputName(inputPath))
		if owner, exists := outputOwners[outputPath]; exists {
			blogger.Errorf("skip %s: output %s already written from %s", inputPath, outputPath, owner)
			r.convertMetrics.record(convert.Result{}, fmt.Errorf("duplicate output"))
			stats.Failed++
			continue
		}
		if sameFile(inputPath, outputPath) {
			blogger.Errorf("skip %s: output would overwrite input", inputPath)
			r.convertMetrics.record(convert.Result{}, fmt.Errorf("output overwrites input"))
			stats.Failed++
			continue
		}
		outputOwners[outputPath] = inputPath

		result, err := r.Convert(inputPath, outputPath)
		if err != nil {
			blogger.Errorf("failed to convert %s: %s", inputPath, err.Error())
			stats.Failed++
			continue
		}
		blogger.Debugf("converted %s: %s, %d lines", inputPath, result.Header, result.Lines)
		stats.Converted++
	}

	blogger.Infof("batch %s: matched=%d converted=%d failed=%d skipped=%d",
		pattern, stats.Matched, stats.Converted, stats.Failed, stats.Skipped)
	if stats.Failed > 0 {
		return stats, fmt.Errorf("%d of %d files failed", stats.Failed, stats.Matched)
	}
	return stats, nil
}

func (r *Runner) batchOutputName(inputPath string) string {
	name := util.ReplaceExt(inputPath, r.config.Batch.Suffix)
	if r.config.Output.Compress && !strings.HasSuffix(name, ".gz") {
		name += ".gz"
	}
	return name
}

func sameFile(path1 string, path2 string) bool {
	stat1, err1 := os.Stat(path1)
	stat2, err2 := os.Stat(path2)
	if err1 != nil || err2 != nil {
		return false
	}
	return os.SameFile(stat1, stat2)
}
