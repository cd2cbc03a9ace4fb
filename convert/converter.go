package convert

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/c2h5oh/datasize"
	"github.com/klauspost/compress/gzip"
	"github.com/relex/gotils/logger"
	"github.com/relex/textualize/defs"
	"github.com/relex/textualize/util"
)

const gzipCompressionLevel = gzip.BestSpeed

var gzipMagic = []byte{0x1f, 0x8b}

// Converter converts files between .bin images and binary text
type Converter struct {
	logger  logger.Logger
	options Options
}

// Result describes a finished conversion
type Result struct {
	Header    Header // header of the binary side
	BodyBytes int    // bytes after the header
	Lines     int    // lines of binary text, equal to BodyBytes
}

// NewConverter creates a Converter
func NewConverter(parentLogger logger.Logger, options Options) *Converter {
	return &Converter{
		logger:  parentLogger.WithField(defs.LabelComponent, "Converter"),
		options: options,
	}
}

// ConvertFile reads a .bin input, discards its header and writes the body as binary text to outputPath
//
// The input is read fully into memory before the output is created or truncated.
// A partially written output is removed on failure.
func (c *Converter) ConvertFile(inputPath string, outputPath string) (Result, error) {
	flogger := c.logger.WithFields(logger.Fields{
		defs.LabelInput:  inputPath,
		defs.LabelOutput: outputPath,
	})

	data, rerr := c.readInput(inputPath)
	if rerr != nil {
		return Result{}, rerr
	}
	header, body := SplitHeader(data)
	flogger.Debugf("read %s: %s, body %s", datasize.ByteSize(len(data)).HR(), header, datasize.ByteSize(len(body)).HR())

	lines := 0
	werr := c.writeOutput(outputPath, func(w io.Writer) error {
		n, err := Textualize(w, body)
		lines = n
		return err
	})
	if werr != nil {
		return Result{}, werr
	}
	flogger.Debugf("wrote %d lines", lines)

	if c.options.Tag {
		c.tagOutput(flogger, inputPath, outputPath, header)
	}
	return Result{Header: header, BodyBytes: len(body), Lines: lines}, nil
}

// RestoreFile reads binary text from textPath and writes a .bin image of the given header and the parsed bytes
//
// gzip-compressed text is detected and decompressed
func (c *Converter) RestoreFile(textPath string, outputPath string, header Header) (Result, error) {
	flogger := c.logger.WithFields(logger.Fields{
		defs.LabelInput:  textPath,
		defs.LabelOutput: outputPath,
	})

	text, rerr := c.readInput(textPath)
	if rerr != nil {
		return Result{}, rerr
	}
	if bytes.HasPrefix(text, gzipMagic) {
		flogger.Debugf("decompressing gzip input")
		decompressed, derr := c.decompress(textPath, text)
		if derr != nil {
			return Result{}, derr
		}
		text = decompressed
	}

	body, perr := Detextualize(bytes.NewReader(text))
	if perr != nil {
		return Result{}, fmt.Errorf("failed to parse %s: %w", textPath, perr)
	}

	werr := c.writeFile(outputPath, func(w io.Writer) error {
		if _, err := w.Write(header.Raw); err != nil {
			return err
		}
		_, err := w.Write(body)
		return err
	})
	if werr != nil {
		return Result{}, werr
	}
	flogger.Debugf("restored %s with %s", datasize.ByteSize(len(body)).HR(), header)
	return Result{Header: header, BodyBytes: len(body), Lines: len(body)}, nil
}

// ReadHeader reads the header of an input and reports the size of its body, without converting anything
func (c *Converter) ReadHeader(inputPath string) (Header, int64, error) {
	file, err := os.Open(inputPath)
	if err != nil {
		return Header{}, 0, fmt.Errorf("failed to open input: %w", err)
	}
	defer file.Close()

	raw := make([]byte, defs.HeaderBytes)
	n, rerr := io.ReadFull(file, raw)
	if rerr != nil && rerr != io.EOF && rerr != io.ErrUnexpectedEOF {
		return Header{}, 0, fmt.Errorf("failed to read input %s: %w", inputPath, rerr)
	}
	header := Header{Raw: raw[:n]}

	stat, serr := file.Stat()
	if serr != nil {
		return header, 0, fmt.Errorf("failed to stat input %s: %w", inputPath, serr)
	}
	bodySize := stat.Size() - int64(n)
	if bodySize < 0 {
		bodySize = 0
	}
	return header, bodySize, nil
}

func (c *Converter) readInput(inputPath string) ([]byte, error) {
	file, err := os.Open(inputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	defer file.Close()

	var reader io.Reader = file
	if c.options.MaxInputSize > 0 {
		reader = io.LimitReader(file, int64(c.options.MaxInputSize.Bytes())+1)
	}
	data, rerr := io.ReadAll(reader)
	if rerr != nil {
		return nil, fmt.Errorf("failed to read input %s: %w", inputPath, rerr)
	}
	if c.options.MaxInputSize > 0 && uint64(len(data)) > c.options.MaxInputSize.Bytes() {
		return nil, fmt.Errorf("%s: %w: over %s", inputPath, ErrInputTooLarge, c.options.MaxInputSize.HR())
	}
	return data, nil
}

// decompress inflates gzip-compressed text, subject to the same MaxInputSize as the compressed input
func (c *Converter) decompress(textPath string, compressed []byte) ([]byte, error) {
	gzipReader, gerr := gzip.NewReader(bytes.NewReader(compressed))
	if gerr != nil {
		return nil, fmt.Errorf("failed to decompress %s: %w", textPath, gerr)
	}
	defer gzipReader.Close()

	var reader io.Reader = gzipReader
	if c.options.MaxInputSize > 0 {
		reader = io.LimitReader(gzipReader, int64(c.options.MaxInputSize.Bytes())+1)
	}
	text, rerr := io.ReadAll(reader)
	if rerr != nil {
		return nil, fmt.Errorf("failed to decompress %s: %w", textPath, rerr)
	}
	if c.options.MaxInputSize > 0 && uint64(len(text)) > c.options.MaxInputSize.Bytes() {
		return nil, fmt.Errorf("%s: %w: decompressed over %s", textPath, ErrInputTooLarge, c.options.MaxInputSize.HR())
	}
	return text, nil
}

// writeOutput writes binary text through writeFile, compressed if configured
func (c *Converter) writeOutput(outputPath string, write func(w io.Writer) error) error {
	if !c.options.Compress {
		return c.writeFile(outputPath, write)
	}
	return c.writeFile(outputPath, func(w io.Writer) error {
		gzipWriter, gerr := gzip.NewWriterLevel(w, gzipCompressionLevel)
		if gerr != nil {
			return gerr
		}
		if err := write(gzipWriter); err != nil {
			gzipWriter.Close()
			return err
		}
		return gzipWriter.Close()
	})
}

// writeFile creates or truncates outputPath, runs write on a buffered writer and closes everything
//
// The output is removed if anything fails
func (c *Converter) writeFile(outputPath string, write func(w io.Writer) error) error {
	file, oerr := os.OpenFile(outputPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, defs.OutputFileMode)
	if oerr != nil {
		return fmt.Errorf("failed to open output: %w", oerr)
	}
	bufWriter := bufio.NewWriterSize(file, defs.OutputBufferSize)

	werr := write(bufWriter)
	if werr == nil {
		werr = bufWriter.Flush()
	}
	cerr := file.Close()
	if werr == nil {
		werr = cerr
	}
	if werr != nil {
		if err := os.Remove(outputPath); err != nil {
			c.logger.Warnf("failed to remove incomplete output %s: %s", outputPath, err.Error())
		}
		return fmt.Errorf("failed to write output %s: %w", outputPath, werr)
	}
	return nil
}

func (c *Converter) tagOutput(flogger logger.Logger, inputPath string, outputPath string, header Header) {
	source, aerr := filepath.Abs(inputPath)
	if aerr != nil {
		source = inputPath
	}
	err := util.SetFileAttrs(outputPath, map[string]string{
		defs.XattrSource: source,
		defs.XattrHeader: hex.EncodeToString(header.Raw),
	})
	switch {
	case err == nil:
	case util.IsXattrUnsupported(err):
		flogger.Warnf("cannot tag output, xattr unsupported: %s", err.Error())
	default:
		flogger.Warnf("failed to tag output: %s", err.Error())
	}
}
