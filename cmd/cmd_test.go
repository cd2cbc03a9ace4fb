package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConvertCommand(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "image.bin")
	output := filepath.Join(dir, "image.txt")
	assert.Nil(t, os.WriteFile(input, []byte{1, 0, 0, 0, 1, 0, 0, 0, 0x05}, 0o644))

	stdout := &bytes.Buffer{}
	assert.Nil(t, execute([]string{input, output}, stdout))
	assert.Empty(t, stdout.String())

	text, err := os.ReadFile(output)
	assert.Nil(t, err)
	assert.Equal(t, "00000101\n", string(text))

	t.Run("extra arguments are ignored", func(t *testing.T) {
		assert.Nil(t, execute([]string{input, output, "extra"}, stdout))
	})

	t.Run("missing input", func(t *testing.T) {
		err := execute([]string{filepath.Join(dir, "missing.bin"), output}, stdout)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestConvertCommandInputNamedAsSubCommand(t *testing.T) {
	dir := t.TempDir()
	workDir, werr := os.Getwd()
	assert.Nil(t, werr)
	assert.Nil(t, os.Chdir(dir))
	defer func() { assert.Nil(t, os.Chdir(workDir)) }()

	for _, name := range []string{"header", "restore", "batch", "help"} {
		assert.Nil(t, os.WriteFile(name, []byte{1, 0, 0, 0, 1, 0, 0, 0, 0x05}, 0o644))
		output := name + ".txt"

		stdout := &bytes.Buffer{}
		assert.Nil(t, execute([]string{name, output}, stdout), name)
		assert.Empty(t, stdout.String(), name)
		text, err := os.ReadFile(output)
		assert.Nil(t, err, name)
		assert.Equal(t, "00000101\n", string(text), name)
	}

	assert.Nil(t, os.Remove("header"))
	stdout := &bytes.Buffer{}
	assert.Nil(t, execute([]string{"header", "restore"}, stdout))
	assert.Equal(t, "width=1 height=1 pixels=1 body=1\n", stdout.String())
}

func TestConvertCommandUsage(t *testing.T) {
	dir := t.TempDir()
	profile := filepath.Join(dir, "mem.prof")
	for _, args := range [][]string{
		{},
		{"only-input.bin"},
		{"--memprofile", profile, "--config", filepath.Join(dir, "missing.yml"), "only-input.bin"},
	} {
		err := execute(args, &bytes.Buffer{})
		assert.ErrorIs(t, err, ErrUsage, "args: %v", args)
	}
	_, serr := os.Stat(profile)
	assert.ErrorIs(t, serr, os.ErrNotExist)

	err := execute([]string{"--max-input-size", "huge", "a.bin", "b.txt"}, &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrUsage)
}

func TestConvertCommandOptions(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "image.bin")
	assert.Nil(t, os.WriteFile(input, make([]byte, 40), 0o644))

	config := filepath.Join(dir, "config.yml")
	assert.Nil(t, os.WriteFile(config, []byte("input:\n  maxSize: 32B\n"), 0o644))

	err := execute([]string{"--config", config, input, filepath.Join(dir, "limited.txt")}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "input too large")

	err = execute([]string{"--config", config, "--max-input-size", "1KB", input, filepath.Join(dir, "override.txt")}, &bytes.Buffer{})
	assert.Nil(t, err)

	metricsFile := filepath.Join(dir, "textualize.prom")
	err = execute([]string{"--compress", "--metrics-file", metricsFile, input, filepath.Join(dir, "image.txt.gz")}, &bytes.Buffer{})
	assert.Nil(t, err)
	compressed, rerr := os.ReadFile(filepath.Join(dir, "image.txt.gz"))
	assert.Nil(t, rerr)
	assert.True(t, bytes.HasPrefix(compressed, []byte{0x1f, 0x8b}))

	metrics, merr := os.ReadFile(metricsFile)
	assert.Nil(t, merr)
	assert.Contains(t, string(metrics), `textualize_files_total{op="convert",status="ok"} 1`)
	assert.Contains(t, string(metrics), `textualize_lines_total{op="convert"} 32`)
}

func TestHeaderCommand(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "image.bin")
	assert.Nil(t, os.WriteFile(input, []byte{3, 0, 0, 0, 2, 0, 0, 0, 1, 2, 3, 4, 5, 6}, 0o644))

	stdout := &bytes.Buffer{}
	assert.Nil(t, execute([]string{"header", input}, stdout))
	assert.Equal(t, "width=3 height=2 pixels=6 body=6\n", stdout.String())

	short := filepath.Join(dir, "short.bin")
	assert.Nil(t, os.WriteFile(short, []byte{3, 0}, 0o644))
	stdout.Reset()
	assert.Nil(t, execute([]string{"header", short}, stdout))
	assert.Equal(t, "incomplete header (2 bytes) body=0\n", stdout.String())

	assert.ErrorIs(t, execute([]string{"header"}, stdout), ErrUsage)
}

func TestRestoreCommand(t *testing.T) {
	dir := t.TempDir()
	original := []byte{2, 0, 0, 0, 1, 0, 0, 0, 0x05, 0xFF}
	input := filepath.Join(dir, "image.bin")
	text := filepath.Join(dir, "image.txt")
	assert.Nil(t, os.WriteFile(input, original, 0o644))
	assert.Nil(t, execute([]string{input, text}, &bytes.Buffer{}))

	restored := filepath.Join(dir, "restored.bin")
	assert.Nil(t, execute([]string{"restore", "--width", "2", "--height", "1", text, restored}, &bytes.Buffer{}))
	contents, err := os.ReadFile(restored)
	assert.Nil(t, err)
	assert.Equal(t, original, contents)

	copied := filepath.Join(dir, "copied.bin")
	assert.Nil(t, execute([]string{"restore", "--header-from", input, text, copied}, &bytes.Buffer{}))
	contents, err = os.ReadFile(copied)
	assert.Nil(t, err)
	assert.Equal(t, original, contents)

	assert.ErrorIs(t, execute([]string{"restore", text}, &bytes.Buffer{}), ErrUsage)

	t.Run("header required", func(t *testing.T) {
		missing := filepath.Join(dir, "missing-header.bin")
		for _, args := range [][]string{
			{"restore", text, missing},
			{"restore", "--width", "2", text, missing},
		} {
			err := execute(args, &bytes.Buffer{})
			assert.ErrorIs(t, err, ErrUsage, "args: %v", args)
		}
		_, serr := os.Stat(missing)
		assert.ErrorIs(t, serr, os.ErrNotExist)
	})
}

func TestBatchCommand(t *testing.T) {
	inputDir := t.TempDir()
	outputDir := filepath.Join(t.TempDir(), "text")
	assert.Nil(t, os.WriteFile(filepath.Join(inputDir, "a.bin"), []byte{0, 0, 0, 0, 0, 0, 0, 0, 0x05}, 0o644))
	assert.Nil(t, os.WriteFile(filepath.Join(inputDir, "b.dat"), []byte{0, 0, 0, 0, 0, 0, 0, 0, 0x06}, 0o644))

	config := filepath.Join(t.TempDir(), "config.yml")
	assert.Nil(t, os.WriteFile(config, []byte("batch:\n  include: [\"*.bin\", \"*.dat\"]\n  suffix: .mem\n"), 0o644))

	assert.Nil(t, execute([]string{"batch", "--config", config, inputDir, outputDir}, &bytes.Buffer{}))
	a, aerr := os.ReadFile(filepath.Join(outputDir, "a.mem"))
	assert.Nil(t, aerr)
	assert.Equal(t, "00000101\n", string(a))
	b, berr := os.ReadFile(filepath.Join(outputDir, "b.mem"))
	assert.Nil(t, berr)
	assert.Equal(t, "00000110\n", string(b))
}
