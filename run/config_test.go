package run

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/c2h5oh/datasize"
	"github.com/relex/textualize/util"
	"github.com/stretchr/testify/assert"
)

func TestConfigParsing(t *testing.T) {
	config, err := LoadConfigFile("testdata/config_sample.yml")
	assert.Nil(t, err)
	assert.Equal(t, 64*datasize.MB, config.Input.MaxSize)
	assert.True(t, config.Output.Compress)
	assert.False(t, config.Output.Tag)
	assert.Equal(t, []string{"*.bin", "frame_[0-9]*.raw"}, config.Batch.Include.Patterns())
	assert.Equal(t, ".mem", config.Batch.Suffix)

	assert.True(t, config.Batch.Include.Match("image.bin"))
	assert.True(t, config.Batch.Include.Match("frame_01.raw"))
	assert.False(t, config.Batch.Include.Match("frame_x.raw"))
	assert.False(t, config.Batch.Include.Match("image.txt"))

	options := config.ConverterOptions()
	assert.True(t, options.Compress)
	assert.Equal(t, 64*datasize.MB, options.MaxInputSize)
}

func TestConfigDumpReload(t *testing.T) {
	config, err := LoadConfigFile("testdata/config_sample.yml")
	assert.Nil(t, err)
	dump, derr := util.MarshalYaml(config)
	assert.Nil(t, derr)

	path := filepath.Join(t.TempDir(), "dump.yml")
	assert.Nil(t, os.WriteFile(path, []byte(dump), 0o644))
	reloaded, rerr := LoadConfigFile(path)
	assert.Nil(t, rerr)
	assert.Equal(t, config.Input, reloaded.Input)
	assert.Equal(t, config.Output, reloaded.Output)
	assert.Equal(t, config.Batch.Include.Patterns(), reloaded.Batch.Include.Patterns())
	assert.Equal(t, config.Batch.Suffix, reloaded.Batch.Suffix)
}

func TestConfigDefaults(t *testing.T) {
	config, err := LoadConfigFile("")
	assert.Nil(t, err)
	assert.Equal(t, datasize.ByteSize(0), config.Input.MaxSize)
	assert.False(t, config.Output.Compress)
	assert.Equal(t, []string{"*.bin"}, config.Batch.Include.Patterns())
	assert.Equal(t, ".txt", config.Batch.Suffix)

	t.Run("partial file keeps defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "partial.yml")
		assert.Nil(t, os.WriteFile(path, []byte("output:\n  tag: true\nbatch:\n  include: \"*.img\"\n"), 0o644))
		config, err := LoadConfigFile(path)
		assert.Nil(t, err)
		assert.True(t, config.Output.Tag)
		assert.Equal(t, []string{"*.img"}, config.Batch.Include.Patterns())
		assert.Equal(t, ".txt", config.Batch.Suffix)
	})
}

func TestConfigErrors(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"unknown field":   "output:\n  colour: red\n",
		"bad size":        "input:\n  maxSize: lots\n",
		"bad glob":        "batch:\n  include:\n    - \"[a-\"\n",
		"bad glob type":   "batch:\n  include:\n    key: value\n",
		"empty suffix":    "batch:\n  suffix: \"\"\n",
		"suffix with dir": "batch:\n  suffix: a/b.txt\n",
	}
	for name, contents := range cases {
		path := filepath.Join(dir, "config.yml")
		assert.Nil(t, os.WriteFile(path, []byte(contents), 0o644))
		_, err := LoadConfigFile(path)
		assert.NotNil(t, err, name)
	}

	_, err := LoadConfigFile(filepath.Join(dir, "missing.yml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestGlobListYamlLocation(t *testing.T) {
	var config Config
	err := util.UnmarshalYamlString("batch:\n  include:\n    - \"[a-\"\n", &config)
	assert.ErrorContains(t, err, "yaml line 3:5: invalid glob '[a-'")
}
