package run

import (
	"fmt"
	"strings"

	"github.com/c2h5oh/datasize"
	"github.com/gobwas/glob"
	"github.com/relex/textualize/convert"
	"github.com/relex/textualize/defs"
	"github.com/relex/textualize/util"
	"gopkg.in/yaml.v3"
)

// Config defines the root of textualize config file
type Config struct {
	Input  InputConfig  `yaml:"input"`
	Output OutputConfig `yaml:"output"`
	Batch  BatchConfig  `yaml:"batch"`
}

// InputConfig defines the input section in config file
type InputConfig struct {
	MaxSize datasize.ByteSize `yaml:"maxSize"` // 0 = unlimited
}

// OutputConfig defines the output section in config file
type OutputConfig struct {
	Compress bool `yaml:"compress"`
	Tag      bool `yaml:"tag"`
}

// BatchConfig defines the batch section in config file
type BatchConfig struct {
	Include GlobList `yaml:"include"`
	Suffix  string   `yaml:"suffix"`
}

// GlobList is a list of glob patterns compiled at unmarshalling
type GlobList struct {
	patterns []string
	matchers []glob.Glob
}

// DefaultConfig returns the config used when no config file is given
func DefaultConfig() Config {
	return Config{
		Batch: BatchConfig{
			Include: MustNewGlobList(defs.DefaultBatchInclude...),
			Suffix:  defs.DefaultBatchSuffix,
		},
	}
}

// LoadConfigFile loads config from the path over defaults and verifies it
//
// An empty path returns the defaults
func LoadConfigFile(filepath string) (Config, error) {
	config := DefaultConfig()
	if filepath == "" {
		return config, nil
	}
	if err := util.UnmarshalYamlFile(filepath, &config); err != nil {
		return config, fmt.Errorf("config %s: %w", filepath, err)
	}
	if err := config.VerifyConfig(); err != nil {
		return config, fmt.Errorf("config %s: %w", filepath, err)
	}
	return config, nil
}

// VerifyConfig verifies the config after loading and overriding
func (config Config) VerifyConfig() error {
	if len(config.Batch.Suffix) == 0 {
		return fmt.Errorf("batch.suffix: empty")
	}
	if strings.ContainsRune(config.Batch.Suffix, '/') {
		return fmt.Errorf("batch.suffix: must not contain '/': %s", config.Batch.Suffix)
	}
	return nil
}

// ConverterOptions builds options for convert.Converter from the config
func (config Config) ConverterOptions() convert.Options {
	return convert.Options{
		Compress:     config.Output.Compress,
		MaxInputSize: config.Input.MaxSize,
		Tag:          config.Output.Tag,
	}
}

// NewGlobList compiles the given patterns
func NewGlobList(patterns ...string) (GlobList, error) {
	list := GlobList{
		patterns: make([]string, 0, len(patterns)),
		matchers: make([]glob.Glob, 0, len(patterns)),
	}
	for _, pattern := range patterns {
		matcher, err := glob.Compile(pattern)
		if err != nil {
			return GlobList{}, fmt.Errorf("invalid glob '%s': %w", pattern, err)
		}
		list.patterns = append(list.patterns, pattern)
		list.matchers = append(list.matchers, matcher)
	}
	return list, nil
}

// MustNewGlobList compiles the given patterns or panics
func MustNewGlobList(patterns ...string) GlobList {
	list, err := NewGlobList(patterns...)
	if err != nil {
		panic(err)
	}
	return list
}

// Match returns true if any of the patterns matches the name. An empty list matches everything.
func (list GlobList) Match(name string) bool {
	if len(list.matchers) == 0 {
		return true
	}
	for _, matcher := range list.matchers {
		if matcher.Match(name) {
			return true
		}
	}
	return false
}

// Patterns returns the source patterns
func (list GlobList) Patterns() []string {
	return list.patterns
}

// MarshalYAML exports the source patterns
func (list GlobList) MarshalYAML() (interface{}, error) {
	return list.patterns, nil
}

// UnmarshalYAML compiles the patterns in a YAML sequence, or a single pattern in a scalar
func (list *GlobList) UnmarshalYAML(value *yaml.Node) error {
	var patterns []string
	switch value.Kind {
	case yaml.ScalarNode:
		patterns = []string{value.Value}
	case yaml.SequenceNode:
		if err := value.Decode(&patterns); err != nil {
			return util.NewYamlError(value, "%s", err.Error())
		}
	default:
		return util.NewYamlError(value, "expect glob pattern or list of glob patterns")
	}
	compiled, err := NewGlobList(patterns...)
	if err != nil {
		return util.NewYamlError(value, "%s", err.Error())
	}
	*list = compiled
	return nil
}
