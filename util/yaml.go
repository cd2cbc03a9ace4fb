package util

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// GetYamlLocation fetches a descriptive location of YAML node
func GetYamlLocation(node *yaml.Node) string {
	return fmt.Sprintf("yaml line %d:%d", node.Line, node.Column)
}

// MarshalYaml marshals the given source to a YAML string
func MarshalYaml(source interface{}) (string, error) {
	writer := &bytes.Buffer{}
	encoder := yaml.NewEncoder(writer)
	encoder.SetIndent(2)
	if err := encoder.Encode(source); err != nil {
		return "", err
	}
	if err := encoder.Close(); err != nil {
		return "", err
	}
	return writer.String(), nil
}

// NewYamlError creates a new error with location information of YAML node
func NewYamlError(node *yaml.Node, format string, args ...interface{}) error {
	return fmt.Errorf("%s: %s", GetYamlLocation(node), fmt.Sprintf(format, args...))
}

// UnmarshalYamlFile loads and unmarshals YAML from file to pointer to struct
func UnmarshalYamlFile(path string, output interface{}) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return UnmarshalYamlReader(file, output)
}

// UnmarshalYamlReader loads and unmarshals YAML from IO reader to pointer to struct
//
// Unknown fields are rejected. An empty document leaves output untouched.
func UnmarshalYamlReader(reader io.Reader, output interface{}) error {
	decoder := yaml.NewDecoder(reader)
	decoder.KnownFields(true) // only works outside of custom unmarshalers
	if err := decoder.Decode(output); err != nil && err != io.EOF {
		return err
	}
	return nil
}

// UnmarshalYamlString loads and unmarshals YAML in string to pointer to struct
func UnmarshalYamlString(contents string, output interface{}) error {
	return UnmarshalYamlReader(strings.NewReader(contents), output)
}
