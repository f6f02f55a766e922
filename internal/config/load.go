package config

import (
	"errors"
	"fmt"
	"os"

	"sigs.k8s.io/yaml"
)

// DefaultConfigFile is the stack file looked up when no path is given.
const DefaultConfigFile = "appstack.yaml"

// LoadFile reads and parses a stack file. It does not validate.
func LoadFile(path string) (*Stack, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML or JSON stack document. Unknown fields are rejected.
func Parse(data []byte) (*Stack, error) {
	var stack Stack
	if err := yaml.UnmarshalStrict(data, &stack); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stack: %w", err)
	}
	return &stack, nil
}

// FindConfigFile returns path if set, otherwise the default stack file when it
// exists in the working directory.
func FindConfigFile(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	if _, err := os.Stat(DefaultConfigFile); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("no config file given and %s not found (run 'appstack init' to create one)", DefaultConfigFile)
		}
		return "", fmt.Errorf("failed to stat %s: %w", DefaultConfigFile, err)
	}
	return DefaultConfigFile, nil
}
