package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds defaults read from a YAML file. Flags and environment
// variables take precedence over every key.
//
//	transformation: reduce-array-dim
//	counter: 2
//	log_level: debug
//	color: false
type Config struct {
	Transformation string `yaml:"transformation"`
	Counter        int    `yaml:"counter"`
	LogLevel       string `yaml:"log_level"`
	Color          *bool  `yaml:"color"`
}

// LoadConfig reads the config file at path. Unknown keys are an error so
// that a typo does not silently fall back to a default.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var c Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if c.Counter < 0 {
		return nil, fmt.Errorf("parsing config %s: counter must be positive, got %d", path, c.Counter)
	}
	return &c, nil
}
