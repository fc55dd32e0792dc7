// Package config loads the cssmin.yaml file read by the cssmin tool.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/stylekit/css/internal/log"
)

// DefaultFile is the name looked up in the working directory when no
// --config flag is given.
const DefaultFile = "cssmin.yaml"

// Config holds the settings of a cssmin run.
type Config struct {
	// Inputs are glob patterns of the stylesheets to read, in order.
	// "**" matches any number of directories.
	Inputs []string `yaml:"inputs"`

	// Exclude removes matching paths from Inputs.
	Exclude []string `yaml:"exclude,omitempty"`

	// Output is the file the result is written to. Empty means stdout.
	Output string `yaml:"output,omitempty"`

	// SourceURLs keeps the sourceURL and sourceMappingURL comments.
	SourceURLs bool `yaml:"sourceURLs,omitempty"`

	// AllowUnitlessLengths accepts unitless numbers as pixel lengths.
	AllowUnitlessLengths bool `yaml:"allowUnitlessLengths,omitempty"`

	// LogLevel is one of debug, info, warn or error.
	LogLevel string `yaml:"logLevel,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{LogLevel: log.LevelInfo.String()}
}

// Load reads the configuration file at path. Relative patterns and the
// output path are resolved against the directory of the file. Unknown keys
// are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	c, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	c.resolve(filepath.Dir(path))
	log.Debug("loaded config %s", path)
	return c, nil
}

// LoadDefault loads DefaultFile from dir. A missing file yields Default.
func LoadDefault(dir string) (*Config, error) {
	c, err := Load(filepath.Join(dir, DefaultFile))
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return c, err
}

// Decode parses and validates a configuration document.
func Decode(r io.Reader) (*Config, error) {
	c := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return c, nil
}

// Validate checks the patterns and the log level.
func (c *Config) Validate() error {
	for _, p := range c.Inputs {
		if p == "" {
			return errors.New("inputs must not contain empty patterns")
		}
	}
	for _, p := range c.Exclude {
		if p == "" {
			return errors.New("exclude must not contain empty patterns")
		}
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Level returns the parsed log level.
func (c *Config) Level() log.Level {
	l, _ := log.ParseLevel(c.LogLevel)
	return l
}

func (c *Config) resolve(dir string) {
	for i, p := range c.Inputs {
		c.Inputs[i] = join(dir, p)
	}
	for i, p := range c.Exclude {
		c.Exclude[i] = join(dir, p)
	}
	if c.Output != "" {
		c.Output = join(dir, c.Output)
	}
}

func join(dir, p string) string {
	if filepath.IsAbs(p) || dir == "" || dir == "." {
		return p
	}
	return filepath.Join(dir, p)
}
