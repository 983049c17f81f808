// Package config provides configuration management.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"cpow/core/numeric"
	"cpow/core/output"
	"cpow/internal/errors"
	"cpow/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version" yaml:"version"`

	// Precision selects the default numeric backend
	Precision PrecisionConfig `json:"precision" yaml:"precision"`

	// Output contains output configuration
	Output OutputConfig `json:"output" yaml:"output"`

	// Batch contains batch runner configuration
	Batch BatchConfig `json:"batch" yaml:"batch"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging" yaml:"logging"`
}

// PrecisionConfig contains numeric settings
type PrecisionConfig struct {
	// Mode is native, arbitrary or both
	Mode string `json:"mode" yaml:"mode"`

	// Digits is the number of significant digits kept in arbitrary mode
	Digits int32 `json:"digits" yaml:"digits"`
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	// Format is text or json
	Format string `json:"format" yaml:"format"`

	// Decimals is the number of places shown for each part
	Decimals int32 `json:"decimals" yaml:"decimals"`

	// NoColor disables colored text output
	NoColor bool `json:"no_color" yaml:"no_color"`
}

// BatchConfig contains batch runner settings
type BatchConfig struct {
	// Workers bounds concurrent evaluations
	Workers int `json:"workers" yaml:"workers"`

	// Tolerance is the relative difference allowed between modes
	Tolerance string `json:"tolerance" yaml:"tolerance"`
}

// ModeBoth selects every precision mode
const ModeBoth = "both"

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Version: "1.0",
		Precision: PrecisionConfig{
			Mode:   numeric.ModeNative.String(),
			Digits: numeric.DefaultDigits,
		},
		Output: OutputConfig{
			Format:   string(output.FormatText),
			Decimals: output.DefaultDecimals,
		},
		Batch: BatchConfig{
			Workers:   runtime.NumCPU(),
			Tolerance: "1e-9",
		},
		Logging: logging.DefaultConfig(),
	}
}

// Modes resolves the configured mode name
func (c *Config) Modes() ([]numeric.Mode, error) {
	return ParseModes(c.Precision.Mode)
}

// ParseModes parses a mode name, where "both" selects every mode
func ParseModes(s string) ([]numeric.Mode, error) {
	if strings.EqualFold(strings.TrimSpace(s), ModeBoth) {
		return numeric.Modes, nil
	}
	mode, err := numeric.ParseMode(s)
	if err != nil {
		return nil, err
	}
	return []numeric.Mode{mode}, nil
}

// ToleranceDecimal returns the batch tolerance
func (c *Config) ToleranceDecimal() (decimal.Decimal, error) {
	d, err := decimal.NewFromString(c.Batch.Tolerance)
	if err != nil {
		return decimal.Zero, errors.Config(fmt.Sprintf("invalid tolerance %q", c.Batch.Tolerance), err)
	}
	return d, nil
}

// Validate checks that every setting is usable
func (c *Config) Validate() error {
	if _, err := c.Modes(); err != nil {
		return errors.Config("invalid precision mode", err)
	}
	if c.Precision.Digits <= 0 {
		return errors.Config(fmt.Sprintf("precision digits must be positive, got %d", c.Precision.Digits), nil)
	}
	if _, err := output.ParseFormat(c.Output.Format); err != nil {
		return errors.Config("invalid output format", err)
	}
	if c.Output.Decimals < 0 {
		return errors.Config(fmt.Sprintf("output decimals must not be negative, got %d", c.Output.Decimals), nil)
	}
	if c.Batch.Workers <= 0 {
		return errors.Config(fmt.Sprintf("batch workers must be positive, got %d", c.Batch.Workers), nil)
	}
	tol, err := c.ToleranceDecimal()
	if err != nil {
		return err
	}
	if tol.IsNegative() {
		return errors.Config("batch tolerance must not be negative", nil)
	}
	return nil
}

// Load loads configuration from a file. A missing file yields the defaults;
// .yaml and .yml files are read as YAML, anything else as JSON.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, errors.Config("failed to read "+path, err)
	}

	config := Default()
	if isYAML(path) {
		err = yaml.Unmarshal(data, config)
	} else {
		err = json.Unmarshal(data, config)
	}
	if err != nil {
		return nil, errors.Config("failed to parse "+path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Save saves configuration to a file in the format its extension selects
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := c.Marshal(isYAML(path))
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Marshal encodes the configuration as YAML or indented JSON
func (c *Config) Marshal(asYAML bool) ([]byte, error) {
	if asYAML {
		return yaml.Marshal(c)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
