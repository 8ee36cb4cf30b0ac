// =============================================================================
// Sales Aggregation - Configuration Module
// =============================================================================
//
// This module describes what a run aggregates. A run is parameterized by an
// ordered list of dimensions; each dimension has its own master definition
// file, output file, code pattern and label. The built-in presets cover the
// branch-only and branch+commodity layouts, and a YAML file can replace them
// with any number of dimensions.
//
// EXAMPLE (salesagg.yaml):
//   record_extension: .rcd
//   amount_digits: 10
//   dimensions:
//     - label: branch
//       master_file: branch.lst
//       output_file: branch.out
//       code_pattern: '[0-9]{3}'
//
// =============================================================================

package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Default values applied to unset configuration options.
const (
	DefaultRecordExtension = ".rcd"
	DefaultAmountDigits    = 10

	// maxAmountDigits keeps the ceiling well inside what a report consumer
	// can be expected to parse.
	maxAmountDigits = 18
)

// =============================================================================
// CONFIGURATION STRUCTURES
// =============================================================================

// Config holds the settings of a single aggregation run.
type Config struct {
	// RecordExtension is the fixed extension of record files, including the
	// leading dot. Record file names are eight digits followed by it.
	// Default: ".rcd"
	RecordExtension string `yaml:"record_extension"`

	// AmountDigits is the digit ceiling for every running total. A total
	// must stay strictly below 10^AmountDigits.
	// Default: 10
	AmountDigits int `yaml:"amount_digits"`

	// Dimensions is the ordered list of aggregation dimensions. Record files
	// carry one code line per dimension, in this order, then the amount.
	Dimensions []Dimension `yaml:"dimensions"`
}

// Dimension describes one master table and the report produced from it.
type Dimension struct {
	// Label names the dimension in messages ("branch", "commodity").
	Label string `yaml:"label"`

	// MasterFile is the definition file name inside the run directory.
	MasterFile string `yaml:"master_file"`

	// OutputFile is the report file name inside the run directory.
	OutputFile string `yaml:"output_file"`

	// CodePattern must match a code in full. Anchors are added if missing.
	CodePattern string `yaml:"code_pattern"`

	codeRegex *regexp.Regexp
}

// CodeRegex returns the compiled, fully anchored code pattern.
func (d Dimension) CodeRegex() *regexp.Regexp {
	if d.codeRegex == nil {
		return regexp.MustCompile(anchor(d.CodePattern))
	}
	return d.codeRegex
}

// =============================================================================
// PRESETS
// =============================================================================

// BranchDimension is the branch master table: three digit codes.
func BranchDimension() Dimension {
	return Dimension{
		Label:       "branch",
		MasterFile:  "branch.lst",
		OutputFile:  "branch.out",
		CodePattern: "^[0-9]{3}$",
	}
}

// CommodityDimension is the commodity master table: eight alphanumeric codes.
func CommodityDimension() Dimension {
	return Dimension{
		Label:       "commodity",
		MasterFile:  "commodity.lst",
		OutputFile:  "commodity.out",
		CodePattern: "^[A-Za-z0-9]{8}$",
	}
}

// Default returns the built-in configuration. withCommodity selects the
// two-dimension layout.
func Default(withCommodity bool) *Config {
	cfg := &Config{
		Dimensions: []Dimension{BranchDimension()},
	}
	if withCommodity {
		cfg.Dimensions = append(cfg.Dimensions, CommodityDimension())
	}
	applyDefaults(cfg)
	// The presets are known to be valid.
	if err := validate(cfg); err != nil {
		panic(err)
	}
	return cfg
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads a YAML configuration file, applies defaults and validates it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes a YAML configuration document.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(cfg *Config) {
	if cfg.RecordExtension == "" {
		cfg.RecordExtension = DefaultRecordExtension
	}
	if !strings.HasPrefix(cfg.RecordExtension, ".") {
		cfg.RecordExtension = "." + cfg.RecordExtension
	}
	if cfg.AmountDigits == 0 {
		cfg.AmountDigits = DefaultAmountDigits
	}
	for i := range cfg.Dimensions {
		d := &cfg.Dimensions[i]
		if d.MasterFile == "" && d.Label != "" {
			d.MasterFile = d.Label + ".lst"
		}
		if d.OutputFile == "" && d.Label != "" {
			d.OutputFile = d.Label + ".out"
		}
	}
}

// validate checks the configuration and compiles the code patterns.
func validate(cfg *Config) error {
	if cfg.AmountDigits < 1 || cfg.AmountDigits > maxAmountDigits {
		return fmt.Errorf("amount_digits must be between 1 and %d, got %d", maxAmountDigits, cfg.AmountDigits)
	}
	if len(cfg.Dimensions) == 0 {
		return fmt.Errorf("at least one dimension is required")
	}

	labels := make(map[string]bool)
	files := make(map[string]string)
	for i := range cfg.Dimensions {
		d := &cfg.Dimensions[i]
		if d.Label == "" {
			return fmt.Errorf("dimension %d: label is required", i+1)
		}
		if labels[d.Label] {
			return fmt.Errorf("dimension %q is defined twice", d.Label)
		}
		labels[d.Label] = true

		if d.CodePattern == "" {
			return fmt.Errorf("dimension %q: code_pattern is required", d.Label)
		}
		re, err := regexp.Compile(anchor(d.CodePattern))
		if err != nil {
			return fmt.Errorf("dimension %q: invalid code_pattern: %w", d.Label, err)
		}
		d.codeRegex = re

		// A report must never overwrite an input or another report.
		for _, name := range []string{d.MasterFile, d.OutputFile} {
			if owner, ok := files[name]; ok {
				return fmt.Errorf("dimension %q: file %s already used by %q", d.Label, name, owner)
			}
			files[name] = d.Label
		}
	}

	return nil
}

// anchor makes a pattern match the whole input.
func anchor(pattern string) string {
	if !strings.HasPrefix(pattern, "^") {
		pattern = "^(?:" + pattern + ")"
	}
	if !strings.HasSuffix(pattern, "$") {
		pattern += "$"
	}
	return pattern
}
