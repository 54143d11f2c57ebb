package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/xpgen/internal/data"
)

// Output is where the generated table is written, relative to the process
// working directory.
const Output = "assets/txtdata/Experience.tsv"

// ErrInvalid is returned by Generator.Validate.
var ErrInvalid = errors.New("invalid generator config")

// Generator holds all configuration for the experience table generator.
// Only the two curve endpoints and the log level can be changed; the level
// cap and the output path are fixed.
type Generator struct {
	Curve CurveConfig `yaml:"curve"`

	// debug, info, warn, error
	LogLevel string `yaml:"log_level"`
}

// CurveConfig holds the two curve endpoints.
type CurveConfig struct {
	BaseXP int64 `yaml:"base_xp"` // level 1 threshold
	MaxXP  int64 `yaml:"max_xp"`  // level 99 threshold
}

// Curve converts the config into a data.Curve ending at data.DefaultMaxLevel.
func (c CurveConfig) Curve() data.Curve {
	return data.Curve{
		BaseXP:   c.BaseXP,
		MaxXP:    c.MaxXP,
		MaxLevel: data.DefaultMaxLevel,
	}
}

// DefaultGenerator returns the 1..99 curve from 2000 to 4,000,000,000 XP.
func DefaultGenerator() Generator {
	return Generator{
		Curve: CurveConfig{
			BaseXP: data.DefaultBaseXP,
			MaxXP:  data.DefaultMaxXP,
		},
		LogLevel: "info",
	}
}

// SlogLevel parses LogLevel.
func (g Generator) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(g.LogLevel))); err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: log level %q", ErrInvalid, g.LogLevel)
	}
	return lvl, nil
}

// Validate checks the log level and curve endpoints.
func (g Generator) Validate() error {
	if _, err := g.SlogLevel(); err != nil {
		return err
	}
	if err := g.Curve.Curve().Check(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// LoadGenerator loads generator config from a YAML file.
// If the file doesn't exist, returns defaults. Unknown keys are rejected.
func LoadGenerator(path string) (Generator, error) {
	cfg := DefaultGenerator()

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}
