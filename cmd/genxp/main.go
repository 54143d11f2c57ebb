// Command genxp writes the level 1..99 experience table as a tab-separated
// file.
//
// Usage (from the repository root):
//
//	go run ./cmd/genxp
//
// The two curve endpoints and the log level can be overridden in
// config/genxp.yaml.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/udisondev/xpgen/internal/config"
	"github.com/udisondev/xpgen/internal/data"
)

const ConfigPath = "config/genxp.yaml"

func main() {
	if err := run(os.Stdout, os.Stderr, ConfigPath); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(stdout, stderr io.Writer, cfgPath string) error {
	cfg, err := config.LoadGenerator(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, _ := cfg.SlogLevel()
	slog.SetDefault(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{
		Level: level,
	})))

	curve := cfg.Curve.Curve()
	slog.Debug("curve", "base_xp", curve.BaseXP, "max_xp", curve.MaxXP,
		"max_level", curve.MaxLevel, "exponent", curve.Exponent())

	table := curve.Generate()
	if err := table.Validate(curve); err != nil {
		return fmt.Errorf("generating table: %w", err)
	}

	if err := data.WriteTSVFile(config.Output, table); err != nil {
		return fmt.Errorf("writing table: %w", err)
	}

	digest, err := data.Digest(table)
	if err != nil {
		return fmt.Errorf("digest: %w", err)
	}
	if err := data.VerifyTSVFile(config.Output, curve, digest); err != nil {
		return fmt.Errorf("verifying table: %w", err)
	}
	slog.Info("experience table written", "path", config.Output, "levels", len(table), "blake2b", digest)

	fmt.Fprintf(stdout, "Generated %s\n", config.Output)
	return nil
}
