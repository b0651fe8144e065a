// Package config loads and validates the engine configuration used by
// drivers and the benchmark tooling.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-timing/pkg/parallel"
)

// Parallel execution modes.
const (
	ModeSequential = "sequential"
	ModePooled     = "pooled"
)

var validate = validator.New()

// Config is the top-level engine configuration.
type Config struct {
	Parallel ParallelConfig `yaml:"parallel"`
	Log      LogConfig      `yaml:"log"`
	Snapshot SnapshotConfig `yaml:"snapshot"`
}

// ParallelConfig selects the execution strategy for update passes.
type ParallelConfig struct {
	// Mode is "sequential" or "pooled".
	Mode string `yaml:"mode" validate:"required,oneof=sequential pooled"`
	// Workers bounds the pooled executor; 0 means one per CPU.
	Workers int `yaml:"workers" validate:"min=0"`
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
}

// SnapshotConfig controls where per-pass snapshots are written.
type SnapshotConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir" validate:"required_if=Enabled true"`
}

// Default returns the configuration used when no file is given: pooled
// execution sized to the machine, info logging, snapshots off.
func Default() Config {
	return Config{
		Parallel: ParallelConfig{Mode: ModePooled, Workers: 0},
		Log:      LogConfig{Level: "info"},
	}
}

// Load reads and validates a YAML configuration file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration against its struct tags.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Executor builds the parallel.Executor the configuration names.
func (c Config) Executor() (parallel.Executor, error) {
	switch c.Parallel.Mode {
	case ModeSequential:
		return parallel.Sequential{}, nil
	case ModePooled:
		return parallel.NewPool(c.Parallel.Workers)
	default:
		return nil, fmt.Errorf("unknown parallel mode %q", c.Parallel.Mode)
	}
}
