// Package config loads the optional run configuration for the brew CLI,
// the same yaml.v3-backed pattern the teacher uses for its own run
// configuration (internal/ext/config.go): a small struct with yaml tags,
// defaults applied after an optional file load.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/brewlang/brew/internal/evaluator"
)

// Config holds the handful of knobs a Brew run can be tuned with. None of
// these are part of the language itself (spec.md's Non-goals explicitly
// exclude tunable optimization/runtime knobs as language features) — they
// only affect how the host embeds the interpreter.
type Config struct {
	MaxCallDepth int  `yaml:"max_call_depth"`
	Trace        bool `yaml:"trace"`
}

// Default returns the configuration used when no config file is supplied.
func Default() Config {
	return Config{MaxCallDepth: evaluator.DefaultMaxCallDepth}
}

// Load reads a YAML config file at path, falling back to Default for any
// field the file doesn't set.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.MaxCallDepth <= 0 {
		cfg.MaxCallDepth = evaluator.DefaultMaxCallDepth
	}
	return cfg, nil
}
