// Package econfig loads the small TOML configuration document the CLI
// front end reads before starting an engine session: a BurntSushi/toml
// document unmarshaled into a typed struct, with a Default() a caller can
// start from when no file is present.
//
// Nothing in this package is read by the reasoning engine itself; the
// engine's own statement grammar takes no environment variables and no
// persisted state. This is tooling configuration for the CLI only.
package econfig

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds the CLI's tunable settings.
type Config struct {
	// MaxIterations caps the rule engine's fixed-point loop.
	MaxIterations int `toml:"max_iterations"`

	// Prompt is the REPL's prompt string.
	Prompt string `toml:"prompt"`

	// RulePaths are files of statement-form rule definitions to load at
	// startup, in order, before any interactive input is read.
	RulePaths []string `toml:"rule_paths"`

	// HistoryFile is where the interactive reader persists line history
	// between sessions. Empty disables history persistence.
	HistoryFile string `toml:"history_file"`
}

// Default returns the configuration used when no config file is given.
func Default() Config {
	return Config{
		MaxIterations: 10000,
		Prompt:        "epitree> ",
		HistoryFile:   "",
	}
}

// Load reads and parses the TOML document at path, starting from
// Default() so any field the file omits keeps its default value.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("load config %q: %w", path, err)
	}
	return cfg, nil
}

// LoadIfExists is Load, except a missing file is not an error: Default()
// is returned unchanged.
func LoadIfExists(path string) (Config, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("stat config %q: %w", path, err)
	}
	return Load(path)
}
