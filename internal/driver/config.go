// Package driver holds the ambient plumbing around the evaluation
// core: configuration, session tagging, and an optional live-update
// broadcaster. None of it participates in the core's invariants — it
// only ever sees the dispatcher's public Status return.
package driver

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the optional ~/.sheetrc.yaml: default sheet dimensions and
// whether to broadcast live updates over a websocket.
type Config struct {
	Rows int  `yaml:"rows"`
	Cols int  `yaml:"cols"`
	Live bool `yaml:"live"`
}

// DefaultConfig is used whenever no config file is present.
func DefaultConfig() Config {
	return Config{Rows: 100, Cols: 26, Live: false}
}

// LoadConfig reads ~/.sheetrc.yaml if present, falling back to
// DefaultConfig when the file is missing. A malformed file is a hard
// error, since a user who wrote one meant it to take effect.
func LoadConfig() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadConfigFrom(filepath.Join(home, ".sheetrc.yaml"))
}

// LoadConfigFrom reads a config file at an explicit path; LoadConfig
// calls it with ~/.sheetrc.yaml.
func LoadConfigFrom(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return Config{}, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
