package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/mgomes/golox/lox"
)

const (
	defaultConfigName  = "lox.toml"
	defaultPrompt      = "lox> "
	defaultHistoryName = ".lox_history"
)

// fileConfig mirrors lox.toml.
type fileConfig struct {
	RecursionLimit int        `toml:"recursion_limit"`
	StepQuota      int        `toml:"step_quota"`
	LogVerbosity   int        `toml:"log_verbosity"`
	REPL           replConfig `toml:"repl"`

	// Path is the file the configuration was read from, empty when
	// defaults are in effect.
	Path string `toml:"-"`
}

type replConfig struct {
	HistoryFile string `toml:"history_file"`
	Prompt      string `toml:"prompt"`
}

func defaultFileConfig() fileConfig {
	return fileConfig{REPL: replConfig{Prompt: defaultPrompt}}
}

// loadConfig reads path, or lox.toml in the working directory when path is
// empty. A missing default file is not an error.
func loadConfig(path string) (fileConfig, error) {
	explicit := path != ""
	if !explicit {
		path = defaultConfigName
	}

	cfg := defaultFileConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return fileConfig{}, fmt.Errorf("cannot read %s: %w", path, err)
	}

	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return fileConfig{}, fmt.Errorf("parse error in %s: %w", path, err)
	}
	for _, key := range md.Undecoded() {
		log.Warningf("%s: unknown key %q", path, key.String())
	}
	if err := cfg.validate(); err != nil {
		return fileConfig{}, fmt.Errorf("%s: %w", path, err)
	}
	if cfg.REPL.Prompt == "" {
		cfg.REPL.Prompt = defaultPrompt
	}
	cfg.Path = path
	log.Debugf("loaded configuration from %s", path)
	return cfg, nil
}

func (c fileConfig) validate() error {
	if c.RecursionLimit < 0 {
		return fmt.Errorf("recursion_limit must be non-negative, got %d", c.RecursionLimit)
	}
	if c.StepQuota < 0 {
		return fmt.Errorf("step_quota must be non-negative, got %d", c.StepQuota)
	}
	return nil
}

func (c fileConfig) engineConfig(stdout io.Writer) lox.Config {
	return lox.Config{
		RecursionLimit: c.RecursionLimit,
		StepQuota:      c.StepQuota,
		Stdout:         stdout,
	}
}

// historyPath returns the prompt history file, defaulting to ~/.lox_history.
// An empty result disables history.
func (c fileConfig) historyPath() string {
	if c.REPL.HistoryFile != "" {
		return c.REPL.HistoryFile
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, defaultHistoryName)
}
