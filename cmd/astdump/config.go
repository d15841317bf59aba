package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"

	"astdump/internal/diagfmt"
	"astdump/internal/driver"
)

const configFileName = "astdump.toml"

// fileConfig mirrors astdump.toml. Every key is optional and only fills in
// defaults for flags that were not given on the command line.
type fileConfig struct {
	Output outputConfig `toml:"output"`
	Decode decodeConfig `toml:"decode"`
	Check  checkConfig  `toml:"check"`
	Cache  cacheConfig  `toml:"cache"`
}

type outputConfig struct {
	Format *string `toml:"format"`
	Text   *string `toml:"text"`
	Color  *string `toml:"color"`
}

type decodeConfig struct {
	MaxDepth       *int   `toml:"max_depth"`
	MaxInputBytes  *int64 `toml:"max_input_bytes"`
	StrictTrailing *bool  `toml:"strict_trailing"`
}

type checkConfig struct {
	Jobs *int    `toml:"jobs"`
	UI   *string `toml:"ui"`
}

type cacheConfig struct {
	Enabled *bool   `toml:"enabled"`
	Dir     *string `toml:"dir"`
}

func findConfig(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, configFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// loadConfig parses path and returns the keys it did not recognize.
func loadConfig(path string) (fileConfig, []string, error) {
	var cfg fileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return fileConfig{}, nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return fileConfig{}, nil, err
	}
	var unknown []string
	for _, key := range meta.Undecoded() {
		unknown = append(unknown, key.String())
	}
	sort.Strings(unknown)
	return cfg, unknown, nil
}

func (c fileConfig) validate() error {
	if c.Output.Format != nil {
		if _, err := driver.ParseOutputFormat(*c.Output.Format); err != nil {
			return fmt.Errorf("[output].format: %w", err)
		}
	}
	if c.Output.Text != nil {
		if _, ok := diagfmt.ParseTextMode(*c.Output.Text); !ok {
			return fmt.Errorf("[output].text: unknown mode %q (want verbatim, escape, raw or latin1)", *c.Output.Text)
		}
	}
	if c.Output.Color != nil {
		if _, err := readColorMode(*c.Output.Color); err != nil {
			return fmt.Errorf("[output].color: %w", err)
		}
	}
	if c.Decode.MaxDepth != nil && *c.Decode.MaxDepth < 0 {
		return fmt.Errorf("[decode].max_depth must not be negative")
	}
	if c.Check.Jobs != nil && *c.Check.Jobs < 0 {
		return fmt.Errorf("[check].jobs must not be negative")
	}
	if c.Check.UI != nil {
		if _, err := readUIMode(*c.Check.UI); err != nil {
			return fmt.Errorf("[check].ui: %w", err)
		}
	}
	return nil
}
