package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

const defaultConfigFile = "gomsh.toml"

// Config is the content of gomsh.toml. Command line flags override it.
type Config struct {
	// Lang is the language of the interactive loop: "lua" or "starlark".
	Lang string `toml:"lang"`
	// History is the file the history of the session is saved to.
	History  string `toml:"history"`
	NoColor  bool   `toml:"no_color"`
	LogLevel string `toml:"log_level"`
	// Startup scripts run before the files given on the command line.
	Startup []string `toml:"startup"`
}

func defaultConfig() *Config {
	return &Config{Lang: "lua", LogLevel: "warn"}
}

// loadConfig reads path over the defaults. A missing file is an error only
// when required.
func loadConfig(path string, required bool) (*Config, error) {
	cfg := defaultConfig()
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) && !required {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("loading %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Lang {
	case "lua", "starlark":
	default:
		return fmt.Errorf("unsupported language %q", c.Lang)
	}
	return nil
}
