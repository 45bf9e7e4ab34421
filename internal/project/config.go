// Package project loads the optional host configuration file.
package project

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// DefaultConfigName is the file the CLI looks for in the working
// directory when no --config flag is given.
const DefaultConfigName = "marlin.toml"

// Config carries host-side knobs. The semantic rules themselves are
// fixed; only presentation and resource limits are configurable.
type Config struct {
	// Jobs bounds parallel file analyses; 0 means one per CPU.
	Jobs int `toml:"jobs"`
	// MaxDiagnostics caps each file's diagnostics bag; 0 means no limit.
	MaxDiagnostics int `toml:"max_diagnostics"`
	// MaxDepth overrides the analyzer's recursion limit when positive.
	MaxDepth int `toml:"max_depth"`
	// Format selects the default output rendering: "text" or "json".
	Format string `toml:"format"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Jobs:           0,
		MaxDiagnostics: 100,
		MaxDepth:       0,
		Format:         "text",
	}
}

// Load reads a config file. A missing file is not an error and yields
// the defaults; unknown keys are rejected so typos surface instead of
// being silently ignored.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown format %q (want text or json)", c.Format)
	}
	if c.Jobs < 0 {
		return fmt.Errorf("jobs must be non-negative, got %d", c.Jobs)
	}
	if c.MaxDiagnostics < 0 {
		return fmt.Errorf("max_diagnostics must be non-negative, got %d", c.MaxDiagnostics)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("max_depth must be non-negative, got %d", c.MaxDepth)
	}
	return nil
}
