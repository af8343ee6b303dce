// Package config loads tool settings from a TOML file with
// environment overrides.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Config is the tool configuration. Zero values mean "use the
// default"; Default() fills them in.
type Config struct {
	// Base is the corpus directory holding <id>.abc files.
	Base string `toml:"base"`
	// Cache is the blob path, relative to Base unless absolute.
	Cache string `toml:"cache"`
	// Jobs caps worker parallelism; 0 uses every CPU.
	Jobs int `toml:"jobs"`
	// MaxDiagnostics bounds diagnostics kept per buffer.
	MaxDiagnostics int `toml:"max_diagnostics"`
	// DebugMaxID, when non-zero, skips blob records above it.
	DebugMaxID uint32 `toml:"debug_max_id"`
}

func Default() Config {
	return Config{
		Base:           ".",
		Cache:          "tunes.blob",
		MaxDiagnostics: 100,
	}
}

// Load reads a TOML file, falling back to defaults when the file does
// not exist. Env overrides are applied either way.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return cfg, err
		}
	}
	return fromEnv(cfg), nil
}

// fromEnv applies the BASE and DEBUG_MAX_ID environment overrides.
func fromEnv(cfg Config) Config {
	if base := os.Getenv("BASE"); base != "" {
		cfg.Base = base
	}
	if raw := os.Getenv("DEBUG_MAX_ID"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 32); err == nil {
			cfg.DebugMaxID = uint32(id)
		}
	}
	return cfg
}

// CachePath resolves the blob location against Base.
func (c Config) CachePath() string {
	if filepath.IsAbs(c.Cache) {
		return c.Cache
	}
	return filepath.Join(c.Base, c.Cache)
}
