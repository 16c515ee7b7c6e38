// Package config resolves rackgrid settings. Values come, in rising order of
// precedence, from built-in defaults, an optional dotenv file, RACKGRID_*
// environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/braunma/rackgrid/internal/constants"
	"github.com/braunma/rackgrid/pkg/placement"
)

// EnvPrefix is the prefix of every environment variable read by rackgrid
const EnvPrefix = "RACKGRID"

// Setting keys
const (
	KeyClearance   = "clearance"
	KeyAlignment   = "alignment"
	KeyGridSpacing = "grid_spacing"
	KeyLayoutFile  = "layout_file"
	KeyDataDir     = "data_dir"
	KeyVerbose     = "verbose"
)

// DefaultLayoutFile is the layout used when none is configured
const DefaultLayoutFile = "layout.json"

// flagNames maps setting keys to the CLI flags that override them
var flagNames = map[string]string{
	KeyClearance:   "clearance",
	KeyAlignment:   "alignment",
	KeyGridSpacing: "grid-spacing",
	KeyLayoutFile:  "layout",
	KeyDataDir:     "data-dir",
	KeyVerbose:     "verbose",
}

// Config holds the resolved settings
type Config struct {
	Clearance   float64 `mapstructure:"clearance"`
	Alignment   float64 `mapstructure:"alignment"`
	GridSpacing float64 `mapstructure:"grid_spacing"`
	LayoutFile  string  `mapstructure:"layout_file"`
	DataDir     string  `mapstructure:"data_dir"`
	Verbose     bool    `mapstructure:"verbose"`
}

// New returns a viper instance with defaults and environment binding applied
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyClearance, constants.DefaultClearance)
	v.SetDefault(KeyAlignment, constants.DefaultAlignment)
	v.SetDefault(KeyGridSpacing, constants.GridSpacing)
	v.SetDefault(KeyLayoutFile, DefaultLayoutFile)
	v.SetDefault(KeyDataDir, ".")
	v.SetDefault(KeyVerbose, false)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	return v
}

// Load resolves settings from the dotenv file at path and the given flags.
// A missing file is not an error; keys in the file are unprefixed, e.g.
// CLEARANCE=1.5. flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := New()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("env")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config %s: %w", path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat config %s: %w", path, err)
		}
	}

	if flags != nil {
		for key, name := range flagNames {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag --%s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the geometry settings are usable
func (c *Config) Validate() error {
	if c.Clearance <= 0 {
		return fmt.Errorf("invalid %s %g: must be positive", KeyClearance, c.Clearance)
	}
	if c.Alignment <= 0 {
		return fmt.Errorf("invalid %s %g: must be positive", KeyAlignment, c.Alignment)
	}
	if c.GridSpacing <= 0 {
		return fmt.Errorf("invalid %s %g: must be positive", KeyGridSpacing, c.GridSpacing)
	}
	if c.LayoutFile == "" {
		return fmt.Errorf("invalid %s: must not be empty", KeyLayoutFile)
	}
	return nil
}

// Rules returns the placement rules described by the settings
func (c *Config) Rules() placement.Rules {
	return placement.Rules{Clearance: c.Clearance, Alignment: c.Alignment}
}
