// Package config loads lunartable settings from defaults, an optional YAML
// file, LUNARTABLE_* environment variables and command-line flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // zone names must resolve on hosts without zoneinfo

	"github.com/spf13/viper"

	"github.com/chrissnell/lunartable/pkg/ephemeris"
	"github.com/chrissnell/lunartable/pkg/lunar"
)

// EnvPrefix prefixes every environment override, e.g. LUNARTABLE_DATA_DIR.
const EnvPrefix = "LUNARTABLE"

// Config holds all runtime configuration for a generation run.
type Config struct {
	StartYear   int    `mapstructure:"start_year"`
	EndYear     int    `mapstructure:"end_year"`
	DataDir     string `mapstructure:"data_dir"`
	Model       string `mapstructure:"model"`
	Zone        string `mapstructure:"zone"`
	ZoneLabel   string `mapstructure:"zone_label"`
	Frame       string `mapstructure:"frame"`
	KeepGoing   bool   `mapstructure:"keep_going"`
	MetricsFile string `mapstructure:"metrics_file"`
	Debug       bool   `mapstructure:"debug"`
}

// SetDefaults registers the built-in defaults on v: 2025 through 2100 into
// data/, labelled in Pacific time.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("start_year", 2025)
	v.SetDefault("end_year", 2100)
	v.SetDefault("data_dir", "data")
	v.SetDefault("model", ephemeris.ModelMeeus)
	v.SetDefault("zone", lunar.DefaultZone)
	v.SetDefault("zone_label", "PST")
	v.SetDefault("frame", "UTC")
	v.SetDefault("keep_going", false)
	v.SetDefault("metrics_file", "")
	v.SetDefault("debug", false)
}

// Load reads configuration into a validated Config. cfgFile may be empty, in
// which case only defaults, environment and bound flags apply.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks year bounds, the model name and both time zones.
func (c *Config) Validate() error {
	var errs []error

	if c.StartYear < lunar.MinYear || c.StartYear > lunar.MaxYear {
		errs = append(errs, fmt.Errorf("start_year %d outside [%d, %d]", c.StartYear, lunar.MinYear, lunar.MaxYear))
	}
	if c.EndYear < lunar.MinYear || c.EndYear > lunar.MaxYear {
		errs = append(errs, fmt.Errorf("end_year %d outside [%d, %d]", c.EndYear, lunar.MinYear, lunar.MaxYear))
	}
	if c.StartYear > c.EndYear {
		errs = append(errs, fmt.Errorf("start_year %d is after end_year %d", c.StartYear, c.EndYear))
	}
	if c.DataDir == "" {
		errs = append(errs, errors.New("data_dir is required"))
	}
	if _, err := ephemeris.New(c.Model); err != nil {
		errs = append(errs, err)
	}
	if _, err := time.LoadLocation(c.Zone); err != nil {
		errs = append(errs, fmt.Errorf("zone %q: %w", c.Zone, err))
	}
	if _, err := time.LoadLocation(c.Frame); err != nil {
		errs = append(errs, fmt.Errorf("frame %q: %w", c.Frame, err))
	}

	return errors.Join(errs...)
}

// BuilderConfig resolves the model and zones into a lunar.Config.
func (c *Config) BuilderConfig() (lunar.Config, error) {
	provider, err := ephemeris.New(c.Model)
	if err != nil {
		return lunar.Config{}, err
	}
	frame, err := time.LoadLocation(c.Frame)
	if err != nil {
		return lunar.Config{}, fmt.Errorf("frame %q: %w", c.Frame, err)
	}
	local, err := time.LoadLocation(c.Zone)
	if err != nil {
		return lunar.Config{}, fmt.Errorf("zone %q: %w", c.Zone, err)
	}
	return lunar.Config{Provider: provider, Frame: frame, Local: local}, nil
}

// Header returns the provenance written into each data file.
func (c *Config) Header() lunar.HeaderInfo {
	return lunar.HeaderInfo{ZoneLabel: c.ZoneLabel, Model: c.Model}
}
