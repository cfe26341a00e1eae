// Package config holds the dashboard settings: where the policy exports
// live, which columns mean what, and how vehicles are colored.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/warp/insurance-dashboard/chart"
	"github.com/warp/insurance-dashboard/insurance"
)

// Config holds all dashboard configuration.
type Config struct {
	Port     int     `toml:"port"`
	Currency string  `toml:"currency"`
	Data     Data    `toml:"data"`
	Columns  Columns `toml:"columns"`
	Home     Home    `toml:"home"`
	Auto     Auto    `toml:"auto"`
}

// Data locates the input files. Claims is optional; when empty, claims are
// read from the auto table's Claim rows.
type Data struct {
	Home   string `toml:"home"`
	Auto   string `toml:"auto"`
	Claims string `toml:"claims"`
}

// Columns names the columns of the input tables.
type Columns struct {
	Date      string `toml:"date"`
	Insurer   string `toml:"insurer"`
	Total     string `toml:"total"`
	HomeTotal string `toml:"home_total"`
	Category  string `toml:"category"`
	Vehicle   string `toml:"vehicle"`
}

// Home configures the home insurance chart.
type Home struct {
	SplitByInsurer bool `toml:"split_by_insurer"`
}

// Auto configures the auto insurance chart.
type Auto struct {
	PremiumCategory string            `toml:"premium_category"`
	ClaimCategory   string            `toml:"claim_category"`
	Colors          map[string]string `toml:"colors"`
}

// DefaultColors is the fixed vehicle palette.
func DefaultColors() map[string]string {
	return map[string]string{
		"2020 Toyota Tacoma":  "grey",
		"2012 Chevy Cruze":    "red",
		"2016 Toyota Corolla": "orange",
		"2017 Hyundai Sonata": "blue",
		"2003 Honda Accord":   "pink",
	}
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Port:     8050,
		Currency: "USD",
		Data: Data{
			Home: "data/home.json",
			Auto: "data/auto.json",
		},
		Columns: Columns{
			Date:      "Date",
			Insurer:   "Insurer",
			Total:     "Total",
			HomeTotal: "Total",
			Category:  "Category",
			Vehicle:   "Vehicle",
		},
		Auto: Auto{
			PremiumCategory: "Premium",
			ClaimCategory:   "Claim",
			Colors:          DefaultColors(),
		},
	}
}

// Load reads configuration from a TOML file, falling back to defaults for
// any unset field. A missing file is not an error. A [auto.colors] table in
// the file replaces the default palette.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}

	cfg.Auto.Colors = nil
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.Auto.Colors == nil {
		cfg.Auto.Colors = DefaultColors()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.Data.Home == "" && c.Data.Auto == "" {
		return errors.New("no input files configured")
	}
	if c.Columns.Date == "" || c.Columns.Vehicle == "" || c.Columns.Total == "" {
		return errors.New("date, vehicle and total column names are required")
	}
	return nil
}

// Options converts the configuration into dashboard build options.
func (c *Config) Options() insurance.Options {
	opts := insurance.DefaultOptions()
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&opts.Columns.Date, c.Columns.Date)
	set(&opts.Columns.Insurer, c.Columns.Insurer)
	set(&opts.Columns.Total, c.Columns.Total)
	set(&opts.Columns.HomeTotal, c.Columns.HomeTotal)
	set(&opts.Columns.Category, c.Columns.Category)
	set(&opts.Columns.Vehicle, c.Columns.Vehicle)
	set(&opts.Categories.Premium, c.Auto.PremiumCategory)
	set(&opts.Categories.Claim, c.Auto.ClaimCategory)
	set(&opts.Currency, c.Currency)
	opts.SplitByInsurer = c.Home.SplitByInsurer
	opts.Colors = chart.ColorMap(c.Auto.Colors)
	return opts
}
