/*
 * config.go, part of confcat.
 *
 * Copyright 2026 The confcat authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

// Package config reads the confcat configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	conf "github.com/rmera/confcat"
	"github.com/rmera/confcat/container"
	"gopkg.in/yaml.v3"
)

// Config holds the settings that can be given in a YAML file. Command line flags
// take precedence over them.
type Config struct {
	Container  string      `yaml:"container"`  //container file
	Codec      string      `yaml:"codec"`      //zstd, gzip, xz, or empty to use the file extension
	Level      int         `yaml:"level"`      //compression level, 0 is the codec default
	Overwrite  bool        `yaml:"overwrite"`  //replace records with repeated identifiers
	Workers    int         `yaml:"workers"`    //leaf directories read at the same time
	Extensions []string    `yaml:"extensions"` //coordinate file extensions
	Units      UnitsConfig `yaml:"units"`
}

// UnitsConfig is the pressure and temperature units assigned to the values in directory names.
type UnitsConfig struct {
	Pressure    string `yaml:"pressure"`
	Temperature string `yaml:"temperature"`
}

// Default returns the configuration used when there is no file.
func Default() *Config {
	u := conf.DefaultUnits()
	return &Config{
		Container:  "configurations.cfc",
		Workers:    runtime.NumCPU(),
		Extensions: []string{".xyz"},
		Units:      UnitsConfig{Pressure: u.Pressure, Temperature: u.Temperature},
	}
}

// Load reads the configuration from a YAML file. Missing fields keep their default
// values, and so does everything if the file doesn't exist.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if path := os.Getenv("CONFCAT_CONTAINER"); path != "" {
		c.Container = path
	}
}

// Validate checks that the units and the codec are known, and that the numbers make sense.
func (c *Config) Validate() error {
	if err := c.ConfUnits().Check(); err != nil {
		return err
	}
	if _, err := container.ParseCodec(c.Codec); err != nil {
		return err
	}
	if c.Workers < 0 {
		return fmt.Errorf("negative number of workers: %d", c.Workers)
	}
	if c.Level < 0 {
		return fmt.Errorf("negative compression level: %d", c.Level)
	}
	if len(c.Extensions) == 0 {
		return fmt.Errorf("no coordinate file extensions given")
	}
	return nil
}

// ConfUnits returns the units as used by the rest of confcat.
func (c *Config) ConfUnits() conf.Units {
	return conf.Units{Pressure: c.Units.Pressure, Temperature: c.Units.Temperature}
}
