// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

// Package config loads the sitepath-cli run configuration. The core
// packages (treemer, lumpy, entropy, pathutil, sitepath) take no
// config object of their own, only explicit call parameters — this
// package exists purely to give the CLI front-end a YAML-backed
// default/override mechanism, the way AICrawler's internal/config
// backs its own binary.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var DefaultConfigYAML []byte

// Run holds the parameters a single sitepath-cli invocation needs.
type Run struct {
	Variant          string `yaml:"variant"`
	Gap              string `yaml:"gap"`
	ZValue           int    `yaml:"z_value"`
	MinSNP           int    `yaml:"min_snp"`
	MinEffectiveSize int    `yaml:"min_effective_size"`
	SearchDepth      int    `yaml:"search_depth"`
}

// Config is the top-level document; it has a single "run" section
// today but keeps the nesting AICrawler uses so further sections can
// be added without breaking the YAML shape.
type Config struct {
	Run Run `yaml:"run"`
}

// Load reads and parses a config YAML file from path, falling back to
// the embedded defaults for any field the file does not set.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return parse(data)
}

// Default returns the embedded default configuration.
func Default() (*Config, error) {
	return parse(DefaultConfigYAML)
}

// parse parses YAML bytes into a Config, starting from the embedded
// defaults so a caller-supplied document only needs to set the fields
// it wants to override.
func parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(DefaultConfigYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// GapByte returns the configured gap character as a byte, defaulting
// to '-' if the configured string is empty.
func (c *Config) GapByte() byte {
	if c.Run.Gap == "" {
		return '-'
	}
	return c.Run.Gap[0]
}
