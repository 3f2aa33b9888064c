// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📚 Config represents a complete copy run configuration
type Config struct {
	// Source is the directory files are copied from
	Source string `json:"source" yaml:"source" hcl:"source,optional"`
	// Target is the directory files are copied to
	Target string `json:"target" yaml:"target" hcl:"target,optional"`
	// Patterns holds doublestar globs; a "!" prefix excludes
	Patterns []string `json:"patterns,omitempty" yaml:"patterns,omitempty" hcl:"patterns,optional"`
	// CleanTarget empties the target before copying
	CleanTarget bool `json:"clean_target,omitempty" yaml:"clean_target,omitempty" hcl:"clean_target,optional"`
	// Overwrite replaces files that already exist in the target
	Overwrite bool `json:"overwrite,omitempty" yaml:"overwrite,omitempty" hcl:"overwrite,optional"`
	// FlattenFolders drops all files directly into the target root
	FlattenFolders bool `json:"flatten_folders,omitempty" yaml:"flatten_folders,omitempty" hcl:"flatten_folders,optional"`
	// PreserveTimestamp carries source mtimes onto the copies
	PreserveTimestamp bool `json:"preserve_timestamp,omitempty" yaml:"preserve_timestamp,omitempty" hcl:"preserve_timestamp,optional"`
	// FollowSymlinks descends through directory symlinks during discovery
	FollowSymlinks bool `json:"follow_symlinks,omitempty" yaml:"follow_symlinks,omitempty" hcl:"follow_symlinks,optional"`
	// RetryCount is the number of retries per operation beyond the first attempt
	RetryCount int `json:"retry_count,omitempty" yaml:"retry_count,omitempty" hcl:"retry_count,optional"`
	// RetryDelayMS is the fixed delay between attempts, in milliseconds
	RetryDelayMS int `json:"retry_delay_ms,omitempty" yaml:"retry_delay_ms,omitempty" hcl:"retry_delay_ms,optional"`
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	// Read config file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	// A .copytree file may hold either YAML or HCL
	if strings.HasSuffix(path, ".copytree") {
		return parseAmbiguous(ctx, data)
	}

	// Get parser
	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	// Parse config
	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// parseAmbiguous tries YAML first, then HCL.
func parseAmbiguous(ctx context.Context, data []byte) (*Config, error) {
	cfg, yamlErr := (&YAMLParser{}).Parse(ctx, data)
	if yamlErr == nil {
		return cfg, nil
	}

	cfg, hclErr := (&HCLParser{}).Parse(ctx, data)
	if hclErr == nil {
		return cfg, nil
	}

	return nil, errors.Errorf("parsing .copytree as YAML (%s) or HCL: %w", yamlErr, hclErr)
}

// 🔍 Validate checks if the configuration is valid
func (cfg *Config) Validate() error {
	// Check required fields
	if cfg.Source == "" {
		return errors.Errorf("source is required")
	}
	if cfg.Target == "" {
		return errors.Errorf("target is required")
	}

	// Clean up paths
	cfg.Source = filepath.Clean(cfg.Source)
	cfg.Target = filepath.Clean(cfg.Target)

	// Set defaults
	if len(cfg.Patterns) == 0 {
		cfg.Patterns = []string{"**"}
	}

	// Retry knobs never go negative
	if cfg.RetryCount < 0 {
		cfg.RetryCount = 0
	}
	if cfg.RetryDelayMS < 0 {
		cfg.RetryDelayMS = 0
	}

	return nil
}

// ⏱️ RetryDelay returns the pause between attempts as a duration
func (cfg *Config) RetryDelay() time.Duration {
	return time.Duration(cfg.RetryDelayMS) * time.Millisecond
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	layout := "hierarchy"
	if cfg.FlattenFolders {
		layout = "flatten"
	}
	return fmt.Sprintf("%s -> %s (%s)", cfg.Source, cfg.Target, layout)
}

// 🔧 YAMLParser implements the Parser interface for YAML files
type YAMLParser struct{}

func init() {
	Register(&YAMLParser{})
}

func (p *YAMLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".yaml") || strings.HasSuffix(filename, ".yml")
}

func (p *YAMLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, errors.Errorf("parsing YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}
