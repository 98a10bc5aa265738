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
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
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

// 🔄 RuleSpec represents a single literal pattern-to-replacement rule
// declared inline in the config file, appended after the named rule set.
type RuleSpec struct {
	Pattern     string `json:"pattern" yaml:"pattern"`
	Replace     string `json:"replace" yaml:"replace"`
	Description string `json:"description" yaml:"description"`
	Category    string `json:"category,omitempty" yaml:"category,omitempty"`
}

// 📚 Config represents the complete configuration for one migration phase
type Config struct {
	// RepoRoot is the root of the tree being migrated. All snapshot paths
	// are stored relative to it.
	RepoRoot string `json:"repo_root" yaml:"repo_root"`

	// SearchRoots are the directories under RepoRoot to scan. Missing
	// roots are skipped, not fatal.
	SearchRoots []string `json:"search_roots" yaml:"search_roots"`

	// Extensions filters candidate files (e.g. ".ts", ".tsx")
	Extensions []string `json:"extensions,omitempty" yaml:"extensions,omitempty"`

	// ExcludeSegments drops any path containing one of these segments
	ExcludeSegments []string `json:"exclude_segments,omitempty" yaml:"exclude_segments,omitempty"`

	// IgnorePatterns are doublestar globs matched against relative paths
	IgnorePatterns []string `json:"ignore_patterns,omitempty" yaml:"ignore_patterns,omitempty"`

	// BackupRoot is where run directories are created
	BackupRoot string `json:"backup_root,omitempty" yaml:"backup_root,omitempty"`

	// Phase names this migration step; it prefixes the run directory
	Phase string `json:"phase" yaml:"phase"`

	// RuleSet selects a registered rule set by name
	RuleSet string `json:"rule_set,omitempty" yaml:"rule_set,omitempty"`

	// ExtraRules are appended after the named rule set
	ExtraRules []RuleSpec `json:"extra_rules,omitempty" yaml:"extra_rules,omitempty"`

	// Marker is the completion marker token inserted by tagging rules
	Marker string `json:"marker,omitempty" yaml:"marker,omitempty"`

	// SkipThreshold short-circuits files already containing more than
	// this many marker occurrences. Nil means the default; an explicit 0
	// disables the guard entirely.
	SkipThreshold *int `json:"skip_threshold,omitempty" yaml:"skip_threshold,omitempty"`
}

// Defaults recovered from the original migration scripts.
const (
	DefaultBackupRoot    = "backups"
	DefaultMarker        = "TODO-SEMANTIC"
	DefaultSkipThreshold = 50
)

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	// Read config file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
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

	cfg.SetDefaults()
	return cfg, nil
}

// ✅ Validate checks the configuration for errors
func (c *Config) Validate() error {
	if c.RepoRoot == "" {
		return errors.Errorf("repo_root is required")
	}
	if c.Phase == "" {
		return errors.Errorf("phase is required")
	}
	if c.RuleSet == "" && len(c.ExtraRules) == 0 {
		return errors.Errorf("either rule_set or extra_rules is required")
	}
	for i, r := range c.ExtraRules {
		if r.Pattern == "" {
			return errors.Errorf("extra rule %d: pattern is required", i)
		}
		if r.Description == "" {
			return errors.Errorf("extra rule %d: description is required", i)
		}
	}
	if c.SkipThreshold != nil && *c.SkipThreshold < 0 {
		return errors.Errorf("skip_threshold must not be negative")
	}
	return nil
}

// 🔧 SetDefaults fills in unset fields with the standard values
func (c *Config) SetDefaults() {
	if len(c.SearchRoots) == 0 {
		c.SearchRoots = []string{"packages", "apps"}
	}
	if len(c.Extensions) == 0 {
		c.Extensions = []string{".ts", ".tsx"}
	}
	if len(c.ExcludeSegments) == 0 {
		c.ExcludeSegments = []string{"node_modules", "dist", "build", ".next"}
	}
	if c.BackupRoot == "" {
		c.BackupRoot = DefaultBackupRoot
	}
	if c.Marker == "" {
		c.Marker = DefaultMarker
	}
	if c.SkipThreshold == nil {
		v := DefaultSkipThreshold
		c.SkipThreshold = &v
	}
}

// 🔢 SkipThresholdOrDefault returns the configured threshold, falling
// back to the default when unset. An explicit 0 disables the guard.
func (c *Config) SkipThresholdOrDefault() int {
	if c.SkipThreshold == nil {
		return DefaultSkipThreshold
	}
	return *c.SkipThreshold
}

// 📁 AbsSearchRoots returns the search roots joined onto the repo root
func (c *Config) AbsSearchRoots() []string {
	roots := make([]string, 0, len(c.SearchRoots))
	for _, r := range c.SearchRoots {
		roots = append(roots, filepath.Join(c.RepoRoot, r))
	}
	return roots
}
