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
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

// 📝 Parse parses the config from HCL
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "config.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	// Create evaluation context
	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
	}

	// Define HCL schema
	type hclConfig struct {
		RepoRoot        string   `hcl:"repo_root"`
		SearchRoots     []string `hcl:"search_roots,optional"`
		Extensions      []string `hcl:"extensions,optional"`
		ExcludeSegments []string `hcl:"exclude_segments,optional"`
		IgnorePatterns  []string `hcl:"ignore_patterns,optional"`
		BackupRoot      string   `hcl:"backup_root,optional"`
		Phase           string   `hcl:"phase"`
		RuleSet         string   `hcl:"rule_set,optional"`
		ExtraRules      []struct {
			Pattern     string `hcl:"pattern"`
			Replace     string `hcl:"replace"`
			Description string `hcl:"description"`
			Category    string `hcl:"category,optional"`
		} `hcl:"rule,block"`
		Marker        string `hcl:"marker,optional"`
		SkipThreshold *int   `hcl:"skip_threshold,optional"`
	}

	// Decode HCL
	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	// Convert to model
	cfg := &Config{
		RepoRoot:        hclCfg.RepoRoot,
		SearchRoots:     hclCfg.SearchRoots,
		Extensions:      hclCfg.Extensions,
		ExcludeSegments: hclCfg.ExcludeSegments,
		IgnorePatterns:  hclCfg.IgnorePatterns,
		BackupRoot:      hclCfg.BackupRoot,
		Phase:           hclCfg.Phase,
		RuleSet:         hclCfg.RuleSet,
		Marker:          hclCfg.Marker,
		SkipThreshold:   hclCfg.SkipThreshold,
	}

	for _, r := range hclCfg.ExtraRules {
		cfg.ExtraRules = append(cfg.ExtraRules, RuleSpec{
			Pattern:     r.Pattern,
			Replace:     r.Replace,
			Description: r.Description,
			Category:    r.Category,
		})
	}

	return cfg, nil
}
