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

package rules

import (
	"regexp"

	"github.com/walteh/semshift/pkg/config"
	"gitlab.com/tozd/go/errors"
)

// 🔄 Rule is a single pattern-to-replacement mapping. Rules are immutable
// after construction; a rule set is applied in declaration order and later
// rules see the output of earlier ones.
type Rule struct {
	// Pattern is the compiled search pattern
	Pattern *regexp.Regexp

	// Replace is the literal replacement (supports $1 group references).
	// Ignored when ReplaceFunc is set.
	Replace string

	// ReplaceFunc, when set, produces the replacement for each match
	ReplaceFunc func(match string) string

	// Description identifies the rule in reports and change records
	Description string

	// Category groups rule fires in summary tables
	Category string
}

// 🏃 Apply runs the rule against content and returns the result
func (r Rule) Apply(content string) string {
	if r.ReplaceFunc != nil {
		return r.Pattern.ReplaceAllStringFunc(content, r.ReplaceFunc)
	}
	return r.Pattern.ReplaceAllString(content, r.Replace)
}

// 🏭 New compiles a rule from its parts
func New(pattern, replace, description, category string) (Rule, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Rule{}, errors.Errorf("compiling pattern %q: %w", pattern, err)
	}
	return Rule{
		Pattern:     re,
		Replace:     replace,
		Description: description,
		Category:    category,
	}, nil
}

// 🏭 mustNew compiles a built-in rule, panicking on bad patterns.
// Only used for the registered rule sets below.
func mustNew(pattern, replace, description, category string) Rule {
	r, err := New(pattern, replace, description, category)
	if err != nil {
		panic(err)
	}
	return r
}

// 📝 FromSpecs compiles the literal rules declared in a config file
func FromSpecs(specs []config.RuleSpec) ([]Rule, error) {
	out := make([]Rule, 0, len(specs))
	for i, s := range specs {
		category := s.Category
		if category == "" {
			category = "custom"
		}
		r, err := New(s.Pattern, s.Replace, s.Description, category)
		if err != nil {
			return nil, errors.Errorf("rule %d (%s): %w", i, s.Description, err)
		}
		out = append(out, r)
	}
	return out, nil
}

// 🎯 Resolve builds the full ordered rule list for a config: the named
// set (if any) followed by the config's literal extra rules.
func Resolve(cfg *config.Config) ([]Rule, error) {
	var out []Rule

	if cfg.RuleSet != "" {
		set, err := Get(cfg.RuleSet)
		if err != nil {
			return nil, errors.Errorf("resolving rule set: %w", err)
		}
		out = append(out, set...)
	}

	extra, err := FromSpecs(cfg.ExtraRules)
	if err != nil {
		return nil, errors.Errorf("compiling extra rules: %w", err)
	}
	out = append(out, extra...)

	return out, nil
}
