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

// Package engine applies an ordered rule list to file content. Rules
// are not independent: each rule runs against the previous rule's
// output, and ordering is part of the contract (later rules may target
// text introduced by earlier replacements).
package engine

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/semshift/pkg/rules"
	"gitlab.com/tozd/go/errors"
)

// 🔧 Engine transforms content with a marker-based short circuit
type Engine struct {
	// Marker is the completion marker token to count
	Marker string

	// SkipThreshold short-circuits content containing more than this
	// many marker occurrences. The count is a coarse idempotence proxy,
	// not a per-line applied-state ledger.
	SkipThreshold int
}

// 📊 Result holds the outcome of one transform pass
type Result struct {
	// OriginalContent is the content as passed in
	OriginalContent []byte

	// ModifiedContent is the content after all rules ran
	ModifiedContent []byte

	// Applied lists the descriptions of rules whose substitution step
	// changed the running content, in application order
	Applied []string

	// Skipped is true when the marker short circuit fired
	Skipped bool
}

// WasModified reports whether any rule changed the content
func (r *Result) WasModified() bool {
	return len(r.Applied) > 0
}

// 🏭 New creates an engine with the given marker settings
func New(marker string, skipThreshold int) *Engine {
	return &Engine{
		Marker:        marker,
		SkipThreshold: skipThreshold,
	}
}

// 🏃 Transform applies each rule in list order, feeding each rule's
// output into the next. A rule is recorded as applied iff its
// substitution changed the running content at that step; a rule that
// matches but substitutes identical text does not count.
//
// A panicking replacement callback aborts the whole pass with an error:
// partial application of an ordered list could leave content in an
// inconsistent intermediate state.
func (e *Engine) Transform(ctx context.Context, content []byte, ruleList []rules.Rule) (result *Result, err error) {
	logger := zerolog.Ctx(ctx)

	result = &Result{
		OriginalContent: content,
		ModifiedContent: content,
	}

	// Already-migrated files are left untouched
	if e.SkipThreshold > 0 && e.Marker != "" {
		if count := strings.Count(string(content), e.Marker); count > e.SkipThreshold {
			logger.Debug().Int("marker_count", count).Msg("marker threshold exceeded, skipping")
			result.Skipped = true
			return result, nil
		}
	}

	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = errors.Errorf("replacement callback panicked: %v", r)
		}
	}()

	current := string(content)
	for _, rule := range ruleList {
		next := rule.Apply(current)
		if next != current {
			result.Applied = append(result.Applied, rule.Description)
		}
		current = next
	}

	result.ModifiedContent = []byte(current)
	return result, nil
}
