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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/semshift/pkg/config"
)

// 🧪 TestTaggingRulesAnnotate tests that the tagging set appends marker comments
func TestTaggingRulesAnnotate(t *testing.T) {
	set, err := Get("terminology-tagging")
	require.NoError(t, err)

	content := "const jobId = 5;\nconst total = 'job:' + id;\n"
	for _, r := range set {
		content = r.Apply(content)
	}

	assert.Contains(t, content, "const jobId = 5; // TODO-SEMANTIC:", "declaration should be tagged")
	assert.Contains(t, content, "'job:' + id; // TODO-SEMANTIC:", "key prefix line should be tagged")
	assert.Contains(t, content, "const jobId = 5;", "original tokens must survive")
}

// 🧪 TestTaggingRulesIdempotent tests that re-applying tags does not duplicate them
func TestTaggingRulesIdempotent(t *testing.T) {
	set, err := Get("terminology-tagging")
	require.NoError(t, err)

	content := "const jobId = 1;\nreturn 'workflow:' + id;\n"
	for _, r := range set {
		content = r.Apply(content)
	}
	once := content

	// Second pass without any marker-threshold protection
	for _, r := range set {
		content = r.Apply(content)
	}

	assert.Equal(t, once, content, "second application must be a no-op")
	assert.Equal(t, 1, strings.Count(content, "Check if this jobId should be stepId"))
}

// 🧪 TestMigrationRuleOrdering tests that job->step runs before workflow->job
func TestMigrationRuleOrdering(t *testing.T) {
	set, err := Get("type-migration")
	require.NoError(t, err)

	content := "const jobId = a; const workflowId = b;"
	for _, r := range set {
		content = r.Apply(content)
	}

	// workflowId becomes jobId, and must NOT then become stepId
	assert.Equal(t, "const stepId = a; const jobId = b;", content)
}

// 🧪 TestFromSpecs tests compiling literal rules from config
func TestFromSpecs(t *testing.T) {
	specs := []config.RuleSpec{
		{Pattern: `\bfoo\b`, Replace: "bar", Description: "foo to bar"},
	}

	compiled, err := FromSpecs(specs)
	require.NoError(t, err)
	require.Len(t, compiled, 1)
	assert.Equal(t, "custom", compiled[0].Category, "category should default")
	assert.Equal(t, "a bar b", compiled[0].Apply("a foo b"))
}

// 🧪 TestFromSpecsBadPattern tests that a malformed pattern is rejected
func TestFromSpecsBadPattern(t *testing.T) {
	specs := []config.RuleSpec{
		{Pattern: `(unclosed`, Replace: "x", Description: "broken"},
	}

	_, err := FromSpecs(specs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
}

// 🧪 TestResolve tests combining a named set with extra rules
func TestResolve(t *testing.T) {
	cfg := &config.Config{
		RepoRoot: "/tmp",
		Phase:    "p",
		RuleSet:  "terminology-tagging",
		ExtraRules: []config.RuleSpec{
			{Pattern: "x", Replace: "y", Description: "x to y"},
		},
	}

	resolved, err := Resolve(cfg)
	require.NoError(t, err)

	base, err := Get("terminology-tagging")
	require.NoError(t, err)
	require.Len(t, resolved, len(base)+1)
	assert.Equal(t, "x to y", resolved[len(resolved)-1].Description, "extra rules append after the set")
}

// 🧪 TestResolveUnknownSet tests the unknown rule set error
func TestResolveUnknownSet(t *testing.T) {
	cfg := &config.Config{RepoRoot: "/tmp", Phase: "p", RuleSet: "nope"}

	_, err := Resolve(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown rule set")
}

// 🧪 TestNames tests that the built-in sets are registered
func TestNames(t *testing.T) {
	names := Names()
	assert.Contains(t, names, "terminology-tagging")
	assert.Contains(t, names, "type-migration")
}
