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

package engine

import (
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/semshift/pkg/rules"
)

func testCtx(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

func mustRule(t *testing.T, pattern, replace, desc string) rules.Rule {
	t.Helper()
	r, err := rules.New(pattern, replace, desc, "test")
	require.NoError(t, err)
	return r
}

// 🧪 TestRuleAppliedOnlyOnChange tests the fired-iff-changed semantics
func TestRuleAppliedOnlyOnChange(t *testing.T) {
	e := New("TODO-SEMANTIC", 50)

	ruleList := []rules.Rule{
		mustRule(t, `\bjobId\b`, "stepId", "rename jobId"),
		mustRule(t, `\bworkflowId\b`, "jobId", "rename workflowId"),
	}

	result, err := e.Transform(testCtx(t), []byte("const jobId = 1;"), ruleList)
	require.NoError(t, err)

	assert.Equal(t, []string{"rename jobId"}, result.Applied,
		"only the rule that changed content counts as applied")
	assert.True(t, result.WasModified())
	assert.Equal(t, "const stepId = 1;", string(result.ModifiedContent))
}

// 🧪 TestIdenticalSubstitutionNotApplied tests that a matching but
// identity substitution does not fire
func TestIdenticalSubstitutionNotApplied(t *testing.T) {
	e := New("TODO-SEMANTIC", 50)

	ruleList := []rules.Rule{
		mustRule(t, `\bjobId\b`, "jobId", "identity rename"),
	}

	result, err := e.Transform(testCtx(t), []byte("const jobId = 1;"), ruleList)
	require.NoError(t, err)

	assert.Empty(t, result.Applied)
	assert.False(t, result.WasModified())
}

// 🧪 TestOrderedRulesSeeEarlierOutput tests cumulative application
func TestOrderedRulesSeeEarlierOutput(t *testing.T) {
	e := New("TODO-SEMANTIC", 50)

	ruleList := []rules.Rule{
		mustRule(t, `\bfoo\b`, "bar", "foo to bar"),
		mustRule(t, `\bbar\b`, "baz", "bar to baz"),
	}

	result, err := e.Transform(testCtx(t), []byte("foo"), ruleList)
	require.NoError(t, err)

	assert.Equal(t, "baz", string(result.ModifiedContent),
		"second rule must see the first rule's replacement text")
	assert.Equal(t, []string{"foo to bar", "bar to baz"}, result.Applied)
}

// 🧪 TestMarkerThresholdSkips tests the short-circuit on heavily tagged files
func TestMarkerThresholdSkips(t *testing.T) {
	e := New("TODO-SEMANTIC", 50)

	content := strings.Repeat("// TODO-SEMANTIC: review\n", 60) + "const jobId = 1;\n"
	ruleList := []rules.Rule{
		mustRule(t, `\bjobId\b`, "stepId", "rename jobId"),
	}

	result, err := e.Transform(testCtx(t), []byte(content), ruleList)
	require.NoError(t, err)

	assert.True(t, result.Skipped)
	assert.Empty(t, result.Applied)
	assert.Equal(t, content, string(result.ModifiedContent),
		"a file above the marker threshold must be left byte-for-byte unchanged")
}

// 🧪 TestMarkerThresholdBoundary tests that exactly-threshold content still transforms
func TestMarkerThresholdBoundary(t *testing.T) {
	e := New("TODO-SEMANTIC", 3)

	content := strings.Repeat("// TODO-SEMANTIC\n", 3) + "jobId\n"
	ruleList := []rules.Rule{
		mustRule(t, `\bjobId\b`, "stepId", "rename jobId"),
	}

	result, err := e.Transform(testCtx(t), []byte(content), ruleList)
	require.NoError(t, err)

	assert.False(t, result.Skipped, "skip requires strictly more than threshold markers")
	assert.Equal(t, []string{"rename jobId"}, result.Applied)
}

// 🧪 TestZeroThresholdDisablesGuard: threshold 0 never short-circuits,
// no matter how many markers the content already carries
func TestZeroThresholdDisablesGuard(t *testing.T) {
	e := New("TODO-SEMANTIC", 0)

	content := strings.Repeat("// TODO-SEMANTIC\n", 100) + "jobId\n"
	ruleList := []rules.Rule{
		mustRule(t, `\bjobId\b`, "stepId", "rename jobId"),
	}

	result, err := e.Transform(testCtx(t), []byte(content), ruleList)
	require.NoError(t, err)

	assert.False(t, result.Skipped)
	assert.Equal(t, []string{"rename jobId"}, result.Applied)
}

// 🧪 TestDoubleRunDoesNotDuplicateTags tests idempotence of a tagging rule
// under a simulated double run with no marker protection
func TestDoubleRunDoesNotDuplicateTags(t *testing.T) {
	e := New("TODO-SEMANTIC", 0) // threshold disabled

	tag := mustRule(t,
		`(?m)^(\s*const\s+jobId\s*=\s*[^;\n]*;)[ \t]*$`,
		"$1 // TODO-SEMANTIC: Check if this jobId should be stepId",
		"tag jobId declarations")

	first, err := e.Transform(testCtx(t), []byte("const jobId = 1;\n"), []rules.Rule{tag})
	require.NoError(t, err)
	assert.Equal(t, []string{"tag jobId declarations"}, first.Applied)

	second, err := e.Transform(testCtx(t), first.ModifiedContent, []rules.Rule{tag})
	require.NoError(t, err)

	assert.Empty(t, second.Applied, "second run must not fire the rule again")
	assert.Equal(t, string(first.ModifiedContent), string(second.ModifiedContent))
	assert.Equal(t, 1, strings.Count(string(second.ModifiedContent), "TODO-SEMANTIC"))
}

// 🧪 TestPanickingCallbackFailsRun tests that a broken callback aborts the pass
func TestPanickingCallbackFailsRun(t *testing.T) {
	e := New("TODO-SEMANTIC", 50)

	broken := rules.Rule{
		Pattern:     regexp.MustCompile(`jobId`),
		ReplaceFunc: func(string) string { panic("malformed callback") },
		Description: "broken rule",
		Category:    "test",
	}

	result, err := e.Transform(testCtx(t), []byte("const jobId = 1;"), []rules.Rule{broken})
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "replacement callback panicked")
}
