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

package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/semshift/pkg/rules"
)

func testRules(t *testing.T) []rules.Rule {
	t.Helper()
	a, err := rules.New(`a`, "b", "rule a", "declaration")
	require.NoError(t, err)
	b, err := rules.New(`c`, "d", "rule b", "key-prefix")
	require.NoError(t, err)
	c, err := rules.New(`e`, "f", "rule c", "declaration")
	require.NoError(t, err)
	return []rules.Rule{a, b, c}
}

// 🧪 TestSummaryAggregation tests counts, ordering, and category grouping
func TestSummaryAggregation(t *testing.T) {
	r := New(testRules(t))

	r.Record("src/a.ts", []string{"rule a"})
	r.Record("src/b.ts", []string{"rule a", "rule b", "rule c"})
	r.Record("src/c.ts", []string{"rule b", "rule c"})
	r.Record("src/d.ts", nil) // no fires, must not count

	s := r.Summary()

	assert.Equal(t, 3, s.FilesTouched)
	assert.Equal(t, 6, s.TotalFires)

	require.Len(t, s.Files, 3)
	assert.Equal(t, "src/b.ts", s.Files[0].Path, "most-touched file first")
	assert.Equal(t, 3, s.Files[0].Fires)
	assert.Equal(t, "src/c.ts", s.Files[1].Path)
	assert.Equal(t, "src/a.ts", s.Files[2].Path)

	assert.Equal(t, map[string]int{
		"declaration": 3,
		"key-prefix":  2,
	}, s.ByCategory)
}

// 🧪 TestRecordAccumulatesPerFile tests repeated records for one path
func TestRecordAccumulatesPerFile(t *testing.T) {
	r := New(testRules(t))

	r.Record("src/a.ts", []string{"rule a"})
	r.Record("src/a.ts", []string{"rule b"})

	s := r.Summary()
	assert.Equal(t, 1, s.FilesTouched, "same path must stay one record")
	assert.Equal(t, 2, s.TotalFires)
}

// 🧪 TestUnknownDescriptionCategory tests the uncategorized fallback
func TestUnknownDescriptionCategory(t *testing.T) {
	r := New(nil)
	r.Record("src/a.ts", []string{"mystery rule"})

	s := r.Summary()
	assert.Equal(t, map[string]int{"uncategorized": 1}, s.ByCategory)
}

// 🧪 TestEmptySummary tests a run with no changes
func TestEmptySummary(t *testing.T) {
	s := New(testRules(t)).Summary()
	assert.Zero(t, s.FilesTouched)
	assert.Zero(t, s.TotalFires)
	assert.Empty(t, s.Files)
}
