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

package report

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/semshift/pkg/record"
)

func testCtx(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

// 🧪 TestWriteReport tests report content and placement
func TestWriteReport(t *testing.T) {
	runDir := t.TempDir()

	summary := &record.Summary{
		FilesTouched: 2,
		TotalFires:   3,
		Files: []record.FileTouches{
			{Path: "src/b.ts", Fires: 2, Applied: []string{"tag jobId declarations", "tag job: key prefixes"}},
			{Path: "src/a.ts", Fires: 1, Applied: []string{"tag jobId declarations"}},
		},
		ByCategory: map[string]int{"declaration": 2, "key-prefix": 1},
	}

	path, err := Write(testCtx(t), runDir, Params{Phase: "phase1_tagging", Scanned: 10}, summary)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(runDir, ReportFilename), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	text := string(content)
	assert.Contains(t, text, "# Semantic Terminology Issues Report")
	assert.Contains(t, text, "## Phase: phase1_tagging")
	assert.Contains(t, text, "`src/b.ts` (2 rules fired)")
	assert.Contains(t, text, "| declaration | 2 |")
	assert.Contains(t, text, "Total files scanned: 10")
	assert.Contains(t, text, "Files touched: 2")
}

// 🧪 TestWriteReportEmptyRun tests the no-changes wording
func TestWriteReportEmptyRun(t *testing.T) {
	runDir := t.TempDir()

	summary := &record.Summary{ByCategory: map[string]int{}}

	path, err := Write(testCtx(t), runDir, Params{Phase: "phase1", Scanned: 4, DryRun: true}, summary)
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "No files matched any rule")
	assert.Contains(t, string(content), "dry-run scan")
}

// 🧪 TestWriteReportBadDir tests the error path
func TestWriteReportBadDir(t *testing.T) {
	_, err := Write(testCtx(t), filepath.Join(t.TempDir(), "missing"), Params{Phase: "p"}, &record.Summary{})
	require.Error(t, err)
}
