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

// Package report renders run summaries as markdown status files at the
// root of the run directory. Reports are best-effort: a failed report
// never rolls back completed mutations.
package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/semshift/pkg/record"
	"gitlab.com/tozd/go/errors"
)

// ReportFilename is the status file written at the run directory root
const ReportFilename = "semantic_issues_report.md"

// 📝 Params describes the run being reported
type Params struct {
	Phase   string // Phase name from config
	Scanned int    // Total candidate files scanned
	DryRun  bool   // True for scan-only runs
}

// 📊 Write renders the markdown report into the run directory and
// returns the report path
func Write(ctx context.Context, runDir string, params Params, s *record.Summary) (string, error) {
	logger := zerolog.Ctx(ctx)

	path := filepath.Join(runDir, ReportFilename)

	var b strings.Builder
	b.WriteString("# Semantic Terminology Issues Report\n\n")
	if params.DryRun {
		b.WriteString("This report documents rule matches found during a dry-run scan. No files were modified.\n\n")
	} else {
		b.WriteString("This report documents files that were modified during this migration phase.\n\n")
	}

	b.WriteString("## Semantic Model\n\n")
	b.WriteString("- **'Job'** → **'Step'** (what workers process)\n")
	b.WriteString("- **'Workflow'** → **'Job'** (what users request)\n\n")

	b.WriteString(fmt.Sprintf("## Phase: %s\n\n", params.Phase))

	b.WriteString("## Touched Files\n\n")
	if len(s.Files) == 0 {
		b.WriteString("No files matched any rule (all files may already carry completion markers).\n")
	} else {
		for _, f := range s.Files {
			b.WriteString(fmt.Sprintf("- `%s` (%d rules fired)\n", f.Path, f.Fires))
		}
	}

	if len(s.ByCategory) > 0 {
		b.WriteString("\n## Fires By Category\n\n")
		b.WriteString("| Category | Fires |\n")
		b.WriteString("|----------|-------|\n")
		categories := make([]string, 0, len(s.ByCategory))
		for c := range s.ByCategory {
			categories = append(categories, c)
		}
		sort.Strings(categories)
		for _, c := range categories {
			b.WriteString(fmt.Sprintf("| %s | %d |\n", c, s.ByCategory[c]))
		}
	}

	b.WriteString("\n## Summary\n\n")
	b.WriteString(fmt.Sprintf("- Total files scanned: %d\n", params.Scanned))
	b.WriteString(fmt.Sprintf("- Files touched: %d\n", s.FilesTouched))
	b.WriteString(fmt.Sprintf("- Total rules fired: %d\n", s.TotalFires))

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return "", errors.Errorf("writing report: %w", err)
	}

	logger.Debug().Str("path", path).Msg("report written")
	return path, nil
}
