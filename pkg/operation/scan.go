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

package operation

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/walteh/semshift/pkg/discover"
	"github.com/walteh/semshift/pkg/engine"
	"github.com/walteh/semshift/pkg/record"
	"github.com/walteh/semshift/pkg/report"
	"github.com/walteh/semshift/pkg/rules"
	"github.com/walteh/semshift/pkg/snapshot"
	"github.com/walteh/semshift/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// 🔍 NewScanOperation creates the dry-run analysis operation
func NewScanOperation(opts Options) (*ScanOperation, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return &ScanOperation{
		BaseOperation: NewBaseOperation(opts),
	}, nil
}

// 🔍 ScanOperation runs the transform engine against every candidate
// file without snapshotting or writing anything back. It reports what a
// migrate run would change.
type ScanOperation struct {
	BaseOperation

	// Result is populated after a successful Execute
	Result *RunResult
}

// 🏃 Execute runs the scan
func (op *ScanOperation) Execute(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)
	cfg := op.Config

	ruleList, err := rules.Resolve(cfg)
	if err != nil {
		return errors.Errorf("resolving rules: %w", err)
	}

	files, err := discover.FromConfig(cfg).Files(ctx)
	if err != nil {
		return errors.Errorf("discovering files: %w", err)
	}

	// The run directory only receives the analysis report on a scan
	var snapMgr *snapshot.Manager
	if op.RunDir != "" {
		snapMgr, err = snapshot.NewManagerAt(ctx, cfg.RepoRoot, op.RunDir)
	} else {
		snapMgr, err = snapshot.NewManager(ctx, cfg.RepoRoot, cfg.BackupRoot, cfg.Phase+"_scan")
	}
	if err != nil {
		return errors.Errorf("creating run directory: %w", err)
	}

	eng := engine.New(cfg.Marker, cfg.SkipThresholdOrDefault())
	rec := record.New(ruleList)

	op.logStage("Scanning for " + cfg.RuleSet + " rule matches (dry run)")
	op.StatusMgr.StartRun(ctx, len(files))

	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return errors.Errorf("reading file %s: %w", file, err)
		}

		result, err := eng.Transform(ctx, content, ruleList)
		if err != nil {
			return errors.Errorf("transforming %s: %w", file, err)
		}

		rel := op.relPath(file)
		outcome := status.OutcomeUnchanged
		switch {
		case result.Skipped:
			outcome = status.OutcomeSkipped
		case result.WasModified():
			outcome = status.OutcomeMutated
			rec.Record(rel, result.Applied)
		}

		info := status.FileInfo{Path: rel, Outcome: outcome, Fires: len(result.Applied)}
		op.StatusMgr.TrackFile(ctx, info)
		op.logFile(info)
	}

	summary := rec.Summary()

	reportPath, err := report.Write(ctx, snapMgr.RunDir(), report.Params{
		Phase:   cfg.Phase,
		Scanned: len(files),
		DryRun:  true,
	}, summary)
	if err != nil {
		logger.Warn().Err(err).Msg("writing report failed")
		reportPath = ""
	}

	op.Result = &RunResult{
		RunDir:     snapMgr.RunDir(),
		ReportPath: reportPath,
		Scanned:    len(files),
		Summary:    summary,
	}

	return nil
}

func (op *ScanOperation) relPath(file string) string {
	rel, err := filepath.Rel(op.Config.RepoRoot, file)
	if err != nil {
		return file
	}
	return rel
}
