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
	"bytes"
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/walteh/semshift/pkg/discover"
	"github.com/walteh/semshift/pkg/engine"
	"github.com/walteh/semshift/pkg/record"
	"github.com/walteh/semshift/pkg/report"
	"github.com/walteh/semshift/pkg/rollback"
	"github.com/walteh/semshift/pkg/rules"
	"github.com/walteh/semshift/pkg/snapshot"
	"github.com/walteh/semshift/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// 🔄 NewMigrateOperation creates the mutating pipeline operation
func NewMigrateOperation(opts Options) (*MigrateOperation, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return &MigrateOperation{
		BaseOperation: NewBaseOperation(opts),
	}, nil
}

// 🔄 MigrateOperation runs discover → snapshot → transform → write →
// record → report → rollback for one phase. Files are processed one at
// a time, fully, before the next is considered.
type MigrateOperation struct {
	BaseOperation

	// Result is populated after a successful Execute
	Result *RunResult
}

// 🏃 Execute runs the migration
func (op *MigrateOperation) Execute(ctx context.Context) error {
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
	logger.Debug().Int("count", len(files)).Msg("candidate files discovered")

	var snapMgr *snapshot.Manager
	if op.RunDir != "" {
		snapMgr, err = snapshot.NewManagerAt(ctx, cfg.RepoRoot, op.RunDir)
	} else {
		snapMgr, err = snapshot.NewManager(ctx, cfg.RepoRoot, cfg.BackupRoot, cfg.Phase)
	}
	if err != nil {
		return errors.Errorf("creating snapshot manager: %w", err)
	}

	eng := engine.New(cfg.Marker, cfg.SkipThresholdOrDefault())
	rec := record.New(ruleList)

	op.logStage("Phase " + cfg.Phase + ": applying " + cfg.RuleSet + " rules")
	op.StatusMgr.StartRun(ctx, len(files))

	for _, file := range files {
		if err := op.processFile(ctx, file, ruleList, eng, snapMgr, rec); err != nil {
			op.trackFile(ctx, status.FileInfo{
				Path:    op.relPath(file),
				Outcome: status.OutcomeError,
				Error:   err,
			})
			return errors.Errorf("processing file %s: %w", file, err)
		}
	}

	summary := rec.Summary()

	// Reports are best-effort: a failed report never rolls back
	// completed mutations
	reportPath, err := report.Write(ctx, snapMgr.RunDir(), report.Params{
		Phase:   cfg.Phase,
		Scanned: len(files),
	}, summary)
	if err != nil {
		logger.Warn().Err(err).Msg("writing report failed")
		reportPath = ""
	}

	rollbackPath, err := rollback.Generate(ctx, snapMgr.RunDir(), cfg.RepoRoot, nil)
	if err != nil {
		return errors.Errorf("generating rollback script: %w", err)
	}

	op.Result = &RunResult{
		RunDir:       snapMgr.RunDir(),
		ReportPath:   reportPath,
		RollbackPath: rollbackPath,
		Scanned:      len(files),
		Summary:      summary,
	}

	op.logStage("Phase " + cfg.Phase + " complete")
	return nil
}

// 📄 processFile takes one file through the full state machine:
// UNTOUCHED → SNAPSHOTTED → (UNTOUCHED-EFFECTIVELY | MUTATED-WRITTEN).
// The snapshot is captured strictly before the write; if no rule fires
// the live file is never rewritten.
func (op *MigrateOperation) processFile(ctx context.Context, file string, ruleList []rules.Rule, eng *engine.Engine, snapMgr *snapshot.Manager, rec *record.Recorder) error {
	info, err := os.Stat(file)
	if err != nil {
		return errors.Errorf("stating file: %w", err)
	}

	content, err := os.ReadFile(file)
	if err != nil {
		return errors.Errorf("reading file: %w", err)
	}

	result, err := eng.Transform(ctx, content, ruleList)
	if err != nil {
		// Partial application of an ordered rule list could leave a
		// file inconsistent, so a transform error fails the whole run
		return errors.Errorf("transforming content: %w", err)
	}

	rel := op.relPath(file)

	if result.Skipped {
		op.trackFile(ctx, status.FileInfo{Path: rel, Outcome: status.OutcomeSkipped})
		return nil
	}

	if !result.WasModified() || bytes.Equal(result.ModifiedContent, content) {
		op.trackFile(ctx, status.FileInfo{Path: rel, Outcome: status.OutcomeUnchanged})
		return nil
	}

	// Snapshot must exist on disk before the first write; a snapshot
	// failure aborts this file's mutation entirely
	if err := snapMgr.Snapshot(ctx, file); err != nil {
		return errors.Errorf("snapshotting before write: %w", err)
	}

	if err := os.WriteFile(file, result.ModifiedContent, info.Mode().Perm()); err != nil {
		return errors.Errorf("writing transformed file: %w", err)
	}

	rec.Record(rel, result.Applied)
	op.trackFile(ctx, status.FileInfo{
		Path:    rel,
		Outcome: status.OutcomeMutated,
		Fires:   len(result.Applied),
	})

	return nil
}

func (op *MigrateOperation) trackFile(ctx context.Context, info status.FileInfo) {
	op.StatusMgr.TrackFile(ctx, info)
	op.logFile(info)
}

func (op *MigrateOperation) relPath(file string) string {
	rel, err := filepath.Rel(op.Config.RepoRoot, file)
	if err != nil {
		return file
	}
	return rel
}
