// Package operation provides the pipeline operations that drive a
// migration run: migrate (mutate files), scan (dry-run analysis).
package operation

import (
	"context"

	"github.com/walteh/semshift/pkg/config"
	"github.com/walteh/semshift/pkg/record"
	"github.com/walteh/semshift/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// 🎯 Operation is a single executable pipeline operation
type Operation interface {
	// Execute runs the operation to completion
	Execute(ctx context.Context) error
}

// 🔧 Options contains the shared dependencies for operations
type Options struct {
	// Config is the run configuration
	Config *config.Config

	// StatusMgr tracks per-file outcomes and progress
	StatusMgr *status.Manager

	// UserLog emits operator-facing console feedback
	UserLog *status.UserLogger

	// RunDir overrides the timestamped run directory. Tests use this
	// for deterministic snapshot locations; leave empty in production.
	RunDir string
}

// ✅ validate checks that the required dependencies are present
func (o Options) validate() error {
	if o.Config == nil {
		return errors.Errorf("config is required")
	}
	if o.StatusMgr == nil {
		return errors.Errorf("status manager is required")
	}
	return nil
}

// 📦 BaseOperation carries the shared dependencies
type BaseOperation struct {
	Config    *config.Config
	StatusMgr *status.Manager
	UserLog   *status.UserLogger
	RunDir    string
}

// 🏭 NewBaseOperation creates a base operation from options
func NewBaseOperation(opts Options) BaseOperation {
	return BaseOperation{
		Config:    opts.Config,
		StatusMgr: opts.StatusMgr,
		UserLog:   opts.UserLog,
		RunDir:    opts.RunDir,
	}
}

// logStage forwards a stage description to the user logger when present
func (op *BaseOperation) logStage(description string) {
	if op.UserLog != nil {
		op.UserLog.LogRunStage(description)
	}
}

// logFile forwards a file outcome to the user logger when present
func (op *BaseOperation) logFile(info status.FileInfo) {
	if op.UserLog != nil {
		op.UserLog.LogFileOutcome(info)
	}
}

// 📊 RunResult summarizes a completed run
type RunResult struct {
	// RunDir is the snapshot/report directory for this run
	RunDir string

	// ReportPath is the markdown report location, empty if the report
	// failed to write (reports are best-effort)
	ReportPath string

	// RollbackPath is the generated rollback script, empty for dry runs
	RollbackPath string

	// Scanned is the number of candidate files considered
	Scanned int

	// Summary aggregates the per-file change records
	Summary *record.Summary
}
