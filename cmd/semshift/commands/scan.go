package commands

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/semshift/cmd/semshift/opts"
	"github.com/walteh/semshift/pkg/operation"
	"github.com/walteh/semshift/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// NewScanCmd creates a new scan command
func NewScanCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Report what a migration would change without writing anything",
		Long: `Scan runs the transform engine against every candidate file as a
dry run. The tree is never mutated and no snapshots are taken; only an
analysis report is written into the run directory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "scan").Logger().WithContext(ctx)

			op, err := operation.NewScanOperation(operation.Options{
				Config:    opts.Config,
				StatusMgr: opts.StatusMgr,
				UserLog:   opts.UserLog,
			})
			if err != nil {
				return errors.Errorf("creating scan operation: %w", err)
			}

			runner := operation.NewRunner(zerolog.Ctx(ctx))
			if err := runner.Run(ctx, op); err != nil {
				return errors.Errorf("running scan: %w", err)
			}

			res := op.Result
			counts := opts.StatusMgr.Counts()
			opts.UserLog.LogRunStage(fmt.Sprintf(
				"Scanned %d files: %d would change, %d unchanged, %d skipped (%d rule fires)",
				res.Scanned,
				counts[status.OutcomeMutated],
				counts[status.OutcomeUnchanged],
				counts[status.OutcomeSkipped],
				res.Summary.TotalFires))
			if res.ReportPath != "" {
				opts.UserLog.LogRunStage("Report: " + res.ReportPath)
			}

			return nil
		},
	}

	return cmd
}
