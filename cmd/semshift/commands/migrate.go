package commands

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/semshift/cmd/semshift/opts"
	"github.com/walteh/semshift/pkg/operation"
	"github.com/walteh/semshift/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// NewMigrateCmd creates a new migrate command
func NewMigrateCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the configured migration rules to the tree",
		Long: `Migrate runs the full mutation pipeline for one phase.
It will:
1. Discover candidate files under the configured search roots
2. Snapshot each file into a timestamped run directory before its first write
3. Apply the ordered rule list and write back only changed files
4. Write a markdown report and a rollback script into the run directory`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "migrate").Logger().WithContext(ctx)

			op, err := operation.NewMigrateOperation(operation.Options{
				Config:    opts.Config,
				StatusMgr: opts.StatusMgr,
				UserLog:   opts.UserLog,
			})
			if err != nil {
				return errors.Errorf("creating migrate operation: %w", err)
			}

			runner := operation.NewRunner(zerolog.Ctx(ctx))
			if err := runner.Run(ctx, op); err != nil {
				return errors.Errorf("running migration: %w", err)
			}

			res := op.Result
			counts := opts.StatusMgr.Counts()
			opts.UserLog.LogRunStage(fmt.Sprintf(
				"Scanned %d files: %d mutated, %d unchanged, %d skipped (%d rule fires). Run directory: %s",
				res.Scanned,
				counts[status.OutcomeMutated],
				counts[status.OutcomeUnchanged],
				counts[status.OutcomeSkipped],
				res.Summary.TotalFires,
				res.RunDir))

			// Skipped files are past the marker threshold and need a human
			var skipped []string
			for path, info := range opts.StatusMgr.Files() {
				if info.Outcome == status.OutcomeSkipped {
					skipped = append(skipped, path)
				}
			}
			sort.Strings(skipped)
			for _, path := range skipped {
				opts.UserLog.LogValidation(false, "Needs manual review (marker threshold exceeded): "+path, nil)
			}

			if res.RollbackPath != "" {
				opts.UserLog.LogRunStage("To undo: bash " + res.RollbackPath)
			}

			return nil
		},
	}

	return cmd
}
