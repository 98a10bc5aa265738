package commands

import (
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/walteh/semshift/cmd/semshift/opts"
	"github.com/walteh/semshift/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

// NewRunsCmd creates a new runs command
func NewRunsCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List past runs and their rollback status",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			runs, err := operation.ListRuns(ctx, opts.Config.BackupRoot)
			if err != nil {
				return errors.Errorf("listing runs: %w", err)
			}

			if len(runs) == 0 {
				opts.UserLog.LogRunStage("No runs found under " + opts.Config.BackupRoot)
				return nil
			}

			data := pterm.TableData{{"RUN", "PHASE", "TIMESTAMP", "SNAPSHOTS", "ROLLBACK"}}
			for _, run := range runs {
				ts := "unknown"
				if !run.Timestamp.IsZero() {
					ts = run.Timestamp.Format("2006-01-02 15:04:05")
				}
				rollback := "no"
				if run.HasRollback {
					rollback = "yes"
				}
				data = append(data, []string{
					run.Name, run.Phase, ts, strconv.Itoa(run.Snapshots), rollback,
				})
			}

			return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
		},
	}

	return cmd
}
