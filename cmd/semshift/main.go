package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/semshift/cmd/semshift/commands"
	"github.com/walteh/semshift/cmd/semshift/opts"
	"github.com/walteh/semshift/pkg/status"
)

func main() {
	// Create root command
	rootCmd := &cobra.Command{
		Use:   "semshift",
		Short: "A tool for applying semantic migrations across a source tree",
		Long: `semshift applies ordered regex migration rules to a source tree,
snapshotting every file before its first mutation and generating a
rollback script so any run can be undone.`,
		SilenceUsage: true,
	}

	// Add shared flags
	addRootFlags(rootCmd)

	// Dependencies are built after flag parsing so --config and --debug
	// take effect
	ro := &opts.RootOpts{}
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		setupLogging()
		built, err := newRootOpts(cmd.Context())
		if err != nil {
			return err
		}
		*ro = *built
		return nil
	}

	// Add commands
	rootCmd.AddCommand(
		commands.NewMigrateCmd(ro),
		commands.NewScanCmd(ro),
		commands.NewRunsCmd(ro),
	)

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	ctx := logger.WithContext(context.Background())

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		status.NewUserLogger(ctx, nil).LogValidation(false, "Command failed", err)
		os.Exit(1)
	}
}
