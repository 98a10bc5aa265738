package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/semshift/cmd/semshift/opts"
	"github.com/walteh/semshift/pkg/config"
	"github.com/walteh/semshift/pkg/status"
	"gitlab.com/tozd/go/errors"
)

var (
	// Flags
	configFile string
	debug      bool
)

// newRootOpts creates a new rootOpts with initialized dependencies
func newRootOpts(ctx context.Context) (*opts.RootOpts, error) {
	// The status manager and user logger share one formatter so per-file
	// lines and progress render consistently
	statusMgr := status.NewManager(status.NewDefaultFileFormatter())
	userLogger := status.NewUserLogger(ctx, statusMgr.Formatter())

	// Load config
	cfg, err := config.Load(ctx, configFile)
	if err != nil {
		return nil, errors.Errorf("loading config: %w", err)
	}

	// Snapshot paths are stored relative to the repo root, so it has to
	// be absolute before any operation runs
	absRoot, err := filepath.Abs(cfg.RepoRoot)
	if err != nil {
		return nil, errors.Errorf("resolving repo root: %w", err)
	}
	cfg.RepoRoot = absRoot

	return &opts.RootOpts{
		Config:    cfg,
		StatusMgr: statusMgr,
		UserLog:   userLogger,
	}, nil
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", ".semshift.yaml", "config file path")
	cmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")
}

// setupLogging configures zerolog based on flags
func setupLogging() {
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &log
}
