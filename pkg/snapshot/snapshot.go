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

// Package snapshot captures pre-mutation copies of files into a
// timestamp-scoped run directory. The run directory mirrors paths
// relative to the repo root, so it is a complete pre-run image of every
// touched file and a standalone source for rollback.
package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// timestampLayout matches the run directory naming of the original
// migration tooling: <phase>_YYYYMMDD_HHMMSS.
const timestampLayout = "20060102_150405"

// 💾 Manager copies pre-transform file bytes into a run directory.
// First write wins: a file is snapshotted at most once per run, so the
// snapshot always holds the pre-run content even if a file is visited
// twice.
type Manager struct {
	repoRoot string
	runDir   string
}

// 🏭 NewManager creates a run directory under backupRoot and returns a
// manager scoped to it. The timestamp in the directory name keeps
// repeated invocations from colliding on backup storage.
func NewManager(ctx context.Context, repoRoot, backupRoot, phase string) (*Manager, error) {
	runDir := filepath.Join(backupRoot, phase+"_"+time.Now().Format(timestampLayout))
	return NewManagerAt(ctx, repoRoot, runDir)
}

// 🏭 NewManagerAt creates a manager for an explicit run directory.
// Used by tests and by rollback generation against an existing run.
func NewManagerAt(ctx context.Context, repoRoot, runDir string) (*Manager, error) {
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return nil, errors.Errorf("creating run directory: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Str("run_dir", runDir).Msg("run directory ready")

	return &Manager{
		repoRoot: repoRoot,
		runDir:   runDir,
	}, nil
}

// 📁 RunDir returns the run directory for this manager
func (m *Manager) RunDir() string {
	return m.runDir
}

// 💾 Snapshot copies path's current bytes to the run directory, creating
// parent directories as needed. A second call for the same path in the
// same run is a no-op. Any I/O failure is fatal for the file: the caller
// must not write to it without a snapshot on disk.
func (m *Manager) Snapshot(ctx context.Context, path string) error {
	logger := zerolog.Ctx(ctx)

	backupPath, err := m.backupPath(path)
	if err != nil {
		return err
	}

	// First write wins
	if _, err := os.Stat(backupPath); err == nil {
		logger.Debug().Str("path", path).Msg("snapshot already captured")
		return nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return errors.Errorf("stating source file: %w", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return errors.Errorf("reading source file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(backupPath), 0755); err != nil {
		return errors.Errorf("creating snapshot directories: %w", err)
	}

	if err := os.WriteFile(backupPath, content, info.Mode().Perm()); err != nil {
		return errors.Errorf("writing snapshot: %w", err)
	}

	logger.Debug().Str("path", path).Str("snapshot", backupPath).Msg("snapshot captured")
	return nil
}

// 🔍 Snapshotted reports whether a snapshot for path exists in this run
func (m *Manager) Snapshotted(path string) (bool, error) {
	backupPath, err := m.backupPath(path)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(backupPath); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.Errorf("stating snapshot: %w", err)
	}
	return true, nil
}

// ♻️ Restore copies the snapshot for path back over the live file
func (m *Manager) Restore(ctx context.Context, path string) error {
	backupPath, err := m.backupPath(path)
	if err != nil {
		return err
	}

	content, err := os.ReadFile(backupPath)
	if err != nil {
		return errors.Errorf("reading snapshot: %w", err)
	}

	if err := os.WriteFile(path, content, 0644); err != nil {
		return errors.Errorf("restoring file: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Str("path", path).Msg("restored from snapshot")
	return nil
}

func (m *Manager) backupPath(path string) (string, error) {
	rel, err := filepath.Rel(m.repoRoot, path)
	if err != nil {
		return "", errors.Errorf("relativizing %s: %w", path, err)
	}
	return filepath.Join(m.runDir, rel), nil
}
