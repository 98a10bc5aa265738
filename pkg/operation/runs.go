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
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📁 RunInfo describes one run directory under the backup root
type RunInfo struct {
	// Name is the run directory name (<phase>_<YYYYMMDD_HHMMSS>)
	Name string

	// Phase is the phase portion of the name
	Phase string

	// Timestamp is parsed from the directory name; zero if unparseable
	Timestamp time.Time

	// Snapshots counts the files captured in this run
	Snapshots int

	// HasRollback is true when the run carries a rollback script
	HasRollback bool
}

// 📋 ListRuns enumerates run directories under backupRoot, newest first.
// A missing backup root yields an empty list.
func ListRuns(ctx context.Context, backupRoot string) ([]RunInfo, error) {
	logger := zerolog.Ctx(ctx)

	entries, err := os.ReadDir(backupRoot)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug().Str("backup_root", backupRoot).Msg("backup root missing")
			return nil, nil
		}
		return nil, errors.Errorf("reading backup root: %w", err)
	}

	var runs []RunInfo
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		info := RunInfo{Name: entry.Name()}
		info.Phase, info.Timestamp = splitRunName(entry.Name())

		runDir := filepath.Join(backupRoot, entry.Name())
		count, hasRollback, err := inspectRun(runDir)
		if err != nil {
			return nil, errors.Errorf("inspecting run %s: %w", entry.Name(), err)
		}
		info.Snapshots = count
		info.HasRollback = hasRollback

		runs = append(runs, info)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})

	return runs, nil
}

// splitRunName splits <phase>_<YYYYMMDD_HHMMSS> into its parts
func splitRunName(name string) (string, time.Time) {
	parts := strings.Split(name, "_")
	if len(parts) < 3 {
		return name, time.Time{}
	}

	stamp := parts[len(parts)-2] + "_" + parts[len(parts)-1]
	ts, err := time.Parse(timestampLayout, stamp)
	if err != nil {
		return name, time.Time{}
	}

	return strings.Join(parts[:len(parts)-2], "_"), ts
}

const timestampLayout = "20060102_150405"

// inspectRun counts snapshot files and checks for a rollback script
func inspectRun(runDir string) (int, bool, error) {
	count := 0
	hasRollback := false

	err := filepath.WalkDir(runDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(runDir, path)
		if err != nil {
			return err
		}

		// Root-level artifacts are reports and the rollback script,
		// not snapshots
		if !strings.ContainsRune(filepath.ToSlash(rel), '/') {
			if entry.Name() == "rollback.sh" {
				hasRollback = true
			}
			return nil
		}

		count++
		return nil
	})
	if err != nil {
		return 0, false, err
	}

	return count, hasRollback, nil
}
