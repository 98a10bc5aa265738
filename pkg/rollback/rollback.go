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

// Package rollback emits a standalone shell script that restores every
// touched file from its snapshot. The script operates purely on the run
// directory contents: it works even after the migration process is
// gone, because the snapshot manager's first-write-wins rule guarantees
// the run directory is a complete pre-run image.
package rollback

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// ScriptFilename is the rollback script written at the run directory root
const ScriptFilename = "rollback.sh"

// 📝 Generate writes rollback.sh into runDir and returns its path.
// createdFiles lists repo-root-relative paths of files that were newly
// created (not modified) during the run; the script removes them. The
// script is idempotent: copies overwrite and removals are forced.
func Generate(ctx context.Context, runDir, repoRoot string, createdFiles []string) (string, error) {
	logger := zerolog.Ctx(ctx)

	absRunDir, err := filepath.Abs(runDir)
	if err != nil {
		return "", errors.Errorf("resolving run directory: %w", err)
	}
	absRepoRoot, err := filepath.Abs(repoRoot)
	if err != nil {
		return "", errors.Errorf("resolving repo root: %w", err)
	}

	// Every top-level directory under the run dir mirrors a tree under
	// the repo root. Markdown reports and the script itself live at the
	// run dir root and are not restored.
	entries, err := os.ReadDir(absRunDir)
	if err != nil {
		return "", errors.Errorf("reading run directory: %w", err)
	}

	var dirs []string
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, entry.Name())
		}
	}
	sort.Strings(dirs)

	var b strings.Builder
	b.WriteString("#!/bin/bash\n")
	b.WriteString(fmt.Sprintf("# Rollback script for %s\n", filepath.Base(absRunDir)))
	b.WriteString(fmt.Sprintf("# Generated: %s\n\n", time.Now().Format("2006-01-02 15:04:05")))
	b.WriteString("set -e\n\n")
	b.WriteString(fmt.Sprintf("BACKUP_DIR=%q\n", absRunDir))
	b.WriteString(fmt.Sprintf("REPO_ROOT=%q\n\n", absRepoRoot))
	b.WriteString("echo \"Rolling back migration...\"\n")
	b.WriteString("echo \"Backup source: $BACKUP_DIR\"\n")
	b.WriteString("echo \"Target: $REPO_ROOT\"\n\n")

	for _, dir := range dirs {
		b.WriteString(fmt.Sprintf("if [ -d \"$BACKUP_DIR/%s\" ]; then\n", dir))
		b.WriteString(fmt.Sprintf("    echo \"  Restoring %s/...\"\n", dir))
		b.WriteString(fmt.Sprintf("    mkdir -p \"$REPO_ROOT/%s\"\n", dir))
		b.WriteString(fmt.Sprintf("    cp -r \"$BACKUP_DIR/%s/.\" \"$REPO_ROOT/%s/\"\n", dir, dir))
		b.WriteString("fi\n\n")
	}

	if len(createdFiles) > 0 {
		b.WriteString("# Remove files created during the run\n")
		sorted := append([]string(nil), createdFiles...)
		sort.Strings(sorted)
		for _, f := range sorted {
			b.WriteString(fmt.Sprintf("rm -f \"$REPO_ROOT/%s\"\n", filepath.ToSlash(f)))
		}
		b.WriteString("\n")
	}

	b.WriteString("echo \"Rollback complete\"\n")

	path := filepath.Join(absRunDir, ScriptFilename)
	if err := os.WriteFile(path, []byte(b.String()), 0755); err != nil {
		return "", errors.Errorf("writing rollback script: %w", err)
	}

	logger.Debug().Str("path", path).Msg("rollback script written")
	return path, nil
}
