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

package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCtx(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

// 🧪 TestSnapshotMirrorsRelativePath tests snapshot placement and content
func TestSnapshotMirrorsRelativePath(t *testing.T) {
	ctx := testCtx(t)
	repo := t.TempDir()
	runDir := filepath.Join(t.TempDir(), "phase1_20250101_120000")

	src := filepath.Join(repo, "packages", "core", "a.ts")
	require.NoError(t, os.MkdirAll(filepath.Dir(src), 0755))
	require.NoError(t, os.WriteFile(src, []byte("original"), 0644))

	m, err := NewManagerAt(ctx, repo, runDir)
	require.NoError(t, err)

	require.NoError(t, m.Snapshot(ctx, src))

	got, err := os.ReadFile(filepath.Join(runDir, "packages", "core", "a.ts"))
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), got, "snapshot must be byte-identical to the pre-run content")
}

// 🧪 TestSnapshotFirstWriteWins tests that re-snapshotting never overwrites
func TestSnapshotFirstWriteWins(t *testing.T) {
	ctx := testCtx(t)
	repo := t.TempDir()
	runDir := filepath.Join(t.TempDir(), "run")

	src := filepath.Join(repo, "a.ts")
	require.NoError(t, os.WriteFile(src, []byte("before"), 0644))

	m, err := NewManagerAt(ctx, repo, runDir)
	require.NoError(t, err)
	require.NoError(t, m.Snapshot(ctx, src))

	// Mutate the live file, then snapshot again
	require.NoError(t, os.WriteFile(src, []byte("after"), 0644))
	require.NoError(t, m.Snapshot(ctx, src))

	got, err := os.ReadFile(filepath.Join(runDir, "a.ts"))
	require.NoError(t, err)
	assert.Equal(t, []byte("before"), got, "second snapshot call must be a no-op")
}

// 🧪 TestSnapshotMissingSourceFails tests that an unreadable source is fatal
func TestSnapshotMissingSourceFails(t *testing.T) {
	ctx := testCtx(t)
	repo := t.TempDir()

	m, err := NewManagerAt(ctx, repo, filepath.Join(t.TempDir(), "run"))
	require.NoError(t, err)

	err = m.Snapshot(ctx, filepath.Join(repo, "missing.ts"))
	require.Error(t, err, "snapshot of a missing file must fail, not proceed")
}

// 🧪 TestSnapshottedAndRestore tests the existence check and restore path
func TestSnapshottedAndRestore(t *testing.T) {
	ctx := testCtx(t)
	repo := t.TempDir()

	src := filepath.Join(repo, "a.ts")
	require.NoError(t, os.WriteFile(src, []byte("pre"), 0644))

	m, err := NewManagerAt(ctx, repo, filepath.Join(t.TempDir(), "run"))
	require.NoError(t, err)

	ok, err := m.Snapshotted(src)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Snapshot(ctx, src))

	ok, err = m.Snapshotted(src)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, os.WriteFile(src, []byte("mutated"), 0644))
	require.NoError(t, m.Restore(ctx, src))

	got, err := os.ReadFile(src)
	require.NoError(t, err)
	assert.Equal(t, []byte("pre"), got, "restore must bring back pre-run bytes")
}
