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

package discover

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 🧪 writeFile creates a file with parent directories
func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("content"), 0644))
}

// 🧪 testCtx returns a context with a test logger attached
func testCtx(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

// 🧪 TestDiscoveryFilters tests extension and exclusion filtering
func TestDiscoveryFilters(t *testing.T) {
	root := t.TempDir()

	writeFile(t, filepath.Join(root, "src", "node_modules", "x.ts"))
	writeFile(t, filepath.Join(root, "src", "dist", "y.ts"))
	writeFile(t, filepath.Join(root, "src", "z.ts"))
	writeFile(t, filepath.Join(root, "src", "readme.md"))

	d := &Discoverer{
		RepoRoot:        root,
		Roots:           []string{filepath.Join(root, "src")},
		Extensions:      []string{".ts", ".tsx"},
		ExcludeSegments: []string{"node_modules", "dist", "build", ".next"},
	}

	files, err := d.Files(testCtx(t))
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Join(root, "src", "z.ts")}, files,
		"only src/z.ts should survive the filters")
}

// 🧪 TestDiscoveryMissingRoot tests that a missing root is skipped silently
func TestDiscoveryMissingRoot(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "apps", "a.ts"))

	d := &Discoverer{
		RepoRoot:   root,
		Roots:      []string{filepath.Join(root, "packages"), filepath.Join(root, "apps")},
		Extensions: []string{".ts"},
	}

	files, err := d.Files(testCtx(t))
	require.NoError(t, err, "missing root must not be fatal")
	assert.Equal(t, []string{filepath.Join(root, "apps", "a.ts")}, files)
}

// 🧪 TestDiscoveryIgnorePatterns tests doublestar ignore globs
func TestDiscoveryIgnorePatterns(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "keep.ts"))
	writeFile(t, filepath.Join(root, "src", "gen", "skip.generated.ts"))

	d := &Discoverer{
		RepoRoot:       root,
		Roots:          []string{filepath.Join(root, "src")},
		Extensions:     []string{".ts"},
		IgnorePatterns: []string{"**/*.generated.ts"},
	}

	files, err := d.Files(testCtx(t))
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "src", "keep.ts")}, files)
}

// 🧪 TestDiscoveryRestartable tests that discovery holds no state between calls
func TestDiscoveryRestartable(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "a.ts"))

	d := &Discoverer{
		RepoRoot:   root,
		Roots:      []string{filepath.Join(root, "src")},
		Extensions: []string{".ts"},
	}

	first, err := d.Files(testCtx(t))
	require.NoError(t, err)
	second, err := d.Files(testCtx(t))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
