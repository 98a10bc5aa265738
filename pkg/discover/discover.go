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

// Package discover walks the configured search roots and yields candidate
// files for the mutation pipeline. Discovery is a pure filesystem read:
// it keeps no state between calls and is safe to restart.
package discover

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/semshift/pkg/config"
	"gitlab.com/tozd/go/errors"
)

// 🔍 Discoverer produces candidate file paths under a set of roots
type Discoverer struct {
	// RepoRoot anchors relative paths for ignore matching
	RepoRoot string

	// Roots are the absolute directories to walk. Missing roots are
	// skipped, not fatal.
	Roots []string

	// Extensions filters candidates (".ts", ".tsx", ...)
	Extensions []string

	// ExcludeSegments prunes any directory with one of these names
	ExcludeSegments []string

	// IgnorePatterns are doublestar globs matched against the path
	// relative to RepoRoot
	IgnorePatterns []string
}

// 🏭 FromConfig builds a discoverer from the run configuration
func FromConfig(cfg *config.Config) *Discoverer {
	return &Discoverer{
		RepoRoot:        cfg.RepoRoot,
		Roots:           cfg.AbsSearchRoots(),
		Extensions:      cfg.Extensions,
		ExcludeSegments: cfg.ExcludeSegments,
		IgnorePatterns:  cfg.IgnorePatterns,
	}
}

// 🚶 Walk calls fn for each candidate file, in walk order. Returning an
// error from fn stops the walk and propagates the error.
func (d *Discoverer) Walk(ctx context.Context, fn func(path string) error) error {
	logger := zerolog.Ctx(ctx)

	for _, root := range d.Roots {
		info, err := os.Stat(root)
		if err != nil {
			// Missing root is a skip, not a failure
			logger.Debug().Str("root", root).Msg("search root missing, skipping")
			continue
		}
		if !info.IsDir() {
			logger.Debug().Str("root", root).Msg("search root is not a directory, skipping")
			continue
		}

		err = filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
			if err != nil {
				return errors.Errorf("walking %s: %w", path, err)
			}

			if entry.IsDir() {
				if d.excluded(entry.Name()) {
					return filepath.SkipDir
				}
				return nil
			}

			ok, err := d.candidate(path)
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}

			return fn(path)
		})
		if err != nil {
			return errors.Errorf("walking root %s: %w", root, err)
		}
	}

	return nil
}

// 📋 Files collects all candidates into a slice
func (d *Discoverer) Files(ctx context.Context) ([]string, error) {
	var files []string
	err := d.Walk(ctx, func(path string) error {
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// candidate decides whether a single file path passes all filters
func (d *Discoverer) candidate(path string) (bool, error) {
	if !d.matchesExtension(path) {
		return false, nil
	}

	// Exclusion segments can appear anywhere in the path, not only at
	// directory-prune points (roots themselves may sit under one)
	for _, seg := range strings.Split(filepath.ToSlash(path), "/") {
		if d.excluded(seg) {
			return false, nil
		}
	}

	rel, err := filepath.Rel(d.RepoRoot, path)
	if err != nil {
		return false, errors.Errorf("relativizing %s: %w", path, err)
	}

	for _, pattern := range d.IgnorePatterns {
		matched, err := doublestar.Match(pattern, filepath.ToSlash(rel))
		if err != nil {
			return false, errors.Errorf("matching ignore pattern %q: %w", pattern, err)
		}
		if matched {
			return false, nil
		}
	}

	return true, nil
}

func (d *Discoverer) matchesExtension(path string) bool {
	if len(d.Extensions) == 0 {
		return true
	}
	ext := filepath.Ext(path)
	for _, want := range d.Extensions {
		if ext == want {
			return true
		}
	}
	return false
}

func (d *Discoverer) excluded(name string) bool {
	for _, seg := range d.ExcludeSegments {
		if name == seg {
			return true
		}
	}
	return false
}
