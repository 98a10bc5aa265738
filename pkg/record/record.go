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

// Package record accumulates per-file, per-rule change counts during a
// run. Aggregation is purely in-memory; nothing is written until a
// report asks for a summary.
package record

import (
	"sort"
	"sync"

	"github.com/walteh/semshift/pkg/rules"
)

// 📄 FileTouches is one file's change record
type FileTouches struct {
	Path    string   // Path relative to the repo root
	Fires   int      // Number of rules that fired
	Applied []string // Descriptions of the rules that fired
}

// 📊 Summary is the aggregated view of a run
type Summary struct {
	FilesTouched int            // Distinct files with at least one fire
	TotalFires   int            // Total rule fires across all files
	Files        []FileTouches  // Sorted by descending fire count, then path
	ByCategory   map[string]int // Rule fires grouped by rule category
}

// 🗒️ Recorder accumulates change records for one run
type Recorder struct {
	mu         sync.Mutex
	categories map[string]string // rule description -> category
	touches    map[string]*FileTouches
}

// 🏭 New creates a recorder for the given rule list
func New(ruleList []rules.Rule) *Recorder {
	categories := make(map[string]string, len(ruleList))
	for _, r := range ruleList {
		categories[r.Description] = r.Category
	}
	return &Recorder{
		categories: categories,
		touches:    map[string]*FileTouches{},
	}
}

// 📝 Record notes which rule descriptions fired for a file. Calls with
// no applied rules are ignored.
func (r *Recorder) Record(path string, applied []string) {
	if len(applied) == 0 {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.touches[path]
	if !ok {
		t = &FileTouches{Path: path}
		r.touches[path] = t
	}
	t.Applied = append(t.Applied, applied...)
	t.Fires += len(applied)
}

// 📊 Summary aggregates everything recorded so far
func (r *Recorder) Summary() *Summary {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := &Summary{
		ByCategory: map[string]int{},
	}

	for _, t := range r.touches {
		s.FilesTouched++
		s.TotalFires += t.Fires
		s.Files = append(s.Files, *t)
		for _, desc := range t.Applied {
			category := r.categories[desc]
			if category == "" {
				category = "uncategorized"
			}
			s.ByCategory[category]++
		}
	}

	sort.Slice(s.Files, func(i, j int) bool {
		if s.Files[i].Fires != s.Files[j].Fires {
			return s.Files[i].Fires > s.Files[j].Fires
		}
		return s.Files[i].Path < s.Files[j].Path
	})

	return s
}
