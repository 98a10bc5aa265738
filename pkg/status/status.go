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

package status

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// 📊 Outcome is the terminal state of one file in a run
type Outcome int

const (
	OutcomeUnknown   Outcome = iota
	OutcomeUnchanged         // No rule fired; live file not rewritten
	OutcomeMutated           // At least one rule fired; file written
	OutcomeSkipped           // Marker threshold short-circuited the file
	OutcomeError             // Pipeline failed on this file
)

// String returns a string representation of Outcome
func (o Outcome) String() string {
	switch o {
	case OutcomeUnchanged:
		return "unchanged"
	case OutcomeMutated:
		return "mutated"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeError:
		return "error"
	default:
		return "unknown"
	}
}

// 📄 FileInfo tracks one file's outcome for status display
type FileInfo struct {
	Path    string  // Path relative to the repo root
	Outcome Outcome // Terminal state
	Fires   int     // Number of rules fired
	Error   error   // Any error associated with this file
}

// 🔧 Manager tracks per-file outcomes and run progress
type Manager struct {
	formatter FileFormatter

	mu    sync.RWMutex
	files map[string]FileInfo

	total     int
	processed int
}

// 🏭 NewManager creates a new status manager
func NewManager(formatter FileFormatter) *Manager {
	if formatter == nil {
		formatter = NewDefaultFileFormatter()
	}
	return &Manager{
		formatter: formatter,
		files:     map[string]FileInfo{},
	}
}

// 📈 StartRun begins progress tracking for a run over total files
func (m *Manager) StartRun(ctx context.Context, total int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.total = total
	m.processed = 0

	zerolog.Ctx(ctx).Debug().Int("total", total).Msg("run started")
}

// 📝 TrackFile records a file outcome and advances progress
func (m *Manager) TrackFile(ctx context.Context, info FileInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.files[info.Path] = info
	m.processed++

	zerolog.Ctx(ctx).Debug().
		Str("path", info.Path).
		Str("outcome", info.Outcome.String()).
		Int("fires", info.Fires).
		Msg(m.formatter.FormatProgress(m.processed, m.total))
}

// 📋 Files returns a copy of all tracked file infos
func (m *Manager) Files() map[string]FileInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]FileInfo, len(m.files))
	for k, v := range m.files {
		out[k] = v
	}
	return out
}

// 📊 Counts returns how many files landed in each outcome
func (m *Manager) Counts() map[Outcome]int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	counts := map[Outcome]int{}
	for _, info := range m.files {
		counts[info.Outcome]++
	}
	return counts
}

// Formatter exposes the formatter for user-facing output
func (m *Manager) Formatter() FileFormatter {
	return m.formatter
}
