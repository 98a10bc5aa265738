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

// Package gpu collects GPU telemetry from the NVML binding with a
// fallback to parsing nvidia-smi output. When no source is available
// the report degrades to a zero count with an error field rather than
// a hard failure.
package gpu

import (
	"context"

	"github.com/rs/zerolog"
)

// 📊 Device is one GPU's telemetry snapshot. Pointer fields are null in
// the JSON output when the source could not read them.
type Device struct {
	Index                    int      `json:"index"`
	Name                     string   `json:"name"`
	MemoryTotalMB            uint64   `json:"memory_total_mb"`
	MemoryUsedMB             uint64   `json:"memory_used_mb"`
	MemoryFreeMB             uint64   `json:"memory_free_mb"`
	UtilizationGPUPercent    *int     `json:"utilization_gpu_percent"`
	UtilizationMemoryPercent *int     `json:"utilization_memory_percent"`
	TemperatureC             *int     `json:"temperature_c"`
	PowerDrawW               *float64 `json:"power_draw_w"`
	PowerLimitW              *float64 `json:"power_limit_w"`
	ComputeCapability        string   `json:"compute_capability,omitempty"`
}

// 📦 Report is the detailed JSON document emitted by the utility
type Report struct {
	GPUs  []Device `json:"gpus"`
	Count int      `json:"count"`
	Error string   `json:"error,omitempty"`
}

// 📦 SimpleReport is the reduced document for --simple mode
type SimpleReport struct {
	GPUCount      int      `json:"gpu_count"`
	GPUsAvailable bool     `json:"gpus_available"`
	GPUNames      []string `json:"gpu_names"`
}

// Simple reduces a report to the --simple shape
func (r *Report) Simple() SimpleReport {
	names := make([]string, 0, len(r.GPUs))
	for _, d := range r.GPUs {
		names = append(names, d.Name)
	}
	return SimpleReport{
		GPUCount:      r.Count,
		GPUsAvailable: r.Count > 0,
		GPUNames:      names,
	}
}

// 🔌 Collector is one telemetry source
type Collector interface {
	// Name identifies the source in logs and error messages
	Name() string

	// Collect queries the source. An error means the source is
	// unavailable, not that there are zero GPUs.
	Collect(ctx context.Context) (*Report, error)
}

// 🎯 Collect tries each collector in order and returns the first report
// with at least one device. When every source fails or reports zero
// devices, the result carries count 0 and an error string; this is
// graceful degradation, not a failure.
func Collect(ctx context.Context, collectors ...Collector) *Report {
	logger := zerolog.Ctx(ctx)

	lastError := "no telemetry source available"
	for _, c := range collectors {
		r, err := c.Collect(ctx)
		if err != nil {
			logger.Debug().Err(err).Str("source", c.Name()).Msg("telemetry source unavailable")
			lastError = c.Name() + ": " + err.Error()
			continue
		}
		if r.Count > 0 {
			return r
		}
		if r.Error != "" {
			lastError = r.Error
		}
	}

	return &Report{GPUs: []Device{}, Count: 0, Error: lastError}
}
