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

package gpu

import (
	"context"
	"os/exec"
	"strconv"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// smiQuery is the nvidia-smi field list, in output column order
const smiQuery = "index,name,memory.total,memory.used,memory.free,utilization.gpu,utilization.memory,temperature.gpu,power.draw,power.limit"

// 🔌 Executer abstracts running the external command
type Executer interface {
	Execute(ctx context.Context, name string, arg ...string) ([]byte, error)
}

// CmdExecutor runs commands with os/exec
type CmdExecutor struct{}

// Execute implements Executer
func (c *CmdExecutor) Execute(ctx context.Context, name string, arg ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, arg...).Output()
}

// 🖥️ SMICollector reads telemetry by parsing nvidia-smi CSV output
type SMICollector struct {
	exec Executer
}

// 🏭 NewSMICollector creates a collector using the real command
func NewSMICollector() *SMICollector {
	return &SMICollector{exec: &CmdExecutor{}}
}

// 🏭 NewSMICollectorWithExecuter creates a collector with a custom executer
func NewSMICollectorWithExecuter(e Executer) *SMICollector {
	return &SMICollector{exec: e}
}

// Name implements Collector
func (c *SMICollector) Name() string {
	return "nvidia-smi"
}

// 📊 Collect implements Collector
func (c *SMICollector) Collect(ctx context.Context) (*Report, error) {
	out, err := c.exec.Execute(ctx, "nvidia-smi",
		"--query-gpu="+smiQuery,
		"--format=csv,noheader,nounits")
	if err != nil {
		return nil, errors.Errorf("running nvidia-smi: %w", err)
	}

	report := &Report{GPUs: []Device{}}
	for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		device, err := parseSMILine(line)
		if err != nil {
			return nil, errors.Errorf("parsing nvidia-smi output: %w", err)
		}
		report.GPUs = append(report.GPUs, device)
	}

	report.Count = len(report.GPUs)
	return report, nil
}

// parseSMILine parses one CSV row of the query above
func parseSMILine(line string) (Device, error) {
	parts := strings.Split(line, ",")
	if len(parts) < 10 {
		return Device{}, errors.Errorf("expected 10 fields, got %d: %q", len(parts), line)
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	index, err := strconv.Atoi(parts[0])
	if err != nil {
		return Device{}, errors.Errorf("parsing index: %w", err)
	}

	device := Device{
		Index: index,
		Name:  parts[1],
	}

	device.MemoryTotalMB, err = parseMemory(parts[2])
	if err != nil {
		return Device{}, err
	}
	device.MemoryUsedMB, err = parseMemory(parts[3])
	if err != nil {
		return Device{}, err
	}
	device.MemoryFreeMB, err = parseMemory(parts[4])
	if err != nil {
		return Device{}, err
	}

	device.UtilizationGPUPercent = parseOptionalInt(parts[5])
	device.UtilizationMemoryPercent = parseOptionalInt(parts[6])
	device.TemperatureC = parseOptionalInt(parts[7])
	device.PowerDrawW = parseOptionalFloat(parts[8])
	device.PowerLimitW = parseOptionalFloat(parts[9])

	return device, nil
}

func parseMemory(s string) (uint64, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, errors.Errorf("parsing memory value %q: %w", s, err)
	}
	return v, nil
}

// notAvailable reports whether nvidia-smi printed a placeholder value
func notAvailable(s string) bool {
	return s == "N/A" || s == "[N/A]" || s == ""
}

func parseOptionalInt(s string) *int {
	if notAvailable(s) {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &v
}

func parseOptionalFloat(s string) *float64 {
	if notAvailable(s) {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
