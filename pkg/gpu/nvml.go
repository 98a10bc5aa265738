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
	"fmt"

	"github.com/NVIDIA/go-nvml/pkg/nvml"
	"gitlab.com/tozd/go/errors"
)

// 🔌 Library abstracts the NVML binding so tests can fake it
type Library interface {
	Init() error
	Shutdown()
	DeviceCount() (int, error)
	DeviceInfo(index int) (Device, error)
}

// 🖥️ NVMLCollector reads telemetry through the vendor management library
type NVMLCollector struct {
	lib Library
}

// 🏭 NewNVMLCollector creates a collector backed by the real binding
func NewNVMLCollector() *NVMLCollector {
	return &NVMLCollector{lib: &nvmlLibrary{}}
}

// 🏭 NewNVMLCollectorWithLibrary creates a collector with a custom library
func NewNVMLCollectorWithLibrary(lib Library) *NVMLCollector {
	return &NVMLCollector{lib: lib}
}

// Name implements Collector
func (c *NVMLCollector) Name() string {
	return "nvml"
}

// 📊 Collect implements Collector
func (c *NVMLCollector) Collect(ctx context.Context) (*Report, error) {
	if err := c.lib.Init(); err != nil {
		return nil, errors.Errorf("initializing NVML: %w", err)
	}
	defer c.lib.Shutdown()

	count, err := c.lib.DeviceCount()
	if err != nil {
		return nil, errors.Errorf("counting devices: %w", err)
	}

	report := &Report{GPUs: []Device{}, Count: count}
	for i := 0; i < count; i++ {
		device, err := c.lib.DeviceInfo(i)
		if err != nil {
			return nil, errors.Errorf("reading device %d: %w", i, err)
		}
		report.GPUs = append(report.GPUs, device)
	}

	return report, nil
}

// nvmlLibrary is the production Library over github.com/NVIDIA/go-nvml
type nvmlLibrary struct{}

func (n *nvmlLibrary) Init() error {
	if ret := nvml.Init(); ret != nvml.SUCCESS {
		return errors.Errorf("nvml init: %s", nvml.ErrorString(ret))
	}
	return nil
}

func (n *nvmlLibrary) Shutdown() {
	_ = nvml.Shutdown()
}

func (n *nvmlLibrary) DeviceCount() (int, error) {
	count, ret := nvml.DeviceGetCount()
	if ret != nvml.SUCCESS {
		return 0, errors.Errorf("nvml device count: %s", nvml.ErrorString(ret))
	}
	return count, nil
}

func (n *nvmlLibrary) DeviceInfo(index int) (Device, error) {
	handle, ret := nvml.DeviceGetHandleByIndex(index)
	if ret != nvml.SUCCESS {
		return Device{}, errors.Errorf("nvml device handle %d: %s", index, nvml.ErrorString(ret))
	}

	device := Device{Index: index}

	name, ret := handle.GetName()
	if ret != nvml.SUCCESS {
		return Device{}, errors.Errorf("nvml device name %d: %s", index, nvml.ErrorString(ret))
	}
	device.Name = name

	mem, ret := handle.GetMemoryInfo()
	if ret != nvml.SUCCESS {
		return Device{}, errors.Errorf("nvml memory info %d: %s", index, nvml.ErrorString(ret))
	}
	device.MemoryTotalMB = mem.Total / 1024 / 1024
	device.MemoryUsedMB = mem.Used / 1024 / 1024
	device.MemoryFreeMB = mem.Free / 1024 / 1024

	// The remaining readings are optional: not every device or driver
	// exposes them
	if util, ret := handle.GetUtilizationRates(); ret == nvml.SUCCESS {
		gpuUtil := int(util.Gpu)
		memUtil := int(util.Memory)
		device.UtilizationGPUPercent = &gpuUtil
		device.UtilizationMemoryPercent = &memUtil
	}

	if temp, ret := handle.GetTemperature(nvml.TEMPERATURE_GPU); ret == nvml.SUCCESS {
		t := int(temp)
		device.TemperatureC = &t
	}

	if power, ret := handle.GetPowerUsage(); ret == nvml.SUCCESS {
		w := float64(power) / 1000.0 // mW to W
		device.PowerDrawW = &w
	}

	if _, maxLimit, ret := handle.GetPowerManagementLimitConstraints(); ret == nvml.SUCCESS {
		w := float64(maxLimit) / 1000.0
		device.PowerLimitW = &w
	}

	if major, minor, ret := handle.GetCudaComputeCapability(); ret == nvml.SUCCESS {
		device.ComputeCapability = fmt.Sprintf("%d.%d", major, minor)
	}

	return device, nil
}
