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

// Command gpuinfo prints GPU telemetry as JSON on stdout. It prefers
// the NVML binding and falls back to parsing nvidia-smi output; when
// neither source is available it still exits 0 with a zero-count
// report so callers can probe for GPUs without error handling.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"

	"github.com/rs/zerolog"
	"github.com/walteh/semshift/pkg/gpu"
)

var (
	simple = flag.Bool("simple", false, "Print the reduced count/names document")
	debug  = flag.Bool("debug", false, "Enable debug logging on stderr")
)

func main() {
	// Parse flags
	flag.Parse()

	// Set up logger; stdout is reserved for the JSON document
	logLevel := zerolog.InfoLevel
	if *debug {
		logLevel = zerolog.DebugLevel
	}
	logger := zerolog.New(os.Stderr).Level(logLevel).With().Timestamp().Logger()
	ctx := logger.WithContext(context.Background())

	// Collect telemetry, preferring the library over the subprocess
	report := gpu.Collect(ctx, gpu.NewNVMLCollector(), gpu.NewSMICollector())

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	var err error
	if *simple {
		err = enc.Encode(report.Simple())
	} else {
		err = enc.Encode(report)
	}
	if err != nil {
		logger.Fatal().Err(err).Msg("encoding report")
	}
}
