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

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
)

// 📢 UserLogger provides user-friendly feedback about pipeline progress.
// File lines are rendered by the status formatter; everything is
// mirrored to zerolog for debugging.
type UserLogger struct {
	log       zerolog.Logger
	formatter FileFormatter
}

// 🎯 NewUserLogger creates a user logger from the context logger. A nil
// formatter falls back to the default.
func NewUserLogger(ctx context.Context, formatter FileFormatter) *UserLogger {
	if formatter == nil {
		formatter = NewDefaultFileFormatter()
	}
	return &UserLogger{
		log:       *zerolog.Ctx(ctx),
		formatter: formatter,
	}
}

// 📝 LogFileOutcome prints a file outcome line rendered by the formatter
func (u *UserLogger) LogFileOutcome(info FileInfo) {
	pterm.Println(u.formatter.FormatFileOutcome(info.Path, info.Outcome, info.Fires))

	if info.Error != nil {
		pterm.Println(u.formatter.FormatError(info.Error))
		u.log.Error().Err(info.Error).Str("path", info.Path).Msg(info.Outcome.String())
		return
	}
	u.log.Info().Str("path", info.Path).Int("fires", info.Fires).Msg(info.Outcome.String())
}

// 📊 LogRunStage logs a stage of the overall run
func (u *UserLogger) LogRunStage(description string) {
	pterm.Info.WithPrefix(pterm.Prefix{Text: "📦"}).Println(description)
	u.log.Info().Msg(description)
}

// 🔍 LogValidation logs validation results
func (u *UserLogger) LogValidation(valid bool, description string, err error) {
	if valid {
		pterm.Success.WithPrefix(pterm.Prefix{Text: "✅"}).Println(description)
		u.log.Info().Msg(description)
		return
	}
	if err != nil {
		pterm.Error.WithPrefix(pterm.Prefix{Text: "❌"}).Println(description)
		pterm.Error.Println(err)
		u.log.Error().Err(err).Msg(description)
	} else {
		pterm.Warning.WithPrefix(pterm.Prefix{Text: "⚠️"}).Println(description)
		u.log.Warn().Msg(description)
	}
}
