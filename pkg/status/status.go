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
	"fmt"
	"time"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
)

// 📊 Outcome is the terminal state of one file in a run
type Outcome int

const (
	OutcomeCopied      Outcome = iota // File landed at a previously absent destination
	OutcomeOverwritten                // File replaced an existing destination
	OutcomeSkipped                    // Destination existed and overwrite was off
	OutcomeFailed                     // File could not be processed
)

// String returns a string representation of Outcome
func (o Outcome) String() string {
	switch o {
	case OutcomeCopied:
		return "copied"
	case OutcomeOverwritten:
		return "overwritten"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// 📄 FileReport describes what happened to a single file. Source is the
// path relative to the source root, which identifies the file everywhere in
// a run's output; Target is the absolute destination path.
type FileReport struct {
	Source  string
	Target  string
	Outcome Outcome
	Err     error
}

// 🧾 RunSummary aggregates a whole run. Total is the selection size, the
// outcome counters always sum to the number of files reported so far.
type RunSummary struct {
	RunID       string
	Total       int
	Copied      int
	Overwritten int
	Skipped     int
	Failed      int
	Duration    time.Duration
}

// Record counts one file outcome.
func (s *RunSummary) Record(o Outcome) {
	switch o {
	case OutcomeCopied:
		s.Copied++
	case OutcomeOverwritten:
		s.Overwritten++
	case OutcomeSkipped:
		s.Skipped++
	case OutcomeFailed:
		s.Failed++
	}
}

// Processed returns how many files have been counted.
func (s *RunSummary) Processed() int {
	return s.Copied + s.Overwritten + s.Skipped + s.Failed
}

// String returns a one-line human summary.
func (s *RunSummary) String() string {
	return fmt.Sprintf("%d copied, %d overwritten, %d skipped, %d failed",
		s.Copied, s.Overwritten, s.Skipped, s.Failed)
}

// 📈 Reporter receives progress events as a run executes. Implementations
// must tolerate FinishRun being called after a partial run; a run that stops
// early still reports what it did.
type Reporter interface {
	// StartRun announces a new run and the number of files selected
	StartRun(ctx context.Context, runID string, total int)

	// File reports one file's terminal outcome
	File(ctx context.Context, report FileReport)

	// FinishRun delivers the final counts
	FinishRun(ctx context.Context, summary *RunSummary)
}

// 🖥️ Console renders run progress for humans on the terminal and mirrors
// every event to the structured log, so interactive output and log capture
// never disagree about what a run did.
type Console struct{}

// NewConsole creates a terminal reporter.
func NewConsole() *Console {
	return &Console{}
}

func (c *Console) StartRun(ctx context.Context, runID string, total int) {
	pterm.Info.WithPrefix(pterm.Prefix{Text: "📦"}).Printf("Run %s: %d file(s) selected\n", runID, total)

	zerolog.Ctx(ctx).Info().
		Str("run_id", runID).
		Int("files", total).
		Msg("starting run")
}

func (c *Console) File(ctx context.Context, report FileReport) {
	line := FormatFileLine(report.Source, report.Outcome)

	switch report.Outcome {
	case OutcomeCopied:
		pterm.Success.WithPrefix(pterm.Prefix{Text: "✨"}).Println(line)
		zerolog.Ctx(ctx).Info().
			Str("source", report.Source).
			Str("target", report.Target).
			Msg("copied")
	case OutcomeOverwritten:
		pterm.Info.WithPrefix(pterm.Prefix{Text: "🔄"}).Println(line)
		zerolog.Ctx(ctx).Info().
			Str("source", report.Source).
			Str("target", report.Target).
			Msg("overwritten")
	case OutcomeSkipped:
		pterm.Debug.WithPrefix(pterm.Prefix{Text: "⏭️"}).Println(line)
		zerolog.Ctx(ctx).Debug().
			Str("source", report.Source).
			Str("target", report.Target).
			Msg("skipped")
	case OutcomeFailed:
		pterm.Error.WithPrefix(pterm.Prefix{Text: "❌"}).Println(line)
		if report.Err != nil {
			pterm.Error.Println(report.Err)
		}
		zerolog.Ctx(ctx).Error().
			Err(report.Err).
			Str("source", report.Source).
			Str("target", report.Target).
			Msg("failed")
	}
}

func (c *Console) FinishRun(ctx context.Context, summary *RunSummary) {
	if summary.Failed > 0 {
		pterm.Warning.WithPrefix(pterm.Prefix{Text: "⚠️"}).Println(summary.String())
	} else {
		pterm.Success.WithPrefix(pterm.Prefix{Text: "✅"}).Println(summary.String())
	}

	zerolog.Ctx(ctx).Info().
		Str("run_id", summary.RunID).
		Int("copied", summary.Copied).
		Int("overwritten", summary.Overwritten).
		Int("skipped", summary.Skipped).
		Int("failed", summary.Failed).
		Dur("duration", summary.Duration).
		Msg("run finished")
}

// 🔇 Silent drops every event. Useful when copytree runs embedded in another
// program that does its own reporting.
type Silent struct{}

// NewSilent creates a reporter that reports nothing.
func NewSilent() *Silent {
	return &Silent{}
}

func (s *Silent) StartRun(ctx context.Context, runID string, total int) {}

func (s *Silent) File(ctx context.Context, report FileReport) {}

func (s *Silent) FinishRun(ctx context.Context, summary *RunSummary) {}

// Compile-time interface checks.
var (
	_ Reporter = (*Console)(nil)
	_ Reporter = (*Silent)(nil)
)
