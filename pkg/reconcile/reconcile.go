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

package reconcile

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/copytree/pkg/config"
	"github.com/walteh/copytree/pkg/fsops"
	"github.com/walteh/copytree/pkg/pathmap"
	"github.com/walteh/copytree/pkg/retry"
	"github.com/walteh/copytree/pkg/status"
)

// 🎯 Operator defines the operations copytree can run against a target
type Operator interface {
	// Run discovers the selection and reconciles the target with it,
	// cleaning first when configured. It returns the summary of what
	// happened; a non-nil error means the run stopped early.
	Run(ctx context.Context) (*status.RunSummary, error)

	// Clean empties the target directory without copying anything
	Clean(ctx context.Context) error
}

// 🔍 Finder selects the files a run copies
type Finder interface {
	Find(ctx context.Context) ([]string, error)
}

// 🔧 Options contains the collaborators for an operator
type Options struct {
	// Config is the validated run configuration
	Config *config.Config
	// FS is the filesystem all mutations go through
	FS fsops.FS
	// Finder supplies the selection
	Finder Finder
	// Reporter receives progress events; defaults to the silent reporter
	Reporter status.Reporter
}

// 🏭 New creates a new operator with the given options
func New(opts Options) (Operator, error) {
	if opts.Config == nil {
		return nil, errors.Errorf("config is required")
	}
	if opts.FS == nil {
		return nil, errors.Errorf("filesystem is required")
	}
	if opts.Finder == nil {
		return nil, errors.Errorf("finder is required")
	}
	if opts.Reporter == nil {
		opts.Reporter = status.NewSilent()
	}

	return &engine{
		cfg:      opts.Config,
		fs:       opts.FS,
		finder:   opts.Finder,
		reporter: opts.Reporter,
		runner:   retry.New(opts.Config.RetryCount, opts.Config.RetryDelay()),
		mapper:   pathmap.New(opts.Config.Source, opts.Config.Target, opts.Config.FlattenFolders),
	}, nil
}

// 🎮 engine implements the Operator interface
type engine struct {
	cfg      *config.Config
	fs       fsops.FS
	finder   Finder
	reporter status.Reporter
	runner   retry.Runner
	mapper   pathmap.Mapper
}

// Run executes one complete copy run. Files are processed in discovery
// order, sequentially; the first file that fails terminally stops the run
// and everything already copied stays in place.
func (e *engine) Run(ctx context.Context) (*status.RunSummary, error) {
	runID := ulid.Make().String()
	logger := zerolog.Ctx(ctx).With().Str("run_id", runID).Logger()
	ctx = logger.WithContext(ctx)

	started := time.Now()

	files, err := e.finder.Find(ctx)
	if err != nil {
		return nil, errors.Errorf("discovering files: %w", err)
	}

	summary := &status.RunSummary{RunID: runID, Total: len(files)}
	e.reporter.StartRun(ctx, runID, len(files))

	// An empty selection leaves the filesystem completely untouched. The
	// target is not created, and not cleaned either, even when cleaning is
	// configured.
	if len(files) == 0 {
		logger.Info().Msg("nothing matched, leaving the target untouched")
		summary.Duration = time.Since(started)
		e.reporter.FinishRun(ctx, summary)
		return summary, nil
	}

	cleaned := false
	if e.cfg.CleanTarget {
		if err := e.cleanTarget(ctx, e.cfg.Target); err != nil {
			summary.Duration = time.Since(started)
			e.reporter.FinishRun(ctx, summary)
			return summary, errors.Errorf("cleaning target: %w", err)
		}
		cleaned = true
	}

	dirs := pathmap.NewDirCache(e.fs, e.runner)
	pol := policy{overwrite: e.cfg.Overwrite, assumeAbsent: cleaned}

	var runErr error
	for _, src := range files {
		outcome, dst, err := e.processFile(ctx, dirs, pol, src)

		rel := e.display(src)
		summary.Record(outcome)
		e.reporter.File(ctx, status.FileReport{Source: rel, Target: dst, Outcome: outcome, Err: err})

		if err != nil {
			runErr = errors.Errorf("processing %s: %w", rel, err)
			break
		}
	}

	summary.Duration = time.Since(started)
	e.reporter.FinishRun(ctx, summary)

	return summary, runErr
}

// Clean empties the target directory as a standalone operation.
func (e *engine) Clean(ctx context.Context) error {
	zerolog.Ctx(ctx).Info().Str("target", e.cfg.Target).Msg("cleaning target")
	return e.cleanTarget(ctx, e.cfg.Target)
}

// processFile runs the whole per-file sequence under the outer retry tier.
// Each primitive inside carries its own inner budget, so a transient fault
// is usually absorbed close to where it happened; the outer tier restarts
// the sequence from scratch when a primitive stays broken mid-sequence.
// Structural problems are permanent and bypass both tiers.
func (e *engine) processFile(ctx context.Context, dirs *pathmap.DirCache, pol policy, src string) (status.Outcome, string, error) {
	var (
		outcome = status.OutcomeFailed
		dst     string
	)

	err := e.runner.Do(ctx, "processing file", func() error {
		mapped, err := e.mapper.Map(src)
		if err != nil {
			return retry.Permanent(err)
		}
		dst = mapped

		if err := dirs.EnsureDir(ctx, filepath.Dir(dst)); err != nil {
			return err
		}

		act, dstInfo, err := pol.decide(ctx, e.fs, e.runner, dst)
		if err != nil {
			return err
		}

		if act == actionSkip {
			outcome = status.OutcomeSkipped
			return nil
		}

		if act == actionOverwrite {
			if err := e.prepareOverwrite(ctx, dst, dstInfo); err != nil {
				return err
			}
		}

		if err := e.runner.Do(ctx, "copying file", func() error {
			return e.fs.CopyFile(src, dst)
		}); err != nil {
			return err
		}

		if e.cfg.PreserveTimestamp {
			e.preserveTimestamp(ctx, src, dst)
		}

		if act == actionOverwrite {
			outcome = status.OutcomeOverwritten
		} else {
			outcome = status.OutcomeCopied
		}

		return nil
	})
	if err != nil {
		return status.OutcomeFailed, dst, err
	}

	return outcome, dst, nil
}

// prepareOverwrite lifts a read-only destination out of the way. The write
// bit is added to the existing mode; the copy itself restores the source's
// bits afterwards.
func (e *engine) prepareOverwrite(ctx context.Context, dst string, info os.FileInfo) error {
	if info == nil {
		return nil
	}

	mode := info.Mode().Perm()
	if mode&0o200 != 0 {
		return nil
	}

	zerolog.Ctx(ctx).Debug().Str("target", dst).Msg("clearing read-only bit before overwrite")

	return e.runner.Do(ctx, "making target writable", func() error {
		return e.fs.Chmod(dst, mode|0o200)
	})
}

// preserveTimestamp carries the source's modification time onto the copy.
// The source is re-statted after the copy so the recorded time is current.
// Timestamp trouble never fails a file that already copied cleanly; it only
// logs a warning.
func (e *engine) preserveTimestamp(ctx context.Context, src, dst string) {
	var mtime time.Time

	err := e.runner.Do(ctx, "statting source for timestamp", func() error {
		info, err := e.fs.Stat(src)
		if err != nil {
			return err
		}
		mtime = info.ModTime()
		return nil
	})
	if err == nil {
		err = e.runner.Do(ctx, "preserving timestamp", func() error {
			return e.fs.Chtimes(dst, mtime, mtime)
		})
	}

	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("target", dst).Msg("could not preserve timestamp")
	}
}

// display returns the path used to identify src in reports and errors.
func (e *engine) display(src string) string {
	rel, err := filepath.Rel(e.cfg.Source, src)
	if err != nil {
		return src
	}
	return filepath.ToSlash(rel)
}
