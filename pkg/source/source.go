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

// Package source discovers the files a run will copy. Selection is driven by
// doublestar glob patterns rooted at the source directory; patterns prefixed
// with "!" subtract from the selection instead of adding to it.
package source

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// statConcurrency bounds the parallel classification of glob matches.
const statConcurrency = 8

// 🔍 Finder resolves glob patterns into the sorted, deduplicated list of
// regular files a run operates on. Directories are never selected; symlinks
// are classified by what they point at, and FollowSymlinks only controls
// whether the glob walk descends through directory symlinks.
type Finder struct {
	// Root is the source directory patterns are anchored at.
	Root string
	// Patterns holds slash-separated doublestar globs. A leading "!" makes a
	// pattern an exclusion, matched against the path relative to Root.
	Patterns []string
	// FollowSymlinks descends through directory symlinks during discovery.
	FollowSymlinks bool
}

// Find evaluates the patterns and returns absolute paths in sorted order.
// An empty result is not an error; the caller decides what an empty
// selection means. Malformed patterns fail immediately, they are never a
// retry candidate.
func (f Finder) Find(ctx context.Context) ([]string, error) {
	includes, excludes, err := splitPatterns(f.Patterns)
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Debug().
		Str("root", f.Root).
		Int("includes", len(includes)).
		Int("excludes", len(excludes)).
		Msg("discovering source files")

	seen := make(map[string]struct{})
	var matches []string

	var globOpts []doublestar.GlobOption
	if !f.FollowSymlinks {
		globOpts = append(globOpts, doublestar.WithNoFollow())
	}

	for _, pattern := range includes {
		found, err := doublestar.FilepathGlob(filepath.Join(f.Root, pattern), globOpts...)
		if err != nil {
			return nil, errors.Errorf("globbing %q: %w", pattern, err)
		}

		for _, match := range found {
			if _, ok := seen[match]; ok {
				continue
			}

			excluded, err := f.isExcluded(match, excludes)
			if err != nil {
				return nil, err
			}
			if excluded {
				continue
			}

			seen[match] = struct{}{}
			matches = append(matches, match)
		}
	}

	files, err := f.filterRegularFiles(ctx, matches)
	if err != nil {
		return nil, err
	}

	sort.Strings(files)

	zerolog.Ctx(ctx).Debug().
		Int("files", len(files)).
		Msg("discovery complete")

	return files, nil
}

// isExcluded matches the path, relative to Root and slash-separated, against
// every exclusion pattern.
func (f Finder) isExcluded(path string, excludes []string) (bool, error) {
	if len(excludes) == 0 {
		return false, nil
	}

	rel, err := filepath.Rel(f.Root, path)
	if err != nil {
		return false, errors.Errorf("relativizing %q: %w", path, err)
	}

	rel = filepath.ToSlash(rel)
	for _, pattern := range excludes {
		matched, err := doublestar.Match(pattern, rel)
		if err != nil {
			return false, errors.Errorf("matching %q against %q: %w", rel, pattern, err)
		}
		if matched {
			return true, nil
		}
	}

	return false, nil
}

// filterRegularFiles drops every match that is not a regular file. The glob
// walk cannot tell a symlink to a directory from a symlink to a file without
// following it, so each match is classified with a real stat. Matches that
// vanish between globbing and statting are dropped silently.
func (f Finder) filterRegularFiles(ctx context.Context, matches []string) ([]string, error) {
	keep := make([]bool, len(matches))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(statConcurrency)

	for i, match := range matches {
		i, match := i, match // per-iteration copies; required under the go 1.21 loopvar rules
		g.Go(func() error {
			info, err := os.Stat(match)
			if err != nil {
				if os.IsNotExist(err) {
					return nil
				}
				return errors.Errorf("classifying %q: %w", match, err)
			}

			keep[i] = info.Mode().IsRegular()

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	files := make([]string, 0, len(matches))
	for i, match := range matches {
		if keep[i] {
			files = append(files, match)
		}
	}

	return files, nil
}

// splitPatterns separates includes from "!"-prefixed excludes and validates
// every pattern up front.
func splitPatterns(patterns []string) (includes, excludes []string, err error) {
	for _, raw := range patterns {
		pattern, negated := strings.CutPrefix(raw, "!")
		if !doublestar.ValidatePattern(pattern) {
			return nil, nil, errors.Errorf("invalid glob pattern %q", raw)
		}

		if negated {
			excludes = append(excludes, pattern)
		} else {
			includes = append(includes, pattern)
		}
	}

	return includes, excludes, nil
}
