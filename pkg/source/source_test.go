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

package source

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(t *testing.T) context.Context {
	t.Helper()
	return zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
}

// writeTree creates the given files (with parents) under root, each holding
// its own relative path as content.
func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, rel := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(rel), 0o644))
	}
}

// relAll converts absolute results back to slash-separated paths relative to
// root so expectations stay readable.
func relAll(t *testing.T, root string, paths []string) []string {
	t.Helper()
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		rel, err := filepath.Rel(root, p)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(rel))
	}
	return out
}

func TestFinderFind(t *testing.T) {
	tests := []struct {
		name     string
		files    []string
		patterns []string
		want     []string
	}{
		{
			name:     "match_everything",
			files:    []string{"a.txt", "sub/b.txt", "sub/deep/c.log"},
			patterns: []string{"**"},
			want:     []string{"a.txt", "sub/b.txt", "sub/deep/c.log"},
		},
		{
			name:     "extension_filter",
			files:    []string{"a.txt", "sub/b.txt", "sub/deep/c.log"},
			patterns: []string{"**/*.txt"},
			want:     []string{"a.txt", "sub/b.txt"},
		},
		{
			name:     "exclusion_subtracts_a_subtree",
			files:    []string{"a.txt", "skip/b.txt", "skip/deep/c.txt", "keep/d.txt"},
			patterns: []string{"**", "!skip/**"},
			want:     []string{"a.txt", "keep/d.txt"},
		},
		{
			name:     "exclusion_by_extension",
			files:    []string{"a.txt", "a.log", "sub/b.log"},
			patterns: []string{"**", "!**/*.log"},
			want:     []string{"a.txt"},
		},
		{
			name:     "overlapping_includes_deduplicate",
			files:    []string{"sub/b.txt"},
			patterns: []string{"**/*.txt", "sub/*.txt"},
			want:     []string{"sub/b.txt"},
		},
		{
			name:     "no_matches_is_empty_not_error",
			files:    []string{"a.txt"},
			patterns: []string{"**/*.go"},
			want:     []string{},
		},
		{
			name:     "only_exclusions_selects_nothing",
			files:    []string{"a.txt"},
			patterns: []string{"!**/*.log"},
			want:     []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			writeTree(t, root, tt.files...)

			f := Finder{Root: root, Patterns: tt.patterns}
			got, err := f.Find(testContext(t))
			require.NoError(t, err)

			assert.Equal(t, tt.want, relAll(t, root, got))
		})
	}
}

func TestFinderResultsAreSorted(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "z.txt", "a.txt", "m/x.txt", "b.txt")

	f := Finder{Root: root, Patterns: []string{"**"}}
	got, err := f.Find(testContext(t))
	require.NoError(t, err)

	assert.True(t, sort.StringsAreSorted(got), "discovery order must be deterministic")
}

func TestFinderExcludesDirectories(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "sub/deep/file.txt")

	f := Finder{Root: root, Patterns: []string{"**"}}
	got, err := f.Find(testContext(t))
	require.NoError(t, err)

	assert.Equal(t, []string{"sub/deep/file.txt"}, relAll(t, root, got),
		"directories match the glob but must never be selected")
}

func TestFinderInvalidPattern(t *testing.T) {
	f := Finder{Root: t.TempDir(), Patterns: []string{"[unclosed"}}
	_, err := f.Find(testContext(t))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid glob pattern")
}

func TestFinderSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink creation requires elevated privileges on windows")
	}

	setup := func(t *testing.T) string {
		root := t.TempDir()
		writeTree(t, root, "real/inside.txt", "plain.txt")

		outside := t.TempDir()
		writeTree(t, outside, "linked-dir/via-link.txt", "target.txt")

		require.NoError(t, os.Symlink(filepath.Join(outside, "linked-dir"), filepath.Join(root, "dirlink")))
		require.NoError(t, os.Symlink(filepath.Join(outside, "target.txt"), filepath.Join(root, "filelink")))
		require.NoError(t, os.Symlink(filepath.Join(outside, "does-not-exist"), filepath.Join(root, "broken")))

		return root
	}

	t.Run("no_follow_skips_directory_symlinks", func(t *testing.T) {
		root := setup(t)

		f := Finder{Root: root, Patterns: []string{"**"}, FollowSymlinks: false}
		got, err := f.Find(testContext(t))
		require.NoError(t, err)

		rels := relAll(t, root, got)
		assert.NotContains(t, rels, "dirlink/via-link.txt", "walk must not descend through a directory symlink")
		assert.Contains(t, rels, "filelink", "a symlink to a regular file is still a selectable entry")
		assert.NotContains(t, rels, "broken", "a broken symlink has nothing to copy")
		assert.Contains(t, rels, "real/inside.txt")
		assert.Contains(t, rels, "plain.txt")
	})

	t.Run("follow_descends_through_directory_symlinks", func(t *testing.T) {
		root := setup(t)

		f := Finder{Root: root, Patterns: []string{"**"}, FollowSymlinks: true}
		got, err := f.Find(testContext(t))
		require.NoError(t, err)

		rels := relAll(t, root, got)
		assert.Contains(t, rels, "dirlink/via-link.txt", "with follow enabled the linked directory's files are in scope")
		assert.Contains(t, rels, "filelink")
	})
}
