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

package pathmap

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/copytree/pkg/fsops"
	"github.com/walteh/copytree/pkg/retry"
)

func TestMapperMap(t *testing.T) {
	tests := []struct {
		name       string
		sourceRoot string
		targetRoot string
		flatten    bool
		srcPath    string
		want       string
		wantErr    error
	}{
		{
			name:       "hierarchy_preserves_relative_path",
			sourceRoot: "/src",
			targetRoot: "/dst",
			srcPath:    "/src/a/b/file.txt",
			want:       filepath.Join("/dst", "a", "b", "file.txt"),
		},
		{
			name:       "hierarchy_top_level_file",
			sourceRoot: "/src",
			targetRoot: "/dst",
			srcPath:    "/src/file.txt",
			want:       filepath.Join("/dst", "file.txt"),
		},
		{
			name:       "flatten_drops_directories",
			sourceRoot: "/src",
			targetRoot: "/dst",
			flatten:    true,
			srcPath:    "/src/a/b/file.txt",
			want:       filepath.Join("/dst", "file.txt"),
		},
		{
			name:       "trailing_separator_on_root_is_harmless",
			sourceRoot: "/src/",
			targetRoot: "/dst/",
			srcPath:    "/src/a/file.txt",
			want:       filepath.Join("/dst", "a", "file.txt"),
		},
		{
			name:       "outside_root_rejected",
			sourceRoot: "/src",
			targetRoot: "/dst",
			srcPath:    "/elsewhere/file.txt",
			wantErr:    ErrOutsideRoot,
		},
		{
			name:       "outside_root_rejected_even_when_flattening",
			sourceRoot: "/src",
			targetRoot: "/dst",
			flatten:    true,
			srcPath:    "/elsewhere/file.txt",
			wantErr:    ErrOutsideRoot,
		},
		{
			name:       "sibling_with_root_prefix_rejected",
			sourceRoot: "/src",
			targetRoot: "/dst",
			srcPath:    "/src-other/file.txt",
			wantErr:    ErrOutsideRoot,
		},
		{
			name:       "root_itself_rejected",
			sourceRoot: "/src",
			targetRoot: "/dst",
			srcPath:    "/src",
			wantErr:    ErrOutsideRoot,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(tt.sourceRoot, tt.targetRoot, tt.flatten)
			got, err := m.Map(tt.srcPath)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMapperIsDeterministic(t *testing.T) {
	m := New("/src", "/dst", false)

	first, err := m.Map("/src/a/file.txt")
	require.NoError(t, err)
	second, err := m.Map("/src/a/file.txt")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestDirCacheMemoizes(t *testing.T) {
	ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())

	dir := filepath.Join(t.TempDir(), "a", "b")
	flaky := fsops.NewFlaky(fsops.NewOS())
	cache := NewDirCache(flaky, retry.New(0, 0))

	require.NoError(t, cache.EnsureDir(ctx, dir))
	require.NoError(t, cache.EnsureDir(ctx, dir))
	require.NoError(t, cache.EnsureDir(ctx, dir))

	assert.Equal(t, 1, flaky.Calls(fsops.OpMkdirAll, dir), "repeated EnsureDir on the same directory should hit the filesystem once")
	assert.DirExists(t, dir)
}

func TestDirCacheRetriesBeforeMemoizing(t *testing.T) {
	ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
	errFlap := errors.New("transient mkdir failure")

	dir := filepath.Join(t.TempDir(), "deep", "nest")
	flaky := fsops.NewFlaky(fsops.NewOS())
	flaky.FailNext(fsops.OpMkdirAll, dir, 2, errFlap)

	cache := NewDirCache(flaky, retry.New(2, 0))

	require.NoError(t, cache.EnsureDir(ctx, dir), "two failures fit inside a budget of three attempts")
	assert.Equal(t, 3, flaky.Calls(fsops.OpMkdirAll, dir))
	assert.DirExists(t, dir)

	// Success is now cached.
	require.NoError(t, cache.EnsureDir(ctx, dir))
	assert.Equal(t, 3, flaky.Calls(fsops.OpMkdirAll, dir))
}

func TestDirCacheDoesNotMemoizeFailure(t *testing.T) {
	ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
	errFlap := errors.New("transient mkdir failure")

	dir := filepath.Join(t.TempDir(), "deep", "nest")
	flaky := fsops.NewFlaky(fsops.NewOS())
	flaky.FailNext(fsops.OpMkdirAll, dir, 1, errFlap)

	cache := NewDirCache(flaky, retry.New(0, 0))

	err := cache.EnsureDir(ctx, dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, errFlap)

	// A later file needing the same directory gets a fresh attempt.
	require.NoError(t, cache.EnsureDir(ctx, dir))
	assert.Equal(t, 2, flaky.Calls(fsops.OpMkdirAll, dir))
	assert.DirExists(t, dir)
}
