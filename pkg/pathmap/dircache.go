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
	"os"

	"github.com/walteh/copytree/pkg/fsops"
	"github.com/walteh/copytree/pkg/retry"
)

const dirPerm os.FileMode = 0o755

// 📂 DirCache creates destination directories on demand and remembers which
// ones it already created, so a run over a thousand files in the same folder
// issues one MkdirAll, not a thousand. Creation goes through the configured
// retry runner like every other filesystem mutation.
//
// Not safe for concurrent use; the engine processes files sequentially.
type DirCache struct {
	fs    fsops.FS
	retry retry.Runner
	seen  map[string]struct{}
}

// NewDirCache builds an empty cache over fs.
func NewDirCache(fs fsops.FS, r retry.Runner) *DirCache {
	return &DirCache{
		fs:    fs,
		retry: r,
		seen:  make(map[string]struct{}),
	}
}

// EnsureDir makes sure dir exists, creating missing parents. A directory is
// only remembered after a successful creation, so a failed attempt is retried
// on the next file that needs it.
func (c *DirCache) EnsureDir(ctx context.Context, dir string) error {
	if _, ok := c.seen[dir]; ok {
		return nil
	}

	err := c.retry.Do(ctx, "creating directory", func() error {
		return c.fs.MkdirAll(dir, dirPerm)
	})
	if err != nil {
		return err
	}

	c.seen[dir] = struct{}{}

	return nil
}
