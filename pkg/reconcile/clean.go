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
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/copytree/pkg/fsops"
)

// 🧹 cleanTarget empties the target directory. The directory itself is kept,
// only its children are removed, so watchers, mounts and the working
// directory of other processes stay valid. An absent target is a no-op and a
// target occupied by a plain file is removed outright so the copy phase can
// rebuild it as a directory.
func (e *engine) cleanTarget(ctx context.Context, root string) error {
	pr, err := statOrAbsent(ctx, e.fs, e.runner, root)
	if err != nil {
		return errors.Errorf("inspecting target for clean: %w", err)
	}

	switch pr.state {
	case StateAbsent:
		zerolog.Ctx(ctx).Debug().Str("target", root).Msg("target absent, nothing to clean")
		return nil

	case StateFile:
		zerolog.Ctx(ctx).Debug().Str("target", root).Msg("target is a file, removing it")
		return e.runner.Do(ctx, "removing target file", func() error {
			return e.fs.RemoveAll(root)
		})
	}

	// The list-and-delete pass is retried as one unit: a restart lists the
	// surviving children fresh, so entries deleted by an earlier attempt
	// can't fail the next one.
	return e.runner.Do(ctx, "emptying target directory", func() error {
		entries, err := e.fs.ReadDir(root)
		if err != nil {
			if fsops.IsNotExist(err) {
				return nil
			}
			return err
		}

		for _, entry := range entries {
			if err := e.fs.RemoveAll(filepath.Join(root, entry.Name())); err != nil {
				return err
			}
		}

		return nil
	})
}
