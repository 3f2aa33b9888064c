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

	"github.com/walteh/copytree/pkg/fsops"
	"github.com/walteh/copytree/pkg/retry"
)

// 📊 TargetState classifies what currently occupies a destination path
type TargetState int

const (
	StateAbsent TargetState = iota // Nothing at the path
	StateFile                      // A non-directory entry
	StateDir                       // A directory
)

// String returns a string representation of TargetState
func (s TargetState) String() string {
	switch s {
	case StateAbsent:
		return "absent"
	case StateFile:
		return "file"
	case StateDir:
		return "directory"
	default:
		return "unknown"
	}
}

// probe is the result of inspecting a destination path.
type probe struct {
	state TargetState
	info  os.FileInfo // nil when absent
}

// statOrAbsent inspects path with the configured retry budget. A not-found
// result is the Absent state: it is an answer, not an error, and it never
// consumes a retry. Only failures that leave the state unknown are retried.
func statOrAbsent(ctx context.Context, fs fsops.FS, r retry.Runner, path string) (probe, error) {
	var p probe

	err := r.Do(ctx, "inspecting target", func() error {
		info, err := fs.Stat(path)
		if err != nil {
			if fsops.IsNotExist(err) {
				p = probe{state: StateAbsent}
				return nil
			}
			return err
		}

		if info.IsDir() {
			p = probe{state: StateDir, info: info}
		} else {
			p = probe{state: StateFile, info: info}
		}

		return nil
	})
	if err != nil {
		return probe{}, err
	}

	return p, nil
}
