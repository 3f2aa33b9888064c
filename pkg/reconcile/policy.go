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

	"gitlab.com/tozd/go/errors"

	"github.com/walteh/copytree/pkg/fsops"
	"github.com/walteh/copytree/pkg/retry"
)

// ErrTargetIsDir reports a destination path occupied by a directory. A file
// cannot replace a directory under any setting; the conflict needs a human.
var ErrTargetIsDir = errors.New("destination is a directory")

// 🚦 action is what the policy decided for one file
type action int

const (
	actionCopy      action = iota // Destination is absent, plain copy
	actionOverwrite               // Destination is a file and overwrite is on
	actionSkip                    // Destination is a file and overwrite is off
)

// policy resolves the destination decision for each file of a run.
type policy struct {
	// overwrite replaces existing destination files instead of skipping them
	overwrite bool
	// assumeAbsent skips destination probing entirely. Set when the target
	// was emptied at the start of the run, so every destination is known to
	// be absent until this run itself writes it. With flattening this makes
	// colliding base names resolve to last-write-wins regardless of the
	// overwrite setting.
	assumeAbsent bool
}

// decide inspects dst and picks an action. The returned FileInfo is the
// destination's metadata when one exists, nil otherwise. A directory at dst
// is a permanent error: no retry budget is spent on it at any tier.
func (p policy) decide(ctx context.Context, fs fsops.FS, r retry.Runner, dst string) (action, os.FileInfo, error) {
	if p.assumeAbsent {
		return actionCopy, nil, nil
	}

	pr, err := statOrAbsent(ctx, fs, r, dst)
	if err != nil {
		return 0, nil, err
	}

	switch pr.state {
	case StateAbsent:
		return actionCopy, nil, nil
	case StateDir:
		return 0, nil, retry.Permanent(errors.Errorf("%q: %w", dst, ErrTargetIsDir))
	default:
		if p.overwrite {
			return actionOverwrite, pr.info, nil
		}
		return actionSkip, pr.info, nil
	}
}
