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

// Package pathmap decides where each discovered source file lands in the
// target tree, and creates the directories those destinations need.
package pathmap

import (
	"path/filepath"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// ErrOutsideRoot reports a source path that does not live under the
// configured source root. This is a structural problem with the selection,
// never a transient one.
var ErrOutsideRoot = errors.New("source path escapes the source root")

// 🗺️ Mapper translates absolute source paths into absolute target paths.
// It is pure: no filesystem access, no side effects, so the same input
// always maps to the same output.
//
// Two layouts are supported. Hierarchy mode mirrors the file's path relative
// to the source root under the target root. Flatten mode drops every file
// directly into the target root under its base name, which means files with
// equal base names collide on the same destination.
type Mapper struct {
	SourceRoot string
	TargetRoot string
	Flatten    bool
}

// New builds a Mapper for the given roots. Both roots are cleaned so that
// trailing separators and "." segments don't skew relative paths.
func New(sourceRoot, targetRoot string, flatten bool) Mapper {
	return Mapper{
		SourceRoot: filepath.Clean(sourceRoot),
		TargetRoot: filepath.Clean(targetRoot),
		Flatten:    flatten,
	}
}

// Map returns the destination path for srcPath. Paths outside the source
// root are rejected with [ErrOutsideRoot] in both layouts; a sibling
// directory sharing the root's name as a prefix counts as outside.
func (m Mapper) Map(srcPath string) (string, error) {
	rel, err := filepath.Rel(m.SourceRoot, filepath.Clean(srcPath))
	if err != nil {
		return "", errors.Errorf("relativizing %q against %q: %w", srcPath, m.SourceRoot, err)
	}

	if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.Errorf("mapping %q: %w", srcPath, ErrOutsideRoot)
	}

	if m.Flatten {
		return filepath.Join(m.TargetRoot, filepath.Base(rel)), nil
	}

	return filepath.Join(m.TargetRoot, rel), nil
}
