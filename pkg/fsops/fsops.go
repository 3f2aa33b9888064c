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

// Package fsops defines the narrow filesystem surface the reconciliation
// engine works through. Every mutation copytree performs goes through an
// [FS], so tests can swap in a fault-injecting implementation and exercise
// the retry paths without touching a real disk.
package fsops

import (
	"os"
	"time"
)

// 📁 FS is the set of filesystem primitives the engine needs. Implementations
// keep [os] error semantics: not-found comes back as an error satisfying
// [os.IsNotExist], and no method wraps or translates errors. Callers decide
// what is retryable.
type FS interface {
	// Stat returns file metadata, following symlinks.
	Stat(name string) (os.FileInfo, error)
	// ReadDir lists a directory's immediate children.
	ReadDir(name string) ([]os.DirEntry, error)
	// MkdirAll creates a directory and any missing parents.
	MkdirAll(path string, perm os.FileMode) error
	// RemoveAll deletes a path recursively. Absence is success.
	RemoveAll(path string) error
	// CopyFile copies a regular file's bytes and permission bits from src to
	// dst, truncating dst if it already exists.
	CopyFile(src, dst string) error
	// Chmod changes a path's permission bits.
	Chmod(name string, mode os.FileMode) error
	// Chtimes sets a path's access and modification times.
	Chtimes(name string, atime, mtime time.Time) error
}

// Operation names used by [Flaky] to address individual primitives.
const (
	OpStat      = "stat"
	OpReadDir   = "readdir"
	OpMkdirAll  = "mkdirall"
	OpRemoveAll = "removeall"
	OpCopyFile  = "copyfile"
	OpChmod     = "chmod"
	OpChtimes   = "chtimes"
)

// IsNotExist reports whether err says the path does not exist. It is the
// test every caller should use on [FS] errors; a not-found answer is never
// worth retrying.
func IsNotExist(err error) bool {
	return os.IsNotExist(err)
}
