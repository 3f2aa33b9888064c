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

package fsops

import (
	"io"
	"os"
	"time"
)

// 💾 OS implements [FS] against the host filesystem.
//
// All methods are pure passthroughs to the [os] package with identical
// behavior and error semantics, except [OS.CopyFile], which composes open,
// copy and chmod into the single primitive the engine retries as a unit.
type OS struct{}

// NewOS returns a new host-backed [FS].
func NewOS() *OS {
	return &OS{}
}

// A passthrough wrapper for [os.Stat].
func (o *OS) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

// A passthrough wrapper for [os.ReadDir].
func (o *OS) ReadDir(name string) ([]os.DirEntry, error) {
	return os.ReadDir(name)
}

// A passthrough wrapper for [os.MkdirAll].
func (o *OS) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

// A passthrough wrapper for [os.RemoveAll].
func (o *OS) RemoveAll(path string) error {
	return os.RemoveAll(path)
}

// A passthrough wrapper for [os.Chmod].
func (o *OS) Chmod(name string, mode os.FileMode) error {
	return os.Chmod(name, mode)
}

// A passthrough wrapper for [os.Chtimes].
func (o *OS) Chtimes(name string, atime, mtime time.Time) error {
	return os.Chtimes(name, atime, mtime)
}

// CopyFile copies src to dst, truncating any existing dst. The destination
// ends up with the source's permission bits even when a umask is in effect.
func (o *OS) CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}

	if err := out.Close(); err != nil {
		return err
	}

	// O_CREATE applies the umask; restore the exact source bits.
	return os.Chmod(dst, info.Mode().Perm())
}

// Compile-time interface check.
var _ FS = (*OS)(nil)
