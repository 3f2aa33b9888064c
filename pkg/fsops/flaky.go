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
	"os"
	"sync"
	"time"
)

// 🧨 Flaky wraps an [FS] and fails specific operations on specific paths a
// planned number of times before delegating. Unlike random fault injection,
// every failure is scripted, so tests can assert exact retry counts.
//
// The zero value is not usable; construct with [NewFlaky].
type Flaky struct {
	next FS

	mu      sync.Mutex
	planned map[flakyKey][]error
	calls   map[flakyKey]int
}

type flakyKey struct {
	op   string
	path string
}

// NewFlaky wraps next with scripted fault injection. With no failures
// planned, Flaky is a transparent passthrough.
func NewFlaky(next FS) *Flaky {
	return &Flaky{
		next:    next,
		planned: make(map[flakyKey][]error),
		calls:   make(map[flakyKey]int),
	}
}

// FailNext arranges for the next n calls of op on path to return err.
// Repeated calls append, so distinct errors can be scripted in sequence.
func (f *Flaky) FailNext(op, path string, n int, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := flakyKey{op: op, path: path}
	for i := 0; i < n; i++ {
		f.planned[key] = append(f.planned[key], err)
	}
}

// Calls reports how many times op was invoked on path, planned failures
// included.
func (f *Flaky) Calls(op, path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.calls[flakyKey{op: op, path: path}]
}

// intercept counts the call and pops the next scripted error, if any.
func (f *Flaky) intercept(op, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := flakyKey{op: op, path: path}
	f.calls[key]++

	queue := f.planned[key]
	if len(queue) == 0 {
		return nil
	}

	err := queue[0]
	f.planned[key] = queue[1:]

	return err
}

func (f *Flaky) Stat(name string) (os.FileInfo, error) {
	if err := f.intercept(OpStat, name); err != nil {
		return nil, err
	}
	return f.next.Stat(name)
}

func (f *Flaky) ReadDir(name string) ([]os.DirEntry, error) {
	if err := f.intercept(OpReadDir, name); err != nil {
		return nil, err
	}
	return f.next.ReadDir(name)
}

func (f *Flaky) MkdirAll(path string, perm os.FileMode) error {
	if err := f.intercept(OpMkdirAll, path); err != nil {
		return err
	}
	return f.next.MkdirAll(path, perm)
}

func (f *Flaky) RemoveAll(path string) error {
	if err := f.intercept(OpRemoveAll, path); err != nil {
		return err
	}
	return f.next.RemoveAll(path)
}

func (f *Flaky) CopyFile(src, dst string) error {
	if err := f.intercept(OpCopyFile, dst); err != nil {
		return err
	}
	return f.next.CopyFile(src, dst)
}

func (f *Flaky) Chmod(name string, mode os.FileMode) error {
	if err := f.intercept(OpChmod, name); err != nil {
		return err
	}
	return f.next.Chmod(name, mode)
}

func (f *Flaky) Chtimes(name string, atime, mtime time.Time) error {
	if err := f.intercept(OpChtimes, name); err != nil {
		return err
	}
	return f.next.Chtimes(name, atime, mtime)
}

// Compile-time interface check.
var _ FS = (*Flaky)(nil)
