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

// Package retry provides the bounded retry-with-delay combinator that wraps
// every filesystem operation copytree performs. The same combinator is applied
// at two granularities: once around each primitive operation and once around
// each per-file copy sequence, both sharing the configured budget.
package retry

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🔁 Runner executes fallible operations with a fixed attempt budget and a
// fixed delay between attempts. The zero value runs an operation exactly once
// with no delay.
type Runner struct {
	// Attempts is the total number of tries, including the first one.
	Attempts int
	// Delay is the fixed wait between consecutive attempts.
	Delay time.Duration
}

// 🏭 New builds a Runner from the user-facing retry knobs. retryCount is the
// number of retries beyond the first attempt, so the resulting budget is
// retryCount+1 attempts. Negative values clamp to zero retries.
func New(retryCount int, delay time.Duration) Runner {
	if retryCount < 0 {
		retryCount = 0
	}
	if delay < 0 {
		delay = 0
	}
	return Runner{
		Attempts: retryCount + 1,
		Delay:    delay,
	}
}

// 🏃 Do runs op until it succeeds or the attempt budget is exhausted. The
// delay between attempts honors context cancellation; nothing else is
// interrupted mid-flight. On exhaustion the final underlying error is
// returned wrapped with label for diagnostics. Errors marked with
// [Permanent] are returned immediately without consuming the budget.
func (r Runner) Do(ctx context.Context, label string, op func() error) error {
	attempts := r.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; ; attempt++ {
		err = op()
		if err == nil {
			return nil
		}

		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.err
		}

		if attempt >= attempts {
			break
		}

		zerolog.Ctx(ctx).Debug().
			Str("op", label).
			Int("attempt", attempt).
			Int("remaining", attempts-attempt).
			Err(err).
			Msg("operation failed, retrying")

		if waitErr := r.wait(ctx); waitErr != nil {
			return waitErr
		}
	}

	return errors.Errorf("%s: %w", label, err)
}

// ⛔ Permanent marks err as non-retryable. Do unwraps the marker and returns
// the original error as soon as it sees it, regardless of remaining budget.
// Used for structural conflicts that no amount of retrying can fix.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string {
	return e.err.Error()
}

func (e *permanentError) Unwrap() error {
	return e.err
}

// wait sleeps for the configured delay. The timer blocks only the operation
// being retried; cancellation aborts the wait.
func (r Runner) wait(ctx context.Context) error {
	if r.Delay <= 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			return nil
		}
	}

	timer := time.NewTimer(r.Delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
