/*-
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package probe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"syscall"
	"time"
)

const defaultGrace = 5 * time.Second

// OSRunner executes commands on the host via os/exec. Cancellation sends
// SIGTERM and waits Grace before the process is killed.
type OSRunner struct {
	Grace time.Duration
}

func NewOSRunner(grace time.Duration) *OSRunner {
	if grace <= 0 {
		grace = defaultGrace
	}

	return &OSRunner{Grace: grace}
}

func (r *OSRunner) Run(ctx context.Context, name string, args []string) (Output, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Cancel = func() error {
		return cmd.Process.Signal(syscall.SIGTERM)
	}
	cmd.WaitDelay = r.Grace

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	out := Output{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: -1,
	}

	if cmd.ProcessState != nil {
		out.ExitCode = cmd.ProcessState.ExitCode()
	}

	if err == nil {
		return out, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		out.TimedOut = errors.Is(ctxErr, context.DeadlineExceeded)
		if out.TimedOut {
			return out, &ProbeError{Op: name, Err: ErrProbeTimeout, TimedOut: true}
		}

		return out, &ProbeError{Op: name, Err: ctxErr}
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return out, &ProbeError{Op: name, Err: fmt.Errorf("%w: %w", ErrProbeExit, err)}
	}

	return out, &ProbeError{Op: name, Err: fmt.Errorf("%w: %w", ErrProbeStart, err)}
}
