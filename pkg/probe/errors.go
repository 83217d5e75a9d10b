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

// Package probe pkg/probe/errors.go
package probe

import (
	"errors"
	"fmt"
)

var (
	ErrProbeTimeout = errors.New("probe timed out")
	ErrProbeStart   = errors.New("probe failed to start")
	ErrProbeExit    = errors.New("probe exited with error")
	ErrEmptyOutput  = errors.New("probe produced no output")
)

// ProbeError is returned when an external probe process failed to start,
// exited non-zero or exceeded its deadline. Output captured before the
// failure is still returned alongside it.
type ProbeError struct {
	Op       string
	Err      error
	TimedOut bool
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ProbeError) Unwrap() error {
	return e.Err
}
