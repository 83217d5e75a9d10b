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

// Package probe pkg/probe/interfaces.go
package probe

import (
	"context"
	"time"
)

//go:generate mockgen -destination=mock_probe.go -package=probe github.com/mfreeman451/pathwatch/pkg/probe Prober,Runner

// Prober runs the two external commands the monitor depends on. It does not
// interpret their content.
type Prober interface {
	// Status returns the raw JSON of one status snapshot.
	Status(ctx context.Context) ([]byte, error)
	// Ping runs a bounded confirmation probe. The returned output is valid
	// even when err is non-nil.
	Ping(ctx context.Context, ip string, count int, timeout time.Duration) (PingOutput, error)
}

// Runner executes a single external process.
type Runner interface {
	Run(ctx context.Context, name string, args []string) (Output, error)
}

// Output is whatever a process wrote before it exited or was killed.
type Output struct {
	Stdout   string
	Stderr   string
	ExitCode int
	TimedOut bool
}

// PingOutput is the combined text of a confirmation probe.
type PingOutput struct {
	Text     string `json:"text"`
	ExitCode int    `json:"exit_code"`
	TimedOut bool   `json:"timed_out"`
}
