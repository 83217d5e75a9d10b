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
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"
)

const (
	statusKey = "status"

	defaultBinary        = "tailscale"
	defaultStatusTimeout = 10 * time.Second
	defaultStatusTTL     = 2 * time.Second
	defaultMaxConcurrent = 4
)

// Config controls how the tailscale CLI is invoked.
type Config struct {
	Binary        string
	Socket        string
	StatusTimeout time.Duration
	StatusTTL     time.Duration
	MaxConcurrent int64
}

// Tailscale is a Prober backed by the tailscale CLI. All processes share one
// bounded pool, and concurrent status reads collapse into a single process
// whose output is reused for StatusTTL.
type Tailscale struct {
	runner Runner
	config Config
	sem    *semaphore.Weighted
	group  singleflight.Group
	cache  *expirable.LRU[string, []byte]
	logger *zap.Logger
}

func NewTailscale(runner Runner, cfg Config, logger *zap.Logger) *Tailscale {
	if cfg.Binary == "" {
		cfg.Binary = defaultBinary
	}

	if cfg.StatusTimeout <= 0 {
		cfg.StatusTimeout = defaultStatusTimeout
	}

	if cfg.StatusTTL <= 0 {
		cfg.StatusTTL = defaultStatusTTL
	}

	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = defaultMaxConcurrent
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Tailscale{
		runner: runner,
		config: cfg,
		sem:    semaphore.NewWeighted(cfg.MaxConcurrent),
		cache:  expirable.NewLRU[string, []byte](1, nil, cfg.StatusTTL),
		logger: logger,
	}
}

func (t *Tailscale) args(args ...string) []string {
	if t.config.Socket == "" {
		return args
	}

	return append([]string{"--socket", t.config.Socket}, args...)
}

func (t *Tailscale) Status(ctx context.Context) ([]byte, error) {
	if raw, ok := t.cache.Get(statusKey); ok {
		return raw, nil
	}

	v, err, shared := t.group.Do(statusKey, func() (interface{}, error) {
		return t.readStatus(ctx)
	})
	if err != nil {
		return nil, err
	}

	if shared {
		t.logger.Debug("status read shared between callers")
	}

	return v.([]byte), nil
}

func (t *Tailscale) readStatus(ctx context.Context) ([]byte, error) {
	if raw, ok := t.cache.Get(statusKey); ok {
		return raw, nil
	}

	if err := t.sem.Acquire(ctx, 1); err != nil {
		return nil, &ProbeError{Op: "status", Err: err}
	}
	defer t.sem.Release(1)

	ctx, cancel := context.WithTimeout(ctx, t.config.StatusTimeout)
	defer cancel()

	out, err := t.runner.Run(ctx, t.config.Binary, t.args("status", "--json"))
	if err != nil {
		t.logger.Warn("status command failed",
			zap.Error(err),
			zap.Int("exit_code", out.ExitCode),
			zap.String("stderr", strings.TrimSpace(out.Stderr)))

		return nil, err
	}

	raw := []byte(out.Stdout)
	if len(strings.TrimSpace(out.Stdout)) == 0 {
		return nil, &ProbeError{Op: "status", Err: ErrEmptyOutput}
	}

	t.cache.Add(statusKey, raw)

	return raw, nil
}

func (t *Tailscale) Ping(ctx context.Context, ip string, count int, timeout time.Duration) (PingOutput, error) {
	if err := t.sem.Acquire(ctx, 1); err != nil {
		return PingOutput{}, &ProbeError{Op: "ping", Err: err}
	}
	defer t.sem.Release(1)

	if timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	out, err := t.runner.Run(ctx, t.config.Binary, t.args("ping", "-c", strconv.Itoa(count), ip))

	res := PingOutput{
		Text:     combine(out.Stdout, out.Stderr),
		ExitCode: out.ExitCode,
		TimedOut: out.TimedOut,
	}

	if err != nil {
		t.logger.Debug("ping command failed",
			zap.String("node", ip),
			zap.Error(err),
			zap.Bool("timed_out", out.TimedOut))
	}

	return res, err
}

func combine(parts ...string) string {
	kept := make([]string, 0, len(parts))

	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}

	return strings.Join(kept, "\n")
}
