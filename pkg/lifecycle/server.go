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

// Package lifecycle pkg/lifecycle/server.go
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const ShutdownTimeout = 10 * time.Second

// Service defines the interface that all services must implement. Start may
// block until Stop or return once background work is launched.
type Service interface {
	Start(context.Context) error
	Stop(context.Context) error
}

// Hooks adapts a pair of functions into a Service. Either may be nil.
type Hooks struct {
	OnStart func(context.Context) error
	OnStop  func(context.Context) error
}

func (h Hooks) Start(ctx context.Context) error {
	if h.OnStart == nil {
		return nil
	}

	return h.OnStart(ctx)
}

func (h Hooks) Stop(ctx context.Context) error {
	if h.OnStop == nil {
		return nil
	}

	return h.OnStop(ctx)
}

// ServerOptions holds configuration for running a set of services.
type ServerOptions struct {
	ServiceName     string
	GRPCAddr        string // empty disables the gRPC health endpoint
	Services        []Service
	ShutdownTimeout time.Duration
	Logger          *zap.Logger
}

// RunServer starts every service and blocks until a signal arrives, ctx is
// cancelled or a service fails. Services are stopped in reverse order and
// all shutdown errors are returned together.
func RunServer(ctx context.Context, opts *ServerOptions) error {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	timeout := opts.ShutdownTimeout
	if timeout <= 0 {
		timeout = ShutdownTimeout
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	services := append([]Service(nil), opts.Services...)
	if opts.GRPCAddr != "" {
		services = append(services, NewHealthServer(opts.GRPCAddr, logger, opts.ServiceName))
	}

	logger.Info("Starting service", zap.String("service", opts.ServiceName))

	g, gctx := errgroup.WithContext(ctx)

	for _, svc := range services {
		svc := svc

		g.Go(func() error {
			return svc.Start(gctx)
		})
	}

	<-gctx.Done()

	if ctx.Err() != nil {
		logger.Info("Shutdown requested", zap.String("service", opts.ServiceName))
	} else {
		logger.Warn("Service failed, initiating shutdown", zap.String("service", opts.ServiceName))
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	var err error

	for i := len(services) - 1; i >= 0; i-- {
		if stopErr := services[i].Stop(shutdownCtx); stopErr != nil {
			logger.Error("Error during service shutdown", zap.Error(stopErr))
			err = multierr.Append(err, fmt.Errorf("shutdown error: %w", stopErr))
		}
	}

	if runErr := g.Wait(); runErr != nil && !errors.Is(runErr, context.Canceled) {
		err = multierr.Append(err, fmt.Errorf("service error: %w", runErr))
	}

	return err
}
