// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package start runs a long-lived process until it finishes on its own
// or the operator interrupts it, then gives in-flight work a bounded
// grace period to wind down.
package start

import (
	"context"
	"os"
	"os/signal"
	"time"

	"golang.org/x/sync/errgroup"
)

type StartFunc func(ctx context.Context) error

// Start runs run with a context that is cancelled on os.Interrupt.
// After cancellation, run has stopTimeout to return before Start gives
// up waiting on it and returns anyway.
func Start(ctx context.Context, stopTimeout time.Duration, run StartFunc) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	done := make(chan error, 1)
	go func() {
		done <- run(ctx)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
	}
	stop()

	select {
	case err := <-done:
		return err
	case <-time.After(stopTimeout):
		return nil
	}
}

// RunAll runs every function concurrently, cancelling the rest as soon
// as one fails, and returns the first failure.
func RunAll(ctx context.Context, runs ...func(ctx context.Context) error) error {
	group, ctx := errgroup.WithContext(ctx)
	for _, run := range runs {
		run := run
		group.Go(func() error { return run(ctx) })
	}

	return group.Wait()
}
