// Copyright The course-check Authors and/or licensed to The course-check
// Authors under one or more contributor license agreements. Licensed under the
// Elastic License; you may not use this file except in compliance with it.

package signal

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/lms-tools/course-check/internal/logger"
)

// Enable function returns a context cancelled when ctrl+c is pressed or
// the process is terminated. Validations already running finish, no new
// ones start.
func Enable(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	go func() {
		defer signal.Stop(ch)
		select {
		case <-ch:
			logger.Info("Signal caught!")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

// SIGINT function returns true if the context was interrupted.
func SIGINT(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
