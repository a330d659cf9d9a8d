// Copyright 2024 Alexandre Mahdhaoui
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

// Package httputil provides HTTP serving helpers shared by the vmxplan
// binaries.
package httputil

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/exitintel/vmxplan/internal/util/gracefulshutdown"
	"github.com/exitintel/vmxplan/pkg/constants"
)

// shutdownDeadline bounds how long a server may take to drain on shutdown.
const shutdownDeadline = 1 * time.Minute

// Serve runs the given named servers and handles graceful shutdown.
func Serve(servers map[string]*http.Server, gs *gracefulshutdown.GracefulShutdown) {
	// 1. Run the servers.
	for name, server := range servers {
		name, server := name, server
		ctx := context.WithValue(gs.Context(), constants.ServerNameContextKey, name)

		// sets the base context to be the GracefulShutdown's context.
		server.BaseContext = func(_ net.Listener) context.Context {
			return ctx
		}

		gs.WaitGroup().Add(1)

		go func() {
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.ErrorContext(ctx, "server failed", "server", name, "error", err)

				// Done() must run before requesting the shutdown, otherwise the
				// WaitGroup never decrements.
				gs.WaitGroup().Done()
				gs.Shutdown(1)

				return
			}

			gs.WaitGroup().Done()

			// The server stopped without errors; initiate a graceful shutdown
			// if none was previously initiated.
			gs.Shutdown(0)
		}()
	}

	// 2. Signal that all Add() calls have been made.
	gs.Ready()

	// 3. Await context is done.
	<-gs.Context().Done()

	// 4. Gracefully shut down each server.
	for name, server := range servers {
		name, server := name, server
		go func() {
			ctx := context.WithValue(context.Background(), constants.ServerNameContextKey, name)

			ctx, cancel := context.WithDeadline(ctx, time.Now().Add(shutdownDeadline))
			defer cancel()

			if err := server.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.ErrorContext(ctx, "error while shutting down server", "server", name, "error", err)

				return
			}

			slog.Info("gracefully shut down server", "server", name)
		}()
	}
}
