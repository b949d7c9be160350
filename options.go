/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package portalnetwork

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
)

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithRegisterer registers the registry's metrics on reg. Without it the
// metrics are collected but not registered anywhere.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(r *Registry) {
		r.registerer = reg
	}
}

// WithTracerProvider sets the provider used for load, save and create spans.
// The default is the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(r *Registry) {
		if tp != nil {
			r.tracer = tp.Tracer(tracerName)
		}
	}
}

// WithClock sets the time source used for document timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		if now != nil {
			r.clock = now
		}
	}
}
