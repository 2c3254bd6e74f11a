// Copyright (C) 2026 ControlRox (dev@controlrox.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package rung

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "controlrox.rung"

var (
	metricsOnce sync.Once

	tracer trace.Tracer

	compileLatency    metric.Float64Histogram
	compileCount      metric.Int64Counter
	normalizeRewrites metric.Int64Counter
	sequenceElements  metric.Int64Histogram
)

// initMetrics lazily creates the instruments. Uses the global otel
// providers, so it is a no-op recorder until a provider is installed.
func initMetrics() {
	metricsOnce.Do(func() {
		tracer = otel.Tracer(instrumentationName)
		meter := otel.Meter(instrumentationName)

		var err error
		compileLatency, err = meter.Float64Histogram(
			"rung.compile.duration",
			metric.WithDescription("Rung compile latency in milliseconds"),
			metric.WithUnit("ms"),
		)
		if err != nil {
			compileLatency = nil
		}

		compileCount, err = meter.Int64Counter(
			"rung.compile.count",
			metric.WithDescription("Number of rung compiles by outcome"),
		)
		if err != nil {
			compileCount = nil
		}

		normalizeRewrites, err = meter.Int64Counter(
			"rung.normalize.rewrites",
			metric.WithDescription("Degenerate branch pairs removed during normalization"),
		)
		if err != nil {
			normalizeRewrites = nil
		}

		sequenceElements, err = meter.Int64Histogram(
			"rung.sequence.elements",
			metric.WithDescription("Elements per compiled rung sequence"),
		)
		if err != nil {
			sequenceElements = nil
		}
	})
}

// startSpan begins a trace span for a rung operation.
func startSpan(ctx context.Context, name string, rungNumber int) (context.Context, trace.Span) {
	initMetrics()
	return tracer.Start(ctx, name, trace.WithAttributes(
		attribute.Int("rung.number", rungNumber),
	))
}

// recordCompile records one compile attempt and its latency.
func recordCompile(ctx context.Context, start time.Time, elements int, err error) {
	initMetrics()

	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	attrs := metric.WithAttributes(attribute.String("outcome", outcome))

	if compileCount != nil {
		compileCount.Add(ctx, 1, attrs)
	}
	if compileLatency != nil {
		compileLatency.Record(ctx, float64(time.Since(start).Milliseconds()), attrs)
	}
	if err == nil && sequenceElements != nil {
		sequenceElements.Record(ctx, int64(elements))
	}
}

// recordNormalizeRewrite records one degenerate branch removal.
func recordNormalizeRewrite(ctx context.Context) {
	initMetrics()
	if normalizeRewrites != nil {
		normalizeRewrites.Add(ctx, 1)
	}
}
