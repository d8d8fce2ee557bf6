// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package depnav

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Package-level tracer and meter for navigation operations.
var (
	tracer = otel.Tracer("aleutian.depnav")
	meter  = otel.Meter("aleutian.depnav")
)

// Metrics for graph navigation operations.
var (
	queryLatency      metric.Float64Histogram
	indexBuildLatency metric.Float64Histogram
	indexBuildTotal   metric.Int64Counter
	referencesIndexed metric.Int64Histogram

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		queryLatency, err = meter.Float64Histogram(
			"depnav_query_duration_seconds",
			metric.WithDescription("Duration of dependency navigation queries"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		indexBuildLatency, err = meter.Float64Histogram(
			"depnav_index_build_duration_seconds",
			metric.WithDescription("Duration of reference resolution index builds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		indexBuildTotal, err = meter.Int64Counter(
			"depnav_index_build_total",
			metric.WithDescription("Total number of reference resolution index builds"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		referencesIndexed, err = meter.Int64Histogram(
			"depnav_references_indexed",
			metric.WithDescription("Number of reference nodes collected per index build"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

// recordQueryMetrics records metrics for a navigation query.
func recordQueryMetrics(ctx context.Context, queryType string, duration time.Duration) {
	if err := initMetrics(); err != nil {
		return
	}

	queryLatency.Record(ctx, duration.Seconds(),
		metric.WithAttributes(attribute.String("query_type", queryType)),
	)
}

// recordIndexMetrics records metrics for one resolution index build.
func recordIndexMetrics(ctx context.Context, manager string, duration time.Duration, referenceCount int) {
	if err := initMetrics(); err != nil {
		return
	}

	attrs := metric.WithAttributes(attribute.String("manager", manager))
	indexBuildLatency.Record(ctx, duration.Seconds(), attrs)
	indexBuildTotal.Add(ctx, 1, attrs)
	referencesIndexed.Record(ctx, int64(referenceCount), attrs)
}

// startQuerySpan creates a span for a navigation query.
func startQuerySpan(ctx context.Context, queryType string, project Project) (context.Context, trace.Span) {
	return tracer.Start(ctx, "Navigator."+queryType,
		trace.WithAttributes(
			attribute.String("depnav.query_type", queryType),
			attribute.String("depnav.project_id", project.ID.String()),
		),
	)
}
