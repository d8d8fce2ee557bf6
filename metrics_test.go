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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// metricNames flattens collected metrics to their names.
func metricNames(rm *metricdata.ResourceMetrics) []string {
	var names []string
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			names = append(names, m.Name)
		}
	}
	return names
}

// TestQueryMetricsRecorded verifies navigation queries record latency and
// index-build metrics through the global meter provider.
func TestQueryMetricsRecorded(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	otel.SetMeterProvider(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)))

	g, project := makeDiamondGraph(t)
	nav := navigatorOver(g)
	ctx := context.Background()

	_, err := nav.ScopeDependencies(ctx, project, -1, MatchAll)
	require.NoError(t, err)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	names := metricNames(&rm)
	assert.Contains(t, names, "depnav_query_duration_seconds")
	assert.Contains(t, names, "depnav_index_build_duration_seconds")
	assert.Contains(t, names, "depnav_index_build_total")
	assert.Contains(t, names, "depnav_references_indexed")
}

// TestQuerySpansRecorded verifies navigation queries emit spans through the
// global tracer provider.
func TestQuerySpansRecorded(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))

	g, project := makeLinearGraph(t)
	nav := navigatorOver(g)

	err := nav.DirectDependencies(context.Background(), project, "compile", func(DependencyNode) bool { return true })
	require.NoError(t, err)

	var names []string
	for _, span := range recorder.Ended() {
		names = append(names, span.Name())
	}
	assert.Contains(t, names, "Navigator.DirectDependencies")
}
