// Copyright (c) 2025 Flightbridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package metrics holds the Prometheus collectors of the reference backend.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcomes recorded for every request.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

var (
	buildInfo = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "flight_build_info",
			Help: "Build information for the flight backend",
		},
		[]string{"version", "engine"},
	)

	requests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flight_requests_total",
			Help: "Envelopes handled, by action and outcome",
		},
		[]string{"action", "outcome"},
	)

	duration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "flight_request_duration_seconds",
			Help:    "Time spent executing envelopes against the storage engine",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"action"},
	)
)

// Register adds every collector to r.
func Register(r prometheus.Registerer) {
	r.MustRegister(buildInfo, requests, duration)
}

func SetBuildInfo(version, engine string) {
	buildInfo.Reset()
	buildInfo.WithLabelValues(version, engine).Set(1)
}

// ObserveRequest records one handled envelope. Unknown actions are counted
// under "invalid" so a misbehaving client cannot grow the label set.
func ObserveRequest(action, outcome string, elapsed time.Duration) {
	switch action {
	case "insert", "fetch", "update", "delete", "search", "raw":
	default:
		action = "invalid"
	}
	requests.WithLabelValues(action, outcome).Inc()
	duration.WithLabelValues(action).Observe(elapsed.Seconds())
}
