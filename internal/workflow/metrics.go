package workflow

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	runsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shipflow_runs_total",
			Help: "Total number of workflow runs by final status",
		},
		[]string{"status"},
	)

	stepDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "shipflow_step_duration_seconds",
			Help:    "Duration of pipeline steps in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 14), // 100ms to ~13m
		},
		[]string{"step"},
	)

	pollAttempts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "shipflow_poll_attempts_total",
			Help: "Total number of render status queries",
		},
	)

	publishTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shipflow_publish_total",
			Help: "Total number of publish attempts by platform and outcome",
		},
		[]string{"platform", "status"},
	)
)
