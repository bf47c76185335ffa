package controller

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	callsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "walkindesk_controller_calls_total",
		Help: "Controller calls by operation and outcome",
	}, []string{"operation", "outcome"})

	callDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "walkindesk_controller_call_duration_seconds",
		Help:    "Controller call latency by operation",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
)
