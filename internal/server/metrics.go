// Prometheus collectors, exposed on /metrics.
package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "workbench",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by method, route, and status.",
	}, []string{"method", "route", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "workbench",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by method and route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	linkSyncsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "workbench",
		Subsystem: "relate",
		Name:      "link_syncs_total",
		Help:      "Link slot synchronizations by outcome.",
	}, []string{"outcome"})
)
