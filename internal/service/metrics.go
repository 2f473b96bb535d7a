package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricSearchesSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "casestatus",
		Name:      "searches_submitted_total",
		Help:      "Number of case lookups accepted by the job API.",
	})
	metricSearchesRejected = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "casestatus",
		Name:      "searches_rejected_total",
		Help:      "Number of case lookups the job runner could not take.",
	})
	metricResultsPolled = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "casestatus",
		Name:      "results_polled_total",
		Help:      "Number of result polls by the job status they saw.",
	}, []string{"status"})
)
