package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ConnectionAttempts counts store connection attempts.
	ConnectionAttempts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cacheapi_cache_connection_attempts_total",
		Help: "Total number of store connection attempts.",
	})

	// ConnectionFailures counts attempts that did not produce a usable client.
	ConnectionFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cacheapi_cache_connection_failures_total",
		Help: "Total number of failed store connection attempts.",
	})

	// Operations counts store commands by operation and outcome.
	Operations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cacheapi_cache_operations_total",
		Help: "Total number of store operations by operation and outcome.",
	}, []string{"operation", "outcome"})
)
