package identity

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TokenRefreshes counts successful managed identity token refreshes.
	TokenRefreshes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cacheapi_token_refreshes_total",
		Help: "Total number of successful managed identity token refreshes.",
	})

	// TokenRefreshFailures counts failed token requests.
	TokenRefreshFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cacheapi_token_refresh_failures_total",
		Help: "Total number of failed managed identity token requests.",
	})
)
