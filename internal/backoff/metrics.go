package backoff

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metricRetries counts the retries performed because of transient failures.
var metricRetries = promauto.NewCounter(prometheus.CounterOpts{
	Name: "altroute_backoff_retries_total",
	Help: "Total number of retries caused by transient failures",
})
