package altroute

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// metricDiscoveryCount counts discoveries by result.
	metricDiscoveryCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "altroute_discovery_count",
		Help: "Total number of alternative routes discoveries by result",
	}, []string{"result"})

	// metricRaceCount counts races between alternative routes by result.
	metricRaceCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "altroute_race_count",
		Help: "Total number of races between alternative routes by result",
	}, []string{"result"})
)
