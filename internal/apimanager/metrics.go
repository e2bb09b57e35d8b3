package apimanager

//
// Metrics definitions
//

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metricsSummaryObjectives returns the summary objectives for promauto.NewSummary.
func metricsSummaryObjectives() map[float64]float64 {
	return map[float64]float64{
		0.25: 0.010, // 0.240 <= φ <= 0.260
		0.5:  0.010, // 0.490 <= φ <= 0.510
		0.75: 0.010, // 0.740 <= φ <= 0.760
		0.9:  0.010, // 0.899 <= φ <= 0.901
		0.99: 0.001, // 0.989 <= φ <= 0.991
	}
}

var (
	// metricCallCount counts the calls by how they terminated.
	metricCallCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "apimanager_calls_count",
		Help: "Total number of API calls by outcome",
	}, []string{"outcome"})

	// metricRaceDurationSeconds summarizes the duration of racing alternative routes.
	metricRaceDurationSeconds = promauto.NewSummary(prometheus.SummaryOpts{
		Name:       "apimanager_race_duration_seconds",
		Help:       "Summarizes the time to race the primary ping against alternative routes (in seconds)",
		Objectives: metricsSummaryObjectives(),
	})
)
