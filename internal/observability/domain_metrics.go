package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	turnsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adpulse_turns_total",
			Help: "Total number of completed assistant turns by terminal state.",
		},
		[]string{"state"},
	)
	translateDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "adpulse_translate_duration_seconds",
			Help:    "Latency of natural-language to SQL translation calls.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
	)
	queryDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "adpulse_query_duration_seconds",
			Help:    "Latency of SQL execution against the dataset.",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 5},
		},
	)
	insightDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "adpulse_insight_duration_seconds",
			Help:    "Latency of insight generation calls.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
	)
	resultRows = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "adpulse_result_rows",
			Help:    "Row counts of executed queries.",
			Buckets: []float64{0, 1, 5, 10, 50, 100, 500},
		},
	)
)

func init() {
	prometheus.MustRegister(
		turnsTotal,
		translateDurationSeconds,
		queryDurationSeconds,
		insightDurationSeconds,
		resultRows,
	)
}

func ObserveTurn(state string) {
	turnsTotal.WithLabelValues(state).Inc()
}

func ObserveTranslate(elapsed time.Duration) {
	translateDurationSeconds.Observe(elapsed.Seconds())
}

func ObserveQuery(elapsed time.Duration, rows int) {
	queryDurationSeconds.Observe(elapsed.Seconds())
	resultRows.Observe(float64(rows))
}

func ObserveInsight(elapsed time.Duration) {
	insightDurationSeconds.Observe(elapsed.Seconds())
}
