// Package metrics holds the Prometheus collectors for ingestion runs.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	IngestRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shownotes_ingest_runs_total",
			Help: "Total number of ingestion runs, labeled by outcome.",
		},
		[]string{"outcome"},
	)
	IngestRunDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "shownotes_ingest_run_duration_seconds",
			Help:    "Duration of ingestion runs in seconds.",
			Buckets: prometheus.DefBuckets,
		},
	)
	EpisodesInserted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "shownotes_episodes_inserted_total",
			Help: "Total number of episodes inserted.",
		},
	)
	ShownotesInserted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "shownotes_shownotes_inserted_total",
			Help: "Total number of show-notes inserted.",
		},
	)
	EpisodesDuplicate = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "shownotes_episodes_duplicate_total",
			Help: "Total number of feed items skipped because the episode was already stored.",
		},
	)
	FragmentsSkipped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shownotes_fragments_skipped_total",
			Help: "Total number of description fragments dropped during extraction, labeled by reason.",
		},
		[]string{"reason"},
	)
	PersistenceErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shownotes_persistence_errors_total",
			Help: "Total number of failed store operations, labeled by operation.",
		},
		[]string{"op"},
	)
)

const (
	OutcomeSuccess    = "success"
	OutcomeFetchError = "fetch_error"
	OutcomeParseError = "parse_error"
	OutcomeCanceled   = "canceled"
	OutcomeError      = "error"
)

func init() {
	prometheus.MustRegister(IngestRuns)
	prometheus.MustRegister(IngestRunDuration)
	prometheus.MustRegister(EpisodesInserted)
	prometheus.MustRegister(ShownotesInserted)
	prometheus.MustRegister(EpisodesDuplicate)
	prometheus.MustRegister(FragmentsSkipped)
	prometheus.MustRegister(PersistenceErrors)
}
