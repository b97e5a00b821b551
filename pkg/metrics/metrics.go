// Package metrics defines the Prometheus collectors for weighting-scheme
// sweeps and exposes an HTTP handler for scraping.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors for a sweep run.
type Metrics struct {
	EvaluationsTotal      *prometheus.CounterVec
	EvaluationDuration    *prometheus.HistogramVec
	MAPScore              *prometheus.HistogramVec
	BestMAP               *prometheus.GaugeVec
	CollectionBuildsTotal *prometheus.CounterVec
	VocabularySize        *prometheus.GaugeVec
	ScoreCacheHitsTotal   prometheus.Counter
	ScoreCacheMissesTotal prometheus.Counter
	SinkErrorsTotal       *prometheus.CounterVec
	EvaluationsInFlight   prometheus.Gauge
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		EvaluationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sweep_evaluations_total",
				Help: "Scheme-pair evaluations completed, by corpus and stemming.",
			},
			[]string{"corpus", "stemming"},
		),
		EvaluationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sweep_evaluation_duration_seconds",
				Help:    "Time to weigh, rank and score one scheme pair.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"corpus"},
		),
		MAPScore: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sweep_map_score",
				Help:    "Distribution of MAP scores across evaluated scheme pairs.",
				Buckets: prometheus.LinearBuckets(0, 0.05, 21),
			},
			[]string{"corpus"},
		),
		BestMAP: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "sweep_best_map",
				Help: "Highest MAP score seen so far per corpus.",
			},
			[]string{"corpus"},
		),
		CollectionBuildsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sweep_collection_builds_total",
				Help: "Vocabulary and document-frequency builds, by corpus and stemming.",
			},
			[]string{"corpus", "stemming"},
		),
		VocabularySize: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "sweep_vocabulary_size",
				Help: "Distinct document terms per corpus and stemming setting.",
			},
			[]string{"corpus", "stemming"},
		),
		ScoreCacheHitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "sweep_score_cache_hits_total",
				Help: "Scheme evaluations answered from the score cache.",
			},
		),
		ScoreCacheMissesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "sweep_score_cache_misses_total",
				Help: "Scheme evaluations computed because the score cache had no entry.",
			},
		),
		SinkErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "report_sink_errors_total",
				Help: "Failed report deliveries by sink.",
			},
			[]string{"sink"},
		),
		EvaluationsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "sweep_evaluations_in_flight",
				Help: "Scheme-pair evaluations currently running.",
			},
		),
	}

	reg.MustRegister(
		m.EvaluationsTotal,
		m.EvaluationDuration,
		m.MAPScore,
		m.BestMAP,
		m.CollectionBuildsTotal,
		m.VocabularySize,
		m.ScoreCacheHitsTotal,
		m.ScoreCacheMissesTotal,
		m.SinkErrorsTotal,
		m.EvaluationsInFlight,
	)

	return m
}

// ObserveEvaluation records one finished scheme-pair evaluation.
func (m *Metrics) ObserveEvaluation(corpus string, stemming bool, took time.Duration, score float64) {
	m.EvaluationsTotal.WithLabelValues(corpus, strconv.FormatBool(stemming)).Inc()
	m.EvaluationDuration.WithLabelValues(corpus).Observe(took.Seconds())
	m.MAPScore.WithLabelValues(corpus).Observe(score)
}

// ObserveCollection records one vocabulary build.
func (m *Metrics) ObserveCollection(corpus string, stemming bool, vocabulary int) {
	label := strconv.FormatBool(stemming)
	m.CollectionBuildsTotal.WithLabelValues(corpus, label).Inc()
	m.VocabularySize.WithLabelValues(corpus, label).Set(float64(vocabulary))
}

// Handler returns the Prometheus scrape HTTP handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
