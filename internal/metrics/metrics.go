package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	AnalysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loanlens_analyses_total",
			Help: "Total number of completed analyses by decision",
		},
		[]string{"decision"},
	)

	RiskScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "loanlens_risk_score",
			Help:    "Distribution of overall risk scores",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	ExtractionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loanlens_extractions_total",
			Help: "Total number of document extractions by outcome",
		},
		[]string{"status"},
	)

	ExtractionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "loanlens_extraction_duration_seconds",
			Help:    "Duration of LLM field extraction in seconds",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
		},
	)

	AnalysisCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loanlens_analysis_cache_total",
			Help: "Analysis cache lookups by result",
		},
		[]string{"result"},
	)
)

// Extraction outcomes.
const (
	ExtractionSucceeded = "extracted"
	ExtractionRetried   = "retry"
	ExtractionFailed    = "failed"
)

// Cache lookup results.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// ObserveAnalysis records one finished analysis.
func ObserveAnalysis(decision string, score int) {
	AnalysesTotal.WithLabelValues(decision).Inc()
	RiskScore.Observe(float64(score))
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
