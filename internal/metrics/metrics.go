package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "nutrisense"

// Stages reported by PredictionErrors
const (
	StageDecode    = "decode"
	StageInference = "inference"
)

var (
	// Predictions counts served predictions by class and whether they came from the cache
	Predictions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "predictions_total",
		Help:      "Predictions served, by predicted class.",
	}, []string{"class", "cached"})

	// PredictionErrors counts failed predictions by pipeline stage
	PredictionErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "prediction_errors_total",
		Help:      "Failed predictions, by pipeline stage.",
	}, []string{"stage"})

	// InferenceDuration observes preprocessing plus the forward pass
	InferenceDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "inference_duration_seconds",
		Help:      "Time spent preprocessing and running the model.",
		Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
	})

	// CacheLookups counts prediction cache lookups by result (hit, miss, error)
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_lookups_total",
		Help:      "Prediction cache lookups, by result.",
	}, []string{"result"})

	// HTTPRequests counts requests by route, method and status
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests, by route, method and status code.",
	}, []string{"route", "method", "status"})
)
