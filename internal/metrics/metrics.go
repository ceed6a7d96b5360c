package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RecommendationsServed counts ranked lists by operation and the source that produced them.
	RecommendationsServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movierec_recommendations_served_total",
			Help: "Ranked movie lists returned, by operation and source",
		},
		[]string{"operation", "source"},
	)

	// RecommendationFallbacks counts degradations to popularity ranking, by reason.
	RecommendationFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movierec_recommendation_fallbacks_total",
			Help: "Recommendation requests degraded to popularity ranking",
		},
		[]string{"reason"}, // "cold_start", "model_unavailable", "no_candidates", "no_release_dates"
	)

	RecommendationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "movierec_recommendation_duration_seconds",
			Help:    "Time spent producing a ranked list",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "movierec_cache_hits_total",
		Help: "Recommendation cache hits",
	})

	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "movierec_cache_misses_total",
		Help: "Recommendation cache misses",
	})

	SimilarityModelLoaded = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "movierec_similarity_model_movies",
		Help: "Number of movies indexed by the loaded similarity model (0 when unavailable)",
	})

	PosterFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movierec_poster_fetches_total",
			Help: "TMDB poster lookups by outcome",
		},
		[]string{"outcome"}, // "found", "missing", "failed"
	)
)
