package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "learnpath"

var (
	ProviderCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "provider_calls_total",
		Help:      "External provider calls by provider and outcome.",
	}, []string{"provider", "outcome"})

	ProviderLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "provider_latency_seconds",
		Help:      "Latency of external provider calls.",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 40},
	}, []string{"provider"})

	// VideoFallbacks counts searches answered with placeholder videos. Video search
	// always responds 200, so this is where provider outages become visible.
	VideoFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "video_fallbacks_total",
		Help:      "Video searches answered with placeholder results, by reason.",
	}, []string{"reason"})

	RoadmapGenerations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "roadmap_generations_total",
		Help:      "Roadmap generations by mode (demo|live) and outcome.",
	}, []string{"mode", "outcome"})

	ChatReplies = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "chat_replies_total",
		Help:      "Chat replies by source (demo|live|canned).",
	}, []string{"source"})
)

// ObserveProvider records one provider call.
func ObserveProvider(provider string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	ProviderCalls.WithLabelValues(provider, outcome).Inc()
	ProviderLatency.WithLabelValues(provider).Observe(time.Since(start).Seconds())
}
