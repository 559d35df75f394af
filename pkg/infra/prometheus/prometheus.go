package prometheus

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var registry = prometheus.NewRegistry()

var registerer = prometheus.WrapRegistererWith(nil, registry)

var (
	// Latency buckets in milliseconds; hosted inference can take several seconds on a cold model
	latencyBuckets = []float64{
		5, 10, 25,
		50, 100, 250,
		500, 1000, 2500,
		5000, 10000, 30000,
	}

	RequestTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "toxiguard_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "path", "status"},
	)

	PredictionLatency = promauto.With(registerer).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "toxiguard_prediction_latency_ms",
			Help:    "Classifier latency in milliseconds",
			Buckets: latencyBuckets,
		},
		[]string{"lang", "backend"},
	)

	PredictionsTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "toxiguard_predictions_total",
			Help: "Total number of successful predictions",
		},
		[]string{"lang", "is_toxic"},
	)

	ResultLogFailures = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "toxiguard_result_log_failures_total",
			Help: "Result log deliveries that failed or were dropped",
		},
		[]string{"sink"},
	)
)

type MetricsConfig struct {
	EnableLatency bool
}

func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		EnableLatency: true,
	}
}

var Config = DefaultMetricsConfig()

func Initialize(cfg MetricsConfig) {
	Config = cfg
	registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)

	prometheus.DefaultRegisterer = registry
	prometheus.DefaultGatherer = registry
}

// Handler exposes the registry in the text exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
