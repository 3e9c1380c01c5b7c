package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics stores Prometheus collectors used across the service.
type Metrics struct {
	BetsPlaced        *prometheus.CounterVec
	PoolsSettled      prometheus.Counter
	PrizePaid         prometheus.Counter
	BalanceChanges    *prometheus.CounterVec
	AlertsRaised      *prometheus.CounterVec
	AssistantRequests *prometheus.CounterVec
	AssistantLatency  *prometheus.HistogramVec
	HTTPRequests      *prometheus.CounterVec
	HTTPLatency       *prometheus.HistogramVec
	Errors            *prometheus.CounterVec
}

var (
	regOnce         sync.Once
	metricsInstance *Metrics
)

// Registry builds and registers the metrics singleton with optional namespace.
func Registry(namespace string) *Metrics {
	regOnce.Do(func() {
		metricsInstance = &Metrics{
			BetsPlaced: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "bets_placed_total",
				Help:      "Total bets placed by pool modality.",
			}, []string{"modality"}),
			PoolsSettled: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "pools_settled_total",
				Help:      "Total pools settled.",
			}),
			PrizePaid: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "prize_paid_total",
				Help:      "Total prize amount credited to winners.",
			}),
			BalanceChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "balance_changes_total",
				Help:      "Total balance-moving ledger operations by type.",
			}, []string{"type"}),
			AlertsRaised: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "alerts_raised_total",
				Help:      "Total system alerts raised by severity.",
			}, []string{"type"}),
			AssistantRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "assistant_requests_total",
				Help:      "Total assistant API requests by outcome.",
			}, []string{"status"}),
			AssistantLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "assistant_request_duration_seconds",
				Help:      "Latency distribution for assistant API calls.",
				Buckets:   prometheus.DefBuckets,
			}, []string{"status"}),
			HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total HTTP requests by route and status code.",
			}, []string{"route", "code"}),
			HTTPLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Latency distribution for HTTP requests.",
				Buckets:   prometheus.DefBuckets,
			}, []string{"route"}),
			Errors: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "errors_total",
				Help:      "Total errors grouped by component.",
			}, []string{"component"}),
		}

		prometheus.MustRegister(
			metricsInstance.BetsPlaced,
			metricsInstance.PoolsSettled,
			metricsInstance.PrizePaid,
			metricsInstance.BalanceChanges,
			metricsInstance.AlertsRaised,
			metricsInstance.AssistantRequests,
			metricsInstance.AssistantLatency,
			metricsInstance.HTTPRequests,
			metricsInstance.HTTPLatency,
			metricsInstance.Errors,
		)
	})
	return metricsInstance
}
