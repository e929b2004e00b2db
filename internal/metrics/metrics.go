package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	CyclesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "engine_cycles_total", Help: "Completed task cycles"},
		[]string{"task", "result"},
	)
	ProviderCalls = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "provider_calls_total", Help: "Quote provider batch calls issued"},
	)
	ProviderErrors = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "provider_errors_total", Help: "Quote provider batch calls failed"},
	)
	QuotesRefreshed = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "quotes_refreshed_total", Help: "Symbol quotes written to the cache"},
	)
	TriggersFired = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "alert_triggers_total", Help: "Alerts claimed and fired"},
		[]string{"kind"},
	)
	Deliveries = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "deliveries_total", Help: "Per-channel notification delivery outcomes"},
		[]string{"channel", "status"},
	)
)

func init() {
	prometheus.MustRegister(
		CyclesTotal,
		ProviderCalls,
		ProviderErrors,
		QuotesRefreshed,
		TriggersFired,
		Deliveries,
	)
}
