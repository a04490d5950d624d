// Package metrics records Prometheus metrics for API calls from eventbus
// events.
package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	eventbus "github.com/innabox/fulfillment-console/internal/eventbus"
	events "github.com/innabox/fulfillment-console/internal/events"
)

// Metrics holds the call collectors.
type Metrics struct {
	// CallsTotal counts finished calls by protocol, service, method and gRPC code.
	CallsTotal *prometheus.CounterVec

	// CallDuration measures call latency in seconds, including base URL
	// resolution on the first call.
	CallDuration *prometheus.HistogramVec

	// ConfigResolutions counts base URL resolution attempts by result.
	ConfigResolutions *prometheus.CounterVec
}

// New creates unregistered collectors.
func New() *Metrics {
	return &Metrics{
		CallsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fulfillment_client_calls_total",
				Help: "Total number of fulfillment API calls",
			},
			[]string{"protocol", "service", "method", "code"},
		),
		CallDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fulfillment_client_call_duration_seconds",
				Help:    "Fulfillment API call duration in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"protocol", "service", "method"},
		),
		ConfigResolutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fulfillment_config_resolutions_total",
				Help: "Total number of fulfillment API URL resolution attempts",
			},
			[]string{"result"},
		),
	}
}

// Register creates the collectors and registers them with reg.
func Register(reg prometheus.Registerer) (*Metrics, error) {
	m := New()
	for _, c := range []prometheus.Collector{m.CallsTotal, m.CallDuration, m.ConfigResolutions} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Attach records events from the global eventbus into m.
func (m *Metrics) Attach() (detach func()) {
	unsubCall := eventbus.Subscribe(func(_ context.Context, e events.CallFinish) {
		m.CallsTotal.WithLabelValues(e.Protocol, e.Service, e.Method, e.Code.String()).Inc()
		m.CallDuration.WithLabelValues(e.Protocol, e.Service, e.Method).Observe(e.Duration.Seconds())
	})
	unsubConfig := eventbus.Subscribe(func(_ context.Context, e events.ConfigResolved) {
		result := "success"
		if e.Err != nil {
			result = "error"
		}
		m.ConfigResolutions.WithLabelValues(result).Inc()
	})
	return func() {
		unsubCall()
		unsubConfig()
	}
}
