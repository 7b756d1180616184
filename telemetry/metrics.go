// Package telemetry provides action middleware reporting invocations to
// Prometheus and OpenTelemetry.
package telemetry

import (
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/davidroman0O/goservice"
)

// Metrics holds the Prometheus collectors updated by its middleware.
type Metrics struct {
	invocations *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	inFlight    prometheus.Gauge
}

// NewMetrics creates the action collectors under namespace and registers them with reg.
func NewMetrics(reg prometheus.Registerer, namespace string) (*Metrics, error) {
	m := &Metrics{
		invocations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "action_invocations_total",
				Help:      "Action invocations by action and outcome.",
			},
			[]string{"action", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "action_duration_seconds",
				Help:      "Action invocation duration in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"action"},
		),
		inFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "actions_in_flight",
				Help:      "Action invocations currently running.",
			},
		),
	}

	for _, c := range []prometheus.Collector{m.invocations, m.duration, m.inFlight} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("telemetry: register collector: %w", err)
		}
	}
	return m, nil
}

// Middleware counts and times every invocation, labelled by action name and outcome.
func (m *Metrics) Middleware() goservice.ActionMiddleware {
	return func(next goservice.ActionRunnerFunc) goservice.ActionRunnerFunc {
		return func(ctx *goservice.Context, action goservice.Action) (*goservice.Context, error) {
			name := goservice.ActionName(action)
			stopped := ctx.StopProcessing()

			m.inFlight.Inc()
			defer m.inFlight.Dec()

			start := time.Now()
			out, err := next(ctx, action)
			m.duration.WithLabelValues(name).Observe(time.Since(start).Seconds())

			outcome := goservice.ClassifyOutcome(ctx, stopped, err)
			m.invocations.WithLabelValues(name, string(outcome)).Inc()
			return out, err
		}
	}
}

// WritePrometheus writes every metric gathered from g to w in the Prometheus text format.
func WritePrometheus(g prometheus.Gatherer, w io.Writer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(w, expfmt.FmtText)
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}
