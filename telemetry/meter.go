package telemetry

import (
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/davidroman0O/goservice"
)

// NewMeterMiddleware creates a middleware recording invocation counts and
// durations as OpenTelemetry instruments. A nil meter uses the global provider.
func NewMeterMiddleware(meter metric.Meter) (goservice.ActionMiddleware, error) {
	if meter == nil {
		meter = otel.Meter(InstrumentationName)
	}

	invocations, err := meter.Int64Counter("goservice.action.invocations",
		metric.WithDescription("Action invocations by action and outcome."),
	)
	if err != nil {
		return nil, fmt.Errorf("telemetry: create counter: %w", err)
	}

	duration, err := meter.Float64Histogram("goservice.action.duration",
		metric.WithDescription("Action invocation duration."),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("telemetry: create histogram: %w", err)
	}

	return func(next goservice.ActionRunnerFunc) goservice.ActionRunnerFunc {
		return func(ctx *goservice.Context, action goservice.Action) (*goservice.Context, error) {
			name := goservice.ActionName(action)
			stopped := ctx.StopProcessing()

			start := time.Now()
			out, err := next(ctx, action)
			elapsed := time.Since(start).Seconds()

			outcome := goservice.ClassifyOutcome(ctx, stopped, err)
			goCtx := ctx.GoContext()
			invocations.Add(goCtx, 1, metric.WithAttributes(
				attribute.String("action", name),
				attribute.String("outcome", string(outcome)),
			))
			duration.Record(goCtx, elapsed, metric.WithAttributes(attribute.String("action", name)))

			return out, err
		}
	}, nil
}
