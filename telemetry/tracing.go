package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/davidroman0O/goservice"
)

// InstrumentationName is the tracer and meter name used when none is supplied.
const InstrumentationName = "github.com/davidroman0O/goservice"

// TracerConfig configures the OTLP exporter installed by InitTracer
type TracerConfig struct {
	ServiceName    string
	ExportEndpoint string
	Insecure       bool
}

// InitTracer installs a global tracer provider exporting spans over OTLP/HTTP.
// Callers own the returned provider and must shut it down.
func InitTracer(ctx context.Context, config TracerConfig) (*sdktrace.TracerProvider, error) {
	opts := []otlptracehttp.Option{
		otlptracehttp.WithEndpoint(config.ExportEndpoint),
	}
	if config.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}

	exporter, err := otlptrace.New(ctx, otlptracehttp.NewClient(opts...))
	if err != nil {
		return nil, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(config.ServiceName),
		),
	)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	return tp, nil
}

// Tracing creates a middleware opening one span per invocation.
// Spans are parented on the context's GoContext, which holds the span while
// the action runs so nested invocations become child spans. A nil tracer
// uses the global provider.
func Tracing(tracer trace.Tracer) goservice.ActionMiddleware {
	if tracer == nil {
		tracer = otel.Tracer(InstrumentationName)
	}

	return func(next goservice.ActionRunnerFunc) goservice.ActionRunnerFunc {
		return func(ctx *goservice.Context, action goservice.Action) (*goservice.Context, error) {
			name := goservice.ActionName(action)
			stopped := ctx.StopProcessing()

			parent := ctx.GoContext()
			spanCtx, span := tracer.Start(parent, "action "+name,
				trace.WithAttributes(
					attribute.String("action.name", name),
					attribute.String("context.id", ctx.ID()),
				),
			)
			defer span.End()

			ctx.SetGoContext(spanCtx)
			defer func() {
				ctx.SetGoContext(parent)
				if r := recover(); r != nil {
					span.SetAttributes(attribute.String("action.outcome", "panic"))
					span.SetStatus(codes.Error, fmt.Sprint(r))
					panic(r)
				}
			}()

			out, err := next(ctx, action)

			outcome := goservice.ClassifyOutcome(ctx, stopped, err)
			span.SetAttributes(
				attribute.String("action.outcome", string(outcome)),
				attribute.Bool("context.success", ctx.Success()),
			)
			switch {
			case err != nil:
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			case outcome == goservice.OutcomeFailed:
				span.SetStatus(codes.Error, ctx.Message())
			default:
				span.SetStatus(codes.Ok, "")
			}
			return out, err
		}
	}
}
