// Package logging adapts zerolog to the goservice.Logger interface.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/davidroman0O/goservice"
)

// Options describes logger configuration supplied at creation time.
type Options struct {
	Level         string
	HumanReadable bool
	Writer        io.Writer
}

// Logger wraps zerolog and implements goservice.Logger.
type Logger struct {
	base zerolog.Logger
}

var _ goservice.Logger = (*Logger)(nil)

// New creates a configured Logger instance based on Options.
func New(opts Options) (*Logger, error) {
	writer := opts.Writer
	if writer == nil {
		writer = os.Stdout
	}

	level := zerolog.InfoLevel
	if opts.Level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return nil, fmt.Errorf("logging: %w", err)
		}
		level = parsed
	}

	var output io.Writer = writer
	if opts.HumanReadable {
		console := zerolog.NewConsoleWriter()
		console.Out = writer
		console.TimeFormat = time.RFC3339
		output = console
	}

	logger := zerolog.New(output).Level(level).With().Timestamp().Logger()
	return &Logger{base: logger}, nil
}

// WithFields returns a derived logger that always writes the supplied fields.
func (l *Logger) WithFields(fields map[string]any) *Logger {
	if l == nil {
		return nil
	}

	builder := l.base.With()
	for key, value := range fields {
		builder = builder.Interface(key, value)
	}

	derived := Logger{base: builder.Logger()}
	return &derived
}

// Debug writes a debug-level log entry if enabled.
func (l *Logger) Debug(format string, args ...interface{}) {
	if l == nil {
		return
	}
	l.base.Debug().Msgf(format, args...)
}

// Info writes an informational log entry.
func (l *Logger) Info(format string, args ...interface{}) {
	if l == nil {
		return
	}
	l.base.Info().Msgf(format, args...)
}

// Warn writes a warning level log entry.
func (l *Logger) Warn(format string, args ...interface{}) {
	if l == nil {
		return
	}
	l.base.Warn().Msgf(format, args...)
}

// Error writes an error log entry.
func (l *Logger) Error(format string, args ...interface{}) {
	if l == nil {
		return
	}
	l.base.Error().Msgf(format, args...)
}

// Middleware writes one structured entry per invocation, carrying the action
// name, context ID, outcome and duration as fields. A nil logger gives a
// middleware that only calls through.
func Middleware(l *Logger) goservice.ActionMiddleware {
	return func(next goservice.ActionRunnerFunc) goservice.ActionRunnerFunc {
		if l == nil {
			return next
		}
		return func(ctx *goservice.Context, action goservice.Action) (*goservice.Context, error) {
			stopped := ctx.StopProcessing()
			start := time.Now()
			out, err := next(ctx, action)

			outcome := goservice.ClassifyOutcome(ctx, stopped, err)
			event := l.base.Info()
			if err != nil {
				event = l.base.Error().Err(err)
			}
			event.
				Str("action", goservice.ActionName(action)).
				Str("context_id", ctx.ID()).
				Str("outcome", string(outcome)).
				Dur("duration", time.Since(start)).
				Bool("success", ctx.Success()).
				Msg("action invoked")

			return out, err
		}
	}
}
