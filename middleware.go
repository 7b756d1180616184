package goservice

import (
	"errors"
	"time"
)

// Outcome classifies how an invocation ended, as observed by middleware.
type Outcome string

const (
	// OutcomeSuccess is an invocation that left the context successful
	OutcomeSuccess Outcome = "success"
	// OutcomeFailed is a soft failure: the context failed and no error was returned
	OutcomeFailed Outcome = "failed"
	// OutcomeSkipped is an invocation against a context that had already stopped processing
	OutcomeSkipped Outcome = "skipped"
	// OutcomeContractViolation is a missing expected or promised key
	OutcomeContractViolation Outcome = "contract_violation"
	// OutcomeHardFailure is a failure returned as a *Failure
	OutcomeHardFailure Outcome = "hard_failure"
	// OutcomeError is any other error returned by Execute
	OutcomeError Outcome = "error"
)

// ClassifyOutcome maps the result of an invocation to an Outcome.
// stoppedBefore must be ctx.StopProcessing() sampled before calling next.
func ClassifyOutcome(ctx *Context, stoppedBefore bool, err error) Outcome {
	var failure *Failure
	switch {
	case err == nil && stoppedBefore:
		return OutcomeSkipped
	case err == nil && ctx != nil && ctx.Failed():
		return OutcomeFailed
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, ErrMissingKeys):
		return OutcomeContractViolation
	case errors.As(err, &failure):
		return OutcomeHardFailure
	default:
		return OutcomeError
	}
}

// LoggingMiddleware creates a middleware that logs every invocation through the context's logger
func LoggingMiddleware() ActionMiddleware {
	return func(next ActionRunnerFunc) ActionRunnerFunc {
		return func(ctx *Context, action Action) (*Context, error) {
			logger := ctx.Logger()
			name := ActionName(action)
			stopped := ctx.StopProcessing()
			logger.Info("Middleware: Starting action %s", name)

			start := time.Now()
			out, err := next(ctx, action)
			duration := time.Since(start)

			outcome := ClassifyOutcome(ctx, stopped, err)
			if err != nil {
				logger.Error("Middleware: Action %s ended with %s after %v: %v",
					name, outcome, duration.Round(time.Millisecond), err)
			} else {
				logger.Info("Middleware: Action %s ended with %s in %v",
					name, outcome, duration.Round(time.Millisecond))
			}

			return out, err
		}
	}
}
