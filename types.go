package goservice

// Key identifies an entry in a Context.
// Keys are compared by their string form, so an untyped string constant, a
// string converted with Key(s) and a key of a map[string]any seed all address
// the same entry.
type Key string

// String implements fmt.Stringer.
func (k Key) String() string {
	return string(k)
}

// Action is a unit of work operating on a shared Context.
// Actions declare the keys they accept, expect and promise through their
// Contract, and report business outcomes through Context.Fail and
// Context.Succeed rather than through returned errors.
type Action interface {
	// Contract returns the key contract declared for the action's type.
	// It is resolved once per concrete type and cached; see ContractOf.
	Contract() *Contract

	// Execute performs the action's work against ctx.
	// The returned value is recorded in the context's called-actions log.
	// A returned error aborts the invocation and is propagated unmodified.
	Execute(ctx *Context) (any, error)
}

// ActionFactory is a function that creates a new instance of an Action.
// It's used by the registry to instantiate actions from their IDs.
type ActionFactory func() Action

// ActionRunnerFunc is the core function type for running an action against a context.
type ActionRunnerFunc func(ctx *Context, action Action) (*Context, error)

// ActionMiddleware represents a function that wraps action execution.
// It allows performing operations before and after an action runs, such as
// logging, metrics or tracing. Middleware sees every invocation, including the
// ones short-circuited because the context already stopped processing.
type ActionMiddleware func(next ActionRunnerFunc) ActionRunnerFunc

// CalledAction is one entry of a context's called-actions log.
type CalledAction struct {
	// Action is the action that ran against the context
	Action Action
	// Return is the value returned by the action's Execute
	Return any
}

// Logger provides a simple interface for action logging
type Logger interface {
	// Debug logs a message at debug level
	Debug(format string, args ...interface{})

	// Info logs a message at info level
	Info(format string, args ...interface{})

	// Warn logs a message at warning level
	Warn(format string, args ...interface{})

	// Error logs a message at error level
	Error(format string, args ...interface{})
}

// Translator resolves status message keys to display messages.
// key is the most specific lookup key; defaults are tried in order when key
// has no translation. Implementations return a best-effort string and never fail.
type Translator interface {
	Translate(key string, defaults []string) string
}

// StatusType selects the generic fallback used when translating a status message.
type StatusType string

const (
	// StatusFailure is the translation type used by Context.FailKey
	StatusFailure StatusType = "failure"
	// StatusSuccess is the translation type used by Context.SucceedKey
	StatusSuccess StatusType = "success"
)

// ScopeRoot is the root of every translation key resolved by a Context.
const ScopeRoot = "actions"
