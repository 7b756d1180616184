package goservice

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/davidroman0O/goservice/store"
)

// Context is the shared state an action chain reads from and writes to.
// Besides its key/value entries it carries the status of the chain: whether
// it succeeded, the status message, whether failures escalate to errors, and
// the ordered log of actions that ran against it.
//
// A Context is not safe for concurrent use by actions; one logical, sequential
// flow is expected to own it.
type Context struct {
	id     string
	data   *store.KVStore
	config *Config

	success       bool
	failHard      bool
	skipRemaining bool
	message       string
	statusKey     Key
	failureCode   any

	currentAction Action
	calledActions []CalledAction
}

// StatusOption configures a status transition made with Fail or FailKey.
type StatusOption func(*statusChange)

type statusChange struct {
	code any
}

// WithCode attaches a failure code to a failed status.
func WithCode(code any) StatusOption {
	return func(s *statusChange) {
		s.code = code
	}
}

// NewContext creates a successful Context seeded with a copy of data.
func NewContext(data map[string]any, opts ...Option) *Context {
	return NewContextWithStatus(data, true, opts...)
}

// NewContextWithStatus creates a Context seeded with data whose initial status is success.
func NewContextWithStatus(data map[string]any, success bool, opts ...Option) *Context {
	c := &Context{
		id:      uuid.NewString(),
		data:    store.NewKVStore(),
		config:  NewConfig(opts...),
		success: success,
	}
	c.Merge(data)
	return c
}

// Build returns data unchanged when it already is a *Context, and otherwise
// builds a new Context from it. Mappings keyed by string or Key and nil are
// accepted; the options only apply when a new Context is built.
func Build(data any, opts ...Option) (*Context, error) {
	switch d := data.(type) {
	case *Context:
		if d == nil {
			return NewContext(nil, opts...), nil
		}
		return d, nil
	case nil:
		return NewContext(nil, opts...), nil
	case map[string]any:
		return NewContext(d, opts...), nil
	case map[Key]any:
		c := NewContext(nil, opts...)
		for k, v := range d {
			c.Set(k, v)
		}
		return c, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedData, data)
	}
}

// ID returns the unique identifier assigned to the context at construction.
func (c *Context) ID() string {
	return c.id
}

// Config returns the configuration the context was built with.
func (c *Context) Config() *Config {
	return c.config
}

// Logger is a shortcut to the configured logger.
func (c *Context) Logger() Logger {
	return c.config.Logger
}

// GoContext returns the context.Context used as parent for spans.
func (c *Context) GoContext() context.Context {
	return c.config.goContext
}

// SetGoContext replaces the context.Context used as parent for spans.
func (c *Context) SetGoContext(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	c.config.goContext = ctx
}

// Set stores value under key.
func (c *Context) Set(key Key, value any) {
	c.data.Put(string(key), value)
}

// Get returns the value stored under key and whether it is present.
func (c *Context) Get(key Key) (any, bool) {
	return c.data.Value(string(key))
}

// Has reports whether key is present, including keys holding nil.
func (c *Context) Has(key Key) bool {
	return c.data.Has(string(key))
}

// Delete removes key and reports whether it was present.
func (c *Context) Delete(key Key) bool {
	return c.data.Delete(string(key))
}

// Keys returns the present keys in lexical order.
func (c *Context) Keys() []Key {
	raw := c.data.Keys()
	keys := make([]Key, len(raw))
	for i, k := range raw {
		keys[i] = Key(k)
	}
	return keys
}

// Len returns the number of present keys.
func (c *Context) Len() int {
	return c.data.Len()
}

// Merge copies every entry of data into the context, overwriting existing keys.
func (c *Context) Merge(data map[string]any) {
	for k, v := range data {
		c.Set(Key(k), v)
	}
}

// Snapshot returns a shallow copy of the context's entries.
func (c *Context) Snapshot() map[string]any {
	return c.data.Snapshot()
}

// Fetch reads key from ctx as a T.
// It returns ErrKeyNotFound when the key is absent and a *store.MismatchError
// when the stored value is not a T.
func Fetch[T any](ctx *Context, key Key) (T, error) {
	v, err := store.Get[T](ctx.data, string(key))
	if errors.Is(err, store.ErrNotFound) {
		return v, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	return v, err
}

// GetOrDefault reads key from ctx as a T, returning defaultValue when the key
// is absent. A present key holding another type is a *store.MismatchError.
func GetOrDefault[T any](ctx *Context, key Key, defaultValue T) (T, error) {
	return store.GetOrDefault(ctx.data, string(key), defaultValue)
}

// Fail marks the context failed with a literal message. The status key of an
// earlier FailKey or SucceedKey is left in place.
// When the context is set to fail hard, the returned error is a *Failure
// carrying the context; otherwise it is nil.
func (c *Context) Fail(msg string, opts ...StatusOption) error {
	return c.fail(msg, opts)
}

// FailKey marks the context failed with a message resolved from key through
// the configured Translator, scoped to the current action.
// It returns a *Failure when the context is set to fail hard.
func (c *Context) FailKey(key Key, opts ...StatusOption) error {
	c.statusKey = key
	return c.fail(c.translate(key, StatusFailure), opts)
}

func (c *Context) fail(msg string, opts []StatusOption) error {
	change := statusChange{}
	for _, opt := range opts {
		opt(&change)
	}

	c.message = msg
	c.failureCode = change.code
	c.success = false

	if c.failHard {
		return &Failure{Context: c}
	}
	return nil
}

// Succeed marks the context successful with a literal message and clears any
// failure code. Like Fail, it keeps the previous status key.
func (c *Context) Succeed(msg string) {
	c.succeed(msg)
}

// SucceedKey marks the context successful with a message resolved from key.
func (c *Context) SucceedKey(key Key) {
	c.statusKey = key
	c.succeed(c.translate(key, StatusSuccess))
}

func (c *Context) succeed(msg string) {
	c.message = msg
	c.failureCode = nil
	c.success = true
}

func (c *Context) translate(key Key, typ StatusType) string {
	primary, defaults := TranslationKeys(c.currentAction, key, typ)
	return c.config.Translator.Translate(primary, defaults)
}

// FailHard makes subsequent failures return a *Failure.
func (c *Context) FailHard() {
	c.failHard = true
}

// FailSoft makes subsequent failures only record state. This is the default.
func (c *Context) FailSoft() {
	c.failHard = false
}

// IsFailHard reports whether failures escalate to errors.
func (c *Context) IsFailHard() bool {
	return c.failHard
}

// Success reports whether the context is successful.
func (c *Context) Success() bool {
	return c.success
}

// Failed reports whether the context is failed. It is always !Success().
func (c *Context) Failed() bool {
	return !c.success
}

// SkipRemaining makes every remaining action using this context return without running.
func (c *Context) SkipRemaining() {
	c.skipRemaining = true
}

// IsSkippingRemaining reports whether remaining actions will be skipped.
func (c *Context) IsSkippingRemaining() bool {
	return c.skipRemaining
}

// StopProcessing reports whether no further action should run against the context,
// which is the case once it failed or was told to skip the remaining actions.
func (c *Context) StopProcessing() bool {
	return c.Failed() || c.IsSkippingRemaining()
}

// Message returns the last status message, or "" when none was set.
func (c *Context) Message() string {
	return c.message
}

// StatusKey returns the key of the last FailKey or SucceedKey, or "" when no
// status message was ever resolved from a key. Literal messages leave it as is.
func (c *Context) StatusKey() Key {
	return c.statusKey
}

// FailureCode returns the code attached by the last failure, or nil.
func (c *Context) FailureCode() any {
	return c.failureCode
}

// CurrentAction returns the action presently operating on the context, or nil.
func (c *Context) CurrentAction() Action {
	return c.currentAction
}

// SetCurrentAction records the action presently operating on the context.
func (c *Context) SetCurrentAction(action Action) {
	c.currentAction = action
}

// AddCalledAction appends an action and its return value to the called-actions log.
func (c *Context) AddCalledAction(action Action, ret any) {
	c.calledActions = append(c.calledActions, CalledAction{Action: action, Return: ret})
}

// CalledActions returns the actions that ran against the context with their
// return values, in the order they were called.
func (c *Context) CalledActions() []CalledAction {
	out := make([]CalledAction, len(c.calledActions))
	copy(out, c.calledActions)
	return out
}

// String renders the context status and entries for diagnostics.
func (c *Context) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "#<Context id=%s success=%t message=%q fail_hard=%t skip_remaining=%t",
		c.id, c.success, c.message, c.failHard, c.skipRemaining)

	names := make([]string, len(c.calledActions))
	for i, ca := range c.calledActions {
		names[i] = ActionName(ca.Action)
	}
	fmt.Fprintf(&b, " called_actions=[%s]", strings.Join(names, ", "))

	for _, k := range c.data.Keys() {
		v, _ := c.data.Value(k)
		fmt.Fprintf(&b, " %s=%#v", k, v)
	}
	b.WriteString(">")
	return b.String()
}
