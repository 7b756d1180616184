package goservice

// Invocation is one run of an action against a context.
// It is created by New, which prepares the context, and consumed by Call or CallBang.
type Invocation struct {
	action Action
	ctx    *Context
}

// New prepares action to run against data.
// data is either an existing *Context, reused as-is, or a mapping a new
// Context is built from with opts. Defaults of accepted keys absent from the
// context are written immediately.
func New(action Action, data any, opts ...Option) (*Invocation, error) {
	ctx, err := Build(data, opts...)
	if err != nil {
		return nil, err
	}
	AssignAccepted(ctx, action)
	return &Invocation{action: action, ctx: ctx}, nil
}

// Call prepares and runs action against data. See Invocation.Call.
func Call(action Action, data any, opts ...Option) (*Context, error) {
	inv, err := New(action, data, opts...)
	if err != nil {
		return nil, err
	}
	return inv.Call()
}

// CallBang prepares and runs action against data, demanding success.
// See Invocation.CallBang.
func CallBang(action Action, data any, opts ...Option) (*Context, error) {
	inv, err := New(action, data, opts...)
	if err != nil {
		return nil, err
	}
	return inv.CallBang()
}

// Action returns the action being invoked.
func (i *Invocation) Action() Action {
	return i.action
}

// Context returns the context the action runs against.
func (i *Invocation) Context() *Context {
	return i.ctx
}

// Call runs the action through the context's middleware chain.
//
// A context that already stopped processing is returned untouched. Otherwise
// expected keys are checked, the action executes and is recorded, and unless
// the context failed its promised keys are checked. Soft failures are left on
// the returned context with a nil error; contract violations, errors returned
// by Execute and hard failures are returned as errors, always alongside the context.
func (i *Invocation) Call() (*Context, error) {
	var handler ActionRunnerFunc = run

	// Apply middleware in reverse order so the first registered runs outermost
	middleware := i.ctx.config.Middleware
	for m := len(middleware) - 1; m >= 0; m-- {
		handler = middleware[m](handler)
	}

	return handler(i.ctx, i.action)
}

// CallBang sets the context to fail hard and runs the action, so any failure
// is returned as a *Failure. A nil error therefore means success.
func (i *Invocation) CallBang() (*Context, error) {
	i.ctx.FailHard()
	return i.Call()
}

// run is the core action lifecycle wrapped by middleware.
func run(ctx *Context, action Action) (*Context, error) {
	logger := ctx.Logger()
	name := ActionName(action)

	if ctx.StopProcessing() {
		logger.Debug("Skipping action %s: context %s stopped processing", name, ctx.ID())
		return ctx, nil
	}

	if err := EnsureExpected(ctx, action); err != nil {
		logger.Error("%v", err)
		return ctx, err
	}

	ctx.SetCurrentAction(action)
	logger.Debug("Executing action %s on context %s", name, ctx.ID())

	ret, err := action.Execute(ctx)
	if err != nil {
		logger.Debug("Action %s returned error: %v", name, err)
		return ctx, err
	}

	// Execute may drop the error returned by Fail; a hard context still has to surface it.
	if ctx.IsFailHard() && ctx.Failed() {
		return ctx, &Failure{Context: ctx}
	}

	ctx.AddCalledAction(action, ret)

	if ctx.Failed() {
		logger.Debug("Action %s failed: %s", name, ctx.Message())
		return ctx, nil
	}

	if err := EnsurePromised(ctx, action); err != nil {
		logger.Error("%v", err)
		return ctx, err
	}

	logger.Debug("Completed action %s", name)
	return ctx, nil
}
