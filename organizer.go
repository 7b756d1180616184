package goservice

// Organizer feeds one context through a fixed sequence of actions.
// It stops as soon as the context stops processing, either because an action
// failed it or because one asked to skip the remaining actions.
type Organizer struct {
	// Name identifies the organizer in log output
	Name string
	// Actions is the ordered list of actions to run
	Actions []Action
}

// NewOrganizer creates an organizer running actions in the given order.
func NewOrganizer(name string, actions ...Action) *Organizer {
	return &Organizer{
		Name:    name,
		Actions: append([]Action{}, actions...),
	}
}

// Add appends actions to the sequence.
func (o *Organizer) Add(actions ...Action) *Organizer {
	o.Actions = append(o.Actions, actions...)
	return o
}

// AddByID appends a new instance of a registered action.
func (o *Organizer) AddByID(id string) error {
	action, err := NewActionFromRegistry(id)
	if err != nil {
		return err
	}
	o.Actions = append(o.Actions, action)
	return nil
}

// Call runs every action against data in order, leaving soft failures on the
// returned context. The first error stops the sequence and is returned.
func (o *Organizer) Call(data any, opts ...Option) (*Context, error) {
	return o.run(data, false, opts)
}

// CallBang runs every action demanding success; the first failure is returned as a *Failure.
func (o *Organizer) CallBang(data any, opts ...Option) (*Context, error) {
	return o.run(data, true, opts)
}

func (o *Organizer) run(data any, hard bool, opts []Option) (*Context, error) {
	ctx, err := Build(data, opts...)
	if err != nil {
		return nil, err
	}
	logger := ctx.Logger()
	logger.Info("Starting organizer %s with %d actions on context %s", o.Name, len(o.Actions), ctx.ID())

	for i, action := range o.Actions {
		if ctx.StopProcessing() {
			logger.Debug("Organizer %s stopping before action %d/%d", o.Name, i+1, len(o.Actions))
			break
		}

		inv, err := New(action, ctx)
		if err != nil {
			return ctx, err
		}

		if hard {
			_, err = inv.CallBang()
		} else {
			_, err = inv.Call()
		}
		if err != nil {
			logger.Error("Organizer %s: action %s: %v", o.Name, ActionName(action), err)
			return ctx, err
		}
	}

	logger.Info("Organizer %s finished: success=%t", o.Name, ctx.Success())
	return ctx, nil
}
