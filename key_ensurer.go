package goservice

// AssignAccepted writes the default of every accepted key of action's
// contract that is absent from ctx. Present keys are left untouched, even
// when they hold nil.
func AssignAccepted(ctx *Context, action Action) {
	for _, accepted := range ContractOf(action).accepted {
		if ctx.Has(accepted.Key) {
			continue
		}
		ctx.Set(accepted.Key, accepted.Value())
	}
}

// EnsureExpected returns a *MissingExpectedKeysError listing every expected
// key of action's contract absent from ctx, or nil.
func EnsureExpected(ctx *Context, action Action) error {
	missing := missingKeys(ctx, ContractOf(action).expected)
	if len(missing) == 0 {
		return nil
	}
	return &MissingExpectedKeysError{KeyError{Context: ctx, Action: action, Keys: missing}}
}

// EnsurePromised returns a *MissingPromisedKeysError listing every promised
// key of action's contract absent from ctx, or nil.
func EnsurePromised(ctx *Context, action Action) error {
	missing := missingKeys(ctx, ContractOf(action).promised)
	if len(missing) == 0 {
		return nil
	}
	return &MissingPromisedKeysError{KeyError{Context: ctx, Action: action, Keys: missing}}
}

func missingKeys(ctx *Context, required []Key) []Key {
	var missing []Key
	for _, k := range required {
		if !ctx.Has(k) {
			missing = append(missing, k)
		}
	}
	return missing
}
