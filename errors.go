package goservice

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingKeys matches both MissingExpectedKeysError and MissingPromisedKeysError with errors.Is.
	ErrMissingKeys = errors.New("goservice: missing keys")
	// ErrKeyNotFound is returned by Fetch when the key is absent from the context.
	ErrKeyNotFound = errors.New("goservice: key not found")
	// ErrUnsupportedData is returned by Build when the seed is neither a Context nor a mapping.
	ErrUnsupportedData = errors.New("goservice: unsupported context data")
	// ErrUnknownAction is returned when no factory is registered under an action ID.
	ErrUnknownAction = errors.New("goservice: unknown action")
)

// Failure is returned when a context set to fail hard transitions to failed.
// It carries the failed context so callers can inspect its message and code.
type Failure struct {
	Context *Context
}

func (e *Failure) Error() string {
	if e == nil || e.Context == nil {
		return "goservice: action failed"
	}
	if msg := e.Context.Message(); msg != "" {
		return msg
	}
	return "goservice: action failed"
}

// KeyError is the common shape of key contract violations.
type KeyError struct {
	// Context is the context the contract was checked against
	Context *Context
	// Action is the action whose contract was violated
	Action Action
	// Keys lists every missing key in declaration order
	Keys []Key
}

// Is makes every key contract violation match ErrMissingKeys.
func (e *KeyError) Is(target error) bool {
	return target == ErrMissingKeys
}

func (e *KeyError) describe(verb string) string {
	return fmt.Sprintf("%s %s key(s): %s", ActionName(e.Action), verb, formatKeys(e.Keys))
}

// MissingExpectedKeysError is returned when an action is invoked on a context
// lacking keys its contract expects. Execute never runs in that case.
type MissingExpectedKeysError struct {
	KeyError
}

func (e *MissingExpectedKeysError) Error() string {
	return e.describe("did not find the expected")
}

// MissingPromisedKeysError is returned when an action reported success but
// left keys its contract promises unset.
type MissingPromisedKeysError struct {
	KeyError
}

func (e *MissingPromisedKeysError) Error() string {
	return e.describe("did not set the promised")
}

func formatKeys(keys []Key) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = string(k)
		if k == "" {
			parts[i] = `""`
		}
	}
	return strings.Join(parts, ", ")
}
