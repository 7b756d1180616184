package goservice

import (
	"fmt"
	"maps"
	"slices"

	"github.com/sasha-s/go-deadlock"
)

// factories maps action IDs to constructors for composition by name,
// such as organizers assembled from configuration.
var factories = struct {
	deadlock.RWMutex
	byID map[string]ActionFactory
}{byID: map[string]ActionFactory{}}

// RegisterAction makes factory available under id. Registration normally
// happens from init, so an empty id, a nil factory or a reused id panics.
func RegisterAction(id string, factory ActionFactory) {
	if id == "" || factory == nil {
		panic("goservice: RegisterAction needs an id and a factory")
	}

	factories.Lock()
	defer factories.Unlock()
	if _, dup := factories.byID[id]; dup {
		panic(fmt.Sprintf("goservice: action %q registered twice", id))
	}
	factories.byID[id] = factory
}

// NewActionFromRegistry builds a fresh action from the factory registered
// under id, or returns an error wrapping ErrUnknownAction.
func NewActionFromRegistry(id string) (Action, error) {
	factories.RLock()
	factory := factories.byID[id]
	factories.RUnlock()

	if factory == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, id)
	}
	return factory(), nil
}

// RegisteredActions lists the registered IDs, sorted.
func RegisteredActions() []string {
	factories.RLock()
	defer factories.RUnlock()
	return slices.Sorted(maps.Keys(factories.byID))
}
