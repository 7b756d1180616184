package goservice

import (
	"reflect"

	"github.com/invopop/jsonschema"
	"github.com/sasha-s/go-deadlock"

	"github.com/davidroman0O/goservice/store"
)

// Contract declares the keys an action type works with.
//
// Contracts are built once per action type with the chaining methods below,
// typically into a package-level variable returned by the action's Contract method:
//
//	var chargeContract = goservice.NewContract().
//		Accepts("currency", goservice.Default("usd")).
//		Expects("amount", "card").
//		Promises("charge_id")
//
//	func (ChargeCard) Contract() *goservice.Contract { return chargeContract }
type Contract struct {
	name     string
	accepted []AcceptedKey
	expected []Key
	promised []Key
}

// AcceptedKey is an optional key together with the default written into the
// context when the key is absent.
type AcceptedKey struct {
	Key Key
	// Default is either a literal value or a producer (func() any) invoked on assignment
	Default any
}

// Value materializes the default: producers are invoked, literals returned as-is.
func (a AcceptedKey) Value() any {
	if produce, ok := a.Default.(func() any); ok {
		return produce()
	}
	return a.Default
}

// AcceptOption configures an accepted key.
type AcceptOption func(*AcceptedKey)

// Default sets the literal default of an accepted key.
// A func() any passed here is treated as a producer, like DefaultFunc.
func Default(value any) AcceptOption {
	return func(a *AcceptedKey) {
		a.Default = value
	}
}

// DefaultFunc sets a producer invoked each time the default is needed.
func DefaultFunc(produce func() any) AcceptOption {
	return func(a *AcceptedKey) {
		a.Default = produce
	}
}

// NewContract creates an empty contract.
func NewContract() *Contract {
	return &Contract{}
}

// Named overrides the action name derived from the Go type.
// The name scopes translations and appears in error messages.
func (c *Contract) Named(name string) *Contract {
	c.name = name
	return c
}

// Accepts registers an optional key.
// Declaring the same key twice keeps the last declaration.
func (c *Contract) Accepts(key Key, opts ...AcceptOption) *Contract {
	accepted := AcceptedKey{Key: key}
	for _, opt := range opts {
		opt(&accepted)
	}
	for i, existing := range c.accepted {
		if existing.Key == key {
			c.accepted[i] = accepted
			return c
		}
	}
	c.accepted = append(c.accepted, accepted)
	return c
}

// Expects registers keys that must be present before the action executes.
func (c *Contract) Expects(keys ...Key) *Contract {
	c.expected = appendUnique(c.expected, keys)
	return c
}

// Promises registers keys that must be present after the action executes
// without failing the context.
func (c *Contract) Promises(keys ...Key) *Contract {
	c.promised = appendUnique(c.promised, keys)
	return c
}

// Name returns the explicit name set with Named, or "".
func (c *Contract) Name() string {
	return c.name
}

// AcceptedKeys returns the accepted keys in declaration order.
func (c *Contract) AcceptedKeys() []AcceptedKey {
	return append([]AcceptedKey(nil), c.accepted...)
}

// ExpectedKeys returns the expected keys in declaration order.
func (c *Contract) ExpectedKeys() []Key {
	return append([]Key(nil), c.expected...)
}

// PromisedKeys returns the promised keys in declaration order.
func (c *Contract) PromisedKeys() []Key {
	return append([]Key(nil), c.promised...)
}

// InputSchema describes the context an action can run against: every
// accepted key with its default and every expected key, the latter required.
func (c *Contract) InputSchema() *jsonschema.Schema {
	schema := &jsonschema.Schema{
		Type:       "object",
		Properties: jsonschema.NewProperties(),
	}

	for _, a := range c.accepted {
		prop := &jsonschema.Schema{}
		if _, producer := a.Default.(func() any); !producer && a.Default != nil {
			prop = store.TypeSchema(reflect.TypeOf(a.Default))
			prop.Default = a.Default
		}
		prop.Description = "accepted"
		schema.Properties.Set(string(a.Key), prop)
	}
	for _, k := range c.expected {
		if _, ok := schema.Properties.Get(string(k)); !ok {
			schema.Properties.Set(string(k), &jsonschema.Schema{Description: "expected"})
		}
		schema.Required = append(schema.Required, string(k))
	}
	return schema
}

// OutputSchema describes the keys a successful run guarantees.
func (c *Contract) OutputSchema() *jsonschema.Schema {
	schema := &jsonschema.Schema{
		Type:       "object",
		Properties: jsonschema.NewProperties(),
	}
	for _, k := range c.promised {
		schema.Properties.Set(string(k), &jsonschema.Schema{Description: "promised"})
		schema.Required = append(schema.Required, string(k))
	}
	return schema
}

func appendUnique(dst []Key, keys []Key) []Key {
	for _, k := range keys {
		seen := false
		for _, existing := range dst {
			if existing == k {
				seen = true
				break
			}
		}
		if !seen {
			dst = append(dst, k)
		}
	}
	return dst
}

var (
	contractsMu deadlock.RWMutex
	contracts   = make(map[reflect.Type]*Contract)
)

// ContractOf returns the contract declared by action's type.
// The Contract method is called once per concrete type; later calls return
// the cached contract, so all instances of a type share it.
func ContractOf(action Action) *Contract {
	t := reflect.TypeOf(action)

	contractsMu.RLock()
	c, ok := contracts[t]
	contractsMu.RUnlock()
	if ok {
		return c
	}

	c = action.Contract()
	if c == nil {
		c = NewContract()
	}

	contractsMu.Lock()
	defer contractsMu.Unlock()
	if existing, ok := contracts[t]; ok {
		return existing
	}
	contracts[t] = c
	return c
}

// ActionName returns the name of action: the contract's explicit name when
// set, otherwise the Go type name qualified by its package ("billing.ChargeCard").
func ActionName(action Action) string {
	if action == nil {
		return "<nil>"
	}
	if name := ContractOf(action).Name(); name != "" {
		return name
	}
	t := reflect.TypeOf(action)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.String()
}

// BaseAction provides an empty contract and a no-op Execute.
// Embed it in action types that only need to override part of Action.
type BaseAction struct{}

var emptyContract = NewContract()

// Contract implements Action with a contract declaring no keys.
func (BaseAction) Contract() *Contract {
	return emptyContract
}

// Execute implements Action and does nothing.
func (BaseAction) Execute(*Context) (any, error) {
	return nil, nil
}
