package store

import (
	"errors"
	"fmt"
	"reflect"
	"slices"

	"github.com/invopop/jsonschema"
	"github.com/sasha-s/go-deadlock"
)

var (
	// ErrNotFound is returned by Get when the key is absent.
	ErrNotFound = errors.New("store: key not found")
	// ErrTypeMismatch matches every *MismatchError.
	ErrTypeMismatch = errors.New("store: type mismatch")
)

// MismatchError reports a typed read whose requested type does not match
// the stored value. It matches ErrTypeMismatch with errors.Is.
type MismatchError struct {
	Key  string
	Want reflect.Type
	Got  reflect.Type // nil when the key holds nil
}

func (e *MismatchError) Error() string {
	got := "nil"
	if e.Got != nil {
		got = e.Got.String()
	}
	return fmt.Sprintf("store: key %q holds %s, not %s", e.Key, got, e.Want)
}

func (e *MismatchError) Is(target error) bool { return target == ErrTypeMismatch }

// slot is one stored value. typ stays nil for nil values so a present key
// holding nil can be told apart from a missing key.
type slot struct {
	value any
	typ   reflect.Type
}

// KVStore holds the values of a single context keyed by name. Any string is
// a valid key, the empty string included.
type KVStore struct {
	mu    deadlock.RWMutex
	slots map[string]slot
}

// NewKVStore returns an empty store.
func NewKVStore() *KVStore {
	return &KVStore{slots: map[string]slot{}}
}

// Put stores value under key, replacing any previous value.
func (s *KVStore) Put(key string, value any) {
	sl := slot{value: value}
	if value != nil {
		sl.typ = reflect.TypeOf(value)
	}

	s.mu.Lock()
	s.slots[key] = sl
	s.mu.Unlock()
}

func (s *KVStore) lookup(key string) (slot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sl, ok := s.slots[key]
	return sl, ok
}

// Value returns the raw value under key and whether the key is present.
func (s *KVStore) Value(key string) (any, bool) {
	sl, ok := s.lookup(key)
	return sl.value, ok
}

// Has reports whether key is present. Keys holding nil count as present.
func (s *KVStore) Has(key string) bool {
	_, ok := s.lookup(key)
	return ok
}

// Get reads key as a T. Interface types match any value implementing them;
// other types must match the stored type exactly. A stored nil is returned
// as the zero value when T is nillable.
func Get[T any](s *KVStore, key string) (T, error) {
	var zero T
	sl, ok := s.lookup(key)
	if !ok {
		return zero, fmt.Errorf("%w: %q", ErrNotFound, key)
	}

	if sl.typ == nil {
		if nillable(reflect.TypeFor[T]()) {
			return zero, nil
		}
		return zero, &MismatchError{Key: key, Want: reflect.TypeFor[T]()}
	}

	v, ok := sl.value.(T)
	if !ok {
		return zero, &MismatchError{Key: key, Want: reflect.TypeFor[T](), Got: sl.typ}
	}
	return v, nil
}

func nillable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	}
	return false
}

// GetOrDefault is Get with fallback for absent keys. A present key of the
// wrong type is still an error.
func GetOrDefault[T any](s *KVStore, key string, fallback T) (T, error) {
	v, err := Get[T](s, key)
	if errors.Is(err, ErrNotFound) {
		return fallback, nil
	}
	return v, err
}

// Delete removes key and reports whether it was present.
func (s *KVStore) Delete(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.slots[key]; !ok {
		return false
	}
	delete(s.slots, key)
	return true
}

// Keys returns the stored keys sorted.
func (s *KVStore) Keys() []string {
	s.mu.RLock()
	keys := make([]string, 0, len(s.slots))
	for k := range s.slots {
		keys = append(keys, k)
	}
	s.mu.RUnlock()
	slices.Sort(keys)
	return keys
}

// Len returns the number of stored keys.
func (s *KVStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.slots)
}

// Snapshot returns the values in a new map. Values are not deep-copied.
func (s *KVStore) Snapshot() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]any, len(s.slots))
	for k, sl := range s.slots {
		out[k] = sl.value
	}
	return out
}

// TypeSchema renders t as an inline JSON Schema with no $ref or $defs, so it
// can be embedded as a property of a contract schema. Pointers are
// dereferenced. A nil type gives an empty schema that accepts anything.
func TypeSchema(t reflect.Type) *jsonschema.Schema {
	if t == nil {
		return &jsonschema.Schema{}
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	r := jsonschema.Reflector{
		Anonymous:      true,
		DoNotReference: true,
		ExpandedStruct: t.Kind() == reflect.Struct,
	}
	schema := r.ReflectFromType(t)
	schema.Version = ""
	schema.Definitions = nil
	return schema
}
