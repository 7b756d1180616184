// Package codegen generates contract declarations and typed context
// accessors for action types from a YAML manifest.
package codegen

import (
	"bytes"
	"errors"
	"fmt"
	"go/parser"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/davidroman0O/goservice/internal/validate"
)

// Manifest describes the action types of one Go package.
type Manifest struct {
	Package                string           `yaml:"package" validate:"required,go_ident"`
	DefineContextAccessors bool             `yaml:"define_context_accessors"`
	Actions                []ActionManifest `yaml:"actions" validate:"required,min=1,dive"`
}

// ActionManifest declares the contract of one action type.
type ActionManifest struct {
	// Type is the Go type name the Contract method is generated for
	Type string `yaml:"type" validate:"required,go_ident"`
	// Name overrides the action name derived from the type
	Name     string        `yaml:"name"`
	Accepts  []KeyManifest `yaml:"accepts" validate:"dive"`
	Expects  []KeyManifest `yaml:"expects" validate:"dive"`
	Promises []KeyManifest `yaml:"promises" validate:"dive"`
}

// KeyManifest declares one context key.
type KeyManifest struct {
	Key string `yaml:"key" validate:"required,context_key"`
	// Type is the Go type of the value, used by generated accessors; defaults to any
	Type string `yaml:"type" validate:"omitempty,go_type"`
	// Default is a Go expression used as the default of an accepted key
	Default string `yaml:"default"`
}

// ValueType returns the declared Go type, or any.
func (k KeyManifest) ValueType() string {
	if k.Type == "" {
		return "any"
	}
	return k.Type
}

// ParseManifest decodes and validates a YAML manifest.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("codegen: parse manifest: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// LoadManifest reads and validates the manifest at path.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("codegen: read manifest: %w", err)
	}
	m, err := ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Validate checks the manifest tags and the rules spanning several fields:
// unique action types, defaults only on accepted keys, parseable defaults and
// accessor names that do not clash.
func (m *Manifest) Validate() error {
	if err := validate.Struct(m); err != nil {
		return err
	}

	types := make(map[string]struct{}, len(m.Actions))
	for i, action := range m.Actions {
		if _, dup := types[action.Type]; dup {
			return validate.NewValidationError(fieldForAction(i, "type"), fmt.Sprintf("duplicate action type %q", action.Type), nil)
		}
		types[action.Type] = struct{}{}

		for j, k := range action.Accepts {
			if k.Default == "" {
				continue
			}
			if _, err := parser.ParseExpr(k.Default); err != nil {
				return validate.NewValidationError(fieldForKey(i, "accepts", j, "default"), fmt.Sprintf("invalid Go expression %q", k.Default), err)
			}
		}
		for _, group := range []struct {
			name string
			keys []KeyManifest
		}{{"expects", action.Expects}, {"promises", action.Promises}} {
			for j, k := range group.keys {
				if k.Default != "" {
					return validate.NewValidationError(fieldForKey(i, group.name, j, "default"), "only accepted keys take a default", nil)
				}
			}
		}

		if err := checkAccessorNames(i, action); err != nil {
			return err
		}
	}
	return nil
}

var reservedMethods = map[string]struct{}{"Contract": {}, "Execute": {}}

var errAccessorClash = errors.New("accessor name clash")

func checkAccessorNames(index int, action ActionManifest) error {
	seen := make(map[string]string)
	check := func(method, key string) error {
		if _, reserved := reservedMethods[method]; reserved {
			return validate.NewValidationError(fieldForAction(index, "type"), fmt.Sprintf("key %q maps to reserved method %s", key, method), errAccessorClash)
		}
		if other, ok := seen[method]; ok && other != key {
			return validate.NewValidationError(fieldForAction(index, "type"), fmt.Sprintf("keys %q and %q both map to method %s", other, key, method), errAccessorClash)
		}
		seen[method] = key
		return nil
	}

	for _, k := range readableKeys(action) {
		if err := check(AccessorName(k.Key), k.Key); err != nil {
			return err
		}
	}
	for _, k := range action.Promises {
		if err := check("Set"+AccessorName(k.Key), k.Key); err != nil {
			return err
		}
	}
	return nil
}

func fieldForAction(index int, field string) string {
	return fmt.Sprintf("actions[%d].%s", index, field)
}

func fieldForKey(action int, group string, key int, field string) string {
	return fmt.Sprintf("actions[%d].%s[%d].%s", action, group, key, field)
}
