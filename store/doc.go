// Package store holds the key-value data behind a goservice Context.
//
// Each value is kept with its dynamic type. Reads go through Value for the
// raw value or through the generic Get, which checks the type and reports a
// *MismatchError otherwise. A key set to nil stays present: Has reports true
// and Get returns the zero value for nillable types. Key contracts rely on
// this, since a key holding nil still counts as provided.
//
// Schema and TypeSchema describe stored types as JSON Schema for contract
// documentation.
package store
