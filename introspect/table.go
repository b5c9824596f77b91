/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package introspect

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"dirpx.dev/jrx/apis"
)

var (
	// ErrNilType is returned when a nil reflect.Type is provided.
	ErrNilType = errors.New("jrx(introspect): nil reflect.Type provided")
	// ErrConflictingRegistration indicates an attempt to describe a type twice.
	ErrConflictingRegistration = errors.New("jrx(introspect): conflicting type registration")
	// ErrEmptyEnum is returned when an enum is registered without constants.
	ErrEmptyEnum = errors.New("jrx(introspect): enum has no constants")
	// ErrEmptyName is returned for an enum constant without a label.
	ErrEmptyName = errors.New("jrx(introspect): empty enum constant name")
	// ErrConstantType is returned when an enum constant is not of the enum type.
	ErrConstantType = errors.New("jrx(introspect): enum constant has the wrong type")
	// ErrConstructor wraps a failing constructor.
	ErrConstructor = errors.New("jrx(introspect): constructor failed")
)

// Descriptor overrides what reflection discovers about a record type.
type Descriptor struct {
	// NoDefault removes the default (zero value) constructor, so the type can
	// only be built from a string or integer token.
	NoDefault bool
	// FromString builds a T (or *T) from a JSON string.
	FromString func(s string) (any, error)
	// FromInt builds a T (or *T) from a JSON integer.
	FromInt func(n int64) (any, error)
	// Ignore lists JSON or Go property names to drop.
	Ignore []string
}

// Ensure Table implements apis.Introspector.
var _ apis.Introspector = (*Table)(nil)

// Table is the explicit type-descriptor table: registered record descriptors
// and enums, with reflection filling in whatever is not registered.
type Table struct {
	// mu guards write-side consistency and counter
	mu sync.Mutex
	// descriptors maps reflect.Type to Descriptor.
	descriptors sync.Map
	// enums maps reflect.Type to *apis.EnumDefinition.
	enums sync.Map
	// records caches computed *apis.RecordDefinition by reflect.Type.
	records sync.Map
	// count tracks the number of registrations.
	count int
}

// New returns an empty Table.
func New() *Table {
	return &Table{}
}

// Define registers a descriptor for t. A type can be described only once.
func (tab *Table) Define(t reflect.Type, d Descriptor) error {
	if t == nil {
		return ErrNilType
	}

	tab.mu.Lock()
	defer tab.mu.Unlock()

	if _, ok := tab.descriptors.Load(t); ok {
		return ErrConflictingRegistration
	}
	tab.descriptors.Store(t, d)
	tab.records.Delete(t)
	tab.count++
	return nil
}

// DefineEnum registers t as an enum with the given constants.
// Re-registering the same labels is a no-op.
func (tab *Table) DefineEnum(t reflect.Type, constants ...apis.EnumConstant) error {
	if t == nil {
		return ErrNilType
	}
	if len(constants) == 0 {
		return ErrEmptyEnum
	}
	for _, c := range constants {
		if c.Name == "" {
			return ErrEmptyName
		}
		if !c.Value.IsValid() || c.Value.Type() != t {
			return fmt.Errorf("%w: %s is not %v", ErrConstantType, c.Name, t)
		}
	}
	def := &apis.EnumDefinition{Type: t, Constants: append([]apis.EnumConstant(nil), constants...)}

	// Fast read path: idempotency / conflict check without locking.
	if old, ok := tab.enums.Load(t); ok {
		return sameEnum(old.(*apis.EnumDefinition), def)
	}

	tab.mu.Lock()
	defer tab.mu.Unlock()

	// Re-check under lock in case another goroutine stored meanwhile.
	if old, ok := tab.enums.Load(t); ok {
		return sameEnum(old.(*apis.EnumDefinition), def)
	}
	tab.enums.Store(t, def)
	tab.count++
	return nil
}

func sameEnum(a, b *apis.EnumDefinition) error {
	if len(a.Constants) != len(b.Constants) {
		return ErrConflictingRegistration
	}
	for i := range a.Constants {
		if a.Constants[i].Name != b.Constants[i].Name {
			return ErrConflictingRegistration
		}
	}
	return nil
}

// RegisterEnum registers T as an enum whose labels are fmt.Sprint of each
// value (the String method when T has one).
func RegisterEnum[T comparable](tab *Table, values ...T) error {
	constants := make([]apis.EnumConstant, 0, len(values))
	for _, v := range values {
		constants = append(constants, apis.EnumConstant{
			Name:  fmt.Sprint(v),
			Value: reflect.ValueOf(v),
		})
	}
	return tab.DefineEnum(reflect.TypeFor[T](), constants...)
}

// Enum returns the registered constants of t.
func (tab *Table) Enum(t reflect.Type) (*apis.EnumDefinition, bool) {
	if t == nil {
		return nil, false
	}
	if v, ok := tab.enums.Load(t); ok {
		return v.(*apis.EnumDefinition), true
	}
	return nil, false
}

// Record describes t, combining reflection with any registered Descriptor.
// Results are cached; the returned definition must not be modified.
func (tab *Table) Record(t reflect.Type) (*apis.RecordDefinition, error) {
	if t == nil {
		return nil, ErrNilType
	}
	if v, ok := tab.records.Load(t); ok {
		return v.(*apis.RecordDefinition), nil
	}

	var d Descriptor
	if v, ok := tab.descriptors.Load(t); ok {
		d = v.(Descriptor)
	}
	def, err := describe(t, d)
	if err != nil {
		return nil, err
	}
	v, _ := tab.records.LoadOrStore(t, def)
	return v.(*apis.RecordDefinition), nil
}

// Count returns the number of registrations (descriptors plus enums).
func (tab *Table) Count() int {
	tab.mu.Lock()
	defer tab.mu.Unlock()
	return tab.count
}
