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

package apis

import (
	"reflect"
)

// RecordDefinition is the raw, access-rule-free description of a record
// type: every candidate property plus the constructors of interest.
type RecordDefinition struct {
	// Type is the described type.
	Type reflect.Type
	// Properties are in declaration order; setter-only properties follow fields.
	Properties []PropertyDefinition
	// New returns a pointer to a fresh value, or is nil when the type has no
	// default constructor.
	New func() reflect.Value
	// FromString builds a pointer to a value from a JSON string, or is nil.
	FromString func(s string) (reflect.Value, error)
	// FromInt builds a pointer to a value from a JSON integer, or is nil.
	FromInt func(n int64) (reflect.Value, error)
}

// HasConstructor reports whether any constructor is available.
func (d *RecordDefinition) HasConstructor() bool {
	return d.New != nil || d.FromString != nil || d.FromInt != nil
}

// PropertyDefinition describes one named property of a record.
type PropertyDefinition struct {
	// Name is the JSON name.
	Name string
	// GoName is the Go field (or setter suffix) name.
	GoName string
	// Type is the value type: the setter argument when a setter exists,
	// otherwise the field type.
	Type reflect.Type
	// Field is the backing struct field; Field.Index is the full path from
	// the record root. Nil for setter-only properties.
	Field *reflect.StructField
	// Setter is a method of the pointer type taking one argument and
	// returning nothing or an error. Nil when absent.
	Setter *reflect.Method
}

// FieldExported reports whether the backing field is exported.
func (p *PropertyDefinition) FieldExported() bool {
	return p.Field != nil && p.Field.IsExported()
}

// EnumConstant is one named value of an enum type.
type EnumConstant struct {
	Name  string
	Value reflect.Value
}

// EnumDefinition lists every declared constant of an enum type.
type EnumDefinition struct {
	Type      reflect.Type
	Constants []EnumConstant
}

// Introspector resolves type descriptors.
// Implementations must be safe for concurrent use.
type Introspector interface {
	// Record describes t as a record type.
	Record(t reflect.Type) (*RecordDefinition, error)
	// Enum returns the constants of t if t is a registered enum type.
	Enum(t reflect.Type) (*EnumDefinition, bool)
}
