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

package reflect

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// ErrReflectNilType is returned when a nil reflect.Type is provided.
	ErrReflectNilType = errors.New("reflect: nil reflect.Type provided")
	// ErrReflectNotAssignable indicates a decoded value that cannot be stored
	// into the target type.
	ErrReflectNotAssignable = errors.New("reflect: value not assignable")
)

var errorType = reflect.TypeFor[error]()

// IsEmptyInterface reports whether t is interface{} / any.
func IsEmptyInterface(t reflect.Type) bool {
	return t != nil && t.Kind() == reflect.Interface && t.NumMethod() == 0
}

// IsPrimitiveKind reports whether k is a basic, non-composite kind.
func IsPrimitiveKind(k reflect.Kind) bool {
	switch k {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128,
		reflect.String:
		return true
	}
	return false
}

// IsIntKind reports whether k is a signed integer kind.
func IsIntKind(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Int64
}

// IsUintKind reports whether k is an unsigned integer kind (uintptr excluded).
func IsUintKind(k reflect.Kind) bool {
	return k >= reflect.Uint && k <= reflect.Uint64
}

// IsFloatKind reports whether k is a floating point kind.
func IsFloatKind(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}

// FieldName returns the JSON name of a struct field honoring the `json` tag.
// skip is true for `json:"-"`; tagged is true when the tag names the field.
func FieldName(f reflect.StructField) (name string, tagged, skip bool) {
	tag, ok := f.Tag.Lookup("json")
	if !ok {
		return f.Name, false, false
	}
	if tag == "-" {
		return "", false, true
	}
	// trim options
	if idx := strings.IndexByte(tag, ','); idx >= 0 {
		tag = tag[:idx]
	}
	if tag == "" {
		return f.Name, false, false
	}
	return tag, true, false
}

// SetterName returns the property suffix of a setter method: a method named
// SetXxx on a pointer type taking exactly one argument and returning nothing
// or an error. The receiver counts as the first input of m.Type.
func SetterName(m reflect.Method) (string, bool) {
	if !strings.HasPrefix(m.Name, "Set") || len(m.Name) <= len("Set") {
		return "", false
	}
	mt := m.Type
	if mt.NumIn() != 2 {
		return "", false
	}
	switch mt.NumOut() {
	case 0:
	case 1:
		if mt.Out(0) != errorType {
			return "", false
		}
	default:
		return "", false
	}
	return m.Name[len("Set"):], true
}

// LowerFirst lower-cases the first rune: "FullName" -> "fullName".
func LowerFirst(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || unicode.IsLower(r) {
		return s
	}
	return string(unicode.ToLower(r)) + s[n:]
}

// Assign converts a decoded value into a reflect.Value of type t.
// nil becomes the zero value; values of a different but convertible type of
// the same kind (e.g. string -> named string type) are converted.
func Assign(v any, t reflect.Type) (reflect.Value, error) {
	if t == nil {
		return reflect.Value{}, ErrReflectNilType
	}
	if v == nil {
		return reflect.Zero(t), nil
	}
	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(t) {
		if rv.Type() == t {
			return rv, nil
		}
		out := reflect.New(t).Elem()
		out.Set(rv)
		return out, nil
	}
	if rv.Kind() == t.Kind() && rv.Type().ConvertibleTo(t) {
		return rv.Convert(t), nil
	}
	return reflect.Value{}, fmt.Errorf("%w: %v into %v", ErrReflectNotAssignable, rv.Type(), t)
}
