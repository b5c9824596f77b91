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
	"encoding"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"dirpx.dev/jrx/apis"
	uref "dirpx.dev/jrx/utils/reflect"
)

var textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()

// describe builds the RecordDefinition of t.
func describe(t reflect.Type, d Descriptor) (*apis.RecordDefinition, error) {
	def := &apis.RecordDefinition{Type: t}

	if t.Kind() == reflect.Struct {
		def.Properties = fields(t, nil, map[string]bool{})
	}
	def.Properties = setters(t, def.Properties)
	if len(d.Ignore) > 0 {
		def.Properties = slices.DeleteFunc(def.Properties, func(p apis.PropertyDefinition) bool {
			return slices.Contains(d.Ignore, p.Name) || slices.Contains(d.Ignore, p.GoName)
		})
	}

	if t.Kind() == reflect.Struct && !d.NoDefault {
		def.New = func() reflect.Value { return reflect.New(t) }
	}

	switch {
	case d.FromString != nil:
		def.FromString = func(s string) (reflect.Value, error) {
			v, err := d.FromString(s)
			if err != nil {
				return reflect.Value{}, fmt.Errorf("%w: %w", ErrConstructor, err)
			}
			return pointerTo(t, v)
		}
	case reflect.PointerTo(t).Implements(textUnmarshalerType):
		def.FromString = func(s string) (reflect.Value, error) {
			p := reflect.New(t)
			if err := p.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(s)); err != nil {
				return reflect.Value{}, fmt.Errorf("%w: %w", ErrConstructor, err)
			}
			return p, nil
		}
	default:
		if p, ok := wrapped(t, def.Properties, reflect.String); ok {
			def.FromString = func(s string) (reflect.Value, error) {
				ptr := reflect.New(t)
				ptr.Elem().FieldByIndex(p.Field.Index).SetString(s)
				return ptr, nil
			}
		}
	}

	switch {
	case d.FromInt != nil:
		def.FromInt = func(n int64) (reflect.Value, error) {
			v, err := d.FromInt(n)
			if err != nil {
				return reflect.Value{}, fmt.Errorf("%w: %w", ErrConstructor, err)
			}
			return pointerTo(t, v)
		}
	default:
		if p, ok := wrapped(t, def.Properties, reflect.Int); ok {
			def.FromInt = func(n int64) (reflect.Value, error) {
				ptr := reflect.New(t)
				if err := setInt(ptr.Elem().FieldByIndex(p.Field.Index), n); err != nil {
					return reflect.Value{}, err
				}
				return ptr, nil
			}
		}
	}

	return def, nil
}

// fields collects struct fields in declaration order. Fields of embedded
// non-pointer structs are promoted after the direct fields, and a shallower
// name always wins.
func fields(t reflect.Type, index []int, seen map[string]bool) []apis.PropertyDefinition {
	var (
		out      []apis.PropertyDefinition
		embedded []reflect.StructField
	)
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name, tagged, skip := uref.FieldName(f)
		if skip {
			continue
		}
		f.Index = append(slices.Clip(index), i)
		if f.Anonymous && !tagged && f.Type.Kind() == reflect.Struct {
			embedded = append(embedded, f)
			continue
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, apis.PropertyDefinition{
			Name:   name,
			GoName: f.Name,
			Type:   f.Type,
			Field:  &f,
		})
	}
	for _, e := range embedded {
		out = append(out, fields(e.Type, e.Index, seen)...)
	}
	return out
}

// setters attaches SetXxx methods of *t to matching properties, appending
// setter-only properties at the end.
func setters(t reflect.Type, props []apis.PropertyDefinition) []apis.PropertyDefinition {
	pt := reflect.PointerTo(t)
	for i := 0; i < pt.NumMethod(); i++ {
		m := pt.Method(i)
		suffix, ok := uref.SetterName(m)
		if !ok {
			continue
		}
		idx := slices.IndexFunc(props, func(p apis.PropertyDefinition) bool {
			return p.GoName == suffix
		})
		if idx < 0 {
			idx = slices.IndexFunc(props, func(p apis.PropertyDefinition) bool {
				return strings.EqualFold(p.Name, suffix)
			})
		}
		if idx >= 0 {
			props[idx].Setter = &m
			props[idx].Type = m.Type.In(1)
			continue
		}
		props = append(props, apis.PropertyDefinition{
			Name:   uref.LowerFirst(suffix),
			GoName: suffix,
			Type:   m.Type.In(1),
			Setter: &m,
		})
	}
	return props
}

// wrapped applies the value-wrapper rule: t is a struct with exactly one
// exported field and that field is of the requested shape.
func wrapped(t reflect.Type, props []apis.PropertyDefinition, shape reflect.Kind) (apis.PropertyDefinition, bool) {
	if t.Kind() != reflect.Struct {
		return apis.PropertyDefinition{}, false
	}
	var found []apis.PropertyDefinition
	for _, p := range props {
		if p.FieldExported() {
			found = append(found, p)
		}
	}
	if len(found) != 1 {
		return apis.PropertyDefinition{}, false
	}
	k := found[0].Field.Type.Kind()
	switch shape {
	case reflect.String:
		if k != reflect.String {
			return apis.PropertyDefinition{}, false
		}
	default:
		if !uref.IsIntKind(k) && !uref.IsUintKind(k) {
			return apis.PropertyDefinition{}, false
		}
	}
	return found[0], true
}

func setInt(v reflect.Value, n int64) error {
	switch {
	case uref.IsIntKind(v.Kind()):
		if v.OverflowInt(n) {
			return fmt.Errorf("jrx(introspect): %d overflows %v", n, v.Type())
		}
		v.SetInt(n)
	case uref.IsUintKind(v.Kind()):
		if n < 0 || v.OverflowUint(uint64(n)) {
			return fmt.Errorf("jrx(introspect): %d overflows %v", n, v.Type())
		}
		v.SetUint(uint64(n))
	}
	return nil
}

// pointerTo turns a constructor result (T or *T) into a *T value.
func pointerTo(t reflect.Type, v any) (reflect.Value, error) {
	rv := reflect.ValueOf(v)
	switch {
	case !rv.IsValid():
		return reflect.Value{}, fmt.Errorf("%w: nil result for %v", ErrConstructor, t)
	case rv.Type() == reflect.PointerTo(t):
		if rv.IsNil() {
			return reflect.Value{}, fmt.Errorf("%w: nil result for %v", ErrConstructor, t)
		}
		return rv, nil
	case rv.Type().AssignableTo(t):
		p := reflect.New(t)
		p.Elem().Set(rv)
		return p, nil
	default:
		return reflect.Value{}, fmt.Errorf("%w: %v is not %v", ErrConstructor, rv.Type(), t)
	}
}
