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

package container

import (
	"errors"
	"reflect"

	"dirpx.dev/jrx/apis"
)

// NewContext returns the ReadContext of one decode operation using the
// default untyped builders.
func NewContext(fs apis.Features) *apis.ReadContext {
	return &apis.ReadContext{
		Features:    fs,
		Maps:        Maps(fs.Enabled(apis.FailOnDuplicateMapKeys)),
		Collections: Slices,
		Arrays:      Arrays,
	}
}

// Sequence decodes the JSON array src is positioned on into b's value of
// type t. elem is invoked with src on each element's first token. Zero and
// one element take the Empty and Singleton paths; src ends on the closing
// marker.
func Sequence(src apis.TokenSource, t reflect.Type, b apis.CollectionBuilder, elem func() (any, error)) (any, error) {
	if src.CurrentToken() != apis.TokenStartArray {
		return nil, apis.UnexpectedToken(src, "expected start of array")
	}
	tok, err := src.NextToken()
	if err != nil {
		return nil, err
	}
	if tok == apis.TokenEndArray {
		return b.Empty(), nil
	}
	first, err := elem()
	if err != nil {
		return nil, err
	}
	if tok, err = src.NextToken(); err != nil {
		return nil, err
	}
	if tok == apis.TokenEndArray {
		v, err := b.Singleton(first)
		return v, builderError(src, t, err)
	}

	acc := b.Start()
	if err := acc.Add(first); err != nil {
		return nil, builderError(src, t, err)
	}
	for tok != apis.TokenEndArray {
		v, err := elem()
		if err != nil {
			return nil, err
		}
		if err := acc.Add(v); err != nil {
			return nil, builderError(src, t, err)
		}
		if tok, err = src.NextToken(); err != nil {
			return nil, err
		}
	}
	v, err := acc.Build()
	return v, builderError(src, t, err)
}

// Fields decodes the JSON object src is positioned on (its start marker, or
// the first field name when the start marker was already consumed) into b's
// value of type t. value is invoked with src on each field name and must
// consume the field's value. src ends on the closing marker.
func Fields(src apis.TokenSource, t reflect.Type, b apis.MapBuilder, key func(string) string, value func(name string) (any, error)) (any, error) {
	first, ok, err := firstField(src)
	if err != nil {
		return nil, err
	}
	if !ok {
		if err := expectEndObject(src); err != nil {
			return nil, err
		}
		return b.Empty(), nil
	}
	v, err := value(first)
	if err != nil {
		return nil, err
	}
	next, ok, err := src.NextFieldName()
	if err != nil {
		return nil, err
	}
	if !ok {
		if err := expectEndObject(src); err != nil {
			return nil, err
		}
		out, err := b.Singleton(key(first), v)
		return out, builderError(src, t, err)
	}

	acc := b.Start()
	if err := acc.Put(key(first), v); err != nil {
		return nil, builderError(src, t, err)
	}
	for ok {
		if v, err = value(next); err != nil {
			return nil, err
		}
		if err := acc.Put(key(next), v); err != nil {
			return nil, builderError(src, t, err)
		}
		if next, ok, err = src.NextFieldName(); err != nil {
			return nil, err
		}
	}
	if err := expectEndObject(src); err != nil {
		return nil, err
	}
	out, err := acc.Build()
	return out, builderError(src, t, err)
}

// Walk visits every field of the object src is positioned on without
// building anything. It has the same positioning rules as Fields.
func Walk(src apis.TokenSource, field func(name string) error) error {
	name, ok, err := firstField(src)
	for ; ok && err == nil; name, ok, err = src.NextFieldName() {
		if err = field(name); err != nil {
			return err
		}
	}
	if err != nil {
		return err
	}
	return expectEndObject(src)
}

func firstField(src apis.TokenSource) (string, bool, error) {
	switch src.CurrentToken() {
	case apis.TokenStartObject:
		return src.NextFieldName()
	case apis.TokenFieldName:
		return src.Text(), true, nil
	default:
		return "", false, apis.UnexpectedToken(src, "expected start of object")
	}
}

func expectEndObject(src apis.TokenSource) error {
	if src.CurrentToken() != apis.TokenEndObject {
		return apis.UnexpectedToken(src, "expected field name or end of object")
	}
	return nil
}

// builderError maps accumulator failures into the jrx error taxonomy.
func builderError(src apis.TokenSource, t reflect.Type, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrDuplicateKey) {
		e := apis.NewStructuralError(src, "%v", err)
		e.Err = err
		return e
	}
	return apis.NewCoercionError(src, t, err, "%v", err)
}
