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

package readers

import (
	"errors"
	"reflect"

	"dirpx.dev/jrx/apis"
	uref "dirpx.dev/jrx/utils/reflect"
)

var (
	// ErrIncomplete is returned when a bean reader is used before its
	// properties were wired.
	ErrIncomplete = errors.New("jrx(readers): reader used before construction completed")
	// ErrNilReader is returned when a container reader is built without an
	// element reader.
	ErrNilReader = errors.New("jrx(readers): nil element reader")
)

// next advances src and decodes with r.
func next(r apis.ValueReader, rc *apis.ReadContext, src apis.TokenSource) (any, error) {
	if _, err := src.NextToken(); err != nil {
		return nil, err
	}
	return r.Read(rc, src)
}

// embedded returns the embedded value of src when it is usable as t.
func embedded(src apis.TokenSource, t reflect.Type) (any, bool) {
	v := src.Embedded()
	if v == nil {
		return nil, true
	}
	rv := reflect.ValueOf(v)
	switch {
	case rv.Type() == t:
		return v, true
	case rv.Type().ConvertibleTo(t) && rv.Kind() == t.Kind():
		return rv.Convert(t).Interface(), true
	}
	return nil, false
}

func mismatch(src apis.TokenSource, t reflect.Type) error {
	return apis.NewCoercionError(src, t, nil, "unexpected token %s", src.CurrentToken())
}

// assign converts a decoded value for storage in a slot of type t.
func assign(src apis.TokenSource, v any, t reflect.Type) (reflect.Value, error) {
	rv, err := uref.Assign(v, t)
	if err != nil {
		return reflect.Value{}, apis.NewCoercionError(src, t, err, "incompatible value")
	}
	return rv, nil
}
