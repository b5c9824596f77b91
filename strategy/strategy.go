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

package strategy

import (
	"errors"
	"reflect"

	"dirpx.dev/jrx/apis"
)

var (
	// ErrUnsupportedElement is returned for fixed arrays of primitive
	// elements that have no scalar reader (complex numbers, uintptr).
	ErrUnsupportedElement = errors.New("jrx(strategy): unsupported array element kind")
	// ErrMapKey is returned for maps whose key kind is not string.
	ErrMapKey = errors.New("jrx(strategy): map key must be string-kinded")
)

// Defaults returns the built-in strategies in dispatch order.
func Defaults() []apis.Strategy {
	return []apis.Strategy{
		NewPointerStrategy(),
		NewAnyStrategy(),
		NewArrayStrategy(),
		NewEnumStrategy(),
		NewCollectionStrategy(),
		NewMapStrategy(),
		NewProviderStrategy(),
		NewSimpleStrategy(),
		NewBeanStrategy(),
	}
}

// built reports r as handled, turning construction errors into
// configuration errors for t.
func built(t reflect.Type, r apis.ValueReader, err error) (apis.ValueReader, bool, error) {
	if err != nil {
		if errors.Is(err, apis.ErrConfiguration) {
			return nil, true, err
		}
		return nil, true, apis.NewConfigurationError(t, err, "%v", err)
	}
	return r, true, nil
}

// element resolves the reader of a collection element or map value. Nested
// slices and maps are unwrapped without touching the cache.
func element(f apis.Factory, t reflect.Type) (apis.ValueReader, error) {
	switch {
	case t.Kind() == reflect.Map, t.Kind() == reflect.Slice && !isBytes(t):
		return f.CreateReader(t)
	default:
		return f.FindReader(t)
	}
}

func isBytes(t reflect.Type) bool {
	return t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8
}
