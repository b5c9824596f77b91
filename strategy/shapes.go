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
	"reflect"

	"dirpx.dev/jrx/apis"
	"dirpx.dev/jrx/readers"
	uref "dirpx.dev/jrx/utils/reflect"
)

// Ensure shape strategies implement apis.Strategy.
var (
	_ apis.Strategy = (*pointerStrategy)(nil)
	_ apis.Strategy = (*arrayStrategy)(nil)
	_ apis.Strategy = (*collectionStrategy)(nil)
	_ apis.Strategy = (*mapStrategy)(nil)
	_ apis.Strategy = (*beanStrategy)(nil)
)

// NewPointerStrategy handles *T over an uncached reader of T.
func NewPointerStrategy() apis.Strategy {
	return pointerStrategy{}
}

type pointerStrategy struct{}

func (pointerStrategy) TryCreate(f apis.Factory, t reflect.Type) (apis.ValueReader, bool, error) {
	if t.Kind() != reflect.Pointer {
		return nil, false, nil
	}
	elem, err := f.CreateReader(t.Elem())
	if err != nil {
		return nil, true, err
	}
	r, err := readers.NewPointerReader(t, elem)
	return built(t, r, err)
}

// NewArrayStrategy handles fixed arrays [N]T.
func NewArrayStrategy() apis.Strategy {
	return arrayStrategy{}
}

type arrayStrategy struct{}

func (arrayStrategy) TryCreate(f apis.Factory, t reflect.Type) (apis.ValueReader, bool, error) {
	if t.Kind() != reflect.Array {
		return nil, false, nil
	}
	// Arrays with a scalar text form, such as uuid.UUID.
	if sr, ok := readers.Simple(t); ok {
		return sr, true, nil
	}
	et := t.Elem()
	if uref.IsPrimitiveKind(et.Kind()) {
		sr, ok := readers.Simple(et)
		if !ok {
			return nil, true, apis.NewConfigurationError(t, ErrUnsupportedElement, "element kind %s", et.Kind())
		}
		r, err := readers.NewArrayReader(t, sr)
		return built(t, r, err)
	}
	elem, err := f.CreateReader(et)
	if err != nil {
		return nil, true, err
	}
	r, err := readers.NewArrayReader(t, elem)
	return built(t, r, err)
}

// NewCollectionStrategy handles slices []T other than byte slices, which
// decode as base64 scalars.
func NewCollectionStrategy() apis.Strategy {
	return collectionStrategy{}
}

type collectionStrategy struct{}

func (collectionStrategy) TryCreate(f apis.Factory, t reflect.Type) (apis.ValueReader, bool, error) {
	if t.Kind() != reflect.Slice || isBytes(t) {
		return nil, false, nil
	}
	elem, err := element(f, t.Elem())
	if err != nil {
		return nil, true, err
	}
	if p := f.Provider(); p != nil {
		r, err := p.FindCollectionReader(t, elem)
		if err != nil {
			return built(t, nil, err)
		}
		if r != nil {
			return r, true, nil
		}
	}
	r, err := readers.NewCollectionReader(t, elem)
	return built(t, r, err)
}

// NewMapStrategy handles map[K]V with a string-kinded K.
func NewMapStrategy() apis.Strategy {
	return mapStrategy{}
}

type mapStrategy struct{}

func (mapStrategy) TryCreate(f apis.Factory, t reflect.Type) (apis.ValueReader, bool, error) {
	if t.Kind() != reflect.Map {
		return nil, false, nil
	}
	if t.Key().Kind() != reflect.String {
		return nil, true, apis.NewConfigurationError(t, ErrMapKey, "key type %v", t.Key())
	}
	value, err := element(f, t.Elem())
	if err != nil {
		return nil, true, err
	}
	if p := f.Provider(); p != nil {
		r, err := p.FindMapReader(t, value)
		if err != nil {
			return built(t, nil, err)
		}
		if r != nil {
			return r, true, nil
		}
	}
	r, err := readers.NewMapReader(t, value, f.Hooks(), f.Features().Enabled(apis.FailOnDuplicateMapKeys))
	return built(t, r, err)
}

// NewBeanStrategy handles every remaining type as a record. It always
// claims the type, so it belongs last in a chain.
func NewBeanStrategy() apis.Strategy {
	return beanStrategy{}
}

type beanStrategy struct{}

func (beanStrategy) TryCreate(f apis.Factory, t reflect.Type) (apis.ValueReader, bool, error) {
	r, err := f.BeanReader(t)
	if err != nil {
		return nil, true, err
	}
	return r, true, nil
}
