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
	"fmt"
	"reflect"

	"dirpx.dev/jrx/apis"
	uref "dirpx.dev/jrx/utils/reflect"
)

// ForSlice returns a builder producing values of slice type t.
// Elements are stored with uref.Assign, so nil becomes the element zero value.
func ForSlice(t reflect.Type) (apis.CollectionBuilder, error) {
	if t == nil {
		return nil, ErrNilType
	}
	if t.Kind() != reflect.Slice {
		return nil, fmt.Errorf("jrx(container): %v is not a slice type", t)
	}
	return typedSlice{t: t}, nil
}

type typedSlice struct {
	t reflect.Type
}

func (b typedSlice) Empty() any {
	return reflect.MakeSlice(b.t, 0, 0).Interface()
}

func (b typedSlice) Singleton(value any) (any, error) {
	ev, err := uref.Assign(value, b.t.Elem())
	if err != nil {
		return nil, err
	}
	s := reflect.MakeSlice(b.t, 1, 1)
	s.Index(0).Set(ev)
	return s.Interface(), nil
}

func (b typedSlice) Start() apis.CollectionAccumulator {
	return &typedSliceAccumulator{elem: b.t.Elem(), s: reflect.MakeSlice(b.t, 0, 4)}
}

type typedSliceAccumulator struct {
	elem reflect.Type
	s    reflect.Value
}

func (a *typedSliceAccumulator) Add(value any) error {
	ev, err := uref.Assign(value, a.elem)
	if err != nil {
		return err
	}
	a.s = reflect.Append(a.s, ev)
	return nil
}

func (a *typedSliceAccumulator) Build() (any, error) { return a.s.Interface(), nil }

// ForArray returns a builder producing values of fixed array type t.
// Missing trailing elements keep their zero value; excess elements fail with
// ErrTooManyElements.
func ForArray(t reflect.Type) (apis.CollectionBuilder, error) {
	if t == nil {
		return nil, ErrNilType
	}
	if t.Kind() != reflect.Array {
		return nil, fmt.Errorf("jrx(container): %v is not an array type", t)
	}
	return typedArray{t: t}, nil
}

type typedArray struct {
	t reflect.Type
}

func (b typedArray) Empty() any {
	return reflect.New(b.t).Elem().Interface()
}

func (b typedArray) Singleton(value any) (any, error) {
	acc := b.Start()
	if err := acc.Add(value); err != nil {
		return nil, err
	}
	return acc.Build()
}

func (b typedArray) Start() apis.CollectionAccumulator {
	return &typedArrayAccumulator{arr: reflect.New(b.t).Elem()}
}

type typedArrayAccumulator struct {
	arr reflect.Value
	n   int
}

func (a *typedArrayAccumulator) Add(value any) error {
	if a.n >= a.arr.Len() {
		return fmt.Errorf("%w: %v holds %d", ErrTooManyElements, a.arr.Type(), a.arr.Len())
	}
	ev, err := uref.Assign(value, a.arr.Type().Elem())
	if err != nil {
		return err
	}
	a.arr.Index(a.n).Set(ev)
	a.n++
	return nil
}

func (a *typedArrayAccumulator) Build() (any, error) { return a.arr.Interface(), nil }

// ForMap returns a builder producing values of map type t. The key type must
// be string-kinded.
func ForMap(t reflect.Type, failOnDuplicate bool) (apis.MapBuilder, error) {
	if t == nil {
		return nil, ErrNilType
	}
	if t.Kind() != reflect.Map || t.Key().Kind() != reflect.String {
		return nil, fmt.Errorf("jrx(container): %v is not a string-keyed map type", t)
	}
	return typedMap{t: t, failOnDuplicate: failOnDuplicate}, nil
}

type typedMap struct {
	t               reflect.Type
	failOnDuplicate bool
}

func (b typedMap) Empty() any {
	return reflect.MakeMap(b.t).Interface()
}

func (b typedMap) Singleton(key string, value any) (any, error) {
	acc := b.Start()
	if err := acc.Put(key, value); err != nil {
		return nil, err
	}
	return acc.Build()
}

func (b typedMap) Start() apis.MapAccumulator {
	return &typedMapAccumulator{b: b, m: reflect.MakeMap(b.t)}
}

type typedMapAccumulator struct {
	b typedMap
	m reflect.Value
}

func (a *typedMapAccumulator) Put(key string, value any) error {
	kv := reflect.ValueOf(key).Convert(a.b.t.Key())
	if a.b.failOnDuplicate && a.m.MapIndex(kv).IsValid() {
		return fmt.Errorf("%w: %q", ErrDuplicateKey, key)
	}
	vv, err := uref.Assign(value, a.b.t.Elem())
	if err != nil {
		return err
	}
	a.m.SetMapIndex(kv, vv)
	return nil
}

func (a *typedMapAccumulator) Build() (any, error) { return a.m.Interface(), nil }
