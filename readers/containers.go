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
	"reflect"

	"dirpx.dev/jrx/apis"
	"dirpx.dev/jrx/container"
)

// Ensure container readers implement apis.ValueReader.
var (
	_ apis.ValueReader = (*ArrayReader)(nil)
	_ apis.ValueReader = (*CollectionReader)(nil)
	_ apis.ValueReader = (*MapReader)(nil)
	_ apis.ValueReader = (*PointerReader)(nil)
)

// ArrayReader decodes a JSON array into a fixed Go array [N]T. Missing
// trailing elements stay zero; excess elements are a coercion error.
type ArrayReader struct {
	t     reflect.Type
	elem  apis.ValueReader
	build apis.CollectionBuilder
}

// NewArrayReader returns a reader for array type t over elem.
func NewArrayReader(t reflect.Type, elem apis.ValueReader) (*ArrayReader, error) {
	if elem == nil {
		return nil, ErrNilReader
	}
	b, err := container.ForArray(t)
	if err != nil {
		return nil, err
	}
	return &ArrayReader{t: t, elem: elem, build: b}, nil
}

func (r *ArrayReader) ValueType() reflect.Type { return r.t }

func (r *ArrayReader) ReadNext(rc *apis.ReadContext, src apis.TokenSource) (any, error) {
	return next(r, rc, src)
}

func (r *ArrayReader) Read(rc *apis.ReadContext, src apis.TokenSource) (any, error) {
	if src.CurrentToken() == apis.TokenNull {
		return nil, nil
	}
	return container.Sequence(src, r.t, r.build, func() (any, error) {
		return r.elem.Read(rc, src)
	})
}

// CollectionReader decodes a JSON array into a slice []T. An empty array
// yields a non-nil empty slice.
type CollectionReader struct {
	t     reflect.Type
	elem  apis.ValueReader
	build apis.CollectionBuilder
}

// NewCollectionReader returns a reader for slice type t over elem.
func NewCollectionReader(t reflect.Type, elem apis.ValueReader) (*CollectionReader, error) {
	if elem == nil {
		return nil, ErrNilReader
	}
	b, err := container.ForSlice(t)
	if err != nil {
		return nil, err
	}
	return &CollectionReader{t: t, elem: elem, build: b}, nil
}

func (r *CollectionReader) ValueType() reflect.Type { return r.t }

// Elem returns the element reader.
func (r *CollectionReader) Elem() apis.ValueReader { return r.elem }

func (r *CollectionReader) ReadNext(rc *apis.ReadContext, src apis.TokenSource) (any, error) {
	return next(r, rc, src)
}

func (r *CollectionReader) Read(rc *apis.ReadContext, src apis.TokenSource) (any, error) {
	if src.CurrentToken() == apis.TokenNull {
		return nil, nil
	}
	return container.Sequence(src, r.t, r.build, func() (any, error) {
		return r.elem.Read(rc, src)
	})
}

// MapReader decodes a JSON object into map[K]V with a string-kinded K.
// Keys pass through the FromKey hook.
type MapReader struct {
	t     reflect.Type
	value apis.ValueReader
	keys  apis.ValueHooks
	build apis.MapBuilder
}

// NewMapReader returns a reader for map type t over value. Nil hooks means
// apis.DefaultHooks. failOnDuplicate rejects repeated keys.
func NewMapReader(t reflect.Type, value apis.ValueReader, hooks apis.ValueHooks, failOnDuplicate bool) (*MapReader, error) {
	if value == nil {
		return nil, ErrNilReader
	}
	if hooks == nil {
		hooks = apis.DefaultHooks{}
	}
	b, err := container.ForMap(t, failOnDuplicate)
	if err != nil {
		return nil, err
	}
	return &MapReader{t: t, value: value, keys: hooks, build: b}, nil
}

func (r *MapReader) ValueType() reflect.Type { return r.t }

// Value returns the value reader.
func (r *MapReader) Value() apis.ValueReader { return r.value }

func (r *MapReader) ReadNext(rc *apis.ReadContext, src apis.TokenSource) (any, error) {
	return next(r, rc, src)
}

func (r *MapReader) Read(rc *apis.ReadContext, src apis.TokenSource) (any, error) {
	if src.CurrentToken() == apis.TokenNull {
		return nil, nil
	}
	return container.Fields(src, r.t, r.build, r.keys.FromKey, func(string) (any, error) {
		return r.value.ReadNext(rc, src)
	})
}

// PointerReader decodes into *T: null gives a nil pointer, anything else a
// freshly allocated T.
type PointerReader struct {
	t    reflect.Type
	elem apis.ValueReader
}

// NewPointerReader returns a reader for pointer type t over the reader of
// t.Elem().
func NewPointerReader(t reflect.Type, elem apis.ValueReader) (*PointerReader, error) {
	if elem == nil {
		return nil, ErrNilReader
	}
	return &PointerReader{t: t, elem: elem}, nil
}

func (r *PointerReader) ValueType() reflect.Type { return r.t }

func (r *PointerReader) ReadNext(rc *apis.ReadContext, src apis.TokenSource) (any, error) {
	return next(r, rc, src)
}

func (r *PointerReader) Read(rc *apis.ReadContext, src apis.TokenSource) (any, error) {
	switch src.CurrentToken() {
	case apis.TokenNull:
		return nil, nil
	case apis.TokenEmbedded:
		if v := src.Embedded(); v != nil && reflect.TypeOf(v) == r.t {
			return v, nil
		}
	}
	v, err := r.elem.Read(rc, src)
	if err != nil {
		return nil, err
	}
	p := reflect.New(r.t.Elem())
	if v != nil {
		ev, err := assign(src, v, r.t.Elem())
		if err != nil {
			return nil, err
		}
		p.Elem().Set(ev)
	}
	return p.Interface(), nil
}
