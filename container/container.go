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
	"fmt"
	"reflect"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"dirpx.dev/jrx/apis"
)

var (
	// ErrDuplicateKey is returned by map accumulators that reject repeated keys.
	ErrDuplicateKey = errors.New("jrx(container): duplicate key")
	// ErrTooManyElements is returned when a fixed array receives more
	// elements than its length.
	ErrTooManyElements = errors.New("jrx(container): too many elements for fixed array")
	// ErrNilType is returned when a typed builder is requested for a nil type.
	ErrNilType = errors.New("jrx(container): nil reflect.Type provided")
)

// Object is the untyped representation of a JSON object: a string-keyed map
// that iterates in input order.
type Object = orderedmap.OrderedMap[string, any]

// NewObject returns an empty Object.
func NewObject() *Object {
	return orderedmap.New[string, any]()
}

// ObjectOf builds an Object from alternating key/value pairs. It is meant for
// tests and literals; a non-string key panics.
func ObjectOf(kv ...any) *Object {
	o := orderedmap.New[string, any](len(kv) / 2)
	for i := 0; i+1 < len(kv); i += 2 {
		o.Set(kv[i].(string), kv[i+1])
	}
	return o
}

// Keys returns the keys of o in iteration order.
func Keys(o *Object) []string {
	keys := make([]string, 0, o.Len())
	for pair := o.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Maps returns the builder of untyped objects.
func Maps(failOnDuplicate bool) apis.MapBuilder {
	if failOnDuplicate {
		return strictObjects
	}
	return lenientObjects
}

var (
	lenientObjects = objectBuilder{}
	strictObjects  = objectBuilder{failOnDuplicate: true}
)

// Ensure objectBuilder implements apis.MapBuilder.
var _ apis.MapBuilder = objectBuilder{}

type objectBuilder struct {
	failOnDuplicate bool
}

// Empty returns a fresh empty Object on every call instead of one shared
// empty value. Objects are mutable, so a shared instance would leak writes
// between callers.
func (objectBuilder) Empty() any { return NewObject() }

func (objectBuilder) Singleton(key string, value any) (any, error) {
	o := orderedmap.New[string, any](1)
	o.Set(key, value)
	return o, nil
}

func (b objectBuilder) Start() apis.MapAccumulator {
	return &objectAccumulator{obj: NewObject(), failOnDuplicate: b.failOnDuplicate}
}

type objectAccumulator struct {
	obj             *Object
	failOnDuplicate bool
}

func (a *objectAccumulator) Put(key string, value any) error {
	if a.failOnDuplicate {
		if _, present := a.obj.Get(key); present {
			return fmt.Errorf("%w: %q", ErrDuplicateKey, key)
		}
	}
	a.obj.Set(key, value)
	return nil
}

func (a *objectAccumulator) Build() (any, error) { return a.obj, nil }

// Slices is the builder of untyped JSON arrays as []any.
var Slices apis.CollectionBuilder = sliceBuilder{}

type sliceBuilder struct{}

// Empty returns a non-nil empty slice. Appending to it always reallocates,
// so a single value serves every caller.
func (sliceBuilder) Empty() any { return emptySlice }

var emptySlice = []any{}

func (sliceBuilder) Singleton(value any) (any, error) { return []any{value}, nil }

func (sliceBuilder) Start() apis.CollectionAccumulator {
	return &sliceAccumulator{items: make([]any, 0, 4)}
}

type sliceAccumulator struct {
	items []any
}

func (a *sliceAccumulator) Add(value any) error {
	a.items = append(a.items, value)
	return nil
}

func (a *sliceAccumulator) Build() (any, error) { return a.items, nil }

// Arrays is the builder of untyped JSON arrays as fixed [N]any values.
var Arrays apis.CollectionBuilder = arrayBuilder{}

var anyType = reflect.TypeFor[any]()

type arrayBuilder struct{}

// Empty returns [0]any{}, which is immutable and therefore shared.
func (arrayBuilder) Empty() any { return [0]any{} }

func (arrayBuilder) Singleton(value any) (any, error) { return [1]any{value}, nil }

func (arrayBuilder) Start() apis.CollectionAccumulator {
	return &arrayAccumulator{}
}

type arrayAccumulator struct {
	items []any
}

func (a *arrayAccumulator) Add(value any) error {
	a.items = append(a.items, value)
	return nil
}

func (a *arrayAccumulator) Build() (any, error) {
	arr := reflect.New(reflect.ArrayOf(len(a.items), anyType)).Elem()
	for i, v := range a.items {
		if v != nil {
			arr.Index(i).Set(reflect.ValueOf(v))
		}
	}
	return arr.Interface(), nil
}
