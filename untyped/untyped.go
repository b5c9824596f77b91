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

package untyped

import (
	"reflect"

	"dirpx.dev/jrx/apis"
	"dirpx.dev/jrx/container"
)

var anyType = reflect.TypeFor[any]()

// Std is the shared untyped decoder over apis.DefaultHooks.
var Std = New(nil)

// Ensure Reader implements apis.ValueReader.
var _ apis.ValueReader = (*Reader)(nil)

// Reader decodes any JSON value into its natural Go representation:
//
//   - null, booleans and strings through the hooks;
//   - integers as int32, int64 or *big.Int, whichever is the narrowest
//     lossless fit;
//   - floats as float32/float64 as classified by the source, or
//     decimal.Decimal when out of float64 range or UseBigDecimalForFloats
//     is enabled;
//   - objects through rc.Maps (by default *container.Object);
//   - arrays through rc.Collections, or rc.Arrays under ReadArraysAsGoArrays.
//
// A Reader has no mutable state and is safe for concurrent use.
type Reader struct {
	hooks apis.ValueHooks
}

// New returns a Reader using h, or apis.DefaultHooks when h is nil.
func New(h apis.ValueHooks) *Reader {
	if h == nil {
		h = apis.DefaultHooks{}
	}
	return &Reader{hooks: h}
}

func (r *Reader) ValueType() reflect.Type { return anyType }

func (r *Reader) ReadNext(rc *apis.ReadContext, src apis.TokenSource) (any, error) {
	if _, err := src.NextToken(); err != nil {
		return nil, err
	}
	return r.Read(rc, src)
}

func (r *Reader) Read(rc *apis.ReadContext, src apis.TokenSource) (any, error) {
	switch src.CurrentToken() {
	case apis.TokenStartObject, apis.TokenFieldName:
		return r.readObject(rc, src)
	case apis.TokenStartArray:
		b := rc.Arrays
		if rc.ArraysAsSlices() {
			b = rc.Collections
		}
		return container.Sequence(src, anyType, b, func() (any, error) {
			return r.Read(rc, src)
		})
	case apis.TokenString:
		return r.hooks.FromString(src.Text()), nil
	case apis.TokenNumberInt:
		return Integer(src)
	case apis.TokenNumberFloat:
		return Float(src, rc.Features.Enabled(apis.UseBigDecimalForFloats))
	case apis.TokenTrue:
		return r.hooks.FromBoolean(true), nil
	case apis.TokenFalse:
		return r.hooks.FromBoolean(false), nil
	case apis.TokenNull:
		return r.hooks.FromNull(), nil
	case apis.TokenEmbedded:
		return r.hooks.FromEmbedded(src.Embedded()), nil
	default:
		return nil, apis.UnexpectedToken(src, "expected a value")
	}
}

func (r *Reader) readObject(rc *apis.ReadContext, src apis.TokenSource) (any, error) {
	return container.Fields(src, anyType, rc.Maps, r.hooks.FromKey, func(string) (any, error) {
		return r.ReadNext(rc, src)
	})
}
