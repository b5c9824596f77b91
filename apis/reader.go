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

package apis

import (
	"reflect"
)

// ValueReader decodes one JSON value into a Go value of ValueType.
//
// A reader is bound to exactly one (type, feature-set) pair and is immutable
// once built, so it may be shared across goroutines. JSON null decodes to a
// nil interface value; callers storing into typed slots use the zero value.
type ValueReader interface {
	// ValueType returns the Go type produced by the reader.
	ValueType() reflect.Type
	// Read decodes the value starting at the current token.
	Read(rc *ReadContext, src TokenSource) (any, error)
	// ReadNext advances to the next token and decodes the value starting there.
	ReadNext(rc *ReadContext, src TokenSource) (any, error)
}

// ReadContext carries per-operation state for one top-level decode call.
type ReadContext struct {
	// Features are the features active for this operation.
	Features Features
	// Maps builds untyped JSON objects.
	Maps MapBuilder
	// Collections builds untyped JSON arrays as slices.
	Collections CollectionBuilder
	// Arrays builds untyped JSON arrays as fixed Go arrays.
	Arrays CollectionBuilder
}

// ArraysAsSlices reports whether untyped JSON arrays decode to slices.
func (rc *ReadContext) ArraysAsSlices() bool {
	return !rc.Features.Enabled(ReadArraysAsGoArrays)
}

// ValueHooks let callers substitute decoded untyped primitives.
// Embed DefaultHooks to override only a subset.
type ValueHooks interface {
	FromNull() any
	FromBoolean(b bool) any
	FromKey(key string) string
	FromString(s string) any
	FromEmbedded(v any) any
}

// DefaultHooks returns every primitive unchanged.
type DefaultHooks struct{}

// Ensure DefaultHooks implements ValueHooks.
var _ ValueHooks = DefaultHooks{}

func (DefaultHooks) FromNull() any             { return nil }
func (DefaultHooks) FromBoolean(b bool) any    { return b }
func (DefaultHooks) FromKey(key string) string { return key }
func (DefaultHooks) FromString(s string) any   { return s }
func (DefaultHooks) FromEmbedded(v any) any    { return v }
