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
	"dirpx.dev/jrx/untyped"
	uref "dirpx.dev/jrx/utils/reflect"
)

// Ensure scalar strategies implement apis.Strategy.
var (
	_ apis.Strategy = (*anyStrategy)(nil)
	_ apis.Strategy = (*simpleStrategy)(nil)
)

// NewAnyStrategy handles the empty interface with the untyped decoder.
func NewAnyStrategy() apis.Strategy {
	return anyStrategy{}
}

type anyStrategy struct{}

func (anyStrategy) TryCreate(f apis.Factory, t reflect.Type) (apis.ValueReader, bool, error) {
	if !uref.IsEmptyInterface(t) {
		return nil, false, nil
	}
	if h := f.Hooks(); h != nil {
		return untyped.New(h), true, nil
	}
	return untyped.Std, true, nil
}

// NewSimpleStrategy handles the closed table of scalar types.
func NewSimpleStrategy() apis.Strategy {
	return simpleStrategy{}
}

type simpleStrategy struct{}

func (simpleStrategy) TryCreate(_ apis.Factory, t reflect.Type) (apis.ValueReader, bool, error) {
	if r, ok := readers.Simple(t); ok {
		return r, true, nil
	}
	return nil, false, nil
}
