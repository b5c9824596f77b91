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
)

// Ensure registered-type strategies implement apis.Strategy.
var (
	_ apis.Strategy = (*enumStrategy)(nil)
	_ apis.Strategy = (*providerStrategy)(nil)
)

// NewEnumStrategy handles enum types known to the factory's introspector.
// A provider reader for the type takes precedence.
func NewEnumStrategy() apis.Strategy {
	return enumStrategy{}
}

type enumStrategy struct{}

func (enumStrategy) TryCreate(f apis.Factory, t reflect.Type) (apis.ValueReader, bool, error) {
	types := f.Types()
	if types == nil {
		return nil, false, nil
	}
	def, ok := types.Enum(t)
	if !ok {
		return nil, false, nil
	}
	if r, ok, err := fromProvider(f, t); ok || err != nil {
		return r, true, err
	}
	return readers.NewEnumReader(def), true, nil
}

// NewProviderStrategy lets the configured apis.ReaderProvider override the
// reader of any type that reaches it.
func NewProviderStrategy() apis.Strategy {
	return providerStrategy{}
}

type providerStrategy struct{}

func (providerStrategy) TryCreate(f apis.Factory, t reflect.Type) (apis.ValueReader, bool, error) {
	return fromProvider(f, t)
}

func fromProvider(f apis.Factory, t reflect.Type) (apis.ValueReader, bool, error) {
	p := f.Provider()
	if p == nil {
		return nil, false, nil
	}
	r, err := p.FindValueReader(t)
	if err != nil {
		return built(t, nil, err)
	}
	return r, r != nil, nil
}
