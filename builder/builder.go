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

package builder

import (
	"reflect"

	"dirpx.dev/jrx/apis"
	"dirpx.dev/jrx/locator"
	"dirpx.dev/jrx/registry"
	"dirpx.dev/jrx/resolver"
	"dirpx.dev/jrx/strategy"
)

// New creates and returns a new instance of an apis.Builder.
func New() apis.Builder {
	return &builder{}
}

// builder is an empty struct to be used as a receiver for builder methods.
type builder struct{}

// BuildLocator builds an apis.Locator for cfg. When prev uses the same
// provider the result is a feature view of prev and shares its cache and
// construction lock; otherwise it starts with an empty cache.
func (b *builder) BuildLocator(cfg apis.Config, prev apis.Locator) apis.Locator {
	if prev != nil && sameProvider(prev.Provider(), cfg.Provider) {
		return prev.WithFeatures(cfg.Features)
	}
	res := resolver.New(strategy.Defaults()...)
	return locator.New(cfg, res, registry.New(cfg))
}

// sameProvider compares providers without panicking on uncomparable
// dynamic types.
func sameProvider(a, b apis.ReaderProvider) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}
