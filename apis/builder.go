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

// MapBuilder finalizes decoded JSON objects.
// Builders are stateless; every Start call returns a fresh accumulator owned
// by the caller.
type MapBuilder interface {
	// Empty returns the value for an object with no fields.
	Empty() any
	// Singleton returns the value for an object with exactly one field.
	Singleton(key string, value any) (any, error)
	// Start begins accumulating an object with two or more fields.
	Start() MapAccumulator
}

// MapAccumulator collects object entries in input order.
type MapAccumulator interface {
	Put(key string, value any) error
	Build() (any, error)
}

// CollectionBuilder finalizes decoded JSON arrays.
type CollectionBuilder interface {
	// Empty returns the value for an array with no elements.
	Empty() any
	// Singleton returns the value for an array with exactly one element.
	Singleton(value any) (any, error)
	// Start begins accumulating an array with two or more elements.
	Start() CollectionAccumulator
}

// CollectionAccumulator collects array elements in input order.
type CollectionAccumulator interface {
	Add(value any) error
	Build() (any, error)
}

// Builder composes a Locator from a Config.
// Implementations may reuse state from a previous Locator, or ignore it.
type Builder interface {
	// BuildLocator constructs a Locator for cfg. prev may be nil.
	BuildLocator(cfg Config, prev Locator) Locator
}
