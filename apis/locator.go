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

// TypeKey identifies a cached reader: the target type plus the
// construction-relevant features (see CacheFlags).
type TypeKey struct {
	Type     reflect.Type
	Features Features
}

// NewTypeKey builds a key, masking features down to CacheFlags.
func NewTypeKey(t reflect.Type, fs Features) TypeKey {
	return TypeKey{Type: t, Features: fs & CacheFlags}
}

// Locator turns a target type into a (cached) ValueReader.
// Implementations must be safe for concurrent use.
type Locator interface {
	// FindReader returns the reader for t, building and caching it on a miss.
	FindReader(t reflect.Type) (ValueReader, error)
	// Features returns the features this locator builds readers for.
	Features() Features
	// WithFeatures returns a locator sharing the same cache and construction
	// lock, building readers for fs.
	WithFeatures(fs Features) Locator
	// Provider returns the configured ReaderProvider, or nil.
	Provider() ReaderProvider
	// Cache exposes the reader cache for diagnostics.
	Cache() Cache
}

// Cache is a bounded TypeKey -> ValueReader store.
// Keep it minimal so implementations can be lock-free or sync.Map-backed.
type Cache interface {
	// Load returns the cached reader for key.
	Load(key TypeKey) (ValueReader, bool)
	// Store inserts r unless key is already present. When the cache is full
	// it is cleared before inserting.
	Store(key TypeKey, r ValueReader)
	// Entries returns a snapshot for diagnostics (order is unspecified).
	Entries() []CacheEntry
	// Count returns the number of cached readers.
	Count() int
	// Resets returns how many times the cache was cleared on overflow.
	Resets() int
	// Reset clears all cached readers.
	Reset()
}

// CacheEntry is a single (key, reader) pair in a Cache snapshot.
type CacheEntry struct {
	Key    TypeKey
	Reader ValueReader
}

// Factory is what a Strategy sees while a reader is being built.
// It is bound to one construction call chain and must not be retained.
type Factory interface {
	// Features returns the features readers are built for.
	Features() Features
	// Provider returns the custom reader provider, or nil.
	Provider() ReaderProvider
	// Types returns the type introspector.
	Types() Introspector
	// Hooks returns the configured untyped hooks, or nil for the defaults.
	Hooks() ValueHooks
	// FindReader resolves t through the cache.
	FindReader(t reflect.Type) (ValueReader, error)
	// CreateReader builds a reader for t without consulting the cache.
	CreateReader(t reflect.Type) (ValueReader, error)
	// BeanReader builds (or returns the in-progress) record reader for t.
	BeanReader(t reflect.Type) (ValueReader, error)
}

// Strategy is one entry of the reader dispatch table. A Resolver chains
// strategies in a fixed order; the first one that handles a type wins.
type Strategy interface {
	// TryCreate returns (reader, true, nil) if it handles t, (nil, false, nil)
	// to fall through, or a non-nil error to abort construction.
	TryCreate(f Factory, t reflect.Type) (r ValueReader, handled bool, err error)
}

// Resolver coordinates strategies to build a reader for a type.
type Resolver interface {
	// Create builds a reader for t; it fails if no strategy handles t.
	Create(f Factory, t reflect.Type) (ValueReader, error)
}

// ReaderProvider supplies custom readers. Returning a nil reader means
// "not handled" and lets built-in handling continue.
type ReaderProvider interface {
	// FindValueReader may return a reader for any type.
	FindValueReader(t reflect.Type) (ValueReader, error)
	// FindCollectionReader may return a reader for slice type t given the
	// already resolved element reader.
	FindCollectionReader(t reflect.Type, elem ValueReader) (ValueReader, error)
	// FindMapReader may return a reader for map type t given the already
	// resolved value reader.
	FindMapReader(t reflect.Type, value ValueReader) (ValueReader, error)
}
