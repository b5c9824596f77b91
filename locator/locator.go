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

package locator

import (
	"errors"
	"reflect"
	"sync"

	"go.uber.org/zap"

	"dirpx.dev/jrx/apis"
	"dirpx.dev/jrx/introspect"
	"dirpx.dev/jrx/readers"
)

var (
	// ErrNilType is returned when a nil reflect.Type is requested.
	ErrNilType = errors.New("jrx(locator): nil reflect.Type provided")
	// ErrNoConstructor is returned for record types that can be built
	// neither from an object nor from a string or integer.
	ErrNoConstructor = errors.New("jrx(locator): type has no usable constructor")
	// ErrIntrospection wraps failures of the configured introspector.
	ErrIntrospection = errors.New("jrx(locator): introspection failed")
)

// Ensure locator implements apis.Locator.
var _ apis.Locator = (*locator)(nil)

// New constructs a Locator resolving types through res and caching readers
// in cache. Locators derived with WithFeatures share both, along with the
// bean construction lock.
func New(cfg apis.Config, res apis.Resolver, cache apis.Cache) apis.Locator {
	types := cfg.Types
	if types == nil {
		types = introspect.New()
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &locator{
		shared: &shared{
			cache:      cache,
			resolver:   res,
			types:      types,
			provider:   cfg.Provider,
			hooks:      cfg.Hooks,
			log:        log.Named("locator"),
			inProgress: make(map[apis.TypeKey]*readers.BeanReader),
		},
		fs: cfg.Features,
	}
}

// shared is the state common to every feature view of one locator.
type shared struct {
	cache    apis.Cache
	resolver apis.Resolver
	types    apis.Introspector
	provider apis.ReaderProvider
	hooks    apis.ValueHooks
	log      *zap.Logger

	// mu serializes bean construction end to end.
	mu sync.Mutex
	// inProgress holds bean readers under construction; guarded by mu.
	inProgress map[apis.TypeKey]*readers.BeanReader
}

// locator is a feature view over shared state.
type locator struct {
	*shared
	fs apis.Features
}

// FindReader returns the cached reader for t or builds one. Cache hits never
// block.
func (l *locator) FindReader(t reflect.Type) (apis.ValueReader, error) {
	if t == nil {
		return nil, apis.NewConfigurationError(nil, ErrNilType, "nil type")
	}
	if r, ok := l.cache.Load(apis.NewTypeKey(t, l.fs)); ok {
		return r, nil
	}
	return (&session{shared: l.shared, fs: l.fs}).FindReader(t)
}

func (l *locator) Features() apis.Features { return l.fs }

// WithFeatures returns a view building readers for fs over the same cache.
func (l *locator) WithFeatures(fs apis.Features) apis.Locator {
	if fs == l.fs {
		return l
	}
	return &locator{shared: l.shared, fs: fs}
}

func (l *locator) Provider() apis.ReaderProvider { return l.provider }

func (l *locator) Cache() apis.Cache { return l.cache }

// Types returns the introspector used for records and enums.
func (l *locator) Types() apis.Introspector { return l.types }
