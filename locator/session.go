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

	"go.uber.org/zap"

	"dirpx.dev/jrx/apis"
	"dirpx.dev/jrx/readers"
)

// Ensure session implements apis.Factory.
var _ apis.Factory = (*session)(nil)

// session is one top-level reader request. sync.Mutex is not reentrant, so
// the session remembers whether its call chain already holds the bean lock.
// Readers found while the lock is held are kept in pending and reach the
// cache only when the outermost bean is complete; a failed build discards
// them so no reader referring to an unfinished bean is ever published.
type session struct {
	*shared
	fs      apis.Features
	locked  bool
	pending map[apis.TypeKey]apis.ValueReader
}

func (s *session) Features() apis.Features { return s.fs }

func (s *session) Provider() apis.ReaderProvider { return s.provider }

func (s *session) Types() apis.Introspector { return s.types }

func (s *session) Hooks() apis.ValueHooks { return s.hooks }

// FindReader resolves t through the cache, building it on a miss.
func (s *session) FindReader(t reflect.Type) (apis.ValueReader, error) {
	if t == nil {
		return nil, apis.NewConfigurationError(nil, ErrNilType, "nil type")
	}
	k := apis.NewTypeKey(t, s.fs)
	if r, ok := s.cache.Load(k); ok {
		return r, nil
	}
	if r, ok := s.pending[k]; ok {
		return r, nil
	}
	r, err := s.CreateReader(t)
	if err != nil {
		return nil, err
	}
	s.store(k, r)
	return r, nil
}

// CreateReader builds a reader for t without consulting the cache.
func (s *session) CreateReader(t reflect.Type) (apis.ValueReader, error) {
	if t == nil {
		return nil, apis.NewConfigurationError(nil, ErrNilType, "nil type")
	}
	r, err := s.resolver.Create(s, t)
	if err != nil {
		return nil, err
	}
	s.log.Debug("reader created",
		zap.Stringer("type", t),
		zap.Stringer("features", s.fs&apis.CacheFlags))
	return r, nil
}

func (s *session) store(k apis.TypeKey, r apis.ValueReader) {
	if !s.locked {
		s.cache.Store(k, r)
		return
	}
	if s.pending == nil {
		s.pending = make(map[apis.TypeKey]apis.ValueReader)
	}
	if _, ok := s.pending[k]; !ok {
		s.pending[k] = r
	}
}

// BeanReader returns the record reader for t, taking the bean lock unless
// this call chain holds it already.
func (s *session) BeanReader(t reflect.Type) (apis.ValueReader, error) {
	if s.locked {
		return s.buildBean(t)
	}

	s.mu.Lock()
	s.locked = true
	defer func() {
		s.locked = false
		s.pending = nil
		s.mu.Unlock()
	}()

	r, err := s.buildBean(t)
	if err != nil {
		return nil, err
	}
	// Publish before unlocking so waiting sessions reuse this reader.
	s.cache.Store(apis.NewTypeKey(t, s.fs), r)
	for k, vr := range s.pending {
		s.cache.Store(k, vr)
	}
	return r, nil
}

// buildBean must be called with the bean lock held.
func (s *session) buildBean(t reflect.Type) (apis.ValueReader, error) {
	k := apis.NewTypeKey(t, s.fs)
	if r, ok := s.inProgress[k]; ok {
		s.log.Debug("cyclic reference", zap.Stringer("type", t))
		return r, nil
	}
	// Another session may have finished t while this one waited.
	if r, ok := s.cache.Load(k); ok {
		return r, nil
	}

	def, err := s.types.Record(t)
	if err != nil {
		if errors.Is(err, apis.ErrConfiguration) {
			return nil, err
		}
		return nil, apis.NewConfigurationError(t, errors.Join(ErrIntrospection, err), "%v", err)
	}
	if !def.HasConstructor() {
		return nil, apis.NewConfigurationError(t, ErrNoConstructor, "%v is not a record and has no constructor", t)
	}

	r := readers.NewBeanReader(def, s.fs)
	s.inProgress[k] = r
	defer delete(s.inProgress, k)

	for _, p := range r.Properties() {
		vr, err := s.CreateReader(p.Type())
		if err != nil {
			return nil, err
		}
		r.SetReader(p, vr)
	}
	r.Complete()
	return r, nil
}
