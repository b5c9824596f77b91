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

package jrx

import (
	"errors"
	"fmt"
	"io"
	"reflect"

	"dirpx.dev/jrx/apis"
	"dirpx.dev/jrx/builder"
	"dirpx.dev/jrx/config"
	"dirpx.dev/jrx/container"
	"dirpx.dev/jrx/tokens"
)

var (
	// ErrNilLocator is the panic value when a builder returns a nil locator.
	ErrNilLocator = errors.New("jrx: builder returned nil locator")
	// ErrResultType is returned when a reader yields a value that is not of
	// the requested type, which only a misbehaving provider can cause.
	ErrResultType = errors.New("jrx: reader returned a value of the wrong type")
)

var anyType = reflect.TypeFor[any]()

// JSON is a decoding service bound to one configuration. It owns a reader
// cache and is safe for concurrent use. Construct it once and pass it to
// every decode operation.
type JSON struct {
	cfg apis.Config
	bld apis.Builder
	loc apis.Locator
}

// New constructs a JSON service with the default builder.
func New(opts ...config.Option) *JSON {
	return NewWith(builder.New(), opts...)
}

// NewWith constructs a JSON service whose locator is built by b.
func NewWith(b apis.Builder, opts ...config.Option) *JSON {
	cfg := config.NewConfig(opts...)
	return build(b, cfg, nil)
}

func build(b apis.Builder, cfg apis.Config, prev apis.Locator) *JSON {
	loc := b.BuildLocator(cfg, prev)
	// Ensure non-nil locator.
	if loc == nil {
		panic(ErrNilLocator)
	}
	return &JSON{cfg: cfg, bld: b, loc: loc}
}

// With returns a service with fs enabled. It shares the reader cache.
func (j *JSON) With(fs ...apis.Feature) *JSON {
	return j.withFeatures(j.cfg.Features.With(fs...))
}

// Without returns a service with fs disabled. It shares the reader cache.
func (j *JSON) Without(fs ...apis.Feature) *JSON {
	return j.withFeatures(j.cfg.Features.Without(fs...))
}

func (j *JSON) withFeatures(fs apis.Features) *JSON {
	if fs == j.cfg.Features {
		return j
	}
	cfg := j.cfg
	cfg.Features = fs
	return build(j.bld, cfg, j.loc)
}

// WithProvider returns a service using p. Readers depend on the provider,
// so the new service starts with an empty cache.
func (j *JSON) WithProvider(p apis.ReaderProvider) *JSON {
	cfg := j.cfg
	cfg.Provider = p
	return build(j.bld, cfg, j.loc)
}

// Config returns the configuration of the service.
func (j *JSON) Config() apis.Config { return j.cfg }

// Features returns the active features.
func (j *JSON) Features() apis.Features { return j.cfg.Features }

// Locator returns the reader locator.
func (j *JSON) Locator() apis.Locator { return j.loc }

// ReadValue decodes the next value of src as t.
func (j *JSON) ReadValue(src apis.TokenSource, t reflect.Type) (any, error) {
	r, err := j.loc.FindReader(t)
	if err != nil {
		return nil, err
	}
	return r.ReadNext(container.NewContext(j.cfg.Features), src)
}

// ReadAny decodes the next value of src into untyped containers.
func (j *JSON) ReadAny(src apis.TokenSource) (any, error) {
	return j.ReadValue(src, anyType)
}

// Read decodes the next value of src as T. JSON null yields the zero T.
func Read[T any](j *JSON, src apis.TokenSource) (T, error) {
	var zero T
	t := reflect.TypeFor[T]()
	v, err := j.ReadValue(src, t)
	if err != nil || v == nil {
		return zero, err
	}
	out, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: got %T, want %v", ErrResultType, v, t)
	}
	return out, nil
}

// ReadBytes decodes the JSON document data as T.
func ReadBytes[T any](j *JSON, data []byte) (T, error) {
	return Read[T](j, tokens.NewStreamBytes(data))
}

// ReadFrom decodes the first JSON value read from r as T.
func ReadFrom[T any](j *JSON, r io.Reader) (T, error) {
	return Read[T](j, tokens.NewStream(r))
}
