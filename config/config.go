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

package config

import (
	"go.uber.org/zap"

	"dirpx.dev/jrx/apis"
)

const (
	// DefaultMaxCachedReaders represents the default for MaxCachedReaders.
	// The working set of most processes fits comfortably; the cap only guards
	// against unbounded retention.
	DefaultMaxCachedReaders = 500
	// DefaultCachePolicy represents the default for CachePolicy.
	DefaultCachePolicy = apis.ResetOnOverflow
	// DefaultFeatures represents the default feature set: fields are usable
	// when no setter exists, everything else is off.
	DefaultFeatures = apis.Features(apis.UseFields)
)

// NewConfig constructs an apis.Config from the given options.
func NewConfig(opts ...Option) apis.Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	// Ensure MaxCachedReaders is valid.
	if cfg.MaxCachedReaders <= 0 {
		cfg.MaxCachedReaders = DefaultMaxCachedReaders
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return cfg
}

// DefaultConfig is the default configuration used when none is provided.
func DefaultConfig() apis.Config {
	return apis.Config{
		Features:         DefaultFeatures,
		MaxCachedReaders: DefaultMaxCachedReaders,
		CachePolicy:      DefaultCachePolicy,
		Logger:           zap.NewNop(),
	}
}

// Option is a functional option that mutates an apis.Config during construction.
type Option func(*apis.Config)

// WithFeatures replaces the whole feature set.
func WithFeatures(fs apis.Features) Option {
	return func(c *apis.Config) {
		c.Features = fs
	}
}

// WithFeature turns a single feature on or off.
func WithFeature(f apis.Feature, on bool) Option {
	return func(c *apis.Config) {
		if on {
			c.Features = c.Features.With(f)
			return
		}
		c.Features = c.Features.Without(f)
	}
}

// WithMaxCachedReaders sets the cache cap.
// A non-positive value resets to the default.
func WithMaxCachedReaders(max int) Option {
	return func(c *apis.Config) {
		if max <= 0 {
			c.MaxCachedReaders = DefaultMaxCachedReaders
			return
		}
		c.MaxCachedReaders = max
	}
}

// WithCachePolicy sets the cache policy.
func WithCachePolicy(p apis.CachePolicy) Option {
	return func(c *apis.Config) {
		c.CachePolicy = p
	}
}

// WithProvider sets the custom reader provider.
func WithProvider(p apis.ReaderProvider) Option {
	return func(c *apis.Config) {
		c.Provider = p
	}
}

// WithTypes sets the type introspector.
func WithTypes(types apis.Introspector) Option {
	return func(c *apis.Config) {
		c.Types = types
	}
}

// WithHooks sets the untyped value hooks.
func WithHooks(h apis.ValueHooks) Option {
	return func(c *apis.Config) {
		c.Hooks = h
	}
}

// WithLogger sets the diagnostics logger. Nil restores the no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *apis.Config) {
		if l == nil {
			l = zap.NewNop()
		}
		c.Logger = l
	}
}
