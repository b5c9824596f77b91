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

package registry

import (
	"sync"

	"go.uber.org/zap"

	"dirpx.dev/jrx/apis"
	"dirpx.dev/jrx/config"
)

// New constructs the reader cache described by cfg. Only MaxCachedReaders,
// CachePolicy and Logger are used here.
func New(cfg apis.Config) apis.Cache {
	if cfg.MaxCachedReaders <= 0 {
		cfg.MaxCachedReaders = config.DefaultMaxCachedReaders
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &registry{
		max:    cfg.MaxCachedReaders,
		policy: cfg.CachePolicy,
		log:    log.Named("cache"),
	}
}

// registry is a bounded reader cache backed by sync.Map.
type registry struct {
	// max is the hard cap on cached readers.
	max int
	// policy selects whether Store retains anything.
	policy apis.CachePolicy
	log    *zap.Logger
	// mu guards write-side consistency and counters
	mu sync.Mutex
	// m maps apis.TypeKey to apis.ValueReader.
	m sync.Map // map[apis.TypeKey]apis.ValueReader
	// count tracks the number of cached readers.
	count int
	// resets counts overflow clears.
	resets int
}

func key(k apis.TypeKey) apis.TypeKey {
	k.Features &= apis.CacheFlags
	return k
}

// Load returns the reader cached under k. It never blocks.
func (r *registry) Load(k apis.TypeKey) (apis.ValueReader, bool) {
	if k.Type == nil {
		return nil, false
	}
	if v, ok := r.m.Load(key(k)); ok {
		return v.(apis.ValueReader), true
	}
	return nil, false
}

// Store caches vr under k. The first reader stored for a key wins; later
// ones are dropped. At the cap the whole cache is cleared first.
func (r *registry) Store(k apis.TypeKey, vr apis.ValueReader) {
	if r.policy == apis.NoCache || k.Type == nil || vr == nil {
		return
	}
	k = key(k)

	// Fast read path: a concurrent builder got there first.
	if _, ok := r.m.Load(k); ok {
		return
	}

	// Write path: guard with a mutex to keep the counter exact.
	r.mu.Lock()
	defer r.mu.Unlock()

	// Re-check under lock in case another goroutine stored meanwhile.
	if _, ok := r.m.Load(k); ok {
		return
	}
	if r.count >= r.max {
		r.m.Clear()
		r.count = 0
		r.resets++
		r.log.Info("reader cache reset",
			zap.Int("size", r.max),
			zap.Int("resets", r.resets),
			zap.Stringer("type", k.Type))
	}

	r.m.Store(k, vr)
	r.count++
}

// Entries returns a snapshot for diagnostics (order is unspecified).
func (r *registry) Entries() []apis.CacheEntry {
	entries := make([]apis.CacheEntry, 0, r.Count())
	r.m.Range(func(k, v any) bool {
		entries = append(entries, apis.CacheEntry{
			Key:    k.(apis.TypeKey),
			Reader: v.(apis.ValueReader),
		})
		return true
	})
	return entries
}

// Count returns the number of cached readers.
func (r *registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Resets returns how many times the cache overflowed.
func (r *registry) Resets() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resets
}

// Reset clears all cached readers. It does not count as an overflow.
func (r *registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m.Clear()
	r.count = 0
}
