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
	"go.uber.org/zap"
)

// Config carries read-only knobs used to build a Locator.
// It is passed by value and should be treated as immutable by implementations.
type Config struct {
	// Features are the default features of decode operations.
	Features Features

	// MaxCachedReaders is the hard cap of the reader cache. Reaching it
	// clears the whole cache before the next insert.
	MaxCachedReaders int

	// CachePolicy selects whether readers are cached at all.
	CachePolicy CachePolicy

	// Provider optionally overrides built-in readers.
	Provider ReaderProvider

	// Types resolves record and enum descriptors. Nil means a private table.
	Types Introspector

	// Hooks optionally substitutes untyped primitives. Nil means defaults.
	Hooks ValueHooks

	// Logger receives construction and cache diagnostics. Nil means no-op.
	Logger *zap.Logger
}
