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
	"fmt"
	"strings"
)

// CachePolicy controls whether a reader cache retains entries.
//
// There is deliberately no per-entry eviction: a retaining cache that hits
// its cap is cleared as a whole.
type CachePolicy int

const (
	// ResetOnOverflow retains readers until the cap is hit, then clears
	// everything before inserting the next reader.
	ResetOnOverflow CachePolicy = iota

	// NoCache disables retention: every lookup builds a fresh reader.
	// Useful for tests and for comparing behavior with and without caching.
	NoCache
)

// String returns "ResetOnOverflow", "NoCache" or "Unknown(<n>)".
func (p CachePolicy) String() string {
	switch p {
	case ResetOnOverflow:
		return "ResetOnOverflow"
	case NoCache:
		return "NoCache"
	default:
		return fmt.Sprintf("Unknown(%d)", int(p))
	}
}

// ParseCachePolicy parses a policy name case-insensitively.
// Surrounding whitespace is ignored.
func ParseCachePolicy(s string) (CachePolicy, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return ResetOnOverflow, fmt.Errorf("cache: empty policy")
	}
	switch strings.ToLower(trimmed) {
	case "resetonoverflow", "reset":
		return ResetOnOverflow, nil
	case "nocache", "none":
		return NoCache, nil
	default:
		return ResetOnOverflow, fmt.Errorf("cache: unknown policy %q", s)
	}
}

// MustParseCachePolicy is like ParseCachePolicy but panics on invalid input.
func MustParseCachePolicy(s string) CachePolicy {
	p, err := ParseCachePolicy(s)
	if err != nil {
		panic(err)
	}
	return p
}

// MarshalText implements encoding.TextMarshaler. Unknown values are an error
// rather than a persisted "Unknown(...)" form.
func (p CachePolicy) MarshalText() ([]byte, error) {
	switch p {
	case ResetOnOverflow, NoCache:
		return []byte(p.String()), nil
	default:
		return nil, fmt.Errorf("cache: cannot marshal unknown policy %d", int(p))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler. On failure p is unchanged.
func (p *CachePolicy) UnmarshalText(text []byte) error {
	v, err := ParseCachePolicy(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}
