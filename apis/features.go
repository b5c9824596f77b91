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
	"strings"
)

// Feature is a single on/off switch that changes how readers are built or
// how values are decoded.
type Feature uint32

const (
	// ForceReflectionAccess makes unexported struct fields usable as properties.
	ForceReflectionAccess Feature = 1 << iota
	// UseFields allows struct fields to be used when no setter exists.
	UseFields
	// ReadArraysAsGoArrays makes the untyped decoder produce fixed [N]any
	// arrays instead of []any slices.
	ReadArraysAsGoArrays
	// UseBigDecimalForFloats makes the untyped decoder produce decimal.Decimal
	// for every floating-point literal.
	UseBigDecimalForFloats
	// FailOnDuplicateMapKeys makes map builders reject repeated keys.
	FailOnDuplicateMapKeys
)

var featureNames = []struct {
	f    Feature
	name string
}{
	{ForceReflectionAccess, "ForceReflectionAccess"},
	{UseFields, "UseFields"},
	{ReadArraysAsGoArrays, "ReadArraysAsGoArrays"},
	{UseBigDecimalForFloats, "UseBigDecimalForFloats"},
	{FailOnDuplicateMapKeys, "FailOnDuplicateMapKeys"},
}

// String returns the feature name.
func (f Feature) String() string {
	for _, fn := range featureNames {
		if fn.f == f {
			return fn.name
		}
	}
	return "Unknown"
}

// Features is a bitset of enabled features.
type Features uint32

// CacheFlags lists the features that influence reader construction and
// therefore take part in reader cache keys.
const CacheFlags = Features(ForceReflectionAccess | UseFields | UseBigDecimalForFloats | FailOnDuplicateMapKeys)

// FeaturesOf returns a bitset with the given features enabled.
func FeaturesOf(fs ...Feature) Features {
	var out Features
	for _, f := range fs {
		out |= Features(f)
	}
	return out
}

// Enabled reports whether f is on.
func (fs Features) Enabled(f Feature) bool {
	return fs&Features(f) != 0
}

// With returns a copy with the given features turned on.
func (fs Features) With(f ...Feature) Features {
	return fs | FeaturesOf(f...)
}

// Without returns a copy with the given features turned off.
func (fs Features) Without(f ...Feature) Features {
	return fs &^ FeaturesOf(f...)
}

// String lists the enabled features, e.g. "UseFields|FailOnDuplicateMapKeys".
func (fs Features) String() string {
	var parts []string
	for _, fn := range featureNames {
		if fs.Enabled(fn.f) {
			parts = append(parts, fn.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}
