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

// Package jrx decodes streams of JSON tokens into Go values.
//
// Values come out in one of two shapes. Untyped decoding produces generic
// containers: insertion-ordered objects (*container.Object), []any or [N]any
// arrays, and scalars whose width follows the literal (int32, int64,
// *big.Int, float64, decimal.Decimal). Typed decoding produces any Go type
// the reflection layer can describe: structs, slices, arrays, maps with
// string keys, pointers, registered enums and a closed table of scalars
// (time.Time, uuid.UUID, big.Int, decimal.Decimal and friends).
//
// # Design
//
// Every target type is decoded by a ValueReader. Readers are found by a
// Locator, which caches them per (type, cache-relevant features) and builds
// missing ones by walking a chain of strategies:
//
//  1. pointers, the empty interface, fixed arrays, registered enums
//  2. slices and maps, with the element reader resolved first
//  3. the configured ReaderProvider, then the scalar table
//  4. everything else as a record ("bean") built from its fields and
//     SetXxx methods
//
// Record readers may refer to themselves, directly or through other types.
// The locator builds them under one lock and hands out the unfinished reader
// to recursive lookups; nothing built during a record construction is
// cached before the outermost record is complete.
//
// The cache has a hard cap. When it is reached the whole cache is cleared and
// the reset is logged; readers are rebuilt on demand afterwards.
//
// # Usage
//
// A JSON service is an explicit object; there is no package-level state.
//
//	svc := jrx.New(config.WithFeature(apis.FailOnDuplicateMapKeys, true))
//	order, err := jrx.ReadBytes[Order](svc, data)
//	tree, err := svc.ReadAny(tokens.NewStream(r))
//
// Derived services share the reader cache:
//
//	strict := svc.Without(apis.UseFields).With(apis.ForceReflectionAccess)
//
// Types with custom construction are described through introspect.Table:
//
//	types := introspect.New()
//	_ = types.Define(reflect.TypeFor[Money](), introspect.Descriptor{
//		FromString: parseMoney,
//	})
//	svc := jrx.New(config.WithTypes(types))
package jrx
