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

package untyped

import (
	"dirpx.dev/jrx/apis"
)

// Integer decodes the integer token src is on as int32, int64 or *big.Int,
// whichever is the narrowest lossless representation.
func Integer(src apis.TokenSource) (any, error) {
	nt, err := src.NumberType()
	if err != nil {
		return nil, apis.NewCoercionError(src, anyType, err, "not an integer")
	}
	var (
		v   any
		nerr error
	)
	switch nt {
	case apis.NumberInt:
		v, nerr = src.Int32()
	case apis.NumberLong:
		v, nerr = src.Int64()
	default:
		v, nerr = src.BigInt()
	}
	if nerr != nil {
		return nil, apis.NewCoercionError(src, anyType, nerr, "invalid integer")
	}
	return v, nil
}

// Float decodes the floating-point token src is on. exact forces
// decimal.Decimal; otherwise the source's classification picks float32,
// float64, or decimal.Decimal for literals beyond float64 range.
func Float(src apis.TokenSource, exact bool) (any, error) {
	nt := apis.NumberBigDecimal
	if !exact {
		var err error
		if nt, err = src.NumberType(); err != nil {
			return nil, apis.NewCoercionError(src, anyType, err, "not a number")
		}
	}
	var (
		v   any
		nerr error
	)
	switch nt {
	case apis.NumberFloat:
		v, nerr = src.Float32()
	case apis.NumberDouble:
		v, nerr = src.Float64()
	default:
		v, nerr = src.Decimal()
	}
	if nerr != nil {
		return nil, apis.NewCoercionError(src, anyType, nerr, "invalid number")
	}
	return v, nil
}
