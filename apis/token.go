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
	"math/big"

	"github.com/shopspring/decimal"
)

// Token identifies the kind of the token a TokenSource is positioned on.
type Token int

const (
	// TokenNone means no token is available (end of input or not started).
	TokenNone Token = iota
	TokenStartObject
	TokenEndObject
	TokenStartArray
	TokenEndArray
	TokenFieldName
	TokenString
	TokenNumberInt
	TokenNumberFloat
	TokenTrue
	TokenFalse
	TokenNull
	// TokenEmbedded carries an opaque, already materialized value.
	TokenEmbedded
)

// String returns a stable, upper-case token name for diagnostics.
func (t Token) String() string {
	switch t {
	case TokenNone:
		return "NONE"
	case TokenStartObject:
		return "START_OBJECT"
	case TokenEndObject:
		return "END_OBJECT"
	case TokenStartArray:
		return "START_ARRAY"
	case TokenEndArray:
		return "END_ARRAY"
	case TokenFieldName:
		return "FIELD_NAME"
	case TokenString:
		return "VALUE_STRING"
	case TokenNumberInt:
		return "VALUE_NUMBER_INT"
	case TokenNumberFloat:
		return "VALUE_NUMBER_FLOAT"
	case TokenTrue:
		return "VALUE_TRUE"
	case TokenFalse:
		return "VALUE_FALSE"
	case TokenNull:
		return "VALUE_NULL"
	case TokenEmbedded:
		return "VALUE_EMBEDDED_OBJECT"
	default:
		return fmt.Sprintf("Unknown(%d)", int(t))
	}
}

// IsScalar reports whether t is a complete scalar value token.
func (t Token) IsScalar() bool {
	switch t {
	case TokenString, TokenNumberInt, TokenNumberFloat, TokenTrue, TokenFalse, TokenNull, TokenEmbedded:
		return true
	}
	return false
}

// NumberType is the narrowest representation a numeric token fits in.
type NumberType int

const (
	NumberUnknown NumberType = iota
	NumberInt
	NumberLong
	NumberBigInteger
	NumberFloat
	NumberDouble
	NumberBigDecimal
)

// String returns the number type name.
func (n NumberType) String() string {
	switch n {
	case NumberInt:
		return "INT"
	case NumberLong:
		return "LONG"
	case NumberBigInteger:
		return "BIG_INTEGER"
	case NumberFloat:
		return "FLOAT"
	case NumberDouble:
		return "DOUBLE"
	case NumberBigDecimal:
		return "BIG_DECIMAL"
	default:
		return "UNKNOWN"
	}
}

// Location points at a position in the token stream.
// Offset is a byte offset for textual sources and a token index for replayed ones.
type Location struct {
	Offset int64
	Depth  int
}

// String formats the location as "offset N, depth D".
func (l Location) String() string {
	return fmt.Sprintf("offset %d, depth %d", l.Offset, l.Depth)
}

// TokenSource is a pull-based stream of JSON tokens.
//
// Implementations are not safe for concurrent use; one decode call owns its
// source for the whole call.
type TokenSource interface {
	// NextToken advances to the next token and returns it.
	// At the end of input it returns TokenNone and a nil error.
	NextToken() (Token, error)
	// CurrentToken returns the token the source is positioned on.
	CurrentToken() Token
	// NextFieldName advances and, if the new token is a field name, returns it.
	// ok is false otherwise (typically at TokenEndObject).
	NextFieldName() (name string, ok bool, err error)
	// SkipChildren skips to the matching end marker when positioned on a
	// start marker; it is a no-op for any other token.
	SkipChildren() error

	// Text returns the textual form of the current token.
	Text() string
	// NumberType classifies the current numeric token.
	NumberType() (NumberType, error)
	Int32() (int32, error)
	Int64() (int64, error)
	BigInt() (*big.Int, error)
	Float32() (float32, error)
	Float64() (float64, error)
	Decimal() (decimal.Decimal, error)
	// Embedded returns the value carried by a TokenEmbedded token.
	Embedded() any

	// Location returns the current stream position.
	Location() Location
}
