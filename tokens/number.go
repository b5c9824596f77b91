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

package tokens

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"dirpx.dev/jrx/apis"
)

var (
	// ErrNotNumber is returned by numeric accessors when the current token
	// carries no numeric text.
	ErrNotNumber = errors.New("jrx(tokens): current token is not a number")
	// ErrNotStarted is returned when an accessor is used before the first token.
	ErrNotStarted = errors.New("jrx(tokens): no current token")
)

// literal is the textual payload of the current token plus its kind.
// Both Stream and Buffer delegate numeric access to it.
type literal struct {
	tok  apis.Token
	text string
	// nt overrides classification when non-zero (recorded tokens only).
	nt apis.NumberType
}

func isFloatText(s string) bool {
	return strings.ContainsAny(s, ".eE")
}

func (l literal) numeric() error {
	switch l.tok {
	case apis.TokenNumberInt, apis.TokenNumberFloat, apis.TokenString:
		return nil
	case apis.TokenNone:
		return ErrNotStarted
	default:
		return fmt.Errorf("%w: %s", ErrNotNumber, l.tok)
	}
}

func (l literal) numberType() (apis.NumberType, error) {
	if l.tok != apis.TokenNumberInt && l.tok != apis.TokenNumberFloat {
		return apis.NumberUnknown, fmt.Errorf("%w: %s", ErrNotNumber, l.tok)
	}
	if l.nt != apis.NumberUnknown {
		return l.nt, nil
	}
	if l.tok == apis.TokenNumberInt {
		n, err := strconv.ParseInt(l.text, 10, 64)
		switch {
		case err != nil:
			return apis.NumberBigInteger, nil
		case n >= math.MinInt32 && n <= math.MaxInt32:
			return apis.NumberInt, nil
		default:
			return apis.NumberLong, nil
		}
	}
	f, err := strconv.ParseFloat(l.text, 64)
	if err != nil || math.IsInf(f, 0) {
		return apis.NumberBigDecimal, nil
	}
	return apis.NumberDouble, nil
}

func (l literal) int32() (int32, error) {
	if err := l.numeric(); err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(l.text, 10, 32)
	return int32(n), err
}

func (l literal) int64() (int64, error) {
	if err := l.numeric(); err != nil {
		return 0, err
	}
	return strconv.ParseInt(l.text, 10, 64)
}

func (l literal) bigInt() (*big.Int, error) {
	if err := l.numeric(); err != nil {
		return nil, err
	}
	n, ok := new(big.Int).SetString(l.text, 10)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotNumber, l.text)
	}
	return n, nil
}

func (l literal) float32() (float32, error) {
	if err := l.numeric(); err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(l.text, 32)
	return float32(f), err
}

func (l literal) float64() (float64, error) {
	if err := l.numeric(); err != nil {
		return 0, err
	}
	return strconv.ParseFloat(l.text, 64)
}

func (l literal) decimal() (decimal.Decimal, error) {
	if err := l.numeric(); err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromString(l.text)
}
