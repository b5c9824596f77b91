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

package readers

import (
	"encoding"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/url"
	"reflect"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"dirpx.dev/jrx/apis"
	uref "dirpx.dev/jrx/utils/reflect"
)

// decodeFunc decodes the current scalar token into a value of the reader's
// exact type. It is never called on null.
type decodeFunc func(src apis.TokenSource, t reflect.Type) (any, error)

// Ensure SimpleReader implements apis.ValueReader.
var _ apis.ValueReader = (*SimpleReader)(nil)

// SimpleReader decodes one scalar token into a fixed Go shape.
type SimpleReader struct {
	t      reflect.Type
	decode decodeFunc
}

func (r *SimpleReader) ValueType() reflect.Type { return r.t }

func (r *SimpleReader) ReadNext(rc *apis.ReadContext, src apis.TokenSource) (any, error) {
	return next(r, rc, src)
}

func (r *SimpleReader) Read(_ *apis.ReadContext, src apis.TokenSource) (any, error) {
	switch src.CurrentToken() {
	case apis.TokenNull:
		return nil, nil
	case apis.TokenEmbedded:
		if v, ok := embedded(src, r.t); ok {
			return v, nil
		}
		return nil, mismatch(src, r.t)
	case apis.TokenStartObject, apis.TokenStartArray, apis.TokenFieldName:
		return nil, mismatch(src, r.t)
	case apis.TokenNone, apis.TokenEndObject, apis.TokenEndArray:
		return nil, apis.UnexpectedToken(src, "expected a value")
	}
	return r.decode(src, r.t)
}

var (
	byteSliceType     = reflect.TypeFor[[]byte]()
	timeType          = reflect.TypeFor[time.Time]()
	durationType      = reflect.TypeFor[time.Duration]()
	uuidType          = reflect.TypeFor[uuid.UUID]()
	bigIntType        = reflect.TypeFor[big.Int]()
	decimalType       = reflect.TypeFor[decimal.Decimal]()
	numberType        = reflect.TypeFor[json.Number]()
	urlType           = reflect.TypeFor[url.URL]()
	textUnmarshalType = reflect.TypeFor[encoding.TextUnmarshaler]()
)

// wellKnown lists the non-primitive scalar shapes by exact type.
var wellKnown = map[reflect.Type]decodeFunc{
	byteSliceType: decodeBytes,
	timeType:      decodeTime,
	durationType:  decodeDuration,
	uuidType:      decodeUUID,
	bigIntType:    decodeBigInt,
	decimalType:   decodeDecimal,
	numberType:    decodeNumber,
	urlType:       decodeURL,
}

// Simple returns the built-in scalar reader for t, if t is a scalar shape:
// a primitive kind (or a named variant), one of the well-known library
// types, or a non-struct encoding.TextUnmarshaler.
func Simple(t reflect.Type) (*SimpleReader, bool) {
	if t == nil {
		return nil, false
	}
	if fn, ok := wellKnown[t]; ok {
		return &SimpleReader{t: t, decode: fn}, true
	}
	if t.Kind() != reflect.Struct && t.Kind() != reflect.Interface &&
		reflect.PointerTo(t).Implements(textUnmarshalType) {
		return &SimpleReader{t: t, decode: decodeText}, true
	}
	if fn := byKind(t.Kind()); fn != nil {
		return &SimpleReader{t: t, decode: fn}, true
	}
	if t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8 {
		return &SimpleReader{t: t, decode: decodeBytes}, true
	}
	return nil, false
}

func byKind(k reflect.Kind) decodeFunc {
	switch {
	case k == reflect.Bool:
		return decodeBool
	case uref.IsIntKind(k):
		return decodeInt
	case uref.IsUintKind(k):
		return decodeUint
	case uref.IsFloatKind(k):
		return decodeFloat
	case k == reflect.String:
		return decodeString
	}
	return nil
}

// convert returns v as type t (v's kind matches t's).
func convert(v any, t reflect.Type) any {
	rv := reflect.ValueOf(v)
	if rv.Type() == t {
		return v
	}
	return rv.Convert(t).Interface()
}

func decodeBool(src apis.TokenSource, t reflect.Type) (any, error) {
	switch src.CurrentToken() {
	case apis.TokenTrue:
		return convert(true, t), nil
	case apis.TokenFalse:
		return convert(false, t), nil
	case apis.TokenString:
		b, err := strconv.ParseBool(src.Text())
		if err != nil {
			return nil, apis.NewCoercionError(src, t, err, "not a boolean")
		}
		return convert(b, t), nil
	}
	return nil, mismatch(src, t)
}

// MaxBigIntDigits bounds the decimal digits of a big.Int decoded from a
// literal with an exponent, such as 1e400.
const MaxBigIntDigits = 10000

// pinnedDigits is the digit budget of every fixed-width integer type; the
// widest, uint64, has 20 digits.
const pinnedDigits = 20

// integral returns the integer text of the current token, rejecting
// fractional literals. Float literals with an integral value ("2.0", "1e3")
// are accepted when the value has at most maxDigits digits. The exponent is
// checked before the value is expanded.
func integral(src apis.TokenSource, t reflect.Type, maxDigits int) (string, error) {
	switch src.CurrentToken() {
	case apis.TokenNumberInt:
		return src.Text(), nil
	case apis.TokenNumberFloat, apis.TokenString:
		d, err := decimal.NewFromString(src.Text())
		if err != nil {
			return "", apis.NewCoercionError(src, t, err, "not a number")
		}
		if d.IsZero() {
			return "0", nil
		}
		coef := d.Coefficient()
		digits := int64(len(coef.Abs(coef).String()))
		exp := int64(d.Exponent())
		switch {
		case exp >= 0 && digits+exp > int64(maxDigits):
			return "", apis.NewCoercionError(src, t, nil, "out of range")
		case exp < 0 && -exp >= digits:
			// A non-zero magnitude below one.
			return "", apis.NewCoercionError(src, t, nil, "fractional value for an integer type")
		}
		if !d.IsInteger() {
			return "", apis.NewCoercionError(src, t, nil, "fractional value for an integer type")
		}
		return d.BigInt().String(), nil
	}
	return "", mismatch(src, t)
}

func decodeInt(src apis.TokenSource, t reflect.Type) (any, error) {
	text, err := integral(src, t, pinnedDigits)
	if err != nil {
		return nil, err
	}
	n, err := strconv.ParseInt(text, 10, t.Bits())
	if err != nil {
		return nil, apis.NewCoercionError(src, t, err, "out of range")
	}
	v := reflect.New(t).Elem()
	v.SetInt(n)
	return v.Interface(), nil
}

func decodeUint(src apis.TokenSource, t reflect.Type) (any, error) {
	text, err := integral(src, t, pinnedDigits)
	if err != nil {
		return nil, err
	}
	n, err := strconv.ParseUint(text, 10, t.Bits())
	if err != nil {
		return nil, apis.NewCoercionError(src, t, err, "out of range")
	}
	v := reflect.New(t).Elem()
	v.SetUint(n)
	return v.Interface(), nil
}

func decodeFloat(src apis.TokenSource, t reflect.Type) (any, error) {
	switch src.CurrentToken() {
	case apis.TokenNumberInt, apis.TokenNumberFloat, apis.TokenString:
	default:
		return nil, mismatch(src, t)
	}
	f, err := strconv.ParseFloat(src.Text(), t.Bits())
	if err != nil {
		return nil, apis.NewCoercionError(src, t, err, "out of range")
	}
	v := reflect.New(t).Elem()
	v.SetFloat(f)
	return v.Interface(), nil
}

// decodeString accepts any scalar token and keeps its literal text.
func decodeString(src apis.TokenSource, t reflect.Type) (any, error) {
	return convert(src.Text(), t), nil
}

func stringOnly(src apis.TokenSource, t reflect.Type) (string, error) {
	if src.CurrentToken() != apis.TokenString {
		return "", mismatch(src, t)
	}
	return src.Text(), nil
}

func decodeBytes(src apis.TokenSource, t reflect.Type) (any, error) {
	s, err := stringOnly(src, t)
	if err != nil {
		return nil, err
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, apis.NewCoercionError(src, t, err, "invalid base64")
	}
	return convert(b, t), nil
}

// decodeTime accepts RFC 3339 strings and unix milliseconds.
func decodeTime(src apis.TokenSource, t reflect.Type) (any, error) {
	if src.CurrentToken() == apis.TokenNumberInt {
		ms, err := src.Int64()
		if err != nil {
			return nil, apis.NewCoercionError(src, t, err, "out of range")
		}
		return time.UnixMilli(ms).UTC(), nil
	}
	s, err := stringOnly(src, t)
	if err != nil {
		return nil, err
	}
	ts, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return nil, apis.NewCoercionError(src, t, err, "invalid timestamp")
	}
	return ts, nil
}

// decodeDuration accepts integer nanoseconds and time.ParseDuration strings.
func decodeDuration(src apis.TokenSource, t reflect.Type) (any, error) {
	if src.CurrentToken() == apis.TokenNumberInt {
		n, err := src.Int64()
		if err != nil {
			return nil, apis.NewCoercionError(src, t, err, "out of range")
		}
		return time.Duration(n), nil
	}
	s, err := stringOnly(src, t)
	if err != nil {
		return nil, err
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return nil, apis.NewCoercionError(src, t, err, "invalid duration")
	}
	return d, nil
}

func decodeUUID(src apis.TokenSource, t reflect.Type) (any, error) {
	s, err := stringOnly(src, t)
	if err != nil {
		return nil, err
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, apis.NewCoercionError(src, t, err, "invalid uuid")
	}
	return id, nil
}

func decodeBigInt(src apis.TokenSource, t reflect.Type) (any, error) {
	text, err := integral(src, t, MaxBigIntDigits)
	if err != nil {
		return nil, err
	}
	n, ok := new(big.Int).SetString(text, 10)
	if !ok {
		return nil, apis.NewCoercionError(src, t, nil, "not an integer")
	}
	return *n, nil
}

func decodeDecimal(src apis.TokenSource, t reflect.Type) (any, error) {
	switch src.CurrentToken() {
	case apis.TokenNumberInt, apis.TokenNumberFloat, apis.TokenString:
	default:
		return nil, mismatch(src, t)
	}
	d, err := src.Decimal()
	if err != nil {
		return nil, apis.NewCoercionError(src, t, err, "not a number")
	}
	return d, nil
}

func decodeNumber(src apis.TokenSource, t reflect.Type) (any, error) {
	switch src.CurrentToken() {
	case apis.TokenNumberInt, apis.TokenNumberFloat:
		return json.Number(src.Text()), nil
	case apis.TokenString:
		if _, err := strconv.ParseFloat(src.Text(), 64); err != nil {
			return nil, apis.NewCoercionError(src, t, err, "not a number")
		}
		return json.Number(src.Text()), nil
	}
	return nil, mismatch(src, t)
}

func decodeURL(src apis.TokenSource, t reflect.Type) (any, error) {
	s, err := stringOnly(src, t)
	if err != nil {
		return nil, err
	}
	u, err := url.Parse(s)
	if err != nil {
		return nil, apis.NewCoercionError(src, t, err, "invalid url")
	}
	return *u, nil
}

func decodeText(src apis.TokenSource, t reflect.Type) (any, error) {
	s, err := stringOnly(src, t)
	if err != nil {
		return nil, err
	}
	p := reflect.New(t)
	if err := p.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(s)); err != nil {
		return nil, apis.NewCoercionError(src, t, err, "invalid text")
	}
	return p.Elem().Interface(), nil
}
