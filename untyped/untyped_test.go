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

package untyped_test

import (
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/jrx/apis"
	"dirpx.dev/jrx/container"
	"dirpx.dev/jrx/tokens"
	"dirpx.dev/jrx/untyped"
)

func decode(t *testing.T, fs apis.Features, in string) (any, error) {
	t.Helper()
	return untyped.Std.ReadNext(container.NewContext(fs), tokens.NewStreamBytes([]byte(in)))
}

func mustDecode(t *testing.T, fs apis.Features, in string) any {
	t.Helper()
	v, err := decode(t, fs, in)
	require.NoError(t, err, in)
	return v
}

func TestObjects_Paths(t *testing.T) {
	cases := []struct {
		in   string
		keys []string
	}{
		{`{}`, []string{}},
		{`{"a":1}`, []string{"a"}},
		{`{"z":1,"a":2,"m":3}`, []string{"z", "a", "m"}},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			v := mustDecode(t, 0, tc.in)
			obj, ok := v.(*container.Object)
			require.True(t, ok, spew.Sdump(v))
			assert.Equal(t, tc.keys, container.Keys(obj))
		})
	}
}

func TestObjects_EmptyIsFresh(t *testing.T) {
	a := mustDecode(t, 0, `{}`).(*container.Object)
	b := mustDecode(t, 0, `{}`).(*container.Object)
	a.Set("x", 1)
	assert.Equal(t, 0, b.Len())
}

func TestArrays_Paths(t *testing.T) {
	cases := []struct {
		in    string
		slice any
		array any
	}{
		{`[]`, []any{}, [0]any{}},
		{`["a"]`, []any{"a"}, [1]any{"a"}},
		{`["a",true,null]`, []any{"a", true, nil}, [3]any{"a", true, nil}},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.slice, mustDecode(t, 0, tc.in))
			assert.Equal(t, tc.array, mustDecode(t, apis.FeaturesOf(apis.ReadArraysAsGoArrays), tc.in))
		})
	}
}

func TestNested(t *testing.T) {
	v := mustDecode(t, 0, `{"a":[1,{"b":[]}],"c":{"d":null}}`)
	obj := v.(*container.Object)

	a, _ := obj.Get("a")
	arr := a.([]any)
	require.Len(t, arr, 2)
	assert.Equal(t, int32(1), arr[0])
	inner := arr[1].(*container.Object)
	b, _ := inner.Get("b")
	assert.Equal(t, []any{}, b)

	c, _ := obj.Get("c")
	d, present := c.(*container.Object).Get("d")
	assert.True(t, present)
	assert.Nil(t, d)
}

func TestIntegerWidths(t *testing.T) {
	huge, _ := new(big.Int).SetString("99999999999999999999", 10)

	cases := []struct {
		in   string
		want any
	}{
		{"0", int32(0)},
		{"2147483647", int32(2147483647)},
		{"2147483648", int64(2147483648)},
		{"-2147483649", int64(-2147483649)},
		{"99999999999999999999", huge},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, mustDecode(t, 0, tc.in))
		})
	}
}

func TestFloats(t *testing.T) {
	assert.Equal(t, 1.5, mustDecode(t, 0, "1.5"))

	wide := mustDecode(t, 0, "1e400")
	d, ok := wide.(decimal.Decimal)
	require.True(t, ok, spew.Sdump(wide))
	assert.True(t, d.Equal(decimal.RequireFromString("1e400")))

	exact := mustDecode(t, apis.FeaturesOf(apis.UseBigDecimalForFloats), "0.1")
	assert.True(t, decimal.RequireFromString("0.1").Equal(exact.(decimal.Decimal)))

	assert.Equal(t, int32(3), mustDecode(t, apis.FeaturesOf(apis.UseBigDecimalForFloats), "3"),
		"integers are unaffected by UseBigDecimalForFloats")
}

func TestFloat32FromBuffer(t *testing.T) {
	src := tokens.NewBuffer().WriteFloat32(2.5).Source()
	v, err := untyped.Std.ReadNext(container.NewContext(0), src)
	require.NoError(t, err)
	assert.Equal(t, float32(2.5), v)
}

type upperHooks struct {
	apis.DefaultHooks
}

func (upperHooks) FromString(s string) any { return strings.ToUpper(s) }
func (upperHooks) FromKey(k string) string { return "k_" + k }
func (upperHooks) FromNull() any           { return "NULL" }
func (upperHooks) FromEmbedded(v any) any  { return []any{v} }
func (upperHooks) FromBoolean(b bool) any  { return !b }

func TestHooks(t *testing.T) {
	r := untyped.New(upperHooks{})
	src := tokens.NewStreamBytes([]byte(`{"a":"x","b":null,"c":true}`))
	v, err := r.ReadNext(container.NewContext(0), src)
	require.NoError(t, err)

	obj := v.(*container.Object)
	assert.Equal(t, []string{"k_a", "k_b", "k_c"}, container.Keys(obj))
	a, _ := obj.Get("k_a")
	assert.Equal(t, "X", a)
	b, _ := obj.Get("k_b")
	assert.Equal(t, "NULL", b)
	c, _ := obj.Get("k_c")
	assert.Equal(t, false, c)

	emb := tokens.NewBuffer().WriteEmbedded(42).Source()
	v, err = r.ReadNext(container.NewContext(0), emb)
	require.NoError(t, err)
	assert.Equal(t, []any{42}, v)
}

func TestStructuralErrors(t *testing.T) {
	cases := []string{
		`{"a":1`,
		`[1,2`,
		`{"a":}`,
		``,
	}
	for _, in := range cases {
		t.Run(in, func(t *testing.T) {
			v, err := decode(t, 0, in)
			require.Error(t, err)
			assert.Nil(t, v, "no partial result")
			assert.True(t, errors.Is(err, apis.ErrStructural), "%v", err)
		})
	}
}

func TestMalformedObjectTerminator(t *testing.T) {
	src := tokens.NewBuffer().
		WriteStartObject().
		WriteFieldName("a").WriteInt(1).
		WriteInt(2).
		Source()
	_, err := untyped.Std.ReadNext(container.NewContext(0), src)
	var se *apis.StructuralError
	require.True(t, errors.As(err, &se), "%v", err)
	assert.Equal(t, apis.TokenNumberInt, se.Token)
}

func TestDuplicateKeys(t *testing.T) {
	in := `{"a":1,"a":2}`

	v := mustDecode(t, 0, in).(*container.Object)
	a, _ := v.Get("a")
	assert.Equal(t, int32(2), a)

	_, err := decode(t, apis.FeaturesOf(apis.FailOnDuplicateMapKeys), in)
	assert.True(t, errors.Is(err, apis.ErrStructural))
	assert.True(t, errors.Is(err, container.ErrDuplicateKey))
}

func TestReadFromFieldName(t *testing.T) {
	src := tokens.NewStreamBytes([]byte(`{"a":1,"b":2}`))
	_, err := src.NextToken()
	require.NoError(t, err)
	_, err = src.NextToken()
	require.NoError(t, err)
	require.Equal(t, apis.TokenFieldName, src.CurrentToken())

	v, err := untyped.Std.Read(container.NewContext(0), src)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, container.Keys(v.(*container.Object)))
	assert.Equal(t, apis.TokenEndObject, src.CurrentToken())
}
