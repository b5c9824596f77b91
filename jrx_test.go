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

package jrx_test

import (
	"errors"
	"fmt"
	"math/big"
	"reflect"
	"runtime"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/sync/errgroup"

	"dirpx.dev/jrx"
	"dirpx.dev/jrx/apis"
	"dirpx.dev/jrx/config"
	"dirpx.dev/jrx/container"
	"dirpx.dev/jrx/introspect"
	"dirpx.dev/jrx/tokens"
)

type pair struct {
	A int    `json:"a"`
	B string `json:"b"`
}

type tree struct {
	Label  string
	Parent *tree
	Kids   []tree
}

type employee struct {
	Name    string
	Manager *manager
}

type manager struct {
	Reports map[string]employee
}

type reading struct {
	Celsius float64
	hidden  string
	applied int
}

func (r *reading) SetCelsius(v float64) {
	r.Celsius = v
	r.applied++
}

type level int

const (
	low level = iota
	high
)

func (l level) String() string { return [...]string{"LOW", "HIGH"}[l] }

func TestUntyped_ObjectPaths(t *testing.T) {
	svc := jrx.New()
	cases := []struct {
		in   string
		keys []string
	}{
		{`{}`, []string{}},
		{`{"a":1}`, []string{"a"}},
		{`{"b":1,"a":2,"c":3}`, []string{"b", "a", "c"}},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			v, err := jrx.ReadBytes[any](svc, []byte(tc.in))
			require.NoError(t, err)
			obj, ok := v.(*container.Object)
			require.True(t, ok, spew.Sdump(v))
			assert.Equal(t, tc.keys, container.Keys(obj))
		})
	}
}

func TestUntyped_ArrayPaths(t *testing.T) {
	svc := jrx.New()
	arrays := svc.With(apis.ReadArraysAsGoArrays)
	cases := []struct {
		in    string
		slice any
		array any
	}{
		{`[]`, []any{}, [0]any{}},
		{`[1]`, []any{int32(1)}, [1]any{int32(1)}},
		{`[1,"x",false]`, []any{int32(1), "x", false}, [3]any{int32(1), "x", false}},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			v, err := jrx.ReadBytes[any](svc, []byte(tc.in))
			require.NoError(t, err)
			assert.Equal(t, tc.slice, v)

			v, err = jrx.ReadBytes[any](arrays, []byte(tc.in))
			require.NoError(t, err)
			assert.Equal(t, tc.array, v)
		})
	}
}

func TestUntyped_NumberWidths(t *testing.T) {
	svc := jrx.New()

	v, err := jrx.ReadBytes[any](svc, []byte(`2147483647`))
	require.NoError(t, err)
	assert.Equal(t, int32(2147483647), v)

	v, err = jrx.ReadBytes[any](svc, []byte(`2147483648`))
	require.NoError(t, err)
	assert.Equal(t, int64(2147483648), v)

	v, err = jrx.ReadBytes[any](svc, []byte(`99999999999999999999`))
	require.NoError(t, err)
	n, ok := v.(*big.Int)
	require.True(t, ok, spew.Sdump(v))
	assert.Equal(t, "99999999999999999999", n.String())

	v, err = jrx.ReadBytes[any](svc, []byte(`1.5`))
	require.NoError(t, err)
	assert.Equal(t, 1.5, v)

	v, err = jrx.ReadBytes[any](svc.With(apis.UseBigDecimalForFloats), []byte(`1.5`))
	require.NoError(t, err)
	d, ok := v.(decimal.Decimal)
	require.True(t, ok, spew.Sdump(v))
	assert.True(t, decimal.RequireFromString("1.5").Equal(d))
}

func TestRecord_FieldsAndUnknowns(t *testing.T) {
	svc := jrx.New()

	got, err := jrx.ReadBytes[pair](svc, []byte(`{"a":1,"b":"x"}`))
	require.NoError(t, err)
	assert.Equal(t, pair{A: 1, B: "x"}, got)

	got, err = jrx.ReadBytes[pair](svc, []byte(`{"a":1,"c":true}`))
	require.NoError(t, err)
	assert.Equal(t, pair{A: 1}, got)

	ptr, err := jrx.ReadBytes[*pair](svc, []byte(`{"b":"y"}`))
	require.NoError(t, err)
	assert.Equal(t, &pair{B: "y"}, ptr)

	got, err = jrx.ReadBytes[pair](svc, []byte(`null`))
	require.NoError(t, err)
	assert.Equal(t, pair{}, got)
}

func TestRecord_SelfReference(t *testing.T) {
	svc := jrx.New()

	got, err := jrx.ReadBytes[tree](svc, []byte(`{"Label":"root","Kids":[{"Label":"leaf"}]}`))
	require.NoError(t, err)
	assert.Nil(t, got.Parent, "absent self-typed property keeps its default")
	require.Len(t, got.Kids, 1)
	assert.Equal(t, tree{Label: "leaf"}, got.Kids[0])

	got, err = jrx.ReadBytes[tree](svc, []byte(`{"Label":"child","Parent":{"Label":"root"}}`))
	require.NoError(t, err)
	assert.Equal(t, &tree{Label: "root"}, got.Parent)
}

func TestRecord_MutualRecursion(t *testing.T) {
	svc := jrx.New()
	in := `{"Name":"ann","Manager":{"Reports":{"bob":{"Name":"bob"},"cy":{"Name":"cy","Manager":{"Reports":{}}}}}}`

	got, err := jrx.ReadBytes[employee](svc, []byte(in))
	require.NoError(t, err)
	want := employee{
		Name: "ann",
		Manager: &manager{Reports: map[string]employee{
			"bob": {Name: "bob"},
			"cy":  {Name: "cy", Manager: &manager{Reports: map[string]employee{}}},
		}},
	}
	assert.Equal(t, want, got, spew.Sdump(got))
}

func TestRecord_SetterPrecedence(t *testing.T) {
	svc := jrx.New()
	got, err := jrx.ReadBytes[reading](svc, []byte(`{"Celsius":21.5,"hidden":"x"}`))
	require.NoError(t, err)
	assert.Equal(t, 21.5, got.Celsius)
	assert.Equal(t, 1, got.applied, "setter wins over the field")
	assert.Empty(t, got.hidden)

	forced := svc.With(apis.ForceReflectionAccess)
	got, err = jrx.ReadBytes[reading](forced, []byte(`{"hidden":"x"}`))
	require.NoError(t, err)
	assert.Equal(t, "x", got.hidden)
}

func TestEnum(t *testing.T) {
	types := introspect.New()
	require.NoError(t, introspect.RegisterEnum(types, low, high))
	svc := jrx.New(config.WithTypes(types))

	got, err := jrx.ReadBytes[[]level](svc, []byte(`["HIGH","LOW"]`))
	require.NoError(t, err)
	assert.Equal(t, []level{high, low}, got)

	_, err = jrx.ReadBytes[level](svc, []byte(`"MEDIUM"`))
	var ce *apis.CoercionError
	require.True(t, errors.As(err, &ce), "%v", err)
	assert.Contains(t, ce.Error(), "MEDIUM")
	assert.Equal(t, reflect.TypeFor[level](), ce.Type)
}

func TestErrors(t *testing.T) {
	svc := jrx.New()

	_, err := jrx.ReadBytes[any](svc, []byte(`{"a":1`))
	assert.True(t, errors.Is(err, apis.ErrStructural), "%v", err)

	_, err = jrx.ReadBytes[map[string]int](svc, []byte(`{"a":1`))
	assert.True(t, errors.Is(err, apis.ErrStructural), "%v", err)

	_, err = jrx.ReadBytes[pair](svc, []byte(`{"a":1`))
	assert.True(t, errors.Is(err, apis.ErrStructural), "%v", err)

	_, err = jrx.ReadBytes[int8](svc, []byte(`300`))
	assert.True(t, errors.Is(err, apis.ErrCoercion), "%v", err)

	_, err = jrx.ReadBytes[map[int]string](svc, []byte(`{}`))
	assert.True(t, errors.Is(err, apis.ErrConfiguration), "%v", err)

	_, err = jrx.ReadBytes[chan int](svc, []byte(`null`))
	assert.True(t, errors.Is(err, apis.ErrConfiguration), "%v", err)

	_, err = jrx.ReadBytes[int](svc, []byte(`1e200000000`))
	assert.True(t, errors.Is(err, apis.ErrCoercion), "%v", err)

	_, err = jrx.ReadBytes[*big.Int](svc, []byte(`1e-200000000`))
	assert.True(t, errors.Is(err, apis.ErrCoercion), "%v", err)

	strict := svc.With(apis.FailOnDuplicateMapKeys)
	_, err = jrx.ReadBytes[map[string]int](strict, []byte(`{"a":1,"a":2}`))
	assert.True(t, errors.Is(err, container.ErrDuplicateKey), "%v", err)
}

func TestCache_OverflowResets(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	svc := jrx.New(
		config.WithMaxCachedReaders(3),
		config.WithLogger(zap.New(core)),
	)

	check := func() {
		got, err := jrx.ReadBytes[pair](svc, []byte(`{"a":7,"b":"z"}`))
		require.NoError(t, err)
		assert.Equal(t, pair{A: 7, B: "z"}, got)
	}
	check()

	for n := 1; n <= 10; n++ {
		typ := reflect.ArrayOf(n, reflect.TypeFor[pair]())
		_, err := svc.Locator().FindReader(typ)
		require.NoError(t, err)
		assert.LessOrEqual(t, svc.Locator().Cache().Count(), 3)
	}
	assert.Positive(t, svc.Locator().Cache().Resets())
	assert.Positive(t, logs.FilterMessage("reader cache reset").Len())

	check()
}

func TestCache_FeatureViews(t *testing.T) {
	svc := jrx.New()
	bare := svc.Without(apis.UseFields)
	assert.Same(t, svc.Locator().Cache(), bare.Locator().Cache())
	assert.Same(t, svc, svc.With(apis.UseFields))

	a, err := svc.Locator().FindReader(reflect.TypeFor[pair]())
	require.NoError(t, err)
	b, err := bare.Locator().FindReader(reflect.TypeFor[pair]())
	require.NoError(t, err)
	assert.NotSame(t, a, b)

	got, err := jrx.ReadBytes[pair](bare, []byte(`{"a":1}`))
	require.NoError(t, err)
	assert.Equal(t, pair{}, got)
}

func TestCache_NoCache(t *testing.T) {
	svc := jrx.New(config.WithCachePolicy(apis.NoCache))
	for i := 0; i < 3; i++ {
		got, err := jrx.ReadBytes[tree](svc, []byte(`{"Label":"a"}`))
		require.NoError(t, err)
		assert.Equal(t, tree{Label: "a"}, got)
	}
	assert.Zero(t, svc.Locator().Cache().Count())
}

// upper decodes strings upper-cased.
type upper struct{}

func (upper) ValueType() reflect.Type { return reflect.TypeFor[string]() }

func (u upper) ReadNext(rc *apis.ReadContext, src apis.TokenSource) (any, error) {
	if _, err := src.NextToken(); err != nil {
		return nil, err
	}
	return u.Read(rc, src)
}

func (upper) Read(_ *apis.ReadContext, src apis.TokenSource) (any, error) {
	return strings.ToUpper(src.Text()), nil
}

// joined decodes []string as one comma-joined element.
type joined struct{ elem apis.ValueReader }

func (joined) ValueType() reflect.Type { return reflect.TypeFor[[]string]() }

func (j joined) ReadNext(rc *apis.ReadContext, src apis.TokenSource) (any, error) {
	if _, err := src.NextToken(); err != nil {
		return nil, err
	}
	return j.Read(rc, src)
}

func (j joined) Read(rc *apis.ReadContext, src apis.TokenSource) (any, error) {
	var parts []string
	for {
		tok, err := src.NextToken()
		if err != nil {
			return nil, err
		}
		if tok == apis.TokenEndArray {
			return []string{strings.Join(parts, ",")}, nil
		}
		v, err := j.elem.Read(rc, src)
		if err != nil {
			return nil, err
		}
		parts = append(parts, v.(string))
	}
}

type override struct{}

func (override) FindValueReader(t reflect.Type) (apis.ValueReader, error) {
	if t == reflect.TypeFor[string]() {
		return upper{}, nil
	}
	return nil, nil
}

func (override) FindCollectionReader(t reflect.Type, elem apis.ValueReader) (apis.ValueReader, error) {
	if t == reflect.TypeFor[[]string]() {
		return joined{elem: elem}, nil
	}
	return nil, nil
}

func (override) FindMapReader(reflect.Type, apis.ValueReader) (apis.ValueReader, error) {
	return nil, nil
}

func TestProvider_Overrides(t *testing.T) {
	svc := jrx.New()
	custom := svc.WithProvider(override{})
	assert.NotSame(t, svc.Locator().Cache(), custom.Locator().Cache())

	got, err := jrx.ReadBytes[pair](custom, []byte(`{"a":1,"b":"x"}`))
	require.NoError(t, err)
	assert.Equal(t, pair{A: 1, B: "X"}, got)

	list, err := jrx.ReadBytes[[]string](custom, []byte(`["a","b"]`))
	require.NoError(t, err)
	assert.Equal(t, []string{"A,B"}, list)

	// The original service is unaffected.
	got, err = jrx.ReadBytes[pair](svc, []byte(`{"a":1,"b":"x"}`))
	require.NoError(t, err)
	assert.Equal(t, pair{A: 1, B: "x"}, got)
}

// upperKeys upper-cases object keys.
type upperKeys struct{ apis.DefaultHooks }

func (upperKeys) FromKey(k string) string { return strings.ToUpper(k) }

func TestHooks_MapKeys(t *testing.T) {
	svc := jrx.New(config.WithHooks(upperKeys{}))

	typed, err := jrx.ReadBytes[map[string]int](svc, []byte(`{"a":1,"b":2}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"A": 1, "B": 2}, typed)

	v, err := jrx.ReadBytes[any](svc, []byte(`{"a":1,"b":2}`))
	require.NoError(t, err)
	obj, ok := v.(*container.Object)
	require.True(t, ok, spew.Sdump(v))
	assert.Equal(t, []string{"A", "B"}, container.Keys(obj))

	// Record property names are not keys.
	rec, err := jrx.ReadBytes[pair](svc, []byte(`{"a":3}`))
	require.NoError(t, err)
	assert.Equal(t, pair{A: 3}, rec)
}

func TestReadFrom(t *testing.T) {
	svc := jrx.New()
	got, err := jrx.ReadFrom[map[string][]int](svc, strings.NewReader(`{"a":[1,2],"b":[]}`))
	require.NoError(t, err)
	assert.Equal(t, map[string][]int{"a": {1, 2}, "b": {}}, got)
}

// nilBuilder returns no locator.
type nilBuilder struct{}

func (nilBuilder) BuildLocator(apis.Config, apis.Locator) apis.Locator { return nil }

func TestNewWith_NilLocatorPanics(t *testing.T) {
	assert.PanicsWithValue(t, jrx.ErrNilLocator, func() {
		jrx.NewWith(nilBuilder{})
	})
}

func TestConcurrentReads(t *testing.T) {
	svc := jrx.New(config.WithMaxCachedReaders(8))
	docs := []struct {
		typ reflect.Type
		in  string
	}{
		{reflect.TypeFor[pair](), `{"a":1,"b":"x"}`},
		{reflect.TypeFor[tree](), `{"Label":"r","Kids":[{"Label":"k"}]}`},
		{reflect.TypeFor[employee](), `{"Name":"e","Manager":{"Reports":{"x":{"Name":"x"}}}}`},
		{reflect.TypeFor[[]map[string]*pair](), `[{"p":{"a":2}},{}]`},
		{reflect.TypeFor[any](), `{"k":[1,2.5,"s"]}`},
	}

	// Reference results computed sequentially on a separate service.
	ref := jrx.New()
	want := make([]any, len(docs))
	for i, d := range docs {
		v, err := ref.ReadValue(tokens.NewStreamBytes([]byte(d.in)), d.typ)
		require.NoError(t, err)
		want[i] = v
	}

	var g errgroup.Group
	workers := runtime.GOMAXPROCS(0) * 4
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for i := 0; i < 100; i++ {
				d := (i + w) % len(docs)
				v, err := svc.ReadValue(tokens.NewStreamBytes([]byte(docs[d].in)), docs[d].typ)
				if err != nil {
					return err
				}
				if !reflect.DeepEqual(v, want[d]) {
					return fmt.Errorf("doc %d: got %s want %s", d, spew.Sdump(v), spew.Sdump(want[d]))
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
}
