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

package container_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/jrx/container"
)

func TestMaps_Paths(t *testing.T) {
	b := container.Maps(false)

	e1, e2 := b.Empty().(*container.Object), b.Empty().(*container.Object)
	assert.Equal(t, 0, e1.Len())
	assert.NotSame(t, e1, e2, "empty objects are fresh per call")

	s, err := b.Singleton("a", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, container.Keys(s.(*container.Object)))

	acc := b.Start()
	for _, k := range []string{"z", "a", "m"} {
		require.NoError(t, acc.Put(k, k))
	}
	require.NoError(t, acc.Put("a", "again"), "lenient builder keeps the last value")
	out, err := acc.Build()
	require.NoError(t, err)
	obj := out.(*container.Object)
	assert.Equal(t, []string{"z", "a", "m"}, container.Keys(obj))
	v, _ := obj.Get("a")
	assert.Equal(t, "again", v)
}

func TestMaps_FailOnDuplicate(t *testing.T) {
	acc := container.Maps(true).Start()
	require.NoError(t, acc.Put("a", 1))
	err := acc.Put("a", 2)
	assert.True(t, errors.Is(err, container.ErrDuplicateKey))
}

func TestSlicesAndArrays(t *testing.T) {
	assert.Equal(t, []any{}, container.Slices.Empty())
	s, err := container.Slices.Singleton("x")
	require.NoError(t, err)
	assert.Equal(t, []any{"x"}, s)

	assert.Equal(t, [0]any{}, container.Arrays.Empty())
	a, err := container.Arrays.Singleton("x")
	require.NoError(t, err)
	assert.Equal(t, [1]any{"x"}, a)

	acc := container.Arrays.Start()
	require.NoError(t, acc.Add(1))
	require.NoError(t, acc.Add(nil))
	require.NoError(t, acc.Add("c"))
	out, err := acc.Build()
	require.NoError(t, err)
	assert.Equal(t, [3]any{1, nil, "c"}, out)
}

type color string

func TestForSlice(t *testing.T) {
	b, err := container.ForSlice(reflect.TypeFor[[]color]())
	require.NoError(t, err)

	assert.Equal(t, []color{}, b.Empty())

	acc := b.Start()
	require.NoError(t, acc.Add("red"))
	require.NoError(t, acc.Add(nil))
	out, err := acc.Build()
	require.NoError(t, err)
	assert.Equal(t, []color{"red", ""}, out)

	_, err = container.ForSlice(reflect.TypeFor[int]())
	assert.Error(t, err)
	_, err = container.ForSlice(nil)
	assert.True(t, errors.Is(err, container.ErrNilType))
}

func TestForArray(t *testing.T) {
	b, err := container.ForArray(reflect.TypeFor[[3]int]())
	require.NoError(t, err)

	assert.Equal(t, [3]int{}, b.Empty())

	one, err := b.Singleton(7)
	require.NoError(t, err)
	assert.Equal(t, [3]int{7, 0, 0}, one)

	acc := b.Start()
	for i := range 3 {
		require.NoError(t, acc.Add(i+1))
	}
	err = acc.Add(4)
	assert.True(t, errors.Is(err, container.ErrTooManyElements))

	_, err = b.Start().Build()
	require.NoError(t, err)
}

func TestForMap(t *testing.T) {
	type key string
	b, err := container.ForMap(reflect.TypeFor[map[key]int](), true)
	require.NoError(t, err)

	assert.Equal(t, map[key]int{}, b.Empty())

	acc := b.Start()
	require.NoError(t, acc.Put("a", 1))
	require.NoError(t, acc.Put("b", nil))
	assert.True(t, errors.Is(acc.Put("a", 3), container.ErrDuplicateKey))
	out, err := acc.Build()
	require.NoError(t, err)
	assert.Equal(t, map[key]int{"a": 1, "b": 0}, out)

	_, err = container.ForMap(reflect.TypeFor[map[int]int](), false)
	assert.Error(t, err)
}
