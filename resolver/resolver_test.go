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

package resolver_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/jrx/apis"
	"dirpx.dev/jrx/resolver"
)

type named struct {
	name string
	t    reflect.Type
}

func (r named) ValueType() reflect.Type                               { return r.t }
func (r named) Read(*apis.ReadContext, apis.TokenSource) (any, error) { return r.name, nil }
func (r named) ReadNext(*apis.ReadContext, apis.TokenSource) (any, error) {
	return r.name, nil
}

// kindStrategy handles a single kind.
type kindStrategy struct {
	kind  reflect.Kind
	name  string
	err   error
	calls *int
}

func (s kindStrategy) TryCreate(_ apis.Factory, t reflect.Type) (apis.ValueReader, bool, error) {
	if s.calls != nil {
		*s.calls++
	}
	if t.Kind() != s.kind {
		return nil, false, nil
	}
	if s.err != nil {
		return nil, true, s.err
	}
	return named{name: s.name, t: t}, true, nil
}

func TestChain_FirstMatchWins(t *testing.T) {
	var calls int
	r := resolver.New(
		nil,
		kindStrategy{kind: reflect.Int, name: "first", calls: &calls},
		kindStrategy{kind: reflect.Int, name: "second", calls: &calls},
		kindStrategy{kind: reflect.String, name: "string", calls: &calls},
	)

	vr, err := r.Create(nil, reflect.TypeFor[int]())
	require.NoError(t, err)
	assert.Equal(t, "first", vr.(named).name)
	assert.Equal(t, 1, calls)

	vr, err = r.Create(nil, reflect.TypeFor[string]())
	require.NoError(t, err)
	assert.Equal(t, "string", vr.(named).name)
	assert.Equal(t, 4, calls)
}

func TestChain_Unhandled(t *testing.T) {
	r := resolver.New(kindStrategy{kind: reflect.Int})

	_, err := r.Create(nil, reflect.TypeFor[bool]())
	require.Error(t, err)
	assert.True(t, errors.Is(err, apis.ErrConfiguration))
	assert.True(t, errors.Is(err, resolver.ErrUnhandled))

	_, err = r.Create(nil, nil)
	assert.True(t, errors.Is(err, resolver.ErrUnhandled))

	_, err = resolver.New().Create(nil, reflect.TypeFor[int]())
	assert.True(t, errors.Is(err, resolver.ErrUnhandled))
}

func TestChain_ErrorAborts(t *testing.T) {
	boom := errors.New("boom")
	var calls int
	r := resolver.New(
		kindStrategy{kind: reflect.Int, err: boom, calls: &calls},
		kindStrategy{kind: reflect.Int, name: "never", calls: &calls},
	)
	_, err := r.Create(nil, reflect.TypeFor[int]())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}
