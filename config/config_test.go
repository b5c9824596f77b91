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

package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"dirpx.dev/jrx/apis"
	"dirpx.dev/jrx/config"
)

func TestDefaultConfigValues(t *testing.T) {
	got := config.DefaultConfig()

	assert.Equal(t, config.DefaultFeatures, got.Features)
	assert.Equal(t, config.DefaultMaxCachedReaders, got.MaxCachedReaders)
	assert.Equal(t, config.DefaultCachePolicy, got.CachePolicy)
	assert.True(t, got.Features.Enabled(apis.UseFields))
	assert.False(t, got.Features.Enabled(apis.ForceReflectionAccess))
	require.NotNil(t, got.Logger)
	assert.Nil(t, got.Provider)
	assert.Nil(t, got.Types)
}

func TestNewConfig_NoOptions_EqualsDefault(t *testing.T) {
	def := config.DefaultConfig()
	got := config.NewConfig()

	assert.Equal(t, def.Features, got.Features)
	assert.Equal(t, def.MaxCachedReaders, got.MaxCachedReaders)
	assert.Equal(t, def.CachePolicy, got.CachePolicy)
}

func TestWithFeature(t *testing.T) {
	c := config.NewConfig(config.WithFeature(apis.ForceReflectionAccess, true))
	assert.True(t, c.Features.Enabled(apis.ForceReflectionAccess))
	assert.True(t, c.Features.Enabled(apis.UseFields), "other defaults stay on")

	c2 := config.NewConfig(config.WithFeature(apis.UseFields, false))
	assert.False(t, c2.Features.Enabled(apis.UseFields))
}

func TestWithFeatures_Replaces(t *testing.T) {
	c := config.NewConfig(config.WithFeatures(apis.FeaturesOf(apis.UseBigDecimalForFloats)))
	assert.True(t, c.Features.Enabled(apis.UseBigDecimalForFloats))
	assert.False(t, c.Features.Enabled(apis.UseFields))
}

func TestWithMaxCachedReaders(t *testing.T) {
	c := config.NewConfig(config.WithMaxCachedReaders(3))
	assert.Equal(t, 3, c.MaxCachedReaders)

	for _, bad := range []int{0, -1} {
		c := config.NewConfig(config.WithMaxCachedReaders(bad))
		assert.Equal(t, config.DefaultMaxCachedReaders, c.MaxCachedReaders, "max=%d", bad)
	}
}

func TestWithLogger_NilRestoresNop(t *testing.T) {
	l := zap.NewExample()
	c := config.NewConfig(config.WithLogger(l))
	assert.Same(t, l, c.Logger)

	c2 := config.NewConfig(config.WithLogger(nil))
	assert.NotNil(t, c2.Logger)
}

func TestWithCachePolicy(t *testing.T) {
	c := config.NewConfig(config.WithCachePolicy(apis.NoCache))
	assert.Equal(t, apis.NoCache, c.CachePolicy)
}

func TestWithHooks(t *testing.T) {
	c := config.NewConfig(config.WithHooks(apis.DefaultHooks{}))
	assert.Equal(t, apis.DefaultHooks{}, c.Hooks)
}

func TestOptionsOrder_LastWins(t *testing.T) {
	c := config.NewConfig(
		config.WithFeature(apis.FailOnDuplicateMapKeys, true),
		config.WithFeature(apis.FailOnDuplicateMapKeys, false),
		config.WithMaxCachedReaders(2),
		config.WithMaxCachedReaders(5),
		config.WithCachePolicy(apis.NoCache),
		config.WithCachePolicy(apis.ResetOnOverflow),
	)

	assert.False(t, c.Features.Enabled(apis.FailOnDuplicateMapKeys), "last option wins")
	assert.Equal(t, 5, c.MaxCachedReaders, "last option wins")
	assert.Equal(t, apis.ResetOnOverflow, c.CachePolicy, "last option wins")
}
