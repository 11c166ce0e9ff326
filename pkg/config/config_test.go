/*
 * Copyright 2019-2020 by Nedim Sabic Sabic
 * https://www.fibratus.io
 * All Rights Reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package config

import (
	"bytes"
	"github.com/rabbitstack/mutsweep/pkg/handle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func newFromArgs(t *testing.T, args ...string) *Config {
	c := New()
	require.NoError(t, c.flags.Parse(args))
	require.NoError(t, c.viper.BindPFlags(c.flags))
	return c
}

func TestNewFromYamlFile(t *testing.T) {
	c := newFromArgs(t, "--config-file=_fixtures/mutsweep.yml")

	ok, err := c.LoadFileIfExists()
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, c.Init())
	require.NoError(t, c.Validate())

	assert.Equal(t, handle.Mutant, c.Sweep.TypeName)
	assert.Equal(t, 2097152, c.Sweep.Growth.InitialSize)
	assert.Equal(t, 131072, c.Sweep.Growth.Padding)
	assert.Equal(t, 10, c.Sweep.Growth.MaxRetries)
	assert.Equal(t, handle.TypeIndex(17), c.Sweep.FallbackTypeIndex)
	assert.False(t, c.Sweep.UseTypeStore)
	assert.Equal(t, handle.HeapAllocatorName, c.Sweep.Allocator)

	assert.Equal(t, "debug", c.Log.Level)
	assert.Equal(t, "text", c.Log.Formatter)
	assert.Equal(t, 10, c.Log.MaxSize)

	require.Len(t, c.Triggers, 2)
	set := c.TriggerSet()
	assert.Equal(t, []string{"steamclient*.dll"}, set[handle.Mutant])
	assert.Equal(t, []string{"gameoverlayrenderer64.dll"}, set[handle.Event])
}

func TestDefaults(t *testing.T) {
	c := newFromArgs(t, "--config-file=_fixtures/missing.yml")

	ok, err := c.LoadFileIfExists()
	require.NoError(t, err)
	require.False(t, ok)
	require.NoError(t, c.Init())
	require.NoError(t, c.Validate())

	assert.Equal(t, handle.DefaultConfig(), c.Sweep)
	assert.Empty(t, c.Triggers)
	assert.Equal(t, "info", c.Log.Level)
}

func TestFlagsOverrideDefaults(t *testing.T) {
	c := newFromArgs(t, "--config-file=_fixtures/missing.yml", "--sweep.max-retries=5", "--sweep.allocator=heap")
	require.NoError(t, c.Init())
	require.NoError(t, c.Validate())

	assert.Equal(t, 5, c.Sweep.Growth.MaxRetries)
	assert.Equal(t, handle.HeapAllocatorName, c.Sweep.Allocator)
}

func TestValidateInvalidFile(t *testing.T) {
	c := newFromArgs(t, "--config-file=_fixtures/invalid.yml")

	err := c.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max-retries")
	assert.Contains(t, err.Error(), "allocator")
	assert.Contains(t, err.Error(), "buffer-size")
	assert.Contains(t, err.Error(), "module")
}

func TestValidateInvalidFlags(t *testing.T) {
	c := newFromArgs(t, "--config-file=_fixtures/missing.yml", "--logging.formatter=xml")

	err := c.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "formatter")
}

func TestPrint(t *testing.T) {
	c := newFromArgs(t, "--config-file=_fixtures/mutsweep.yml")
	_, err := c.LoadFileIfExists()
	require.NoError(t, err)
	require.NoError(t, c.Init())

	var b bytes.Buffer
	c.Print(&b)
	assert.Contains(t, b.String(), "sweep.allocator")
	assert.Contains(t, b.String(), "steamclient*.dll => Mutant")
}
