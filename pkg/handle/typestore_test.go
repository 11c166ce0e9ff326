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

package handle

import (
	"github.com/rabbitstack/mutsweep/pkg/sys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestTypeStore(t *testing.T) {
	objects := &fakeObjects{types: []sys.ObjectType{
		{Index: 2, Name: "Type"},
		{Index: 3, Name: Directory},
		{Index: 16, Name: Event},
		{Index: 17, Name: Mutant},
		{Index: 37, Name: ALPCPort},
	}}
	alloc := newCountingAllocator()
	ts := NewTypeStore(objects, alloc, GrowthPolicy{InitialSize: 32, MaxRetries: DefaultMaxRetries})

	types, err := ts.Types()
	require.NoError(t, err)
	require.Len(t, types, 5)
	assert.Equal(t, ALPCPort, types[4].Name)

	assert.Equal(t, TypeIndex(17), ts.FindByName("mutant"))
	assert.Equal(t, TypeIndex(37), ts.FindByName(ALPCPort))
	assert.Equal(t, Unresolved, ts.FindByName("TmTx"))
	assert.Equal(t, Event, ts.FindByIndex(16))
	assert.Equal(t, "", ts.FindByIndex(99))

	// the table is only queried once
	calls := objects.calls
	_, err = ts.Types()
	require.NoError(t, err)
	assert.Equal(t, calls, objects.calls)
	assert.Equal(t, 0, alloc.outstanding())
}

func TestTypeStoreQueryFailure(t *testing.T) {
	ts := NewTypeStore(failingQuerier{err: assert.AnError}, newCountingAllocator(), DefaultGrowthPolicy())

	_, err := ts.Types()
	require.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, Unresolved, ts.FindByName(Mutant))
	assert.Equal(t, "", ts.FindByIndex(17))
}
