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
	"github.com/rabbitstack/mutsweep/pkg/errors"
	"github.com/rabbitstack/mutsweep/pkg/sys"
	"github.com/rabbitstack/mutsweep/pkg/sys/systest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sync"
	"testing"

	htypes "github.com/rabbitstack/mutsweep/pkg/handle/types"
)

func newFakeClassifier(alloc Allocator) (*Classifier, *fakeProber, *fakeObjects) {
	prober := &fakeProber{handles: map[string]htypes.Value{Mutant: 0x44, Event: 0x48}}
	objects := &fakeObjects{byHandle: map[htypes.Value]sys.ObjectType{
		0x44: {Index: 17, Name: Mutant},
		0x48: {Index: 16, Name: Event},
	}}
	return NewClassifier(prober, objects, alloc), prober, objects
}

func TestClassifierResolve(t *testing.T) {
	alloc := newCountingAllocator()
	c, prober, objects := newFakeClassifier(alloc)

	idx, err := c.Resolve(Mutant)
	require.NoError(t, err)
	assert.Equal(t, TypeIndex(17), idx)
	assert.Equal(t, int32(2), objects.calls)

	// memoized regardless of the name casing
	idx, err = c.Resolve("mutant")
	require.NoError(t, err)
	assert.Equal(t, TypeIndex(17), idx)
	assert.Equal(t, TypeIndex(17), c.Cached("MUTANT"))

	idx, err = c.Resolve(Event)
	require.NoError(t, err)
	assert.Equal(t, TypeIndex(16), idx)

	assert.Equal(t, int32(2), prober.created)
	assert.Equal(t, int32(2), prober.closed)
	assert.Equal(t, 2, alloc.allocs())
	assert.Equal(t, 0, alloc.outstanding())
}

func TestClassifierSizesBufferFromFirstQuery(t *testing.T) {
	alloc := newCountingAllocator()
	c, _, _ := newFakeClassifier(alloc)

	_, err := c.Resolve(Mutant)
	require.NoError(t, err)

	n, err := systest.PutObjectTypeInformation(nil, Mutant, 17)
	require.True(t, errors.IsNeedsReallocateBuffer(err))
	assert.Equal(t, []int{n}, alloc.sizes)
}

func TestClassifierFailuresAreNotCached(t *testing.T) {
	alloc := newCountingAllocator()
	c, prober, _ := newFakeClassifier(alloc)
	prober.fails = 1

	idx, err := c.Resolve(Mutant)
	require.Error(t, err)
	assert.Equal(t, Unresolved, idx)
	assert.Equal(t, Unresolved, c.Cached(Mutant))

	idx, err = c.Resolve(Mutant)
	require.NoError(t, err)
	assert.Equal(t, TypeIndex(17), idx)
}

func TestClassifierReleasesResourcesOnFailure(t *testing.T) {
	var tests = []struct {
		name  string
		setup func(*fakeObjects)
		want  func(*testing.T, error)
	}{
		{
			"type mismatch",
			func(o *fakeObjects) { o.byHandle[0x44] = sys.ObjectType{Index: 16, Name: Event} },
			func(t *testing.T, err error) {
				var e errors.ErrTypeMismatch
				require.ErrorAs(t, err, &e)
				assert.Equal(t, Mutant, e.Want)
				assert.Equal(t, Event, e.Got)
			},
		},
		{
			"zero type index",
			func(o *fakeObjects) { o.byHandle[0x44] = sys.ObjectType{Index: 0, Name: Mutant} },
			func(t *testing.T, err error) { assert.Contains(t, err.Error(), "didn't report") },
		},
		{
			"query failure",
			func(o *fakeObjects) { o.failFill = true },
			func(t *testing.T, err error) { assert.Contains(t, err.Error(), "access denied") },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alloc := newCountingAllocator()
			c, prober, objects := newFakeClassifier(alloc)
			tt.setup(objects)

			idx, err := c.Resolve(Mutant)
			require.Error(t, err)
			tt.want(t, err)
			assert.Equal(t, Unresolved, idx)
			assert.Equal(t, int32(1), prober.created)
			assert.Equal(t, int32(1), prober.closed)
			assert.Equal(t, 1, alloc.allocs())
			assert.Equal(t, 0, alloc.outstanding())
		})
	}
}

func TestClassifierUnsupportedType(t *testing.T) {
	alloc := newCountingAllocator()
	c, prober, _ := newFakeClassifier(alloc)

	idx, err := c.Resolve(Semaphore)
	require.Error(t, err)
	assert.Equal(t, Unresolved, idx)
	assert.Equal(t, int32(0), prober.created)
	assert.Equal(t, 0, alloc.allocs())
}

func TestClassifierConcurrentResolve(t *testing.T) {
	alloc := newCountingAllocator()
	c, prober, _ := newFakeClassifier(alloc)

	var wg sync.WaitGroup
	indices := make([]TypeIndex, 16)
	for i := range indices {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			indices[i], _ = c.Resolve(Mutant)
		}(i)
	}
	wg.Wait()

	for _, idx := range indices {
		assert.Equal(t, TypeIndex(17), idx)
	}
	assert.Equal(t, int32(1), prober.created)
}
