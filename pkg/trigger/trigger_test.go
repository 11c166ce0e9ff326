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

package trigger

import (
	"github.com/rabbitstack/mutsweep/pkg/handle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"sync"
	"testing"
)

type mockSweeper struct {
	mock.Mock
}

func (m *mockSweeper) Sweep() (handle.Summary, error) {
	args := m.Called()
	return args.Get(0).(handle.Summary), args.Error(1)
}

func TestModuleLoaded(t *testing.T) {
	sweeper := &mockSweeper{}
	sweeper.On("Sweep").Return(handle.Summary{TypeIndex: 17, Matched: 0}, nil).Once()

	trig := New([]string{"steamclient*.dll", "gameoverlayrenderer64.dll"}, sweeper)
	assert.False(t, trig.ModuleLoaded(`C:\Windows\System32\kernel32.dll`))
	assert.False(t, trig.Fired())

	assert.True(t, trig.ModuleLoaded(`C:\Program Files (x86)\Steam\SteamClient64.dll`))
	assert.True(t, trig.Fired())

	// later notifications never sweep again
	assert.False(t, trig.ModuleLoaded(`C:\Program Files (x86)\Steam\GameOverlayRenderer64.dll`))
	assert.False(t, trig.ModuleLoaded(`C:\Program Files (x86)\Steam\steamclient.dll`))
	sweeper.AssertNumberOfCalls(t, "Sweep", 1)

	// zero closures is a regular outcome
	sum, err := trig.Result()
	require.NoError(t, err)
	assert.Equal(t, handle.TypeIndex(17), sum.TypeIndex)
	assert.Equal(t, 0, sum.Closed)
}

func TestModuleLoadedSweepFailure(t *testing.T) {
	sweeper := &mockSweeper{}
	sweeper.On("Sweep").Return(handle.Summary{}, assert.AnError)

	trig := New([]string{"*.dll"}, sweeper)
	assert.True(t, trig.ModuleLoaded("d3d11.dll"))
	assert.False(t, trig.ModuleLoaded("d3d11.dll"))

	_, err := trig.Result()
	require.ErrorIs(t, err, assert.AnError)
	sweeper.AssertNumberOfCalls(t, "Sweep", 1)
}

func TestModuleLoadedConcurrently(t *testing.T) {
	sweeper := &mockSweeper{}
	sweeper.On("Sweep").Return(handle.Summary{Closed: 2}, nil)

	trig := New([]string{"*.dll"}, sweeper)
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		fires int
	)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if trig.ModuleLoaded(`C:\game\bin\engine.dll`) {
				mu.Lock()
				fires++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, fires)
	sweeper.AssertNumberOfCalls(t, "Sweep", 1)
}

func TestBase(t *testing.T) {
	assert.Equal(t, "kernel32.dll", Base(`C:\Windows\System32\kernel32.dll`))
	assert.Equal(t, "libfoo.so", Base("/usr/lib/libfoo.so"))
	assert.Equal(t, "ntdll.dll", Base("ntdll.dll"))
	assert.Equal(t, "", Base(`C:\Windows\`))
}

func TestDecode(t *testing.T) {
	raw := []interface{}{
		map[string]interface{}{"module": "steamclient*.dll"},
		map[string]interface{}{"module": "d3d11.dll", "type-name": "Event"},
	}
	configs, err := Decode(raw)
	require.NoError(t, err)
	require.Len(t, configs, 2)
	assert.Equal(t, "steamclient*.dll", configs[0].Module)
	assert.Equal(t, "Event", configs[1].TypeName)

	set := NewSet(configs, handle.Mutant)
	assert.Equal(t, []string{"steamclient*.dll"}, set[handle.Mutant])
	assert.Equal(t, []string{"d3d11.dll"}, set[handle.Event])

	_, err = Decode([]interface{}{map[string]interface{}{"type-name": "Mutant"}})
	require.Error(t, err)
	_, err = Decode([]interface{}{map[string]interface{}{"module": "a.dll", "modules": "b.dll"}})
	require.Error(t, err)

	configs, err = Decode(nil)
	require.NoError(t, err)
	assert.Empty(t, configs)
}
