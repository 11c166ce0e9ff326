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
	"fmt"
	"github.com/rabbitstack/mutsweep/pkg/errors"
	"github.com/rabbitstack/mutsweep/pkg/sys"
	"github.com/rabbitstack/mutsweep/pkg/sys/systest"
	"github.com/stretchr/testify/mock"
	"sync"
	"sync/atomic"

	htypes "github.com/rabbitstack/mutsweep/pkg/handle/types"
)

// countingAllocator hands out heap buffers and keeps track of every buffer
// that hasn't been returned yet.
type countingAllocator struct {
	mu          sync.Mutex
	sizes       []int
	live        map[*byte]int
	frees       int
	doubleFrees int
}

func newCountingAllocator() *countingAllocator {
	return &countingAllocator{live: make(map[*byte]int)}
}

func (a *countingAllocator) Alloc(size int) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	buf := make([]byte, size)
	a.sizes = append(a.sizes, size)
	a.live[&buf[0]] = size
	return buf, nil
}

func (a *countingAllocator) Free(buf []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.live[&buf[0]]; !ok {
		a.doubleFrees++
		return fmt.Errorf("buffer of %d bytes isn't live", len(buf))
	}
	delete(a.live, &buf[0])
	a.frees++
	return nil
}

func (a *countingAllocator) allocs() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.sizes)
}

func (a *countingAllocator) outstanding() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.live)
}

// fakeTable simulates the system-wide handle table. The table grows by growBy
// entries on each of the first growTimes queries, so buffers sized after the
// previous query keep falling short.
type fakeTable struct {
	entries    []sys.SystemHandleTableEntryInfoEx
	growBy     int
	growTimes  int
	hideSize   bool
	alwaysFull bool
	calls      int
}

func (t *fakeTable) QueryHandleTable(buf []byte) (uint32, error) {
	t.calls++
	if t.alwaysFull {
		return 0, errors.ErrNeedsReallocateBuffer
	}
	if t.calls <= t.growTimes {
		for i := 0; i < t.growBy; i++ {
			t.entries = append(t.entries, entry(999, uintptr(len(t.entries)+1)*4, 3))
		}
	}
	size, err := systest.PutHandleTable(buf, t.entries)
	if err != nil && t.hideSize {
		return 0, err
	}
	return uint32(size), err
}

func entry(pid uint32, value uintptr, typeIndex uint16) sys.SystemHandleTableEntryInfoEx {
	return sys.SystemHandleTableEntryInfoEx{
		UniqueProcessID: uintptr(pid),
		HandleValue:     value,
		ObjectTypeIndex: typeIndex,
		GrantedAccess:   0x1F0001,
	}
}

// fakeObjects answers object queries from a fixed handle to type mapping.
type fakeObjects struct {
	byHandle map[htypes.Value]sys.ObjectType
	types    []sys.ObjectType
	failFill bool
	calls    int32
}

func (o *fakeObjects) QueryObject(h htypes.Value, class int32, buf []byte) (uint32, error) {
	atomic.AddInt32(&o.calls, 1)
	switch class {
	case sys.ObjectTypeInformationClass:
		typ, ok := o.byHandle[h]
		if !ok {
			return 0, fmt.Errorf("invalid handle %s", h)
		}
		if o.failFill && buf != nil {
			return 0, fmt.Errorf("access denied")
		}
		size, err := systest.PutObjectTypeInformation(buf, typ.Name, uint8(typ.Index))
		return uint32(size), err
	case sys.ObjectTypesInformationClass:
		size, err := systest.PutObjectTypes(buf, o.types)
		return uint32(size), err
	}
	return 0, fmt.Errorf("unsupported information class %d", class)
}

type fakeProbe struct {
	h      htypes.Value
	closed *int32
}

func (p *fakeProbe) Handle() htypes.Value { return p.h }

func (p *fakeProbe) Close() error {
	atomic.AddInt32(p.closed, 1)
	return nil
}

// fakeProber hands out probes with the handle values registered for each type.
type fakeProber struct {
	handles map[string]htypes.Value
	fails   int32
	created int32
	closed  int32
}

func (p *fakeProber) NewProbe(typeName string) (Probe, error) {
	if atomic.AddInt32(&p.fails, -1) >= 0 {
		return nil, fmt.Errorf("object name collision")
	}
	h, ok := p.handles[typeName]
	if !ok {
		return nil, errors.ErrUnsupportedType(typeName)
	}
	atomic.AddInt32(&p.created, 1)
	return &fakeProbe{h: h, closed: &p.closed}, nil
}

type mockCloser struct {
	mock.Mock
}

func (m *mockCloser) ForceClose(pid uint32, v htypes.Value) error {
	args := m.Called(pid, v)
	return args.Error(0)
}

func (m *mockCloser) Close() error {
	args := m.Called()
	return args.Error(0)
}
