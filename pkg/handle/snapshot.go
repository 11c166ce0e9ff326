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

	htypes "github.com/rabbitstack/mutsweep/pkg/handle/types"
)

// Snapshot is a point-in-time copy of the system-wide handle table. The snapshot
// exclusively owns the buffer the table was captured into. Records are read
// straight from that buffer, so the snapshot must not be accessed once released.
type Snapshot struct {
	buf     []byte
	handles []sys.SystemHandleTableEntryInfoEx
	alloc   Allocator
	retries int
}

// TakeSnapshot captures the system-wide handle table. The buffer is grown according
// to the growth policy until the table fits. An undersized or partially filled buffer
// is never decoded: the snapshot is either complete or an error is returned and every
// intermediate buffer has been released.
func TakeSnapshot(q TableQuerier, alloc Allocator, policy GrowthPolicy) (*Snapshot, error) {
	return takeSnapshot(q, alloc, policy, nil)
}

func takeSnapshot(q TableQuerier, alloc Allocator, policy GrowthPolicy, onGrow growFunc) (*Snapshot, error) {
	buf, retries, err := queryGrowing(alloc, policy, q.QueryHandleTable, onGrow)
	snapshotRetries.Add(int64(retries))
	if err != nil {
		return nil, err
	}
	handles, err := sys.DecodeHandleTable(buf)
	if err != nil {
		freeBuffer(alloc, buf)
		return nil, err
	}
	snapshotBytes.Set(int64(len(buf)))
	return &Snapshot{
		buf:     buf,
		handles: handles,
		alloc:   alloc,
		retries: retries,
	}, nil
}

// Len returns the number of handles in the snapshot.
func (s *Snapshot) Len() int { return len(s.handles) }

// At returns the handle record at the given position of the enumeration order.
func (s *Snapshot) At(i int) htypes.Record {
	h := s.handles[i]
	return htypes.Record{
		Pid:       uint32(h.UniqueProcessID),
		Value:     htypes.Value(h.HandleValue),
		TypeIndex: h.ObjectTypeIndex,
		Access:    h.GrantedAccess,
		Object:    uint64(h.Object),
	}
}

// Size returns the size in bytes of the buffer backing the snapshot.
func (s *Snapshot) Size() int { return len(s.buf) }

// Retries returns how many times the buffer was grown before the table fit.
func (s *Snapshot) Retries() int { return s.retries }

// Release frees the buffer backing the snapshot. Subsequent calls are no-ops.
func (s *Snapshot) Release() {
	if s.buf == nil {
		return
	}
	s.handles = nil
	freeBuffer(s.alloc, s.buf)
	s.buf = nil
}
