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
	"github.com/valyala/bytebufferpool"
	"sync"
)

// PoolAllocatorName identifies the allocator that recycles Go heap buffers.
const PoolAllocatorName = "pool"

// poolAllocator recycles buffers across queries. Triggers and the type store
// issue the same queries repeatedly, so buffers sized for an earlier query
// usually fit the next one.
type poolAllocator struct {
	pool bytebufferpool.Pool
	mu   sync.Mutex
	live map[*byte]*bytebufferpool.ByteBuffer
}

// NewPoolAllocator returns the allocator that recycles heap buffers.
func NewPoolAllocator() Allocator {
	return &poolAllocator{live: make(map[*byte]*bytebufferpool.ByteBuffer)}
}

func (a *poolAllocator) Alloc(size int) ([]byte, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid buffer size %d", size)
	}
	bb := a.pool.Get()
	if cap(bb.B) < size {
		bb.B = make([]byte, size)
	} else {
		bb.B = bb.B[:size]
		clear(bb.B)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.live[&bb.B[0]] = bb
	return bb.B, nil
}

func (a *poolAllocator) Free(buf []byte) error {
	if len(buf) == 0 {
		return nil
	}
	a.mu.Lock()
	bb, ok := a.live[&buf[0]]
	delete(a.live, &buf[0])
	a.mu.Unlock()
	if !ok {
		return fmt.Errorf("buffer of %d bytes wasn't allocated from the pool", len(buf))
	}
	a.pool.Put(bb)
	return nil
}
