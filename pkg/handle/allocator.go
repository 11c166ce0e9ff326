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
	"github.com/dustin/go-humanize"
	"github.com/rabbitstack/mutsweep/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Allocator hands out scratch buffers for native queries. Every buffer obtained
// from Alloc is returned through Free exactly once.
type Allocator interface {
	// Alloc returns a zeroed buffer of exactly size bytes.
	Alloc(size int) ([]byte, error)
	// Free releases the buffer. The buffer must not be accessed afterwards.
	Free(buf []byte) error
}

const (
	// HeapAllocatorName identifies the allocator backed by the Go heap.
	HeapAllocatorName = "heap"
	// VirtualAllocatorName identifies the allocator backed by page-granular virtual memory.
	VirtualAllocatorName = "virtual"
)

type heapAllocator struct{}

// NewHeapAllocator returns the allocator that carves buffers from the Go heap.
// Freeing is left to the garbage collector.
func NewHeapAllocator() Allocator { return heapAllocator{} }

func (heapAllocator) Alloc(size int) ([]byte, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid buffer size %d", size)
	}
	return make([]byte, size), nil
}

func (heapAllocator) Free([]byte) error { return nil }

// NewAllocator returns the allocator registered under the given name.
func NewAllocator(name string) (Allocator, error) {
	switch name {
	case HeapAllocatorName:
		return NewHeapAllocator(), nil
	case PoolAllocatorName:
		return NewPoolAllocator(), nil
	case VirtualAllocatorName, "":
		return NewVirtualAllocator()
	default:
		return nil, fmt.Errorf("unknown allocator %q", name)
	}
}

// freeBuffer returns the buffer to the allocator. Release failures leak the buffer
// but are otherwise harmless to the caller, so they're only logged.
func freeBuffer(alloc Allocator, buf []byte) {
	if buf == nil {
		return
	}
	if err := alloc.Free(buf); err != nil {
		bufferReleaseFailures.Add(1)
		log.Warnf("unable to release %s buffer: %v", humanize.IBytes(uint64(len(buf))), err)
	}
}

// unsupportedAllocator is returned where page-granular allocations are unavailable.
func unsupportedAllocator() (Allocator, error) { return nil, errors.ErrUnsupported }
