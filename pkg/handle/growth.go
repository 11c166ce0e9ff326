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
	"github.com/cenkalti/backoff/v4"
	"github.com/dustin/go-humanize"
	"github.com/rabbitstack/mutsweep/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	// DefaultInitialBufferSize is the size of the first buffer handed to the handle table query.
	DefaultInitialBufferSize = 0x100000
	// DefaultPadding is added on top of the size reported by the system, since the
	// handle table keeps growing between two consecutive queries.
	DefaultPadding = 0x10000
	// DefaultMaxRetries is the number of times the buffer is grown before the query is abandoned.
	DefaultMaxRetries = 20
)

// GrowthPolicy dictates how query buffers are sized and how many times they may be
// grown before giving up.
type GrowthPolicy struct {
	// InitialSize is the size of the first buffer.
	InitialSize int
	// Padding is added to the size reported by the system.
	Padding int
	// MaxRetries bounds the number of retries after the initial query.
	MaxRetries int
}

// DefaultGrowthPolicy returns the growth policy with default values.
func DefaultGrowthPolicy() GrowthPolicy {
	return GrowthPolicy{
		InitialSize: DefaultInitialBufferSize,
		Padding:     DefaultPadding,
		MaxRetries:  DefaultMaxRetries,
	}
}

// Next returns the size of the buffer for the next attempt. The reported size plus
// padding is used when the system reports one, otherwise the buffer is doubled.
// The result is always larger than the current size.
func (p GrowthPolicy) Next(size int, needed uint32) int {
	next := size * 2
	if needed > 0 {
		next = int(needed) + p.Padding
	}
	if next <= size {
		next = size * 2
	}
	return next
}

type queryFunc func(buf []byte) (uint32, error)

// growFunc is notified with the new buffer size each time the buffer is grown.
type growFunc func(size int)

// queryGrowing runs fn against freshly allocated buffers until fn stops reporting
// the buffer is too small. Each undersized buffer is released before the next one
// is allocated. On success the returned buffer is owned by the caller. The number
// of times the buffer was grown is returned in every case.
func queryGrowing(alloc Allocator, policy GrowthPolicy, fn queryFunc, onGrow growFunc) ([]byte, int, error) {
	var (
		buf     []byte
		retries int
		size    = policy.InitialSize
	)
	if size <= 0 {
		size = DefaultInitialBufferSize
	}

	op := func() error {
		b, err := alloc.Alloc(size)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("unable to allocate %s: %w", humanize.IBytes(uint64(size)), err))
		}
		needed, err := fn(b)
		if err == nil {
			buf = b
			return nil
		}
		freeBuffer(alloc, b)
		if !errors.IsNeedsReallocateBuffer(err) {
			return backoff.Permanent(err)
		}
		retries++
		prev := size
		size = policy.Next(size, needed)
		log.Debugf("buffer of %s too small, increasing size to %s and retrying (attempt %d)",
			humanize.IBytes(uint64(prev)), humanize.IBytes(uint64(size)), retries)
		if onGrow != nil {
			onGrow(size)
		}
		return err
	}

	maxRetries := policy.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	err := backoff.Retry(op, backoff.WithMaxRetries(&backoff.ZeroBackOff{}, uint64(maxRetries)))
	if err != nil {
		if errors.IsNeedsReallocateBuffer(err) {
			return nil, retries, fmt.Errorf("%w (%d)", errors.ErrSnapshotRetriesExceeded, maxRetries)
		}
		return nil, retries, err
	}
	return buf, retries, nil
}
