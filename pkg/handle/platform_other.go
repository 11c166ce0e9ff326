//go:build !windows

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

	htypes "github.com/rabbitstack/mutsweep/pkg/handle/types"
)

type unsupported struct{}

func (unsupported) NewProbe(string) (Probe, error)        { return nil, errors.ErrUnsupported }
func (unsupported) ForceClose(uint32, htypes.Value) error { return errors.ErrUnsupported }
func (unsupported) Close() error                          { return nil }

// NewVirtualAllocator is only available on Windows.
func NewVirtualAllocator() (Allocator, error) { return unsupportedAllocator() }

// NewProber returns a prober that fails on this platform.
func NewProber() Prober { return unsupported{} }

// NewQuerier returns a querier that fails on this platform.
func NewQuerier() Querier { return failingQuerier{err: errors.ErrUnsupported} }

// NewCloser returns a closer that fails on this platform.
func NewCloser() Closer { return unsupported{} }

func newPlatformClassifier() *Classifier {
	return NewClassifier(unsupported{}, failingQuerier{err: errors.ErrUnsupported}, NewHeapAllocator())
}

func platformDefaults(s *Sweeper) {
	q := NewQuerier()
	if s.querier == nil {
		s.querier = q
	}
	if s.closer == nil {
		s.closer = unsupported{}
	}
	if s.types == nil && s.config.UseTypeStore {
		s.types = NewTypeStore(q, NewHeapAllocator(), s.config.Growth)
	}
}
