//go:build windows

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
	log "github.com/sirupsen/logrus"
)

// NewQuerier returns the ntdll querier or a querier that fails every call
// with the reason the native functions couldn't be resolved.
func NewQuerier() Querier {
	q, err := NewNativeQuerier()
	if err != nil {
		log.Errorf("native queries are unavailable: %v", err)
		return failingQuerier{err: err}
	}
	return q
}

func newPlatformClassifier() *Classifier {
	return NewClassifier(NewProber(), NewQuerier(), NewHeapAllocator())
}

func platformDefaults(s *Sweeper) {
	q := NewQuerier()
	if s.querier == nil {
		s.querier = q
	}
	if s.closer == nil {
		s.closer = NewCloser()
	}
	if s.types == nil && s.config.UseTypeStore {
		s.types = NewTypeStore(q, NewHeapAllocator(), s.config.Growth)
	}
}
