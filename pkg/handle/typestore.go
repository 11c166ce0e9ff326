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
	"github.com/rabbitstack/mutsweep/pkg/sys"
	"sync"
)

// TypeStore keeps the table of object types registered in the object manager. The
// table is queried on first use and cached afterwards. Unlike the classifier, the
// store doesn't need to create any objects, but the enumeration order of types
// is the only hint about indices on systems that don't report them.
type TypeStore struct {
	mu      sync.Mutex
	types   []sys.ObjectType
	querier ObjectQuerier
	alloc   Allocator
	policy  GrowthPolicy
}

// NewTypeStore creates a new object type store.
func NewTypeStore(querier ObjectQuerier, alloc Allocator, policy GrowthPolicy) *TypeStore {
	// type tables are tiny compared to the handle table
	if policy.InitialSize > 0x4000 || policy.InitialSize <= 0 {
		policy.InitialSize = 0x4000
	}
	return &TypeStore{querier: querier, alloc: alloc, policy: policy}
}

// Types returns all object types.
func (s *TypeStore) Types() ([]sys.ObjectType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.types != nil {
		return s.types, nil
	}
	buf, _, err := queryGrowing(s.alloc, s.policy, func(b []byte) (uint32, error) {
		return s.querier.QueryObject(0, sys.ObjectTypesInformationClass, b)
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("unable to query object types: %w", err)
	}
	defer freeBuffer(s.alloc, buf)
	types, err := sys.DecodeObjectTypes(buf)
	if err != nil {
		return nil, err
	}
	s.types = types
	return s.types, nil
}

// FindByName returns the type index for the type name or Unresolved if the type
// is unknown or the types couldn't be queried.
func (s *TypeStore) FindByName(name string) TypeIndex {
	types, err := s.Types()
	if err != nil {
		return Unresolved
	}
	key := canonicalType(name)
	for _, typ := range types {
		if canonicalType(typ.Name) == key {
			return TypeIndex(typ.Index)
		}
	}
	return Unresolved
}

// FindByIndex returns the type name for the type index or an empty string if the
// index is unknown.
func (s *TypeStore) FindByIndex(idx TypeIndex) string {
	types, err := s.Types()
	if err != nil {
		return ""
	}
	for _, typ := range types {
		if TypeIndex(typ.Index) == idx {
			return typ.Name
		}
	}
	return ""
}
