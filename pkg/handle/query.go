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
	htypes "github.com/rabbitstack/mutsweep/pkg/handle/types"
)

// TableQuerier captures the system-wide handle table.
type TableQuerier interface {
	// QueryHandleTable fills buf with the extended system handle table. When buf
	// can't hold the table, ErrNeedsReallocateBuffer is returned along with the
	// required size, or zero if the system didn't report it.
	QueryHandleTable(buf []byte) (uint32, error)
}

// ObjectQuerier retrieves object manager metadata about objects and object types.
type ObjectQuerier interface {
	// QueryObject fills buf with the information of the given class for the handle.
	// buf may be nil to learn the required size, in which case ErrNeedsReallocateBuffer
	// is returned together with the size.
	QueryObject(h htypes.Value, class int32, buf []byte) (uint32, error)
}

// Querier runs both handle table and object queries.
type Querier interface {
	TableQuerier
	ObjectQuerier
}

// failingQuerier stands in for the native queries when they can't be used.
type failingQuerier struct {
	err error
}

func (q failingQuerier) QueryHandleTable([]byte) (uint32, error) { return 0, q.err }

func (q failingQuerier) QueryObject(htypes.Value, int32, []byte) (uint32, error) { return 0, q.err }
