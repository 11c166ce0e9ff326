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

package sys

import (
	"fmt"
	"github.com/rabbitstack/mutsweep/pkg/errors"
	"unsafe"
)

// SystemExtendedHandleInformationClass is the system information class that yields
// every open handle in the system together with its owner and object type index.
const SystemExtendedHandleInformationClass = 64

// SystemHandleTableEntryInfoEx is the structure that describes the process handle entry.
type SystemHandleTableEntryInfoEx struct {
	Object                uintptr
	UniqueProcessID       uintptr
	HandleValue           uintptr
	GrantedAccess         uint32
	CreatorBackTraceIndex uint16
	ObjectTypeIndex       uint16
	HandleAttributes      uint32
	Reserved              uint32
}

// SystemHandleInformationEx is the header of the system handle table. The entries
// are laid out contiguously right after the header.
type SystemHandleInformationEx struct {
	NumberOfHandles uintptr
	Reserved        uintptr
}

// DecodeHandleTable returns a view over the handle entries stored in buf. The
// reported number of handles is checked against the byte length before any entry
// is exposed. The returned slice aliases buf and is only valid while buf is alive.
func DecodeHandleTable(buf []byte) ([]SystemHandleTableEntryInfoEx, error) {
	hdr := unsafe.Sizeof(SystemHandleInformationEx{})
	if uintptr(len(buf)) < hdr {
		return nil, fmt.Errorf("handle table header: %w", errors.ErrTruncatedBuffer)
	}
	n := (*SystemHandleInformationEx)(unsafe.Pointer(&buf[0])).NumberOfHandles
	size := unsafe.Sizeof(SystemHandleTableEntryInfoEx{})
	if n > (uintptr(len(buf))-hdr)/size {
		return nil, fmt.Errorf("handle table reports %d handles in %d bytes: %w", n, len(buf), errors.ErrTruncatedBuffer)
	}
	if n == 0 {
		return nil, nil
	}
	return unsafe.Slice((*SystemHandleTableEntryInfoEx)(unsafe.Pointer(&buf[hdr])), n), nil
}

// HandleTableSize returns the number of bytes required to store n handle entries.
func HandleTableSize(n int) int {
	return int(unsafe.Sizeof(SystemHandleInformationEx{})) + n*int(unsafe.Sizeof(SystemHandleTableEntryInfoEx{}))
}
