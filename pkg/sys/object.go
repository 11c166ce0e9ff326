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
	"github.com/rabbitstack/mutsweep/pkg/util/utf16"
	"unsafe"
)

const (
	// ObjectNameInformationClass returns the object name information.
	ObjectNameInformationClass = iota + 1
	// ObjectTypeInformationClass returns the object type information.
	ObjectTypeInformationClass
	// ObjectTypesInformationClass returns all object types registered in the object manager.
	ObjectTypesInformationClass
)

// ptrSize is the alignment the object manager uses between consecutive type entries.
const ptrSize = unsafe.Sizeof(uintptr(0))

// UnicodeString mirrors the native UNICODE_STRING structure. Buffer is kept as an
// address rather than a pointer since it references memory owned by the query buffer.
type UnicodeString struct {
	Length        uint16
	MaximumLength uint16
	Buffer        uintptr
}

// GenericMapping defines the mapping of generic access rights to specific and standard access rights.
type GenericMapping struct {
	GenericRead    uint32
	GenericWrite   uint32
	GenericExecute uint32
	GenericAll     uint32
}

// ObjectTypeInformation contains object type data.
type ObjectTypeInformation struct {
	TypeName                   UnicodeString
	TotalNumberOfObjects       uint32
	TotalNumberOfHandles       uint32
	TotalPagedPoolUsage        uint32
	TotalNonPagedPoolUsage     uint32
	TotalNamePoolUsage         uint32
	TotalHandleTableUsage      uint32
	HighWaterNumberOfObjects   uint32
	HighWaterNumberOfHandles   uint32
	HighWaterPagedPoolUsage    uint32
	HighWaterNonPagedPoolUsage uint32
	HighWaterNamePoolUsage     uint32
	HighWaterHandleTableUsage  uint32
	InvalidAttributes          uint32
	GenericMapping             GenericMapping
	ValidAccessMask            uint32
	SecurityRequired           bool
	MaintainHandleCount        bool
	TypeIndex                  uint8
	ReservedByte               int8
	PoolType                   uint32
	DefaultPagedPoolCharge     uint32
	DefaultNonPagedPoolCharge  uint32
}

// ObjectTypesInformation stores the number of object types that follow the header.
type ObjectTypesInformation struct {
	NumberOfTypes uint32
}

// ObjectType is the decoded, buffer-independent view of a single object type.
type ObjectType struct {
	// Index is the type index as it appears in handle table entries.
	Index uint16
	// Name is the object type name (e.g. Mutant, Event, File).
	Name string
}

// DecodeObjectTypeInformation interprets buf as the result of the ObjectTypeInformation
// query. The returned structure aliases buf and must not outlive it. The type name is
// only read after checking that it lies entirely inside buf.
func DecodeObjectTypeInformation(buf []byte) (*ObjectTypeInformation, string, error) {
	if uintptr(len(buf)) < unsafe.Sizeof(ObjectTypeInformation{}) {
		return nil, "", fmt.Errorf("object type information of %d bytes: %w", len(buf), errors.ErrTruncatedBuffer)
	}
	typ := (*ObjectTypeInformation)(unsafe.Pointer(&buf[0]))
	name, err := decodeUnicodeString(buf, typ.TypeName)
	if err != nil {
		return nil, "", err
	}
	return typ, name, nil
}

// DecodeObjectTypes walks the entries returned by the ObjectTypesInformation query.
// Each entry is followed by its name, padded to the pointer size. Entries that would
// cross the end of the buffer fail the whole decode.
func DecodeObjectTypes(buf []byte) ([]ObjectType, error) {
	hdr := unsafe.Sizeof(ObjectTypesInformation{})
	if uintptr(len(buf)) < hdr {
		return nil, fmt.Errorf("object types header: %w", errors.ErrTruncatedBuffer)
	}
	n := (*ObjectTypesInformation)(unsafe.Pointer(&buf[0])).NumberOfTypes
	size := unsafe.Sizeof(ObjectTypeInformation{})
	off := align(hdr)

	types := make([]ObjectType, 0, n)
	for i := uint32(0); i < n; i++ {
		if off+size > uintptr(len(buf)) {
			return nil, fmt.Errorf("object type entry %d at offset %d: %w", i, off, errors.ErrTruncatedBuffer)
		}
		typ := (*ObjectTypeInformation)(unsafe.Pointer(&buf[off]))
		name, err := decodeUnicodeString(buf, typ.TypeName)
		if err != nil {
			return nil, fmt.Errorf("object type entry %d: %w", i, err)
		}
		idx := uint16(typ.TypeIndex)
		if idx == 0 {
			// systems prior to Windows 8.1 don't report the index.
			// Type indices start at 2 there and follow the enumeration order
			idx = uint16(i) + 2
		}
		types = append(types, ObjectType{Index: idx, Name: name})
		off += size + align(uintptr(typ.TypeName.MaximumLength))
	}
	return types, nil
}

func decodeUnicodeString(buf []byte, s UnicodeString) (string, error) {
	if s.Length == 0 {
		return "", nil
	}
	base := uintptr(unsafe.Pointer(&buf[0]))
	if s.Buffer < base {
		return "", fmt.Errorf("string at 0x%x precedes buffer: %w", s.Buffer, errors.ErrTruncatedBuffer)
	}
	off := s.Buffer - base
	end := off + uintptr(s.Length)
	if end < off || end > uintptr(len(buf)) {
		return "", fmt.Errorf("string of %d bytes at offset %d: %w", s.Length, off, errors.ErrTruncatedBuffer)
	}
	return utf16.DecodeBytes(buf[off:end]), nil
}

func align(n uintptr) uintptr { return (n + ptrSize - 1) &^ (ptrSize - 1) }
