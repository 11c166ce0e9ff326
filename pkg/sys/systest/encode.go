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

// Package systest lays out native object manager structures so the decoders and
// the handle engine can be exercised without issuing native queries.
package systest

import (
	"encoding/binary"
	"fmt"
	"github.com/rabbitstack/mutsweep/pkg/errors"
	"github.com/rabbitstack/mutsweep/pkg/sys"
	"unicode/utf16"
	"unsafe"
)

// The Put* functions follow the contract of the native calls: when buf is too
// small, the required size is returned together with ErrNeedsReallocateBuffer
// and buf is left untouched.

// PutHandleTable writes the handle table header followed by entries into buf.
func PutHandleTable(buf []byte, entries []sys.SystemHandleTableEntryInfoEx) (int, error) {
	size := sys.HandleTableSize(len(entries))
	if len(buf) < size {
		return size, errors.ErrNeedsReallocateBuffer
	}
	hdr := unsafe.Sizeof(sys.SystemHandleInformationEx{})
	(*sys.SystemHandleInformationEx)(unsafe.Pointer(&buf[0])).NumberOfHandles = uintptr(len(entries))
	if len(entries) > 0 {
		copy(unsafe.Slice((*sys.SystemHandleTableEntryInfoEx)(unsafe.Pointer(&buf[hdr])), len(entries)), entries)
	}
	return size, nil
}

// PutObjectTypeInformation writes a single object type structure with the type name
// stored right after it.
func PutObjectTypeInformation(buf []byte, name string, index uint8) (int, error) {
	size := int(unsafe.Sizeof(sys.ObjectTypeInformation{})) + nameSize(name)
	if len(buf) < size {
		return size, errors.ErrNeedsReallocateBuffer
	}
	putObjectType(buf, 0, name, index)
	return size, nil
}

// PutObjectTypes writes the object types header followed by every type entry.
func PutObjectTypes(buf []byte, types []sys.ObjectType) (int, error) {
	size := int(align(unsafe.Sizeof(sys.ObjectTypesInformation{})))
	for _, typ := range types {
		size += int(unsafe.Sizeof(sys.ObjectTypeInformation{})) + int(align(uintptr(nameSize(typ.Name))))
	}
	if len(buf) < size {
		return size, errors.ErrNeedsReallocateBuffer
	}
	if len(types) > 0xFFFF {
		return 0, fmt.Errorf("too many object types: %d", len(types))
	}
	(*sys.ObjectTypesInformation)(unsafe.Pointer(&buf[0])).NumberOfTypes = uint32(len(types))
	off := align(unsafe.Sizeof(sys.ObjectTypesInformation{}))
	for _, typ := range types {
		n := putObjectType(buf, off, typ.Name, uint8(typ.Index))
		off += unsafe.Sizeof(sys.ObjectTypeInformation{}) + align(n)
	}
	return size, nil
}

// putObjectType stores the type structure at off and returns the maximum length of the name.
func putObjectType(buf []byte, off uintptr, name string, index uint8) uintptr {
	u := utf16.Encode([]rune(name))
	nameOff := off + unsafe.Sizeof(sys.ObjectTypeInformation{})
	for i, c := range u {
		binary.LittleEndian.PutUint16(buf[nameOff+uintptr(i*2):], c)
	}
	binary.LittleEndian.PutUint16(buf[nameOff+uintptr(len(u)*2):], 0)

	typ := (*sys.ObjectTypeInformation)(unsafe.Pointer(&buf[off]))
	*typ = sys.ObjectTypeInformation{TypeIndex: index}
	typ.TypeName.Length = uint16(len(u) * 2)
	typ.TypeName.MaximumLength = uint16(len(u)*2 + 2)
	typ.TypeName.Buffer = uintptr(unsafe.Pointer(&buf[nameOff]))
	return uintptr(typ.TypeName.MaximumLength)
}

// nameSize returns the byte size of the null-terminated UTF16 name.
func nameSize(name string) int { return len(utf16.Encode([]rune(name)))*2 + 2 }

func align(n uintptr) uintptr {
	const ptrSize = unsafe.Sizeof(uintptr(0))
	return (n + ptrSize - 1) &^ (ptrSize - 1)
}
