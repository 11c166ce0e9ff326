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

package sys_test

import (
	"github.com/rabbitstack/mutsweep/pkg/errors"
	"github.com/rabbitstack/mutsweep/pkg/sys"
	"github.com/rabbitstack/mutsweep/pkg/sys/systest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
	"unsafe"
)

func TestDecodeHandleTable(t *testing.T) {
	entries := []sys.SystemHandleTableEntryInfoEx{
		{UniqueProcessID: 4, HandleValue: 0x4, ObjectTypeIndex: 7, GrantedAccess: 0x1fffff},
		{UniqueProcessID: 1024, HandleValue: 0x10c, ObjectTypeIndex: 19, GrantedAccess: 0x1f0001},
	}
	buf := make([]byte, sys.HandleTableSize(len(entries)))
	n, err := systest.PutHandleTable(buf, entries)
	require.NoError(t, err)
	require.Equal(t, len(buf), n)

	handles, err := sys.DecodeHandleTable(buf)
	require.NoError(t, err)
	require.Len(t, handles, 2)
	assert.Equal(t, uintptr(1024), handles[1].UniqueProcessID)
	assert.Equal(t, uintptr(0x10c), handles[1].HandleValue)
	assert.Equal(t, uint16(19), handles[1].ObjectTypeIndex)
	assert.Equal(t, uint32(0x1f0001), handles[1].GrantedAccess)
}

func TestDecodeHandleTableEmpty(t *testing.T) {
	buf := make([]byte, sys.HandleTableSize(0))
	_, err := systest.PutHandleTable(buf, nil)
	require.NoError(t, err)
	handles, err := sys.DecodeHandleTable(buf)
	require.NoError(t, err)
	assert.Empty(t, handles)
}

func TestDecodeHandleTableTruncated(t *testing.T) {
	_, err := sys.DecodeHandleTable(make([]byte, 4))
	require.ErrorIs(t, err, errors.ErrTruncatedBuffer)

	// the header claims more handles than the buffer can hold
	buf := make([]byte, sys.HandleTableSize(2))
	(*sys.SystemHandleInformationEx)(unsafe.Pointer(&buf[0])).NumberOfHandles = 3
	_, err = sys.DecodeHandleTable(buf)
	require.ErrorIs(t, err, errors.ErrTruncatedBuffer)

	// absurd counts must not overflow the size check
	(*sys.SystemHandleInformationEx)(unsafe.Pointer(&buf[0])).NumberOfHandles = ^uintptr(0)
	_, err = sys.DecodeHandleTable(buf)
	require.ErrorIs(t, err, errors.ErrTruncatedBuffer)
}

func TestDecodeObjectTypeInformation(t *testing.T) {
	n, err := systest.PutObjectTypeInformation(nil, "Mutant", 19)
	require.ErrorIs(t, err, errors.ErrNeedsReallocateBuffer)
	buf := make([]byte, n)
	_, err = systest.PutObjectTypeInformation(buf, "Mutant", 19)
	require.NoError(t, err)

	typ, name, err := sys.DecodeObjectTypeInformation(buf)
	require.NoError(t, err)
	assert.Equal(t, "Mutant", name)
	assert.Equal(t, uint8(19), typ.TypeIndex)
}

func TestDecodeObjectTypeInformationOutOfBounds(t *testing.T) {
	_, _, err := sys.DecodeObjectTypeInformation(make([]byte, 8))
	require.ErrorIs(t, err, errors.ErrTruncatedBuffer)

	n, _ := systest.PutObjectTypeInformation(nil, "Mutant", 19)
	buf := make([]byte, n)
	_, err = systest.PutObjectTypeInformation(buf, "Mutant", 19)
	require.NoError(t, err)

	typ := (*sys.ObjectTypeInformation)(unsafe.Pointer(&buf[0]))
	typ.TypeName.Length = uint16(len(buf))
	_, _, err = sys.DecodeObjectTypeInformation(buf)
	require.ErrorIs(t, err, errors.ErrTruncatedBuffer)

	typ.TypeName.Length = 12
	typ.TypeName.Buffer = uintptr(unsafe.Pointer(&buf[0])) - 64
	_, _, err = sys.DecodeObjectTypeInformation(buf)
	require.ErrorIs(t, err, errors.ErrTruncatedBuffer)
}

func TestDecodeObjectTypes(t *testing.T) {
	types := []sys.ObjectType{
		{Index: 2, Name: "Type"},
		{Index: 3, Name: "Directory"},
		{Index: 17, Name: "Event"},
		{Index: 19, Name: "Mutant"},
	}
	n, err := systest.PutObjectTypes(nil, types)
	require.ErrorIs(t, err, errors.ErrNeedsReallocateBuffer)
	buf := make([]byte, n)
	_, err = systest.PutObjectTypes(buf, types)
	require.NoError(t, err)

	decoded, err := sys.DecodeObjectTypes(buf)
	require.NoError(t, err)
	assert.Equal(t, types, decoded)
}

func TestDecodeObjectTypesLegacyIndex(t *testing.T) {
	types := []sys.ObjectType{{Name: "Type"}, {Name: "Directory"}}
	n, _ := systest.PutObjectTypes(nil, types)
	buf := make([]byte, n)
	_, err := systest.PutObjectTypes(buf, types)
	require.NoError(t, err)

	decoded, err := sys.DecodeObjectTypes(buf)
	require.NoError(t, err)
	assert.Equal(t, []sys.ObjectType{{Index: 2, Name: "Type"}, {Index: 3, Name: "Directory"}}, decoded)
}

func TestDecodeObjectTypesTruncated(t *testing.T) {
	types := []sys.ObjectType{{Index: 2, Name: "Type"}, {Index: 19, Name: "Mutant"}}
	n, _ := systest.PutObjectTypes(nil, types)
	buf := make([]byte, n)
	_, err := systest.PutObjectTypes(buf, types)
	require.NoError(t, err)

	(*sys.ObjectTypesInformation)(unsafe.Pointer(&buf[0])).NumberOfTypes = 3
	_, err = sys.DecodeObjectTypes(buf)
	require.ErrorIs(t, err, errors.ErrTruncatedBuffer)
}
