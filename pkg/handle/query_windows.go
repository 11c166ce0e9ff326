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
	"github.com/rabbitstack/mutsweep/pkg/errors"
	"github.com/rabbitstack/mutsweep/pkg/sys"
	"github.com/rabbitstack/mutsweep/pkg/util/ntstatus"
	"golang.org/x/sys/windows"
	"unsafe"

	htypes "github.com/rabbitstack/mutsweep/pkg/handle/types"
)

// NativeQuerier issues handle table and object queries against ntdll.
type NativeQuerier struct{}

// NewNativeQuerier returns the querier backed by ntdll. It fails if the native
// query functions can't be located.
func NewNativeQuerier() (*NativeQuerier, error) {
	if err := sys.LoadProcs(); err != nil {
		return nil, err
	}
	return &NativeQuerier{}, nil
}

// QueryHandleTable captures the extended system handle table into buf.
func (q *NativeQuerier) QueryHandleTable(buf []byte) (uint32, error) {
	if len(buf) == 0 {
		return 0, errors.ErrNeedsReallocateBuffer
	}
	var size uint32
	err := sys.NtQuerySystemInformation(sys.SystemExtendedHandleInformationClass, unsafe.Pointer(&buf[0]), uint32(len(buf)), &size)
	return size, mapStatus("NtQuerySystemInformation", err)
}

// QueryObject queries the object information of the given class.
func (q *NativeQuerier) QueryObject(h htypes.Value, class int32, buf []byte) (uint32, error) {
	var (
		size uint32
		ptr  unsafe.Pointer
	)
	if len(buf) > 0 {
		ptr = unsafe.Pointer(&buf[0])
	}
	err := sys.NtQueryObject(windows.Handle(h), class, ptr, uint32(len(buf)), &size)
	return size, mapStatus("NtQueryObject", err)
}

func mapStatus(fn string, err error) error {
	status := sys.Status(err)
	switch {
	case status == windows.STATUS_SUCCESS:
		return nil
	case sys.IsBufferTooSmall(status):
		return errors.ErrNeedsReallocateBuffer
	case ntstatus.IsSuccess(uint32(status)):
		return nil
	default:
		return ntstatus.Error{Func: fn, Status: uint32(status)}
	}
}
