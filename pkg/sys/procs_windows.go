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

package sys

import (
	"github.com/rabbitstack/mutsweep/pkg/errors"
	"golang.org/x/sys/windows"
)

// LoadProcs ensures the native query functions are exported by ntdll. The generated
// stubs panic when invoked against a missing procedure, so callers check first.
func LoadProcs() error {
	for _, proc := range []*windows.LazyProc{procNtQueryObject, procNtQuerySystemInformation} {
		if err := proc.Find(); err != nil {
			return errors.ErrProcNotFound(proc.Name, err)
		}
	}
	return nil
}

// Status extracts the NT status code from the error returned by a generated stub.
func Status(err error) windows.NTStatus {
	if err == nil {
		return windows.STATUS_SUCCESS
	}
	if status, ok := err.(windows.NTStatus); ok {
		return status
	}
	return windows.STATUS_UNSUCCESSFUL
}
