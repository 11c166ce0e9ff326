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

package ntstatus

import "fmt"

// IsSuccess determines if the status code is in success or information value ranges.
// https://learn.microsoft.com/en-us/windows-hardware/drivers/kernel/using-ntstatus-values
func IsSuccess(status uint32) bool {
	return status <= 0x7FFFFFFF
}

// Error is the error returned by a native function that completed with a failure status.
type Error struct {
	// Func is the name of the native function.
	Func string
	// Status is the NT status code the function returned.
	Status uint32
}

// Error returns the error message.
func (e Error) Error() string {
	return fmt.Sprintf("%s failed with status 0x%08X: %s", e.Func, e.Status, FormatMessage(e.Status))
}
