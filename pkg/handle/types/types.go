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

package types

import (
	"errors"
	"fmt"
	"syscall"
)

// Value is the handle value as it appears in a process's handle table. It is an
// opaque identifier that only has meaning inside the owning process. It is not a
// pointer, and passing a value owned by another process to an API without
// duplicating it first refers to an unrelated object or to nothing at all.
type Value uintptr

// String returns the hexadecimal representation of the handle value.
func (v Value) String() string { return fmt.Sprintf("0x%X", uintptr(v)) }

// Record describes a single entry of the system-wide handle table.
type Record struct {
	// Pid is the identifier of the process that owns the handle.
	Pid uint32 `json:"pid"`
	// Value is the handle value inside the owner's handle table.
	Value Value `json:"value"`
	// TypeIndex is the object type index assigned by the object manager.
	TypeIndex uint16 `json:"type-index"`
	// Access is the access mask granted to the handle.
	Access uint32 `json:"access"`
	// Object is the kernel address of the referenced object.
	Object uint64 `json:"-"`
}

// String returns a string representation of the handle record.
func (r Record) String() string {
	return fmt.Sprintf("Value: %s, TypeIndex: %d, Access: 0x%X, PID: %d", r.Value, r.TypeIndex, r.Access, r.Pid)
}

// Outcome is the result of force-closing a single handle.
type Outcome struct {
	// Value is the handle value the closure was attempted on.
	Value Value
	// Err is the reason the closure failed or nil if it succeeded.
	Err error
	// Code is the operating system error code for failed closures.
	Code uint32
}

// NewOutcome builds the closure outcome for the handle value. The system error code
// is extracted from err when available.
func NewOutcome(v Value, err error) Outcome {
	o := Outcome{Value: v, Err: err}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		o.Code = uint32(errno)
	}
	return o
}

// Succeeded determines if the handle was closed.
func (o Outcome) Succeeded() bool { return o.Err == nil }

// String returns a string representation of the outcome.
func (o Outcome) String() string {
	if o.Succeeded() {
		return fmt.Sprintf("%s closed", o.Value)
	}
	return fmt.Sprintf("%s failed (code %d): %v", o.Value, o.Code, o.Err)
}
