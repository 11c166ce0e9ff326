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

import "golang.org/x/text/cases"

// Object type names as registered in the object manager.
const (
	// ALPCPort represents the ALPC (Advanced Local Procedure Call) object ports
	ALPCPort = "ALPC Port"
	// Directory designates directory objects. They exist only within the object manager scope and do not correspond to any directory on the disk.
	Directory = "Directory"
	Event     = "Event"
	// File designates file handles (e.g. pipe, device, mailslot)
	File      = "File"
	Key       = "Key"
	Process   = "Process"
	Thread    = "Thread"
	Semaphore = "Semaphore"
	Section   = "Section"
	// Mutant is the object manager's name for mutexes.
	Mutant = "Mutant"
	Token  = "Token"
)

// TypeIndex is the numeric identifier the object manager assigns to an object type.
// The value for a given type varies across Windows builds.
type TypeIndex uint16

const (
	// Unresolved denotes a type index that couldn't be determined.
	Unresolved TypeIndex = 0
	// FallbackMutantTypeIndex is the Mutant type index observed on Windows 10 and 11
	// builds. It is a best-effort guess used only when the index can't be resolved
	// on the running system, and is not guaranteed to hold on future builds.
	FallbackMutantTypeIndex TypeIndex = 19
)

// canonicalType maps the type name to the key used by type index caches.
// Names are case-folded, so any casing of a type name yields the same key.
func canonicalType(name string) string { return cases.Fold().String(name) }
