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

// Closer force-closes handles that live in a process's handle table.
type Closer interface {
	// ForceClose closes the handle value in the handle table of the process
	// identified by pid. The handle is duplicated into the current process with
	// the close-source flag, which removes it from the owner's table, and the
	// resulting duplicate is closed right away.
	ForceClose(pid uint32, v htypes.Value) error
	// Close releases the process handle retained across ForceClose calls.
	Close() error
}
