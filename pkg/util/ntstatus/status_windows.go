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

package ntstatus

import (
	"github.com/rabbitstack/mutsweep/pkg/sys"
	"github.com/rabbitstack/mutsweep/pkg/util/utf16"
	"golang.org/x/sys/windows"
	"sync"
)

var statusCache = map[uint32]string{}
var mux sync.Mutex

// FormatMessage resolves the NT status code to an error message. The cache of resolved
// messages is kept to speed up status code translation and alleviate the pressure on
// API call invocations.
func FormatMessage(status uint32) string {
	if IsSuccess(status) {
		return "Success"
	}
	mux.Lock()
	defer mux.Unlock()
	if s, ok := statusCache[status]; ok {
		return s
	}
	b := make([]uint16, 300)
	msgID := sys.RtlNtStatusToDosError(status)
	n, err := windows.FormatMessage(windows.FORMAT_MESSAGE_FROM_SYSTEM|windows.FORMAT_MESSAGE_IGNORE_INSERTS, 0, msgID, 0, b, nil)
	if err != nil || n == 0 {
		return "Unknown"
	}
	// trim terminating \r and \n
	for ; n > 0 && (b[n-1] == '\n' || b[n-1] == '\r'); n-- {
	}
	statusCache[status] = utf16.Decode(b[:n])
	return statusCache[status]
}
