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
	"fmt"
	"golang.org/x/sys/windows"

	htypes "github.com/rabbitstack/mutsweep/pkg/handle/types"
)

// dupCloser closes handles by duplicating them out of their owner with the
// close-source flag. The owner process handle is opened on first use and
// retained until Close.
type dupCloser struct {
	pid  uint32
	proc windows.Handle
}

// NewCloser returns the closer that force-closes handles of the given process.
func NewCloser() Closer { return &dupCloser{} }

func (c *dupCloser) open(pid uint32) (windows.Handle, error) {
	if c.proc != 0 && c.pid == pid {
		return c.proc, nil
	}
	if c.proc != 0 {
		_ = windows.CloseHandle(c.proc)
		c.proc = 0
	}
	proc, err := windows.OpenProcess(windows.PROCESS_DUP_HANDLE, false, pid)
	if err != nil {
		return 0, fmt.Errorf("unable to open process %d for handle duplication: %w", pid, err)
	}
	c.proc, c.pid = proc, pid
	return proc, nil
}

func (c *dupCloser) ForceClose(pid uint32, v htypes.Value) error {
	proc, err := c.open(pid)
	if err != nil {
		return err
	}
	var dup windows.Handle
	err = windows.DuplicateHandle(proc, windows.Handle(v), windows.CurrentProcess(), &dup, 0, false, windows.DUPLICATE_CLOSE_SOURCE)
	if dup != 0 {
		_ = windows.CloseHandle(dup)
	}
	if err != nil {
		return fmt.Errorf("unable to close handle %s: %w", v, err)
	}
	return nil
}

func (c *dupCloser) Close() error {
	if c.proc == 0 {
		return nil
	}
	err := windows.CloseHandle(c.proc)
	c.proc, c.pid = 0, 0
	if err != nil {
		return fmt.Errorf("unable to close process handle: %v", err)
	}
	return nil
}
