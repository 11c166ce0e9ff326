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
	"fmt"
	"github.com/stretchr/testify/assert"
	"syscall"
	"testing"
)

func TestNewOutcome(t *testing.T) {
	o := NewOutcome(Value(0x1c4), nil)
	assert.True(t, o.Succeeded())
	assert.Equal(t, uint32(0), o.Code)
	assert.Equal(t, "0x1C4 closed", o.String())

	o = NewOutcome(Value(0x1c8), fmt.Errorf("DuplicateHandle: %w", syscall.Errno(5)))
	assert.False(t, o.Succeeded())
	assert.Equal(t, uint32(5), o.Code)

	o = NewOutcome(Value(0x1cc), fmt.Errorf("closed by owner"))
	assert.False(t, o.Succeeded())
	assert.Equal(t, uint32(0), o.Code)
}

func TestRecordString(t *testing.T) {
	r := Record{Pid: 1204, Value: 0x2a0, TypeIndex: 19, Access: 0x1f0001}
	assert.Equal(t, "Value: 0x2A0, TypeIndex: 19, Access: 0x1F0001, PID: 1204", r.String())
}
