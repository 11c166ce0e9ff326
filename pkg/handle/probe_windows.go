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
	"github.com/google/uuid"
	"github.com/rabbitstack/mutsweep/pkg/errors"
	"golang.org/x/sys/windows"

	htypes "github.com/rabbitstack/mutsweep/pkg/handle/types"
)

// probePrefix is prepended to the names of probe objects.
const probePrefix = `Local\mutsweep-probe-`

type nativeProbe struct {
	h windows.Handle
}

func (p *nativeProbe) Handle() htypes.Value { return htypes.Value(p.h) }

func (p *nativeProbe) Close() error {
	if p.h == 0 {
		return nil
	}
	err := windows.CloseHandle(p.h)
	p.h = 0
	return err
}

// nativeProber creates uniquely named synchronization objects in the session namespace.
type nativeProber struct{}

// NewProber returns the prober that creates named mutexes and events.
func NewProber() Prober { return nativeProber{} }

func (nativeProber) NewProbe(typeName string) (Probe, error) {
	name, err := windows.UTF16PtrFromString(probePrefix + uuid.New().String())
	if err != nil {
		return nil, err
	}
	var h windows.Handle
	switch canonicalType(typeName) {
	case canonicalType(Mutant):
		h, err = windows.CreateMutex(nil, false, name)
	case canonicalType(Event):
		h, err = windows.CreateEvent(nil, 0, 0, name)
	default:
		return nil, errors.ErrUnsupportedType(typeName)
	}
	// an existing object is still a live handle of the right type
	if err == windows.ERROR_ALREADY_EXISTS && h != 0 {
		err = nil
	}
	if err != nil {
		if h != 0 {
			_ = windows.CloseHandle(h)
		}
		return nil, fmt.Errorf("unable to create %s probe object: %v", typeName, err)
	}
	return &nativeProbe{h: h}, nil
}
