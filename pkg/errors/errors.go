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

package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrNeedsReallocateBuffer is returned by native queries when the supplied buffer is too small
	// to hold the result. Callers are expected to grow the buffer and issue the query again.
	ErrNeedsReallocateBuffer = errors.New("buffer is too small and needs to be reallocated")
	// ErrSnapshotRetriesExceeded signals the queried table kept outgrowing the buffer after all retries
	ErrSnapshotRetriesExceeded = errors.New("exceeded maximum retries while growing the query buffer")
	// ErrTruncatedBuffer is returned when the byte length of a native structure doesn't cover
	// the number of elements or the offsets embedded in it
	ErrTruncatedBuffer = errors.New("native structure is truncated")
	// ErrUnsupported is thrown when the native handle introspection is invoked on a platform that lacks it
	ErrUnsupported = errors.New("handle introspection is only supported on Windows")
	// ErrUnresolvedType signals the type index of an object type couldn't be determined
	// and there is no fallback index for that type
	ErrUnresolvedType = errors.New("unresolved object type")

	// ErrProcNotFound represents the error that is returned when a native function can't be located
	ErrProcNotFound = func(proc string, err error) error {
		return &procError{proc: proc, err: err}
	}

	// ErrUnsupportedType is returned when no probe object can be created for the object type
	ErrUnsupportedType = func(typ string) error {
		return fmt.Errorf("%s objects can't be probed for the type index", typ)
	}
)

// ErrTypeMismatch is returned when the object manager reports a different type than the one requested.
type ErrTypeMismatch struct {
	Want string
	Got  string
}

// Error returns the error message.
func (e ErrTypeMismatch) Error() string {
	return "expected " + e.Want + " object type but got " + e.Got
}

// IsNeedsReallocateBuffer determines if the error being passed signals the buffer must be grown.
func IsNeedsReallocateBuffer(err error) bool { return errors.Is(err, ErrNeedsReallocateBuffer) }

// IsProcNotFound returns true if the error was produced by a failed native function lookup.
func IsProcNotFound(err error) bool {
	var e *procError
	return errors.As(err, &e)
}

type procError struct {
	proc string
	err  error
}

func (e *procError) Error() string { return fmt.Sprintf("couldn't resolve %s: %v", e.proc, e.err) }
func (e *procError) Unwrap() error { return e.err }
