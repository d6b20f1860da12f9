// Copyright (C) 2017 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package persist

import "github.com/scummvm/scummvm-sub059/core/fault"

const (
	// ErrUnpersistable is returned for a value that has no valid encoding.
	ErrUnpersistable = fault.Const("Value cannot be persisted")
	// ErrTruncatedStream is returned when the stream ends inside a record.
	ErrTruncatedStream = fault.Const("Stream is truncated")
	// ErrMalformedTag is returned for structurally invalid stream data.
	ErrMalformedTag = fault.Const("Malformed record")
	// ErrPermanentKeyNotFound is returned when a permanent reference key has
	// no entry in the permanents table.
	ErrPermanentKeyNotFound = fault.Const("Permanent key not found")
	// ErrHookConstructorFailed is returned when a persistence hook or the
	// constructor it produced fails or returns the wrong kind of value.
	ErrHookConstructorFailed = fault.Const("Hook constructor failed")
	// ErrUnbalancedCapture is returned when open cells do not match the
	// coroutine stack they are attached to.
	ErrUnbalancedCapture = fault.Const("Unbalanced capture")
	// ErrUnsupportedType is returned for raw host pointers.
	ErrUnsupportedType = fault.Const("Unsupported type")
	// ErrInvalidPermanent is returned when adding an unusable entry to the
	// permanents table.
	ErrInvalidPermanent = fault.Const("Invalid permanent")
)

// hookFailure is the cause of an ErrHookConstructorFailed error raised by the
// runtime. Its cause is ErrHookConstructorFailed and it unwraps to both that
// and the runtime error.
type hookFailure struct{ err error }

func (e hookFailure) Error() string   { return ErrHookConstructorFailed.Error() + ": " + e.err.Error() }
func (e hookFailure) Cause() error    { return ErrHookConstructorFailed }
func (e hookFailure) Unwrap() []error { return []error{ErrHookConstructorFailed, e.err} }
