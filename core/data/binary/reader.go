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

package binary

import "github.com/scummvm/scummvm-sub059/core/fault"

// ErrLengthOverflow is the error set on a Reader when a length prefix is
// larger than the reader was prepared to accept.
const ErrLengthOverflow = fault.Const("Length prefix exceeds limit")

// Reader provides methods for decoding values.
type Reader interface {
	// Bool decodes and returns a boolean value from the Reader.
	Bool() bool
	// Uint8 decodes and returns an unsigned, 8 bit integer value from the Reader.
	Uint8() uint8
	// Int16 decodes and returns a signed, 16 bit integer value from the Reader.
	Int16() int16
	// Int32 decodes and returns a signed, 32 bit integer value from the Reader.
	Int32() int32
	// Uint32 decodes and returns an unsigned, 32 bit integer value from the Reader.
	Uint32() uint32
	// String decodes and returns a length prefixed string from the Reader.
	String() string
	// Blob decodes a length prefixed byte blob of at most limit bytes.
	// A larger length prefix sets ErrLengthOverflow.
	Blob(limit uint32) []byte
	// If there is an error reading any input, all further reading returns the
	// zero value of the type read. Error() returns the error which stopped
	// reading from the stream. If reading has not stopped it returns nil.
	Error() error
}
