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

package heap

import (
	"fmt"
	"math"
)

// Value is a single heap value. The set of implementations is closed.
// A nil Value is the runtime's nil.
type Value interface {
	Type() Type
	value()
}

// Bool is a boolean value.
type Bool bool

// Number is a double precision number.
type Number float64

// String is an immutable byte string. Equal strings are the same object.
type String string

// Pointer is a raw host address. It has no meaning outside the process that
// created it.
type Pointer uintptr

func (Bool) Type() Type    { return BoolType }
func (Number) Type() Type  { return NumberType }
func (String) Type() Type  { return StringType }
func (Pointer) Type() Type { return PointerType }

func (Bool) value()    {}
func (Number) value()  {}
func (String) value()  {}
func (Pointer) value() {}

func (p Pointer) String() string { return fmt.Sprintf("pointer(0x%x)", uintptr(p)) }

// ValidKey returns true if v may be used as a table key.
func ValidKey(v Value) bool {
	switch v := v.(type) {
	case nil:
		return false
	case Number:
		return !math.IsNaN(float64(v))
	}
	return true
}
