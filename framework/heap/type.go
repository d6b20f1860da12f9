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

import "fmt"

// Type is the runtime type tag of a Value.
type Type int32

const (
	NilType       Type = 0
	BoolType      Type = 1
	PointerType   Type = 2
	NumberType    Type = 3
	StringType    Type = 4
	TableType     Type = 5
	FunctionType  Type = 6
	OpaqueType    Type = 7
	CoroutineType Type = 8
	TemplateType  Type = 9
	CellType      Type = 10
)

var typeNames = map[Type]string{
	NilType:       "nil",
	BoolType:      "boolean",
	PointerType:   "pointer",
	NumberType:    "number",
	StringType:    "string",
	TableType:     "table",
	FunctionType:  "function",
	OpaqueType:    "opaque",
	CoroutineType: "coroutine",
	TemplateType:  "template",
	CellType:      "cell",
}

func (t Type) String() string {
	if n, ok := typeNames[t]; ok {
		return n
	}
	return fmt.Sprintf("type(%d)", int32(t))
}

// TypeOf returns the type of v, which may be nil.
func TypeOf(v Value) Type {
	if v == nil {
		return NilType
	}
	return v.Type()
}

// IsFunction returns true if v is a Closure or a NativeFunction.
func IsFunction(v Value) bool {
	switch v.(type) {
	case *Closure, *NativeFunction:
		return true
	}
	return false
}
