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

// LocalVar is the debug record of a local variable.
type LocalVar struct {
	Name    String
	StartPC int32
	EndPC   int32
}

// Template is the immutable compiled form of a function, shared by every
// closure created from it.
type Template struct {
	Constants       []Value
	Templates       []*Template
	Code            []byte
	UpvalueNames    []String
	Locals          []LocalVar
	Source          String
	LineInfo        []int32
	LineDefined     int32
	LastLineDefined int32
	NumUpvalues     uint8
	NumParams       uint8
	IsVararg        bool
	MaxStackSize    uint8
}

func (*Template) Type() Type { return TemplateType }
func (*Template) value()     {}
