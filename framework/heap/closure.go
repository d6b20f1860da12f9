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

import "context"

// Closure is a function value created from a Template with a fixed set of
// captured cells.
type Closure struct {
	Template *Template
	Upvalues []*Cell
	// Env is the environment table. A nil Env means the runtime's globals.
	Env *Table
}

// NativeFunc is the implementation of a NativeFunction.
type NativeFunc func(ctx context.Context, rt Runtime, args []Value) ([]Value, error)

// NativeFunction is a function implemented by the host. It can only be
// persisted by reference through the permanents table.
type NativeFunction struct {
	Name string
	Fn   NativeFunc
}

func (*Closure) Type() Type        { return FunctionType }
func (*NativeFunction) Type() Type { return FunctionType }
func (*Closure) value()            {}
func (*NativeFunction) value()     {}

func (f *NativeFunction) String() string { return "native:" + f.Name }

// NewClosure returns a closure of t with a fresh closed cell per upvalue.
func NewClosure(t *Template, env *Table) *Closure {
	c := &Closure{Template: t, Env: env, Upvalues: make([]*Cell, t.NumUpvalues)}
	for i := range c.Upvalues {
		c.Upvalues[i] = NewCell(nil)
	}
	return c
}
