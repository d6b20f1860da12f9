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

// Package heaptest provides a minimal heap.Runtime and graph comparison
// helpers for tests of code that walks a heap.
package heaptest

import (
	"context"

	"github.com/scummvm/scummvm-sub059/core/fault"
	"github.com/scummvm/scummvm-sub059/framework/heap"
)

const (
	ErrNotCallable     = fault.Const("Value is not callable")
	ErrUndefinedSource = fault.Const("No implementation for closure source")
)

// Impl is the body of a closure, selected by the source name of its
// template.
type Impl func(ctx context.Context, rt heap.Runtime, self *heap.Closure, args []heap.Value) ([]heap.Value, error)

// Runtime is a heap.Runtime that executes closures by looking up the
// source name of their template.
type Runtime struct {
	globals *heap.Table
	impls   map[heap.String]Impl
}

// NewRuntime returns a Runtime with an empty globals table.
func NewRuntime() *Runtime {
	return &Runtime{globals: heap.NewTable(), impls: map[heap.String]Impl{}}
}

// Globals returns the globals table.
func (r *Runtime) Globals() *heap.Table { return r.globals }

// Define registers the body used for closures whose template source is
// source.
func (r *Runtime) Define(source string, impl Impl) {
	r.impls[heap.String(source)] = impl
}

// Call invokes fn with args.
func (r *Runtime) Call(ctx context.Context, fn heap.Value, args ...heap.Value) ([]heap.Value, error) {
	switch fn := fn.(type) {
	case *heap.NativeFunction:
		return fn.Fn(ctx, r, args)
	case *heap.Closure:
		impl, ok := r.impls[fn.Template.Source]
		if !ok {
			return nil, ErrUndefinedSource
		}
		return impl(ctx, r, fn, args)
	default:
		return nil, ErrNotCallable
	}
}

// Function returns a closure of a new template with the given source name
// and captured cells.
func Function(source string, upvalues ...*heap.Cell) *heap.Closure {
	t := &heap.Template{Source: heap.String(source), NumUpvalues: uint8(len(upvalues))}
	return &heap.Closure{Template: t, Upvalues: upvalues}
}
