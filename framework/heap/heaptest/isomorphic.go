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

package heaptest

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/pkg/errors"
	"github.com/scummvm/scummvm-sub059/framework/heap"
)

type pair struct {
	a, b heap.Value
	at   *path
}

// path locates a pair relative to the roots. It is only rendered when a
// mismatch is reported.
type path struct {
	parent *path
	format string
	arg    interface{}
}

func (p *path) String() string {
	var segs []*path
	for ; p != nil; p = p.parent {
		segs = append(segs, p)
	}
	sb := strings.Builder{}
	for i := len(segs) - 1; i >= 0; i-- {
		if s := segs[i]; s.arg == nil {
			sb.WriteString(s.format)
		} else {
			fmt.Fprintf(&sb, s.format, s.arg)
		}
	}
	return sb.String()
}

type matcher struct {
	fwd, back map[heap.Value]heap.Value
	work      []pair
}

// Isomorphic returns nil if the graphs reachable from a and b have the same
// shape: same leaf values, and a one to one correspondence between the
// reference values of each graph. Table entries are compared in iteration
// order.
func Isomorphic(a, b heap.Value) error {
	m := &matcher{fwd: map[heap.Value]heap.Value{}, back: map[heap.Value]heap.Value{}}
	m.push(a, b, nil, "root", nil)
	for len(m.work) > 0 {
		p := m.work[len(m.work)-1]
		m.work = m.work[:len(m.work)-1]
		if err := m.match(p); err != nil {
			return err
		}
	}
	return nil
}

// Table returns t as a heap.Value, mapping a nil table to a nil Value.
func Table(t *heap.Table) heap.Value {
	if t == nil {
		return nil
	}
	return t
}

func (m *matcher) push(a, b heap.Value, parent *path, format string, arg interface{}) {
	m.work = append(m.work, pair{a, b, &path{parent, format, arg}})
}

func (m *matcher) match(p pair) error {
	a, b := p.a, p.b
	if heap.TypeOf(a) != heap.TypeOf(b) {
		return errors.Errorf("%s: %v is a %v, %v is a %v", p.at, a, heap.TypeOf(a), b, heap.TypeOf(b))
	}
	switch a := a.(type) {
	case nil:
		return nil
	case heap.Number:
		if math.Float64bits(float64(a)) != math.Float64bits(float64(b.(heap.Number))) {
			return errors.Errorf("%s: %v != %v", p.at, a, b)
		}
		return nil
	case heap.Bool, heap.String, heap.Pointer:
		if a != b {
			return errors.Errorf("%s: %v != %v", p.at, a, b)
		}
		return nil
	}

	if got, ok := m.fwd[a]; ok {
		if got != b {
			return errors.Errorf("%s: %T already matched a different object", p.at, a)
		}
		return nil
	}
	if _, ok := m.back[b]; ok {
		return errors.Errorf("%s: %T already matched a different object", p.at, b)
	}
	m.fwd[a], m.back[b] = b, a

	switch a := a.(type) {
	case *heap.Table:
		b := b.(*heap.Table)
		if a.Len() != b.Len() {
			return errors.Errorf("%s: table length %d != %d", p.at, a.Len(), b.Len())
		}
		m.push(Table(a.Meta), Table(b.Meta), p.at, ".meta", nil)
		for i := 0; i < a.Len(); i++ {
			ka, va := a.At(i)
			kb, vb := b.At(i)
			m.push(ka, kb, p.at, "[%v].key", ka)
			m.push(va, vb, p.at, "[%v]", ka)
		}
	case *heap.Opaque:
		b := b.(*heap.Opaque)
		if !bytes.Equal(a.Data, b.Data) {
			return errors.Errorf("%s: opaque data differs", p.at)
		}
		m.push(Table(a.Meta), Table(b.Meta), p.at, ".meta", nil)
	case *heap.NativeFunction:
		if a != b {
			return errors.Errorf("%s: native function %v is not %v", p.at, a, b)
		}
	case *heap.Closure:
		b, ok := b.(*heap.Closure)
		if !ok {
			return errors.Errorf("%s: closure matched with a native function", p.at)
		}
		if len(a.Upvalues) != len(b.Upvalues) {
			return errors.Errorf("%s: %d upvalues != %d", p.at, len(a.Upvalues), len(b.Upvalues))
		}
		m.push(a.Template, b.Template, p.at, ".template", nil)
		for i := range a.Upvalues {
			m.push(a.Upvalues[i], b.Upvalues[i], p.at, ".upvalue[%d]", i)
		}
		m.push(Table(a.Env), Table(b.Env), p.at, ".env", nil)
	case *heap.Cell:
		b := b.(*heap.Cell)
		if a.IsOpen() != b.IsOpen() {
			return errors.Errorf("%s: cell open %v != %v", p.at, a.IsOpen(), b.IsOpen())
		}
		if a.IsOpen() {
			ca, oa := a.Owner()
			cb, ob := b.Owner()
			if oa != ob {
				return errors.Errorf("%s: cell offset %d != %d", p.at, oa, ob)
			}
			m.push(ca, cb, p.at, ".owner", nil)
		}
		m.push(a.Get(), b.Get(), p.at, ".value", nil)
	case *heap.Template:
		return m.template(a, b.(*heap.Template), p.at)
	case *heap.Coroutine:
		return m.coroutine(a, b.(*heap.Coroutine), p.at)
	default:
		return errors.Errorf("%s: unexpected value %T", p.at, a)
	}
	return nil
}

func (m *matcher) template(a, b *heap.Template, at *path) error {
	switch {
	case len(a.Constants) != len(b.Constants),
		len(a.Templates) != len(b.Templates),
		len(a.UpvalueNames) != len(b.UpvalueNames),
		len(a.Locals) != len(b.Locals),
		len(a.LineInfo) != len(b.LineInfo):
		return errors.Errorf("%s: template lists differ in length", at)
	case !bytes.Equal(a.Code, b.Code):
		return errors.Errorf("%s: template code differs", at)
	case a.Source != b.Source,
		a.LineDefined != b.LineDefined,
		a.LastLineDefined != b.LastLineDefined,
		a.NumUpvalues != b.NumUpvalues,
		a.NumParams != b.NumParams,
		a.IsVararg != b.IsVararg,
		a.MaxStackSize != b.MaxStackSize:
		return errors.Errorf("%s: template metadata differs", at)
	}
	for i := range a.UpvalueNames {
		if a.UpvalueNames[i] != b.UpvalueNames[i] {
			return errors.Errorf("%s: upvalue name %d differs", at, i)
		}
	}
	for i := range a.Locals {
		if a.Locals[i] != b.Locals[i] {
			return errors.Errorf("%s: local %d differs", at, i)
		}
	}
	for i := range a.LineInfo {
		if a.LineInfo[i] != b.LineInfo[i] {
			return errors.Errorf("%s: line info %d differs", at, i)
		}
	}
	for i := range a.Constants {
		m.push(a.Constants[i], b.Constants[i], at, ".constant[%d]", i)
	}
	for i := range a.Templates {
		m.push(a.Templates[i], b.Templates[i], at, ".template[%d]", i)
	}
	return nil
}

func (m *matcher) coroutine(a, b *heap.Coroutine, at *path) error {
	if a.Status != b.Status {
		return errors.Errorf("%s: status %v != %v", at, a.Status, b.Status)
	}
	if a.Len() != b.Len() {
		return errors.Errorf("%s: stack size %d != %d", at, a.Len(), b.Len())
	}
	if len(a.Frames) != len(b.Frames) {
		return errors.Errorf("%s: %d frames != %d", at, len(a.Frames), len(b.Frames))
	}
	for i := range a.Frames {
		if a.Frames[i] != b.Frames[i] {
			return errors.Errorf("%s: frame %d %+v != %+v", at, i, a.Frames[i], b.Frames[i])
		}
	}
	oa, ob := a.OpenCells(), b.OpenCells()
	if len(oa) != len(ob) {
		return errors.Errorf("%s: %d open cells != %d", at, len(oa), len(ob))
	}
	for i := range oa {
		m.push(oa[i], ob[i], at, ".open[%d]", i)
	}
	for i := 0; i < a.Len(); i++ {
		m.push(a.Slot(i), b.Slot(i), at, ".stack[%d]", i)
	}
	return nil
}
