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

import (
	"context"
	"math"

	"github.com/scummvm/scummvm-sub059/core/data/binary"
	"github.com/scummvm/scummvm-sub059/core/log"
	"github.com/scummvm/scummvm-sub059/framework/heap"
)

func (e *Encoder) closure(ctx context.Context, cl *heap.Closure) ([]encodeStep, error) {
	if cl.Template == nil {
		return nil, log.Err(ctx, ErrUnpersistable, "Closure has no template")
	}
	if len(cl.Upvalues) > math.MaxUint8 {
		return nil, log.Errf(ctx, ErrUnpersistable, "Closure has %d upvalues", len(cl.Upvalues))
	}
	steps := make([]encodeStep, 0, len(cl.Upvalues)+2)
	steps = append(steps, ref(cl.Template))
	for i, c := range cl.Upvalues {
		if c == nil {
			return nil, log.Errf(ctx, ErrUnpersistable, "Closure upvalue %d has no cell", i)
		}
		steps = append(steps, ref(c))
	}
	env := tableValue(cl.Env)
	if e.rt != nil && cl.Env == e.rt.Globals() && !e.opts.KeepGlobalEnv {
		env = nil
	}
	e.w.Uint8(uint8(len(cl.Upvalues)))
	return append(steps, ref(env)), nil
}

func (e *Encoder) template(t *heap.Template) []encodeStep {
	steps := []encodeStep{emit(func(w binary.Writer) { w.Int32(int32(len(t.Constants))) })}
	for _, k := range t.Constants {
		steps = append(steps, ref(k))
	}
	steps = append(steps, emit(func(w binary.Writer) { w.Int32(int32(len(t.Templates))) }))
	for _, n := range t.Templates {
		steps = append(steps, ref(n))
	}
	steps = append(steps, emit(func(w binary.Writer) {
		w.Blob(t.Code)
		w.Int32(int32(len(t.UpvalueNames)))
	}))
	for _, n := range t.UpvalueNames {
		steps = append(steps, ref(n))
	}
	steps = append(steps, emit(func(w binary.Writer) { w.Int32(int32(len(t.Locals))) }))
	for _, l := range t.Locals {
		l := l
		steps = append(steps, ref(l.Name), emit(func(w binary.Writer) {
			w.Int32(l.StartPC)
			w.Int32(l.EndPC)
		}))
	}
	return append(steps, ref(t.Source), emit(func(w binary.Writer) {
		w.Int32(int32(len(t.LineInfo)))
		for _, l := range t.LineInfo {
			w.Int32(l)
		}
		w.Int32(t.LineDefined)
		w.Int32(t.LastLineDefined)
		w.Uint8(t.NumUpvalues)
		w.Uint8(t.NumParams)
		w.Bool(t.IsVararg)
		w.Uint8(t.MaxStackSize)
	}))
}

func (d *Decoder) closure(ctx context.Context, to sink) error {
	n := d.r.Uint8()
	if err := d.check(ctx); err != nil {
		return err
	}
	cl := &heap.Closure{Upvalues: make([]*heap.Cell, n)}
	d.refs.add(cl)
	steps := make([]decodeStep, 0, int(n)+3)
	steps = append(steps, d.value(ctx, func(v heap.Value) error {
		t, ok := v.(*heap.Template)
		if !ok {
			return malformed(ctx, "Closure template is a %v", heap.TypeOf(v))
		}
		cl.Template = t
		return nil
	}))
	for i := range cl.Upvalues {
		i := i
		steps = append(steps, d.value(ctx, func(v heap.Value) error {
			c, ok := v.(*heap.Cell)
			if !ok {
				return malformed(ctx, "Closure upvalue %d is a %v", i, heap.TypeOf(v))
			}
			cl.Upvalues[i] = c
			return nil
		}))
	}
	steps = append(steps,
		d.value(ctx, func(v heap.Value) error {
			switch v := v.(type) {
			case nil:
				return nil
			case *heap.Table:
				cl.Env = v
				return nil
			default:
				return malformed(ctx, "Closure environment is a %v", heap.TypeOf(v))
			}
		}),
		done(cl, to),
	)
	d.push(steps...)
	return nil
}

func (d *Decoder) cell(ctx context.Context, to sink) error {
	c := heap.NewCell(nil)
	d.refs.add(c)
	d.push(
		d.value(ctx, func(v heap.Value) error {
			// A cell reopened while its value was being read already aliases
			// the stack slot holding that value.
			if !c.IsOpen() {
				c.Set(v)
			}
			return nil
		}),
		done(c, to),
	)
	return nil
}

func (d *Decoder) template(ctx context.Context, to sink) error {
	t := &heap.Template{}
	d.refs.add(t)
	str := func(dst *heap.String, what string) sink {
		return func(v heap.Value) error {
			s, ok := v.(heap.String)
			if !ok {
				return malformed(ctx, "Template %s is a %v", what, heap.TypeOf(v))
			}
			*dst = s
			return nil
		}
	}
	d.push(
		d.count(ctx, func() decodeStep {
			return d.value(ctx, func(v heap.Value) error {
				t.Constants = append(t.Constants, v)
				return nil
			})
		}),
		d.count(ctx, func() decodeStep {
			return d.value(ctx, func(v heap.Value) error {
				n, ok := v.(*heap.Template)
				if !ok {
					return malformed(ctx, "Nested template is a %v", heap.TypeOf(v))
				}
				t.Templates = append(t.Templates, n)
				return nil
			})
		}),
		d.read(ctx, func(r binary.Reader) error {
			t.Code = d.blob()
			return nil
		}),
		d.count(ctx, func() decodeStep {
			t.UpvalueNames = append(t.UpvalueNames, "")
			i := len(t.UpvalueNames) - 1
			return d.value(ctx, func(v heap.Value) error {
				return str(&t.UpvalueNames[i], "upvalue name")(v)
			})
		}),
		d.count(ctx, func() decodeStep {
			t.Locals = append(t.Locals, heap.LocalVar{})
			i := len(t.Locals) - 1
			return d.value(ctx, func(v heap.Value) error {
				if err := str(&t.Locals[i].Name, "local name")(v); err != nil {
					return err
				}
				d.push(d.read(ctx, func(r binary.Reader) error {
					t.Locals[i].StartPC = r.Int32()
					t.Locals[i].EndPC = r.Int32()
					return nil
				}))
				return nil
			})
		}),
		d.value(ctx, str(&t.Source, "source")),
		d.read(ctx, func(r binary.Reader) error {
			n := r.Int32()
			if n < 0 {
				return malformed(ctx, "Negative line info count %d", n)
			}
			for i := int32(0); i < n && r.Error() == nil; i++ {
				t.LineInfo = append(t.LineInfo, r.Int32())
			}
			t.LineDefined = r.Int32()
			t.LastLineDefined = r.Int32()
			t.NumUpvalues = r.Uint8()
			t.NumParams = r.Uint8()
			t.IsVararg = r.Bool()
			t.MaxStackSize = r.Uint8()
			return nil
		}),
		done(t, to),
	)
	return nil
}
