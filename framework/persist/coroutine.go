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

	"github.com/scummvm/scummvm-sub059/core/data/binary"
	"github.com/scummvm/scummvm-sub059/core/log"
	"github.com/scummvm/scummvm-sub059/framework/heap"
)

// coroutine writes the value stack, the call frames, the status and then
// the open cells with their stack offsets. Open cells are written after the
// stack so the reader can attach them to rebuilt slots.
func (e *Encoder) coroutine(ctx context.Context, co *heap.Coroutine) ([]encodeStep, error) {
	if co.Status == heap.Running {
		return nil, log.Err(ctx, ErrUnpersistable, "Coroutine is running")
	}
	for i, f := range co.Frames {
		if !frameFits(f, co.Len()) {
			return nil, log.Errf(ctx, ErrUnpersistable, "Frame %d %+v does not fit a stack of %d", i, f, co.Len())
		}
		if _, native := co.Slot(f.Func).(*heap.NativeFunction); native && i > 0 {
			return nil, log.Errf(ctx, ErrUnpersistable, "Frame %d is a native function call", i)
		}
	}
	open := co.OpenCells()
	for _, c := range open {
		if owner, off := c.Owner(); owner != co || off < 0 || off >= co.Len() {
			return nil, log.Errf(ctx, ErrUnbalancedCapture, "Open cell at offset %d does not belong to the coroutine stack", off)
		}
	}

	steps := make([]encodeStep, 0, co.Len()+2*len(open)+3)
	steps = append(steps, emit(func(w binary.Writer) { w.Int32(int32(co.Len())) }))
	for i := 0; i < co.Len(); i++ {
		steps = append(steps, ref(co.Slot(i)))
	}
	steps = append(steps, emit(func(w binary.Writer) {
		w.Int32(int32(len(co.Frames)))
		for _, f := range co.Frames {
			w.Int32(int32(f.Base))
			w.Int32(int32(f.Func))
			w.Int32(int32(f.Top))
			w.Int32(int32(f.NResults))
			w.Int32(int32(f.SavedPC))
		}
		w.Int32(int32(co.Status))
	}))
	for _, c := range open {
		_, off := c.Owner()
		steps = append(steps, ref(c), emit(func(w binary.Writer) { w.Int32(int32(off)) }))
	}
	return append(steps, ref(nil)), nil
}

func (d *Decoder) coroutine(ctx context.Context, to sink) error {
	co := heap.NewCoroutine()
	d.refs.add(co)
	d.push(
		d.count(ctx, func() decodeStep {
			return d.value(ctx, func(v heap.Value) error {
				co.Push(v)
				return nil
			})
		}),
		d.read(ctx, func(r binary.Reader) error {
			n := r.Int32()
			if n < 0 {
				return malformed(ctx, "Negative frame count %d", n)
			}
			for i := int32(0); i < n && r.Error() == nil; i++ {
				co.Frames = append(co.Frames, heap.Frame{
					Base:     int(r.Int32()),
					Func:     int(r.Int32()),
					Top:      int(r.Int32()),
					NResults: int(r.Int32()),
					SavedPC:  int(r.Int32()),
				})
			}
			co.Status = heap.Status(r.Int32())
			if r.Error() != nil {
				return nil
			}
			return d.validate(ctx, co)
		}),
		d.openCells(ctx, co),
		done(co, to),
	)
	return nil
}

func (d *Decoder) validate(ctx context.Context, co *heap.Coroutine) error {
	switch co.Status {
	case heap.Suspended, heap.Normal, heap.Dead:
	default:
		return malformed(ctx, "Coroutine status %v", co.Status)
	}
	for i, f := range co.Frames {
		if !frameFits(f, co.Len()) {
			return malformed(ctx, "Frame %d %+v does not fit a stack of %d", i, f, co.Len())
		}
	}
	return nil
}

// openCells returns a step reading one open cell of co. A nil cell ends
// the list.
func (d *Decoder) openCells(ctx context.Context, co *heap.Coroutine) decodeStep {
	return d.value(ctx, func(v heap.Value) error {
		if v == nil {
			return nil
		}
		c, ok := v.(*heap.Cell)
		if !ok {
			return malformed(ctx, "Open cell is a %v", heap.TypeOf(v))
		}
		off := d.r.Int32()
		if err := d.check(ctx); err != nil {
			return err
		}
		if err := co.Reopen(c, int(off)); err != nil {
			return log.Errf(ctx, ErrUnbalancedCapture, "Open cell at offset %d: %v", off, err)
		}
		d.push(d.openCells(ctx, co))
		return nil
	})
}

// frameFits returns true if the offsets of f are ordered and lie within a
// stack of size n, with the function in an existing slot.
func frameFits(f heap.Frame, n int) bool {
	return f.Func >= 0 && f.Func < n && f.Func <= f.Base && f.Base <= f.Top && f.Top <= n && f.SavedPC >= 0
}
