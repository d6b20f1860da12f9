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
	"github.com/scummvm/scummvm-sub059/framework/heap"
)

// tableValue returns t as a Value, with a nil table as a nil Value.
func tableValue(t *heap.Table) heap.Value {
	if t == nil {
		return nil
	}
	return t
}

func (e *Encoder) table(ctx context.Context, t *heap.Table) ([]encodeStep, error) {
	ctor, err := e.hook(ctx, t, t.Meta, e.opts.Tables)
	if err != nil {
		return nil, err
	}
	if ctor != nil {
		e.w.Bool(true)
		return []encodeStep{ref(ctor)}, nil
	}
	e.w.Bool(false)
	steps := make([]encodeStep, 0, 2*t.Len()+2)
	steps = append(steps, ref(tableValue(t.Meta)))
	t.Range(func(k, v heap.Value) bool {
		steps = append(steps, ref(k), ref(v))
		return true
	})
	return append(steps, ref(nil)), nil
}

func (e *Encoder) opaque(ctx context.Context, o *heap.Opaque) ([]encodeStep, error) {
	ctor, err := e.hook(ctx, o, o.Meta, e.opts.Opaque)
	if err != nil {
		return nil, err
	}
	if ctor != nil {
		e.w.Bool(true)
		return []encodeStep{ref(ctor)}, nil
	}
	return []encodeStep{
		emit(func(w binary.Writer) {
			w.Bool(false)
			w.Blob(o.Data)
		}),
		ref(tableValue(o.Meta)),
	}, nil
}

func (d *Decoder) table(ctx context.Context, to sink) error {
	hooked := d.r.Bool()
	if err := d.check(ctx); err != nil {
		return err
	}
	if hooked {
		return d.hooked(ctx, heap.TableType, to)
	}
	t := heap.NewTable()
	d.refs.add(t)
	d.push(
		d.value(ctx, d.metatable(ctx, &t.Meta)),
		d.entries(ctx, t),
		done(t, to),
	)
	return nil
}

// entries returns a step reading one key of t. A nil key ends the table.
func (d *Decoder) entries(ctx context.Context, t *heap.Table) decodeStep {
	return d.value(ctx, func(k heap.Value) error {
		if k == nil {
			return nil
		}
		if !heap.ValidKey(k) {
			return malformed(ctx, "Invalid table key %v", k)
		}
		d.push(
			d.value(ctx, func(v heap.Value) error {
				if v == nil {
					return malformed(ctx, "Nil value for table key %v", k)
				}
				t.Set(k, v)
				return nil
			}),
			d.entries(ctx, t),
		)
		return nil
	})
}

func (d *Decoder) opaque(ctx context.Context, to sink) error {
	hooked := d.r.Bool()
	if err := d.check(ctx); err != nil {
		return err
	}
	if hooked {
		return d.hooked(ctx, heap.OpaqueType, to)
	}
	data := d.blob()
	if err := d.check(ctx); err != nil {
		return err
	}
	o := &heap.Opaque{Data: data}
	d.refs.add(o)
	d.push(
		d.value(ctx, d.metatable(ctx, &o.Meta)),
		done(o, to),
	)
	return nil
}

// metatable returns a sink storing a table or nil into dst.
func (d *Decoder) metatable(ctx context.Context, dst **heap.Table) sink {
	return func(v heap.Value) error {
		switch v := v.(type) {
		case nil:
			return nil
		case *heap.Table:
			*dst = v
			return nil
		default:
			return malformed(ctx, "Metatable is a %v", heap.TypeOf(v))
		}
	}
}
