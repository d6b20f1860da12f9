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

	"github.com/scummvm/scummvm-sub059/core/log"
	"github.com/scummvm/scummvm-sub059/framework/heap"
)

// hook resolves the persistence hook of obj from its metatable meta.
// It returns the constructor to write in place of obj, or nil if obj is
// written literally.
//
// The hook field may hold true (write literally), false (refuse), or a
// function. A function is called with obj and must return the constructor
// function that rebuilds obj when called with no arguments.
func (e *Encoder) hook(ctx context.Context, obj heap.Value, meta *heap.Table, policy Policy) (heap.Value, error) {
	switch h := heap.RawField(meta, e.opts.HookField).(type) {
	case nil:
		if policy == Allow {
			return nil, nil
		}
		return nil, log.Errf(ctx, ErrUnpersistable, "%v has no persistence hook", obj.Type())
	case heap.Bool:
		if h {
			return nil, nil
		}
		return nil, log.Errf(ctx, ErrUnpersistable, "%v is marked unpersistable", obj.Type())
	case *heap.Closure, *heap.NativeFunction:
		if e.rt == nil {
			return nil, log.Err(ctx, ErrHookConstructorFailed, "No runtime to call the persistence hook")
		}
		res, err := e.rt.Call(ctx, h, obj)
		if err != nil {
			return nil, log.Errf(ctx, hookFailure{err}, "Persistence hook of %v", obj.Type())
		}
		if len(res) == 0 || !heap.IsFunction(res[0]) {
			return nil, log.Errf(ctx, ErrHookConstructorFailed, "Persistence hook of %v did not return a function", obj.Type())
		}
		e.stats.Hooks++
		return res[0], nil
	default:
		return nil, log.Errf(ctx, ErrUnpersistable, "Persistence hook of %v is a %v", obj.Type(), heap.TypeOf(h))
	}
}

// hooked reads the constructor of an object of type want and registers the
// value it returns at the object's index.
func (d *Decoder) hooked(ctx context.Context, want heap.Type, to sink) error {
	i := d.refs.reserve()
	d.push(d.value(ctx, func(ctor heap.Value) error {
		v, err := d.construct(ctx, ctor, want)
		if err != nil {
			return err
		}
		d.refs.set(i, v)
		d.stats.Hooks++
		return to(v)
	}))
	return nil
}

func (d *Decoder) construct(ctx context.Context, ctor heap.Value, want heap.Type) (heap.Value, error) {
	if !heap.IsFunction(ctor) {
		return nil, log.Errf(ctx, ErrHookConstructorFailed, "Constructor of %v is a %v", want, heap.TypeOf(ctor))
	}
	if d.rt == nil {
		return nil, log.Err(ctx, ErrHookConstructorFailed, "No runtime to call the constructor")
	}
	res, err := d.rt.Call(ctx, ctor)
	if err != nil {
		return nil, log.Errf(ctx, hookFailure{err}, "Constructor of %v", want)
	}
	if len(res) == 0 || heap.TypeOf(res[0]) != want {
		got := heap.NilType
		if len(res) > 0 {
			got = heap.TypeOf(res[0])
		}
		return nil, log.Errf(ctx, ErrHookConstructorFailed, "Constructor of %v returned a %v", want, got)
	}
	return res[0], nil
}
