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
	"io"

	"github.com/scummvm/scummvm-sub059/core/data/binary"
	"github.com/scummvm/scummvm-sub059/core/data/endian"
	"github.com/scummvm/scummvm-sub059/core/log"
	"github.com/scummvm/scummvm-sub059/framework/heap"
)

const (
	tagReference  = uint8(0)
	tagReal       = uint8(1)
	tagImmediate  = uint8(2)
	typePermanent = int32(101)
)

// Encoder writes heap graphs to a stream.
type Encoder struct {
	out   *countingWriter
	w     binary.Writer
	rt    heap.Runtime
	perms *Permanents
	opts  Options
	refs  *identity
	plan  []encodeStep
	stats Stats
}

// encodeStep is either raw output or a record for value.
type encodeStep struct {
	emit  func(w binary.Writer)
	value heap.Value
}

func emit(f func(w binary.Writer)) encodeStep { return encodeStep{emit: f} }
func ref(v heap.Value) encodeStep             { return encodeStep{value: v} }

// NewEncoder returns an Encoder writing to w. Closures reached through
// persistence hooks are called through rt. perms is copied.
func NewEncoder(w io.Writer, rt heap.Runtime, perms *Permanents, opts Options) *Encoder {
	out := &countingWriter{w: w}
	return &Encoder{
		out:   out,
		w:     endian.LittleWriter(out),
		rt:    rt,
		perms: perms.clone(),
		opts:  opts,
	}
}

// Stats returns the counters of the last call to Encode.
func (e *Encoder) Stats() Stats { return e.stats }

// Encode writes the graph reachable from root. Each call uses a fresh
// identity table. On error the output written so far must be discarded.
func (e *Encoder) Encode(ctx context.Context, root heap.Value) (err error) {
	ctx = log.Enter(ctx, "Encode")
	e.refs = newIdentity()
	e.plan = e.plan[:0]
	e.stats = Stats{}
	start := e.out.n
	defer func() {
		e.stats.Bytes = e.out.n - start
		recordCall(ctx, "persist", e.stats, err)
		if err == nil {
			log.D(ctx, "Persisted %v", e.stats)
		}
	}()

	e.push(ref(root))
	for len(e.plan) > 0 {
		s := e.plan[len(e.plan)-1]
		e.plan = e.plan[:len(e.plan)-1]
		if s.emit != nil {
			s.emit(e.w)
		} else if err := e.record(ctx, s.value); err != nil {
			return err
		}
		if err := e.w.Error(); err != nil {
			return log.Err(ctx, err, "Write failed")
		}
	}
	return nil
}

// push schedules steps to run in the order given, before anything already
// scheduled.
func (e *Encoder) push(steps ...encodeStep) {
	for i := len(steps) - 1; i >= 0; i-- {
		e.plan = append(e.plan, steps[i])
	}
}

func (e *Encoder) record(ctx context.Context, v heap.Value) error {
	switch v := v.(type) {
	case nil:
		e.w.Uint8(tagReference)
		e.w.Uint32(0)
		return nil
	case heap.Bool:
		e.w.Uint8(tagImmediate)
		e.w.Int32(int32(heap.BoolType))
		e.w.Bool(bool(v))
		e.stats.Immediates++
		return nil
	case heap.Number:
		e.w.Uint8(tagImmediate)
		e.w.Int32(int32(heap.NumberType))
		binary.WriteNumber(e.w, float64(v))
		e.stats.Immediates++
		return nil
	}

	idx, seen := e.refs.assign(v)
	if seen {
		e.w.Uint8(tagReference)
		e.w.Uint32(idx)
		e.stats.References++
		return nil
	}
	e.stats.Objects++
	e.w.Uint8(tagReal)
	e.w.Uint32(idx)

	if key, ok := e.perms.Key(v); ok {
		e.w.Int32(typePermanent)
		e.stats.Permanents++
		e.push(ref(key))
		return nil
	}

	e.w.Int32(int32(v.Type()))
	steps, err := e.payload(ctx, v)
	if err != nil {
		return err
	}
	e.push(steps...)
	return nil
}

// payload writes the fixed part of v and returns the steps for the rest.
func (e *Encoder) payload(ctx context.Context, v heap.Value) ([]encodeStep, error) {
	switch v := v.(type) {
	case heap.String:
		e.w.String(string(v))
		return nil, nil
	case heap.Pointer:
		return nil, log.Errf(ctx, ErrUnsupportedType, "%v is not in the permanents table", v)
	case *heap.Table:
		return e.table(ctx, v)
	case *heap.Opaque:
		return e.opaque(ctx, v)
	case *heap.Closure:
		return e.closure(ctx, v)
	case *heap.NativeFunction:
		return nil, log.Errf(ctx, ErrUnpersistable, "%v is not in the permanents table", v)
	case *heap.Template:
		return e.template(v), nil
	case *heap.Cell:
		return []encodeStep{ref(v.Get())}, nil
	case *heap.Coroutine:
		return e.coroutine(ctx, v)
	default:
		return nil, log.Errf(ctx, ErrUnsupportedType, "%T", v)
	}
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
