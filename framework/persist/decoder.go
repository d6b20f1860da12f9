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

	"github.com/pkg/errors"
	"github.com/scummvm/scummvm-sub059/core/data/binary"
	"github.com/scummvm/scummvm-sub059/core/data/endian"
	"github.com/scummvm/scummvm-sub059/core/fault"
	"github.com/scummvm/scummvm-sub059/core/log"
	"github.com/scummvm/scummvm-sub059/framework/heap"
)

// Decoder rebuilds heap graphs from a stream.
type Decoder struct {
	in    *countingReader
	r     binary.Reader
	rt    heap.Runtime
	perms *Permanents
	opts  Options
	refs  *identity
	work  []decodeStep
	stats Stats
}

// decodeStep consumes part of the stream.
type decodeStep func(ctx context.Context) error

// sink receives a decoded value. Real objects are passed on once their
// payload has been read.
type sink func(v heap.Value) error

// NewDecoder returns a Decoder reading from r. Constructors of hooked
// objects are called through rt. perms is copied.
func NewDecoder(r io.Reader, rt heap.Runtime, perms *Permanents, opts Options) *Decoder {
	in := &countingReader{r: r}
	return &Decoder{
		in:    in,
		r:     endian.Little(in),
		rt:    rt,
		perms: perms.clone(),
		opts:  opts,
	}
}

// Stats returns the counters of the last call to Decode.
func (d *Decoder) Stats() Stats { return d.stats }

// Decode reads one graph and returns its root. Each call uses a fresh
// identity table. On error no part of the graph is returned.
func (d *Decoder) Decode(ctx context.Context) (root heap.Value, err error) {
	ctx = log.Enter(ctx, "Decode")
	d.refs = newIdentity()
	d.work = d.work[:0]
	d.stats = Stats{}
	start := d.in.n
	defer func() {
		d.stats.Bytes = d.in.n - start
		recordCall(ctx, "unpersist", d.stats, err)
		if err == nil {
			log.D(ctx, "Unpersisted %v", d.stats)
		}
	}()

	d.push(d.value(ctx, func(v heap.Value) error {
		root = v
		return nil
	}))
	for len(d.work) > 0 {
		s := d.work[len(d.work)-1]
		d.work = d.work[:len(d.work)-1]
		if err := s(ctx); err != nil {
			return nil, err
		}
	}
	if n := d.refs.pending(); n > 0 {
		return nil, log.Errf(ctx, ErrUnbalancedCapture, "%d objects were never constructed", n)
	}
	return root, nil
}

// push schedules steps to run in the order given, before anything already
// scheduled.
func (d *Decoder) push(steps ...decodeStep) {
	for i := len(steps) - 1; i >= 0; i-- {
		d.work = append(d.work, steps[i])
	}
}

// check maps the reader's sticky error to the error taxonomy.
func (d *Decoder) check(ctx context.Context) error {
	err := d.r.Error()
	switch {
	case err == nil:
		return nil
	case errors.Cause(err) == binary.ErrLengthOverflow:
		return log.Err(ctx, ErrMalformedTag, "Length prefix exceeds limit")
	case err == io.EOF, err == io.ErrUnexpectedEOF:
		return log.Err(ctx, ErrTruncatedStream, "Unexpected end of stream")
	default:
		return log.Errf(ctx, ErrTruncatedStream, "Read failed: %v", err)
	}
}

// blob reads a length prefixed byte payload.
func (d *Decoder) blob() []byte {
	limit := d.opts.MaxBlobSize
	if limit == 0 {
		limit = ^uint32(0)
	}
	return d.r.Blob(limit)
}

func malformed(ctx context.Context, msg string, args ...interface{}) error {
	return log.Errf(ctx, ErrMalformedTag, msg, args...)
}

// read returns a step that reads scalars with f. Stream errors take
// precedence over errors returned by f.
func (d *Decoder) read(ctx context.Context, f func(r binary.Reader) error) decodeStep {
	return func(context.Context) error {
		err := f(d.r)
		return fault.First(d.check(ctx), err)
	}
}

// done returns a step passing v to to.
func done(v heap.Value, to sink) decodeStep {
	return func(context.Context) error { return to(v) }
}

// count returns a step that reads an int32 count and then runs each() that
// many times.
func (d *Decoder) count(ctx context.Context, each func() decodeStep) decodeStep {
	return func(context.Context) error {
		n := d.r.Int32()
		if err := d.check(ctx); err != nil {
			return err
		}
		if n < 0 {
			return malformed(ctx, "Negative count %d", n)
		}
		d.push(d.repeat(int(n), each))
		return nil
	}
}

func (d *Decoder) repeat(n int, each func() decodeStep) decodeStep {
	return func(context.Context) error {
		if n > 0 {
			d.push(each(), d.repeat(n-1, each))
		}
		return nil
	}
}

// value returns a step that reads one record and passes the value to to.
func (d *Decoder) value(ctx context.Context, to sink) decodeStep {
	return func(context.Context) error {
		tag := d.r.Uint8()
		if err := d.check(ctx); err != nil {
			return err
		}
		switch tag {
		case tagReference:
			i := d.r.Uint32()
			if err := d.check(ctx); err != nil {
				return err
			}
			if i == 0 {
				return to(nil)
			}
			v, ok := d.refs.get(i)
			if !ok {
				return malformed(ctx, "Reference to unknown object %d", i)
			}
			d.stats.References++
			return to(v)

		case tagImmediate:
			var v heap.Value
			switch t := heap.Type(d.r.Int32()); t {
			case heap.BoolType:
				v = heap.Bool(d.r.Bool())
			case heap.NumberType:
				v = heap.Number(binary.ReadNumber(d.r))
			default:
				if err := d.check(ctx); err != nil {
					return err
				}
				return malformed(ctx, "Immediate of type %v", t)
			}
			if err := d.check(ctx); err != nil {
				return err
			}
			d.stats.Immediates++
			return to(v)

		case tagReal:
			i := d.r.Uint32()
			t := d.r.Int32()
			if err := d.check(ctx); err != nil {
				return err
			}
			if expect := d.refs.next(); i != expect {
				return malformed(ctx, "Object index %d out of sequence, expected %d", i, expect)
			}
			d.stats.Objects++
			return d.real(ctx, t, to)

		default:
			return malformed(ctx, "Unknown record tag %d", tag)
		}
	}
}

// real reads the payload of a new object of type t.
func (d *Decoder) real(ctx context.Context, t int32, to sink) error {
	if t == typePermanent {
		return d.permanent(ctx, to)
	}
	switch typ := heap.Type(t); typ {
	case heap.StringType:
		s := d.blob()
		if err := d.check(ctx); err != nil {
			return err
		}
		v := heap.String(s)
		d.refs.add(v)
		return to(v)
	case heap.TableType:
		return d.table(ctx, to)
	case heap.OpaqueType:
		return d.opaque(ctx, to)
	case heap.FunctionType:
		return d.closure(ctx, to)
	case heap.CellType:
		return d.cell(ctx, to)
	case heap.TemplateType:
		return d.template(ctx, to)
	case heap.CoroutineType:
		return d.coroutine(ctx, to)
	case heap.PointerType:
		return log.Err(ctx, ErrUnsupportedType, "Stream contains a raw pointer")
	default:
		return malformed(ctx, "Object of type %v", typ)
	}
}

func (d *Decoder) permanent(ctx context.Context, to sink) error {
	i := d.refs.reserve()
	d.push(d.value(ctx, func(key heap.Value) error {
		obj, ok := d.perms.Lookup(key)
		if !ok {
			return log.Errf(ctx, ErrPermanentKeyNotFound, "No permanent for key %v", key)
		}
		d.refs.set(i, obj)
		d.stats.Permanents++
		return to(obj)
	}))
	return nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
