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

package persist_test

import (
	"bytes"
	"context"

	"github.com/scummvm/scummvm-sub059/core/data/binary"
	"github.com/scummvm/scummvm-sub059/core/data/endian"
	"github.com/scummvm/scummvm-sub059/framework/heap"
	"github.com/scummvm/scummvm-sub059/framework/heap/heaptest"
	"github.com/scummvm/scummvm-sub059/framework/persist"
)

// stream builds expected encodings record by record.
type stream struct {
	buf bytes.Buffer
	w   binary.Writer
}

func newStream() *stream {
	s := &stream{}
	s.w = endian.LittleWriter(&s.buf)
	return s
}

func (s *stream) Nil() *stream { return s.Ref(0) }

func (s *stream) Ref(i uint32) *stream {
	s.w.Uint8(0)
	s.w.Uint32(i)
	return s
}

func (s *stream) Real(i uint32, t heap.Type) *stream {
	s.w.Uint8(1)
	s.w.Uint32(i)
	s.w.Int32(int32(t))
	return s
}

func (s *stream) Permanent(i uint32) *stream {
	s.w.Uint8(1)
	s.w.Uint32(i)
	s.w.Int32(101)
	return s
}

func (s *stream) Number(v float64) *stream {
	s.w.Uint8(2)
	s.w.Int32(int32(heap.NumberType))
	binary.WriteNumber(s.w, v)
	return s
}

func (s *stream) Bool(v bool) *stream {
	s.w.Uint8(2)
	s.w.Int32(int32(heap.BoolType))
	s.w.Bool(v)
	return s
}

func (s *stream) Str(i uint32, v string) *stream {
	s.Real(i, heap.StringType)
	s.w.String(v)
	return s
}

func (s *stream) U8(v uint8) *stream {
	s.w.Uint8(v)
	return s
}

func (s *stream) I32(v int32) *stream {
	s.w.Int32(v)
	return s
}

func (s *stream) Data() []byte { return s.buf.Bytes() }

// roundTrip persists root and unpersists the result with the same runtime
// and permanents.
func roundTrip(ctx context.Context, rt heap.Runtime, root heap.Value, perms *persist.Permanents) (heap.Value, error) {
	data, err := persist.Persist(ctx, rt, root, perms)
	if err != nil {
		return nil, err
	}
	return persist.Unpersist(ctx, rt, data, perms)
}

func table(kv ...heap.Value) *heap.Table {
	t := heap.NewTable()
	for i := 0; i+1 < len(kv); i += 2 {
		t.Set(kv[i], kv[i+1])
	}
	return t
}

// counterRuntime returns a runtime where closures of "counter" increment
// their first upvalue and return the new value.
func counterRuntime() *heaptest.Runtime {
	rt := heaptest.NewRuntime()
	rt.Define("counter", func(ctx context.Context, rt heap.Runtime, self *heap.Closure, args []heap.Value) ([]heap.Value, error) {
		n := self.Upvalues[0].Get().(heap.Number) + 1
		self.Upvalues[0].Set(n)
		return []heap.Value{n}, nil
	})
	return rt
}
