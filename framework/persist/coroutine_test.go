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
	"testing"

	"github.com/scummvm/scummvm-sub059/core/assert"
	"github.com/scummvm/scummvm-sub059/core/log"
	"github.com/scummvm/scummvm-sub059/framework/heap"
	"github.com/scummvm/scummvm-sub059/framework/heap/heaptest"
	"github.com/scummvm/scummvm-sub059/framework/persist"
)

// suspended returns a coroutine suspended inside "body" with a local at
// offset 1 captured by a "counter" closure, which is also left on the stack.
func suspended() (*heap.Coroutine, *heap.Closure) {
	co := heap.NewCoroutine()
	co.Push(heaptest.Function("body"))
	local := co.Push(heap.Number(10))
	inc := heaptest.Function("counter", co.OpenCell(local))
	co.Push(inc)
	co.Frames = []heap.Frame{{Base: 1, Func: 0, Top: 3, NResults: -1, SavedPC: 4}}
	co.Status = heap.Suspended
	return co, inc
}

func TestCoroutineReattachment(t *testing.T) {
	ctx := log.Testing(t)
	rt := counterRuntime()
	for _, test := range []struct {
		name         string
		closureFirst bool
	}{
		{"coroutine first", false},
		{"closure first", true},
	} {
		co, inc := suspended()
		root := table(heap.String("co"), co, heap.String("inc"), inc)
		if test.closureFirst {
			root = table(heap.String("inc"), inc, heap.String("co"), co)
		}

		got, err := roundTrip(ctx, rt, root, nil)
		if !assert.For(ctx, "%s: err", test.name).ThatError(err).Succeeded() {
			continue
		}
		assert.For(ctx, "%s: isomorphic", test.name).ThatError(heaptest.Isomorphic(root, got)).Succeeded()

		out := got.(*heap.Table)
		co2 := out.Get(heap.String("co")).(*heap.Coroutine)
		inc2 := out.Get(heap.String("inc")).(*heap.Closure)
		cell := inc2.Upvalues[0]
		owner, off := cell.Owner()
		assert.For(ctx, "%s: open", test.name).That(cell.IsOpen()).Equals(true)
		assert.For(ctx, "%s: owner", test.name).That(owner).Same(co2)
		assert.For(ctx, "%s: offset", test.name).That(off).Equals(1)
		assert.For(ctx, "%s: stack closure", test.name).That(co2.Slot(2)).Same(inc2)

		res, err := rt.Call(ctx, inc2)
		assert.For(ctx, "%s: call", test.name).ThatError(err).Succeeded()
		assert.For(ctx, "%s: result", test.name).ThatSlice(res).Equals([]heap.Value{heap.Number(11)})
		assert.For(ctx, "%s: slot sees write", test.name).That(co2.Slot(1)).Equals(heap.Number(11))
		co2.SetSlot(1, heap.Number(20))
		assert.For(ctx, "%s: cell sees write", test.name).That(cell.Get()).Equals(heap.Number(20))
		assert.For(ctx, "%s: original untouched", test.name).That(co.Slot(1)).Equals(heap.Number(10))
	}
}

func TestCoroutineBytes(t *testing.T) {
	ctx := log.Testing(t)
	co := heap.NewCoroutine()
	co.Push(heap.Bool(true))
	co.OpenCell(0)
	co.Status = heap.Dead

	data, err := persist.Persist(ctx, heaptest.NewRuntime(), co, nil)
	assert.For(ctx, "persist").ThatError(err).Succeeded()
	expected := newStream().
		Real(1, heap.CoroutineType).
		I32(1).Bool(true). // stack
		I32(0).            // frames
		I32(int32(heap.Dead)).
		Real(2, heap.CellType).Bool(true).I32(0). // open cell at offset 0
		Nil().
		Data()
	assert.For(ctx, "data").ThatSlice(data).Equals(expected)
}

func TestCoroutineErrors(t *testing.T) {
	ctx := log.Testing(t)
	rt := heaptest.NewRuntime()

	running, _ := suspended()
	running.Status = heap.Running
	_, err := persist.Persist(ctx, rt, running, nil)
	assert.For(ctx, "running").ThatError(err).HasCause(persist.ErrUnpersistable)

	native, _ := suspended()
	native.Push(&heap.NativeFunction{Name: "yield"})
	native.Frames = append(native.Frames, heap.Frame{Base: 4, Func: 3, Top: 4})
	_, err = persist.Persist(ctx, rt, native, nil)
	assert.For(ctx, "native frame").ThatError(err).HasCause(persist.ErrUnpersistable)

	bad, _ := suspended()
	bad.Frames[0].Top = 10
	_, err = persist.Persist(ctx, rt, bad, nil)
	assert.For(ctx, "bad frame").ThatError(err).HasCause(persist.ErrUnpersistable)

	empty := heap.NewCoroutine()
	empty.Frames = []heap.Frame{{}}
	_, err = persist.Persist(ctx, rt, empty, nil)
	assert.For(ctx, "frame on empty stack").ThatError(err).HasCause(persist.ErrUnpersistable)
}

func TestCoroutineOpenCellErrors(t *testing.T) {
	ctx := log.Testing(t)
	rt := heaptest.NewRuntime()
	for _, test := range []struct {
		name  string
		data  []byte
		cause error
	}{
		{
			name: "offset outside stack",
			data: newStream().Real(1, heap.CoroutineType).
				I32(0).I32(0).I32(0).
				Real(2, heap.CellType).Nil().I32(5).
				Nil().Data(),
			cause: persist.ErrUnbalancedCapture,
		},
		{
			name: "slot captured twice",
			data: newStream().Real(1, heap.CoroutineType).
				I32(1).Number(1).I32(0).I32(0).
				Real(2, heap.CellType).Nil().I32(0).
				Real(3, heap.CellType).Nil().I32(0).
				Nil().Data(),
			cause: persist.ErrUnbalancedCapture,
		},
		{
			name: "cell listed twice",
			data: newStream().Real(1, heap.CoroutineType).
				I32(2).Number(1).Number(2).I32(0).I32(0).
				Real(2, heap.CellType).Nil().I32(0).
				Ref(2).I32(1).
				Nil().Data(),
			cause: persist.ErrUnbalancedCapture,
		},
		{
			name: "open cell is the coroutine",
			data: newStream().Real(1, heap.CoroutineType).
				I32(0).I32(0).I32(0).
				Ref(1).I32(0).
				Nil().Data(),
			cause: persist.ErrMalformedTag,
		},
		{
			name: "running status",
			data: newStream().Real(1, heap.CoroutineType).
				I32(0).I32(0).I32(int32(heap.Running)).
				Nil().Data(),
			cause: persist.ErrMalformedTag,
		},
		{
			name: "frame on empty stack",
			data: newStream().Real(1, heap.CoroutineType).
				I32(0).
				I32(1).I32(0).I32(0).I32(0).I32(0).I32(0).
				I32(0).
				Nil().Data(),
			cause: persist.ErrMalformedTag,
		},
		{
			name: "frame outside stack",
			data: newStream().Real(1, heap.CoroutineType).
				I32(0).
				I32(1).I32(0).I32(0).I32(3).I32(0).I32(0).
				I32(0).
				Nil().Data(),
			cause: persist.ErrMalformedTag,
		},
	} {
		got, err := persist.Unpersist(ctx, rt, test.data, nil)
		assert.For(ctx, test.name).ThatError(err).HasCause(test.cause)
		assert.For(ctx, "%s: no result", test.name).That(got).IsNil()
	}
}
