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

package heap_test

import (
	"testing"

	"github.com/scummvm/scummvm-sub059/core/assert"
	"github.com/scummvm/scummvm-sub059/core/log"
	"github.com/scummvm/scummvm-sub059/framework/heap"
)

func TestClosedCell(t *testing.T) {
	ctx := log.Testing(t)
	c := heap.NewCell(heap.Number(1))
	assert.For(ctx, "initial").That(c.Get()).Equals(heap.Number(1))
	c.Set(heap.String("s"))
	assert.For(ctx, "set").That(c.Get()).Equals(heap.String("s"))
	owner, _ := c.Owner()
	assert.For(ctx, "no owner").That(owner).IsNil()

	co := heap.NewCoroutine()
	off := co.Push(heap.Number(7))
	assert.For(ctx, "reopen").ThatError(co.Reopen(c, off)).Succeeded()
	assert.For(ctx, "slot wins").That(c.Get()).Equals(heap.Number(7))
	co.Close(0)
	co.SetSlot(off, heap.Number(8))
	assert.For(ctx, "closed copy").That(c.Get()).Equals(heap.Number(7))
}

func TestOpenCellAliasesSlot(t *testing.T) {
	ctx := log.Testing(t)
	co := heap.NewCoroutine()
	co.Push(heap.String("f"))
	off := co.Push(heap.Number(1))

	c := co.OpenCell(off)
	assert.For(ctx, "same cell").That(co.OpenCell(off)).Same(c)
	assert.For(ctx, "open").That(c.IsOpen()).Equals(true)

	c.Set(heap.Number(2))
	assert.For(ctx, "write through cell").That(co.Slot(off)).Equals(heap.Number(2))
	co.SetSlot(off, heap.Number(3))
	assert.For(ctx, "write through slot").That(c.Get()).Equals(heap.Number(3))

	co.Close(off)
	assert.For(ctx, "closed").That(c.IsOpen()).Equals(false)
	co.SetSlot(off, heap.Number(4))
	assert.For(ctx, "detached").That(c.Get()).Equals(heap.Number(3))
}

func TestOpenCellsOrder(t *testing.T) {
	ctx := log.Testing(t)
	co := heap.NewCoroutine()
	for i := 0; i < 4; i++ {
		co.Push(heap.Number(i))
	}
	a := co.OpenCell(1)
	b := co.OpenCell(3)
	c := co.OpenCell(2)
	cells := co.OpenCells()
	assert.For(ctx, "count").ThatSlice(cells).IsLength(3)
	assert.For(ctx, "0").That(cells[0]).Same(b)
	assert.For(ctx, "1").That(cells[1]).Same(c)
	assert.For(ctx, "2").That(cells[2]).Same(a)

	co.Close(2)
	cells = co.OpenCells()
	assert.For(ctx, "remaining").ThatSlice(cells).IsLength(1)
	assert.For(ctx, "remaining cell").That(cells[0]).Same(a)
}

func TestReopen(t *testing.T) {
	ctx := log.Testing(t)
	co := heap.NewCoroutine()
	co.Push(heap.String("x"))
	co.Push(heap.String("y"))

	c := heap.NewCell(heap.String("y"))
	assert.For(ctx, "reopen").ThatError(co.Reopen(c, 1)).Succeeded()
	c.Set(heap.String("z"))
	assert.For(ctx, "aliased").That(co.Slot(1)).Equals(heap.String("z"))
	owner, off := c.Owner()
	assert.For(ctx, "owner").That(owner).Same(co)
	assert.For(ctx, "offset").That(off).Equals(1)

	assert.For(ctx, "again").ThatError(co.Reopen(c, 0)).Equals(heap.ErrCellOpen)
	assert.For(ctx, "taken").ThatError(co.Reopen(heap.NewCell(nil), 1)).Equals(heap.ErrSlotCaptured)
	assert.For(ctx, "range").ThatError(co.Reopen(heap.NewCell(nil), 2)).Equals(heap.ErrSlotOutOfRange)
	assert.For(ctx, "negative").ThatError(co.Reopen(heap.NewCell(nil), -1)).Equals(heap.ErrSlotOutOfRange)
}

func TestNewClosure(t *testing.T) {
	ctx := log.Testing(t)
	tmpl := &heap.Template{NumUpvalues: 2}
	cl := heap.NewClosure(tmpl, nil)
	assert.For(ctx, "upvalues").ThatSlice(cl.Upvalues).IsLength(2)
	assert.For(ctx, "distinct").That(cl.Upvalues[0] == cl.Upvalues[1]).Equals(false)
	assert.For(ctx, "closed").That(cl.Upvalues[0].IsOpen()).Equals(false)
}
