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

package heap

import (
	"sort"

	"github.com/scummvm/scummvm-sub059/core/fault"
)

const (
	ErrSlotOutOfRange = fault.Const("Stack slot out of range")
	ErrCellOpen       = fault.Const("Cell is already open")
	ErrSlotCaptured   = fault.Const("Stack slot already has an open cell")
)

// Status is the execution state of a coroutine.
type Status int32

const (
	// Suspended is a coroutine that has yielded or not yet started.
	Suspended Status = iota
	// Normal is a coroutine that resumed another coroutine.
	Normal
	// Running is the coroutine currently executing.
	Running
	// Dead is a coroutine that returned or failed.
	Dead
)

func (s Status) String() string {
	switch s {
	case Suspended:
		return "suspended"
	case Normal:
		return "normal"
	case Running:
		return "running"
	case Dead:
		return "dead"
	default:
		return "unknown"
	}
}

// Frame is a call frame. All offsets index the coroutine's value stack.
type Frame struct {
	Base     int
	Func     int
	Top      int
	NResults int
	SavedPC  int
}

// Coroutine is an independently resumable execution context.
type Coroutine struct {
	Frames []Frame
	Status Status

	stack []Value
	open  []*Cell // sorted by descending offset
}

// NewCoroutine returns a suspended coroutine with an empty stack.
func NewCoroutine() *Coroutine { return &Coroutine{} }

func (*Coroutine) Type() Type { return CoroutineType }
func (*Coroutine) value()     {}

// Push appends v to the value stack and returns its offset.
func (co *Coroutine) Push(v Value) int {
	co.stack = append(co.stack, v)
	return len(co.stack) - 1
}

// Len returns the size of the value stack.
func (co *Coroutine) Len() int { return len(co.stack) }

// Slot returns the value at offset i of the value stack.
func (co *Coroutine) Slot(i int) Value { return co.stack[i] }

// SetSlot replaces the value at offset i of the value stack.
func (co *Coroutine) SetSlot(i int, v Value) { co.stack[i] = v }

// OpenCell returns the open cell for the stack slot at offset, creating it
// if the slot is not yet captured.
func (co *Coroutine) OpenCell(offset int) *Cell {
	if offset < 0 || offset >= len(co.stack) {
		panic(ErrSlotOutOfRange)
	}
	i := co.find(offset)
	if i < len(co.open) && co.open[i].offset == offset {
		return co.open[i]
	}
	c := &Cell{owner: co, offset: offset}
	co.insert(i, c)
	return c
}

// OpenCells returns the open cells of the coroutine, highest offset first.
func (co *Coroutine) OpenCells() []*Cell {
	return append([]*Cell(nil), co.open...)
}

// Reopen attaches the closed cell c to the stack slot at offset. The slot
// keeps its current value.
func (co *Coroutine) Reopen(c *Cell, offset int) error {
	if offset < 0 || offset >= len(co.stack) {
		return ErrSlotOutOfRange
	}
	if c.owner != nil {
		return ErrCellOpen
	}
	i := co.find(offset)
	if i < len(co.open) && co.open[i].offset == offset {
		return ErrSlotCaptured
	}
	c.owner, c.offset, c.closed = co, offset, nil
	co.insert(i, c)
	return nil
}

// Close closes every open cell at or above level, copying the slot values
// into the cells.
func (co *Coroutine) Close(level int) {
	n := 0
	for n < len(co.open) && co.open[n].offset >= level {
		c := co.open[n]
		c.closed = co.stack[c.offset]
		c.owner, c.offset = nil, 0
		n++
	}
	co.open = co.open[n:]
}

// find returns the position of the first open cell with an offset at or
// below offset.
func (co *Coroutine) find(offset int) int {
	return sort.Search(len(co.open), func(i int) bool { return co.open[i].offset <= offset })
}

func (co *Coroutine) insert(i int, c *Cell) {
	co.open = append(co.open, nil)
	copy(co.open[i+1:], co.open[i:])
	co.open[i] = c
}
