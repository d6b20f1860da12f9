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

// Cell is a captured variable. An open cell aliases a slot of a coroutine's
// value stack; a closed cell owns its value.
type Cell struct {
	closed Value
	owner  *Coroutine
	offset int
}

// NewCell returns a closed cell holding v.
func NewCell(v Value) *Cell { return &Cell{closed: v} }

func (*Cell) Type() Type { return CellType }
func (*Cell) value()     {}

// Get returns the current value of the cell.
func (c *Cell) Get() Value {
	if c.owner != nil {
		return c.owner.stack[c.offset]
	}
	return c.closed
}

// Set changes the current value of the cell.
func (c *Cell) Set(v Value) {
	if c.owner != nil {
		c.owner.stack[c.offset] = v
		return
	}
	c.closed = v
}

// IsOpen returns true if the cell aliases a coroutine stack slot.
func (c *Cell) IsOpen() bool { return c.owner != nil }

// Owner returns the coroutine and stack offset of an open cell.
func (c *Cell) Owner() (*Coroutine, int) { return c.owner, c.offset }
