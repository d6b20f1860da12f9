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

import "github.com/scummvm/scummvm-sub059/framework/heap"

// slot is an entry of the identity table. A pending slot has an index but
// no object yet.
type slot struct {
	value   heap.Value
	pending bool
}

// identity maps objects to serial indices and back. Index 0 is nil.
// The writer assigns indices with assign; the reader claims them in the
// same order with reserve and fills them with set.
type identity struct {
	slots []slot
	index map[heap.Value]uint32
}

func newIdentity() *identity {
	return &identity{
		slots: []slot{{}},
		index: map[heap.Value]uint32{},
	}
}

// next returns the index the next new object will receive.
func (t *identity) next() uint32 { return uint32(len(t.slots)) }

// assign returns the index of v, giving v the next index if it has none.
// The second result is true if v was already known.
func (t *identity) assign(v heap.Value) (uint32, bool) {
	if i, ok := t.index[v]; ok {
		return i, true
	}
	i := t.next()
	t.slots = append(t.slots, slot{value: v})
	t.index[v] = i
	return i, false
}

// reserve claims the next index as pending.
func (t *identity) reserve() uint32 {
	i := t.next()
	t.slots = append(t.slots, slot{pending: true})
	return i
}

// set stores v at the reserved index i.
func (t *identity) set(i uint32, v heap.Value) {
	t.slots[i] = slot{value: v}
}

// add stores v at the next index.
func (t *identity) add(v heap.Value) uint32 {
	i := t.reserve()
	t.set(i, v)
	return i
}

// get returns the object at index i. The second result is false if i was
// never reserved or is still pending.
func (t *identity) get(i uint32) (heap.Value, bool) {
	if i == 0 || i >= t.next() || t.slots[i].pending {
		return nil, false
	}
	return t.slots[i].value, true
}

// pending returns the number of reserved indices that were never set.
func (t *identity) pending() int {
	n := 0
	for _, s := range t.slots {
		if s.pending {
			n++
		}
	}
	return n
}
