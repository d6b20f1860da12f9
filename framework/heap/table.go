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

import "fmt"

// Table is an associative container with an optional metatable.
// Entries are kept in insertion order, except that removing an entry moves
// the last entry into its place.
type Table struct {
	Meta *Table

	keys  []Value
	vals  []Value
	index map[Value]int
}

// NewTable returns a new, empty table.
func NewTable() *Table { return &Table{} }

func (*Table) Type() Type { return TableType }
func (*Table) value()     {}

// Get returns the value stored against k, or nil.
func (t *Table) Get(k Value) Value {
	if !ValidKey(k) {
		return nil
	}
	if i, ok := t.index[k]; ok {
		return t.vals[i]
	}
	return nil
}

// Set stores v against k. Setting a nil value removes the entry.
// Set panics if k is nil or NaN.
func (t *Table) Set(k, v Value) {
	if !ValidKey(k) {
		panic(fmt.Errorf("Invalid table key %v", k))
	}
	i, ok := t.index[k]
	switch {
	case ok && v != nil:
		t.vals[i] = v
	case ok:
		last := len(t.keys) - 1
		if i != last {
			t.keys[i], t.vals[i] = t.keys[last], t.vals[last]
			t.index[t.keys[i]] = i
		}
		t.keys, t.vals = t.keys[:last], t.vals[:last]
		delete(t.index, k)
	case v != nil:
		if t.index == nil {
			t.index = map[Value]int{}
		}
		t.index[k] = len(t.keys)
		t.keys = append(t.keys, k)
		t.vals = append(t.vals, v)
	}
}

// Len returns the number of entries in the table.
func (t *Table) Len() int { return len(t.keys) }

// Range calls f for each entry until f returns false.
// f must not modify the table.
func (t *Table) Range(f func(k, v Value) bool) {
	for i, k := range t.keys {
		if !f(k, t.vals[i]) {
			return
		}
	}
}

// At returns the i'th entry in iteration order.
func (t *Table) At(i int) (k, v Value) { return t.keys[i], t.vals[i] }

// RawField returns the entry of meta named name, or nil if meta is nil.
func RawField(meta *Table, name string) Value {
	if meta == nil {
		return nil
	}
	return meta.Get(String(name))
}
