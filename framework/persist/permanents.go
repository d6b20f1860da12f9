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
	"math"

	"github.com/pkg/errors"
	"github.com/scummvm/scummvm-sub059/framework/heap"
)

// Permanents maps host-owned objects to keys. A permanent object is written
// as its key and read back as the same object, so the table must hold the
// same entries when reading as when writing.
type Permanents struct {
	keys    map[heap.Value]heap.Value
	objects map[heap.Value]heap.Value
}

// NewPermanents returns an empty permanents table.
func NewPermanents() *Permanents {
	return &Permanents{
		keys:    map[heap.Value]heap.Value{},
		objects: map[heap.Value]heap.Value{},
	}
}

// PermanentsFromTable builds a permanents table from the object to key
// entries of t.
func PermanentsFromTable(t *heap.Table) (*Permanents, error) {
	p := NewPermanents()
	var err error
	t.Range(func(obj, key heap.Value) bool {
		err = p.Add(obj, key)
		return err == nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Add registers obj under key. Objects must have identity, so booleans and
// numbers are rejected. Keys must be booleans, numbers or strings. Each
// object and each key may only be added once, and no value may be both an
// object and a key.
func (p *Permanents) Add(obj, key heap.Value) error {
	switch obj.(type) {
	case nil, heap.Bool, heap.Number:
		return errors.Wrapf(ErrInvalidPermanent, "%v has no identity", heap.TypeOf(obj))
	}
	switch k := key.(type) {
	case heap.Bool, heap.String:
	case heap.Number:
		if math.IsNaN(float64(k)) {
			return errors.Wrap(ErrInvalidPermanent, "NaN key")
		}
	default:
		return errors.Wrapf(ErrInvalidPermanent, "%v key", heap.TypeOf(key))
	}
	if _, dup := p.keys[obj]; dup {
		return errors.Wrapf(ErrInvalidPermanent, "%v already added", heap.TypeOf(obj))
	}
	if _, dup := p.objects[key]; dup {
		return errors.Wrapf(ErrInvalidPermanent, "key %v already used", key)
	}
	if _, perm := p.keys[key]; perm || obj == key {
		return errors.Wrapf(ErrInvalidPermanent, "key %v is a permanent object", key)
	}
	if _, used := p.objects[obj]; used {
		return errors.Wrapf(ErrInvalidPermanent, "%v is a permanent key", obj)
	}
	p.keys[obj] = key
	p.objects[key] = obj
	return nil
}

// Key returns the key of obj.
func (p *Permanents) Key(obj heap.Value) (heap.Value, bool) {
	if p == nil || obj == nil {
		return nil, false
	}
	k, ok := p.keys[obj]
	return k, ok
}

// Lookup returns the object registered under key.
func (p *Permanents) Lookup(key heap.Value) (heap.Value, bool) {
	if p == nil || key == nil {
		return nil, false
	}
	o, ok := p.objects[key]
	return o, ok
}

// Len returns the number of entries.
func (p *Permanents) Len() int {
	if p == nil {
		return 0
	}
	return len(p.keys)
}

func (p *Permanents) clone() *Permanents {
	out := NewPermanents()
	if p != nil {
		for k, v := range p.keys {
			out.keys[k] = v
		}
		for k, v := range p.objects {
			out.objects[k] = v
		}
	}
	return out
}
