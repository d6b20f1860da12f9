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
	"testing"

	"github.com/pkg/errors"
	"github.com/scummvm/scummvm-sub059/core/assert"
	"github.com/scummvm/scummvm-sub059/core/log"
	"github.com/scummvm/scummvm-sub059/framework/heap"
	"github.com/scummvm/scummvm-sub059/framework/heap/heaptest"
	"github.com/scummvm/scummvm-sub059/framework/persist"
)

type impls map[string]heaptest.Impl

func returns(v heap.Value) heaptest.Impl {
	return func(context.Context, heap.Runtime, *heap.Closure, []heap.Value) ([]heap.Value, error) {
		return []heap.Value{v}, nil
	}
}

func fails(msg string) heaptest.Impl {
	return func(context.Context, heap.Runtime, *heap.Closure, []heap.Value) ([]heap.Value, error) {
		return nil, errors.New(msg)
	}
}

// hookRuntime defines "factory", a persistence hook returning a "rebuild"
// constructor that captures the n field of the hooked table, plus any
// overrides.
func hookRuntime(overrides impls) *heaptest.Runtime {
	rt := heaptest.NewRuntime()
	rt.Define("factory", func(ctx context.Context, rt heap.Runtime, self *heap.Closure, args []heap.Value) ([]heap.Value, error) {
		obj := args[0].(*heap.Table)
		return []heap.Value{heaptest.Function("rebuild", heap.NewCell(obj.Get(heap.String("n"))))}, nil
	})
	rt.Define("rebuild", func(ctx context.Context, rt heap.Runtime, self *heap.Closure, args []heap.Value) ([]heap.Value, error) {
		t := table(heap.String("n"), self.Upvalues[0].Get(), heap.String("rebuilt"), heap.Bool(true))
		return []heap.Value{t}, nil
	})
	for name, impl := range overrides {
		rt.Define(name, impl)
	}
	return rt
}

func hooked(hook heap.Value) *heap.Table {
	obj := table(heap.String("n"), heap.Number(5), heap.String("junk"), heap.String("not written"))
	obj.Meta = table(heap.String("__persist"), hook)
	return obj
}

func TestHookFidelity(t *testing.T) {
	ctx := log.Testing(t)
	rt := hookRuntime(nil)
	obj := hooked(heaptest.Function("factory"))
	root := table(heap.String("a"), obj, heap.String("b"), obj)

	buf := &bytes.Buffer{}
	e := persist.NewEncoder(buf, rt, nil, persist.DefaultOptions())
	assert.For(ctx, "encode").ThatError(e.Encode(ctx, root)).Succeeded()
	assert.For(ctx, "encode hooks").That(e.Stats().Hooks).Equals(1)
	assert.For(ctx, "contents not written").That(bytesContain(buf.Bytes(), "not written")).Equals(false)

	d := persist.NewDecoder(buf, rt, nil, persist.DefaultOptions())
	got, err := d.Decode(ctx)
	assert.For(ctx, "decode").ThatError(err).Succeeded()
	assert.For(ctx, "decode hooks").That(d.Stats().Hooks).Equals(1)

	out := got.(*heap.Table)
	a := out.Get(heap.String("a")).(*heap.Table)
	assert.For(ctx, "shared").That(out.Get(heap.String("b"))).Same(a)
	assert.For(ctx, "n").That(a.Get(heap.String("n"))).Equals(heap.Number(5))
	assert.For(ctx, "rebuilt").That(a.Get(heap.String("rebuilt"))).Equals(heap.Bool(true))
	assert.For(ctx, "junk").That(a.Get(heap.String("junk"))).IsNil()
}

func TestHookedOpaque(t *testing.T) {
	ctx := log.Testing(t)
	rt := hookRuntime(impls{
		"opaqueFactory": returns(heaptest.Function("fresh")),
		"fresh":         returns(&heap.Opaque{Data: []byte("fresh")}),
	})
	o := &heap.Opaque{
		Data: []byte("stale"),
		Meta: table(heap.String("__persist"), heaptest.Function("opaqueFactory")),
	}
	got, err := roundTrip(ctx, rt, o, nil)
	assert.For(ctx, "err").ThatError(err).Succeeded()
	assert.For(ctx, "data").ThatString(got.(*heap.Opaque).Data).Equals("fresh")
}

func TestHookFailures(t *testing.T) {
	ctx := log.Testing(t)
	for _, test := range []struct {
		name     string
		hook     heap.Value
		encodeRT impls
		decodeRT impls
		cause    error
		onDecode bool
	}{
		{name: "marked false", hook: heap.Bool(false), cause: persist.ErrUnpersistable},
		{name: "hook is a string", hook: heap.String("nope"), cause: persist.ErrUnpersistable},
		{name: "hook raises", hook: heaptest.Function("factory"),
			encodeRT: impls{"factory": fails("boom")}, cause: persist.ErrHookConstructorFailed},
		{name: "hook returns a number", hook: heaptest.Function("factory"),
			encodeRT: impls{"factory": returns(heap.Number(1))}, cause: persist.ErrHookConstructorFailed},
		{name: "constructor raises", hook: heaptest.Function("factory"),
			decodeRT: impls{"rebuild": fails("boom")}, cause: persist.ErrHookConstructorFailed, onDecode: true},
		{name: "constructor returns a string", hook: heaptest.Function("factory"),
			decodeRT: impls{"rebuild": returns(heap.String("x"))}, cause: persist.ErrHookConstructorFailed, onDecode: true},
		{name: "constructor returns nothing", hook: heaptest.Function("factory"),
			decodeRT: impls{"rebuild": returns(nil)}, cause: persist.ErrHookConstructorFailed, onDecode: true},
	} {
		root := table(heap.String("obj"), hooked(test.hook))
		data, err := persist.Persist(ctx, hookRuntime(test.encodeRT), root, nil)
		if !test.onDecode {
			assert.For(ctx, "%s: persist", test.name).ThatError(err).HasCause(test.cause)
			continue
		}
		assert.For(ctx, "%s: persist", test.name).ThatError(err).Succeeded()
		got, err := persist.Unpersist(ctx, hookRuntime(test.decodeRT), data, nil)
		assert.For(ctx, "%s: unpersist", test.name).ThatError(err).HasCause(test.cause)
		assert.For(ctx, "%s: no result", test.name).That(got).IsNil()
	}
}

func TestHookRuntimeErrorKept(t *testing.T) {
	ctx := log.Testing(t)
	hostErr := errors.New("host refused")
	raise := func(context.Context, heap.Runtime, *heap.Closure, []heap.Value) ([]heap.Value, error) {
		return nil, hostErr
	}
	root := table(heap.String("obj"), hooked(heaptest.Function("factory")))

	_, err := persist.Persist(ctx, hookRuntime(impls{"factory": raise}), root, nil)
	assert.For(ctx, "hook cause").ThatError(err).HasCause(persist.ErrHookConstructorFailed)
	assert.For(ctx, "hook is host").That(errors.Is(err, hostErr)).Equals(true)
	assert.For(ctx, "hook is failed").That(errors.Is(err, persist.ErrHookConstructorFailed)).Equals(true)
	assert.For(ctx, "hook text").ThatString(err.Error()).Contains("host refused")

	data, err := persist.Persist(ctx, hookRuntime(nil), root, nil)
	assert.For(ctx, "persist").ThatError(err).Succeeded()
	_, err = persist.Unpersist(ctx, hookRuntime(impls{"rebuild": raise}), data, nil)
	assert.For(ctx, "constructor cause").ThatError(err).HasCause(persist.ErrHookConstructorFailed)
	assert.For(ctx, "constructor is host").That(errors.Is(err, hostErr)).Equals(true)
}

func TestHookedSelfReference(t *testing.T) {
	ctx := log.Testing(t)
	rt := hookRuntime(impls{
		"factory": func(ctx context.Context, rt heap.Runtime, self *heap.Closure, args []heap.Value) ([]heap.Value, error) {
			return []heap.Value{heaptest.Function("rebuild", heap.NewCell(args[0]))}, nil
		},
	})
	data, err := persist.Persist(ctx, rt, hooked(heaptest.Function("factory")), nil)
	assert.For(ctx, "persist").ThatError(err).Succeeded()
	_, err = persist.Unpersist(ctx, rt, data, nil)
	assert.For(ctx, "unpersist").ThatError(err).HasCause(persist.ErrMalformedTag)
}

func TestPolicies(t *testing.T) {
	ctx := log.Testing(t)
	rt := heaptest.NewRuntime()
	o := &heap.Opaque{Data: []byte{1, 2, 3}}

	_, err := persist.Persist(ctx, rt, o, nil)
	assert.For(ctx, "opaque denied").ThatError(err).HasCause(persist.ErrUnpersistable)

	opts := persist.DefaultOptions()
	opts.Opaque = persist.Allow
	buf := &bytes.Buffer{}
	assert.For(ctx, "opaque allowed").ThatError(persist.NewEncoder(buf, rt, nil, opts).Encode(ctx, o)).Succeeded()
	got, err := persist.NewDecoder(buf, rt, nil, opts).Decode(ctx)
	assert.For(ctx, "opaque decode").ThatError(err).Succeeded()
	assert.For(ctx, "opaque").ThatError(heaptest.Isomorphic(o, got)).Succeeded()

	opts = persist.DefaultOptions()
	opts.Tables = persist.Deny
	plain := heap.NewTable()
	marked := heap.NewTable()
	marked.Meta = table(heap.String("__persist"), heap.Bool(true))
	marked.Meta.Meta = marked.Meta
	err = persist.NewEncoder(&bytes.Buffer{}, rt, nil, opts).Encode(ctx, plain)
	assert.For(ctx, "table denied").ThatError(err).HasCause(persist.ErrUnpersistable)
	err = persist.NewEncoder(&bytes.Buffer{}, rt, nil, opts).Encode(ctx, marked)
	assert.For(ctx, "marked table").ThatError(err).Succeeded()
}
