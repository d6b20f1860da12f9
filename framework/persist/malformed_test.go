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
	"math"
	"testing"

	"github.com/scummvm/scummvm-sub059/core/assert"
	"github.com/scummvm/scummvm-sub059/core/log"
	"github.com/scummvm/scummvm-sub059/framework/heap"
	"github.com/scummvm/scummvm-sub059/framework/heap/heaptest"
	"github.com/scummvm/scummvm-sub059/framework/persist"
)

func TestTruncatedStreams(t *testing.T) {
	ctx := log.Testing(t)
	rt := counterRuntime()
	perms := persist.NewPermanents()
	assert.For(ctx, "add print").ThatError(perms.Add(printFn, heap.String("print"))).Succeeded()

	co, inc := suspended()
	withMeta := table(heap.String("v"), heap.Number(math.Inf(-1)))
	withMeta.Meta = table(heap.String("__index"), withMeta)
	root := table(
		heap.String("co"), co,
		heap.String("inc"), inc,
		heap.String("meta"), withMeta,
		heap.String("print"), printFn,
		heap.String("tmpl"), sampleTemplate(),
		heap.String("blob"), &heap.Opaque{Data: []byte{1, 2, 3}, Meta: table(heap.String("__persist"), heap.Bool(true))},
		heap.Number(1), heap.Bool(false),
	)
	data, err := persist.Persist(ctx, rt, root, perms)
	if !assert.For(ctx, "persist").ThatError(err).Succeeded() {
		return
	}
	_, err = persist.Unpersist(ctx, rt, data, perms)
	assert.For(ctx, "full stream").ThatError(err).Succeeded()

	for n := 0; n < len(data); n++ {
		got, err := persist.Unpersist(ctx, rt, data[:n], perms)
		if !assert.For(ctx, "prefix %d of %d", n, len(data)).ThatError(err).HasCause(persist.ErrTruncatedStream) {
			break
		}
		assert.For(ctx, "prefix %d value", n).That(got).IsNil()
	}
}

func TestMalformedStreams(t *testing.T) {
	ctx := log.Testing(t)
	rt := heaptest.NewRuntime()
	for _, test := range []struct {
		name  string
		data  *stream
		cause error
	}{
		{"unknown tag", newStream().U8(7), persist.ErrMalformedTag},
		{"index out of sequence", newStream().Str(2, "x"), persist.ErrMalformedTag},
		{"unknown reference", newStream().Ref(3), persist.ErrMalformedTag},
		{"immediate string", newStream().U8(2).I32(int32(heap.StringType)), persist.ErrMalformedTag},
		{"real bool", newStream().Real(1, heap.BoolType).U8(1), persist.ErrMalformedTag},
		{"unknown type", newStream().Real(1, heap.Type(42)), persist.ErrMalformedTag},
		{"nil table value", newStream().Real(1, heap.TableType).U8(0).Nil().Str(2, "k").Nil(), persist.ErrMalformedTag},
		{"nan table key", newStream().Real(1, heap.TableType).U8(0).Nil().Number(math.NaN()).Bool(true).Nil(), persist.ErrMalformedTag},
		{"metatable string", newStream().Real(1, heap.TableType).U8(0).Str(2, "meta").Nil(), persist.ErrMalformedTag},
		{"negative count", newStream().Real(1, heap.CoroutineType).I32(-1), persist.ErrMalformedTag},
		{"closure template string", newStream().Real(1, heap.FunctionType).U8(0).Str(2, "x"), persist.ErrMalformedTag},
		{"closure template self", newStream().Real(1, heap.FunctionType).U8(1).Ref(1), persist.ErrMalformedTag},
		{"pending permanent", newStream().Permanent(1).Ref(1), persist.ErrMalformedTag},
		{"missing permanent", newStream().Permanent(1).Str(2, "missing"), persist.ErrPermanentKeyNotFound},
		{"raw pointer", newStream().Real(1, heap.PointerType), persist.ErrUnsupportedType},
	} {
		got, err := persist.Unpersist(ctx, rt, test.data.Data(), nil)
		assert.For(ctx, test.name).ThatError(err).HasCause(test.cause)
		assert.For(ctx, "%s: no result", test.name).That(got).IsNil()
	}
}

func TestBlobLimit(t *testing.T) {
	ctx := log.Testing(t)
	rt := heaptest.NewRuntime()
	data := newStream().Str(1, "hello").Data()
	for _, test := range []struct {
		limit uint32
		cause error
	}{
		{4, persist.ErrMalformedTag},
		{5, nil},
		{0, nil},
	} {
		opts := persist.DefaultOptions()
		opts.MaxBlobSize = test.limit
		got, err := persist.NewDecoder(bytes.NewReader(data), rt, nil, opts).Decode(ctx)
		if test.cause != nil {
			assert.For(ctx, "limit %d", test.limit).ThatError(err).HasCause(test.cause)
			continue
		}
		assert.For(ctx, "limit %d", test.limit).ThatError(err).Succeeded()
		assert.For(ctx, "limit %d value", test.limit).That(got).Equals(heap.String("hello"))
	}
}

func TestUnpersistablePointer(t *testing.T) {
	ctx := log.Testing(t)
	_, err := persist.Persist(ctx, heaptest.NewRuntime(), table(heap.String("p"), heap.Pointer(0x1000)), nil)
	assert.For(ctx, "pointer").ThatError(err).HasCause(persist.ErrUnsupportedType)
}
