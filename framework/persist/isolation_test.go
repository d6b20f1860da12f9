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
	"golang.org/x/sync/errgroup"
)

// Calls share no state, so concurrent encodings of one graph must match a
// sequential encoding byte for byte.
func TestConcurrentCalls(t *testing.T) {
	ctx := log.Testing(t)
	rt := counterRuntime()
	perms := persist.NewPermanents()
	assert.For(ctx, "add print").ThatError(perms.Add(printFn, heap.String("print"))).Succeeded()

	co, inc := suspended()
	shared := table(heap.String("x"), heap.Number(1))
	root := table(
		heap.String("co"), co,
		heap.String("inc"), inc,
		heap.String("a"), shared,
		heap.String("b"), shared,
		heap.String("print"), printFn,
	)
	reference, err := persist.Persist(ctx, rt, root, perms)
	if !assert.For(ctx, "reference").ThatError(err).Succeeded() {
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < 8; i++ {
		i := i
		g.Go(func() error {
			return persistAndCompare(gctx, i, rt, root, perms, reference)
		})
	}
	assert.For(ctx, "concurrent calls").ThatError(g.Wait()).Succeeded()
}

func persistAndCompare(ctx context.Context, i int, rt heap.Runtime, root heap.Value, perms *persist.Permanents, reference []byte) error {
	data, err := persist.Persist(ctx, rt, root, perms)
	if err != nil {
		return errors.Wrapf(err, "worker %d persist", i)
	}
	if !bytes.Equal(data, reference) {
		return errors.Errorf("worker %d wrote %d bytes that differ from the reference", i, len(data))
	}
	got, err := persist.Unpersist(ctx, rt, data, perms)
	if err != nil {
		return errors.Wrapf(err, "worker %d unpersist", i)
	}
	return errors.Wrapf(heaptest.Isomorphic(root, got), "worker %d", i)
}
