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
	"context"

	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/tag"
)

var (
	keyOperation = tag.MustNewKey("persist.operation")
	keyResult    = tag.MustNewKey("persist.result")
	objectCount  = stats.Int64(
		"scummvm/persist/objects",
		"Objects given an index in one persist or unpersist call.",
		stats.UnitDimensionless,
	)
	byteCount = stats.Int64(
		"scummvm/persist/bytes",
		"Bytes written or read in one persist or unpersist call.",
		stats.UnitBytes,
	)

	// ObjectCountView is a distribution of objects per call, by operation
	// and result.
	ObjectCountView = &view.View{
		Name:        "scummvm/persist/objects",
		Measure:     objectCount,
		Aggregation: view.Distribution(1, 10, 100, 1e3, 1e4, 1e5, 1e6),
		Description: "objects per call, by operation and result",
		TagKeys:     []tag.Key{keyOperation, keyResult},
	}
	// ByteCountView is a distribution of stream sizes, by operation and
	// result.
	ByteCountView = &view.View{
		Name:        "scummvm/persist/bytes",
		Measure:     byteCount,
		Aggregation: view.Distribution(1<<6, 1<<10, 1<<14, 1<<18, 1<<22, 1<<26),
		Description: "stream bytes per call, by operation and result",
		TagKeys:     []tag.Key{keyOperation, keyResult},
	}
	// CallCountView is a counter of calls, by operation and result.
	CallCountView = &view.View{
		Name:        "scummvm/persist/calls",
		Measure:     byteCount,
		Aggregation: view.Count(),
		Description: "calls, by operation and result",
		TagKeys:     []tag.Key{keyOperation, keyResult},
	}
)

// Views lists every view exported by this package.
var Views = []*view.View{ObjectCountView, ByteCountView, CallCountView}

func recordCall(ctx context.Context, op string, s Stats, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	stats.RecordWithTags(ctx, []tag.Mutator{
		tag.Upsert(keyOperation, op),
		tag.Upsert(keyResult, result),
	}, objectCount.M(int64(s.Objects)), byteCount.M(s.Bytes))
}
