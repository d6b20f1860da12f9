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
	"bytes"
	"context"
	"fmt"

	"github.com/scummvm/scummvm-sub059/framework/heap"
)

// Stats counts the records of one Encode or Decode call.
type Stats struct {
	Objects    int   // Records that assigned a new index.
	References int   // Back-references to earlier objects.
	Immediates int   // Inline booleans and numbers.
	Permanents int   // Objects written or resolved by key.
	Hooks      int   // Objects written or rebuilt by constructor.
	Bytes      int64 // Stream bytes written or read.
}

func (s Stats) String() string {
	return fmt.Sprintf("%d objects, %d references, %d immediates, %d permanents, %d hooks in %d bytes",
		s.Objects, s.References, s.Immediates, s.Permanents, s.Hooks, s.Bytes)
}

// Persist returns the encoding of the graph reachable from root using the
// default options.
func Persist(ctx context.Context, rt heap.Runtime, root heap.Value, perms *Permanents) ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := NewEncoder(buf, rt, perms, DefaultOptions()).Encode(ctx, root); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unpersist rebuilds the graph encoded in data using the default options.
// perms must hold the same entries as when data was written.
func Unpersist(ctx context.Context, rt heap.Runtime, data []byte, perms *Permanents) (heap.Value, error) {
	return NewDecoder(bytes.NewReader(data), rt, perms, DefaultOptions()).Decode(ctx)
}
