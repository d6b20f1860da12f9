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

import "context"

// Runtime is the host interpreter as seen by code that walks its heap.
type Runtime interface {
	// Globals returns the default environment table.
	Globals() *Table
	// Call invokes the function fn with args and returns its results.
	Call(ctx context.Context, fn Value, args ...Value) ([]Value, error)
}
