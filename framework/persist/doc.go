// Copyright (C) 2017 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package persist writes a heap object graph to a byte stream and rebuilds
// an identical graph from it.
//
// Every value is written as a record in one of three forms. A reference
// type seen for the first time is written as:
//
//	tag   uint8  // 1
//	index uint32 // serial index of the object, starting at 1
//	type  int32  // heap.Type, or 101 for a permanent reference
//	...payload...
//
// Later occurrences of the same object, and nil, are written as:
//
//	tag   uint8  // 0
//	index uint32 // index of an earlier object, or 0 for nil
//
// Booleans and numbers have no identity and are written inline as:
//
//	tag  uint8 // 2
//	type int32
//	...payload...
//
// All integers are little-endian. Payloads that refer to other values
// contain nested records, so a stream is a depth first walk of the graph.
// Both directions run from an explicit work stack rather than recursion,
// so graph depth is bounded by memory alone.
//
// Objects in the Permanents table are written as their key instead of
// their contents and are resolved to the same host object when read.
// Tables and opaque records may replace their contents with a constructor
// function through the hook field of their metatable.
package persist
