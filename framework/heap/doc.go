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

// Package heap holds the object model of a scripting runtime heap: the value
// kinds a persister walks, and the Runtime through which it calls back into
// the host.
//
// Values with reference identity (tables, closures, templates, cells,
// coroutines and opaque records) are pointers. Booleans, numbers and strings
// are plain values compared by content, and nil is the nil Value.
package heap
