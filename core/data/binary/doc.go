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

// Package binary holds the primitive value reader and writer interfaces used
// by the heap persister, and the platform independent number encoding.
//
// Readers and writers are sticky: the first failure is remembered, every
// later call is a no-op returning zero values, and Error reports the failure.
// Callers therefore check Error once per logical record rather than after
// every primitive.
package binary
