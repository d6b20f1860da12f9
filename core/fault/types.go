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

// Package fault holds the error constant type shared by the rest of the
// repository.
package fault

import "github.com/pkg/errors"

// Const is the type for constant error values.
// Packages declare their failure kinds as Const values so that callers can
// compare the cause of a wrapped error with ==.
type Const string

// Error implements error for Const returning the string value of the const.
func (e Const) Error() string { return string(e) }

// Is reports whether the root cause of err is the constant e.
func (e Const) Is(err error) bool {
	return err != nil && errors.Cause(err) == error(e)
}

// First returns the first non-nil error in the list.
func First(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
