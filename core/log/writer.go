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

package log

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Writer is a function that writes out a formatted log message.
type Writer func(text string, severity Severity)

// Std returns a Writer that writes to stdout if the message severity is less
// than an error, otherwise it writes to stderr.
func Std() Writer {
	return func(text string, severity Severity) {
		out := os.Stdout
		if severity >= Error {
			out = os.Stderr
		}
		fmt.Fprintln(out, text)
	}
}

// To returns a Writer that writes each message as a line to w.
func To(w io.Writer) Writer {
	return func(text string, severity Severity) { fmt.Fprintln(w, text) }
}

// Buffer returns a Writer that collects messages, and a function returning
// the collected messages joined by newlines.
func Buffer() (Writer, func() string) {
	lines := []string{}
	return func(text string, severity Severity) {
			lines = append(lines, text)
		}, func() string {
			return strings.Join(lines, "\n")
		}
}
