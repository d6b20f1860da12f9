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
	"strings"
	"time"
)

// Style provides customization for printing messages.
type Style struct {
	Name      string // Name of the style.
	Timestamp bool   // If true, the timestamp will be printed if part of the message.
	Tag       bool   // If true, the tag will be printed if part of the message.
	Trace     bool   // If true, the trace will be printed if part of the message.
	Long      bool   // If true, the severity is printed in full rather than as one letter.
	Values    bool   // If true, the values are printed one per line after the text.
}

var (
	// Brief is a style that only prints the text and short severity of the
	// message.
	Brief = Style{Name: "brief"}

	// Normal is a style that prints the timestamp, tag, trace and short
	// severity.
	Normal = Style{Name: "normal", Timestamp: true, Tag: true, Trace: true}

	// Detailed is a style that prints everything, including the values.
	Detailed = Style{Name: "detailed", Timestamp: true, Tag: true, Trace: true, Long: true, Values: true}
)

func (s Style) String() string { return s.Name }

// Print returns the message msg printed with the style s.
func (s Style) Print(msg *Message) string {
	m := make([]string, 0, 6)
	if s.Timestamp && !msg.Time.IsZero() {
		m = append(m, HHMMSSsss(msg.Time))
	}
	if s.Long {
		m = append(m, msg.Severity.String()+":")
	} else {
		m = append(m, msg.Severity.Short()+":")
	}
	if s.Trace && len(msg.Trace) > 0 {
		m = append(m, fmt.Sprintf("[%s]", strings.Join(msg.Trace, "->")))
	}
	if s.Tag && msg.Tag != "" {
		m = append(m, fmt.Sprintf("<%s>", msg.Tag))
	}
	m = append(m, msg.Text)
	out := strings.Join(m, " ")
	if s.Values {
		for _, v := range msg.Values {
			out += fmt.Sprintf("\n  %v: %v", v.Name, v.Value)
		}
	}
	return out
}

// Handler returns a new Handler that prints each message with the style s
// and passes the text to w.
func (s Style) Handler(w Writer) Handler {
	return NewHandler(func(msg *Message) { w(s.Print(msg), msg.Severity) }, nil)
}

// HHMMSSsss prints the time as a HH:MM:SS.sss
func HHMMSSsss(t time.Time) string {
	return fmt.Sprintf("%.2d:%.2d:%.2d.%.3d", t.Hour(), t.Minute(), t.Second(), t.Nanosecond()/1e6)
}
