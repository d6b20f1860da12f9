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
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Policy decides whether a value with no persistence hook may be written
// literally.
type Policy int

const (
	// Allow writes the value's contents.
	Allow Policy = iota
	// Deny fails with ErrUnpersistable.
	Deny
)

func (p Policy) String() string {
	if p == Deny {
		return "deny"
	}
	return "allow"
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (p *Policy) UnmarshalYAML(n *yaml.Node) error {
	var s string
	if err := n.Decode(&s); err != nil {
		return err
	}
	switch s {
	case "allow":
		*p = Allow
	case "deny":
		*p = Deny
	default:
		return errors.Errorf("line %d: unknown policy %q", n.Line, s)
	}
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (p Policy) MarshalYAML() (interface{}, error) { return p.String(), nil }

// Options control an Encoder or Decoder.
type Options struct {
	// Tables is applied to tables without a persistence hook.
	Tables Policy `yaml:"tables"`
	// Opaque is applied to opaque records without a persistence hook.
	Opaque Policy `yaml:"opaque"`
	// HookField is the metatable field holding the persistence hook.
	HookField string `yaml:"hook_field"`
	// KeepGlobalEnv writes closure environments that are the runtime's
	// globals instead of writing nil.
	KeepGlobalEnv bool `yaml:"keep_global_env"`
	// MaxBlobSize is the largest string or byte payload a Decoder accepts.
	// Zero means no limit.
	MaxBlobSize uint32 `yaml:"max_blob_size"`
}

// DefaultOptions returns the options used by Persist and Unpersist.
func DefaultOptions() Options {
	return Options{
		Tables:      Allow,
		Opaque:      Deny,
		HookField:   "__persist",
		MaxBlobSize: 256 << 20,
	}
}

// LoadOptions reads YAML options from r. Fields missing from r keep their
// default values.
func LoadOptions(r io.Reader) (Options, error) {
	opts := DefaultOptions()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&opts); err != nil && err != io.EOF {
		return Options{}, errors.Wrap(err, "persist options")
	}
	if opts.HookField == "" {
		return Options{}, errors.New("persist options: hook_field must not be empty")
	}
	return opts, nil
}
