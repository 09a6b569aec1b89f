// Copyright 2026 LinkedIn Corporation. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package control implements the Control Message Interpreter of spec.md
// §4.4: a dispatch table from ControlMessageType to the ingestor's
// reaction. StartOfSegment/EndOfSegment are intentionally not dispatched
// here — the Partition Ingestor forwards those straight to the DIV
// validator and never involves this package for them.
package control

import "github.com/linkedin/venice/pkg/kme"

// Hooks are the ingestor-side reactions the interpreter invokes. A hook
// left nil is simply skipped, so callers (including tests) only wire the
// ones relevant to them.
type Hooks struct {
	OnStartOfPush            func(c *kme.Control)
	OnEndOfPush              func()
	OnUpstreamSwitch         func(kme.UpstreamSwitch)
	OnStartOfIncrementalPush func(label string)
	OnEndOfIncrementalPush   func(label string)
}

// Interpreter dispatches control messages to Hooks.
type Interpreter struct {
	hooks Hooks
}

// New returns an Interpreter that calls into hooks.
func New(hooks Hooks) *Interpreter {
	return &Interpreter{hooks: hooks}
}

// Dispatch applies c's effect per the spec.md §4.4 table. StartOfSegment
// and EndOfSegment are no-ops here by design.
func (in *Interpreter) Dispatch(c *kme.Control) {
	switch c.Type {
	case kme.ControlStartOfPush:
		if in.hooks.OnStartOfPush != nil {
			in.hooks.OnStartOfPush(c)
		}
	case kme.ControlEndOfPush:
		if in.hooks.OnEndOfPush != nil {
			in.hooks.OnEndOfPush()
		}
	case kme.ControlStartOfBufferReplay, kme.ControlTopicSwitch:
		if in.hooks.OnUpstreamSwitch != nil {
			if sw, ok := c.AsUpstreamSwitch(); ok {
				in.hooks.OnUpstreamSwitch(sw)
			}
		}
	case kme.ControlStartOfIncrementalPush:
		if in.hooks.OnStartOfIncrementalPush != nil {
			in.hooks.OnStartOfIncrementalPush(c.IncrementalPushVersion)
		}
	case kme.ControlEndOfIncrementalPush:
		if in.hooks.OnEndOfIncrementalPush != nil {
			in.hooks.OnEndOfIncrementalPush(c.IncrementalPushVersion)
		}
	case kme.ControlStartOfSegment, kme.ControlEndOfSegment:
		// DIV-only; the Partition Ingestor calls validator.Validate
		// directly for these and never reaches this dispatcher.
	}
}
