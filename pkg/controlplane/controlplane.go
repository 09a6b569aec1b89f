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

// Package controlplane models the controller as an external collaborator
// (spec.md §1): it issues version lifecycle events but never drives
// per-record ordering. StartOfPush and EndOfPush may arrive directly from
// the controller (outside the version topic); every other control
// message arrives embedded in the log, via pkg/control.
package controlplane

import "github.com/linkedin/venice/pkg/kme"

// VersionLifecycleSource is the narrow surface the ingestion core consumes
// from the controller.
type VersionLifecycleSource interface {
	// Events delivers StartOfPush/EndOfPush events the controller chooses
	// to emit directly rather than through the version topic. The
	// channel is closed when the source is done.
	Events(storeName string, version int) <-chan LifecycleEvent
}

// LifecycleEvent pairs a partition with the control message the
// controller issued for it.
type LifecycleEvent struct {
	Partition int
	Control   kme.Control
}
