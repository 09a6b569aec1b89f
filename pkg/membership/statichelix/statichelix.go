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

// Package statichelix is a reference membership.RoleOracle for local and
// integration testing: role assignments are pushed in by the test harness
// (Assign) rather than discovered from a real Helix cluster manager. The
// registry shape is grounded on the corpus's pkg/kademlia
// RoutingTable: a small, mutex-guarded registry keyed by resource that
// fans updates out to subscribers.
package statichelix

import (
	"sync"

	"github.com/linkedin/venice/pkg/membership"
)

type key struct {
	resource  string
	partition int
}

// Oracle is an in-process, test-controlled RoleOracle.
type Oracle struct {
	mu    sync.Mutex
	roles map[key]membership.Role
	subs  map[key][]*subscription
}

// New returns an Oracle with every (resource, partition) defaulting to
// FOLLOWER until Assign is called.
func New() *Oracle {
	return &Oracle{
		roles: make(map[key]membership.Role),
		subs:  make(map[key][]*subscription),
	}
}

type subscription struct {
	ch     chan membership.Transition
	closed bool
}

func (s *subscription) Transitions() <-chan membership.Transition { return s.ch }

// Close does nothing: the channel is not closed, and Assign keeps
// delivering to the subscription.
func (s *subscription) Close() {}

// Subscribe implements membership.RoleOracle.
func (o *Oracle) Subscribe(resource string, partition int) (membership.Role, membership.Subscription, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	k := key{resource, partition}
	sub := &subscription{ch: make(chan membership.Transition, 8)}
	o.subs[k] = append(o.subs[k], sub)
	return o.roles[k], sub, nil
}

// Assign sets the role for a (resource, partition) and notifies every
// subscriber. Intended for use by tests driving leader failover scenarios
// (spec.md §8 scenario 4).
func (o *Oracle) Assign(resource string, partition int, role membership.Role) {
	o.mu.Lock()
	defer o.mu.Unlock()
	k := key{resource, partition}
	o.roles[k] = role
	for _, sub := range o.subs[k] {
		if sub.closed {
			continue
		}
		select {
		case sub.ch <- membership.Transition{Resource: resource, Partition: partition, Role: role}:
		default:
			// A slow subscriber collapses surplus transitions to the
			// latest, per spec.md §7's RoleTransitionStorm row: drain
			// the channel and push the freshest role.
			drain(sub.ch)
			sub.ch <- membership.Transition{Resource: resource, Partition: partition, Role: role}
		}
	}
}

func drain(ch chan membership.Transition) {
	for {
		select {
		case <-ch:
		default:
			return
		}
	}
}
