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

// Package status is the ingestion core's user-visible surface from
// spec.md §7: a per-partition ReplicaStatus, a push-status stream, and
// (via pkg/metrics) the named counters.
package status

import "sync"

// ReplicaStatus is one partition replica's lifecycle state, as reported
// to the controller (spec.md §7).
type ReplicaStatus int

const (
	Bootstrapping ReplicaStatus = iota
	Online
	Error
	Completed
)

func (s ReplicaStatus) String() string {
	switch s {
	case Bootstrapping:
		return "BOOTSTRAPPING"
	case Online:
		return "ONLINE"
	case Error:
		return "ERROR"
	case Completed:
		return "COMPLETED"
	default:
		return "UNKNOWN"
	}
}

// PushStatus is one event in the push-status stream (spec.md §7).
type PushStatus int

const (
	Started PushStatus = iota
	EndOfPushReceived
	PushCompleted
	PushError
)

func (p PushStatus) String() string {
	switch p {
	case Started:
		return "STARTED"
	case EndOfPushReceived:
		return "END_OF_PUSH_RECEIVED"
	case PushCompleted:
		return "COMPLETED"
	case PushError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Reporter publishes ReplicaStatus and PushStatus transitions and lets a
// caller (a test, or the controller-facing reporting loop) observe the
// current value and subscribe to future ones (Subscribe).
type Reporter struct {
	mu         sync.Mutex
	replica    ReplicaStatus
	push       PushStatus
	pushLabels map[string]bool // in-flight incremental-push labels, see SPEC_FULL.md §3.1
	listeners  []chan struct{ Replica ReplicaStatus; Push PushStatus }
}

// NewReporter returns a Reporter starting in Bootstrapping/Started.
func NewReporter() *Reporter {
	return &Reporter{pushLabels: make(map[string]bool)}
}

func (r *Reporter) SetReplicaStatus(s ReplicaStatus) {
	r.mu.Lock()
	r.replica = s
	r.notifyLocked()
	r.mu.Unlock()
}

func (r *Reporter) SetPushStatus(p PushStatus) {
	r.mu.Lock()
	r.push = p
	r.notifyLocked()
	r.mu.Unlock()
}

func (r *Reporter) ReplicaStatus() ReplicaStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.replica
}

func (r *Reporter) PushStatus() PushStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.push
}

// BeginIncrementalPush marks label as in-flight (StartOfIncrementalPush).
func (r *Reporter) BeginIncrementalPush(label string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pushLabels[label] = true
}

// CompleteIncrementalPush closes label (EndOfIncrementalPush) and reports
// whether it had been open.
func (r *Reporter) CompleteIncrementalPush(label string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	open := r.pushLabels[label]
	delete(r.pushLabels, label)
	return open
}

// Subscribe returns a channel that receives the current (replica, push)
// pair after every subsequent transition. A notification is dropped when
// the channel's buffer of 16 is full.
func (r *Reporter) Subscribe() <-chan struct{ Replica ReplicaStatus; Push PushStatus } {
	ch := make(chan struct{ Replica ReplicaStatus; Push PushStatus }, 16)
	r.mu.Lock()
	r.listeners = append(r.listeners, ch)
	r.mu.Unlock()
	return ch
}

func (r *Reporter) notifyLocked() {
	for _, ch := range r.listeners {
		select {
		case ch <- struct {
			Replica ReplicaStatus
			Push    PushStatus
		}{r.replica, r.push}:
		default:
		}
	}
}
