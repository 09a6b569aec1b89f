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

package statichelix_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/linkedin/venice/pkg/membership"
	"github.com/linkedin/venice/pkg/membership/statichelix"
)

func TestSubscribeDefaultsToFollower(t *testing.T) {
	o := statichelix.New()
	role, sub, err := o.Subscribe("store_v1", 0)
	require.NoError(t, err)
	defer sub.Close()
	require.Equal(t, membership.RoleFollower, role)
}

func TestAssignBeforeSubscribeIsObservedAsInitialRole(t *testing.T) {
	o := statichelix.New()
	o.Assign("store_v1", 0, membership.RoleLeader)

	role, sub, err := o.Subscribe("store_v1", 0)
	require.NoError(t, err)
	defer sub.Close()
	require.Equal(t, membership.RoleLeader, role)
}

func TestAssignNotifiesExistingSubscriber(t *testing.T) {
	o := statichelix.New()
	_, sub, err := o.Subscribe("store_v1", 0)
	require.NoError(t, err)
	defer sub.Close()

	o.Assign("store_v1", 0, membership.RoleLeader)

	select {
	case tr := <-sub.Transitions():
		require.Equal(t, membership.RoleLeader, tr.Role)
		require.Equal(t, "store_v1", tr.Resource)
		require.Equal(t, 0, tr.Partition)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for transition")
	}
}

func TestAssignOnlyNotifiesMatchingPartition(t *testing.T) {
	o := statichelix.New()
	_, sub0, err := o.Subscribe("store_v1", 0)
	require.NoError(t, err)
	defer sub0.Close()
	_, sub1, err := o.Subscribe("store_v1", 1)
	require.NoError(t, err)
	defer sub1.Close()

	o.Assign("store_v1", 0, membership.RoleLeader)

	select {
	case tr := <-sub0.Transitions():
		require.Equal(t, membership.RoleLeader, tr.Role)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for transition on partition 0")
	}

	select {
	case <-sub1.Transitions():
		t.Fatal("partition 1's subscriber must not see partition 0's transition")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestAssignCollapsesBacklogToLatestRole(t *testing.T) {
	o := statichelix.New()
	_, sub, err := o.Subscribe("store_v1", 0)
	require.NoError(t, err)
	defer sub.Close()

	// Saturate the subscriber's buffered channel (capacity 8) with
	// alternating roles without draining, then assign one more: once the
	// channel is full Assign drops the backlog, so a slow subscriber reads
	// only a few transitions and the last one is the freshest role.
	for i := 0; i < 10; i++ {
		role := membership.RoleFollower
		if i%2 == 0 {
			role = membership.RoleLeader
		}
		o.Assign("store_v1", 0, role)
	}
	o.Assign("store_v1", 0, membership.RoleLeader)

	var last membership.Transition
	drained := 0
drain:
	for {
		select {
		case tr := <-sub.Transitions():
			last = tr
			drained++
		default:
			break drain
		}
	}
	require.Greater(t, drained, 0)
	require.Equal(t, membership.RoleLeader, last.Role)
}

func TestMultipleResourcesAreIndependent(t *testing.T) {
	o := statichelix.New()
	_, subA, err := o.Subscribe("storeA_v1", 0)
	require.NoError(t, err)
	defer subA.Close()
	_, subB, err := o.Subscribe("storeB_v1", 0)
	require.NoError(t, err)
	defer subB.Close()

	o.Assign("storeA_v1", 0, membership.RoleLeader)

	select {
	case <-subB.Transitions():
		t.Fatal("a different resource's subscriber must not see this transition")
	case <-time.After(50 * time.Millisecond):
	}
}
