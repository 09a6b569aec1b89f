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

package status_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/linkedin/venice/pkg/status"
)

func TestNewReporterStartsBootstrappingAndStarted(t *testing.T) {
	r := status.NewReporter()
	require.Equal(t, status.Bootstrapping, r.ReplicaStatus())
	require.Equal(t, status.Started, r.PushStatus())
}

func TestSetReplicaStatus(t *testing.T) {
	r := status.NewReporter()
	r.SetReplicaStatus(status.Online)
	require.Equal(t, status.Online, r.ReplicaStatus())
	r.SetReplicaStatus(status.Error)
	require.Equal(t, status.Error, r.ReplicaStatus())
}

func TestSetPushStatus(t *testing.T) {
	r := status.NewReporter()
	r.SetPushStatus(status.EndOfPushReceived)
	require.Equal(t, status.EndOfPushReceived, r.PushStatus())
	r.SetPushStatus(status.PushCompleted)
	require.Equal(t, status.PushCompleted, r.PushStatus())
}

func TestIncrementalPushLifecycle(t *testing.T) {
	r := status.NewReporter()
	require.False(t, r.CompleteIncrementalPush("inc-1"), "completing a label that was never begun must report it wasn't open")

	r.BeginIncrementalPush("inc-1")
	require.True(t, r.CompleteIncrementalPush("inc-1"))

	require.False(t, r.CompleteIncrementalPush("inc-1"), "completing the same label twice must report it wasn't open the second time")
}

func TestReplicaStatusStrings(t *testing.T) {
	cases := map[status.ReplicaStatus]string{
		status.Bootstrapping: "BOOTSTRAPPING",
		status.Online:        "ONLINE",
		status.Error:         "ERROR",
		status.Completed:     "COMPLETED",
	}
	for s, want := range cases {
		require.Equal(t, want, s.String())
	}
}

func TestPushStatusStrings(t *testing.T) {
	cases := map[status.PushStatus]string{
		status.Started:           "STARTED",
		status.EndOfPushReceived: "END_OF_PUSH_RECEIVED",
		status.PushCompleted:     "COMPLETED",
		status.PushError:         "ERROR",
	}
	for p, want := range cases {
		require.Equal(t, want, p.String())
	}
}
