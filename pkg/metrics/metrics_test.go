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

package metrics_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/linkedin/venice/pkg/metrics"
)

func TestNewPartitionCountersDoesNotPanic(t *testing.T) {
	require.NotPanics(t, func() {
		c := metrics.NewPartitionCounters()
		c.RecordIn()
		c.RecordPersisted(128)
		c.RecordDroppedDuplicate()
		c.RewindTriggered()
	})
}

func TestPartitionCountersAreIndependentInstances(t *testing.T) {
	a := metrics.NewPartitionCounters()
	b := metrics.NewPartitionCounters()
	require.NotSame(t, a, b)

	// Each partition's counters must be independently usable even though
	// monkit counters share process-wide call sites underneath.
	require.NotPanics(t, func() {
		a.RecordIn()
		b.RewindTriggered()
	})
}
