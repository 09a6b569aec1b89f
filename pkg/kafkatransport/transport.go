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

// Package kafkatransport is the log transport contract of spec.md §1:
// "append-only partitioned logs with per-partition monotonic offsets;
// delivers by offset range". It is a thin, dependency-free interface over
// whatever real Kafka client backs it — pkg/kafkatransport/kgotransport
// wires it to github.com/twmb/franz-go/pkg/kgo;
// pkg/kafkatransport/kafkatest wires it to an in-memory fake for tests.
package kafkatransport

import (
	"context"

	"github.com/linkedin/venice/pkg/kme"
)

// Fetch is one delivery of records for a single topic/partition, matching
// the shape the Shared Consumer Pool (spec.md §4.5) fans out to
// per-partition queues.
type Fetch struct {
	Topic     string
	Partition int32
	Records   []kme.Record
}

// Client is the log-transport handle the Shared Consumer Pool and the
// Version-Topic Producer hold. The Shared Consumer Pool keeps a small
// fixed number of Clients per upstream cluster and shares each across the
// partitions it assigns to it (spec.md §5 "Shared resources"); a
// partition's Version-Topic Producer uses a Client of its own.
type Client interface {
	// AddConsumePartitions begins consumption of the given
	// topic/partition pairs, each starting at the supplied offset.
	AddConsumePartitions(assignments map[string]map[int32]int64) error

	// RemoveConsumePartitions stops consumption of the given
	// topic/partitions. Used on unsubscribe and on a topic switch, to
	// discard records the prior upstream delivered but the partition
	// never produced to the version topic (spec.md §4.1 "Multiple
	// TopicSwitch honoring").
	RemoveConsumePartitions(assignments map[string][]int32)

	// PollFetches blocks until at least one Fetch is ready or ctx is
	// done.
	PollFetches(ctx context.Context) ([]Fetch, error)

	// PauseFetchPartitions and ResumeFetchPartitions implement the
	// Shared Consumer Pool's backpressure (spec.md §4.5): when a
	// partition's bounded queue is full, its subscription is paused
	// rather than allowed to block delivery to other partitions.
	PauseFetchPartitions(assignments map[string][]int32)
	ResumeFetchPartitions(assignments map[string][]int32)

	// Produce appends rec to topic/partition and returns the offset it
	// was assigned. Used exclusively by the leader-only Version-Topic
	// Producer (spec.md §4.3).
	Produce(ctx context.Context, topic string, partition int32, rec kme.Record) (offset int64, err error)

	// OffsetForTimestamp resolves the largest offset whose message
	// timestamp is <= timestampMillis, for TopicSwitch rewind
	// resolution (spec.md §4.1 rule 3). timestampMillis == -1 means
	// "earliest offset".
	OffsetForTimestamp(ctx context.Context, topic string, partition int32, timestampMillis int64) (int64, error)

	// EarliestOffset and LatestOffset resolve partition offset bounds.
	EarliestOffset(ctx context.Context, topic string, partition int32) (int64, error)
	LatestOffset(ctx context.Context, topic string, partition int32) (int64, error)

	// Close releases the client.
	Close() error
}
