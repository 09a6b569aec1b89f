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

// Package store defines the local, durable, partitioned key/value store
// contract the ingestion core commits against (spec.md §1, §3, §6): a
// store that supports atomic commit of a batch together with the
// partition's checkpoint, so that data and the checkpoint are always
// crash-consistent (spec.md Invariant 1).
package store

// Entry is one row in a commit batch: a PUT/UPDATE result (Value non-nil)
// or a DELETE tombstone (Value nil).
type Entry struct {
	Key   []byte
	Value []byte // nil means delete
}

// Batch is the set of key/value mutations produced by applying one drained
// chunk of records, plus the partition checkpoint that must commit
// atomically with them.
type Batch struct {
	Entries    []Entry
	Checkpoint []byte // opaque, partition-ingestor-owned checkpoint blob
}

// PartitionStore is the durable store scoped to one partition of one
// store-version. A PartitionIngestor owns exactly one PartitionStore handle
// for the lifetime of its drainer task (spec.md §9 resource scoping).
type PartitionStore interface {
	// CommitBatch atomically applies every entry in b and persists
	// b.Checkpoint as the new checkpoint blob. Either the whole batch and
	// the checkpoint land, or neither does.
	CommitBatch(b Batch) error

	// Get returns the current value for key, or (nil, false) if absent
	// or deleted.
	Get(key []byte) ([]byte, bool, error)

	// LoadCheckpoint returns the last committed checkpoint blob, or nil
	// if this partition has never committed.
	LoadCheckpoint() ([]byte, error)

	// Close releases the handle. Per spec.md §9 drop order, Close is
	// called last on shutdown (after the producer and subscription
	// handles). It writes no checkpoint: CommitBatch has already
	// persisted one with every batch.
	Close() error
}

// Store opens/creates PartitionStore handles for a store-version,
// partitioned by partition id.
type Store interface {
	Partition(storeName string, version, partition int) (PartitionStore, error)
}
