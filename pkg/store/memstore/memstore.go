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

// Package memstore is an in-memory store.Store used by the ingestion
// core's tests, grounded on the corpus's generic KV conformance-test
// helper shape (private/kvstore/testsuite/test_crud.go): a minimal,
// dependency-free stand-in for a real durable store so that property
// tests over the ingestion state machine don't pay boltdb I/O cost.
package memstore

import (
	"fmt"
	"sync"

	"github.com/linkedin/venice/pkg/store"
)

// MemStore is a Store backed by in-process maps. Safe for concurrent use
// across partitions; each partition's data is independent.
type MemStore struct {
	mu         sync.Mutex
	partitions map[string]*partitionStore
}

// New returns an empty MemStore.
func New() *MemStore {
	return &MemStore{partitions: make(map[string]*partitionStore)}
}

func (m *MemStore) Partition(storeName string, version, partition int) (store.PartitionStore, error) {
	key := fmt.Sprintf("%s_v%d_p%d", storeName, version, partition)

	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.partitions[key]; ok {
		return p, nil
	}
	p := &partitionStore{data: make(map[string][]byte)}
	m.partitions[key] = p
	return p, nil
}

type partitionStore struct {
	mu         sync.Mutex
	data       map[string][]byte
	checkpoint []byte
}

func (p *partitionStore) CommitBatch(b store.Batch) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, e := range b.Entries {
		if e.Value == nil {
			delete(p.data, string(e.Key))
			continue
		}
		p.data[string(e.Key)] = append([]byte(nil), e.Value...)
	}
	p.checkpoint = append([]byte(nil), b.Checkpoint...)
	return nil
}

func (p *partitionStore) Get(key []byte) ([]byte, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	v, ok := p.data[string(key)]
	return v, ok, nil
}

func (p *partitionStore) LoadCheckpoint() ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.checkpoint, nil
}

func (p *partitionStore) Close() error { return nil }

// Snapshot returns a defensive copy of every key/value in the partition,
// for test assertions about eventual consistency between replicas
// (spec.md §8).
func Snapshot(s store.PartitionStore) map[string][]byte {
	p := s.(*partitionStore)
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make(map[string][]byte, len(p.data))
	for k, v := range p.data {
		out[k] = append([]byte(nil), v...)
	}
	return out
}
