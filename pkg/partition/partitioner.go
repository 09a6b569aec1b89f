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

// Package partition implements the partitioner contract of spec.md §6: a
// store-version pins a partitioner class and parameters, and the
// ingestor must use the exact function the producer used or keys land on
// the wrong partition. Modeled as a small named-strategy registry,
// mirroring the corpus's ClusterAdmin/TopicDetail shape (Stars1233-sarama
// admin.go: named, versioned broker-side operations keyed by string).
package partition

import "fmt"

// Partitioner assigns a partition id to a key.
type Partitioner interface {
	Partition(key []byte, numPartitions int32) int32
}

// Murmur2Partitioner is the default: a Murmur2-compatible hash, matching
// the partitioner most Venice producers pin (spec.md §6 requires bit-for-
// bit agreement with whatever the producer used).
type Murmur2Partitioner struct{}

func (Murmur2Partitioner) Partition(key []byte, numPartitions int32) int32 {
	if numPartitions <= 0 {
		return 0
	}
	hash := murmur2(key)
	hash &= 0x7fffffff
	return int32(hash) % numPartitions
}

// murmur2 is the 32-bit Murmur2 variant used by the Kafka producer
// partitioner this ingestor must match bit-for-bit.
func murmur2(data []byte) uint32 {
	const (
		seed = uint32(0x9747b28c)
		m    = uint32(0x5bd1e995)
		r    = 24
	)

	length := len(data)
	h := seed ^ uint32(length)

	i := 0
	for ; length-i >= 4; i += 4 {
		k := uint32(data[i]) | uint32(data[i+1])<<8 | uint32(data[i+2])<<16 | uint32(data[i+3])<<24
		k *= m
		k ^= k >> r
		k *= m
		h *= m
		h ^= k
	}

	switch length - i {
	case 3:
		h ^= uint32(data[i+2]) << 16
		fallthrough
	case 2:
		h ^= uint32(data[i+1]) << 8
		fallthrough
	case 1:
		h ^= uint32(data[i])
		h *= m
	}

	h ^= h >> 13
	h *= m
	h ^= h >> 15
	return h
}

// Registry resolves a named partitioner class, so a StoreVersion can pin
// "class=VeniceDefault,params=..." and the ingestor resolves the same
// function the producer used.
type Registry struct {
	strategies map[string]Partitioner
}

// NewRegistry returns a Registry pre-seeded with the default partitioner
// under the name "murmur2".
func NewRegistry() *Registry {
	return &Registry{strategies: map[string]Partitioner{
		"murmur2": Murmur2Partitioner{},
	}}
}

// Register adds or replaces a named partitioner.
func (r *Registry) Register(name string, p Partitioner) {
	r.strategies[name] = p
}

// Resolve looks up a partitioner by name.
func (r *Registry) Resolve(name string) (Partitioner, error) {
	p, ok := r.strategies[name]
	if !ok {
		return nil, fmt.Errorf("partition: unknown partitioner class %q", name)
	}
	return p, nil
}
