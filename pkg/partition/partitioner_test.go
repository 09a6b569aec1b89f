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

package partition_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/linkedin/venice/pkg/partition"
)

func TestMurmur2PartitionerDeterministic(t *testing.T) {
	p := partition.Murmur2Partitioner{}
	key := []byte("user-1234")
	first := p.Partition(key, 12)
	for i := 0; i < 100; i++ {
		require.Equal(t, first, p.Partition(key, 12), "the same key must always land on the same partition")
	}
}

func TestMurmur2PartitionerInBounds(t *testing.T) {
	p := partition.Murmur2Partitioner{}
	keys := [][]byte{[]byte(""), []byte("a"), []byte("ab"), []byte("abc"), []byte("abcd"), []byte("a-much-longer-key-than-four-bytes")}
	for _, key := range keys {
		part := p.Partition(key, 16)
		require.GreaterOrEqual(t, part, int32(0))
		require.Less(t, part, int32(16))
	}
}

func TestMurmur2PartitionerZeroPartitions(t *testing.T) {
	p := partition.Murmur2Partitioner{}
	require.Equal(t, int32(0), p.Partition([]byte("k"), 0))
	require.Equal(t, int32(0), p.Partition([]byte("k"), -3))
}

func TestMurmur2PartitionerSinglePartition(t *testing.T) {
	p := partition.Murmur2Partitioner{}
	require.Equal(t, int32(0), p.Partition([]byte("anything"), 1))
}

func TestRegistryDefaultsToMurmur2(t *testing.T) {
	r := partition.NewRegistry()
	p, err := r.Resolve("murmur2")
	require.NoError(t, err)
	require.IsType(t, partition.Murmur2Partitioner{}, p)
}

func TestRegistryUnknownClass(t *testing.T) {
	r := partition.NewRegistry()
	_, err := r.Resolve("does-not-exist")
	require.Error(t, err)
}

type constantPartitioner struct{ p int32 }

func (c constantPartitioner) Partition([]byte, int32) int32 { return c.p }

func TestRegistryRegisterOverridesAndAdds(t *testing.T) {
	r := partition.NewRegistry()
	r.Register("pinned", constantPartitioner{p: 7})
	p, err := r.Resolve("pinned")
	require.NoError(t, err)
	require.Equal(t, int32(7), p.Partition([]byte("whatever"), 16))

	r.Register("murmur2", constantPartitioner{p: 3})
	p, err = r.Resolve("murmur2")
	require.NoError(t, err)
	require.Equal(t, int32(3), p.Partition([]byte("whatever"), 16))
}
