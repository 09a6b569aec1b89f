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

package memstore_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/linkedin/venice/pkg/store"
	"github.com/linkedin/venice/pkg/store/memstore"
)

func TestPartitionReturnsSameHandle(t *testing.T) {
	ms := memstore.New()
	p1, err := ms.Partition("teststore", 1, 0)
	require.NoError(t, err)
	p2, err := ms.Partition("teststore", 1, 0)
	require.NoError(t, err)
	require.Same(t, p1, p2, "repeated calls with the same key must return the same handle, to simulate a restart")
}

func TestPartitionIsolatesByKey(t *testing.T) {
	ms := memstore.New()
	p0, err := ms.Partition("teststore", 1, 0)
	require.NoError(t, err)
	p1, err := ms.Partition("teststore", 1, 1)
	require.NoError(t, err)

	require.NoError(t, p0.CommitBatch(store.Batch{
		Entries:    []store.Entry{{Key: []byte("k"), Value: []byte("v0")}},
		Checkpoint: []byte("cp0"),
	}))
	require.NoError(t, p1.CommitBatch(store.Batch{
		Entries:    []store.Entry{{Key: []byte("k"), Value: []byte("v1")}},
		Checkpoint: []byte("cp1"),
	}))

	v, ok, err := p0.Get([]byte("k"))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("v0"), v)

	v, ok, err = p1.Get([]byte("k"))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("v1"), v)
}

func TestCommitBatchPutAndDelete(t *testing.T) {
	ms := memstore.New()
	p, err := ms.Partition("teststore", 1, 0)
	require.NoError(t, err)

	require.NoError(t, p.CommitBatch(store.Batch{
		Entries: []store.Entry{
			{Key: []byte("k1"), Value: []byte("v1")},
			{Key: []byte("k2"), Value: []byte("v2")},
		},
		Checkpoint: []byte("cp1"),
	}))
	require.NoError(t, p.CommitBatch(store.Batch{
		Entries:    []store.Entry{{Key: []byte("k1"), Value: nil}},
		Checkpoint: []byte("cp2"),
	}))

	_, ok, err := p.Get([]byte("k1"))
	require.NoError(t, err)
	require.False(t, ok, "a nil-value entry must delete the key")

	v, ok, err := p.Get([]byte("k2"))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("v2"), v)

	cp, err := p.LoadCheckpoint()
	require.NoError(t, err)
	require.Equal(t, []byte("cp2"), cp)
}

func TestLoadCheckpointEmptyBeforeFirstCommit(t *testing.T) {
	ms := memstore.New()
	p, err := ms.Partition("teststore", 1, 0)
	require.NoError(t, err)

	cp, err := p.LoadCheckpoint()
	require.NoError(t, err)
	require.Nil(t, cp)
}

func TestSnapshot(t *testing.T) {
	ms := memstore.New()
	p, err := ms.Partition("teststore", 1, 0)
	require.NoError(t, err)
	require.NoError(t, p.CommitBatch(store.Batch{
		Entries: []store.Entry{
			{Key: []byte("k1"), Value: []byte("v1")},
			{Key: []byte("k2"), Value: []byte("v2")},
		},
	}))

	snap := memstore.Snapshot(p)
	require.Equal(t, map[string][]byte{"k1": []byte("v1"), "k2": []byte("v2")}, snap)
}
