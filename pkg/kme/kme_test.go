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

package kme_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/linkedin/venice/pkg/kme"
)

func TestProducerMetadataRoundTrip(t *testing.T) {
	var guid kme.ProducerGUID
	copy(guid[:], []byte("0123456789abcdef"))
	m := kme.ProducerMetadata{
		GUID:                  guid,
		SegmentNumber:         7,
		MessageSequenceNumber: 42,
		MessageTimestamp:      1_700_000_000_000,
		UpstreamOffset:        918273,
		HasUpstreamOffset:     true,
	}

	buf := kme.EncodeProducerMetadata(m)
	got, err := kme.DecodeProducerMetadata(buf)
	require.NoError(t, err)
	require.Equal(t, m, got)
}

func TestDecodeProducerMetadataTruncated(t *testing.T) {
	_, err := kme.DecodeProducerMetadata([]byte{1, 2, 3})
	require.Error(t, err)
}

func TestLeaderFooterRoundTrip(t *testing.T) {
	f := &kme.LeaderMetadataFooter{UpstreamOffset: 55, UpstreamTopicID: 9}
	buf := kme.EncodeLeaderFooter(f)
	got, err := kme.DecodeLeaderFooter(buf)
	require.NoError(t, err)
	require.Equal(t, f, got)
}

func TestLeaderFooterNil(t *testing.T) {
	require.Nil(t, kme.EncodeLeaderFooter(nil))
	got, err := kme.DecodeLeaderFooter(nil)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestKeyPrefixRoundTrip(t *testing.T) {
	wire := kme.KeyPrefix(kme.MessageTypeDelete, []byte("mykey"))
	typ, key, err := kme.SplitKeyPrefix(wire)
	require.NoError(t, err)
	require.Equal(t, kme.MessageTypeDelete, typ)
	require.Equal(t, "mykey", string(key))
}

func TestSplitKeyPrefixEmpty(t *testing.T) {
	_, _, err := kme.SplitKeyPrefix(nil)
	require.Error(t, err)
}

func TestCheckProtocolVersion(t *testing.T) {
	require.NoError(t, kme.CheckProtocolVersion(kme.ProtocolVersion))
	require.NoError(t, kme.CheckProtocolVersion(kme.ProtocolVersion-1))
	require.Error(t, kme.CheckProtocolVersion(kme.ProtocolVersion+1))
}

func TestTopicNaming(t *testing.T) {
	require.Equal(t, "teststore_v3", kme.VersionTopic("teststore", 3))
	require.Equal(t, "teststore_rt", kme.RealTimeTopic("teststore"))
	require.Equal(t, "teststore_v3_sr", kme.StreamReprocessingTopic("teststore", 3))

	require.True(t, kme.IsRealTime("teststore_rt"))
	require.False(t, kme.IsRealTime("teststore_v3"))
	require.True(t, kme.IsStreamReprocessing("teststore_v3_sr"))
	require.False(t, kme.IsStreamReprocessing("teststore_v3"))
}

func TestStoreNameOf(t *testing.T) {
	cases := []struct {
		topic string
		store string
		ok    bool
	}{
		{"teststore_v3", "teststore", true},
		{"teststore_rt", "teststore", true},
		{"teststore_v3_sr", "teststore", true},
		{"not-a-topic", "", false},
	}
	for _, c := range cases {
		store, ok := kme.StoreNameOf(c.topic)
		require.Equal(t, c.ok, ok, c.topic)
		if c.ok {
			require.Equal(t, c.store, store, c.topic)
		}
	}
}

func TestProducerGUIDString(t *testing.T) {
	var g kme.ProducerGUID
	g[0] = 0xab
	require.Contains(t, g.String(), "ab")
}
