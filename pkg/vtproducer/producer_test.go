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

package vtproducer_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/linkedin/venice/pkg/kafkatransport/kafkatest"
	"github.com/linkedin/venice/pkg/kme"
	"github.com/linkedin/venice/pkg/vtproducer"
)

func upstreamRecord(key string, timestamp int64) kme.Record {
	return kme.Record{
		Topic:  "store_rt",
		Key:    []byte(key),
		Offset: 41,
		Envelope: kme.Envelope{
			MessageType: kme.MessageTypePut,
			ProducerMetadata: kme.ProducerMetadata{
				MessageTimestamp: timestamp,
			},
			Payload: &kme.Put{Key: []byte(key), Value: []byte("v"), SchemaID: 1},
		},
	}
}

func TestRepublishReturnsAssignedOffset(t *testing.T) {
	broker := kafkatest.NewBroker()
	client := kafkatest.NewClient(broker)
	var guid kme.ProducerGUID
	guid[0] = 0xaa
	p := vtproducer.New(client, "store_v1", 0, guid)

	offset, err := p.Republish(context.Background(), upstreamRecord("k1", 12345))
	require.NoError(t, err)
	require.Equal(t, int64(0), offset)

	offset, err = p.Republish(context.Background(), upstreamRecord("k2", 12346))
	require.NoError(t, err)
	require.Equal(t, int64(1), offset)
}

func TestRepublishPreservesPayloadAndTimestamp(t *testing.T) {
	broker := kafkatest.NewBroker()
	client := kafkatest.NewClient(broker)
	var guid kme.ProducerGUID
	p := vtproducer.New(client, "store_v1", 0, guid)

	_, err := p.Republish(context.Background(), upstreamRecord("k1", 999))
	require.NoError(t, err)

	require.NoError(t, client.AddConsumePartitions(map[string]map[int32]int64{"store_v1": {0: 0}}))
	fetches, err := client.PollFetches(context.Background())
	require.NoError(t, err)
	require.Len(t, fetches, 1)
	rec := fetches[0].Records[0]

	put, ok := rec.Envelope.Payload.(*kme.Put)
	require.True(t, ok)
	require.Equal(t, []byte("v"), put.Value)
	require.Equal(t, int64(999), rec.Envelope.ProducerMetadata.MessageTimestamp)
	require.True(t, rec.Envelope.ProducerMetadata.HasUpstreamOffset)
	require.Equal(t, int64(41), rec.Envelope.ProducerMetadata.UpstreamOffset)
	require.NotNil(t, rec.Envelope.LeaderFooter)
	require.Equal(t, int64(41), rec.Envelope.LeaderFooter.UpstreamOffset)
}

func TestRepublishStampsLeaderGUID(t *testing.T) {
	broker := kafkatest.NewBroker()
	client := kafkatest.NewClient(broker)
	var guid kme.ProducerGUID
	guid[3] = 0x77
	p := vtproducer.New(client, "store_v1", 0, guid)

	_, err := p.Republish(context.Background(), upstreamRecord("k1", 1))
	require.NoError(t, err)

	require.NoError(t, client.AddConsumePartitions(map[string]map[int32]int64{"store_v1": {0: 0}}))
	fetches, err := client.PollFetches(context.Background())
	require.NoError(t, err)
	require.Equal(t, guid, fetches[0].Records[0].Envelope.ProducerMetadata.GUID)
}

func TestRepublishIncrementsSequenceNumber(t *testing.T) {
	broker := kafkatest.NewBroker()
	client := kafkatest.NewClient(broker)
	var guid kme.ProducerGUID
	p := vtproducer.New(client, "store_v1", 0, guid)

	_, err := p.Republish(context.Background(), upstreamRecord("k1", 1))
	require.NoError(t, err)
	_, err = p.Republish(context.Background(), upstreamRecord("k2", 2))
	require.NoError(t, err)

	require.NoError(t, client.AddConsumePartitions(map[string]map[int32]int64{"store_v1": {0: 0}}))
	fetches, err := client.PollFetches(context.Background())
	require.NoError(t, err)
	require.Len(t, fetches, 1)
	require.Len(t, fetches[0].Records, 2)
	require.Equal(t, int32(1), fetches[0].Records[0].Envelope.ProducerMetadata.MessageSequenceNumber)
	require.Equal(t, int32(2), fetches[0].Records[1].Envelope.ProducerMetadata.MessageSequenceNumber)
}
