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

package consumerpool_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/linkedin/venice/pkg/consumerpool"
	"github.com/linkedin/venice/pkg/kafkatransport"
	"github.com/linkedin/venice/pkg/kafkatransport/kafkatest"
	"github.com/linkedin/venice/pkg/kme"
)

func factoryFor(broker *kafkatest.Broker) consumerpool.ClientFactory {
	return func() (kafkatransport.Client, error) {
		return kafkatest.NewClient(broker), nil
	}
}

func putRecord(key string) kme.Record {
	return kme.Record{
		Key:      []byte(key),
		Envelope: kme.Envelope{MessageType: kme.MessageTypePut, Payload: &kme.Put{Key: []byte(key), SchemaID: 1, Value: []byte("v")}},
	}
}

func TestSubscribeDeliversRecordsFromStartOffset(t *testing.T) {
	broker := kafkatest.NewBroker()
	broker.Append("store_v1", 0, putRecord("k0"))
	broker.Append("store_v1", 0, putRecord("k1"))
	broker.Append("store_v1", 0, putRecord("k2"))

	pool := consumerpool.New(zap.NewNop(), 2)
	sub, err := pool.Subscribe("local", factoryFor(broker), "store_v1", 0, 1)
	require.NoError(t, err)
	defer sub.Close()

	select {
	case batch := <-sub.Records():
		require.Len(t, batch, 2)
		require.Equal(t, []byte("k1"), batch[0].Key)
		require.Equal(t, []byte("k2"), batch[1].Key)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for delivery")
	}
}

func TestSubscribeSharesClientsAcrossPartitionsUpToSize(t *testing.T) {
	broker := kafkatest.NewBroker()
	pool := consumerpool.New(zap.NewNop(), 2)
	created := 0
	factory := func() (kafkatransport.Client, error) {
		created++
		return kafkatest.NewClient(broker), nil
	}

	subs := make([]*consumerpool.Subscription, 0, 5)
	for p := int32(0); p < 5; p++ {
		sub, err := pool.Subscribe("local", factory, "store_v1", p, 0)
		require.NoError(t, err)
		subs = append(subs, sub)
	}
	require.Equal(t, 2, created, "five partitions on one cluster must share the pool's two clients")
	for _, s := range subs {
		s.Close()
	}
}

func TestUnsubscribeStopsFurtherDelivery(t *testing.T) {
	broker := kafkatest.NewBroker()
	pool := consumerpool.New(zap.NewNop(), 1)

	sub, err := pool.Subscribe("local", factoryFor(broker), "store_v1", 0, 0)
	require.NoError(t, err)
	sub.Close()

	broker.Append("store_v1", 0, putRecord("after-close"))

	select {
	case <-sub.Records():
		t.Fatal("a closed subscription must not receive further deliveries")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestCloseStopsPollLoops(t *testing.T) {
	broker := kafkatest.NewBroker()
	pool := consumerpool.New(zap.NewNop(), 1)

	sub, err := pool.Subscribe("local", factoryFor(broker), "store_v1", 0, 0)
	require.NoError(t, err)
	defer sub.Close()

	pool.Close()
	broker.Append("store_v1", 0, putRecord("after-close"))

	select {
	case <-sub.Records():
		t.Fatal("no poll loop should still be running to deliver after Close")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestNewDefaultsNonPositiveSizeToThree(t *testing.T) {
	broker := kafkatest.NewBroker()
	pool := consumerpool.New(zap.NewNop(), 0)
	created := 0
	factory := func() (kafkatransport.Client, error) {
		created++
		return kafkatest.NewClient(broker), nil
	}

	// Exercise five partitions: if New treated size 0 literally, no
	// client would ever be created and Subscribe would fail or hang.
	for p := int32(0); p < 5; p++ {
		sub, err := pool.Subscribe("local", factory, "store_v1", p, 0)
		require.NoError(t, err)
		sub.Close()
	}
	require.Equal(t, 3, created)
}
