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

// Package kafkatest is an in-memory fake of kafkatransport.Client, used by
// the ingestion core's own tests (spec.md §8) so that the six concrete
// scenarios can be driven deterministically without a running Kafka
// cluster. It is grounded on the corpus's mock-collaborator shape
// (pkg/kademlia/test_utils.go's MockKademlia): a small, explicit fake
// implementing the real interface, not a generated mock.
package kafkatest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/linkedin/venice/pkg/kafkatransport"
	"github.com/linkedin/venice/pkg/kme"
)

// Broker is a shared, in-memory collection of append-only partitioned
// logs. Multiple Clients (representing distinct replicas or the leader's
// and a test driver's own handles) can be created against one Broker to
// simulate a real multi-consumer cluster.
type Broker struct {
	mu     sync.Mutex
	topics map[string]*topicLog
}

// NewBroker returns an empty Broker.
func NewBroker() *Broker {
	return &Broker{topics: make(map[string]*topicLog)}
}

type topicLog struct {
	mu         sync.Mutex
	partitions map[int32]*partitionLog
}

type partitionLog struct {
	records []kme.Record // Offset is the index into this slice
}

func (b *Broker) topic(name string) *topicLog {
	b.mu.Lock()
	defer b.mu.Unlock()
	t, ok := b.topics[name]
	if !ok {
		t = &topicLog{partitions: make(map[int32]*partitionLog)}
		b.topics[name] = t
	}
	return t
}

func (t *topicLog) partition(id int32) *partitionLog {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.partitions[id]
	if !ok {
		p = &partitionLog{}
		t.partitions[id] = p
	}
	return p
}

// Append appends rec (Offset is ignored and overwritten) and returns the
// offset it was assigned. Exposed so test setup code can seed a topic
// directly, outside of any Client's Produce path.
func (b *Broker) Append(topic string, partition int32, rec kme.Record) int64 {
	p := b.topic(topic).partition(partition)
	p.records = append(p.records, rec)
	offset := int64(len(p.records) - 1)
	p.records[offset].Offset = offset
	p.records[offset].Topic = topic
	p.records[offset].Partition = partition
	return offset
}

// Client is a kafkatransport.Client backed by a Broker.
type Client struct {
	broker *Broker

	mu   sync.Mutex
	subs map[tp]*subscription
}

type tp struct {
	topic     string
	partition int32
}

type subscription struct {
	nextOffset int64
	paused     bool
}

// NewClient returns a Client against broker.
func NewClient(broker *Broker) *Client {
	return &Client{broker: broker, subs: make(map[tp]*subscription)}
}

func (c *Client) AddConsumePartitions(assignments map[string]map[int32]int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for topic, parts := range assignments {
		for partition, offset := range parts {
			c.subs[tp{topic, partition}] = &subscription{nextOffset: offset}
		}
	}
	return nil
}

func (c *Client) RemoveConsumePartitions(assignments map[string][]int32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for topic, parts := range assignments {
		for _, partition := range parts {
			delete(c.subs, tp{topic, partition})
		}
	}
}

func (c *Client) PauseFetchPartitions(assignments map[string][]int32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for topic, parts := range assignments {
		for _, partition := range parts {
			if s, ok := c.subs[tp{topic, partition}]; ok {
				s.paused = true
			}
		}
	}
}

func (c *Client) ResumeFetchPartitions(assignments map[string][]int32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for topic, parts := range assignments {
		for _, partition := range parts {
			if s, ok := c.subs[tp{topic, partition}]; ok {
				s.paused = false
			}
		}
	}
}

// PollFetches busy-polls (with a short backoff) for any subscribed,
// unpaused partition with records beyond its nextOffset.
func (c *Client) PollFetches(ctx context.Context) ([]kafkatransport.Fetch, error) {
	for {
		if fetches := c.drain(); len(fetches) > 0 {
			return fetches, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Millisecond):
		}
	}
}

func (c *Client) drain() []kafkatransport.Fetch {
	c.mu.Lock()
	keys := make([]tp, 0, len(c.subs))
	for k := range c.subs {
		keys = append(keys, k)
	}
	c.mu.Unlock()
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].topic != keys[j].topic {
			return keys[i].topic < keys[j].topic
		}
		return keys[i].partition < keys[j].partition
	})

	var fetches []kafkatransport.Fetch
	for _, k := range keys {
		c.mu.Lock()
		sub, ok := c.subs[k]
		if !ok || sub.paused {
			c.mu.Unlock()
			continue
		}
		startOffset := sub.nextOffset
		c.mu.Unlock()

		p := c.broker.topic(k.topic).partition(k.partition)

		var records []kme.Record
		for off := startOffset; off < int64(len(p.records)); off++ {
			records = append(records, p.records[off])
		}
		if len(records) == 0 {
			continue
		}

		c.mu.Lock()
		sub.nextOffset = startOffset + int64(len(records))
		c.mu.Unlock()

		fetches = append(fetches, kafkatransport.Fetch{Topic: k.topic, Partition: k.partition, Records: records})
	}
	return fetches
}

func (c *Client) Produce(ctx context.Context, topic string, partition int32, rec kme.Record) (int64, error) {
	return c.broker.Append(topic, partition, rec), nil
}

func (c *Client) OffsetForTimestamp(ctx context.Context, topic string, partition int32, timestampMillis int64) (int64, error) {
	p := c.broker.topic(topic).partition(partition)
	if timestampMillis < 0 {
		return 0, nil
	}
	best := int64(len(p.records))
	for i, rec := range p.records {
		if rec.Envelope.ProducerMetadata.MessageTimestamp <= timestampMillis {
			best = int64(i)
		}
	}
	return best, nil
}

func (c *Client) EarliestOffset(ctx context.Context, topic string, partition int32) (int64, error) {
	return 0, nil
}

func (c *Client) LatestOffset(ctx context.Context, topic string, partition int32) (int64, error) {
	p := c.broker.topic(topic).partition(partition)
	return int64(len(p.records)), nil
}

func (c *Client) Close() error { return nil }
