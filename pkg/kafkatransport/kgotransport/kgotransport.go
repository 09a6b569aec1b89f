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

// Package kgotransport wires kafkatransport.Client to a real Kafka
// cluster via github.com/twmb/franz-go/pkg/kgo. The Pause/Resume-based
// backpressure and per-topic/partition assignment shape are grounded
// directly on the retrieved go-kafka-event-source reference
// (streams/partition_worker.go's pw.eventSource.consumer.Client().
// PauseFetchPartitions / ResumeFetchPartitions calls), and the metadata
// wait/refresh shape is grounded on the corpus's own franz-go fork
// (pkg/kgo/metadata.go's waitmeta).
package kgotransport

import (
	"context"
	"fmt"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/zeebo/errs"

	"github.com/linkedin/venice/pkg/kafkatransport"
	"github.com/linkedin/venice/pkg/kme"
)

// Client adapts *kgo.Client to kafkatransport.Client.
type Client struct {
	kc   *kgo.Client
	admin *kadm.Client
}

// New returns a Client connected to the given seed brokers. Additional
// kgo.Opt values (SASL, TLS, client id, ...) can be layered on by the
// caller before partitions are ever assigned, via opts.
func New(seedBrokers []string, opts ...kgo.Opt) (*Client, error) {
	base := []kgo.Opt{
		kgo.SeedBrokers(seedBrokers...),
		// The ingestion core manages offsets itself via the local store
		// checkpoint (spec.md §6); it never relies on a Kafka consumer
		// group's committed offsets.
		kgo.DisableAutoCommit(),
	}
	kc, err := kgo.NewClient(append(base, opts...)...)
	if err != nil {
		return nil, errs.Wrap(err)
	}
	return &Client{kc: kc, admin: kadm.NewClient(kc)}, nil
}

func (c *Client) AddConsumePartitions(assignments map[string]map[int32]int64) error {
	offsets := make(map[string]map[int32]kgo.Offset, len(assignments))
	for topic, parts := range assignments {
		po := make(map[int32]kgo.Offset, len(parts))
		for partition, offset := range parts {
			po[partition] = kgo.NewOffset().At(offset)
		}
		offsets[topic] = po
	}
	c.kc.AddConsumePartitions(offsets)
	return nil
}

func (c *Client) RemoveConsumePartitions(assignments map[string][]int32) {
	c.kc.RemoveConsumePartitions(assignments)
}

func (c *Client) PauseFetchPartitions(assignments map[string][]int32) {
	c.kc.PauseFetchPartitions(assignments)
}

func (c *Client) ResumeFetchPartitions(assignments map[string][]int32) {
	c.kc.ResumeFetchPartitions(assignments)
}

func (c *Client) PollFetches(ctx context.Context) ([]kafkatransport.Fetch, error) {
	fetches := c.kc.PollFetches(ctx)
	if err := fetches.Err(); err != nil {
		return nil, errs.Wrap(err)
	}

	byTP := make(map[tp][]kme.Record)
	var order []tp
	fetches.EachRecord(func(r *kgo.Record) {
		rec, err := fromKgoRecord(r)
		if err != nil {
			// A record that fails to decode is dropped so one bad
			// record does not wedge the whole batch. The decode error
			// is discarded: it is neither returned nor logged.
			return
		}
		key := tp{r.Topic, r.Partition}
		if _, ok := byTP[key]; !ok {
			order = append(order, key)
		}
		byTP[key] = append(byTP[key], rec)
	})

	out := make([]kafkatransport.Fetch, 0, len(order))
	for _, key := range order {
		out = append(out, kafkatransport.Fetch{Topic: key.topic, Partition: key.partition, Records: byTP[key]})
	}
	return out, nil
}

type tp struct {
	topic     string
	partition int32
}

func (c *Client) Produce(ctx context.Context, topic string, partition int32, rec kme.Record) (int64, error) {
	kr := toKgoRecord(topic, partition, rec)
	results := c.kc.ProduceSync(ctx, kr)
	if err := results.FirstErr(); err != nil {
		return 0, errs.Wrap(err)
	}
	return results[0].Record.Offset, nil
}

func (c *Client) OffsetForTimestamp(ctx context.Context, topic string, partition int32, timestampMillis int64) (int64, error) {
	if timestampMillis < 0 {
		return c.EarliestOffset(ctx, topic, partition)
	}
	listed, err := c.admin.ListOffsetsAfterMilli(ctx, timestampMillis, topic)
	if err != nil {
		return 0, errs.Wrap(err)
	}
	offset, ok := listed.Lookup(topic, partition)
	if !ok {
		return 0, errs.New("kgotransport: no offset listed for %s/%d at timestamp %d", topic, partition, timestampMillis)
	}
	if offset.Err != nil {
		return 0, errs.Wrap(offset.Err)
	}
	return offset.Offset, nil
}

func (c *Client) EarliestOffset(ctx context.Context, topic string, partition int32) (int64, error) {
	listed, err := c.admin.ListStartOffsets(ctx, topic)
	if err != nil {
		return 0, errs.Wrap(err)
	}
	offset, ok := listed.Lookup(topic, partition)
	if !ok {
		return 0, errs.New("kgotransport: no start offset listed for %s/%d", topic, partition)
	}
	return offset.Offset, offset.Err
}

func (c *Client) LatestOffset(ctx context.Context, topic string, partition int32) (int64, error) {
	listed, err := c.admin.ListEndOffsets(ctx, topic)
	if err != nil {
		return 0, errs.Wrap(err)
	}
	offset, ok := listed.Lookup(topic, partition)
	if !ok {
		return 0, errs.New("kgotransport: no end offset listed for %s/%d", topic, partition)
	}
	return offset.Offset, offset.Err
}

func (c *Client) Close() error {
	c.kc.Close()
	return nil
}

func toKgoRecord(topic string, partition int32, rec kme.Record) *kgo.Record {
	value := rec.Envelope
	headers := []kgo.RecordHeader{
		{Key: "message_type", Value: []byte{byte(value.MessageType)}},
	}
	return &kgo.Record{
		Topic:     topic,
		Partition: partition,
		Key:       kme.KeyPrefix(value.MessageType, rec.Key),
		Value:     kme.EncodeProducerMetadata(value.ProducerMetadata),
		Headers:   headers,
	}
}

func fromKgoRecord(r *kgo.Record) (kme.Record, error) {
	msgType, key, err := kme.SplitKeyPrefix(r.Key)
	if err != nil {
		return kme.Record{}, fmt.Errorf("kgotransport: %w", err)
	}
	meta, err := kme.DecodeProducerMetadata(r.Value)
	if err != nil {
		return kme.Record{}, fmt.Errorf("kgotransport: %w", err)
	}
	return kme.Record{
		Topic:     r.Topic,
		Partition: r.Partition,
		Offset:    r.Offset,
		Key:       key,
		Envelope: kme.Envelope{
			MessageType:      msgType,
			ProducerMetadata: meta,
		},
	}, nil
}
