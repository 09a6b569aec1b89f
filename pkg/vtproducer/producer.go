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

// Package vtproducer implements the Version-Topic Producer of spec.md
// §4.3: the leader-only re-production of upstream records into the
// version topic, stamped with the leader's own producer identity and a
// leader metadata footer recording provenance.
package vtproducer

import (
	"context"
	"hash/fnv"

	"github.com/linkedin/venice/pkg/kafkatransport"
	"github.com/linkedin/venice/pkg/kme"
)

// Producer re-produces records a leader consumed from its upstream into
// one partition of a version topic.
type Producer struct {
	client    kafkatransport.Client
	topic     string
	partition int32
	guid      kme.ProducerGUID
	segment   int32
	nextSeq   int32
}

// New returns a Producer that writes to topic/partition using guid as its
// own producer identity (spec.md §4.3 rule 1: the version topic is a
// single-producer log per partition, distinct from whatever produced the
// upstream record).
func New(client kafkatransport.Client, topic string, partition int32, guid kme.ProducerGUID) *Producer {
	return &Producer{client: client, topic: topic, partition: partition, guid: guid, segment: 1, nextSeq: 1}
}

// Republish re-produces upstream (a data record or an upstream control
// record such as StartOfSegment; the ingestor passes both) into the
// version topic, preserving its payload byte-for-byte (pass-
// through compression, spec.md §4.3 rule 2) and attaching a leader
// metadata footer recording where it came from.
func (p *Producer) Republish(ctx context.Context, upstream kme.Record) (int64, error) {
	out := upstream
	out.Envelope.ProducerMetadata = kme.ProducerMetadata{
		GUID:                  p.guid,
		SegmentNumber:         p.segment,
		MessageSequenceNumber: p.nextSeq,
		MessageTimestamp:      upstream.Envelope.ProducerMetadata.MessageTimestamp,
		UpstreamOffset:        upstream.Offset,
		HasUpstreamOffset:     true,
	}
	out.Envelope.LeaderFooter = &kme.LeaderMetadataFooter{
		UpstreamOffset:  upstream.Offset,
		UpstreamTopicID: topicID(upstream.Topic),
	}

	offset, err := p.client.Produce(ctx, p.topic, p.partition, out)
	if err != nil {
		return 0, err
	}
	p.nextSeq++
	return offset, nil
}

// topicID derives a stable small identifier for a topic name, for the
// leader metadata footer's upstream_topic_id field (spec.md §6). The
// footer only needs enough fidelity to distinguish topics a given store-
// version could plausibly have switched between; a content hash suffices
// and avoids the ingestor having to maintain a topic name registry.
func topicID(topic string) int32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(topic))
	return int32(h.Sum32())
}
