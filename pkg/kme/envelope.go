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

// Package kme defines the Kafka Message Envelope wire model: the key/value
// layout every record in a version topic or real-time topic carries, and the
// topic-naming conventions the ingestion core relies on to tell a version
// topic, a real-time topic and a stream-reprocessing topic apart.
package kme

import (
	"fmt"
	"strings"
)

// MessageType tags the envelope's payload union.
type MessageType uint8

const (
	MessageTypePut MessageType = iota
	MessageTypeDelete
	MessageTypeUpdate
	MessageTypeControl
)

func (t MessageType) String() string {
	switch t {
	case MessageTypePut:
		return "PUT"
	case MessageTypeDelete:
		return "DELETE"
	case MessageTypeUpdate:
		return "UPDATE"
	case MessageTypeControl:
		return "CONTROL"
	default:
		return fmt.Sprintf("MessageType(%d)", uint8(t))
	}
}

// ProducerGUID identifies the producer that wrote a segment. Real producer
// GUIDs are 16 bytes, matching the corpus's idempotent-producer identity
// fields (see init_producer_id_request.go's ProducerID/ProducerEpoch pair,
// generalized here to an opaque GUID per spec.md §3).
type ProducerGUID [16]byte

func (g ProducerGUID) String() string {
	return fmt.Sprintf("%x", [16]byte(g))
}

// ProducerMetadata is the per-record identity DIV validates continuity over.
type ProducerMetadata struct {
	GUID                  ProducerGUID
	SegmentNumber         int32
	MessageSequenceNumber int32
	MessageTimestamp      int64 // unix millis
	// UpstreamOffset is set by a leader re-producing a record into the
	// version topic; it records the offset the record held in whatever
	// topic the leader consumed it from.
	UpstreamOffset    int64
	HasUpstreamOffset bool
}

// LeaderMetadataFooter is appended by the Version-Topic Producer so that
// followers can reason about provenance of a re-produced record (spec.md
// §4.3).
type LeaderMetadataFooter struct {
	UpstreamOffset  int64
	UpstreamTopicID int32
}

// Envelope is the decoded KafkaMessageEnvelope value (spec.md §6). Payload
// holds exactly one of *Put, *Delete, *Update or *Control.
type Envelope struct {
	MessageType      MessageType
	ProducerMetadata ProducerMetadata
	Payload          Payload
	LeaderFooter     *LeaderMetadataFooter
}

// Payload is the marker interface implemented by Put, Delete, Update and
// Control. Modeled as a closed tagged variant rather than a class hierarchy,
// per spec.md §9's polymorphism note.
type Payload interface {
	payload()
}

// Put is a whole-value write.
type Put struct {
	Key      []byte
	Value    []byte
	SchemaID int32
}

func (*Put) payload() {}

// Delete removes a key.
type Delete struct {
	Key []byte
}

func (*Delete) payload() {}

// Update is a write-compute (partial update) payload.
type Update struct {
	Key          []byte
	PartialValue []byte
	SchemaID     int32
}

func (*Update) payload() {}

// Record is one delivered log entry: the envelope plus its log-transport
// coordinates. This is the ingestion core's record shape, grounded on
// sarama's ConsumerMessage (Headers/Timestamp/Key/Value/Topic/Partition/
// Offset) and on the kgo.Record shape used throughout the retrieved
// go-kafka-event-source reference.
type Record struct {
	Topic     string
	Partition int32
	Offset    int64
	Key       []byte
	Envelope  Envelope
}

// --- Topic naming (spec.md §6) ---

const (
	realTimeSuffix           = "_rt"
	streamReprocessingSuffix = "_sr"
	versionTopicInfix        = "_v"
)

// VersionTopic returns "<store>_v<n>".
func VersionTopic(store string, version int) string {
	return fmt.Sprintf("%s%s%d", store, versionTopicInfix, version)
}

// RealTimeTopic returns "<store>_rt".
func RealTimeTopic(store string) string {
	return store + realTimeSuffix
}

// StreamReprocessingTopic returns "<store>_v<n>_sr".
func StreamReprocessingTopic(store string, version int) string {
	return VersionTopic(store, version) + streamReprocessingSuffix
}

// IsRealTime decides topic identity by the _rt suffix, per spec.md §6.
func IsRealTime(topic string) bool {
	return strings.HasSuffix(topic, realTimeSuffix)
}

// IsStreamReprocessing reports whether topic is a "<store>_v<n>_sr" topic.
func IsStreamReprocessing(topic string) bool {
	return strings.HasSuffix(topic, streamReprocessingSuffix)
}

// StoreNameOf extracts the store name from a version topic, a real-time
// topic or a stream-reprocessing topic. It returns ok=false for a
// malformed topic name.
func StoreNameOf(topic string) (store string, ok bool) {
	switch {
	case IsStreamReprocessing(topic):
		topic = strings.TrimSuffix(topic, streamReprocessingSuffix)
		fallthrough
	case strings.Contains(topic, versionTopicInfix):
		idx := strings.LastIndex(topic, versionTopicInfix)
		if idx < 0 {
			return "", false
		}
		return topic[:idx], true
	case IsRealTime(topic):
		return strings.TrimSuffix(topic, realTimeSuffix), true
	default:
		return "", false
	}
}
