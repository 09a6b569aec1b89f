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

package kme

import (
	"encoding/binary"

	"github.com/zeebo/errs"
)

// ProtocolVersion is this binary's envelope schema version. spec.md §6's
// "KME protocol upgrade" invariant: an ingestor whose ProtocolVersion is
// strictly older than the version a producer advertises must fail fast.
const ProtocolVersion = 3

// ErrProtocolVersion classifies a decode against a newer wire version than
// this binary understands.
var ErrProtocolVersion = errs.Class("kme: protocol version")

// EncodeProducerMetadata writes the fixed-width producer-metadata header
// fields (spec.md §6). This mirrors sarama's packetEncoder layering: the
// envelope header is a small, explicit binary format; the opaque
// payload_union is left to a schema registry client the core never
// imports (see DESIGN.md's standard-library justification for pkg/kme).
func EncodeProducerMetadata(m ProducerMetadata) []byte {
	buf := make([]byte, 16+4+4+8+1+8)
	copy(buf[0:16], m.GUID[:])
	binary.BigEndian.PutUint32(buf[16:20], uint32(m.SegmentNumber))
	binary.BigEndian.PutUint32(buf[20:24], uint32(m.MessageSequenceNumber))
	binary.BigEndian.PutUint64(buf[24:32], uint64(m.MessageTimestamp))
	if m.HasUpstreamOffset {
		buf[32] = 1
	}
	binary.BigEndian.PutUint64(buf[33:41], uint64(m.UpstreamOffset))
	return buf
}

// DecodeProducerMetadata is the inverse of EncodeProducerMetadata.
func DecodeProducerMetadata(buf []byte) (ProducerMetadata, error) {
	const want = 16 + 4 + 4 + 8 + 1 + 8
	if len(buf) < want {
		return ProducerMetadata{}, errs.New("kme: producer metadata header truncated: got %d bytes, want %d", len(buf), want)
	}
	var m ProducerMetadata
	copy(m.GUID[:], buf[0:16])
	m.SegmentNumber = int32(binary.BigEndian.Uint32(buf[16:20]))
	m.MessageSequenceNumber = int32(binary.BigEndian.Uint32(buf[20:24]))
	m.MessageTimestamp = int64(binary.BigEndian.Uint64(buf[24:32]))
	m.HasUpstreamOffset = buf[32] != 0
	m.UpstreamOffset = int64(binary.BigEndian.Uint64(buf[33:41]))
	return m, nil
}

// EncodeLeaderFooter writes the leader metadata footer (spec.md §4.3),
// or nil if f is nil.
func EncodeLeaderFooter(f *LeaderMetadataFooter) []byte {
	if f == nil {
		return nil
	}
	buf := make([]byte, 8+4)
	binary.BigEndian.PutUint64(buf[0:8], uint64(f.UpstreamOffset))
	binary.BigEndian.PutUint32(buf[8:12], uint32(f.UpstreamTopicID))
	return buf
}

// DecodeLeaderFooter is the inverse of EncodeLeaderFooter. A nil/empty buf
// decodes to a nil footer (no footer present).
func DecodeLeaderFooter(buf []byte) (*LeaderMetadataFooter, error) {
	if len(buf) == 0 {
		return nil, nil
	}
	if len(buf) < 12 {
		return nil, errs.New("kme: leader footer truncated: got %d bytes, want 12", len(buf))
	}
	return &LeaderMetadataFooter{
		UpstreamOffset:  int64(binary.BigEndian.Uint64(buf[0:8])),
		UpstreamTopicID: int32(binary.BigEndian.Uint32(buf[8:12])),
	}, nil
}

// KeyPrefix encodes the {message_type, key_bytes} wire key layout of
// spec.md §6.
func KeyPrefix(t MessageType, key []byte) []byte {
	buf := make([]byte, 1+len(key))
	buf[0] = byte(t)
	copy(buf[1:], key)
	return buf
}

// SplitKeyPrefix is the inverse of KeyPrefix.
func SplitKeyPrefix(wireKey []byte) (MessageType, []byte, error) {
	if len(wireKey) < 1 {
		return 0, nil, errs.New("kme: empty wire key")
	}
	return MessageType(wireKey[0]), wireKey[1:], nil
}

// CheckProtocolVersion implements spec.md §6's KME protocol upgrade
// invariant.
func CheckProtocolVersion(producerVersion int) error {
	if producerVersion > ProtocolVersion {
		return ErrProtocolVersion.New("ingestor understands envelope v%d, producer advertises v%d", ProtocolVersion, producerVersion)
	}
	return nil
}
