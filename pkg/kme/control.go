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

// ControlMessageType tags which control sub-variant a Control payload
// carries (spec.md §3/§4.4).
type ControlMessageType uint8

const (
	ControlStartOfPush ControlMessageType = iota
	ControlEndOfPush
	ControlStartOfBufferReplay
	ControlTopicSwitch
	ControlStartOfIncrementalPush
	ControlEndOfIncrementalPush
	ControlStartOfSegment
	ControlEndOfSegment
)

func (t ControlMessageType) String() string {
	switch t {
	case ControlStartOfPush:
		return "StartOfPush"
	case ControlEndOfPush:
		return "EndOfPush"
	case ControlStartOfBufferReplay:
		return "StartOfBufferReplay"
	case ControlTopicSwitch:
		return "TopicSwitch"
	case ControlStartOfIncrementalPush:
		return "StartOfIncrementalPush"
	case ControlEndOfIncrementalPush:
		return "EndOfIncrementalPush"
	case ControlStartOfSegment:
		return "StartOfSegment"
	case ControlEndOfSegment:
		return "EndOfSegment"
	default:
		return "UnknownControl"
	}
}

// Compression is the codec a StoreVersion was pushed with (spec.md §3).
type Compression uint8

const (
	CompressionNone Compression = iota
	CompressionGzip
	CompressionZstd
	CompressionZstdWithDict
)

// Control is the Payload implementation for every control sub-variant.
// Fields not relevant to Type are left zero. Modeled as one flat struct
// rather than a sub-hierarchy (spec.md §9 polymorphism note): control
// messages are rare and small, so the flat-struct cost is negligible and
// the Control Message Interpreter's dispatch stays a single switch.
type Control struct {
	Type ControlMessageType

	// StartOfPush
	Sorted         bool
	Chunking       bool
	CompressionFmt Compression
	Dictionary     []byte

	// StartOfBufferReplay
	SourceTopic              string
	SourceOffsetsByPartition map[int32]int64

	// TopicSwitch
	SourceClusters       []string
	NewTopic             string
	RewindStartTimestamp int64 // rewind in millis before now; -1 means "earliest offset"

	// StartOfIncrementalPush / EndOfIncrementalPush
	IncrementalPushVersion string

	// EndOfSegment
	FinalChecksum uint32
}

func (*Control) payload() {}

// UpstreamSwitch is StartOfBufferReplay and TopicSwitch normalized into
// a single shape the ingestor's upstream-selection logic (spec.md §4.1,
// DESIGN.md Open Question 1) can apply uniformly: last-control-message-wins.
type UpstreamSwitch struct {
	NewTopic string
	// OffsetsByPartition is set when the switch originated from a
	// StartOfBufferReplay (exact per-partition offsets supplied).
	OffsetsByPartition map[int32]int64
	// RewindStartTimestamp is set when the switch originated from a
	// TopicSwitch (rewind by wall-clock offset; -1 means earliest).
	RewindStartTimestamp    int64
	HasRewindStartTimestamp bool
	SourceClusters          []string
}

// AsUpstreamSwitch converts a StartOfBufferReplay or TopicSwitch Control
// into the normalized UpstreamSwitch shape. It returns ok=false for any
// other control type.
func (c *Control) AsUpstreamSwitch() (UpstreamSwitch, bool) {
	switch c.Type {
	case ControlStartOfBufferReplay:
		return UpstreamSwitch{
			NewTopic:            c.SourceTopic,
			OffsetsByPartition:  c.SourceOffsetsByPartition,
		}, true
	case ControlTopicSwitch:
		return UpstreamSwitch{
			NewTopic:                c.NewTopic,
			RewindStartTimestamp:    c.RewindStartTimestamp,
			HasRewindStartTimestamp: true,
			SourceClusters:          c.SourceClusters,
		}, true
	default:
		return UpstreamSwitch{}, false
	}
}
