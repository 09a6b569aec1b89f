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

// Package div implements Data Integrity Validation: per-producer-segment
// continuity checking over (guid, segment, seq), per spec.md §4.2.
package div

import (
	"hash/crc32"
	"sync"

	"github.com/linkedin/venice/pkg/ingerrors"
	"github.com/linkedin/venice/pkg/kme"
)

// Action is what the caller of Validate should do with the record.
type Action int

const (
	// Accept means the record should be persisted/forwarded.
	Accept Action = iota
	// DropDuplicate means the record's (guid, segment, seq) was already
	// applied; it must not be re-applied, per spec.md Invariant 5.
	DropDuplicate
	// Reject means the record violates segment continuity or its
	// checksum failed; Validate's error return classifies why and
	// whether it is tolerated.
	Reject
)

// segmentKey identifies one producer segment within a partition.
type segmentKey struct {
	guid    kme.ProducerGUID
	segment int32
}

type segmentState struct {
	nextExpectedSeq int32
	checksum        uint32
	sawStart        bool
	ended           bool
}

// Validator enforces DIV for a single partition. Its methods take an
// internal mutex, so concurrent calls are serialized; in normal operation
// the partition ingestor's drainer task is its only caller (spec.md §5).
type Validator struct {
	mu sync.Mutex // guards segments; held briefly, drainer is single-threaded but tests may poke concurrently

	segments map[segmentKey]*segmentState

	// ChecksumVerificationEnabled mirrors the store flag
	// database_checksum_verification_enabled (spec.md §4.2).
	ChecksumVerificationEnabled bool
}

// NewValidator returns an empty Validator. checksumVerification controls
// whether an EndOfSegment checksum mismatch is fatal for hybrid streams
// (it always is for batch pushes, before EndOfPush).
func NewValidator(checksumVerification bool) *Validator {
	return &Validator{
		segments:                    make(map[segmentKey]*segmentState),
		ChecksumVerificationEnabled: checksumVerification,
	}
}

// SegmentCheckpoint is the exported, serializable form of one segment's
// DIV state, for inclusion in the partition checkpoint tuple (spec.md §6's
// div_state_blob).
type SegmentCheckpoint struct {
	GUID            kme.ProducerGUID
	Segment         int32
	NextExpectedSeq int32
	Checksum        uint32
	Ended           bool
}

// Checkpoint is the full DIV state for one partition.
type Checkpoint []SegmentCheckpoint

// LoadCheckpoint restores DIV state from a persisted checkpoint
// (spec.md §6's div_state_blob), so that restarts resume continuity
// checking exactly where they left off rather than treating every
// producer as new.
func (v *Validator) LoadCheckpoint(cp Checkpoint) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.segments = make(map[segmentKey]*segmentState, len(cp))
	for _, s := range cp {
		v.segments[segmentKey{guid: s.GUID, segment: s.Segment}] = &segmentState{
			nextExpectedSeq: s.NextExpectedSeq,
			checksum:        s.Checksum,
			sawStart:        true,
			ended:           s.Ended,
		}
	}
}

// Snapshot returns the current DIV state for checkpointing.
func (v *Validator) Snapshot() Checkpoint {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make(Checkpoint, 0, len(v.segments))
	for k, s := range v.segments {
		out = append(out, SegmentCheckpoint{
			GUID:            k.guid,
			Segment:         k.segment,
			NextExpectedSeq: s.nextExpectedSeq,
			Checksum:        s.checksum,
			Ended:           s.ended,
		})
	}
	return out
}

// Validate applies DIV to one record's producer identity. payload is hashed
// into the segment's running checksum when non-nil (control messages other
// than StartOfSegment/EndOfSegment do not contribute to the checksum).
//
// afterEndOfPush tells the validator whether the batch phase for this
// partition has completed: gaps are fatal before EndOfPush and tolerated
// (as a fresh segment) after it, per spec.md §4.2.
func (v *Validator) Validate(meta kme.ProducerMetadata, control *kme.Control, payload []byte, afterEndOfPush bool) (Action, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	key := segmentKey{guid: meta.GUID, segment: meta.SegmentNumber}
	isStartOfSegment := control != nil && control.Type == kme.ControlStartOfSegment
	isEndOfSegment := control != nil && control.Type == kme.ControlEndOfSegment

	state, known := v.segments[key]
	if !known {
		if meta.MessageSequenceNumber != 1 || !isStartOfSegment {
			if !afterEndOfPush {
				return Reject, ingerrors.DataMissing.New("missing segment head for guid=%s segment=%d", meta.GUID, meta.SegmentNumber)
			}
			// After EndOfPush the validator tolerates a brand-new segment
			// starting mid-stream (spec.md §4.2 tolerance rule): treat
			// this record as an implicit segment start at whatever
			// sequence number it arrived with, rather than require seq==1.
			state = &segmentState{nextExpectedSeq: meta.MessageSequenceNumber, sawStart: true}
			v.segments[key] = state
		} else {
			state = &segmentState{nextExpectedSeq: 1, sawStart: true}
			v.segments[key] = state
			return v.advance(state, meta, control, payload, isEndOfSegment, afterEndOfPush)
		}
	}

	if meta.MessageSequenceNumber < state.nextExpectedSeq {
		return DropDuplicate, nil
	}
	if meta.MessageSequenceNumber > state.nextExpectedSeq {
		if afterEndOfPush {
			// Tolerated: treat as a fresh segment restart.
			state.nextExpectedSeq = meta.MessageSequenceNumber
			state.checksum = 0
		} else {
			return Reject, ingerrors.DataMissing.New("gap in guid=%s segment=%d: expected seq %d, got %d", meta.GUID, meta.SegmentNumber, state.nextExpectedSeq, meta.MessageSequenceNumber)
		}
	}

	return v.advance(state, meta, control, payload, isEndOfSegment, afterEndOfPush)
}

func (v *Validator) advance(state *segmentState, meta kme.ProducerMetadata, control *kme.Control, payload []byte, isEndOfSegment, afterEndOfPush bool) (Action, error) {
	state.nextExpectedSeq = meta.MessageSequenceNumber + 1
	if len(payload) > 0 {
		state.checksum = crc32.Update(state.checksum, crc32.IEEETable, payload)
	}

	if isEndOfSegment {
		state.ended = true
		if state.checksum != control.FinalChecksum {
			err := ingerrors.ChecksumMismatch.New("segment guid=%s segment=%d: computed %d, expected %d", meta.GUID, meta.SegmentNumber, state.checksum, control.FinalChecksum)
			// Fatal for batch pushes (before EndOfPush) always; for
			// hybrid streams (after EndOfPush) only when the store flag
			// requires it.
			if afterEndOfPush && !v.ChecksumVerificationEnabled {
				return Accept, err
			}
			return Reject, err
		}
	}

	return Accept, nil
}
