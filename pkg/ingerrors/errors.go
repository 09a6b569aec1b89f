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

// Package ingerrors classifies the errors the ingestion core can raise,
// per spec.md §7. Each row of the error-kind table is an errs.Class,
// mirroring the corpus's errs.Class("...") / .New(...) idiom (see e.g.
// certificate/rpcerrs/log_test.go's unauthenticatedClass/notFoundClass
// pattern).
package ingerrors

import "github.com/zeebo/errs"

var (
	// Fatal classifies errors that take a partition replica offline
	// (spec.md §4.1 "Errors"): corrupt checkpoint, unknown schema id with
	// auto-register disabled, a segment gap before EndOfPush, a checksum
	// mismatch on a batch push, or exhausted produce/commit retries.
	Fatal = errs.Class("ingestion fatal")

	// Transient classifies errors the ingestor retries with backoff:
	// upstream unavailable, a local store commit failure before the
	// retry budget is exhausted.
	Transient = errs.Class("ingestion transient")

	// DuplicateRecord is never returned as an error to a caller — DIV
	// drops duplicates silently (spec.md §4.2) — but is exposed as a
	// sentinel so callers that want to distinguish "dropped, not an
	// error" from "applied" can do so without inspecting counters.
	DuplicateRecord = errs.Class("duplicate record")

	// DataMissing classifies a DIV sequence-number gap (spec.md §4.2).
	// Whether it surfaces as Fatal or is tolerated depends on whether
	// EndOfPush has already been received for the segment's partition.
	DataMissing = errs.Class("segment gap")

	// ChecksumMismatch classifies an EndOfSegment checksum verification
	// failure. Fatal for batch pushes; logged-but-tolerated for hybrid
	// streams when database_checksum_verification_enabled is false.
	ChecksumMismatch = errs.Class("checksum mismatch")

	// SchemaIDUnknown classifies a record whose schema id the ingestor
	// cannot resolve.
	SchemaIDUnknown = errs.Class("schema id unknown")

	// ProtocolVersionTooOld is the "KME protocol upgrade" invariant of
	// spec.md §6: an ingestor whose envelope schema is strictly older
	// than the one advertised by producers must fail fast at startup.
	ProtocolVersionTooOld = errs.Class("envelope protocol version too old")
)
