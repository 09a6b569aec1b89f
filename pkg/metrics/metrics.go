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

// Package metrics publishes the ingestion core's user-visible counters
// (spec.md §7: records-in, records-persisted, records-dropped-duplicate,
// bytes-persisted, rewind-triggered) through monkit, matching the
// corpus's own metrics dependency (gopkg.in/spacemonkeygo/monkit.v2).
package metrics

import (
	monkit "gopkg.in/spacemonkeygo/monkit.v2"
)

var mon = monkit.Package()

// PartitionCounters are the counters one Partition Ingestor reports.
// monkit counters are process-wide call sites; PartitionCounters wraps
// them so callers don't sprinkle monkit.Package() calls throughout
// pkg/ingestor, matching the corpus's convention of a package-level mon
// plus small typed wrappers around it.
type PartitionCounters struct {
	recordsIn        *monkit.Counter
	recordsPersisted *monkit.Counter
	recordsDropped   *monkit.Counter
	bytesPersisted   *monkit.Counter
	rewindTriggered  *monkit.Counter
}

// NewPartitionCounters returns a wrapper for one Partition Ingestor. Every
// wrapper increments the same process-wide monkit counters, so the totals
// are summed across all partitions rather than kept per partition.
func NewPartitionCounters() *PartitionCounters {
	return &PartitionCounters{
		recordsIn:        mon.Counter("records_in"),
		recordsPersisted: mon.Counter("records_persisted"),
		recordsDropped:   mon.Counter("records_dropped_duplicate"),
		bytesPersisted:   mon.Counter("bytes_persisted"),
		rewindTriggered:  mon.Counter("rewind_triggered"),
	}
}

func (c *PartitionCounters) RecordIn()             { c.recordsIn.Inc(1) }
func (c *PartitionCounters) RecordPersisted(n int)  { c.recordsPersisted.Inc(1); c.bytesPersisted.Inc(int64(n)) }
func (c *PartitionCounters) RecordDroppedDuplicate() { c.recordsDropped.Inc(1) }
func (c *PartitionCounters) RewindTriggered()        { c.rewindTriggered.Inc(1) }
