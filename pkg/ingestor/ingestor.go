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

// Package ingestor implements the Partition Ingestor of spec.md §4.1: the
// per-partition Leader/Follower state machine that ties the Shared
// Consumer Pool, the DIV Validator, the Control Message Interpreter and
// the Version-Topic Producer together around one durable local store
// handle.
//
// The drainer goroutine (run) is grounded on the retrieved
// go-kafka-event-source reference's partitionWorker: a single task
// selecting over a small set of channels (records, role transitions,
// shutdown), with no locking needed over the state it owns exclusively
// (spec.md §5).
package ingestor

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/linkedin/venice/pkg/consumerpool"
	"github.com/linkedin/venice/pkg/control"
	"github.com/linkedin/venice/pkg/controlplane"
	"github.com/linkedin/venice/pkg/div"
	"github.com/linkedin/venice/pkg/ingerrors"
	"github.com/linkedin/venice/pkg/kafkatransport"
	"github.com/linkedin/venice/pkg/kme"
	"github.com/linkedin/venice/pkg/membership"
	"github.com/linkedin/venice/pkg/metrics"
	"github.com/linkedin/venice/pkg/retry"
	"github.com/linkedin/venice/pkg/status"
	"github.com/linkedin/venice/pkg/store"
	"github.com/linkedin/venice/pkg/vtproducer"
)

// State is one of the Partition Ingestor's L/F states (spec.md §4.1).
type State int

const (
	StateBootstrap State = iota
	StateFollowerConsumingVT
	StateLeaderCatchupVT
	StateLeaderConsumingUpstream
	StateCompletedBatch
	StateErrored
)

func (s State) String() string {
	switch s {
	case StateBootstrap:
		return "BOOTSTRAP"
	case StateFollowerConsumingVT:
		return "FOLLOWER_CONSUMING_VT"
	case StateLeaderCatchupVT:
		return "LEADER_CATCHUP_VT"
	case StateLeaderConsumingUpstream:
		return "LEADER_CONSUMING_UPSTREAM"
	case StateCompletedBatch:
		return "COMPLETED_BATCH"
	case StateErrored:
		return "ERRORED"
	default:
		return "UNKNOWN"
	}
}

// DefaultStopDrainBudget is stop(drain=false)'s abort timeout (spec.md §5).
const DefaultStopDrainBudget = 30 * time.Second

// Deps are a Partition Ingestor's collaborators, all supplied by the
// caller (typically cmd/venice-ingestion-server's bootstrap) so that
// tests can substitute kafkatest/memstore/statichelix fakes.
type Deps struct {
	StoreName     string
	Version       int
	Partition     int32
	NumPartitions int32
	Cluster       string // upstream cluster name this partition's VT and (initially) upstream live on

	Store         store.PartitionStore
	Oracle        membership.RoleOracle
	Lifecycle     controlplane.VersionLifecycleSource
	Pool          *consumerpool.Pool
	ClientFactory consumerpool.ClientFactory // builds a kafkatransport.Client for Cluster

	// VTProduceClient is a dedicated client used only for re-producing
	// into the version topic and for resolving offsets during catch-up
	// and rewind. It is only exercised once this replica is LEADER.
	VTProduceClient kafkatransport.Client
	LeaderGUID      kme.ProducerGUID

	Metrics *metrics.PartitionCounters
	Status  *status.Reporter
	Log     *zap.Logger

	PromotionDelay              time.Duration
	ChecksumVerificationEnabled bool
	Hybrid                      bool // store-version declares streaming acceptance after EOP
}

// Ingestor is one partition's Leader/Follower state machine.
type Ingestor struct {
	deps      Deps
	validator *div.Validator
	control   *control.Interpreter
	vtTopic   string

	state          State
	localVTOffset  int64
	upstreamTopic  string
	upstreamOffset int64
	afterEndOfPush bool
	hybrid         bool
	pendingSwitch  *kme.UpstreamSwitch
	switchHistory  []TopicSwitchRecord
	incremental    map[string]bool
	catchupTarget  int64
	passThrough    bool

	vtProducer *vtproducer.Producer
	vtSub      *consumerpool.Subscription
	upSub      *consumerpool.Subscription
	roleSub    membership.Subscription

	// initialRole and externalRole exist only for leaves wired into an
	// AmplifiedGroup (spec.md §9 Open Question 2): such a leaf has
	// deps.Oracle == nil and instead takes its role from the group's
	// single shared subscription.
	initialRole  membership.Role
	externalRole chan membership.Role

	cancel  context.CancelFunc
	stopped chan struct{}
	failure error
}

// New returns an Ingestor for one (store, version, partition), not yet
// started.
func New(deps Deps) *Ingestor {
	ig := &Ingestor{
		deps:          deps,
		validator:     div.NewValidator(deps.ChecksumVerificationEnabled),
		vtTopic:       kme.VersionTopic(deps.StoreName, deps.Version),
		state:         StateBootstrap,
		localVTOffset: -1,
		incremental:   make(map[string]bool),
		hybrid:        deps.Hybrid,
		externalRole:  make(chan membership.Role, 1),
	}
	ig.control = control.New(control.Hooks{
		OnStartOfPush:            ig.onStartOfPush,
		OnEndOfPush:              ig.onEndOfPush,
		OnUpstreamSwitch:         ig.onUpstreamSwitch,
		OnStartOfIncrementalPush: ig.onStartOfIncrementalPush,
		OnEndOfIncrementalPush:   ig.onEndOfIncrementalPush,
	})
	return ig
}

// Start loads the checkpoint, learns this replica's initial role and
// spawns the drainer task. Idempotent is satisfied at the caller level:
// calling Start twice on the same Ingestor value is not supported, mirror
// of how the corpus scopes one handle per resource (spec.md §9).
func (ig *Ingestor) Start(ctx context.Context) error {
	blob, err := ig.deps.Store.LoadCheckpoint()
	if err != nil {
		return ingerrors.Fatal.New("ingestor: loading checkpoint: %w", err)
	}
	cp, err := decodeCheckpoint(blob)
	if err != nil {
		return ingerrors.Fatal.New("ingestor: corrupt checkpoint: %w", err)
	}
	ig.localVTOffset = cp.LocalVTOffset
	ig.upstreamTopic = cp.UpstreamTopic
	ig.upstreamOffset = cp.UpstreamOffset
	ig.afterEndOfPush = cp.ReceivedEOP
	ig.hybrid = ig.hybrid || cp.Hybrid
	for _, l := range cp.CompletedIncremental {
		ig.incremental[l] = true
	}
	ig.switchHistory = cp.TopicSwitchHistory
	ig.validator.LoadCheckpoint(cp.DIVState)
	if ig.upstreamTopic == "" {
		ig.upstreamTopic = ig.vtTopic
	}

	var role membership.Role
	if ig.deps.Oracle != nil {
		var roleSub membership.Subscription
		var oerr error
		role, roleSub, oerr = ig.deps.Oracle.Subscribe(resourceName(ig.deps.StoreName, ig.deps.Version), int(ig.deps.Partition))
		if oerr != nil {
			return ingerrors.Fatal.New("ingestor: subscribing to membership oracle: %w", oerr)
		}
		ig.roleSub = roleSub
	} else {
		// Amplified leaf: role comes from the group's shared subscription
		// (spec.md §9 Open Question 2), not from an oracle this leaf owns.
		role = ig.initialRole
	}

	vtSub, err := ig.deps.Pool.Subscribe(ig.deps.Cluster, ig.deps.ClientFactory, ig.vtTopic, ig.deps.Partition, ig.localVTOffset+1)
	if err != nil {
		return ingerrors.Fatal.New("ingestor: subscribing to version topic: %w", err)
	}
	ig.vtSub = vtSub
	ig.passThrough = true

	if role == membership.RoleLeader {
		ig.enterCatchup(ctx)
	} else {
		ig.state = StateFollowerConsumingVT
	}
	ig.deps.Status.SetReplicaStatus(status.Bootstrapping)

	runCtx, cancel := context.WithCancel(ctx)
	ig.cancel = cancel
	ig.stopped = make(chan struct{})
	go ig.run(runCtx)
	return nil
}

func resourceName(storeName string, version int) string {
	return fmt.Sprintf("%s_v%d", storeName, version)
}

// enterCatchup transitions into LEADER_CATCHUP_VT and immediately checks
// whether there is anything to catch up on: a replica promoted after the
// version topic already reflects EndOfPush (e.g. a restart) must not wait
// for a fresh delivery to notice it can proceed straight to
// LEADER_CONSUMING_UPSTREAM.
func (ig *Ingestor) enterCatchup(ctx context.Context) {
	ig.state = StateLeaderCatchupVT
	if target, err := ig.deps.VTProduceClient.LatestOffset(ctx, ig.vtTopic, ig.deps.Partition); err == nil {
		ig.catchupTarget = target
	} else {
		ig.catchupTarget = ig.localVTOffset + 1
	}
	if ig.localVTOffset+1 >= ig.catchupTarget {
		ig.maybeAdvancePastCatchup(ctx)
	}
}

// Stop ends the drainer task. When drain is true it blocks until the
// in-flight batch commits (spec.md §5 "stop(drain=true) has no timeout").
// When false, it aborts after DefaultStopDrainBudget.
func (ig *Ingestor) Stop(drain bool) error {
	if ig.cancel == nil {
		return nil
	}
	ig.cancel()
	if drain {
		<-ig.stopped
		return ig.closeResources()
	}
	select {
	case <-ig.stopped:
	case <-time.After(DefaultStopDrainBudget):
		ig.deps.Log.Warn("ingestor: stop budget exceeded, abandoning in-flight produce acks")
	}
	return ig.closeResources()
}

// closeResources releases handles in the drop order spec.md §9 requires:
// producer, then subscription, then local-store handle last.
func (ig *Ingestor) closeResources() error {
	ig.vtProducer = nil
	if ig.upSub != nil {
		ig.upSub.Close()
		ig.upSub = nil
	}
	if ig.vtSub != nil {
		ig.vtSub.Close()
		ig.vtSub = nil
	}
	if ig.roleSub != nil {
		ig.roleSub.Close()
	}
	return ig.deps.Store.Close()
}

// State returns the ingestor's current state. Safe to call from any
// goroutine for observation/testing; the drainer is the sole writer.
func (ig *Ingestor) State() State { return ig.state }

// Failure returns the error that moved this ingestor to StateErrored, or
// nil.
func (ig *Ingestor) Failure() error { return ig.failure }

func (ig *Ingestor) run(ctx context.Context) {
	defer close(ig.stopped)

	var lifecycleCh <-chan controlplane.LifecycleEvent
	if ig.deps.Lifecycle != nil {
		lifecycleCh = ig.deps.Lifecycle.Events(ig.deps.StoreName, ig.deps.Version)
	}

	var promotionC <-chan time.Time

	for {
		var upCh <-chan []kme.Record
		if ig.upSub != nil {
			upCh = ig.upSub.Records()
		}
		var vtCh <-chan []kme.Record
		if ig.vtSub != nil {
			vtCh = ig.vtSub.Records()
		}

		var roleCh <-chan membership.Transition
		if ig.roleSub != nil {
			roleCh = ig.roleSub.Transitions()
		}

		select {
		case recs := <-vtCh:
			ig.handleDelivery(ctx, recs, true)
		case recs := <-upCh:
			ig.handleDelivery(ctx, recs, false)
		case ev, ok := <-lifecycleCh:
			if !ok {
				lifecycleCh = nil
				continue
			}
			ig.applyControl(ev.Control, nil, kme.ProducerMetadata{}, true)
		case tr := <-roleCh:
			promotionC = ig.onRoleChange(tr.Role, promotionC)
		case role := <-ig.externalRole:
			promotionC = ig.onRoleChange(role, promotionC)
		case <-promotionC:
			promotionC = nil
			ig.enterCatchup(ctx)
		case <-ctx.Done():
			return
		}
		if ig.state == StateErrored {
			ig.deps.Status.SetReplicaStatus(status.Error)
			ig.deps.Status.SetPushStatus(status.PushError)
			return
		}
	}
}

// onRoleChange applies one observed role to the ingestor and returns the
// promotion timer channel the caller's select loop should hold onto next
// (possibly unchanged, newly armed, or cancelled). Shared by the
// oracle-subscription path and the AmplifiedGroup fan-out path, since both
// ultimately just tell the ingestor "you are now LEADER/FOLLOWER".
func (ig *Ingestor) onRoleChange(role membership.Role, promotionC <-chan time.Time) <-chan time.Time {
	switch role {
	case membership.RoleLeader:
		if ig.state == StateFollowerConsumingVT || ig.state == StateBootstrap {
			delay := ig.deps.PromotionDelay
			if delay <= 0 {
				delay = time.Second
			}
			return time.After(delay)
		}
		return promotionC
	case membership.RoleFollower:
		ig.demote()
		return nil // a pending promotion is superseded by this demotion.
	default:
		return promotionC
	}
}

// applyExternalRole is called by an AmplifiedGroup to push a role it
// learned from its own, single shared subscription. It must never be
// called on an Ingestor whose Deps.Oracle is non-nil.
func (ig *Ingestor) applyExternalRole(role membership.Role) {
	select {
	case ig.externalRole <- role:
	default:
		// Drain and replace: only the freshest role matters, matching
		// statichelix.Oracle.Assign's own collapse-to-latest behavior.
		select {
		case <-ig.externalRole:
		default:
		}
		ig.externalRole <- role
	}
}

func (ig *Ingestor) demote() {
	ig.vtProducer = nil
	if ig.upSub != nil {
		ig.upSub.Close()
		ig.upSub = nil
	}
	if ig.vtSub == nil {
		// Catch-up/consuming-upstream closed vtSub (see applyPendingSwitch);
		// a follower always drains the version topic, so re-open it.
		sub, err := ig.deps.Pool.Subscribe(ig.deps.Cluster, ig.deps.ClientFactory, ig.vtTopic, ig.deps.Partition, ig.localVTOffset+1)
		if err != nil {
			ig.fail(ingerrors.Fatal.New("ingestor: re-subscribing to version topic on demotion: %w", err))
			return
		}
		ig.vtSub = sub
	}
	ig.passThrough = true
	ig.state = StateFollowerConsumingVT
	ig.deps.Status.SetReplicaStatus(status.Online)
}

// handleDelivery applies one batch of delivered records, committing them
// atomically with the updated checkpoint (spec.md Invariant 1). fromVT
// distinguishes a pass-through delivery (record already belongs to the
// version topic; no re-production) from a real-upstream delivery that the
// leader must re-produce before committing.
func (ig *Ingestor) handleDelivery(ctx context.Context, recs []kme.Record, fromVT bool) {
	var entries []store.Entry
	for _, rec := range recs {
		ig.deps.Metrics.RecordIn()

		var ctrl *kme.Control
		if c, ok := rec.Envelope.Payload.(*kme.Control); ok {
			ctrl = c
		}

		toCommit := rec
		if !fromVT {
			// Leader re-production: validate against the upstream
			// identity first (the stream the producer actually wrote),
			// then stamp with the leader's own identity on the way into
			// the version topic (spec.md §4.3 rule 1).
			action, err := ig.validator.Validate(rec.Envelope.ProducerMetadata, ctrl, payloadBytes(rec), ig.afterEndOfPush)
			if !ig.handleDIVResult(action, err) {
				return
			}
			if action == div.DropDuplicate {
				ig.deps.Metrics.RecordDroppedDuplicate()
				continue
			}
			var offset int64
			perr := retry.Do(ctx, retry.VersionTopicProduceFailed(), "version topic produce", func() error {
				var rerr error
				offset, rerr = ig.vtProducer.Republish(ctx, rec)
				return rerr
			})
			if perr != nil {
				ig.fail(perr)
				return
			}
			ig.upstreamOffset = rec.Offset
			ig.localVTOffset = offset
			toCommit.Offset = offset
		} else {
			action, err := ig.validator.Validate(rec.Envelope.ProducerMetadata, ctrl, payloadBytes(rec), ig.afterEndOfPush)
			if !ig.handleDIVResult(action, err) {
				return
			}
			if action == div.DropDuplicate {
				ig.deps.Metrics.RecordDroppedDuplicate()
				continue
			}
			ig.localVTOffset = rec.Offset
		}

		if ctrl != nil {
			ig.applyControl(*ctrl, &toCommit, toCommit.Envelope.ProducerMetadata, fromVT)
			continue
		}

		entry, ok := toEntry(toCommit)
		if ok {
			entries = append(entries, entry)
			ig.deps.Metrics.RecordPersisted(len(entry.Value))
		}
	}

	if err := retry.Do(ctx, retry.LocalStoreCommitFailed(), "local store commit", func() error {
		return ig.commit(entries)
	}); err != nil {
		ig.fail(err)
		return
	}

	if ig.state == StateLeaderCatchupVT && ig.localVTOffset+1 >= ig.catchupTarget {
		ig.maybeAdvancePastCatchup(ctx)
	}
}

// handleDIVResult interprets a DIV verdict. It returns false if the
// ingestor has transitioned to ERRORED and the caller must stop
// processing the current delivery.
func (ig *Ingestor) handleDIVResult(action div.Action, err error) bool {
	if action == div.Reject {
		ig.fail(err)
		return false
	}
	if err != nil {
		// Tolerated-but-logged (e.g. checksum mismatch after EndOfPush
		// with verification disabled).
		ig.deps.Log.Warn("ingestor: DIV tolerated error", zap.Error(err))
	}
	return true
}

func (ig *Ingestor) commit(entries []store.Entry) error {
	cp := Checkpoint{
		UpstreamTopic:        ig.upstreamTopic,
		UpstreamOffset:       ig.upstreamOffset,
		LocalVTOffset:        ig.localVTOffset,
		DIVState:             ig.validator.Snapshot(),
		ReceivedEOP:          ig.afterEndOfPush,
		Hybrid:               ig.hybrid,
		TopicSwitchHistory:   ig.switchHistory,
		CompletedIncremental: completedLabels(ig.incremental),
	}
	return ig.deps.Store.CommitBatch(store.Batch{Entries: entries, Checkpoint: encodeCheckpoint(cp)})
}

func completedLabels(m map[string]bool) []string {
	var out []string
	for l, done := range m {
		if done {
			out = append(out, l)
		}
	}
	return out
}

func (ig *Ingestor) fail(err error) {
	ig.state = StateErrored
	ig.failure = err
	ig.deps.Log.Error("ingestor: partition errored", zap.Error(err))
}

func payloadBytes(rec kme.Record) []byte {
	switch p := rec.Envelope.Payload.(type) {
	case *kme.Put:
		return p.Value
	case *kme.Update:
		return p.PartialValue
	default:
		return nil
	}
}

func toEntry(rec kme.Record) (store.Entry, bool) {
	switch p := rec.Envelope.Payload.(type) {
	case *kme.Put:
		return store.Entry{Key: p.Key, Value: p.Value}, true
	case *kme.Delete:
		return store.Entry{Key: p.Key, Value: nil}, true
	case *kme.Update:
		// Write-compute merge against the prior value is schema-dependent
		// and out of scope (spec.md §1 non-goal "schema evolution"); the
		// partial value is applied as the new value directly.
		return store.Entry{Key: p.Key, Value: p.PartialValue}, true
	default:
		return store.Entry{}, false
	}
}

// maybeAdvancePastCatchup transitions LEADER_CATCHUP_VT ->
// LEADER_CONSUMING_UPSTREAM once the replica has drained the version
// topic to the offset observed at promotion and has seen whichever of
// StartOfBufferReplay/TopicSwitch/EndOfPush applies (spec.md §4.1).
func (ig *Ingestor) maybeAdvancePastCatchup(ctx context.Context) {
	if ig.pendingSwitch == nil && !ig.afterEndOfPush {
		return
	}
	ig.state = StateLeaderConsumingUpstream
	ig.vtProducer = vtproducer.New(ig.deps.VTProduceClient, ig.vtTopic, ig.deps.Partition, ig.deps.LeaderGUID)
	ig.deps.Status.SetReplicaStatus(status.Online)

	if ig.pendingSwitch == nil {
		// Pass-through: the leader keeps reading its own version topic as
		// its upstream (spec.md §4.1 rule 1) until a switch arrives.
		return
	}
	ig.applyPendingSwitch(ctx)
}

func (ig *Ingestor) applyPendingSwitch(ctx context.Context) {
	sw := *ig.pendingSwitch
	ig.pendingSwitch = nil

	if ig.upSub != nil {
		ig.upSub.Close()
		ig.upSub = nil
	}
	if ig.passThrough && ig.vtSub != nil {
		// Past catch-up, the leader's upstream is now the real/switched
		// topic (spec.md §2: version topic "until EOP/TopicSwitch, then
		// the real-time or switched topic" -- not both). Leaving vtSub
		// open here would re-deliver the leader's own re-produced writes
		// back through handleDelivery(fromVT=true), double-applying them
		// and tripping DIV on the re-produced segment head. Close it; a
		// later demotion back to FOLLOWER_CONSUMING_VT re-subscribes.
		ig.vtSub.Close()
		ig.vtSub = nil
	}
	ig.passThrough = false

	startOffset, err := ig.resolveStartOffset(ctx, sw)
	if err != nil {
		ig.fail(ingerrors.Fatal.New("ingestor: resolving topic switch start offset: %w", err))
		return
	}

	sub, err := ig.deps.Pool.Subscribe(ig.deps.Cluster, ig.deps.ClientFactory, sw.NewTopic, ig.deps.Partition, startOffset)
	if err != nil {
		ig.fail(ingerrors.Fatal.New("ingestor: subscribing to upstream %s: %w", sw.NewTopic, err))
		return
	}
	ig.upSub = sub
	ig.upstreamTopic = sw.NewTopic
}

func (ig *Ingestor) resolveStartOffset(ctx context.Context, sw kme.UpstreamSwitch) (int64, error) {
	if sw.OffsetsByPartition != nil {
		if off, ok := sw.OffsetsByPartition[ig.deps.Partition]; ok {
			return off, nil
		}
	}
	if sw.HasRewindStartTimestamp {
		if sw.RewindStartTimestamp < 0 {
			return ig.deps.VTProduceClient.EarliestOffset(ctx, sw.NewTopic, ig.deps.Partition)
		}
		nowMillis := time.Now().UnixMilli()
		return ig.deps.VTProduceClient.OffsetForTimestamp(ctx, sw.NewTopic, ig.deps.Partition, nowMillis-sw.RewindStartTimestamp)
	}
	return ig.deps.VTProduceClient.EarliestOffset(ctx, sw.NewTopic, ig.deps.Partition)
}

// --- control.Hooks ---

func (ig *Ingestor) onStartOfPush(c *kme.Control) {
	ig.deps.Status.SetReplicaStatus(status.Bootstrapping)
	ig.deps.Status.SetPushStatus(status.Started)
}

func (ig *Ingestor) onEndOfPush() {
	ig.afterEndOfPush = true
	ig.deps.Status.SetPushStatus(status.EndOfPushReceived)
	if !ig.hybrid {
		ig.state = StateCompletedBatch
		ig.deps.Status.SetReplicaStatus(status.Completed)
		ig.deps.Status.SetPushStatus(status.PushCompleted)
	}
}

// onUpstreamSwitch records the normalized StartOfBufferReplay/TopicSwitch
// as the pending switch, overwriting any prior one: multiple TopicSwitch
// messages arriving consecutively collapse to the last (spec.md §4.1
// "Multiple TopicSwitch honoring").
func (ig *Ingestor) onUpstreamSwitch(sw kme.UpstreamSwitch) {
	ig.hybrid = true
	ig.pendingSwitch = &sw
	ig.switchHistory = append(ig.switchHistory, TopicSwitchRecord{
		NewUpstream:          sw.NewTopic,
		RewindStartTimestamp: sw.RewindStartTimestamp,
		SourceClusters:       sw.SourceClusters,
	})
	if ig.state == StateLeaderConsumingUpstream {
		ig.applyPendingSwitch(context.Background())
	}
}

func (ig *Ingestor) onStartOfIncrementalPush(label string) {
	ig.incremental[label] = false
	ig.deps.Status.BeginIncrementalPush(label)
}

func (ig *Ingestor) onEndOfIncrementalPush(label string) {
	ig.incremental[label] = true
	ig.deps.Status.CompleteIncrementalPush(label)
}

// applyControl runs a control record through DIV bookkeeping is already
// done by the caller for log-delivered records; this only runs the
// dispatch table. rec is nil for controller-sourced lifecycle events that
// never touched the log.
func (ig *Ingestor) applyControl(c kme.Control, rec *kme.Record, _ kme.ProducerMetadata, _ bool) {
	ig.control.Dispatch(&c)
}
