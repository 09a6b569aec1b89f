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

package ingestor

import (
	"context"
	"fmt"

	"github.com/linkedin/venice/pkg/membership"
)

// AmplifiedGroup is the answer to DESIGN.md Open Question 2: a
// StoreVersion declaring amplification_factor > 1 splits one user
// partition into that many leaf partitions, all sharing the user
// partition's leader assignment rather than electing independently
// (spec.md §9). AmplifiedGroup subscribes to the RoleOracle exactly once,
// for the user partition, and fans the observed role out to every leaf
// Ingestor it was constructed with — no leaf ever calls Oracle.Subscribe
// itself.
type AmplifiedGroup struct {
	userPartition int
	leaves        []*Ingestor
	sub           membership.Subscription
	cancel        context.CancelFunc
}

// NewAmplifiedGroup wires leaves (one per amplification_factor sub-
// partition of userPartition) to a single RoleOracle subscription. resource
// is the same resource name a non-amplified Ingestor would subscribe with
// (spec.md §9 "resourceName"); leaves must have been constructed with
// Deps.Oracle left nil, since this group supplies their role instead of
// each leaf subscribing independently.
func NewAmplifiedGroup(resource string, userPartition int, oracle membership.RoleOracle, leaves []*Ingestor) (*AmplifiedGroup, error) {
	role, sub, err := oracle.Subscribe(resource, userPartition)
	if err != nil {
		return nil, fmt.Errorf("ingestor: amplified group subscribing to oracle: %w", err)
	}
	for _, leaf := range leaves {
		leaf.deps.Oracle = nil // each leaf's role now comes only from this group.
		leaf.initialRole = role
	}
	return &AmplifiedGroup{userPartition: userPartition, leaves: leaves, sub: sub}, nil
}

// Start starts every leaf ingestor and begins fanning role transitions
// from the shared subscription out to all of them.
func (g *AmplifiedGroup) Start(ctx context.Context) error {
	for _, leaf := range g.leaves {
		if err := leaf.Start(ctx); err != nil {
			return err
		}
	}
	runCtx, cancel := context.WithCancel(ctx)
	g.cancel = cancel
	go g.fanOut(runCtx)
	return nil
}

func (g *AmplifiedGroup) fanOut(ctx context.Context) {
	for {
		select {
		case tr := <-g.sub.Transitions():
			for _, leaf := range g.leaves {
				leaf.applyExternalRole(tr.Role)
			}
		case <-ctx.Done():
			return
		}
	}
}

// Stop stops every leaf and releases the shared subscription.
func (g *AmplifiedGroup) Stop(drain bool) error {
	if g.cancel != nil {
		g.cancel()
	}
	g.sub.Close()
	var firstErr error
	for _, leaf := range g.leaves {
		if err := leaf.Stop(drain); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
