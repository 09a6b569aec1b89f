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

// Package consumerpool implements the Shared Consumer Pool of spec.md
// §4.5: a process-wide pool of upstream-log consumers, sized
// consumer_pool_size_per_cluster, that partitions subscribe to and
// unsubscribe from dynamically, with fair-share delivery and
// queue-depth-based backpressure.
//
// The relationship between the pool and partition ingestors is message
// passing, not shared ownership (spec.md §9): an ingestor holds a
// Subscription handle; the pool holds a registry of per-partition
// bounded queues and never reaches back into an ingestor.
package consumerpool

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/linkedin/venice/pkg/kafkatransport"
	"github.com/linkedin/venice/pkg/kme"
)

// DefaultQueueCapacity is the default bounded size of a partition's
// delivery queue (spec.md §5 "partition_queue_capacity").
const DefaultQueueCapacity = 64

// ClientFactory creates one underlying kafkatransport.Client for a
// cluster. The pool calls it up to size times per cluster, per
// consumer_pool_size_per_cluster (spec.md §6).
type ClientFactory func() (kafkatransport.Client, error)

type tp struct {
	topic     string
	partition int32
}

// Subscription is the handle a partition ingestor holds on the pool. It
// is scoped to exactly one topic/partition (spec.md §9 resource scoping).
type Subscription struct {
	pool      *Pool
	cluster   string
	tp        tp
	clientIdx int
	queue     chan []kme.Record
}

// Records returns the channel the partition ingestor's drainer task
// selects on for delivered records.
func (s *Subscription) Records() <-chan []kme.Record { return s.queue }

// Close unsubscribes and releases the queue.
func (s *Subscription) Close() {
	s.pool.unsubscribe(s)
}

// Pool is the process-wide Shared Consumer Pool.
type Pool struct {
	log  *zap.Logger
	size int

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	clusters map[string][]kafkatransport.Client
	subs     map[string]map[tp]*Subscription // cluster -> tp -> subscription
	nextIdx  map[string]int                  // round-robin cursor per cluster
}

// New returns a Pool that creates up to size underlying clients per
// cluster it is asked to serve (consumer_pool_size_per_cluster, default
// 3, per spec.md §6). Close stops every poll loop spawned by the pool
// (spec.md §5's cooperative cancellation at the upstream-read suspension
// point).
func New(log *zap.Logger, size int) *Pool {
	if size <= 0 {
		size = 3
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		log:      log,
		size:     size,
		ctx:      ctx,
		cancel:   cancel,
		clusters: make(map[string][]kafkatransport.Client),
		subs:     make(map[string]map[tp]*Subscription),
		nextIdx:  make(map[string]int),
	}
}

// Close cancels every underlying client's poll loop. It does not close the
// underlying kafkatransport.Client handles themselves; callers that own
// those (via ClientFactory) are responsible for closing them.
func (p *Pool) Close() {
	p.cancel()
}

// Subscribe registers a partition with the pool, assigning it round-robin
// to one of the cluster's underlying clients (creating clients lazily, up
// to size), and begins delivering records from startOffset.
func (p *Pool) Subscribe(cluster string, newClient ClientFactory, topic string, partition int32, startOffset int64) (*Subscription, error) {
	p.mu.Lock()
	clients := p.clusters[cluster]
	if len(clients) < p.size {
		for len(clients) < p.size {
			c, err := newClient()
			if err != nil {
				p.mu.Unlock()
				return nil, fmt.Errorf("consumerpool: creating client for cluster %s: %w", cluster, err)
			}
			clients = append(clients, c)
			idx := len(clients) - 1
			go p.pollLoop(p.ctx, cluster, idx, c)
		}
		p.clusters[cluster] = clients
	}

	idx := p.nextIdx[cluster] % len(clients)
	p.nextIdx[cluster] = idx + 1

	key := tp{topic, partition}
	sub := &Subscription{
		pool:      p,
		cluster:   cluster,
		tp:        key,
		clientIdx: idx,
		queue:     make(chan []kme.Record, DefaultQueueCapacity),
	}
	if p.subs[cluster] == nil {
		p.subs[cluster] = make(map[tp]*Subscription)
	}
	p.subs[cluster][key] = sub
	client := clients[idx]
	p.mu.Unlock()

	if err := client.AddConsumePartitions(map[string]map[int32]int64{topic: {partition: startOffset}}); err != nil {
		return nil, fmt.Errorf("consumerpool: subscribing %s/%d: %w", topic, partition, err)
	}
	return sub, nil
}

func (p *Pool) unsubscribe(sub *Subscription) {
	p.mu.Lock()
	client := p.clusters[sub.cluster][sub.clientIdx]
	delete(p.subs[sub.cluster], sub.tp)
	p.mu.Unlock()

	client.RemoveConsumePartitions(map[string][]int32{sub.tp.topic: {sub.tp.partition}})
}

// pollLoop runs for the lifetime of one underlying client, fanning
// delivered fetches out to the subscribed partition's bounded queue and
// applying backpressure when a queue is full (spec.md §4.5). It exits
// once ctx (the pool's own cancellation context) is done, so Pool.Close
// stops every poll loop the pool has spawned.
func (p *Pool) pollLoop(ctx context.Context, cluster string, idx int, client kafkatransport.Client) {
	for {
		fetches, err := client.PollFetches(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			p.log.Warn("consumerpool: poll failed, retrying", zap.String("cluster", cluster), zap.Error(err))
			continue
		}
		for _, f := range fetches {
			p.deliver(cluster, idx, client, tp{f.Topic, f.Partition}, f.Records)
		}
		if ctx.Err() != nil {
			return
		}
	}
}

func (p *Pool) deliver(cluster string, idx int, client kafkatransport.Client, key tp, records []kme.Record) {
	p.mu.Lock()
	sub, ok := p.subs[cluster][key]
	p.mu.Unlock()
	if !ok {
		return // unsubscribed since the fetch was issued; drop.
	}

	select {
	case sub.queue <- records:
		return
	default:
	}

	// Queue is full: pause this partition's subscription so one slow
	// drainer cannot starve the others sharing this client (spec.md
	// §4.5 "fair-share delivery"), then block until there's room and
	// resume.
	client.PauseFetchPartitions(map[string][]int32{key.topic: {key.partition}})
	p.log.Debug("consumerpool: backpressure applied", zap.String("topic", key.topic), zap.Int32("partition", key.partition))
	sub.queue <- records
	client.ResumeFetchPartitions(map[string][]int32{key.topic: {key.partition}})
}
