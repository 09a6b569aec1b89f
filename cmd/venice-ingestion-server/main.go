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

// Command venice-ingestion-server bootstraps a Partition Ingestor for
// every partition of one store-version and keeps them running until the
// process is asked to stop. One process serves one store-version; a
// deployment runs one process per store-version it needs to host.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	uuid "github.com/satori/go.uuid"
	"go.uber.org/zap"

	"github.com/linkedin/venice/pkg/consumerpool"
	"github.com/linkedin/venice/pkg/ingestor"
	"github.com/linkedin/venice/pkg/kafkatransport"
	"github.com/linkedin/venice/pkg/kafkatransport/kgotransport"
	"github.com/linkedin/venice/pkg/kme"
	"github.com/linkedin/venice/pkg/membership"
	"github.com/linkedin/venice/pkg/membership/statichelix"
	"github.com/linkedin/venice/pkg/metrics"
	"github.com/linkedin/venice/pkg/process"
	"github.com/linkedin/venice/pkg/status"
	"github.com/linkedin/venice/pkg/store"
	"github.com/linkedin/venice/pkg/store/boltstore"
)

// Config is this server's bound flags/environment (VENICE_ prefix).
type Config struct {
	StoreName           string `usage:"store name this server ingests"`
	Version             int    `default:"1" usage:"store-version number"`
	NumPartitions       int    `default:"1" usage:"user partition count"`
	AmplificationFactor int    `default:"1" usage:"sub-partitions per user partition"`

	// LeaderPartitions stands in for a real cluster manager's role feed:
	// the set of user partitions this process currently leads, fed in by
	// whatever external system performs leader election (spec.md §1 non-goal).
	// Every other partition starts, and stays, FOLLOWER until the process
	// is restarted with a different assignment.
	LeaderPartitions string `default:"" usage:"comma-separated user partitions this process leads"`

	Cluster          string `default:"local" usage:"upstream cluster name this store-version's partitions live on"`
	SeedBrokers      string `default:"localhost:9092" usage:"comma-separated seed broker addresses for Cluster"`
	ConsumerPoolSize int    `default:"3" usage:"consumer_pool_size_per_cluster"`

	BoltDir string `default:"/var/lib/venice/ingestion" usage:"directory holding this server's boltdb files"`

	Hybrid                      bool `default:"false" usage:"store-version accepts streaming writes after EndOfPush"`
	ChecksumVerificationEnabled bool `default:"true" usage:"verify EndOfSegment checksums"`
	PromotionDelaySeconds       int  `default:"1" usage:"delay before acting on a FOLLOWER to LEADER promotion"`
}

func main() {
	cfg := &Config{}
	cmd := &cobra.Command{
		Use:   "venice-ingestion-server",
		Short: "Leader/Follower ingestion core for one store-version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cfg)
		},
	}
	process.Bind(cmd, cfg)
	if err := process.Exec(cmd); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *Config) error {
	if cfg.StoreName == "" {
		return fmt.Errorf("venice-ingestion-server: --store-name is required")
	}

	log, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("venice-ingestion-server: building logger: %w", err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	seedBrokers := splitCSV(cfg.SeedBrokers)
	clientFactory := func() (kafkatransport.Client, error) {
		return kgotransport.New(seedBrokers)
	}

	pool := consumerpool.New(log, cfg.ConsumerPoolSize)
	boltStore := boltstore.New(cfg.BoltDir)
	defer boltStore.Close()

	resource := resourceName(cfg.StoreName, cfg.Version)
	oracle := statichelix.New()
	for p := range parsePartitionSet(cfg.LeaderPartitions) {
		oracle.Assign(resource, p, membership.RoleLeader)
	}

	promotionDelay := time.Duration(cfg.PromotionDelaySeconds) * time.Second

	leaderGUIDRaw, err := uuid.NewV4()
	if err != nil {
		return fmt.Errorf("venice-ingestion-server: generating leader producer guid: %w", err)
	}
	leaderGUID := kme.ProducerGUID(leaderGUIDRaw)

	groups, leaves, err := buildIngestors(cfg, log, boltStore, oracle, pool, clientFactory, promotionDelay, leaderGUID)
	if err != nil {
		return err
	}

	for _, g := range groups {
		if err := g.Start(ctx); err != nil {
			return fmt.Errorf("venice-ingestion-server: starting amplified group: %w", err)
		}
	}
	for _, ig := range leaves {
		if err := ig.Start(ctx); err != nil {
			return fmt.Errorf("venice-ingestion-server: starting partition ingestor: %w", err)
		}
	}
	log.Info("venice-ingestion-server: started",
		zap.String("store", cfg.StoreName), zap.Int("version", cfg.Version),
		zap.Int("partitions", cfg.NumPartitions), zap.Int("amplification_factor", cfg.AmplificationFactor))

	<-ctx.Done()
	log.Info("venice-ingestion-server: stopping")

	for _, g := range groups {
		if err := g.Stop(true); err != nil {
			log.Warn("venice-ingestion-server: amplified group stop error", zap.Error(err))
		}
	}
	for _, ig := range leaves {
		if err := ig.Stop(true); err != nil {
			log.Warn("venice-ingestion-server: partition ingestor stop error", zap.Error(err))
		}
	}
	return nil
}

// buildIngestors constructs one Ingestor per physical partition. When
// AmplificationFactor > 1, each user partition's leaf ingestors are
// wired into an ingestor.AmplifiedGroup instead of subscribing to the
// RoleOracle independently (DESIGN.md Open Question 2).
func buildIngestors(cfg *Config, log *zap.Logger, st store.Store, oracle membership.RoleOracle, pool *consumerpool.Pool, clientFactory consumerpool.ClientFactory, promotionDelay time.Duration, leaderGUID kme.ProducerGUID) ([]*ingestor.AmplifiedGroup, []*ingestor.Ingestor, error) {
	resource := resourceName(cfg.StoreName, cfg.Version)
	factor := cfg.AmplificationFactor
	if factor <= 0 {
		factor = 1
	}

	if factor == 1 {
		var leaves []*ingestor.Ingestor
		for p := 0; p < cfg.NumPartitions; p++ {
			deps, err := newDeps(cfg, log, st, p, pool, clientFactory, promotionDelay, leaderGUID)
			if err != nil {
				return nil, nil, err
			}
			deps.Oracle = oracle
			leaves = append(leaves, ingestor.New(deps))
		}
		return nil, leaves, nil
	}

	var groups []*ingestor.AmplifiedGroup
	for userPartition := 0; userPartition < cfg.NumPartitions; userPartition++ {
		var leafIngestors []*ingestor.Ingestor
		for sub := 0; sub < factor; sub++ {
			physical := userPartition*factor + sub
			deps, err := newDeps(cfg, log, st, physical, pool, clientFactory, promotionDelay, leaderGUID)
			if err != nil {
				return nil, nil, err
			}
			leafIngestors = append(leafIngestors, ingestor.New(deps))
		}
		group, err := ingestor.NewAmplifiedGroup(resource, userPartition, oracle, leafIngestors)
		if err != nil {
			return nil, nil, fmt.Errorf("venice-ingestion-server: building amplified group for partition %d: %w", userPartition, err)
		}
		groups = append(groups, group)
	}
	return groups, nil, nil
}

func newDeps(cfg *Config, log *zap.Logger, st store.Store, partition int, pool *consumerpool.Pool, clientFactory consumerpool.ClientFactory, promotionDelay time.Duration, leaderGUID kme.ProducerGUID) (ingestor.Deps, error) {
	partStore, err := st.Partition(cfg.StoreName, cfg.Version, partition)
	if err != nil {
		return ingestor.Deps{}, fmt.Errorf("venice-ingestion-server: opening store for partition %d: %w", partition, err)
	}
	vtProduceClient, err := clientFactory()
	if err != nil {
		return ingestor.Deps{}, fmt.Errorf("venice-ingestion-server: building version-topic produce client for partition %d: %w", partition, err)
	}
	return ingestor.Deps{
		StoreName:                   cfg.StoreName,
		Version:                     cfg.Version,
		Partition:                   int32(partition),
		NumPartitions:               int32(cfg.NumPartitions),
		Cluster:                     cfg.Cluster,
		Store:                       partStore,
		Pool:                        pool,
		ClientFactory:               clientFactory,
		VTProduceClient:             vtProduceClient,
		LeaderGUID:                  leaderGUID,
		Metrics:                     metrics.NewPartitionCounters(),
		Status:                      status.NewReporter(),
		Log:                         log.With(zap.String("store", cfg.StoreName), zap.Int("version", cfg.Version), zap.Int("partition", partition)),
		PromotionDelay:              promotionDelay,
		ChecksumVerificationEnabled: cfg.ChecksumVerificationEnabled,
		Hybrid:                      cfg.Hybrid,
	}, nil
}

func resourceName(storeName string, version int) string {
	return fmt.Sprintf("%s_v%d", storeName, version)
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parsePartitionSet(s string) map[int]bool {
	out := make(map[int]bool)
	for _, p := range splitCSV(s) {
		n, err := strconv.Atoi(p)
		if err != nil {
			continue
		}
		out[n] = true
	}
	return out
}
