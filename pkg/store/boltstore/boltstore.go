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

// Package boltstore is the boltdb-backed implementation of store.Store,
// grounded on the corpus's own use of boltdb for durable local state
// (certificate/authorization's NewDB("bolt://...")). Each partition gets
// its own bucket, holding the partition's data and a single checkpoint key, and
// CommitBatch relies on bolt's single-writer-transaction semantics to make
// the data-plus-checkpoint commit atomic, satisfying spec.md Invariant 1.
package boltstore

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/boltdb/bolt"
	"github.com/zeebo/errs"

	"github.com/linkedin/venice/pkg/store"
)

var checkpointKey = []byte("__checkpoint__")

// BoltStore opens one *bolt.DB per store-version under dir, lazily, and
// hands out per-partition handles backed by a bucket within that DB.
type BoltStore struct {
	dir string

	mu  sync.Mutex
	dbs map[string]*bolt.DB
}

// New returns a Store rooted at dir. dir is created, if absent, when the
// first partition is opened.
func New(dir string) *BoltStore {
	return &BoltStore{dir: dir, dbs: make(map[string]*bolt.DB)}
}

func (s *BoltStore) dbFor(storeName string, version int) (*bolt.DB, error) {
	key := fmt.Sprintf("%s_v%d", storeName, version)

	s.mu.Lock()
	defer s.mu.Unlock()
	if db, ok := s.dbs[key]; ok {
		return db, nil
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, errs.Wrap(err)
	}
	path := filepath.Join(s.dir, key+".db")
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, errs.Wrap(err)
	}
	s.dbs[key] = db
	return db, nil
}

// Partition implements store.Store.
func (s *BoltStore) Partition(storeName string, version, partition int) (store.PartitionStore, error) {
	db, err := s.dbFor(storeName, version)
	if err != nil {
		return nil, err
	}
	bucket := []byte(fmt.Sprintf("p%d", partition))
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucket)
		return err
	}); err != nil {
		return nil, errs.Wrap(err)
	}
	return &partitionStore{db: db, bucket: bucket}, nil
}

// Close closes every underlying *bolt.DB this Store has opened.
func (s *BoltStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var group errs.Group
	for _, db := range s.dbs {
		group.Add(db.Close())
	}
	return group.Err()
}

type partitionStore struct {
	db     *bolt.DB
	bucket []byte
}

func (p *partitionStore) CommitBatch(b store.Batch) error {
	return p.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(p.bucket)
		for _, e := range b.Entries {
			if e.Value == nil {
				if err := bucket.Delete(e.Key); err != nil {
					return err
				}
				continue
			}
			if err := bucket.Put(e.Key, e.Value); err != nil {
				return err
			}
		}
		return bucket.Put(checkpointKey, b.Checkpoint)
	})
}

func (p *partitionStore) Get(key []byte) ([]byte, bool, error) {
	var value []byte
	err := p.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(p.bucket).Get(key)
		if v != nil {
			value = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, false, errs.Wrap(err)
	}
	return value, value != nil, nil
}

func (p *partitionStore) LoadCheckpoint() ([]byte, error) {
	var cp []byte
	err := p.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(p.bucket).Get(checkpointKey)
		if v != nil {
			cp = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, errs.Wrap(err)
	}
	return cp, nil
}

func (p *partitionStore) Close() error {
	// The underlying *bolt.DB is shared across partitions of the same
	// store-version; it is closed by BoltStore.Close, not here.
	return nil
}
