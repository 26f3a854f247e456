// Copyright (c) 2018 Cisco and/or its affiliates.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at:
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package bolt implements a document store persisted in a Bolt
// database file.
package bolt

import (
	"encoding/binary"
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/boltdb/bolt"
	"github.com/ligato/cn-infra/logging"
	"github.com/ligato/cn-infra/logging/logrus"
	"github.com/pkg/errors"

	"github.com/ligato/prefstore/docstore"
	"github.com/ligato/prefstore/pkg/prefs"
)

var (
	rootBucket = []byte("prefs")
	docKey     = []byte("document")
	revKey     = []byte("revision")
)

// Config holds the settings of a Bolt document store.
type Config struct {
	DbPath      string        `json:"db-path"`
	FileMode    os.FileMode   `json:"file-mode"`
	LockTimeout time.Duration `json:"lock-timeout"`
}

// Client is a document store backed by a single Bolt database file.
// The whole document is stored as one JSON entry next to its revision
// counter, both inside the same bucket.
type Client struct {
	db  *bolt.DB
	cfg Config
	log logging.Logger

	// updateMu serializes commits together with their watcher
	// notifications so that snapshots arrive in commit order.
	updateMu sync.Mutex

	mu       sync.Mutex
	watchers map[*watchReg]struct{}
	closed   bool
}

type watchReg struct {
	client *Client
	ch     chan<- docstore.Snapshot
	done   chan struct{}
}

// NewClient opens the Bolt database file, creating it if needed.
func NewClient(cfg *Config) (*Client, error) {
	c := &Client{
		cfg:      *cfg,
		log:      logrus.DefaultLogger(),
		watchers: make(map[*watchReg]struct{}),
	}
	if c.cfg.FileMode == 0 {
		c.cfg.FileMode = 0660
	}
	if c.cfg.LockTimeout == 0 {
		c.cfg.LockTimeout = time.Second
	}
	db, err := bolt.Open(c.cfg.DbPath, c.cfg.FileMode, &bolt.Options{
		Timeout: c.cfg.LockTimeout,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "opening bolt file %s failed", c.cfg.DbPath)
	}
	c.db = db
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(rootBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "initializing bolt bucket failed")
	}
	c.log.Debugf("bolt document store opened: %s", c.cfg.DbPath)
	return c, nil
}

// Load implements docstore.Store.
func (c *Client) Load() (docstore.Snapshot, error) {
	var snap docstore.Snapshot
	err := c.db.View(func(tx *bolt.Tx) error {
		var err error
		snap, err = readSnapshot(tx)
		return err
	})
	if err != nil {
		return docstore.Snapshot{}, err
	}
	return snap, nil
}

// Update implements docstore.Store.
func (c *Client) Update(fn func(prefs.Document) (prefs.Document, error)) (docstore.Snapshot, error) {
	c.updateMu.Lock()
	defer c.updateMu.Unlock()

	var snap docstore.Snapshot
	err := c.db.Update(func(tx *bolt.Tx) error {
		cur, err := readSnapshot(tx)
		if err != nil {
			return err
		}
		newDoc, err := fn(cur.Doc)
		if err != nil {
			return err
		}
		data, err := json.Marshal(newDoc)
		if err != nil {
			return errors.Wrap(err, "encoding document failed")
		}
		bucket := tx.Bucket(rootBucket)
		if err := bucket.Put(docKey, data); err != nil {
			return err
		}
		snap = docstore.Snapshot{Doc: newDoc, Rev: cur.Rev + 1}
		return bucket.Put(revKey, itob(snap.Rev))
	})
	if err != nil {
		return docstore.Snapshot{}, err
	}
	c.bumpWatchers(snap)
	return snap, nil
}

// Watch implements docstore.Store.
func (c *Client) Watch(ch chan<- docstore.Snapshot) (docstore.WatchRegistration, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, docstore.ErrStoreClosed
	}
	reg := &watchReg{
		client: c,
		ch:     ch,
		done:   make(chan struct{}),
	}
	c.watchers[reg] = struct{}{}
	return reg, nil
}

// Close implements docstore.Store.
func (c *Client) Close() error {
	c.updateMu.Lock()
	defer c.updateMu.Unlock()
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	for reg := range c.watchers {
		close(reg.done)
	}
	c.watchers = nil
	c.mu.Unlock()
	return c.db.Close()
}

func (r *watchReg) Close() error {
	r.client.mu.Lock()
	defer r.client.mu.Unlock()
	if _, ok := r.client.watchers[r]; !ok {
		return nil
	}
	delete(r.client.watchers, r)
	close(r.done)
	return nil
}

func (c *Client) bumpWatchers(snap docstore.Snapshot) {
	c.mu.Lock()
	regs := make([]*watchReg, 0, len(c.watchers))
	for reg := range c.watchers {
		regs = append(regs, reg)
	}
	c.mu.Unlock()

	for _, reg := range regs {
		select {
		case reg.ch <- snap:
		case <-reg.done:
		}
	}
}

func readSnapshot(tx *bolt.Tx) (docstore.Snapshot, error) {
	bucket := tx.Bucket(rootBucket)
	if bucket == nil {
		return docstore.Snapshot{}, errors.Errorf("bucket %q does not exist", rootBucket)
	}
	var snap docstore.Snapshot
	if raw := bucket.Get(revKey); raw != nil {
		snap.Rev = btoi(raw)
	}
	if raw := bucket.Get(docKey); raw != nil {
		if err := json.Unmarshal(raw, &snap.Doc); err != nil {
			return docstore.Snapshot{}, errors.Wrap(err, "decoding document failed")
		}
	}
	return snap, nil
}

func itob(v int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(v))
	return b
}

func btoi(b []byte) int64 {
	if len(b) != 8 {
		return 0
	}
	return int64(binary.BigEndian.Uint64(b))
}
