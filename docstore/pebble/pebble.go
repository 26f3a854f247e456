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

// Package pebble implements a document store persisted in a Pebble
// key-value database.
package pebble

import (
	"encoding/binary"
	"encoding/json"
	"sync"

	"github.com/cockroachdb/pebble"
	"github.com/ligato/cn-infra/logging"
	"github.com/ligato/cn-infra/logging/logrus"
	"github.com/pkg/errors"

	"github.com/ligato/prefstore/docstore"
	"github.com/ligato/prefstore/pkg/prefs"
)

var (
	docKey = []byte("prefs/document")
	revKey = []byte("prefs/revision")
)

// Config holds the settings of a Pebble document store.
type Config struct {
	Dir string `json:"dir"`
}

// Client is a document store backed by a Pebble database. The document
// and its revision counter are written in a single atomic batch.
type Client struct {
	db  *pebble.DB
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

// NewClient opens the Pebble database in the given directory, creating
// it if needed.
func NewClient(cfg *Config) (*Client, error) {
	db, err := pebble.Open(cfg.Dir, &pebble.Options{})
	if err != nil {
		return nil, errors.Wrapf(err, "opening pebble database %s failed", cfg.Dir)
	}
	c := &Client{
		db:       db,
		log:      logrus.DefaultLogger(),
		watchers: make(map[*watchReg]struct{}),
	}
	c.log.Debugf("pebble document store opened: %s", cfg.Dir)
	return c, nil
}

// Load implements docstore.Store.
func (c *Client) Load() (docstore.Snapshot, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return docstore.Snapshot{}, docstore.ErrStoreClosed
	}
	c.mu.Unlock()
	return c.readSnapshot()
}

// Update implements docstore.Store.
func (c *Client) Update(fn func(prefs.Document) (prefs.Document, error)) (docstore.Snapshot, error) {
	c.updateMu.Lock()
	defer c.updateMu.Unlock()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return docstore.Snapshot{}, docstore.ErrStoreClosed
	}
	c.mu.Unlock()

	cur, err := c.readSnapshot()
	if err != nil {
		return docstore.Snapshot{}, err
	}
	newDoc, err := fn(cur.Doc)
	if err != nil {
		return docstore.Snapshot{}, err
	}
	data, err := json.Marshal(newDoc)
	if err != nil {
		return docstore.Snapshot{}, errors.Wrap(err, "encoding document failed")
	}
	snap := docstore.Snapshot{Doc: newDoc, Rev: cur.Rev + 1}

	batch := c.db.NewBatch()
	if err := batch.Set(docKey, data, nil); err != nil {
		return docstore.Snapshot{}, err
	}
	if err := batch.Set(revKey, itob(snap.Rev), nil); err != nil {
		return docstore.Snapshot{}, err
	}
	if err := c.db.Apply(batch, pebble.Sync); err != nil {
		return docstore.Snapshot{}, errors.Wrap(err, "committing batch failed")
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

func (c *Client) readSnapshot() (docstore.Snapshot, error) {
	var snap docstore.Snapshot

	raw, closer, err := c.db.Get(revKey)
	if err == nil {
		snap.Rev = btoi(raw)
		closer.Close()
	} else if err != pebble.ErrNotFound {
		return docstore.Snapshot{}, errors.Wrap(err, "reading revision failed")
	}

	raw, closer, err = c.db.Get(docKey)
	if err == pebble.ErrNotFound {
		return snap, nil
	} else if err != nil {
		return docstore.Snapshot{}, errors.Wrap(err, "reading document failed")
	}
	defer closer.Close()
	if err := json.Unmarshal(raw, &snap.Doc); err != nil {
		return docstore.Snapshot{}, errors.Wrap(err, "decoding document failed")
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
