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

package prefstore

import (
	"sync/atomic"

	"github.com/ligato/cn-infra/logging"

	"github.com/ligato/prefstore/docstore"
	"github.com/ligato/prefstore/pkg/prefs"
)

// ChangeEvent describes one change derived from two consecutive
// document snapshots. Doc is the full document after the change.
// When Cleared is false, Key names the added, modified or removed key
// (the empty string is a valid key). Cleared=true marks a bulk change
// with no key detail: the document became empty while more than one
// key was removed at once.
type ChangeEvent struct {
	Doc     prefs.Document
	Key     string
	Cleared bool
}

// DefaultWatchBuffer is the size of the channel between the backend
// watch and the collector.
var DefaultWatchBuffer = 16

// collector consumes committed snapshots from the backend watch,
// diffs each one against the retained snapshot and hands the derived
// events to the broadcast hub. The retained snapshot is owned by the
// collector goroutine alone.
type collector struct {
	store *Store

	watchCh chan docstore.Snapshot
	reg     docstore.WatchRegistration
	quit    chan struct{}

	// ready is closed once the baseline snapshot is retained; from
	// that point on every commit produces events.
	ready chan struct{}

	retained    prefs.Document
	retainedRev int64
}

// startCollectorLocked starts the collector goroutine. Called with
// s.mu held when the subscription count goes from zero to one.
func (s *Store) startCollectorLocked() error {
	ch := make(chan docstore.Snapshot, DefaultWatchBuffer)
	reg, err := s.db.Watch(ch)
	if err != nil {
		return err
	}
	c := &collector{
		store:   s,
		watchCh: ch,
		reg:     reg,
		quit:    make(chan struct{}),
		ready:   make(chan struct{}),
	}
	s.collector = c
	s.wg.Add(1)
	go c.run()
	s.log.WithFields(logging.Fields{"store": s.name}).Debug("change collector started")
	return nil
}

// stopCollectorLocked cancels the backend watch and signals the
// collector goroutine to exit. Called with s.mu held when the last
// subscription goes away or the store closes.
func (s *Store) stopCollectorLocked() {
	c := s.collector
	s.collector = nil
	close(c.quit)
	if err := c.reg.Close(); err != nil {
		s.log.WithFields(logging.Fields{"store": s.name}).Warn("closing backend watch failed: ", err)
	}
	s.log.WithFields(logging.Fields{"store": s.name}).Debug("change collector stopped")
}

func (c *collector) run() {
	s := c.store
	defer s.wg.Done()

	// The watch is registered already, so no commit can slip through
	// unseen; writes in flight at startup are waited out and the
	// baseline snapshot makes their watch duplicates recognizable.
	if err := s.DrainPending(s.ctx); err != nil {
		return
	}
	baseline, err := s.db.Load()
	if err != nil {
		s.log.WithFields(logging.Fields{"store": s.name}).Error("loading baseline snapshot failed: ", err)
		return
	}
	c.retained = baseline.Doc
	c.retainedRev = baseline.Rev
	close(c.ready)

	for {
		select {
		case <-c.quit:
			return
		case <-s.ctx.Done():
			return
		default:
		}
		select {
		case <-c.quit:
			return
		case <-s.ctx.Done():
			return
		case snap := <-c.watchCh:
			if snap.Rev <= c.retainedRev {
				continue
			}
			c.process(snap)
		}
	}
}

// process diffs the new snapshot against the retained one, publishes
// the derived events and retains the new snapshot.
func (c *collector) process(snap docstore.Snapshot) {
	s := c.store
	events, stats := diffDocuments(c.retained, snap.Doc)
	for i := range events {
		s.publish(c, events[i])
	}
	if n := len(events); n > 0 {
		atomic.AddUint64(&s.eventCount, uint64(n))
		reportChangeEvents(s.name, stats)
	}
	c.retained = snap.Doc
	c.retainedRev = snap.Rev
}

// diffStats counts emitted events per change kind.
type diffStats struct {
	added    int
	modified int
	removed  int
	cleared  int
}

// diffDocuments derives change events from the transition of prev to
// cur. Events carry cur as their document. Keys are visited in sorted
// order, additions and modifications first, removals after.
//
// A transition to an empty document is ambiguous: it can be a bulk
// clear or the removal of the last keys one cannot tell apart from the
// document alone. The policy is: when exactly one key disappeared, it
// is reported as a keyed removal; when more than one disappeared, a
// single Cleared event is emitted.
func diffDocuments(prev, cur prefs.Document) ([]ChangeEvent, diffStats) {
	var stats diffStats

	if cur.Len() == 0 {
		switch prev.Len() {
		case 0:
			return nil, stats
		case 1:
			stats.removed = 1
			return []ChangeEvent{{Doc: cur, Key: prev.Keys()[0]}}, stats
		default:
			stats.cleared = 1
			return []ChangeEvent{{Doc: cur, Cleared: true}}, stats
		}
	}

	var events []ChangeEvent
	for _, key := range cur.Keys() {
		newVal, _ := cur.Get(key)
		oldVal, existed := prev.Get(key)
		if !existed {
			stats.added++
			events = append(events, ChangeEvent{Doc: cur, Key: key})
		} else if !oldVal.Equal(newVal) {
			stats.modified++
			events = append(events, ChangeEvent{Doc: cur, Key: key})
		}
	}
	for _, key := range prev.Keys() {
		if !cur.Has(key) {
			stats.removed++
			events = append(events, ChangeEvent{Doc: cur, Key: key})
		}
	}
	return events, stats
}
