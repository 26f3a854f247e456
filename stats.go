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
)

// Stats describes the runtime state of one store.
type Stats struct {
	Store            string `json:"store"`
	Revision         int64  `json:"revision"`
	Commits          uint64 `json:"commits"`
	ChangeEvents     uint64 `json:"change-events"`
	PendingWrites    int    `json:"pending-writes"`
	Subscriptions    int    `json:"subscriptions"`
	Listeners        int    `json:"listeners"`
	CollectorRunning bool   `json:"collector-running"`
}

// Stats returns a point-in-time view of the store internals, used by
// the REST inspection handlers and by tests.
func (s *Store) Stats() Stats {
	stats := Stats{
		Store:        s.name,
		Commits:      atomic.LoadUint64(&s.commitCount),
		ChangeEvents: atomic.LoadUint64(&s.eventCount),
	}
	if snap, err := s.db.Load(); err == nil {
		stats.Revision = snap.Rev
	}
	s.pendingMu.Lock()
	stats.PendingWrites = len(s.pending)
	s.pendingMu.Unlock()

	s.mu.Lock()
	stats.Subscriptions = len(s.subs)
	stats.Listeners = len(s.listeners)
	stats.CollectorRunning = s.collector != nil
	s.mu.Unlock()
	return stats
}
