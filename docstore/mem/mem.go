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

// Package mem implements a document store kept entirely in memory,
// useful for tests and for preferences that do not need to survive
// a restart.
package mem

import (
	"sync"

	"github.com/ligato/prefstore/docstore"
	"github.com/ligato/prefstore/pkg/prefs"
)

// memStore implements docstore.Store on top of a plain map guarded by
// a mutex. Snapshots are immutable documents, readers never block
// writers for long.
type memStore struct {
	mu       sync.Mutex
	doc      prefs.Document
	rev      int64
	watchers map[*watchReg]struct{}
	closed   bool

	// notifyMu keeps post-commit notifications in commit order even
	// after mu is released.
	notifyMu sync.Mutex
}

type watchReg struct {
	store *memStore
	ch    chan<- docstore.Snapshot
	done  chan struct{}
}

// NewStore returns an empty in-memory document store.
func NewStore() docstore.Store {
	return &memStore{
		watchers: make(map[*watchReg]struct{}),
	}
}

func (s *memStore) Load() (docstore.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return docstore.Snapshot{}, docstore.ErrStoreClosed
	}
	return docstore.Snapshot{Doc: s.doc, Rev: s.rev}, nil
}

func (s *memStore) Update(fn func(prefs.Document) (prefs.Document, error)) (docstore.Snapshot, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return docstore.Snapshot{}, docstore.ErrStoreClosed
	}
	newDoc, err := fn(s.doc)
	if err != nil {
		s.mu.Unlock()
		return docstore.Snapshot{}, err
	}
	s.doc = newDoc
	s.rev++
	snap := docstore.Snapshot{Doc: s.doc, Rev: s.rev}
	regs := make([]*watchReg, 0, len(s.watchers))
	for reg := range s.watchers {
		regs = append(regs, reg)
	}
	s.notifyMu.Lock()
	s.mu.Unlock()

	for _, reg := range regs {
		select {
		case reg.ch <- snap:
		case <-reg.done:
		}
	}
	s.notifyMu.Unlock()
	return snap, nil
}

func (s *memStore) Watch(ch chan<- docstore.Snapshot) (docstore.WatchRegistration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, docstore.ErrStoreClosed
	}
	reg := &watchReg{
		store: s,
		ch:    ch,
		done:  make(chan struct{}),
	}
	s.watchers[reg] = struct{}{}
	return reg, nil
}

func (s *memStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	for reg := range s.watchers {
		close(reg.done)
	}
	s.watchers = nil
	return nil
}

// Close cancels the watch. Pending deliveries to the watch channel are
// aborted rather than waited for.
func (r *watchReg) Close() error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.watchers[r]; !ok {
		return nil
	}
	delete(r.store.watchers, r)
	close(r.done)
	return nil
}
