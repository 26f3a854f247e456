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
	"context"
	"sync"

	"github.com/ligato/cn-infra/logging"
	"github.com/ligato/cn-infra/logging/logrus"
	"github.com/pkg/errors"

	"github.com/ligato/prefstore/docstore"
	"github.com/ligato/prefstore/docstore/mem"
	"github.com/ligato/prefstore/pkg/prefs"
)

// Store is a named preference store. All writes are serialized through
// a single mutex, asynchronous writes are tracked as pending tokens,
// and committed snapshots are diffed into per-key change events fanned
// out to subscribers.
type Store struct {
	name string
	log  logging.Logger
	db   docstore.Store

	// writeMu serializes all writes, synchronous and asynchronous.
	writeMu sync.Mutex

	// pendingMu guards the registry of in-flight asynchronous writes.
	pendingMu    sync.Mutex
	pending      map[uint64]*PendingWrite
	nextWriteID  uint64
	writesClosed bool

	// mu guards subscriptions, listeners, the collector and the
	// closed flag.
	mu        sync.Mutex
	subs      map[uint64]*Subscription
	nextSubID uint64
	listeners map[ChangeListener]struct{}
	legacySub *Subscription
	collector *collector
	closed    bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	commitCount uint64 // accessed atomically
	eventCount  uint64 // accessed atomically

	// construction-time configuration, set by options
	backendFactory func(name string) (docstore.Store, error)
	legacyFile     string
}

// New creates a preference store with the given name. Without options
// the store keeps its document in memory only; use WithBackend or
// WithBackendFactory to persist it. The store owns its backend and
// closes it on Close.
func New(name string, opts ...Option) (*Store, error) {
	s := &Store{
		name:      name,
		pending:   make(map[uint64]*PendingWrite),
		subs:      make(map[uint64]*Subscription),
		listeners: make(map[ChangeListener]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logrus.DefaultLogger()
	}
	if s.backendFactory == nil {
		s.backendFactory = func(string) (docstore.Store, error) {
			return mem.NewStore(), nil
		}
	}
	db, err := s.backendFactory(name)
	if err != nil {
		return nil, errors.Wrapf(err, "opening backend for store %q failed", name)
	}
	s.db = db
	s.ctx, s.cancel = context.WithCancel(context.Background())

	if s.legacyFile != "" {
		if err := s.importLegacyFile(s.legacyFile); err != nil {
			db.Close()
			return nil, err
		}
	}

	s.log.WithFields(logging.Fields{"store": name}).Debug("preference store created")
	return s, nil
}

// Name returns the name the store was created with.
func (s *Store) Name() string {
	return s.name
}

// Preferences returns the typed accessor facade over the store.
func (s *Store) Preferences() *Preferences {
	return &Preferences{store: s}
}

// Document waits out all pending asynchronous writes and returns the
// committed document.
func (s *Store) Document(ctx context.Context) (prefs.Document, error) {
	if err := s.DrainPending(ctx); err != nil {
		return prefs.Document{}, err
	}
	if s.isClosed() {
		return prefs.Document{}, ErrStoreClosed
	}
	snap, err := s.db.Load()
	if err != nil {
		return prefs.Document{}, err
	}
	return snap.Doc, nil
}

// Has waits out all pending asynchronous writes and tells whether the
// key is present.
func (s *Store) Has(ctx context.Context, key string) (bool, error) {
	doc, err := s.Document(ctx)
	if err != nil {
		return false, err
	}
	return doc.Has(key), nil
}

// Close stops the collector, cancels all subscriptions, waits for the
// store goroutines to finish and closes the backend. Asynchronous
// writes still in flight fail with the backend's closed error. Close
// is idempotent.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	for _, sub := range s.subs {
		close(sub.quit)
	}
	s.subs = make(map[uint64]*Subscription)
	s.legacySub = nil
	s.listeners = make(map[ChangeListener]struct{})
	reportSubscriptions(s.name, 0)
	if s.collector != nil {
		s.stopCollectorLocked()
	}
	s.mu.Unlock()

	s.pendingMu.Lock()
	s.writesClosed = true
	s.pendingMu.Unlock()

	s.cancel()
	s.wg.Wait()

	err := s.db.Close()
	s.log.WithFields(logging.Fields{"store": s.name}).Debug("preference store closed")
	return err
}

func (s *Store) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
