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
	"sync/atomic"
	"time"

	"github.com/ligato/cn-infra/logging"

	"github.com/ligato/prefstore/docstore"
	"github.com/ligato/prefstore/pkg/prefs"
)

// PendingWrite tracks one asynchronous write from submission to
// commit. The result is available once the Done channel is closed.
type PendingWrite struct {
	id   uint64
	done chan struct{}
	doc  prefs.Document
	err  error
}

// Done returns a channel closed when the write has been committed or
// has failed.
func (w *PendingWrite) Done() <-chan struct{} {
	return w.done
}

// Err returns the commit error once the write completed, nil for a
// successful write and ErrWritePending while the write is still in
// flight.
func (w *PendingWrite) Err() error {
	select {
	case <-w.done:
		return w.err
	default:
		return ErrWritePending
	}
}

// Wait blocks until the write completes or the context is cancelled.
// On success it returns the document as committed by this write.
func (w *PendingWrite) Wait(ctx context.Context) (prefs.Document, error) {
	select {
	case <-w.done:
		return w.doc, w.err
	case <-ctx.Done():
		return prefs.Document{}, ctx.Err()
	}
}

// Update synchronously replaces the document. All asynchronous writes
// pending at the time of the call are waited out first, then fn runs
// against the latest committed document under the write mutex. The
// committed document is returned; an error from fn or from the backend
// aborts the commit.
func (s *Store) Update(ctx context.Context, fn func(prefs.Document) (prefs.Document, error)) (prefs.Document, error) {
	if err := s.DrainPending(ctx); err != nil {
		return prefs.Document{}, err
	}
	if s.isClosed() {
		return prefs.Document{}, ErrStoreClosed
	}
	snap, err := s.commit(fn)
	if err != nil {
		return prefs.Document{}, err
	}
	return snap.Doc, nil
}

// UpdateAsync submits a write without waiting for it. The returned
// token reports completion; a failed commit is recorded on the token
// and logged, it does not panic the background goroutine. Writes still
// serialize with all other writes in submission order of the mutex.
func (s *Store) UpdateAsync(fn func(prefs.Document) (prefs.Document, error)) *PendingWrite {
	w := &PendingWrite{
		done: make(chan struct{}),
	}
	s.pendingMu.Lock()
	if s.writesClosed {
		s.pendingMu.Unlock()
		return newFailedWrite(ErrStoreClosed)
	}
	s.nextWriteID++
	w.id = s.nextWriteID
	s.pending[w.id] = w
	reportPendingWrites(s.name, len(s.pending))
	s.wg.Add(1)
	s.pendingMu.Unlock()

	go func() {
		defer s.wg.Done()
		defer close(w.done)

		snap, err := s.commit(fn)
		if err != nil {
			w.err = err
			s.log.WithFields(logging.Fields{
				"store": s.name,
				"write": w.id,
			}).Error("async commit failed: ", err)
		} else {
			w.doc = snap.Doc
		}
		s.removePending(w.id)
	}()
	return w
}

// commit runs one write transaction under the write mutex.
func (s *Store) commit(fn func(prefs.Document) (prefs.Document, error)) (docstore.Snapshot, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	snap, err := s.db.Update(fn)
	if err != nil {
		reportCommit(s.name, false)
		return docstore.Snapshot{}, err
	}
	atomic.AddUint64(&s.commitCount, 1)
	reportCommit(s.name, true)
	return snap, nil
}

// DrainPending waits until every asynchronous write pending at the
// time of the call has completed. Writes submitted while draining are
// not waited for. Completed tokens are reaped from the registry as
// they are observed.
func (s *Store) DrainPending(ctx context.Context) error {
	s.pendingMu.Lock()
	if len(s.pending) == 0 {
		s.pendingMu.Unlock()
		return nil
	}
	waits := make([]*PendingWrite, 0, len(s.pending))
	for _, w := range s.pending {
		waits = append(waits, w)
	}
	s.pendingMu.Unlock()

	start := time.Now()
	for _, w := range waits {
		select {
		case <-w.done:
			s.removePending(w.id)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	reportDrainWait(s.name, time.Since(start))
	return nil
}

func (s *Store) removePending(id uint64) {
	s.pendingMu.Lock()
	if _, ok := s.pending[id]; ok {
		delete(s.pending, id)
		reportPendingWrites(s.name, len(s.pending))
	}
	s.pendingMu.Unlock()
}

// newFailedWrite returns an already-completed token carrying err.
func newFailedWrite(err error) *PendingWrite {
	w := &PendingWrite{
		done: make(chan struct{}),
		err:  err,
	}
	close(w.done)
	return w
}
