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
	"sync"

	"github.com/ligato/cn-infra/logging"
)

// Handler consumes change events of one subscription. Handlers run on
// the subscription's delivery goroutine, one event at a time.
type Handler func(ChangeEvent)

// ChangeListener is the legacy notification interface: it learns that
// the named store changed, with no detail about what changed.
type ChangeListener interface {
	PreferencesChanged(store string)
}

// Subscription is an active registration for change events. Events
// queue without bound, so a slow handler delays only its own
// subscription and loses nothing while the subscription stays open.
type Subscription struct {
	id      uint64
	store   *Store
	handler Handler

	qMu   sync.Mutex
	queue []ChangeEvent
	wake  chan struct{}
	quit  chan struct{}
}

// Subscribe registers a handler for change events. The first
// subscription starts the change collector, which captures a baseline
// snapshot and reports every commit after it; a commit racing with
// the collector startup may be absorbed into the baseline instead of
// producing a discrete event. The subscription stays active until
// closed.
func (s *Store) Subscribe(handler Handler) (*Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subscribeLocked(handler)
}

func (s *Store) subscribeLocked(handler Handler) (*Subscription, error) {
	if s.closed {
		return nil, ErrStoreClosed
	}
	if s.collector == nil {
		if err := s.startCollectorLocked(); err != nil {
			return nil, err
		}
	}
	s.nextSubID++
	sub := &Subscription{
		id:      s.nextSubID,
		store:   s,
		handler: handler,
		wake:    make(chan struct{}, 1),
		quit:    make(chan struct{}),
	}
	s.subs[sub.id] = sub
	reportSubscriptions(s.name, len(s.subs))
	s.wg.Add(1)
	go sub.deliver()
	return sub, nil
}

// Close cancels the subscription. Events queued but not yet delivered
// are discarded. Closing the last subscription stops the collector.
// Close is idempotent.
func (sub *Subscription) Close() error {
	sub.store.mu.Lock()
	defer sub.store.mu.Unlock()
	sub.store.closeSubLocked(sub)
	return nil
}

func (s *Store) closeSubLocked(sub *Subscription) {
	if _, ok := s.subs[sub.id]; !ok {
		return
	}
	delete(s.subs, sub.id)
	reportSubscriptions(s.name, len(s.subs))
	close(sub.quit)
	if len(s.subs) == 0 && s.collector != nil {
		s.stopCollectorLocked()
	}
}

// publish hands one event to every live subscription. It never blocks
// on handlers; each subscription queues the event for its own delivery
// goroutine. Events published by a superseded collector are dropped.
func (s *Store) publish(c *collector, event ChangeEvent) {
	s.mu.Lock()
	if s.collector != c {
		s.mu.Unlock()
		return
	}
	targets := make([]*Subscription, 0, len(s.subs))
	for _, sub := range s.subs {
		targets = append(targets, sub)
	}
	s.mu.Unlock()

	for _, sub := range targets {
		sub.enqueue(event)
	}
}

func (sub *Subscription) enqueue(event ChangeEvent) {
	sub.qMu.Lock()
	sub.queue = append(sub.queue, event)
	sub.qMu.Unlock()
	select {
	case sub.wake <- struct{}{}:
	default:
	}
}

// deliver runs the subscription handler for queued events, in order,
// until the subscription is closed.
func (sub *Subscription) deliver() {
	defer sub.store.wg.Done()
	for {
		select {
		case <-sub.quit:
			sub.discardQueue()
			return
		case <-sub.wake:
		}
		for {
			sub.qMu.Lock()
			if len(sub.queue) == 0 {
				sub.qMu.Unlock()
				break
			}
			event := sub.queue[0]
			sub.queue = sub.queue[1:]
			sub.qMu.Unlock()

			select {
			case <-sub.quit:
				sub.discardQueue()
				return
			default:
			}
			sub.invoke(event)
		}
	}
}

// invoke runs the handler, turning a panic into an error log so one
// misbehaving subscriber cannot break delivery to the others.
func (sub *Subscription) invoke(event ChangeEvent) {
	defer func() {
		if r := recover(); r != nil {
			sub.store.log.WithFields(logging.Fields{
				"store":        sub.store.name,
				"subscription": sub.id,
			}).Errorf("change handler panicked: %v", r)
		}
	}()
	sub.handler(event)
}

func (sub *Subscription) discardQueue() {
	sub.qMu.Lock()
	dropped := len(sub.queue)
	sub.queue = nil
	sub.qMu.Unlock()
	if dropped > 0 {
		sub.store.log.WithFields(logging.Fields{
			"store":        sub.store.name,
			"subscription": sub.id,
		}).Debugf("discarded %d undelivered events", dropped)
	}
}

// RegisterListener adds a legacy listener. The first listener creates
// one shared internal subscription that aggregates every change into
// a bare "changed" callback. Registering an already registered
// listener is a no-op. The listener stays registered until explicitly
// unregistered.
func (s *Store) RegisterListener(l ChangeListener) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}
	if _, ok := s.listeners[l]; ok {
		return nil
	}
	if s.legacySub == nil {
		sub, err := s.subscribeLocked(func(ChangeEvent) {
			s.notifyListeners()
		})
		if err != nil {
			return err
		}
		s.legacySub = sub
	}
	s.listeners[l] = struct{}{}
	return nil
}

// UnregisterListener removes a legacy listener. Removing the last one
// also closes the shared internal subscription. Unknown listeners are
// ignored.
func (s *Store) UnregisterListener(l ChangeListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.listeners[l]; !ok {
		return
	}
	delete(s.listeners, l)
	if len(s.listeners) == 0 && s.legacySub != nil {
		s.closeSubLocked(s.legacySub)
		s.legacySub = nil
	}
}

// notifyListeners invokes every registered listener once. Runs on the
// internal subscription's delivery goroutine.
func (s *Store) notifyListeners() {
	s.mu.Lock()
	targets := make([]ChangeListener, 0, len(s.listeners))
	for l := range s.listeners {
		targets = append(targets, l)
	}
	s.mu.Unlock()

	for _, l := range targets {
		s.notifyListener(l)
	}
}

func (s *Store) notifyListener(l ChangeListener) {
	defer func() {
		if r := recover(); r != nil {
			s.log.WithFields(logging.Fields{
				"store": s.name,
			}).Errorf("change listener panicked: %v", r)
		}
	}()
	l.PreferencesChanged(s.name)
}
