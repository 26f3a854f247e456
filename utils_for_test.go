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
	"testing"

	. "github.com/onsi/gomega"
)

func testStore(t *testing.T, opts ...Option) *Store {
	store, err := New("test", opts...)
	Expect(err).To(BeNil())
	return store
}

// waitCollector blocks until the store's collector has retained its
// baseline snapshot, making subsequent commits produce events.
func waitCollector(s *Store) {
	s.mu.Lock()
	c := s.collector
	s.mu.Unlock()
	if c != nil {
		<-c.ready
	}
}

// eventRecorder collects change events for assertions.
type eventRecorder struct {
	mu     sync.Mutex
	events []ChangeEvent
}

func (r *eventRecorder) handler(ev ChangeEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *eventRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func (r *eventRecorder) list() []ChangeEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	events := make([]ChangeEvent, len(r.events))
	copy(events, r.events)
	return events
}

// keys returns the changed keys in arrival order, bulk clears as "*".
func (r *eventRecorder) keys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	keys := make([]string, 0, len(r.events))
	for _, ev := range r.events {
		if ev.Cleared {
			keys = append(keys, "*")
		} else {
			keys = append(keys, ev.Key)
		}
	}
	return keys
}

// countingListener counts legacy change callbacks.
type countingListener struct {
	mu    sync.Mutex
	calls int
	store string
}

func (l *countingListener) PreferencesChanged(store string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls++
	l.store = store
}

func (l *countingListener) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}

func (l *countingListener) lastStore() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store
}
