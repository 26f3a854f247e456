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
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/onsi/gomega"

	"github.com/ligato/prefstore/pkg/prefs"
)

func putKey(store *Store, key string, val prefs.Value) {
	_, err := store.Update(context.Background(), func(d prefs.Document) (prefs.Document, error) {
		return d.With(key, val), nil
	})
	Expect(err).To(BeNil())
}

func TestSubscribersReceiveEventsInOrder(t *testing.T) {
	RegisterTestingT(t)

	store := testStore(t)
	defer store.Close()

	var rec1, rec2 eventRecorder
	sub1, err := store.Subscribe(rec1.handler)
	Expect(err).To(BeNil())
	defer sub1.Close()
	sub2, err := store.Subscribe(rec2.handler)
	Expect(err).To(BeNil())
	defer sub2.Close()
	waitCollector(store)

	putKey(store, "b", prefs.Int64(1))
	putKey(store, "a", prefs.Int64(2))
	putKey(store, "a", prefs.Int64(3))

	Eventually(rec1.count, 2*time.Second, 10*time.Millisecond).Should(Equal(3))
	Eventually(rec2.count, 2*time.Second, 10*time.Millisecond).Should(Equal(3))
	Expect(rec1.keys()).To(Equal([]string{"b", "a", "a"}))
	Expect(rec2.keys()).To(Equal([]string{"b", "a", "a"}))
}

func TestMultiKeyCommitEmitsSortedEvents(t *testing.T) {
	RegisterTestingT(t)

	store := testStore(t)
	defer store.Close()

	var rec eventRecorder
	sub, err := store.Subscribe(rec.handler)
	Expect(err).To(BeNil())
	defer sub.Close()
	waitCollector(store)

	_, err = store.Update(context.Background(), func(d prefs.Document) (prefs.Document, error) {
		return d.With("c", prefs.Int64(1)).With("a", prefs.Int64(2)).With("b", prefs.Int64(3)), nil
	})
	Expect(err).To(BeNil())

	Eventually(rec.count, 2*time.Second, 10*time.Millisecond).Should(Equal(3))
	Expect(rec.keys()).To(Equal([]string{"a", "b", "c"}))
}

func TestClearEmitsSingleEvent(t *testing.T) {
	RegisterTestingT(t)

	store := testStore(t)
	defer store.Close()

	putKey(store, "a", prefs.Int64(1))
	putKey(store, "b", prefs.Int64(2))

	var rec eventRecorder
	sub, err := store.Subscribe(rec.handler)
	Expect(err).To(BeNil())
	defer sub.Close()
	waitCollector(store)

	_, err = store.Update(context.Background(), func(d prefs.Document) (prefs.Document, error) {
		return prefs.NewDocument(), nil
	})
	Expect(err).To(BeNil())

	Eventually(rec.count, 2*time.Second, 10*time.Millisecond).Should(Equal(1))
	Expect(rec.keys()).To(Equal([]string{"*"}))
	Expect(rec.list()[0].Doc.Len()).To(Equal(0))
}

func TestSubscriptionCloseStopsDelivery(t *testing.T) {
	RegisterTestingT(t)

	store := testStore(t)
	defer store.Close()

	var rec1, rec2 eventRecorder
	sub1, err := store.Subscribe(rec1.handler)
	Expect(err).To(BeNil())
	sub2, err := store.Subscribe(rec2.handler)
	Expect(err).To(BeNil())
	defer sub2.Close()
	waitCollector(store)

	putKey(store, "a", prefs.Int64(1))
	Eventually(rec1.count, 2*time.Second, 10*time.Millisecond).Should(Equal(1))
	Eventually(rec2.count, 2*time.Second, 10*time.Millisecond).Should(Equal(1))

	Expect(sub1.Close()).To(BeNil())
	Expect(sub1.Close()).To(BeNil())

	putKey(store, "b", prefs.Int64(2))
	Eventually(rec2.count, 2*time.Second, 10*time.Millisecond).Should(Equal(2))
	Consistently(rec1.count, 100*time.Millisecond, 10*time.Millisecond).Should(Equal(1))
}

func TestCollectorLifecycle(t *testing.T) {
	RegisterTestingT(t)

	store := testStore(t)
	defer store.Close()

	Expect(store.Stats().CollectorRunning).To(BeFalse())

	var rec eventRecorder
	sub, err := store.Subscribe(rec.handler)
	Expect(err).To(BeNil())
	Expect(store.Stats().CollectorRunning).To(BeTrue())

	Expect(sub.Close()).To(BeNil())
	Expect(store.Stats().CollectorRunning).To(BeFalse())

	// a fresh subscription restarts the collector with a new baseline
	putKey(store, "offline", prefs.Bool(true))
	sub2, err := store.Subscribe(rec.handler)
	Expect(err).To(BeNil())
	defer sub2.Close()
	Expect(store.Stats().CollectorRunning).To(BeTrue())
	waitCollector(store)

	putKey(store, "online", prefs.Bool(true))
	Eventually(rec.keys, 2*time.Second, 10*time.Millisecond).Should(Equal([]string{"online"}))
}

func TestBaselineAbsorbsEarlierCommits(t *testing.T) {
	RegisterTestingT(t)

	store := testStore(t)
	defer store.Close()

	putKey(store, "before", prefs.Int64(1))

	var rec eventRecorder
	sub, err := store.Subscribe(rec.handler)
	Expect(err).To(BeNil())
	defer sub.Close()
	waitCollector(store)

	putKey(store, "after", prefs.Int64(2))
	Eventually(rec.count, 2*time.Second, 10*time.Millisecond).Should(Equal(1))
	Expect(rec.keys()).To(Equal([]string{"after"}))
}

func TestHandlerPanicIsolation(t *testing.T) {
	RegisterTestingT(t)

	store := testStore(t)
	defer store.Close()

	var panics uint64
	sub1, err := store.Subscribe(func(ChangeEvent) {
		atomic.AddUint64(&panics, 1)
		panic("boom")
	})
	Expect(err).To(BeNil())
	defer sub1.Close()

	var rec eventRecorder
	sub2, err := store.Subscribe(rec.handler)
	Expect(err).To(BeNil())
	defer sub2.Close()
	waitCollector(store)

	putKey(store, "a", prefs.Int64(1))
	putKey(store, "b", prefs.Int64(2))

	Eventually(rec.count, 2*time.Second, 10*time.Millisecond).Should(Equal(2))
	// the panicking handler kept receiving events too
	Eventually(func() uint64 {
		return atomic.LoadUint64(&panics)
	}, 2*time.Second, 10*time.Millisecond).Should(BeEquivalentTo(2))
}

func TestSlowSubscriberDoesNotBlockOthers(t *testing.T) {
	RegisterTestingT(t)

	store := testStore(t)
	defer store.Close()

	gate := make(chan struct{})
	var slow eventRecorder
	slowSub, err := store.Subscribe(func(ev ChangeEvent) {
		<-gate
		slow.handler(ev)
	})
	Expect(err).To(BeNil())
	defer slowSub.Close()

	var fast eventRecorder
	fastSub, err := store.Subscribe(fast.handler)
	Expect(err).To(BeNil())
	defer fastSub.Close()
	waitCollector(store)

	const commits = 5
	for i := 0; i < commits; i++ {
		putKey(store, fmt.Sprintf("key-%d", i), prefs.Int64(int64(i)))
	}

	// the fast subscriber is done while the slow one still hangs
	Eventually(fast.count, 2*time.Second, 10*time.Millisecond).Should(Equal(commits))
	Expect(slow.count()).To(Equal(0))

	// once unblocked the slow subscriber catches up without loss
	close(gate)
	Eventually(slow.count, 2*time.Second, 10*time.Millisecond).Should(Equal(commits))
	Expect(slow.keys()).To(Equal(fast.keys()))
}

func TestLegacyListeners(t *testing.T) {
	RegisterTestingT(t)

	store := testStore(t)
	defer store.Close()

	var first, second countingListener
	Expect(store.RegisterListener(&first)).To(BeNil())
	Expect(store.RegisterListener(&first)).To(BeNil())
	Expect(store.RegisterListener(&second)).To(BeNil())

	stats := store.Stats()
	Expect(stats.Listeners).To(Equal(2))
	// both listeners share one internal subscription
	Expect(stats.Subscriptions).To(Equal(1))
	waitCollector(store)

	putKey(store, "a", prefs.Int64(1))
	Eventually(first.count, 2*time.Second, 10*time.Millisecond).Should(Equal(1))
	Eventually(second.count, 2*time.Second, 10*time.Millisecond).Should(Equal(1))
	Expect(first.lastStore()).To(Equal("test"))

	store.UnregisterListener(&first)
	Expect(store.Stats().Subscriptions).To(Equal(1))

	store.UnregisterListener(&second)
	store.UnregisterListener(&second)
	stats = store.Stats()
	Expect(stats.Listeners).To(Equal(0))
	Expect(stats.Subscriptions).To(Equal(0))
	Expect(stats.CollectorRunning).To(BeFalse())
}

func TestListenerSeesEveryCommit(t *testing.T) {
	RegisterTestingT(t)

	store := testStore(t)
	defer store.Close()

	var listener countingListener
	Expect(store.RegisterListener(&listener)).To(BeNil())
	waitCollector(store)

	putKey(store, "a", prefs.Int64(1))
	putKey(store, "a", prefs.Int64(2))
	Expect(store.Preferences().Remove("a")).To(BeNil())

	Eventually(listener.count, 2*time.Second, 10*time.Millisecond).Should(Equal(3))
}
