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
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricsNamespace = "ligato"
	metricsSubsystem = "prefstore"
)

var (
	commitsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: metricsSubsystem,
		Name:      "commits_total",
		Help:      "Number of committed and failed write transactions.",
	}, []string{"store", "result"})

	pendingWrites = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Subsystem: metricsSubsystem,
		Name:      "pending_writes",
		Help:      "Number of asynchronous writes not yet committed.",
	}, []string{"store"})

	changeEventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: metricsSubsystem,
		Name:      "change_events_total",
		Help:      "Number of change events emitted, by change kind.",
	}, []string{"store", "kind"})

	subscriptions = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Subsystem: metricsSubsystem,
		Name:      "subscriptions",
		Help:      "Number of active change subscriptions.",
	}, []string{"store"})

	drainWaitSeconds = prometheus.NewSummaryVec(prometheus.SummaryOpts{
		Namespace: metricsNamespace,
		Subsystem: metricsSubsystem,
		Name:      "drain_wait_seconds",
		Help:      "Time spent waiting for pending writes to drain.",
	}, []string{"store"})
)

func init() {
	prometheus.MustRegister(commitsTotal)
	prometheus.MustRegister(pendingWrites)
	prometheus.MustRegister(changeEventsTotal)
	prometheus.MustRegister(subscriptions)
	prometheus.MustRegister(drainWaitSeconds)
}

func reportCommit(store string, ok bool) {
	result := "success"
	if !ok {
		result = "failure"
	}
	commitsTotal.WithLabelValues(store, result).Inc()
}

func reportPendingWrites(store string, count int) {
	pendingWrites.WithLabelValues(store).Set(float64(count))
}

func reportChangeEvents(store string, stats diffStats) {
	if stats.added > 0 {
		changeEventsTotal.WithLabelValues(store, "added").Add(float64(stats.added))
	}
	if stats.modified > 0 {
		changeEventsTotal.WithLabelValues(store, "modified").Add(float64(stats.modified))
	}
	if stats.removed > 0 {
		changeEventsTotal.WithLabelValues(store, "removed").Add(float64(stats.removed))
	}
	if stats.cleared > 0 {
		changeEventsTotal.WithLabelValues(store, "cleared").Add(float64(stats.cleared))
	}
}

func reportSubscriptions(store string, count int) {
	subscriptions.WithLabelValues(store).Set(float64(count))
}

func reportDrainWait(store string, took time.Duration) {
	drainWaitSeconds.WithLabelValues(store).Observe(took.Seconds())
}
