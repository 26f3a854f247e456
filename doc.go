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

// Package prefstore implements named key-value preference stores with
// serialized writes and snapshot-diff change notification.
//
// Every store keeps one document of typed values in a pluggable
// backend (in-memory, Bolt or Pebble). Writes, synchronous and
// asynchronous, serialize through a single mutex; asynchronous writes
// are tracked as pending tokens and readers wait them out, so a read
// observes every write submitted before it. Committed snapshots are
// diffed into per-key change events by a lazily running collector and
// fanned out to subscribers without ever blocking on their handlers.
//
// The typed facade obtained via (*Store).Preferences offers classic
// blocking getters and setters plus a batch Editor, and a legacy
// listener interface delivering bare "store changed" callbacks.
// Stores are usually obtained from a Registry, which guarantees one
// live instance per name, or through the cn-infra Plugin wrapper.
package prefstore
