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

// Package docstore defines the API between the preference store core
// and the pluggable persistence backends.
package docstore

import (
	"io"

	"github.com/pkg/errors"

	"github.com/ligato/prefstore/pkg/prefs"
)

// ErrStoreClosed is returned by operations on a backend that was
// already closed.
var ErrStoreClosed = errors.New("document store is closed")

// Snapshot is a full document together with the revision it was
// committed under. Revisions grow by one with every committed update
// and start at zero for a never-written store.
type Snapshot struct {
	Doc prefs.Document
	Rev int64
}

// Store is a transactional document store holding a single preference
// document. Implementations must serialize updates so that each one
// reads the latest committed document, and must deliver post-commit
// snapshots to all registered watch channels in commit order.
type Store interface {
	// Load returns the latest committed snapshot.
	Load() (Snapshot, error)

	// Update atomically replaces the document. The given function
	// receives the latest committed document and returns its successor.
	// When the function returns an error, nothing is committed and the
	// error is returned to the caller. The function must not call back
	// into the store.
	Update(fn func(prefs.Document) (prefs.Document, error)) (Snapshot, error)

	// Watch registers a channel that receives a snapshot after every
	// commit, in commit order. Delivery stops once the registration is
	// closed; a snapshot being delivered concurrently with Close may or
	// may not arrive.
	Watch(ch chan<- Snapshot) (WatchRegistration, error)

	// Close releases the backend resources. Watch registrations still
	// open are cancelled.
	Close() error
}

// WatchRegistration is a handle allowing to cancel an active watch.
type WatchRegistration interface {
	io.Closer
}
