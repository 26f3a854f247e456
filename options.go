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
	"github.com/ligato/cn-infra/logging"

	"github.com/ligato/prefstore/docstore"
)

// Option is a function that acts on a Store to inject dependencies or
// configuration at creation time.
type Option func(*Store)

// WithLogger sets the logger used by the store.
func WithLogger(log logging.Logger) Option {
	return func(s *Store) {
		s.log = log
	}
}

// WithBackend makes the store use the given backend. The store takes
// ownership and closes the backend on Close.
func WithBackend(db docstore.Store) Option {
	return func(s *Store) {
		s.backendFactory = func(string) (docstore.Store, error) {
			return db, nil
		}
	}
}

// WithBackendFactory makes the store open its backend through the
// given factory. The factory receives the store name.
func WithBackendFactory(factory func(name string) (docstore.Store, error)) Option {
	return func(s *Store) {
		s.backendFactory = factory
	}
}

// WithLegacyFile enables the one-time import of an old flat-file
// preference dump at the given path. The import runs during store
// construction, only when the backend holds an empty document; the
// file is removed after a successful import.
func WithLegacyFile(path string) Option {
	return func(s *Store) {
		s.legacyFile = path
	}
}
