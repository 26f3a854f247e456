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
	"path/filepath"
	"sort"
	"sync"

	"github.com/ligato/cn-infra/logging"
	"github.com/ligato/cn-infra/logging/logrus"
	"github.com/pkg/errors"

	"github.com/ligato/prefstore/docstore"
	"github.com/ligato/prefstore/docstore/bolt"
	"github.com/ligato/prefstore/docstore/mem"
	"github.com/ligato/prefstore/docstore/pebble"
)

// Supported backend kinds of a registry.
const (
	BackendMem    = "mem"
	BackendBolt   = "bolt"
	BackendPebble = "pebble"
)

// DefaultRegistry is the registry used by the package-level GetStore.
var DefaultRegistry = NewRegistry()

// GetStore returns the named store from DefaultRegistry, creating it
// on first use.
func GetStore(name string, opts ...Option) (*Store, error) {
	return DefaultRegistry.GetStore(name, opts...)
}

// Registry maps store names to live Store instances. The same name
// always resolves to the same instance until the registry is closed.
type Registry struct {
	mu     sync.Mutex
	stores map[string]*Store
	closed bool

	log       logging.Logger
	dataDir   string
	backend   string
	legacyDir string
}

// RegistryOption is a function that acts on a Registry to configure
// it at creation time.
type RegistryOption func(*Registry)

// WithDataDir sets the directory where file-based backends keep their
// databases, one per store.
func WithDataDir(dir string) RegistryOption {
	return func(r *Registry) {
		r.dataDir = dir
	}
}

// WithBackendKind selects the backend opened for new stores, one of
// BackendMem, BackendBolt, BackendPebble.
func WithBackendKind(kind string) RegistryOption {
	return func(r *Registry) {
		r.backend = kind
	}
}

// WithLegacyDir enables the one-time import of old flat-file
// preference dumps, looked up as <dir>/<store>.prefs.yaml.
func WithLegacyDir(dir string) RegistryOption {
	return func(r *Registry) {
		r.legacyDir = dir
	}
}

// WithRegistryLogger sets the logger handed down to created stores.
func WithRegistryLogger(log logging.Logger) RegistryOption {
	return func(r *Registry) {
		r.log = log
	}
}

// NewRegistry creates an empty store registry. Without options all
// stores are created over in-memory backends.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		stores: make(map[string]*Store),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		r.log = logrus.DefaultLogger()
	}
	return r
}

// GetStore returns the store registered under the name, creating it
// on first use. Concurrent lookups of the same name return the same
// instance. Store options are honored only by the call that actually
// creates the store; on a cache hit they are ignored.
func (r *Registry) GetStore(name string, opts ...Option) (*Store, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, ErrRegistryClosed
	}
	if s, ok := r.stores[name]; ok {
		if len(opts) > 0 {
			r.log.WithFields(logging.Fields{"store": name}).
				Debug("store already created, options ignored")
		}
		return s, nil
	}
	s, err := New(name, append(r.storeOptions(name), opts...)...)
	if err != nil {
		return nil, err
	}
	r.stores[name] = s
	return s, nil
}

// Lookup returns the store registered under the name without creating
// one.
func (r *Registry) Lookup(name string) (*Store, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.stores[name]
	return s, ok
}

// ListStores returns the names of all registered stores in sorted
// order.
func (r *Registry) ListStores() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.stores))
	for name := range r.stores {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Close closes every registered store. Further lookups fail with
// ErrRegistryClosed. The first close error is returned, all stores
// are closed regardless.
func (r *Registry) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	stores := make([]*Store, 0, len(r.stores))
	for _, s := range r.stores {
		stores = append(stores, s)
	}
	r.stores = make(map[string]*Store)
	r.mu.Unlock()

	var firstErr error
	for _, s := range stores {
		if err := s.Close(); err != nil {
			r.log.WithFields(logging.Fields{"store": s.Name()}).
				Error("closing store failed: ", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (r *Registry) storeOptions(name string) []Option {
	opts := []Option{
		WithLogger(r.log),
	}
	if r.backend != "" || r.dataDir != "" {
		kind, dataDir := r.backend, r.dataDir
		opts = append(opts, WithBackendFactory(func(name string) (docstore.Store, error) {
			return openBackend(kind, dataDir, name)
		}))
	}
	if r.legacyDir != "" {
		opts = append(opts, WithLegacyFile(filepath.Join(r.legacyDir, name+".prefs.yaml")))
	}
	return opts
}

func openBackend(kind, dataDir, name string) (docstore.Store, error) {
	switch kind {
	case "", BackendMem:
		return mem.NewStore(), nil
	case BackendBolt:
		if dataDir == "" {
			return nil, errors.Errorf("backend %q requires a data directory", kind)
		}
		return bolt.NewClient(&bolt.Config{
			DbPath: filepath.Join(dataDir, name+".db"),
		})
	case BackendPebble:
		if dataDir == "" {
			return nil, errors.Errorf("backend %q requires a data directory", kind)
		}
		return pebble.NewClient(&pebble.Config{
			Dir: filepath.Join(dataDir, name+".pebble"),
		})
	}
	return nil, errors.Errorf("unknown backend kind %q", kind)
}
