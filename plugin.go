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
	"github.com/ligato/cn-infra/config"
	"github.com/ligato/cn-infra/infra"
	"github.com/ligato/cn-infra/logging"
	"github.com/ligato/cn-infra/rpc/rest"
)

// DefaultPlugin is a default instance of the prefstore plugin.
var DefaultPlugin = *NewPlugin()

// Plugin integrates a store registry into a cn-infra agent: it loads
// the registry configuration from the plugin config file, exposes the
// REST inspection handlers and closes all stores on agent shutdown.
type Plugin struct {
	Deps

	conf     *Config
	registry *Registry
}

// Deps lists dependencies of the prefstore plugin.
type Deps struct {
	infra.PluginName
	Log logging.PluginLogger
	Cfg config.PluginConfig

	// HTTPHandlers is an optional dependency enabling the REST
	// inspection endpoints.
	HTTPHandlers rest.HTTPHandlers
}

// Config holds the prefstore plugin configuration.
type Config struct {
	// DataDir is the directory where file-based backends keep their
	// databases. Empty means in-memory stores only.
	DataDir string `json:"data-dir"`

	// Backend selects the backend kind: mem, bolt or pebble.
	Backend string `json:"backend"`

	// LegacyDir enables the one-time import of old flat-file
	// preference dumps found in the directory.
	LegacyDir string `json:"legacy-dir"`
}

// PluginOption is a function that acts on a Plugin to inject
// dependencies or configuration.
type PluginOption func(*Plugin)

// UseDeps returns a PluginOption that can inject custom dependencies.
func UseDeps(cb func(*Deps)) PluginOption {
	return func(p *Plugin) {
		cb(&p.Deps)
	}
}

// UseConf returns a PluginOption which injects a particular
// configuration, disabling the config file lookup.
func UseConf(conf Config) PluginOption {
	return func(p *Plugin) {
		p.conf = &conf
	}
}

// NewPlugin creates a new Plugin with the provided options.
func NewPlugin(opts ...PluginOption) *Plugin {
	p := &Plugin{}

	p.PluginName = "prefstore"

	for _, o := range opts {
		o(p)
	}
	if p.Log == nil {
		p.Log = logging.ForPlugin(p.String())
	}
	if p.Cfg == nil {
		p.Cfg = config.ForPlugin(p.String())
	}
	return p
}

// Init loads the configuration and builds the store registry.
func (p *Plugin) Init() error {
	if p.conf == nil {
		p.conf = &Config{}
		found, err := p.Cfg.GetValue(p.conf)
		if err != nil {
			return err
		}
		if !found {
			p.Log.Debug("prefstore config not found, using defaults")
		}
	}

	opts := []RegistryOption{
		WithRegistryLogger(p.Log),
	}
	if p.conf.DataDir != "" {
		opts = append(opts, WithDataDir(p.conf.DataDir))
	}
	if p.conf.Backend != "" {
		opts = append(opts, WithBackendKind(p.conf.Backend))
	}
	if p.conf.LegacyDir != "" {
		opts = append(opts, WithLegacyDir(p.conf.LegacyDir))
	}
	p.registry = NewRegistry(opts...)

	p.Log.Debugf("prefstore plugin initialized (backend: %s, data dir: %s)",
		p.conf.Backend, p.conf.DataDir)
	return nil
}

// AfterInit registers the REST handlers once the HTTP server is up.
func (p *Plugin) AfterInit() error {
	p.registerHandlers(p.HTTPHandlers)
	return nil
}

// Close closes all stores of the registry.
func (p *Plugin) Close() error {
	return p.registry.Close()
}

// Registry returns the store registry owned by the plugin.
func (p *Plugin) Registry() *Registry {
	return p.registry
}

// GetStore returns the named store from the plugin's registry,
// creating it on first use.
func (p *Plugin) GetStore(name string, opts ...Option) (*Store, error) {
	return p.registry.GetStore(name, opts...)
}
