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
	"net/http"

	"github.com/ligato/cn-infra/rpc/rest"
	"github.com/unrolled/render"
)

const (
	// prefix under which all handlers are registered
	urlPrefix = "/prefstore/"

	// storesURL lists the names of all registered stores
	storesURL = urlPrefix + "stores"

	// documentURL returns the document of one store
	documentURL = urlPrefix + "document"

	// statsURL returns the runtime stats of one store
	statsURL = urlPrefix + "stats"

	// storeArg is the query argument selecting the store
	storeArg = "store"
)

// errorString wraps an error message for JSON rendering.
type errorString struct {
	Error string `json:"error"`
}

// registerHandlers hooks the inspection endpoints into the HTTP
// server.
func (p *Plugin) registerHandlers(http rest.HTTPHandlers) {
	if http == nil {
		p.Log.Debug("No http handler provided, skipping registration of REST handlers")
		return
	}
	http.RegisterHTTPHandler(storesURL, p.storesGetHandler, "GET")
	http.RegisterHTTPHandler(documentURL, p.documentGetHandler, "GET")
	http.RegisterHTTPHandler(statsURL, p.statsGetHandler, "GET")
	p.Log.Infof("prefstore REST handlers registered under %s", urlPrefix)
}

// storesGetHandler returns the names of all registered stores.
func (p *Plugin) storesGetHandler(formatter *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		formatter.JSON(w, http.StatusOK, p.registry.ListStores())
	}
}

// documentGetHandler returns the full document of the selected store.
func (p *Plugin) documentGetHandler(formatter *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		store, ok := p.lookupStore(formatter, w, req)
		if !ok {
			return
		}
		doc, err := store.Document(req.Context())
		if err != nil {
			formatter.JSON(w, http.StatusInternalServerError, errorString{Error: err.Error()})
			return
		}
		formatter.JSON(w, http.StatusOK, doc)
	}
}

// statsGetHandler returns the runtime stats of the selected store.
func (p *Plugin) statsGetHandler(formatter *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		store, ok := p.lookupStore(formatter, w, req)
		if !ok {
			return
		}
		formatter.JSON(w, http.StatusOK, store.Stats())
	}
}

func (p *Plugin) lookupStore(formatter *render.Render, w http.ResponseWriter, req *http.Request) (*Store, bool) {
	name := req.URL.Query().Get(storeArg)
	if name == "" {
		formatter.JSON(w, http.StatusBadRequest,
			errorString{Error: "missing query argument: " + storeArg})
		return nil, false
	}
	store, ok := p.registry.Lookup(name)
	if !ok {
		formatter.JSON(w, http.StatusNotFound,
			errorString{Error: "unknown store: " + name})
		return nil, false
	}
	return store, true
}
