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
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/unrolled/render"

	"github.com/ligato/prefstore/pkg/prefs"
)

func restPlugin(t *testing.T) *Plugin {
	p := NewPlugin(UseConf(Config{}))
	Expect(p.Init()).To(BeNil())
	return p
}

func serveGET(handler http.HandlerFunc, url string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", url, nil))
	return w
}

func TestRestStoresHandler(t *testing.T) {
	RegisterTestingT(t)

	p := restPlugin(t)
	defer p.Close()
	_, err := p.GetStore("settings")
	Expect(err).To(BeNil())
	_, err = p.GetStore("session")
	Expect(err).To(BeNil())

	w := serveGET(p.storesGetHandler(render.New()), storesURL)
	Expect(w.Code).To(Equal(http.StatusOK))

	var names []string
	Expect(json.Unmarshal(w.Body.Bytes(), &names)).To(BeNil())
	Expect(names).To(Equal([]string{"session", "settings"}))
}

func TestRestDocumentHandler(t *testing.T) {
	RegisterTestingT(t)

	p := restPlugin(t)
	defer p.Close()
	store, err := p.GetStore("settings")
	Expect(err).To(BeNil())
	Expect(store.Preferences().PutString("theme", "dark")).To(BeNil())
	Expect(store.Preferences().PutInt("font-size", 14)).To(BeNil())

	w := serveGET(p.documentGetHandler(render.New()), documentURL+"?store=settings")
	Expect(w.Code).To(Equal(http.StatusOK))

	var doc prefs.Document
	Expect(json.Unmarshal(w.Body.Bytes(), &doc)).To(BeNil())
	Expect(doc.Keys()).To(Equal([]string{"font-size", "theme"}))
	v, _ := doc.Get("font-size")
	n, err := v.AsInt64()
	Expect(err).To(BeNil())
	Expect(n).To(BeEquivalentTo(14))
}

func TestRestStatsHandler(t *testing.T) {
	RegisterTestingT(t)

	p := restPlugin(t)
	defer p.Close()
	store, err := p.GetStore("settings")
	Expect(err).To(BeNil())
	Expect(store.Preferences().PutBool("enabled", true)).To(BeNil())

	w := serveGET(p.statsGetHandler(render.New()), statsURL+"?store=settings")
	Expect(w.Code).To(Equal(http.StatusOK))

	var stats Stats
	Expect(json.Unmarshal(w.Body.Bytes(), &stats)).To(BeNil())
	Expect(stats.Store).To(Equal("settings"))
	Expect(stats.Revision).To(BeEquivalentTo(1))
	Expect(stats.Commits).To(BeEquivalentTo(1))
}

func TestRestMissingStoreArgument(t *testing.T) {
	RegisterTestingT(t)

	p := restPlugin(t)
	defer p.Close()

	w := serveGET(p.documentGetHandler(render.New()), documentURL)
	Expect(w.Code).To(Equal(http.StatusBadRequest))

	var resp errorString
	Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(BeNil())
	Expect(resp.Error).To(ContainSubstring("missing query argument"))
}

func TestRestUnknownStore(t *testing.T) {
	RegisterTestingT(t)

	p := restPlugin(t)
	defer p.Close()

	w := serveGET(p.statsGetHandler(render.New()), statsURL+"?store=nope")
	Expect(w.Code).To(Equal(http.StatusNotFound))

	var resp errorString
	Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(BeNil())
	Expect(resp.Error).To(ContainSubstring("unknown store"))
}
