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
	"testing"

	. "github.com/onsi/gomega"

	"github.com/ligato/prefstore/pkg/prefs"
)

func TestEditorCommit(t *testing.T) {
	RegisterTestingT(t)

	store := testStore(t)
	defer store.Close()
	p := store.Preferences()

	err := p.Edit().
		PutString("theme", "dark").
		PutInt("font-size", 14).
		PutBool("autosave", true).
		PutStringSet("plugins", []string{"b", "a", "a"}).
		Commit()
	Expect(err).To(BeNil())

	theme, err := p.GetString("theme", "")
	Expect(err).To(BeNil())
	Expect(theme).To(Equal("dark"))
	size, err := p.GetInt("font-size", 0)
	Expect(err).To(BeNil())
	Expect(size).To(Equal(14))
	plugins, err := p.GetStringSet("plugins", nil)
	Expect(err).To(BeNil())
	Expect(plugins).To(Equal([]string{"a", "b"}))
}

func TestEditorReplayOrder(t *testing.T) {
	RegisterTestingT(t)

	store := testStore(t)
	defer store.Close()
	p := store.Preferences()

	Expect(p.PutString("stored", "old")).To(BeNil())

	// the clear wipes the stored document and everything buffered
	// before it, later puts survive
	err := p.Edit().
		PutString("early", "gone").
		Clear().
		PutString("late", "kept").
		Commit()
	Expect(err).To(BeNil())

	doc, err := p.GetAll()
	Expect(err).To(BeNil())
	Expect(doc.Keys()).To(Equal([]string{"late"}))
}

func TestEditorRemove(t *testing.T) {
	RegisterTestingT(t)

	store := testStore(t)
	defer store.Close()
	p := store.Preferences()

	Expect(p.PutString("a", "1")).To(BeNil())
	Expect(p.PutString("b", "2")).To(BeNil())

	err := p.Edit().
		Remove("a").
		Remove("missing").
		PutString("c", "3").
		Commit()
	Expect(err).To(BeNil())

	doc, err := p.GetAll()
	Expect(err).To(BeNil())
	Expect(doc.Keys()).To(Equal([]string{"b", "c"}))
}

func TestEditorBufferSurvivesCommit(t *testing.T) {
	RegisterTestingT(t)

	store := testStore(t)
	defer store.Close()
	p := store.Preferences()

	e := p.Edit().PutInt("counter", 1)
	Expect(e.Commit()).To(BeNil())

	Expect(p.Clear()).To(BeNil())

	// the same batch can be committed again
	Expect(e.Commit()).To(BeNil())
	n, err := p.GetInt("counter", 0)
	Expect(err).To(BeNil())
	Expect(n).To(Equal(1))
}

func TestEditorGenericPut(t *testing.T) {
	RegisterTestingT(t)

	store := testStore(t)
	defer store.Close()
	p := store.Preferences()

	err := p.Edit().
		Put("str", "text").
		Put("int", 42).
		Put("float", 2.5).
		Put("bool", true).
		Put("set", []string{"x", "y"}).
		Commit()
	Expect(err).To(BeNil())

	doc, err := p.GetAll()
	Expect(err).To(BeNil())
	Expect(doc.Len()).To(Equal(5))
	v, _ := doc.Get("int")
	n, err := v.AsInt64()
	Expect(err).To(BeNil())
	Expect(n).To(BeEquivalentTo(42))
}

func TestEditorUnsupportedValue(t *testing.T) {
	RegisterTestingT(t)

	store := testStore(t)
	defer store.Close()
	p := store.Preferences()

	e := p.Edit().
		PutString("good", "value").
		Put("bad", struct{}{})

	err := e.Commit()
	Expect(err).ToNot(BeNil())
	Expect(prefs.IsUnsupportedType(err)).To(BeTrue())

	w := e.Apply()
	_, err = w.Wait(context.Background())
	Expect(prefs.IsUnsupportedType(err)).To(BeTrue())

	// nothing from the poisoned batch landed
	doc, err := p.GetAll()
	Expect(err).To(BeNil())
	Expect(doc.Len()).To(Equal(0))
}

func TestEditorApply(t *testing.T) {
	RegisterTestingT(t)

	store := testStore(t)
	defer store.Close()
	p := store.Preferences()

	w := p.Edit().
		PutString("mode", "async").
		PutInt64("attempts", 3).
		Apply()
	doc, err := w.Wait(context.Background())
	Expect(err).To(BeNil())
	Expect(doc.Len()).To(Equal(2))

	mode, err := p.GetString("mode", "")
	Expect(err).To(BeNil())
	Expect(mode).To(Equal("async"))
}
