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

package mem

import (
	"testing"

	. "github.com/onsi/gomega"
	"github.com/pkg/errors"

	"github.com/ligato/prefstore/docstore"
	"github.com/ligato/prefstore/pkg/prefs"
)

func TestLoadEmpty(t *testing.T) {
	RegisterTestingT(t)

	store := NewStore()
	defer store.Close()

	snap, err := store.Load()
	Expect(err).To(BeNil())
	Expect(snap.Rev).To(BeEquivalentTo(0))
	Expect(snap.Doc.Len()).To(Equal(0))
}

func TestUpdateCommits(t *testing.T) {
	RegisterTestingT(t)

	store := NewStore()
	defer store.Close()

	snap, err := store.Update(func(d prefs.Document) (prefs.Document, error) {
		return d.With("a", prefs.Int64(1)), nil
	})
	Expect(err).To(BeNil())
	Expect(snap.Rev).To(BeEquivalentTo(1))

	snap, err = store.Update(func(d prefs.Document) (prefs.Document, error) {
		Expect(d.Has("a")).To(BeTrue())
		return d.With("b", prefs.Int64(2)), nil
	})
	Expect(err).To(BeNil())
	Expect(snap.Rev).To(BeEquivalentTo(2))
	Expect(snap.Doc.Len()).To(Equal(2))

	loaded, err := store.Load()
	Expect(err).To(BeNil())
	Expect(loaded.Doc.Equal(snap.Doc)).To(BeTrue())
	Expect(loaded.Rev).To(BeEquivalentTo(2))
}

func TestUpdateError(t *testing.T) {
	RegisterTestingT(t)

	store := NewStore()
	defer store.Close()

	failure := errors.New("validation failed")
	_, err := store.Update(func(d prefs.Document) (prefs.Document, error) {
		return prefs.Document{}, failure
	})
	Expect(err).To(Equal(failure))

	snap, err := store.Load()
	Expect(err).To(BeNil())
	Expect(snap.Rev).To(BeEquivalentTo(0))
}

func TestWatchDelivery(t *testing.T) {
	RegisterTestingT(t)

	store := NewStore()
	defer store.Close()

	ch := make(chan docstore.Snapshot, 10)
	reg, err := store.Watch(ch)
	Expect(err).To(BeNil())

	for i := 1; i <= 3; i++ {
		_, err = store.Update(func(d prefs.Document) (prefs.Document, error) {
			return d.With("n", prefs.Int64(int64(i))), nil
		})
		Expect(err).To(BeNil())
	}

	for i := 1; i <= 3; i++ {
		snap := <-ch
		Expect(snap.Rev).To(BeEquivalentTo(i))
	}

	Expect(reg.Close()).To(BeNil())
	_, err = store.Update(func(d prefs.Document) (prefs.Document, error) {
		return d.With("late", prefs.Bool(true)), nil
	})
	Expect(err).To(BeNil())
	Expect(ch).To(BeEmpty())
}

func TestClosedStore(t *testing.T) {
	RegisterTestingT(t)

	store := NewStore()
	Expect(store.Close()).To(BeNil())
	Expect(store.Close()).To(BeNil())

	_, err := store.Load()
	Expect(err).To(Equal(docstore.ErrStoreClosed))
	_, err = store.Update(func(d prefs.Document) (prefs.Document, error) {
		return d, nil
	})
	Expect(err).To(Equal(docstore.ErrStoreClosed))
	_, err = store.Watch(make(chan docstore.Snapshot))
	Expect(err).To(Equal(docstore.ErrStoreClosed))
}
