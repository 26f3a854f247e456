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

package prefs

import (
	"sort"
)

// Document is an immutable set of keyed preference values. Methods
// that modify the content return a new document and leave the receiver
// untouched, which makes documents safe to share between goroutines
// without synchronization.
//
// The zero Document is empty and ready for use. The empty string is a
// valid key.
type Document struct {
	entries map[string]Value
}

// NewDocument returns an empty document.
func NewDocument() Document {
	return Document{}
}

// DocumentOf builds a document from the given entries. The map is
// copied, later changes to it do not affect the document.
func DocumentOf(entries map[string]Value) Document {
	if len(entries) == 0 {
		return Document{}
	}
	m := make(map[string]Value, len(entries))
	for k, v := range entries {
		m[k] = v
	}
	return Document{entries: m}
}

// Get returns the value stored under the key and whether the key is
// present at all.
func (d Document) Get(key string) (Value, bool) {
	v, ok := d.entries[key]
	return v, ok
}

// Has tells whether the key is present in the document.
func (d Document) Has(key string) bool {
	_, ok := d.entries[key]
	return ok
}

// Len returns the number of entries in the document.
func (d Document) Len() int {
	return len(d.entries)
}

// Keys returns all keys of the document in sorted order.
func (d Document) Keys() []string {
	keys := make([]string, 0, len(d.entries))
	for k := range d.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Map returns the entries as a plain map. The map is a copy, changes
// to it do not affect the document.
func (d Document) Map() map[string]Value {
	m := make(map[string]Value, len(d.entries))
	for k, v := range d.entries {
		m[k] = v
	}
	return m
}

// With returns a new document with the value stored under the key,
// replacing any previous value.
func (d Document) With(key string, v Value) Document {
	m := make(map[string]Value, len(d.entries)+1)
	for k, val := range d.entries {
		m[k] = val
	}
	m[key] = v
	return Document{entries: m}
}

// Without returns a new document with the key removed. Removing an
// absent key returns an equal document.
func (d Document) Without(key string) Document {
	if _, ok := d.entries[key]; !ok {
		return d
	}
	m := make(map[string]Value, len(d.entries)-1)
	for k, val := range d.entries {
		if k == key {
			continue
		}
		m[k] = val
	}
	return Document{entries: m}
}

// Equal compares two documents entry by entry.
func (d Document) Equal(other Document) bool {
	if len(d.entries) != len(other.entries) {
		return false
	}
	for k, v := range d.entries {
		ov, ok := other.entries[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}
