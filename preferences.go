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

	"github.com/pkg/errors"

	"github.com/ligato/prefstore/pkg/prefs"
)

// Preferences is the typed accessor facade over a store, shaped after
// classic blocking preference APIs. Getters return the given default
// when the key is absent and fail with a type-mismatch error when the
// stored value has a different type; values are never coerced. All
// calls wait out pending asynchronous writes first, so a getter
// observes every write submitted before it.
type Preferences struct {
	store *Store
}

// Store returns the underlying store.
func (p *Preferences) Store() *Store {
	return p.store
}

// GetString returns the string stored under key, or def when absent.
func (p *Preferences) GetString(key, def string) (string, error) {
	v, ok, err := p.lookup(key)
	if err != nil {
		return "", err
	}
	if !ok {
		return def, nil
	}
	val, err := v.AsString()
	if err != nil {
		return "", errors.Wrapf(err, "key %q", key)
	}
	return val, nil
}

// GetInt returns the integer stored under key, or def when absent.
// It is an int-typed convenience over the int64 storage type.
func (p *Preferences) GetInt(key string, def int) (int, error) {
	val, err := p.GetInt64(key, int64(def))
	return int(val), err
}

// GetInt64 returns the integer stored under key, or def when absent.
func (p *Preferences) GetInt64(key string, def int64) (int64, error) {
	v, ok, err := p.lookup(key)
	if err != nil {
		return 0, err
	}
	if !ok {
		return def, nil
	}
	val, err := v.AsInt64()
	if err != nil {
		return 0, errors.Wrapf(err, "key %q", key)
	}
	return val, nil
}

// GetFloat64 returns the float stored under key, or def when absent.
func (p *Preferences) GetFloat64(key string, def float64) (float64, error) {
	v, ok, err := p.lookup(key)
	if err != nil {
		return 0, err
	}
	if !ok {
		return def, nil
	}
	val, err := v.AsFloat64()
	if err != nil {
		return 0, errors.Wrapf(err, "key %q", key)
	}
	return val, nil
}

// GetBool returns the boolean stored under key, or def when absent.
func (p *Preferences) GetBool(key string, def bool) (bool, error) {
	v, ok, err := p.lookup(key)
	if err != nil {
		return false, err
	}
	if !ok {
		return def, nil
	}
	val, err := v.AsBool()
	if err != nil {
		return false, errors.Wrapf(err, "key %q", key)
	}
	return val, nil
}

// GetStringSet returns the string set stored under key, or def when
// absent. The returned slice is always a copy.
func (p *Preferences) GetStringSet(key string, def []string) ([]string, error) {
	v, ok, err := p.lookup(key)
	if err != nil {
		return nil, err
	}
	if !ok {
		set := make([]string, len(def))
		copy(set, def)
		return set, nil
	}
	val, err := v.AsStringSet()
	if err != nil {
		return nil, errors.Wrapf(err, "key %q", key)
	}
	return val, nil
}

// Contains tells whether the key is present.
func (p *Preferences) Contains(key string) (bool, error) {
	return p.store.Has(context.Background(), key)
}

// GetAll returns the full document.
func (p *Preferences) GetAll() (prefs.Document, error) {
	return p.store.Document(context.Background())
}

// PutString stores a string under key.
func (p *Preferences) PutString(key, val string) error {
	return p.put(key, prefs.String(val))
}

// PutInt stores an integer under key, as int64.
func (p *Preferences) PutInt(key string, val int) error {
	return p.put(key, prefs.Int64(int64(val)))
}

// PutInt64 stores an integer under key.
func (p *Preferences) PutInt64(key string, val int64) error {
	return p.put(key, prefs.Int64(val))
}

// PutFloat64 stores a float under key.
func (p *Preferences) PutFloat64(key string, val float64) error {
	return p.put(key, prefs.Float64(val))
}

// PutBool stores a boolean under key.
func (p *Preferences) PutBool(key string, val bool) error {
	return p.put(key, prefs.Bool(val))
}

// PutStringSet stores a string set under key.
func (p *Preferences) PutStringSet(key string, val []string) error {
	return p.put(key, prefs.StringSet(val))
}

// Remove deletes the key. Removing an absent key is a no-op.
func (p *Preferences) Remove(key string) error {
	_, err := p.store.Update(context.Background(), func(d prefs.Document) (prefs.Document, error) {
		return d.Without(key), nil
	})
	return err
}

// Clear deletes all keys.
func (p *Preferences) Clear() error {
	_, err := p.store.Update(context.Background(), func(d prefs.Document) (prefs.Document, error) {
		return prefs.NewDocument(), nil
	})
	return err
}

// Edit starts a batch of writes applied later in one transaction.
func (p *Preferences) Edit() *Editor {
	return &Editor{store: p.store}
}

// RegisterListener adds a legacy change listener to the store.
func (p *Preferences) RegisterListener(l ChangeListener) error {
	return p.store.RegisterListener(l)
}

// UnregisterListener removes a legacy change listener from the store.
func (p *Preferences) UnregisterListener(l ChangeListener) {
	p.store.UnregisterListener(l)
}

func (p *Preferences) lookup(key string) (prefs.Value, bool, error) {
	doc, err := p.store.Document(context.Background())
	if err != nil {
		return prefs.Value{}, false, err
	}
	v, ok := doc.Get(key)
	return v, ok, nil
}

func (p *Preferences) put(key string, v prefs.Value) error {
	_, err := p.store.Update(context.Background(), func(d prefs.Document) (prefs.Document, error) {
		return d.With(key, v), nil
	})
	return err
}
