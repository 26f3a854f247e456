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
	"bytes"
	"encoding/json"
	"io/ioutil"
	"os"
	"strconv"

	"github.com/ghodss/yaml"
	"github.com/ligato/cn-infra/logging"
	"github.com/pkg/errors"

	"github.com/ligato/prefstore/pkg/prefs"
)

// importLegacyFile loads an old flat-file preference dump into an
// empty store. A non-empty store means the migration already happened
// or the store is in use, so the file is left alone. The file is
// removed after a successful import; a single unconvertible entry
// aborts the whole import with nothing written.
func (s *Store) importLegacyFile(path string) error {
	snap, err := s.db.Load()
	if err != nil {
		return errors.Wrap(err, "loading document before import failed")
	}
	if snap.Doc.Len() > 0 {
		s.log.WithFields(logging.Fields{"store": s.name, "file": path}).
			Debug("store not empty, skipping legacy import")
		return nil
	}

	data, err := ioutil.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	} else if err != nil {
		return errors.Wrapf(err, "reading legacy file %s failed", path)
	}

	entries, err := ParseLegacyFile(data)
	if err != nil {
		return errors.Wrapf(err, "parsing legacy file %s failed", path)
	}

	if len(entries) > 0 {
		_, err = s.db.Update(func(doc prefs.Document) (prefs.Document, error) {
			for key, val := range entries {
				doc = doc.With(key, val)
			}
			return doc, nil
		})
		if err != nil {
			return errors.Wrapf(err, "importing legacy file %s failed", path)
		}
	}

	if err := os.Remove(path); err != nil {
		s.log.WithFields(logging.Fields{"store": s.name, "file": path}).
			Warn("removing imported legacy file failed: ", err)
	}
	s.log.WithFields(logging.Fields{"store": s.name, "file": path}).
		Infof("imported %d legacy preferences", len(entries))
	return nil
}

// ParseLegacyFile decodes an old flat-file preference dump: a single
// YAML mapping of key to scalar or string list. Integers and floats
// are kept apart, string lists become string sets. Any entry outside
// the supported types fails the whole parse.
func ParseLegacyFile(data []byte) (map[string]prefs.Value, error) {
	var raw map[string]json.RawMessage
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	entries := make(map[string]prefs.Value, len(raw))
	for key, rawVal := range raw {
		val, err := parseLegacyValue(rawVal)
		if err != nil {
			return nil, errors.Wrapf(err, "key %q", key)
		}
		entries[key] = val
	}
	return entries, nil
}

func parseLegacyValue(raw json.RawMessage) (prefs.Value, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var decoded interface{}
	if err := dec.Decode(&decoded); err != nil {
		return prefs.Value{}, err
	}
	switch val := decoded.(type) {
	case string:
		return prefs.String(val), nil
	case bool:
		return prefs.Bool(val), nil
	case json.Number:
		if n, err := strconv.ParseInt(val.String(), 10, 64); err == nil {
			return prefs.Int64(n), nil
		}
		f, err := val.Float64()
		if err != nil {
			return prefs.Value{}, errors.Wrapf(prefs.ErrUnsupportedType, "number %q", val.String())
		}
		return prefs.Float64(f), nil
	case []interface{}:
		members := make([]string, 0, len(val))
		for _, m := range val {
			str, ok := m.(string)
			if !ok {
				return prefs.Value{}, errors.Wrapf(prefs.ErrUnsupportedType, "list member %T", m)
			}
			members = append(members, str)
		}
		return prefs.StringSet(members), nil
	}
	return prefs.Value{}, errors.Wrapf(prefs.ErrUnsupportedType, "%T", decoded)
}
