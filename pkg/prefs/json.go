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
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"
)

// valueJSON is the wire form of a value. The explicit type tag keeps
// int64 and float64 apart across the round trip.
type valueJSON struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

// MarshalJSON implements the json.Marshaler interface.
func (v Value) MarshalJSON() ([]byte, error) {
	var payload []byte
	var err error
	switch v.typ {
	case TypeInt64:
		payload = strconv.AppendInt(nil, v.num, 10)
	case TypeFloat64:
		payload, err = json.Marshal(v.flt)
	case TypeBool:
		payload = strconv.AppendBool(nil, v.b)
	case TypeStringSet:
		payload, err = json.Marshal(v.set)
	default:
		payload, err = json.Marshal(v.str)
	}
	if err != nil {
		return nil, err
	}
	return json.Marshal(valueJSON{Type: v.typ.String(), Value: payload})
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (v *Value) UnmarshalJSON(data []byte) error {
	var wire valueJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	switch wire.Type {
	case TypeString.String():
		var s string
		if err := json.Unmarshal(wire.Value, &s); err != nil {
			return err
		}
		*v = String(s)
	case TypeInt64.String():
		n, err := strconv.ParseInt(string(wire.Value), 10, 64)
		if err != nil {
			return errors.Wrapf(err, "invalid int64 payload %q", wire.Value)
		}
		*v = Int64(n)
	case TypeFloat64.String():
		var f float64
		if err := json.Unmarshal(wire.Value, &f); err != nil {
			return err
		}
		*v = Float64(f)
	case TypeBool.String():
		var b bool
		if err := json.Unmarshal(wire.Value, &b); err != nil {
			return err
		}
		*v = Bool(b)
	case TypeStringSet.String():
		var set []string
		if err := json.Unmarshal(wire.Value, &set); err != nil {
			return err
		}
		*v = StringSet(set)
	default:
		return errors.Wrapf(ErrUnsupportedType, "type tag %q", wire.Type)
	}
	return nil
}

// MarshalJSON implements the json.Marshaler interface.
func (d Document) MarshalJSON() ([]byte, error) {
	if len(d.entries) == 0 {
		return []byte("{}"), nil
	}
	return json.Marshal(d.entries)
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (d *Document) UnmarshalJSON(data []byte) error {
	var entries map[string]Value
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	if len(entries) == 0 {
		entries = nil
	}
	d.entries = entries
	return nil
}
