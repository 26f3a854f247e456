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
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// ValueType denotes the type of a preference value.
type ValueType int

const (
	// TypeString marks a plain string value.
	TypeString ValueType = iota

	// TypeInt64 marks a 64-bit signed integer value.
	TypeInt64

	// TypeFloat64 marks a 64-bit floating point value.
	TypeFloat64

	// TypeBool marks a boolean value.
	TypeBool

	// TypeStringSet marks an unordered set of unique strings.
	TypeStringSet
)

// String converts the value type into a human-readable string.
func (t ValueType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeInt64:
		return "int64"
	case TypeFloat64:
		return "float64"
	case TypeBool:
		return "bool"
	case TypeStringSet:
		return "string-set"
	}
	return fmt.Sprintf("unknown(%d)", int(t))
}

// Value is a single preference value. It is a tagged union over the
// supported types and is immutable once created, i.e. it can be freely
// copied and shared between goroutines.
//
// The zero Value is the empty string.
type Value struct {
	typ ValueType
	str string
	num int64
	flt float64
	b   bool
	set []string // sorted, without duplicates, never shared with callers
}

// String creates a string value.
func String(v string) Value {
	return Value{typ: TypeString, str: v}
}

// Int64 creates a 64-bit integer value.
func Int64(v int64) Value {
	return Value{typ: TypeInt64, num: v}
}

// Float64 creates a 64-bit floating point value.
func Float64(v float64) Value {
	return Value{typ: TypeFloat64, flt: v}
}

// Bool creates a boolean value.
func Bool(v bool) Value {
	return Value{typ: TypeBool, b: v}
}

// StringSet creates a string-set value. The members are copied,
// de-duplicated and kept in sorted order.
func StringSet(members []string) Value {
	set := make([]string, 0, len(members))
	seen := make(map[string]struct{}, len(members))
	for _, m := range members {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		set = append(set, m)
	}
	sort.Strings(set)
	return Value{typ: TypeStringSet, set: set}
}

// ValueOf converts a native Go value into a preference value.
// Supported inputs are string, bool, int, int32, int64, float32,
// float64, []string and Value itself. Anything else is rejected
// with ErrUnsupportedType.
func ValueOf(v interface{}) (Value, error) {
	switch val := v.(type) {
	case Value:
		return val, nil
	case string:
		return String(val), nil
	case bool:
		return Bool(val), nil
	case int:
		return Int64(int64(val)), nil
	case int32:
		return Int64(int64(val)), nil
	case int64:
		return Int64(val), nil
	case float32:
		return Float64(float64(val)), nil
	case float64:
		return Float64(val), nil
	case []string:
		return StringSet(val), nil
	}
	return Value{}, errors.Wrapf(ErrUnsupportedType, "%T", v)
}

// Type returns the type of the value.
func (v Value) Type() ValueType {
	return v.typ
}

// AsString returns the string payload, or ErrTypeMismatch if the value
// holds a different type.
func (v Value) AsString() (string, error) {
	if v.typ != TypeString {
		return "", mismatch(TypeString, v.typ)
	}
	return v.str, nil
}

// AsInt64 returns the integer payload, or ErrTypeMismatch if the value
// holds a different type.
func (v Value) AsInt64() (int64, error) {
	if v.typ != TypeInt64 {
		return 0, mismatch(TypeInt64, v.typ)
	}
	return v.num, nil
}

// AsFloat64 returns the floating point payload, or ErrTypeMismatch if
// the value holds a different type.
func (v Value) AsFloat64() (float64, error) {
	if v.typ != TypeFloat64 {
		return 0, mismatch(TypeFloat64, v.typ)
	}
	return v.flt, nil
}

// AsBool returns the boolean payload, or ErrTypeMismatch if the value
// holds a different type.
func (v Value) AsBool() (bool, error) {
	if v.typ != TypeBool {
		return false, mismatch(TypeBool, v.typ)
	}
	return v.b, nil
}

// AsStringSet returns a copy of the set members in sorted order, or
// ErrTypeMismatch if the value holds a different type.
func (v Value) AsStringSet() ([]string, error) {
	if v.typ != TypeStringSet {
		return nil, mismatch(TypeStringSet, v.typ)
	}
	set := make([]string, len(v.set))
	copy(set, v.set)
	return set, nil
}

// Interface returns the payload as a native Go value (string, int64,
// float64, bool or []string).
func (v Value) Interface() interface{} {
	switch v.typ {
	case TypeInt64:
		return v.num
	case TypeFloat64:
		return v.flt
	case TypeBool:
		return v.b
	case TypeStringSet:
		set := make([]string, len(v.set))
		copy(set, v.set)
		return set
	}
	return v.str
}

// Equal compares two values for equality. Values of different types
// are never equal.
func (v Value) Equal(other Value) bool {
	if v.typ != other.typ {
		return false
	}
	switch v.typ {
	case TypeInt64:
		return v.num == other.num
	case TypeFloat64:
		return v.flt == other.flt
	case TypeBool:
		return v.b == other.b
	case TypeStringSet:
		if len(v.set) != len(other.set) {
			return false
		}
		for i := range v.set {
			if v.set[i] != other.set[i] {
				return false
			}
		}
		return true
	}
	return v.str == other.str
}

// String converts the value into a human-readable string.
func (v Value) String() string {
	switch v.typ {
	case TypeInt64:
		return fmt.Sprintf("%d", v.num)
	case TypeFloat64:
		return fmt.Sprintf("%g", v.flt)
	case TypeBool:
		return fmt.Sprintf("%t", v.b)
	case TypeStringSet:
		return "{" + strings.Join(v.set, ", ") + "}"
	}
	return v.str
}
