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
	"github.com/pkg/errors"
)

var (
	// ErrTypeMismatch is returned when a stored value is accessed as an
	// incompatible type. The value is never coerced.
	ErrTypeMismatch = errors.New("value type mismatch")

	// ErrUnsupportedType is returned when a Go value outside of the
	// supported type set is converted into a preference value.
	ErrUnsupportedType = errors.New("unsupported value type")
)

// IsTypeMismatch tells whether the given error was caused by an access
// to a value of an incompatible type.
func IsTypeMismatch(err error) bool {
	return errors.Cause(err) == ErrTypeMismatch
}

// IsUnsupportedType tells whether the given error was caused by a
// conversion from an unsupported Go type.
func IsUnsupportedType(err error) bool {
	return errors.Cause(err) == ErrUnsupportedType
}

func mismatch(want, got ValueType) error {
	return errors.Wrapf(ErrTypeMismatch, "want %v, got %v", want, got)
}
