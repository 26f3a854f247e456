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

package utils

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/ligato/prefstore/pkg/prefs"
)

// Common exit flags
const (
	ExitSuccess = iota
	ExitError
	ExitBadArgs
	ExitNotFound
)

// ExitWithError is used by all commands to print out an error
// and exit.
func ExitWithError(code int, err error) {
	fmt.Fprintln(os.Stderr, "Error: ", err)
	os.Exit(code)
}

// ParseValue converts the raw command-line string into a typed
// preference value. Supported type names are string, int, float, bool
// and set (comma-separated members).
func ParseValue(raw, typeName string) (prefs.Value, error) {
	switch typeName {
	case "", "string":
		return prefs.String(raw), nil
	case "int":
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return prefs.Value{}, errors.Wrapf(err, "invalid integer %q", raw)
		}
		return prefs.Int64(n), nil
	case "float":
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return prefs.Value{}, errors.Wrapf(err, "invalid float %q", raw)
		}
		return prefs.Float64(f), nil
	case "bool":
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return prefs.Value{}, errors.Wrapf(err, "invalid boolean %q", raw)
		}
		return prefs.Bool(b), nil
	case "set":
		if raw == "" {
			return prefs.StringSet(nil), nil
		}
		return prefs.StringSet(strings.Split(raw, ",")), nil
	}
	return prefs.Value{}, errors.Errorf("unknown value type %q", typeName)
}
