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
	"io"

	"github.com/logrusorgru/aurora"

	"github.com/ligato/prefstore"
	"github.com/ligato/prefstore/pkg/prefs"
)

// FormatValue renders a value with a color per type.
func FormatValue(v prefs.Value) string {
	switch v.Type() {
	case prefs.TypeString:
		return fmt.Sprintf("%s", aurora.Green(v.String()))
	case prefs.TypeInt64, prefs.TypeFloat64:
		return fmt.Sprintf("%s", aurora.Cyan(v.String()))
	case prefs.TypeBool:
		return fmt.Sprintf("%s", aurora.Magenta(v.String()))
	case prefs.TypeStringSet:
		return fmt.Sprintf("%s", aurora.Brown(v.String()))
	}
	return v.String()
}

// PrintDocument writes the whole document, one line per key, keys in
// sorted order.
func PrintDocument(w io.Writer, doc prefs.Document) {
	if doc.Len() == 0 {
		fmt.Fprintln(w, "(empty)")
		return
	}
	for _, key := range doc.Keys() {
		val, _ := doc.Get(key)
		fmt.Fprintf(w, "%s = %s  %s\n",
			aurora.Bold(key), FormatValue(val), aurora.Gray(val.Type().String()))
	}
}

// PrintEvent writes one change event, either the changed key with its
// new state or a bulk-clear marker.
func PrintEvent(w io.Writer, ev prefstore.ChangeEvent) {
	if ev.Cleared {
		fmt.Fprintf(w, "%s\n", aurora.Red("cleared"))
		return
	}
	if val, ok := ev.Doc.Get(ev.Key); ok {
		fmt.Fprintf(w, "%s = %s\n", aurora.Bold(ev.Key), FormatValue(val))
		return
	}
	fmt.Fprintf(w, "%s %s\n", aurora.Bold(ev.Key), aurora.Red("removed"))
}
