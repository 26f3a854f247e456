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

package cmd

import (
	"fmt"
	"io/ioutil"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ligato/prefstore"
	"github.com/ligato/prefstore/cmd/prefctl/utils"
)

var importPrefs = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a legacy flat-file preference dump",
	Long: `
	Import a legacy flat-file preference dump: a YAML mapping of key
	to scalar or string list. The entries merge into the store in one
	transaction; existing keys are overwritten. The file is kept.
`,
	Args: cobra.RangeArgs(1, 1),
	Run:  importFunction,
}

func init() {
	RootCmd.AddCommand(importPrefs)
}

func importFunction(cmd *cobra.Command, args []string) {
	data, err := ioutil.ReadFile(args[0])
	if err != nil {
		utils.ExitWithError(utils.ExitBadArgs, err)
	}
	entries, err := prefstore.ParseLegacyFile(data)
	if err != nil {
		utils.ExitWithError(utils.ExitBadArgs, errors.Wrap(err, "parsing failed"))
	}

	store, cleanup := openStore()
	defer cleanup()

	editor := store.Preferences().Edit()
	for key, val := range entries {
		editor.Put(key, val)
	}
	if err := editor.Commit(); err != nil {
		utils.ExitWithError(utils.ExitError, err)
	}
	fmt.Fprintf(os.Stdout, "imported %d preferences\n", len(entries))
}
