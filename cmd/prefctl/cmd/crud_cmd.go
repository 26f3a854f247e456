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
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ligato/prefstore/cmd/prefctl/utils"
)

var getPref = &cobra.Command{
	Use:     "get <key>",
	Aliases: []string{"g"},
	Short:   "Get the value stored under a key",
	Long: `
	Get the value stored under a key
`,
	Args: cobra.RangeArgs(1, 1),
	Run:  getFunction,
}

var putPref = &cobra.Command{
	Use:     "put <key> <value>",
	Aliases: []string{"p"},
	Short:   "Store a value under a key",
	Long: `
	Store a value under a key. The value is stored as a string unless
	the 'type' flag says otherwise.
`,
	Example: `  $ ./prefctl put theme dark
  $ ./prefctl put volume 7 --type int
  $ ./prefctl put labels red,green --type set
`,
	Args: cobra.RangeArgs(2, 2),
	Run:  putFunction,
}

var delPref = &cobra.Command{
	Use:     "del <key>",
	Aliases: []string{"d"},
	Short:   "Delete a key",
	Long: `
	Delete a key
`,
	Args: cobra.RangeArgs(1, 1),
	Run:  delFunction,
}

var clearPref = &cobra.Command{
	Use:   "clear",
	Short: "Delete all keys of the store",
	Long: `
	Delete all keys of the store
`,
	Args: cobra.NoArgs,
	Run:  clearFunction,
}

var putType string

func init() {
	RootCmd.AddCommand(getPref)
	RootCmd.AddCommand(putPref)
	RootCmd.AddCommand(delPref)
	RootCmd.AddCommand(clearPref)
	putPref.Flags().StringVarP(&putType, "type", "t", "string",
		"Type of the value: string, int, float, bool or set.")
}

func getFunction(cmd *cobra.Command, args []string) {
	store, cleanup := openStore()
	defer cleanup()

	key := args[0]
	doc, err := store.Document(context.Background())
	if err != nil {
		utils.ExitWithError(utils.ExitError, err)
	}
	val, ok := doc.Get(key)
	if !ok {
		utils.ExitWithError(utils.ExitNotFound, errors.New("key not found: "+key))
	}
	fmt.Fprintln(os.Stdout, utils.FormatValue(val))
}

func putFunction(cmd *cobra.Command, args []string) {
	store, cleanup := openStore()
	defer cleanup()

	val, err := utils.ParseValue(args[1], putType)
	if err != nil {
		utils.ExitWithError(utils.ExitBadArgs, err)
	}
	if err := store.Preferences().Edit().Put(args[0], val).Commit(); err != nil {
		utils.ExitWithError(utils.ExitError, err)
	}
}

func delFunction(cmd *cobra.Command, args []string) {
	store, cleanup := openStore()
	defer cleanup()

	if err := store.Preferences().Remove(args[0]); err != nil {
		utils.ExitWithError(utils.ExitError, err)
	}
}

func clearFunction(cmd *cobra.Command, args []string) {
	store, cleanup := openStore()
	defer cleanup()

	if err := store.Preferences().Clear(); err != nil {
		utils.ExitWithError(utils.ExitError, err)
	}
}
