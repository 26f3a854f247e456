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
	"encoding/json"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ligato/prefstore/cmd/prefctl/utils"
)

var dumpPrefs = &cobra.Command{
	Use:     "dump",
	Aliases: []string{"list"},
	Short:   "Print the whole store",
	Long: `
	Print the whole store, one line per key, keys in sorted order.
	Use the 'format' flag to get machine-readable JSON instead.
`,
	Args: cobra.NoArgs,
	Run:  dumpFunction,
}

var dumpFormat string

func init() {
	RootCmd.AddCommand(dumpPrefs)
	dumpPrefs.Flags().StringVarP(&dumpFormat, "format", "f", "text",
		"Output format: text or json.")
}

func dumpFunction(cmd *cobra.Command, args []string) {
	store, cleanup := openStore()
	defer cleanup()

	doc, err := store.Document(context.Background())
	if err != nil {
		utils.ExitWithError(utils.ExitError, err)
	}

	switch dumpFormat {
	case "text":
		utils.PrintDocument(os.Stdout, doc)
	case "json":
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			utils.ExitWithError(utils.ExitError, err)
		}
		fmt.Fprintln(os.Stdout, string(data))
	default:
		utils.ExitWithError(utils.ExitBadArgs, errors.New("unknown format: "+dumpFormat))
	}
}
