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
	"github.com/spf13/cobra"

	"github.com/ligato/prefstore"
	"github.com/ligato/prefstore/cmd/prefctl/utils"
)

// GlobalFlags defines a single type to hold all cobra global flags.
type GlobalFlags struct {
	DataDir string
	Backend string
	Store   string
}

var globalFlags GlobalFlags

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "prefctl",
	Short: "A CLI tool for preference stores",
	Long: `
A CLI tool to inspect and modify preference stores. Stores live in the
directory given by the 'data-dir' flag, one database per store, in the
format selected by the 'backend' flag.`,
	Example: `Store a value and read it back:
  $ ./prefctl --data-dir /tmp/prefs put theme dark
  $ ./prefctl --data-dir /tmp/prefs get theme

Watch a store for changes:
  $ ./prefctl --data-dir /tmp/prefs watch
`,
}

func init() {
	// Root command flags
	RootCmd.PersistentFlags().StringVarP(&globalFlags.DataDir, "data-dir", "d", ".",
		"Directory where the store databases live.")
	RootCmd.PersistentFlags().StringVarP(&globalFlags.Backend, "backend", "b", prefstore.BackendBolt,
		"Backend format: bolt, pebble or mem.")
	RootCmd.PersistentFlags().StringVarP(&globalFlags.Store, "store", "s", "default",
		"Name of the preference store to operate on.")
}

// openStore opens the store selected by the global flags. The
// returned cleanup function closes it again.
func openStore() (*prefstore.Store, func()) {
	registry := prefstore.NewRegistry(
		prefstore.WithDataDir(globalFlags.DataDir),
		prefstore.WithBackendKind(globalFlags.Backend),
	)
	store, err := registry.GetStore(globalFlags.Store)
	if err != nil {
		utils.ExitWithError(utils.ExitError, err)
	}
	return store, func() {
		registry.Close()
	}
}
