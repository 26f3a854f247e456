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
	"os"

	"github.com/spf13/cobra"

	"github.com/ligato/prefstore/pkg/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of prefctl",
	Args:  cobra.NoArgs,
	Run:   versionFunction,
}

var versionShort bool

func init() {
	RootCmd.AddCommand(versionCmd)
	versionCmd.Flags().BoolVarP(&versionShort, "short", "S", false,
		"Print the version number only.")
}

func versionFunction(cmd *cobra.Command, args []string) {
	if versionShort {
		fmt.Fprintln(os.Stdout, version.Short())
		return
	}
	fmt.Fprintln(os.Stdout, version.Detail())
}
