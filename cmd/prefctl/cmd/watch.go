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
	"os/signal"

	tm "github.com/buger/goterm"
	"github.com/spf13/cobra"

	"github.com/ligato/prefstore"
	"github.com/ligato/prefstore/cmd/prefctl/utils"
)

var watchPrefs = &cobra.Command{
	Use:     "watch",
	Aliases: []string{"w"},
	Short:   "Stream change events of the store",
	Long: `
	Subscribe to the store and print one line per change event until
	interrupted. With the 'live' flag the terminal shows the whole
	document instead, redrawn on every change.
`,
	Args: cobra.NoArgs,
	Run:  watchFunction,
}

var watchLive bool

func init() {
	RootCmd.AddCommand(watchPrefs)
	watchPrefs.Flags().BoolVarP(&watchLive, "live", "l", false,
		"Redraw the whole document on every change.")
}

func watchFunction(cmd *cobra.Command, args []string) {
	store, cleanup := openStore()
	defer cleanup()

	handler := printEvent
	if watchLive {
		handler = redrawDocument
		if doc, err := store.Document(context.Background()); err == nil {
			redrawDocument(prefstore.ChangeEvent{Doc: doc, Cleared: true})
		}
	}
	sub, err := store.Subscribe(handler)
	if err != nil {
		utils.ExitWithError(utils.ExitError, err)
	}
	defer sub.Close()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	<-sig
}

func printEvent(ev prefstore.ChangeEvent) {
	utils.PrintEvent(os.Stdout, ev)
}

// redrawDocument repaints the terminal with the event's full document.
func redrawDocument(ev prefstore.ChangeEvent) {
	tm.Clear()
	tm.MoveCursor(1, 1)
	tm.Println(tm.Bold(fmt.Sprintf("store: %s", globalFlags.Store)))
	if ev.Doc.Len() == 0 {
		tm.Println("(empty)")
	} else {
		for _, key := range ev.Doc.Keys() {
			val, _ := ev.Doc.Get(key)
			tm.Println(fmt.Sprintf("%s = %s  (%s)", key, val.String(), val.Type()))
		}
	}
	tm.Flush()
}
