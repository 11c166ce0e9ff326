/*
 * Copyright 2019-2020 by Nedim Sabic Sabic
 * https://www.fibratus.io
 * All Rights Reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package app

import (
	"errors"
	"github.com/spf13/cobra"
	"runtime"
)

// RootCmd is the entrance to mutsweep CLI
var RootCmd = &cobra.Command{
	Use:   "mutsweep",
	Short: "Find and force-close synchronization object handles held by the process",
	Long: `
	mutsweep enumerates the system-wide handle table and force-closes handles
	of a given object type, mutexes by default, held by its own process. The
	same engine is embedded by hosts that sweep handles when a watched module
	gets loaded.
	`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == versionCmd.Name() {
			return nil
		}
		if runtime.GOOS != "windows" {
			return errors.New("mutsweep can only be run on Windows operating systems")
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(sweepCmd)
	RootCmd.AddCommand(handlesCmd)
	RootCmd.AddCommand(typesCmd)
	RootCmd.AddCommand(triggerCmd)
	RootCmd.AddCommand(configCmd)
	RootCmd.AddCommand(versionCmd)
}
