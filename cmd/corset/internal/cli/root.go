// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package cli wires up the corset command's subcommands.
package cli

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var verbose bool

// Root constructs the corset root command.
func Root() *cobra.Command {
	root := &cobra.Command{
		Use:   "corset",
		Short: "Compile and validate corset arithmetization constraints",
		PersistentPreRun: func(*cobra.Command, []string) {
			if verbose {
				log.SetLevel(log.DebugLevel)
			}
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(compileCmd())
	root.AddCommand(checkCmd())

	return root
}
