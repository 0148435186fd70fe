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
package cli

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/zkcorset/corset/pkg/corset"
	"github.com/zkcorset/corset/pkg/schema/constraint"
)

func compileCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "compile [source.corset...]",
		Short: "Compile corset source into a constraint-set file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			var nodes []corset.Node

			for _, path := range args {
				source, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("reading %q: %w", path, err)
				}

				fileNodes, err := corset.ParseProgram(string(source))
				if err != nil {
					return fmt.Errorf("parsing %q: %w", path, err)
				}

				log.Debugf("parsed %d top-level form(s) from %s", len(fileNodes), path)

				nodes = append(nodes, fileNodes...)
			}

			program, err := corset.Analyze(nodes)
			if err != nil {
				return fmt.Errorf("compiling: %w", err)
			}

			log.Infof("compiled %d column(s) and %d constraint(s)", len(program.Columns.Columns()), len(program.Constraints))

			set := &constraint.Set{Columns: program.Columns, Constraints: program.Constraints}

			return constraint.Save(output, set)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "constraints.json", "path to write the compiled constraint set to")

	return cmd
}
