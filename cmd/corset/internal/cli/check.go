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

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/zkcorset/corset/pkg/check"
	"github.com/zkcorset/corset/pkg/schema/constraint"
	jsontrace "github.com/zkcorset/corset/pkg/trace/json"
)

func checkCmd() *cobra.Command {
	var (
		tracePath     string
		skip          []string
		only          []string
		fullTrace     bool
		traceSpan     int
		threads       int
		failOnMissing bool
	)

	cmd := &cobra.Command{
		Use:   "check [constraint-set.json]",
		Short: "Validate a trace against a compiled constraint set",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cs, err := constraint.Load(args[0])
			if err != nil {
				return err
			}

			log.Infof("loaded %d column(s) and %d constraint(s) from %s",
				len(cs.Columns.Columns()), len(cs.Constraints), args[0])

			if tracePath != "" {
				opts := jsontrace.Options{FailOnMissing: failOnMissing}
				if err := jsontrace.Load(tracePath, cs.Columns, opts); err != nil {
					return err
				}
			}

			settings := check.Settings{
				Threads:   threads,
				TraceSpan: traceSpan,
				FullTrace: fullTrace,
				Skip:      skip,
				Only:      only,
			}

			failures := check.Validate(cs, settings)
			if len(failures) == 0 {
				log.Info("all constraints hold")
				return nil
			}

			for _, f := range failures {
				fmt.Println(f.Report)
			}

			return fmt.Errorf("constraint-failed: %d row(s) failed across %d constraint(s)",
				len(failures), countFailingConstraints(failures))
		},
	}

	cmd.Flags().StringVar(&tracePath, "trace", "", "path to a JSON trace file")
	cmd.Flags().StringSliceVar(&skip, "skip", nil, "constraint names to skip")
	cmd.Flags().StringSliceVar(&only, "only", nil, "restrict validation to these constraint names")
	cmd.Flags().BoolVar(&fullTrace, "full-trace", false, "show every module column in a failure report")
	cmd.Flags().IntVar(&traceSpan, "trace-span", 5, "rows of context around a failing row in a failure report")
	cmd.Flags().IntVar(&threads, "threads", 0, "constraints checked concurrently (0 means NumCPU)")
	cmd.Flags().BoolVar(&failOnMissing, "fail-on-missing", false, "error if the trace omits a declared column")

	return cmd
}

func countFailingConstraints(failures []check.Failure) int {
	seen := make(map[string]bool, len(failures))
	for _, f := range failures {
		seen[f.Constraint] = true
	}

	return len(seen)
}
