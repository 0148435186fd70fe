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

// Package json loads execution traces from the JSON trace format: a
// nested object mapping module name to column name to an array of
// decimal-string field values, the textual trace representation
// actually exercised end-to-end by this module (spec.md §1/§6 also name
// a legacy binary format, which is out of scope — see DESIGN.md).
package json

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/zkcorset/corset/pkg/field"
	"github.com/zkcorset/corset/pkg/schema"
)

// Options controls how a trace is reconciled against a column set.
type Options struct {
	// FailOnMissing makes it an error for the trace to omit a column
	// that the constraint set declares and that has no registered
	// computation to derive it instead.
	FailOnMissing bool
}

// Load reads a trace file and fills set's columns from it. Columns
// present in the trace but not declared in set are ignored. After
// filling, any column with a registered computation (spec.md §3) is
// derived via set.Expand.
func Load(path string, set *schema.Set, opts Options) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("invalid-trace: reading trace %q: %w", path, err)
	}

	var doc map[string]map[string][]string
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("invalid-trace: parsing trace %q: %w", path, err)
	}

	if len(doc) == 0 {
		return fmt.Errorf("empty-trace: %q contains no modules", path)
	}

	filled := make(map[schema.Handle]bool)

	// Sort module/column names so that a malformed-value error always
	// names the same offending cell across runs, regardless of Go map
	// iteration order.
	for _, module := range sortedKeys(doc) {
		cols := doc[module]
		for _, name := range sortedKeys(cols) {
			values := cols[name]

			handle, ok := set.Lookup(module, name)
			if !ok {
				continue
			}

			elems := make([]field.Element, len(values))

			for i, v := range values {
				e, err := field.FromDecimalString(v)
				if err != nil {
					return fmt.Errorf("invalid-trace: %s.%s[%d]: %w", module, name, i, err)
				}

				elems[i] = e
			}

			set.Column(handle).Fill(elems)
			filled[handle] = true
		}
	}

	if opts.FailOnMissing {
		for _, col := range set.Columns() {
			if filled[col.Handle()] {
				continue
			}

			if _, hasComputation := set.ComputationFor(col.Handle()); hasComputation {
				continue
			}

			return fmt.Errorf("missing-column: trace %q has no values for %s", path, col.Handle())
		}
	}

	return set.Expand()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}
