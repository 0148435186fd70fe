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
package check

import (
	"testing"

	"github.com/zkcorset/corset/pkg/field"
	"github.com/zkcorset/corset/pkg/ir"
	"github.com/zkcorset/corset/pkg/schema"
	"github.com/zkcorset/corset/pkg/schema/constraint"
)

func column(t *testing.T, set *schema.Set, module, name string, values ...int64) schema.Handle {
	t.Helper()

	h, err := set.Register(module, name)
	if err != nil {
		t.Fatalf("Register(%s,%s): %v", module, name, err)
	}

	elems := make([]field.Element, len(values))
	for i, v := range values {
		elems[i] = field.FromInt64(v)
	}

	set.Column(h).Fill(elems)

	return h
}

func TestValidateVanishingReportsFailingRows(t *testing.T) {
	set := schema.NewSet()
	a := column(t, set, "main", "A", 1, 2, 3)
	b := column(t, set, "main", "B", 1, 2, 4)

	expr := ir.Funcall{Verb: ir.Sub, Args: []ir.Expr{
		ir.ColumnRef{Handle: a}, ir.ColumnRef{Handle: b},
	}}

	cs := &constraint.Set{
		Columns:     set,
		Constraints: []constraint.Constraint{constraint.Vanishing{Handle: "a_eq_b", Expr: expr}},
	}

	failures := Validate(cs, Settings{})
	if len(failures) != 1 {
		t.Fatalf("expected exactly 1 failure, got %d: %+v", len(failures), failures)
	}

	if failures[0].Row != 2 {
		t.Errorf("expected failure at row 2, got %d", failures[0].Row)
	}
}

func TestValidateSkipsINVConstraintsByName(t *testing.T) {
	set := schema.NewSet()
	a := column(t, set, "main", "A", 1, 2)

	expr := ir.ColumnRef{Handle: a}

	cs := &constraint.Set{
		Columns: set,
		Constraints: []constraint.Constraint{
			constraint.Vanishing{Handle: constraint.INVConstraintsName, Expr: expr},
		},
	}

	if failures := Validate(cs, Settings{}); len(failures) != 0 {
		t.Fatalf("expected INV_CONSTRAINTS to be skipped, got %d failures", len(failures))
	}
}

func TestValidateOnlyFilterRestrictsConstraints(t *testing.T) {
	set := schema.NewSet()
	a := column(t, set, "main", "A", 1)
	b := column(t, set, "main", "B", 2)

	cs := &constraint.Set{
		Columns: set,
		Constraints: []constraint.Constraint{
			constraint.Vanishing{Handle: "fails", Expr: ir.ColumnRef{Handle: a}},
			constraint.Vanishing{Handle: "also_fails", Expr: ir.ColumnRef{Handle: b}},
		},
	}

	failures := Validate(cs, Settings{Only: []string{"fails"}})
	if len(failures) != 1 || failures[0].Constraint != "fails" {
		t.Fatalf("expected only 'fails' to run, got %+v", failures)
	}
}

func TestValidateListDecomposesIntoIndependentFullDomainScans(t *testing.T) {
	set := schema.NewSet()
	// B is short and all-zero; A is long and violates at row 3, well
	// beyond B's length. A merged List evaluation would derive its scan
	// domain from B (the first handle in the List), truncating the scan
	// before row 3 is ever visited and silently passing a real violation.
	b := column(t, set, "main", "B", 0, 0)
	a := column(t, set, "main", "A", 0, 0, 0, 9, 0)

	expr := ir.List{Elements: []ir.Expr{
		ir.ColumnRef{Handle: b},
		ir.ColumnRef{Handle: a},
	}}

	cs := &constraint.Set{
		Columns:     set,
		Constraints: []constraint.Constraint{constraint.Vanishing{Handle: "conjunction", Expr: expr}},
	}

	failures := Validate(cs, Settings{})
	if len(failures) != 1 {
		t.Fatalf("expected exactly 1 failure from A's independent scan, got %d: %+v", len(failures), failures)
	}

	if failures[0].Row != 3 {
		t.Errorf("expected failure at row 3, got %d", failures[0].Row)
	}
}

func TestValidateExplicitDomainTreatsMissingRowAsFailure(t *testing.T) {
	set := schema.NewSet()
	a := column(t, set, "main", "A", 0, 0, 0)

	cs := &constraint.Set{
		Columns: set,
		Constraints: []constraint.Constraint{
			constraint.Vanishing{Handle: "explicit_domain", Domain: []int{0, 1, 5}, Expr: ir.ColumnRef{Handle: a}},
		},
	}

	failures := Validate(cs, Settings{})
	if len(failures) != 1 {
		t.Fatalf("expected exactly 1 failure for the out-of-range domain row, got %d: %+v", len(failures), failures)
	}

	if failures[0].Row != 5 {
		t.Errorf("expected the failure to be reported at row 5, got %d", failures[0].Row)
	}
}

func TestValidateUnrestrictedDomainDoesNotFailOnMissingRow(t *testing.T) {
	set := schema.NewSet()
	a := column(t, set, "main", "A", 0, 0, 0)

	cs := &constraint.Set{
		Columns: set,
		Constraints: []constraint.Constraint{
			constraint.Vanishing{Handle: "shifted", Expr: ir.ColumnRef{Handle: a, Shift: 1}},
		},
	}

	if failures := Validate(cs, Settings{}); len(failures) != 0 {
		t.Fatalf("expected no failures: a missing row without an explicit domain is not a failure, got %+v", failures)
	}
}

func TestValidateZeroLengthTraceReportsEmptyTraceFailure(t *testing.T) {
	set := schema.NewSet()
	a := column(t, set, "main", "A")

	cs := &constraint.Set{
		Columns:     set,
		Constraints: []constraint.Constraint{constraint.Vanishing{Handle: "always", Expr: ir.ColumnRef{Handle: a}}},
	}

	failures := Validate(cs, Settings{})
	if len(failures) != 1 {
		t.Fatalf("expected exactly 1 empty-trace failure, got %d: %+v", len(failures), failures)
	}

	if failures[0].Constraint != "always" {
		t.Errorf("expected the failure to name the scanned constraint, got %q", failures[0].Constraint)
	}
}

func TestValidateLookupDetectsUnmatchedChildRow(t *testing.T) {
	set := schema.NewSet()
	p := column(t, set, "main", "P", 10, 20, 30)
	c := column(t, set, "main", "C", 10, 99)

	l := constraint.Lookup{
		Handle:   "lookup",
		Parents:  []ir.Expr{ir.ColumnRef{Handle: p}},
		Children: []ir.Expr{ir.ColumnRef{Handle: c}},
	}

	cs := &constraint.Set{Columns: set, Constraints: []constraint.Constraint{l}}

	failures := Validate(cs, Settings{})
	if len(failures) != 1 || failures[0].Row != 1 {
		t.Fatalf("expected exactly 1 failure at row 1, got %+v", failures)
	}
}

func TestValidateRangeDetectsOutOfBoundRow(t *testing.T) {
	set := schema.NewSet()
	a := column(t, set, "main", "A", 1, 2, 300)

	r := constraint.InRange{Handle: "byte_range", Expr: ir.ColumnRef{Handle: a}, Bound: 256}

	cs := &constraint.Set{Columns: set, Constraints: []constraint.Constraint{r}}

	failures := Validate(cs, Settings{})
	if len(failures) != 1 || failures[0].Row != 2 {
		t.Fatalf("expected exactly 1 failure at row 2, got %+v", failures)
	}
}
