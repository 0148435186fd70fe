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
package constraint

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/zkcorset/corset/pkg/field"
	"github.com/zkcorset/corset/pkg/ir"
	"github.com/zkcorset/corset/pkg/schema"
)

// rawExpr is the on-disk shape of an expression node. Exactly one of its
// fields is meaningful, selected by Kind.
type rawExpr struct {
	Kind string `json:"kind"`

	// "const"
	Value string `json:"value,omitempty"`

	// "column"
	Module string `json:"module,omitempty"`
	Name   string `json:"name,omitempty"`
	Shift  int    `json:"shift,omitempty"`

	// "list" and "funcall"
	Op   string     `json:"op,omitempty"`
	Args []*rawExpr `json:"args,omitempty"`
}

type rawColumn struct {
	Module string `json:"module"`
	Name   string `json:"name"`
}

type rawVanishing struct {
	Name   string   `json:"name"`
	Domain []int    `json:"domain,omitempty"`
	Expr   *rawExpr `json:"expr"`
}

type rawLookup struct {
	Name     string     `json:"name"`
	Parents  []*rawExpr `json:"parents"`
	Children []*rawExpr `json:"children"`
}

type rawPermutation struct {
	Name string     `json:"name"`
	Lhs  []*rawExpr `json:"lhs"`
	Rhs  []*rawExpr `json:"rhs"`
}

type rawRange struct {
	Name  string   `json:"name"`
	Expr  *rawExpr `json:"expr"`
	Bound uint64   `json:"bound"`
}

// rawComputation is the on-disk shape of a column-derivation rule, per
// spec.md §3's computation registry. Kind selects which of the fields
// below are meaningful: "composite" (Expr, Sources), "interleaved"
// (Sources), "sorted" (Source), "cyclic" (Period, Length), or
// "sorting-constraints" (Companion).
type rawComputation struct {
	Kind      string      `json:"kind"`
	Target    rawColumn   `json:"target"`
	Expr      *rawExpr    `json:"expr,omitempty"`
	Sources   []rawColumn `json:"sources,omitempty"`
	Source    rawColumn   `json:"source,omitempty"`
	Period    uint        `json:"period,omitempty"`
	Length    rawColumn   `json:"length,omitempty"`
	Companion rawColumn   `json:"companion,omitempty"`
}

// rawDocument is the constraint-set on-disk format of spec.md §6: a
// textual, human-readable serialization of a lowered constraint set.
// Go's idiomatic equivalent of that object-notation format is JSON,
// which is what every config and trace file in the example corpus uses;
// see DESIGN.md for the deps this replaces.
type rawDocument struct {
	Columns      []rawColumn      `json:"columns"`
	Computations []rawComputation `json:"computations,omitempty"`
	Vanishing    []rawVanishing   `json:"vanishing,omitempty"`
	Lookups      []rawLookup      `json:"lookups,omitempty"`
	Permutations []rawPermutation `json:"permutations,omitempty"`
	Ranges       []rawRange       `json:"ranges,omitempty"`
}

// Load reads a constraint-set file and runs it through the fixed
// transformer pipeline of spec.md §6 — validate_nhood, lower_shifts,
// expand_ifs, expand_constraints, sorts, expand_invs — before
// constructing the resulting Set. Every transformer is applied in order
// regardless of whether this document shape needs its work, preserving
// the pipeline's documented ordering.
func Load(path string) (*Set, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("invalid-trace: reading constraint set %q: %w", path, err)
	}

	var doc rawDocument
	if err := json.Unmarshal(bytes, &doc); err != nil {
		return nil, fmt.Errorf("invalid-trace: parsing constraint set %q: %w", path, err)
	}

	for _, stage := range []func(*rawDocument) error{
		validateNhood,
		lowerShifts,
		expandIfs,
		expandConstraints,
		sorts,
		expandInvs,
	} {
		if err := stage(&doc); err != nil {
			return nil, err
		}
	}

	return build(&doc)
}

// validateNhood checks that every column reference names a column
// declared in this same document, before anything downstream assumes
// that invariant.
func validateNhood(doc *rawDocument) error {
	known := make(map[string]bool, len(doc.Columns))
	for _, c := range doc.Columns {
		known[c.Module+"."+c.Name] = true
	}

	var walk func(e *rawExpr) error
	walk = func(e *rawExpr) error {
		if e == nil {
			return nil
		}

		if e.Kind == "column" && !known[e.Module+"."+e.Name] {
			return fmt.Errorf("missing-column: %s.%s is not declared in this constraint set", e.Module, e.Name)
		}

		for _, a := range e.Args {
			if err := walk(a); err != nil {
				return err
			}
		}

		return nil
	}

	for _, v := range doc.Vanishing {
		if err := walk(v.Expr); err != nil {
			return err
		}
	}

	for _, l := range doc.Lookups {
		for _, e := range append(append([]*rawExpr{}, l.Parents...), l.Children...) {
			if err := walk(e); err != nil {
				return err
			}
		}
	}

	for _, p := range doc.Permutations {
		for _, e := range append(append([]*rawExpr{}, p.Lhs...), p.Rhs...) {
			if err := walk(e); err != nil {
				return err
			}
		}
	}

	for _, r := range doc.Ranges {
		if err := walk(r.Expr); err != nil {
			return err
		}
	}

	checkColumn := func(c rawColumn) error {
		if c.Module == "" && c.Name == "" {
			return nil
		}

		if !known[c.Module+"."+c.Name] {
			return fmt.Errorf("missing-column: %s.%s is not declared in this constraint set", c.Module, c.Name)
		}

		return nil
	}

	for _, comp := range doc.Computations {
		if err := checkColumn(comp.Target); err != nil {
			return err
		}

		if err := checkColumn(comp.Source); err != nil {
			return err
		}

		if err := checkColumn(comp.Length); err != nil {
			return err
		}

		if err := checkColumn(comp.Companion); err != nil {
			return err
		}

		for _, s := range comp.Sources {
			if err := checkColumn(s); err != nil {
				return err
			}
		}

		if err := walk(comp.Expr); err != nil {
			return err
		}
	}

	return nil
}

// lowerShifts is a no-op here: this format already carries shifts as an
// explicit field on every column reference, so there is no implicit
// bracket notation left to normalise.
func lowerShifts(*rawDocument) error { return nil }

// expandIfs is a no-op: this format has no conditional expression form.
func expandIfs(*rawDocument) error { return nil }

// expandConstraints is a no-op: constraints in this format are already
// single, fully-expanded expressions rather than templated families.
func expandConstraints(*rawDocument) error { return nil }

// sorts is a no-op: sorted-column computations are registered directly
// against the schema.Set by callers that need them, not derived here.
func sorts(*rawDocument) error { return nil }

// expandInvs renames any vanishing constraint whose expression is
// exactly the reserved Void sentinel to the INV_CONSTRAINTS name, so the
// validation engine's existing "skip Void" rule also covers it.
func expandInvs(doc *rawDocument) error {
	for i, v := range doc.Vanishing {
		if v.Expr == nil {
			doc.Vanishing[i].Name = INVConstraintsName
		}
	}

	return nil
}

func build(doc *rawDocument) (*Set, error) {
	set := schema.NewSet()
	handles := make(map[string]schema.Handle, len(doc.Columns))

	for _, c := range doc.Columns {
		h, err := set.Register(c.Module, c.Name)
		if err != nil {
			return nil, fmt.Errorf("redefinition: %w", err)
		}

		handles[c.Module+"."+c.Name] = h
	}

	toExpr := func(e *rawExpr) (ir.Expr, error) { return convertExpr(e, handles) }

	if err := registerComputations(doc.Computations, set, handles, toExpr); err != nil {
		return nil, err
	}

	var constraints []Constraint

	for _, v := range doc.Vanishing {
		expr, err := toExpr(v.Expr)
		if err != nil {
			return nil, err
		}

		constraints = append(constraints, Vanishing{Handle: v.Name, Domain: v.Domain, Expr: expr})
	}

	for _, l := range doc.Lookups {
		parents, err := convertExprs(l.Parents, handles)
		if err != nil {
			return nil, err
		}

		children, err := convertExprs(l.Children, handles)
		if err != nil {
			return nil, err
		}

		constraints = append(constraints, Lookup{Handle: l.Name, Parents: parents, Children: children})
	}

	for _, p := range doc.Permutations {
		lhs, err := convertExprs(p.Lhs, handles)
		if err != nil {
			return nil, err
		}

		rhs, err := convertExprs(p.Rhs, handles)
		if err != nil {
			return nil, err
		}

		constraints = append(constraints, Permutation{Handle: p.Name, Lhs: lhs, Rhs: rhs})
	}

	for _, r := range doc.Ranges {
		expr, err := toExpr(r.Expr)
		if err != nil {
			return nil, err
		}

		constraints = append(constraints, InRange{Handle: r.Name, Expr: expr, Bound: r.Bound})
	}

	return &Set{Columns: set, Constraints: constraints}, nil
}

// registerComputations resolves each on-disk computation rule against the
// already-registered column handles and registers it with set, per
// spec.md §3's computation registry (Composite, Interleaved, Sorted,
// Cyclic, SortingConstraints).
func registerComputations(
	raw []rawComputation,
	set *schema.Set,
	handles map[string]schema.Handle,
	toExpr func(*rawExpr) (ir.Expr, error),
) error {
	resolve := func(c rawColumn) (schema.Handle, error) {
		h, ok := handles[c.Module+"."+c.Name]
		if !ok {
			return schema.Handle{}, fmt.Errorf("missing-column: %s.%s is not declared in this constraint set", c.Module, c.Name)
		}

		return h, nil
	}

	resolveAll := func(cs []rawColumn) ([]schema.Handle, error) {
		out := make([]schema.Handle, len(cs))

		for i, c := range cs {
			h, err := resolve(c)
			if err != nil {
				return nil, err
			}

			out[i] = h
		}

		return out, nil
	}

	for _, rc := range raw {
		target, err := resolve(rc.Target)
		if err != nil {
			return err
		}

		switch rc.Kind {
		case "composite":
			expr, err := toExpr(rc.Expr)
			if err != nil {
				return err
			}

			sources, err := resolveAll(rc.Sources)
			if err != nil {
				return err
			}

			set.RegisterComputation(target, schema.Composite{Expr: expr, Sources: sources})
		case "interleaved":
			sources, err := resolveAll(rc.Sources)
			if err != nil {
				return err
			}

			set.RegisterComputation(target, schema.Interleaved{Sources: sources})
		case "sorted":
			source, err := resolve(rc.Source)
			if err != nil {
				return err
			}

			set.RegisterComputation(target, schema.Sorted{Source: source})
		case "cyclic":
			length, err := resolve(rc.Length)
			if err != nil {
				return err
			}

			set.RegisterComputation(target, schema.Cyclic{Period: rc.Period, Length: length})
		case "sorting-constraints":
			companion, err := resolve(rc.Companion)
			if err != nil {
				return err
			}

			set.RegisterComputation(target, schema.SortingConstraints{Companion: companion})
		default:
			return fmt.Errorf("invalid-decl: unknown computation kind %q", rc.Kind)
		}
	}

	return nil
}

func convertExprs(raw []*rawExpr, handles map[string]schema.Handle) ([]ir.Expr, error) {
	out := make([]ir.Expr, len(raw))

	for i, e := range raw {
		expr, err := convertExpr(e, handles)
		if err != nil {
			return nil, err
		}

		out[i] = expr
	}

	return out, nil
}

func convertExpr(e *rawExpr, handles map[string]schema.Handle) (ir.Expr, error) {
	if e == nil {
		return ir.Void{}, nil
	}

	switch e.Kind {
	case "const":
		v, err := field.FromDecimalString(e.Value)
		if err != nil {
			return nil, fmt.Errorf("invalid-trace: bad constant %q: %w", e.Value, err)
		}

		return ir.Const{Value: v}, nil
	case "column":
		h, ok := handles[e.Module+"."+e.Name]
		if !ok {
			return nil, fmt.Errorf("missing-column: %s.%s is not declared in this constraint set", e.Module, e.Name)
		}

		return ir.ColumnRef{Handle: h, Shift: e.Shift}, nil
	case "list":
		elems, err := convertExprs(e.Args, handles)
		if err != nil {
			return nil, err
		}

		return ir.List{Elements: elems}, nil
	case "funcall":
		op, err := parseOp(e.Op)
		if err != nil {
			return nil, err
		}

		args, err := convertExprs(e.Args, handles)
		if err != nil {
			return nil, err
		}

		return ir.Funcall{Verb: op, Args: args}, nil
	case "void", "":
		return ir.Void{}, nil
	default:
		return nil, fmt.Errorf("invalid-trace: unknown expression kind %q", e.Kind)
	}
}

func parseOp(s string) (ir.Op, error) {
	switch s {
	case "+", "add":
		return ir.Add, nil
	case "-", "sub":
		return ir.Sub, nil
	case "*", "mul":
		return ir.Mul, nil
	case "=", "eq":
		return ir.Equals, nil
	default:
		return 0, fmt.Errorf("invalid-trace: unknown operator %q", s)
	}
}
