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

// Package ir implements the polynomial expression tree produced by
// semantic analysis (spec.md §3) and its evaluator (spec.md §4.4).
package ir

import (
	"fmt"
	"strings"

	"github.com/zkcorset/corset/pkg/field"
	"github.com/zkcorset/corset/pkg/schema"
)

// Op identifies a built-in arithmetic operator.
type Op uint8

// The built-in operators named in spec.md §4.1. The analyzer emits Equals
// for "=" and "eq"; the evaluator computes it as the subtraction of its
// two arguments.
const (
	Add Op = iota
	Sub
	Mul
	Equals
)

func (op Op) String() string {
	switch op {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	case Equals:
		return "="
	default:
		return "?"
	}
}

// Expr is a node in the polynomial expression tree. Every concrete
// implementation also satisfies schema.Evaluable so the column store can
// drive Composite computations without importing this package.
type Expr interface {
	schema.Evaluable
	fmt.Stringer
	// Handles returns every column handle referenced transitively by
	// this expression, for checking spec.md §3's "handle set is a
	// subset of the column set" invariant.
	Handles() []schema.Handle
}

// Const is a literal field value.
type Const struct {
	Value field.Element
}

// EvalAt implements Expr.
func (c Const) EvalAt(int, *schema.Set) (field.Element, bool) { return c.Value, true }

// Handles implements Expr.
func (c Const) Handles() []schema.Handle { return nil }

func (c Const) String() string { return c.Value.String() }

// ColumnRef reads a column at the current row, optionally shifted by a
// constant row offset (e.g. "A[i+1]" is ColumnRef{A, 1}). Shifts are
// lowered to this explicit node at analysis time so the evaluator never
// performs implicit offset arithmetic (spec.md §3).
type ColumnRef struct {
	Handle schema.Handle
	Shift  int
}

// EvalAt implements Expr.
func (r ColumnRef) EvalAt(i int, set *schema.Set) (field.Element, bool) {
	return set.Column(r.Handle).Get(i+r.Shift, false)
}

// Handles implements Expr.
func (r ColumnRef) Handles() []schema.Handle { return []schema.Handle{r.Handle} }

func (r ColumnRef) String() string {
	if r.Shift == 0 {
		return r.Handle.String()
	}

	return fmt.Sprintf("(shift %s %d)", r.Handle, r.Shift)
}

// List is an implicit conjunction of equalities to zero: each element is
// itself treated as a vanishing sub-constraint (spec.md §3, §4.4).
type List struct {
	Elements []Expr
}

// EvalAt implements Expr. It returns Some(0) if every element is zero,
// otherwise the first non-zero element's value, so callers can localise
// which conjunct failed.
func (l List) EvalAt(i int, set *schema.Set) (field.Element, bool) {
	for _, e := range l.Elements {
		v, ok := e.EvalAt(i, set)
		if !ok {
			return field.Zero, false
		}

		if !v.IsZero() {
			return v, true
		}
	}

	return field.Zero, true
}

// Handles implements Expr.
func (l List) Handles() []schema.Handle {
	var hs []schema.Handle
	for _, e := range l.Elements {
		hs = append(hs, e.Handles()...)
	}

	return hs
}

func (l List) String() string {
	parts := make([]string, len(l.Elements))
	for i, e := range l.Elements {
		parts[i] = e.String()
	}

	return "(" + strings.Join(parts, " ") + ")"
}

// Funcall applies a built-in operator to its arguments.
type Funcall struct {
	Verb Op
	Args []Expr
}

// EvalAt implements Expr, dispatching by Verb as specified in spec.md
// §4.4: Add/Sub short-circuit to undefined if any argument is undefined.
// EvalAt uses no cache; Eval (see eval.go) consults one for Mul.
func (f Funcall) EvalAt(i int, set *schema.Set) (field.Element, bool) {
	return evalFuncall(f, i, set, nil)
}

// Handles implements Expr.
func (f Funcall) Handles() []schema.Handle {
	var hs []schema.Handle
	for _, a := range f.Args {
		hs = append(hs, a.Handles()...)
	}

	return hs
}

func (f Funcall) String() string {
	parts := make([]string, len(f.Args))
	for i, a := range f.Args {
		parts[i] = a.String()
	}

	return fmt.Sprintf("(%s %s)", f.Verb, strings.Join(parts, " "))
}

// Void denotes an empty or pruned expression (e.g. the body of a
// declaration, which contributes no constraint).
type Void struct{}

// EvalAt implements Expr; Void is always undefined.
func (Void) EvalAt(int, *schema.Set) (field.Element, bool) { return field.Zero, false }

// Handles implements Expr.
func (Void) Handles() []schema.Handle { return nil }

func (Void) String() string { return "void" }

// IsVoid reports whether e is the Void expression.
func IsVoid(e Expr) bool {
	_, ok := e.(Void)
	return ok
}
