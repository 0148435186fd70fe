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
package corset

import (
	"testing"

	"github.com/zkcorset/corset/pkg/schema/constraint"
)

func analyze(t *testing.T, source string) *Program {
	t.Helper()

	nodes, err := ParseProgram(source)
	if err != nil {
		t.Fatalf("ParseProgram(%q): unexpected error: %v", source, err)
	}

	prog, err := Analyze(nodes)
	if err != nil {
		t.Fatalf("Analyze(%q): unexpected error: %v", source, err)
	}

	return prog
}

func analyzeErr(t *testing.T, source string, wantKind ErrorKind) {
	t.Helper()

	nodes, err := ParseProgram(source)
	if err != nil {
		t.Fatalf("ParseProgram(%q): unexpected error: %v", source, err)
	}

	_, err = Analyze(nodes)
	if err == nil {
		t.Fatalf("Analyze(%q): expected error of kind %s, got none", source, wantKind)
	}

	cerr, ok := err.(*Error)
	if !ok {
		t.Fatalf("Analyze(%q): expected *corset.Error, got %T (%v)", source, err, err)
	}

	if cerr.Kind != wantKind {
		t.Fatalf("Analyze(%q): expected kind %s, got %s (%v)", source, wantKind, cerr.Kind, cerr)
	}
}

func TestAnalyzeRegistersColumns(t *testing.T) {
	prog := analyze(t, "(defcolumns A B C)")

	for _, name := range []string{"A", "B", "C"} {
		if _, ok := prog.Columns.Lookup("main", name); !ok {
			t.Errorf("expected column %s to be registered", name)
		}
	}
}

func TestAnalyzeDuplicateColumnIsRedefinition(t *testing.T) {
	analyzeErr(t, "(defcolumns A A)", ErrRedefinition)
}

func TestAnalyzeBareExpressionBecomesVanishingConstraint(t *testing.T) {
	prog := analyze(t, "(defcolumns A B) (- A B)")

	if len(prog.Constraints) != 1 {
		t.Fatalf("expected 1 constraint, got %d", len(prog.Constraints))
	}

	if got, want := prog.Constraints[0].Name(), "constraint_0"; got != want {
		t.Errorf("expected auto-generated name %q, got %q", want, got)
	}
}

func TestAnalyzeUnknownColumnIsUnknownSymbol(t *testing.T) {
	analyzeErr(t, "(defcolumns A) (- A B)", ErrUnknownSymbol)
}

func TestAnalyzeFunctionInlining(t *testing.T) {
	prog := analyze(t, "(defcolumns A B) (defun (double x) (+ x x)) (- (double A) B)")

	if len(prog.Constraints) != 1 {
		t.Fatalf("expected 1 constraint, got %d", len(prog.Constraints))
	}

	v, ok := prog.Constraints[0].(constraint.Vanishing)
	if !ok {
		t.Fatalf("expected a Vanishing constraint, got %T", prog.Constraints[0])
	}

	if got, want := v.Expr.String(), "(- (+ main.A main.A) main.B)"; got != want {
		t.Errorf("expected inlined expression %q, got %q", want, got)
	}
}

func TestAnalyzeFunctionArityMismatch(t *testing.T) {
	analyzeErr(t, "(defcolumns A) (defun (double x) (+ x x)) (double A B)", ErrArity)
}

func TestAnalyzeFunctionBodyCannotReferenceFreeColumn(t *testing.T) {
	analyzeErr(t, "(defcolumns A) (defun (f x) (+ x A))", ErrUnknownSymbol)
}

func TestAnalyzeDuplicateFunctionIsRedefinition(t *testing.T) {
	analyzeErr(t, "(defun (f x) x) (defun (f x) x)", ErrRedefinition)
}

func TestAnalyzeSymbolAlias(t *testing.T) {
	prog := analyze(t, "(defcolumns A B) (defalias AA A) (- AA B)")

	if len(prog.Constraints) != 1 {
		t.Fatalf("expected 1 constraint, got %d", len(prog.Constraints))
	}
}

func TestAnalyzeSymbolAliasCycle(t *testing.T) {
	analyzeErr(t, "(defcolumns A) (defalias X Y) (defalias Y X) (- X A)", ErrCircularDefinition)
}

func TestAnalyzeFunctionAliasGoesToFuncTable(t *testing.T) {
	prog := analyze(t, "(defcolumns A) (defun (f x) x) (defunalias g f) (- (g A) A)")

	if len(prog.Constraints) != 1 {
		t.Fatalf("expected 1 constraint, got %d", len(prog.Constraints))
	}
}

func TestAnalyzeConstBinding(t *testing.T) {
	prog := analyze(t, "(defcolumns A) (defconst FIVE 5) (- A FIVE)")

	if len(prog.Constraints) != 1 {
		t.Fatalf("expected 1 constraint, got %d", len(prog.Constraints))
	}
}

func TestAnalyzePerspectiveRegistersItsColumns(t *testing.T) {
	prog := analyze(t, "(defperspective reading IS_READ A B)")

	for _, name := range []string{"A", "B"} {
		if _, ok := prog.Columns.Lookup("main", name); !ok {
			t.Errorf("expected column %s to be registered via defperspective", name)
		}
	}
}

func TestAnalyzeEmptyListContributesNoConstraint(t *testing.T) {
	prog := analyze(t, "(defcolumns A) ()")

	if len(prog.Constraints) != 0 {
		t.Fatalf("expected 0 constraints, got %d", len(prog.Constraints))
	}
}
