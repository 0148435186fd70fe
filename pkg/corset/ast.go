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

// Package corset implements the semantic analyzer described in spec.md
// §4.2: it turns the raw S-expression tree produced by pkg/sexp into a
// raw AST, resolves symbols/aliases/functions against that AST, and
// folds the result into the polynomial expression trees of pkg/ir.
package corset

import (
	"fmt"
	"strconv"

	"github.com/zkcorset/corset/pkg/sexp"
)

// SymbolStatus distinguishes a declaration-site identifier (a formal
// parameter or an alias target) from a use-site column reference, as
// computed by the parser per spec.md §4.1.
type SymbolStatus uint8

const (
	// Resolved marks a symbol which denotes a column reference to be
	// bound during semantic analysis.
	Resolved SymbolStatus = iota
	// Functional marks a symbol in declaration position: a defun
	// formal parameter, or a defalias/defunalias endpoint.
	Functional
)

// Builtin enumerates the fixed set of built-in verbs named in spec.md
// §4.1.
type Builtin uint8

// The built-in verbs.
const (
	BuiltinDefun Builtin = iota
	BuiltinDefAlias
	BuiltinDefUnalias
	BuiltinDefColumns
	BuiltinDefPerspective // supplemental: spec.md §6.2 / SPEC_FULL.md
	BuiltinDefConst       // supplemental: spec.md §6.2 / SPEC_FULL.md
	BuiltinAdd
	BuiltinMul
	BuiltinSub
	BuiltinEq
)

var builtinsByName = map[string]Builtin{
	"defun":          BuiltinDefun,
	"defalias":       BuiltinDefAlias,
	"defunalias":     BuiltinDefUnalias,
	"defcolumns":     BuiltinDefColumns,
	"defperspective": BuiltinDefPerspective,
	"defconst":       BuiltinDefConst,
	"+":              BuiltinAdd,
	"add":            BuiltinAdd,
	"*":              BuiltinMul,
	"mul":            BuiltinMul,
	"and":            BuiltinMul,
	"-":              BuiltinSub,
	"sub":            BuiltinSub,
	"=":              BuiltinEq,
	"eq":             BuiltinEq,
}

func (b Builtin) String() string {
	for name, v := range builtinsByName {
		if v == b {
			return name
		}
	}

	return "?"
}

// Verb identifies the head of a Funcall: either one of the fixed
// built-ins, or a user-defined function/alias name.
type Verb struct {
	Name    string
	Builtin *Builtin
}

// IsBuiltin reports whether this verb names a built-in.
func (v Verb) IsBuiltin() bool { return v.Builtin != nil }

func (v Verb) String() string { return v.Name }

// Node is a raw AST node, as produced by translating the parser's
// S-expression tree (spec.md §4.1).
type Node interface {
	fmt.Stringer
}

// Ignore is produced for an empty list "()", which contributes nothing.
type Ignore struct{}

func (Ignore) String() string { return "()" }

// Value is a decimal integer literal.
type Value struct {
	N int64
}

func (v Value) String() string { return strconv.FormatInt(v.N, 10) }

// Symbol is a terminating identifier: either a column/alias/function
// reference (Resolved) or a declaration-site name (Functional).
type Symbol struct {
	Name   string
	Status SymbolStatus
}

func (s Symbol) String() string { return s.Name }

// Funcall is a list headed by a verb, e.g. "(+ A B)" or
// "(defcolumns A B)".
type Funcall struct {
	Verb Verb
	Args []Node
	// Span records the source location of this form, for diagnostics.
	Span sexp.Span
}

func (f Funcall) String() string {
	s := "(" + f.Verb.String()

	for _, a := range f.Args {
		s += " " + a.String()
	}

	return s + ")"
}
