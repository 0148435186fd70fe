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
	"fmt"

	"github.com/zkcorset/corset/pkg/field"
	"github.com/zkcorset/corset/pkg/ir"
	"github.com/zkcorset/corset/pkg/schema"
	"github.com/zkcorset/corset/pkg/schema/constraint"
	"github.com/zkcorset/corset/pkg/sexp"
)

// Function is a user-defined function, as registered by a "defun" form
// (spec.md §4.2, pass 2). Its body is kept unresolved AST: calls are
// inlined lazily, at each call site, against that particular call's
// arguments.
type Function struct {
	Name   string
	Params []string
	Body   Node
}

// funcEntry is either a concrete function or a function-name alias
// introduced by "defunalias". Function aliases live in the function
// table rather than the symbol table: an earlier draft of this analyzer
// stored them alongside column aliases, which let a defunalias shadow an
// unrelated column of the same name. Keeping the tables separate avoids
// that.
type funcEntry struct {
	fn    *Function
	alias string
}

// Program is the result of semantic analysis: a populated column set
// together with the constraints folded out of the source's non-
// declaration top-level forms.
type Program struct {
	Columns     *schema.Set
	Constraints []constraint.Constraint
}

type analyzer struct {
	module string

	columns *schema.Set

	// symbols holds column-name aliases introduced by "defalias":
	// from -> to.
	symbols map[string]string
	// funcs holds both function definitions ("defun") and function-name
	// aliases ("defunalias"), keyed by name.
	funcs map[string]*funcEntry
	// consts holds named constant bindings introduced by "defconst".
	consts map[string]field.Element

	anon int
}

// Analyze runs the four ordered passes of spec.md §4.2 over a parsed
// program: register columns, compile functions, compile aliases, build
// constraints.
func Analyze(nodes []Node) (*Program, error) {
	a := &analyzer{
		module:  "main",
		columns: schema.NewSet(),
		symbols: make(map[string]string),
		funcs:   make(map[string]*funcEntry),
		consts:  make(map[string]field.Element),
	}

	if err := a.registerColumns(nodes); err != nil {
		return nil, err
	}

	if err := a.compileFunctions(nodes); err != nil {
		return nil, err
	}

	if err := a.compileAliases(nodes); err != nil {
		return nil, err
	}

	cs, err := a.buildConstraints(nodes)
	if err != nil {
		return nil, err
	}

	return &Program{Columns: a.columns, Constraints: cs}, nil
}

// --- pass 1: columns -------------------------------------------------

func (a *analyzer) registerColumns(nodes []Node) error {
	for _, n := range nodes {
		fc, ok := n.(Funcall)
		if !ok || fc.Verb.Builtin == nil {
			continue
		}

		switch *fc.Verb.Builtin {
		case BuiltinDefColumns:
			if err := a.registerColumnNames(fc.Args, fc.Span); err != nil {
				return err
			}
		case BuiltinDefPerspective:
			if err := a.registerPerspective(fc); err != nil {
				return err
			}
		case BuiltinDefConst:
			if err := a.registerConst(fc); err != nil {
				return err
			}
		}
	}

	return nil
}

func (a *analyzer) registerColumnNames(args []Node, span sexp.Span) error {
	for _, arg := range args {
		sym, ok := arg.(Symbol)
		if !ok {
			return newError(ErrInvalidDecl, span, "defcolumns: expected a column name, found %s", arg)
		}

		if _, err := a.columns.Register(a.module, sym.Name); err != nil {
			return newError(ErrRedefinition, span, "%v", err)
		}
	}

	return nil
}

// registerPerspective handles "(defperspective name guard col1 col2
// ...)". The guard expression is metadata: it groups the listed columns
// under a named perspective for downstream tooling but does not change
// evaluation semantics, so it is recorded nowhere and simply skipped
// here — only the column declarations themselves matter to analysis.
func (a *analyzer) registerPerspective(fc Funcall) error {
	if len(fc.Args) < 3 {
		return newError(ErrInvalidDecl, fc.Span,
			"defperspective expects (name guard col1 col2 ...), found %d argument(s)", len(fc.Args))
	}

	if _, ok := fc.Args[0].(Symbol); !ok {
		return newError(ErrInvalidDecl, fc.Span, "defperspective: first argument must be a name")
	}

	return a.registerColumnNames(fc.Args[2:], fc.Span)
}

func (a *analyzer) registerConst(fc Funcall) error {
	if len(fc.Args) != 2 {
		return newError(ErrInvalidDecl, fc.Span, "defconst expects (name value), found %d argument(s)", len(fc.Args))
	}

	name, ok := fc.Args[0].(Symbol)
	if !ok {
		return newError(ErrInvalidDecl, fc.Span, "defconst: first argument must be a name")
	}

	val, ok := fc.Args[1].(Value)
	if !ok {
		return newError(ErrInvalidDecl, fc.Span, "defconst: second argument must be a literal value")
	}

	if _, exists := a.consts[name.Name]; exists {
		return newError(ErrRedefinition, fc.Span, "constant %s already declared", name.Name)
	}

	a.consts[name.Name] = field.FromInt64(val.N)

	return nil
}

// --- pass 2: functions -------------------------------------------------

// isDefunNode recognises the shape translateDefun produces: a Funcall
// whose verb is the function's own name and whose first argument is the
// synthetic "header" wrapper around its formal parameters.
func isDefunNode(n Node) (Funcall, bool) {
	fc, ok := n.(Funcall)
	if !ok || len(fc.Args) != 2 {
		return Funcall{}, false
	}

	header, ok := fc.Args[0].(Funcall)
	if !ok || header.Verb.Builtin != nil || header.Verb.Name != "header" {
		return Funcall{}, false
	}

	return fc, true
}

func (a *analyzer) compileFunctions(nodes []Node) error {
	for _, n := range nodes {
		fc, ok := isDefunNode(n)
		if !ok {
			continue
		}

		header := fc.Args[0].(Funcall)
		params := make([]string, len(header.Args))

		for i, p := range header.Args {
			sym, ok := p.(Symbol)
			if !ok {
				return newError(ErrInvalidDecl, fc.Span, "defun: parameter must be a symbol")
			}

			params[i] = sym.Name
		}

		name := fc.Verb.Name
		body := fc.Args[1]

		if err := a.checkBodySymbols(body, params, fc.Span); err != nil {
			return err
		}

		if _, exists := a.funcs[name]; exists {
			return newError(ErrRedefinition, fc.Span, "function %s already declared", name)
		}

		a.funcs[name] = &funcEntry{fn: &Function{Name: name, Params: params, Body: body}}
	}

	return nil
}

// checkBodySymbols requires every free symbol in a function body to
// resolve to one of the function's own formal parameters or a named
// constant — a defun body is otherwise pure and cannot reach columns in
// the surrounding scope, matching spec.md §4.2's "unknown-symbol" rule.
func (a *analyzer) checkBodySymbols(n Node, params []string, span sexp.Span) error {
	switch t := n.(type) {
	case Symbol:
		if t.Status != Resolved {
			return nil
		}

		for _, p := range params {
			if p == t.Name {
				return nil
			}
		}

		if _, ok := a.consts[t.Name]; ok {
			return nil
		}

		return newError(ErrUnknownSymbol, span, "symbol %q in function body is neither a parameter nor a constant", t.Name)
	case Funcall:
		for _, arg := range t.Args {
			if err := a.checkBodySymbols(arg, params, span); err != nil {
				return err
			}
		}

		return nil
	default:
		return nil
	}
}

// --- pass 3: aliases -------------------------------------------------

func (a *analyzer) compileAliases(nodes []Node) error {
	for _, n := range nodes {
		fc, ok := n.(Funcall)
		if !ok || fc.Verb.Builtin == nil {
			continue
		}

		switch *fc.Verb.Builtin {
		case BuiltinDefAlias:
			if err := a.addSymbolAlias(fc); err != nil {
				return err
			}
		case BuiltinDefUnalias:
			if err := a.addFuncAlias(fc); err != nil {
				return err
			}
		}
	}

	return nil
}

func (a *analyzer) addSymbolAlias(fc Funcall) error {
	if len(fc.Args) != 2 {
		return newError(ErrInvalidDecl, fc.Span, "defalias expects exactly 2 arguments, found %d", len(fc.Args))
	}

	from, ok1 := fc.Args[0].(Symbol)
	to, ok2 := fc.Args[1].(Symbol)

	if !ok1 || !ok2 {
		return newError(ErrInvalidDecl, fc.Span, "defalias arguments must be symbols")
	}

	if _, exists := a.symbols[from.Name]; exists {
		return newError(ErrRedefinition, fc.Span, "alias %s already declared", from.Name)
	}

	a.symbols[from.Name] = to.Name

	return nil
}

func (a *analyzer) addFuncAlias(fc Funcall) error {
	if len(fc.Args) != 2 {
		return newError(ErrInvalidDecl, fc.Span, "defunalias expects exactly 2 arguments, found %d", len(fc.Args))
	}

	from, ok1 := fc.Args[0].(Symbol)
	to, ok2 := fc.Args[1].(Symbol)

	if !ok1 || !ok2 {
		return newError(ErrInvalidDecl, fc.Span, "defunalias arguments must be symbols")
	}

	if _, exists := a.funcs[from.Name]; exists {
		return newError(ErrRedefinition, fc.Span, "function %s already declared", from.Name)
	}

	a.funcs[from.Name] = &funcEntry{alias: to.Name}

	return nil
}

// resolveSymbol follows "defalias" chains to a bound column handle,
// detecting cycles via visited.
func (a *analyzer) resolveSymbol(name string, span sexp.Span, visited map[string]bool) (schema.Handle, error) {
	if visited[name] {
		return schema.Handle{}, newError(ErrCircularDefinition, span, "circular alias definition involving %q", name)
	}

	if h, ok := a.columns.Lookup(a.module, name); ok {
		return h, nil
	}

	if to, ok := a.symbols[name]; ok {
		visited[name] = true
		return a.resolveSymbol(to, span, visited)
	}

	return schema.Handle{}, newError(ErrUnknownSymbol, span, "unknown column %q", name)
}

// resolveFunction follows "defunalias" chains to a concrete function
// definition, detecting cycles via visited.
func (a *analyzer) resolveFunction(name string, span sexp.Span, visited map[string]bool) (*Function, error) {
	if visited[name] {
		return nil, newError(ErrCircularDefinition, span, "circular function alias involving %q", name)
	}

	entry, ok := a.funcs[name]
	if !ok {
		return nil, newError(ErrUnknownSymbol, span, "unknown function %q", name)
	}

	if entry.fn != nil {
		return entry.fn, nil
	}

	visited[name] = true

	return a.resolveFunction(entry.alias, span, visited)
}

// --- pass 4: constraints -------------------------------------------------

func (a *analyzer) buildConstraints(nodes []Node) ([]constraint.Constraint, error) {
	var out []constraint.Constraint

	for _, n := range nodes {
		if a.isDeclaration(n) {
			continue
		}

		expr, err := a.fold(n, nil)
		if err != nil {
			return nil, err
		}

		if ir.IsVoid(expr) {
			continue
		}

		name := fmt.Sprintf("constraint_%d", a.anon)
		a.anon++

		out = append(out, constraint.Vanishing{Handle: name, Domain: nil, Expr: expr})
	}

	return out, nil
}

func (a *analyzer) isDeclaration(n Node) bool {
	if _, ok := isDefunNode(n); ok {
		return true
	}

	fc, ok := n.(Funcall)
	if !ok || fc.Verb.Builtin == nil {
		return false
	}

	switch *fc.Verb.Builtin {
	case BuiltinDefColumns, BuiltinDefAlias, BuiltinDefUnalias, BuiltinDefPerspective, BuiltinDefConst:
		return true
	default:
		return false
	}
}

var builtinOps = map[Builtin]ir.Op{
	BuiltinAdd: ir.Add,
	BuiltinSub: ir.Sub,
	BuiltinMul: ir.Mul,
	BuiltinEq:  ir.Equals,
}

// fold lowers a raw AST node into a polynomial expression tree,
// substituting env (the enclosing function call's argument bindings, if
// any) for its formal parameters and inlining nested function calls by
// recursive descent.
func (a *analyzer) fold(n Node, env map[string]ir.Expr) (ir.Expr, error) {
	switch t := n.(type) {
	case Ignore:
		return ir.Void{}, nil
	case Value:
		return ir.Const{Value: field.FromInt64(t.N)}, nil
	case Symbol:
		if e, ok := env[t.Name]; ok {
			return e, nil
		}

		if v, ok := a.consts[t.Name]; ok {
			return ir.Const{Value: v}, nil
		}

		h, err := a.resolveSymbol(t.Name, sexp.Span{}, map[string]bool{})
		if err != nil {
			return nil, err
		}

		return ir.ColumnRef{Handle: h}, nil
	case Funcall:
		return a.foldFuncall(t, env)
	default:
		return nil, fmt.Errorf("cannot fold node of type %T", n)
	}
}

func (a *analyzer) foldFuncall(fc Funcall, env map[string]ir.Expr) (ir.Expr, error) {
	if fc.Verb.Builtin != nil {
		op, isOperator := builtinOps[*fc.Verb.Builtin]
		if !isOperator {
			return nil, newError(ErrInvalidDecl, fc.Span, "%s cannot appear in an expression", fc.Verb)
		}

		if *fc.Verb.Builtin == BuiltinEq && len(fc.Args) != 2 {
			return nil, newError(ErrArity, fc.Span, "= expects exactly 2 arguments, found %d", len(fc.Args))
		}

		args := make([]ir.Expr, len(fc.Args))

		for i, raw := range fc.Args {
			e, err := a.fold(raw, env)
			if err != nil {
				return nil, err
			}

			args[i] = e
		}

		return ir.Funcall{Verb: op, Args: args}, nil
	}

	fn, err := a.resolveFunction(fc.Verb.Name, fc.Span, map[string]bool{})
	if err != nil {
		return nil, err
	}

	if len(fc.Args) != len(fn.Params) {
		return nil, newError(ErrArity, fc.Span, "%s expects %d argument(s), found %d", fn.Name, len(fn.Params), len(fc.Args))
	}

	callEnv := make(map[string]ir.Expr, len(fn.Params))

	for i, p := range fn.Params {
		e, err := a.fold(fc.Args[i], env)
		if err != nil {
			return nil, err
		}

		callEnv[p] = e
	}

	return a.fold(fn.Body, callEnv)
}
