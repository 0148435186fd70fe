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
	"strconv"

	"github.com/zkcorset/corset/pkg/sexp"
)

// ParseProgram parses and translates source text into a raw AST, one
// top-level Node per "corset" production of spec.md §4.1's grammar.
func ParseProgram(source string) ([]Node, error) {
	terms, srcmap, err := sexp.ParseAll(source)
	if err != nil {
		return nil, err
	}

	nodes := make([]Node, len(terms))

	for i, term := range terms {
		node, err := translate(term, srcmap)
		if err != nil {
			return nil, err
		}

		nodes[i] = node
	}

	return nodes, nil
}

func translate(s sexp.SExp, srcmap *sexp.SourceMap) (Node, error) {
	switch t := s.(type) {
	case *sexp.Symbol:
		return translateSymbol(t, Resolved), nil
	case *sexp.List:
		return translateList(t, srcmap)
	default:
		return nil, fmt.Errorf("unknown grammar rule for %s", s)
	}
}

func translateSymbol(s *sexp.Symbol, status SymbolStatus) Node {
	if n, err := strconv.ParseInt(s.Value, 10, 64); err == nil {
		return Value{n}
	}

	return Symbol{s.Value, status}
}

func translateList(l *sexp.List, srcmap *sexp.SourceMap) (Node, error) {
	if len(l.Elements) == 0 {
		return Ignore{}, nil
	}

	head, ok := l.Elements[0].(*sexp.Symbol)
	if !ok {
		return nil, fmt.Errorf("malformed form: expected a verb symbol, found %s", l.Elements[0])
	}

	verb := Verb{Name: head.Value}
	if b, isBuiltin := builtinsByName[head.Value]; isBuiltin {
		bb := b
		verb.Builtin = &bb
	}

	span := sexp.Span{}
	if srcmap != nil {
		span = srcmap.Get(l)
	}

	switch {
	case verb.Builtin != nil && *verb.Builtin == BuiltinDefun:
		return translateDefun(verb, l.Elements[1:], srcmap, span)
	case verb.Builtin != nil && (*verb.Builtin == BuiltinDefAlias || *verb.Builtin == BuiltinDefUnalias):
		return translateDefAlias(verb, l.Elements[1:], span)
	default:
		args := make([]Node, len(l.Elements)-1)

		for i, e := range l.Elements[1:] {
			n, err := translate(e, srcmap)
			if err != nil {
				return nil, err
			}

			args[i] = n
		}

		return Funcall{verb, args, span}, nil
	}
}

// translateDefun handles "(defun (fname arg1 ... argN) body)". The
// header list's head symbol is the function's own name (it becomes the
// resulting Funcall's verb, not a formal parameter); the remaining
// header symbols are the formal parameters, marked Functional per
// spec.md §4.1 since they are declaration-site names, not column
// references.
func translateDefun(verb Verb, args []sexp.SExp, srcmap *sexp.SourceMap, span sexp.Span) (Node, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("invalid-decl: defun expects exactly 2 arguments (header, body), found %d", len(args))
	}

	header, ok := args[0].(*sexp.List)
	if !ok || header.Len() == 0 {
		return nil, fmt.Errorf("invalid-decl: defun header must be a non-empty list")
	}

	fname, ok := header.Elements[0].(*sexp.Symbol)
	if !ok {
		return nil, fmt.Errorf("invalid-decl: defun header must start with a function name")
	}

	paramNodes := make([]Node, len(header.Elements)-1)

	for i, e := range header.Elements[1:] {
		sym, ok := e.(*sexp.Symbol)
		if !ok {
			return nil, fmt.Errorf("invalid-decl: defun parameters must be symbols")
		}

		paramNodes[i] = translateSymbol(sym, Functional)
	}

	body, err := translate(args[1], srcmap)
	if err != nil {
		return nil, err
	}

	fnVerb := Verb{Name: fname.Value}

	return Funcall{fnVerb, []Node{Funcall{Verb{Name: "header"}, paramNodes, span}, body}, span}, nil
}

// translateDefAlias handles "(defalias from to)" and "(defunalias from
// to)": both arguments are declaration-site names, marked Functional.
func translateDefAlias(verb Verb, args []sexp.SExp, span sexp.Span) (Node, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("invalid-decl: %s expects exactly 2 arguments, found %d", verb.Name, len(args))
	}

	nodes := make([]Node, 2)

	for i, e := range args {
		sym, ok := e.(*sexp.Symbol)
		if !ok {
			return nil, fmt.Errorf("invalid-decl: %s arguments must be symbols", verb.Name)
		}

		nodes[i] = translateSymbol(sym, Functional)
	}

	return Funcall{verb, nodes, span}, nil
}
