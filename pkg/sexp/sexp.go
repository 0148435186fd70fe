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

// Package sexp implements a minimal s-expression reader for the corset
// surface syntax: nested parenthesised lists of symbols, with ';' line
// comments and no other punctuation.
package sexp

import "strings"

// SExp is either a List of zero or more SExp, or a terminating Symbol.
type SExp interface {
	// IsList reports whether this node is a list.
	IsList() bool
	// IsSymbol reports whether this node is a symbol.
	IsSymbol() bool
	String() string
}

// List represents "(e1 e2 ... en)".
type List struct {
	Elements []SExp
}

// IsList always returns true for a List.
func (*List) IsList() bool { return true }

// IsSymbol always returns false for a List.
func (*List) IsSymbol() bool { return false }

// Len returns the number of elements in this list.
func (l *List) Len() int { return len(l.Elements) }

// Get returns the i'th element of this list.
func (l *List) Get(i int) SExp { return l.Elements[i] }

func (l *List) String() string {
	var sb strings.Builder

	sb.WriteByte('(')

	for i, e := range l.Elements {
		if i != 0 {
			sb.WriteByte(' ')
		}

		sb.WriteString(e.String())
	}

	sb.WriteByte(')')

	return sb.String()
}

// MatchSymbols reports whether this list has at least n elements, the
// first len(symbols) of which are symbols matching, in order, the given
// strings.
func (l *List) MatchSymbols(n int, symbols ...string) bool {
	if len(l.Elements) < n || len(symbols) > n {
		return false
	}

	for i, want := range symbols {
		sym, ok := l.Elements[i].(*Symbol)
		if !ok || sym.Value != want {
			return false
		}
	}

	return true
}

// Symbol is a terminating token: an identifier, a decimal integer, or an
// operator such as "+" or "=".
type Symbol struct {
	Value string
}

// IsList always returns false for a Symbol.
func (*Symbol) IsList() bool { return false }

// IsSymbol always returns true for a Symbol.
func (*Symbol) IsSymbol() bool { return true }

func (s *Symbol) String() string { return s.Value }
