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
package sexp

import "fmt"

// SourceMap associates AST nodes with the span of source text they were
// parsed from, so that semantic-analysis errors (redefinition, unknown
// symbol, ...) can be reported with source position rather than just a
// message.
type SourceMap struct {
	spans map[SExp]Span
	text  []rune
}

// NewSourceMap constructs an empty source map over the given source text.
func NewSourceMap(text []rune) *SourceMap {
	return &SourceMap{make(map[SExp]Span), text}
}

// Put records the span from which a node was parsed.
func (m *SourceMap) Put(node SExp, span Span) {
	m.spans[node] = span
}

// Get returns the span recorded for a node, or panics if none was
// recorded — every node returned by Parse is always registered.
func (m *SourceMap) Get(node SExp) Span {
	span, ok := m.spans[node]
	if !ok {
		panic(fmt.Sprintf("no source span recorded for %s", node))
	}

	return span
}

// Line identifies the 1-indexed source line enclosing a span's start, and
// its text.
type Line struct {
	Number int
	Text   string
}

// EnclosingLine finds the line containing the start of span within the
// original text.
func (m *SourceMap) EnclosingLine(span Span) Line {
	number, start := 1, 0

	for i, r := range m.text {
		if i == span.Start {
			break
		}

		if r == '\n' {
			number++
			start = i + 1
		}
	}

	end := start

	for end < len(m.text) && m.text[end] != '\n' {
		end++
	}

	return Line{number, string(m.text[start:end])}
}
