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

// Parse reads a single S-expression from s, failing if any trailing,
// non-whitespace, non-comment text remains.
func Parse(s string) (SExp, error) {
	p := NewParser(s)

	term, err := p.next()
	if err != nil {
		return nil, err
	}

	p.skipTrivia()

	if p.index != len(p.text) {
		return nil, p.errorAt(p.index, "unexpected remainder")
	}

	return term, nil
}

// ParseAll reads zero or more top-level S-expressions (a "corset" in the
// grammar of spec.md §4.1) from s, along with a source map recording the
// span each term was parsed from.
func ParseAll(s string) ([]SExp, *SourceMap, error) {
	p := NewParser(s)

	var terms []SExp

	for {
		term, err := p.next()
		if err != nil {
			return terms, p.srcmap, err
		}

		if term == nil {
			return terms, p.srcmap, nil
		}

		terms = append(terms, term)
	}
}

// Parser incrementally converts source text into S-expressions, tracking
// the span (in rune offsets) of every node it produces.
type Parser struct {
	text   []rune
	index  int
	srcmap *SourceMap
}

// NewParser constructs a parser over the given source text.
func NewParser(text string) *Parser {
	runes := []rune(text)

	return &Parser{
		text:   runes,
		index:  0,
		srcmap: NewSourceMap(runes),
	}
}

// next parses the next top-level term, or returns (nil, nil) at EOF.
func (p *Parser) next() (SExp, error) {
	p.skipTrivia()

	if p.index == len(p.text) {
		return nil, nil
	}

	start := p.index

	switch p.text[p.index] {
	case ')':
		return nil, p.errorAt(p.index, "unexpected end-of-list")
	case '(':
		p.index++

		var elements []SExp

		for {
			p.skipTrivia()

			if p.index == len(p.text) {
				return nil, p.errorAt(start, "unexpected end-of-file")
			}

			if p.text[p.index] == ')' {
				p.index++

				list := &List{elements}
				p.srcmap.Put(list, Span{start, p.index})

				return list, nil
			}

			element, err := p.next()
			if err != nil {
				return nil, err
			}

			elements = append(elements, element)
		}
	default:
		token := p.scanSymbol()
		sym := &Symbol{token}
		p.srcmap.Put(sym, Span{start, p.index})

		return sym, nil
	}
}

// skipTrivia advances past whitespace and ';' line comments.
func (p *Parser) skipTrivia() {
	for p.index < len(p.text) {
		switch p.text[p.index] {
		case ' ', '\t', '\n', '\r':
			p.index++
		case ';':
			for p.index < len(p.text) && p.text[p.index] != '\n' {
				p.index++
			}
		default:
			return
		}
	}
}

// scanSymbol consumes a maximal run of characters which are neither
// whitespace nor list punctuation.
func (p *Parser) scanSymbol() string {
	start := p.index

	for p.index < len(p.text) {
		switch p.text[p.index] {
		case '(', ')', ' ', '\t', '\n', '\r', ';':
			return string(p.text[start:p.index])
		}

		p.index++
	}

	return string(p.text[start:p.index])
}

func (p *Parser) errorAt(at int, msg string) *SyntaxError {
	return NewSyntaxError(Span{at, at + 1}, msg)
}
