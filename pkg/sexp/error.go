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

// Span identifies a contiguous slice of the original source text, as a
// pair of rune offsets.
type Span struct {
	Start int
	End   int
}

// SyntaxError is a structured error retaining the span of source text
// where the problem arose, so that callers can highlight it. This is the
// "parse" error kind of the compiler's error taxonomy.
type SyntaxError struct {
	span Span
	msg  string
}

// NewSyntaxError constructs a syntax error over the given span.
func NewSyntaxError(span Span, msg string) *SyntaxError {
	return &SyntaxError{span, msg}
}

// Span returns the span of source text this error concerns.
func (e *SyntaxError) Span() Span { return e.span }

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.span.Start, e.span.End, e.msg)
}
