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

	"github.com/zkcorset/corset/pkg/sexp"
)

// ErrorKind is the small, closed set of sentinel error kinds named in
// spec.md §7. Errors raised by semantic analysis (Analyze) are *Error
// values carrying one of these, so callers can switch on Kind. Parsing,
// pkg/schema/constraint and pkg/trace/json return plain errors instead,
// most of them prefixed with the kind's name (e.g. "missing-column: ...").
type ErrorKind uint8

// The error kinds.
const (
	ErrParse ErrorKind = iota
	ErrRedefinition
	ErrUnknownSymbol
	ErrCircularDefinition
	ErrArity
	ErrInvalidDecl
	ErrMissingColumn
	ErrInvalidTrace
	ErrEmptyTrace
	ErrConstraintFailed
)

func (k ErrorKind) String() string {
	switch k {
	case ErrParse:
		return "parse"
	case ErrRedefinition:
		return "redefinition"
	case ErrUnknownSymbol:
		return "unknown-symbol"
	case ErrCircularDefinition:
		return "circular-definition"
	case ErrArity:
		return "arity"
	case ErrInvalidDecl:
		return "invalid-decl"
	case ErrMissingColumn:
		return "missing-column"
	case ErrInvalidTrace:
		return "invalid-trace"
	case ErrEmptyTrace:
		return "empty-trace"
	case ErrConstraintFailed:
		return "constraint-failed"
	default:
		return "unknown"
	}
}

// Error is the concrete error type returned by this package. Span is the
// zero value when the error has no associated source location (e.g. a
// trace-loading failure).
type Error struct {
	Kind ErrorKind
	Msg  string
	Span sexp.Span
}

func (e *Error) Error() string {
	if e.Span == (sexp.Span{}) {
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	}

	return fmt.Sprintf("%d:%d: %s: %s", e.Span.Start, e.Span.End, e.Kind, e.Msg)
}

func newError(kind ErrorKind, span sexp.Span, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Span: span}
}
