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

import (
	"reflect"
	"testing"
)

func TestSexpSymbol(t *testing.T) {
	checkOk(t, &Symbol{"symbol"}, "symbol")
}

func TestSexpNumber(t *testing.T) {
	checkOk(t, &Symbol{"12345"}, "12345")
}

func TestSexpEmptyList(t *testing.T) {
	checkOk(t, &List{nil}, "()")
}

func TestSexpNestedList(t *testing.T) {
	checkOk(t, &List{[]SExp{&List{nil}}}, "(())")
}

func TestSexpOperator(t *testing.T) {
	e := &List{[]SExp{&Symbol{"+"}, &Symbol{"1"}, &Symbol{"2"}}}
	checkOk(t, e, "(+ 1 2)")
}

func TestSexpComment(t *testing.T) {
	e := &List{[]SExp{&Symbol{"defcolumns"}, &Symbol{"A"}}}
	checkOk(t, e, "; a comment\n(defcolumns A) ; trailing")
}

func TestSexpErrUnopenedList(t *testing.T) {
	checkErr(t, ")")
}

func TestSexpErrUnclosedList(t *testing.T) {
	checkErr(t, "(a b")
}

func TestSexpErrTrailing(t *testing.T) {
	checkErr(t, "(a) (b)")
}

func TestMatchSymbols(t *testing.T) {
	l := &List{[]SExp{&Symbol{"defcolumns"}, &Symbol{"A"}, &Symbol{"B"}}}

	if !l.MatchSymbols(1, "defcolumns") {
		t.Error("expected match")
	}

	if l.MatchSymbols(1, "defun") {
		t.Error("expected no match")
	}
}

func checkOk(t *testing.T, want SExp, input string) {
	t.Helper()

	got, err := Parse(input)
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(want, got) {
		t.Errorf("got %s, want %s", got, want)
	}
}

func checkErr(t *testing.T, input string) {
	t.Helper()

	if _, err := Parse(input); err == nil {
		t.Errorf("expected parse error for %q", input)
	}
}
