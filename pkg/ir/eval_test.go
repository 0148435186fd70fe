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
package ir

import (
	"testing"

	"github.com/zkcorset/corset/pkg/field"
	"github.com/zkcorset/corset/pkg/schema"
)

func newTestSet(t *testing.T, values map[string][]int64) (*schema.Set, map[string]schema.Handle) {
	t.Helper()

	set := schema.NewSet()
	handles := make(map[string]schema.Handle)

	for name, raw := range values {
		h, err := set.Register("main", name)
		if err != nil {
			t.Fatal(err)
		}

		fvs := make([]field.Element, len(raw))
		for i, v := range raw {
			fvs[i] = field.FromInt64(v)
		}

		set.Column(h).Fill(fvs)
		handles[name] = h
	}

	return set, handles
}

func TestEvalAddSubMul(t *testing.T) {
	set, h := newTestSet(t, map[string][]int64{"A": {1, 2, 3}, "B": {10, 20, 30}})

	expr := Funcall{Add, []Expr{ColumnRef{h["A"], 0}, ColumnRef{h["B"], 0}}}

	v, ok := Eval(expr, 1, set, nil, Settings{})
	if !ok || v.Cmp(field.FromInt64(22)) != 0 {
		t.Errorf("got %v, %v, want 22", v, ok)
	}

	expr = Funcall{Sub, []Expr{ColumnRef{h["A"], 0}, ColumnRef{h["B"], 0}}}

	v, ok = Eval(expr, 0, set, nil, Settings{})
	if !ok || v.Cmp(field.FromInt64(-9)) != 0 {
		t.Errorf("got %v, %v, want -9", v, ok)
	}

	expr = Funcall{Mul, []Expr{ColumnRef{h["A"], 0}, ColumnRef{h["B"], 0}}}

	v, ok = Eval(expr, 2, set, NewCache(10), Settings{})
	if !ok || v.Cmp(field.FromInt64(90)) != 0 {
		t.Errorf("got %v, %v, want 90", v, ok)
	}
}

func TestEvalShiftOutOfRange(t *testing.T) {
	set, h := newTestSet(t, map[string][]int64{"A": {1, 2, 3}})

	expr := ColumnRef{h["A"], 1}

	if _, ok := expr.EvalAt(2, set); ok {
		t.Error("expected undefined at last row with +1 shift")
	}

	if v, ok := expr.EvalAt(0, set); !ok || v.Cmp(field.FromInt64(2)) != 0 {
		t.Errorf("got %v, %v, want 2", v, ok)
	}
}

func TestEvalEqualsLowersToSub(t *testing.T) {
	set, h := newTestSet(t, map[string][]int64{"A": {5, 5}, "B": {5, 6}})

	expr := Funcall{Equals, []Expr{ColumnRef{h["A"], 0}, ColumnRef{h["B"], 0}}}

	if v, ok := Eval(expr, 0, set, nil, Settings{}); !ok || !v.IsZero() {
		t.Errorf("row 0: got %v, %v, want 0", v, ok)
	}

	if v, ok := Eval(expr, 1, set, nil, Settings{}); !ok || v.IsZero() {
		t.Errorf("row 1: got %v, %v, want nonzero", v, ok)
	}
}

func TestEvalListShortCircuitsOnFirstNonZero(t *testing.T) {
	set, h := newTestSet(t, map[string][]int64{"A": {0, 3}})

	zero := Funcall{Sub, []Expr{ColumnRef{h["A"], 0}, Const{field.Zero}}}
	list := List{[]Expr{zero}}

	if v, ok := Eval(list, 0, set, nil, Settings{}); !ok || !v.IsZero() {
		t.Errorf("got %v, %v, want 0", v, ok)
	}

	if v, ok := Eval(list, 1, set, nil, Settings{}); !ok || v.IsZero() {
		t.Errorf("got %v, %v, want nonzero", v, ok)
	}
}
