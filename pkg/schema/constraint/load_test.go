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
package constraint

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/zkcorset/corset/pkg/field"
	"github.com/zkcorset/corset/pkg/ir"
	"github.com/zkcorset/corset/pkg/schema"
)

func TestSaveThenLoadRoundTripsAConstraintSet(t *testing.T) {
	set := schema.NewSet()

	a, err := set.Register("main", "A")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	b, err := set.Register("main", "B")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	original := &Set{
		Columns: set,
		Constraints: []Constraint{
			Vanishing{
				Handle: "a_minus_b",
				Expr: ir.Funcall{Verb: ir.Sub, Args: []ir.Expr{
					ir.ColumnRef{Handle: a},
					ir.ColumnRef{Handle: b, Shift: -1},
				}},
			},
			InRange{Handle: "a_is_byte", Expr: ir.ColumnRef{Handle: a}, Bound: 256},
		},
	}

	path := filepath.Join(t.TempDir(), "constraints.json")

	if err := Save(path, original); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(loaded.Columns.Columns()) != 2 {
		t.Fatalf("expected 2 columns, got %d", len(loaded.Columns.Columns()))
	}

	if len(loaded.Constraints) != 2 {
		t.Fatalf("expected 2 constraints, got %d", len(loaded.Constraints))
	}

	vanishing, ok := loaded.Constraints[0].(Vanishing)
	if !ok {
		t.Fatalf("expected first constraint to be Vanishing, got %T", loaded.Constraints[0])
	}

	ref, ok := vanishing.Expr.(ir.Funcall).Args[1].(ir.ColumnRef)
	if !ok {
		t.Fatalf("expected second argument to be a ColumnRef, got %T", vanishing.Expr.(ir.Funcall).Args[1])
	}

	if ref.Shift != -1 {
		t.Errorf("expected shift -1 to round-trip, got %d", ref.Shift)
	}

	inRange, ok := loaded.Constraints[1].(InRange)
	if !ok {
		t.Fatalf("expected second constraint to be InRange, got %T", loaded.Constraints[1])
	}

	if inRange.Bound != 256 {
		t.Errorf("expected bound 256 to round-trip, got %d", inRange.Bound)
	}
}

func TestLoadRegistersComputationsAndExpandFillsThem(t *testing.T) {
	doc := `{
		"columns": [
			{"module": "main", "name": "A"},
			{"module": "main", "name": "SEL"}
		],
		"computations": [
			{"kind": "cyclic", "target": {"module": "main", "name": "SEL"}, "period": 3,
			 "length": {"module": "main", "name": "A"}}
		]
	}`

	path := filepath.Join(t.TempDir(), "constraints.json")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cs, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	a, ok := cs.Columns.Lookup("main", "A")
	if !ok {
		t.Fatalf("expected column main.A to be registered")
	}

	sel, ok := cs.Columns.Lookup("main", "SEL")
	if !ok {
		t.Fatalf("expected column main.SEL to be registered")
	}

	cs.Columns.Column(a).Fill([]field.Element{
		field.FromUint64(10), field.FromUint64(11), field.FromUint64(12), field.FromUint64(13),
	})

	if err := cs.Columns.Expand(); err != nil {
		t.Fatalf("Expand: %v", err)
	}

	want := []uint64{0, 1, 2, 0}

	for i, w := range want {
		v, ok := cs.Columns.Column(sel).Get(i, false)
		if !ok {
			t.Fatalf("expected SEL[%d] to be filled by the cyclic computation", i)
		}

		if v.Text(10) != field.FromUint64(w).Text(10) {
			t.Errorf("SEL[%d]: got %s, want %d", i, v.Text(10), w)
		}
	}
}
