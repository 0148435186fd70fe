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
	"encoding/json"
	"fmt"
	"os"

	"github.com/zkcorset/corset/pkg/ir"
)

// Save serializes set to path in the on-disk format Load reads — the
// compiler's output, per spec.md §6.
func Save(path string, set *Set) error {
	var doc rawDocument

	for _, col := range set.Columns.Columns() {
		h := col.Handle()
		doc.Columns = append(doc.Columns, rawColumn{Module: h.Module, Name: h.Name})
	}

	for _, c := range set.Constraints {
		switch v := c.(type) {
		case Vanishing:
			doc.Vanishing = append(doc.Vanishing, rawVanishing{Name: v.Name(), Domain: v.Domain, Expr: toRawExpr(v.Expr)})
		case Lookup:
			doc.Lookups = append(doc.Lookups, rawLookup{
				Name:     v.Name(),
				Parents:  toRawExprs(v.Parents),
				Children: toRawExprs(v.Children),
			})
		case Permutation:
			doc.Permutations = append(doc.Permutations, rawPermutation{
				Name: v.Name(),
				Lhs:  toRawExprs(v.Lhs),
				Rhs:  toRawExprs(v.Rhs),
			})
		case InRange:
			doc.Ranges = append(doc.Ranges, rawRange{Name: v.Name(), Expr: toRawExpr(v.Expr), Bound: v.Bound})
		default:
			return fmt.Errorf("cannot serialize constraint of type %T", c)
		}
	}

	bytes, err := json.MarshalIndent(&doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding constraint set: %w", err)
	}

	if err := os.WriteFile(path, bytes, 0o644); err != nil {
		return fmt.Errorf("writing constraint set %q: %w", path, err)
	}

	return nil
}

func toRawExprs(es []ir.Expr) []*rawExpr {
	out := make([]*rawExpr, len(es))
	for i, e := range es {
		out[i] = toRawExpr(e)
	}

	return out
}

func toRawExpr(e ir.Expr) *rawExpr {
	switch t := e.(type) {
	case ir.Const:
		return &rawExpr{Kind: "const", Value: t.Value.Text(10)}
	case ir.ColumnRef:
		return &rawExpr{Kind: "column", Module: t.Handle.Module, Name: t.Handle.Name, Shift: t.Shift}
	case ir.List:
		return &rawExpr{Kind: "list", Args: toRawExprs(t.Elements)}
	case ir.Funcall:
		return &rawExpr{Kind: "funcall", Op: t.Verb.String(), Args: toRawExprs(t.Args)}
	case ir.Void:
		return nil
	default:
		return nil
	}
}
