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

import "github.com/zkcorset/corset/pkg/ir"

// Permutation requires that the rows of Rhs are some reordering of the
// rows of Lhs: the two column groups must hold the same multiset of
// rows. spec.md §9 leaves evaluation of this constraint as an open
// question; DESIGN.md records the decision to implement it (checked the
// same way as Lookup: multiset equality of random-linear-combination
// fingerprints, which is exact with overwhelming probability over the
// field).
type Permutation struct {
	Handle string
	Lhs    []ir.Expr
	Rhs    []ir.Expr
}

// Name implements Constraint.
func (p Permutation) Name() string { return p.Handle }
