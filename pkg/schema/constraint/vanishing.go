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

// Vanishing requires Expr to evaluate to zero at every row in Domain (or
// every row of the trace when Domain is nil), per spec.md §3/§4.5.
type Vanishing struct {
	Handle string
	// Domain is an explicit subset of row indices, or nil to mean "every
	// row of the trace" (spec.md's default domain).
	Domain []int
	Expr   ir.Expr
}

// Name implements Constraint.
func (v Vanishing) Name() string { return v.Handle }

// INVConstraintsName is the well-known name the validation engine treats
// specially: a Vanishing constraint by this name is silently skipped,
// whatever its expression, just as any Vanishing constraint whose
// expression is Void is (spec.md §4.5).
const INVConstraintsName = "INV_CONSTRAINTS"
