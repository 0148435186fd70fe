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

// InRange requires every row of Expr to lie in [0, Bound) — spec.md §9's
// other open-question placeholder, implemented per the design note's
// recommendation (DESIGN.md records this decision).
type InRange struct {
	Handle string
	Expr   ir.Expr
	Bound  uint64
}

// Name implements Constraint.
func (r InRange) Name() string { return r.Handle }
