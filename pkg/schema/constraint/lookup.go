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

// Lookup (a "plookup") requires that every row of Children appears,
// fingerprint-for-fingerprint, among the rows of Parents — spec.md §3 and
// §4.5.
type Lookup struct {
	Handle   string
	Parents  []ir.Expr
	Children []ir.Expr
}

// Name implements Constraint.
func (l Lookup) Name() string { return l.Handle }
