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

// Package constraint defines the lowered constraint kinds named in
// spec.md §3 (vanishing, lookup, permutation, range) and the loader for
// the constraint-set on-disk format of spec.md §6.
package constraint

import "github.com/zkcorset/corset/pkg/schema"

// Constraint is satisfied by every constraint kind this package defines.
type Constraint interface {
	// Name returns the constraint's unique identifier, used in failure
	// reports and in the skip/only filter lists.
	Name() string
}

// Set bundles a column store with the constraints checked against it —
// the complete input to the validation engine of pkg/check. A DSL
// source (pkg/corset) only ever produces Vanishing constraints; Lookup,
// Permutation and InRange constraints arrive exclusively through Load,
// spec.md §6's separately-specified on-disk format.
type Set struct {
	Columns     *schema.Set
	Constraints []Constraint
}
