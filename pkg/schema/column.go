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
package schema

import "github.com/zkcorset/corset/pkg/field"

// Column is a named, single-module sequence of field values. Its values
// slice is nil until the column is "Filled" (by trace loading or by a
// computation); Get reports this absence as (zero, false) rather than as
// an error, per spec.md §3.
type Column struct {
	handle Handle
	// padding is the value Padding reports for unused tail rows; it is
	// explicit once set, otherwise derived lazily from element 0. Get
	// never reads it: an out-of-range row is reported as absent.
	padding        field.Element
	paddingIsSet   bool
	values         []field.Element
	valuesAreFilled bool
}

// NewColumn registers a new, as-yet-unfilled column under the given
// handle.
func NewColumn(handle Handle) *Column {
	return &Column{handle: handle}
}

// Handle returns this column's identifying handle.
func (c *Column) Handle() Handle { return c.handle }

// Len returns the number of rows in this column, or (0, false) if the
// column has not yet been filled.
func (c *Column) Len() (int, bool) {
	if !c.valuesAreFilled {
		return 0, false
	}

	return len(c.values), true
}

// IsFilled reports whether this column currently has trace data.
func (c *Column) IsFilled() bool { return c.valuesAreFilled }

// Fill assigns this column's trace values, transitioning it from
// Registered to Filled.
func (c *Column) Fill(values []field.Element) {
	c.values = values
	c.valuesAreFilled = true
}

// SetPadding records an explicit padding value for this column, as
// supplied by the trace format.
func (c *Column) SetPadding(v field.Element) {
	c.padding = v
	c.paddingIsSet = true
}

// Padding returns the value used to represent unused tail rows: the
// explicit padding if one was set, otherwise row 0 if the column has
// data, otherwise zero.
func (c *Column) Padding() field.Element {
	if c.paddingIsSet {
		return c.padding
	}

	if c.valuesAreFilled && len(c.values) > 0 {
		return c.values[0]
	}

	return field.Zero
}

// Get reads the value at row i. When wrap is false, i must lie in
// [0, len) or (zero, false) is returned. When wrap is true, i is reduced
// modulo len first (len must be > 0). A not-yet-filled column always
// returns (zero, false).
func (c *Column) Get(i int, wrap bool) (field.Element, bool) {
	if !c.valuesAreFilled || len(c.values) == 0 {
		return field.Zero, false
	}

	n := len(c.values)

	if wrap {
		i = ((i % n) + n) % n
	} else if i < 0 || i >= n {
		return field.Zero, false
	}

	return c.values[i], true
}
