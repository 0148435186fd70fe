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

// Package schema implements the column store: a dense, per-module
// collection of named columns, indexed and read according to spec.md §3
// and §4.3.
package schema

import (
	"fmt"
	"strings"
)

// ColumnID identifies a column's position within a Set's dense column
// vector, assigned once at registration and stable thereafter.
type ColumnID uint

// NoColumn is the distinguished id of a handle not yet bound to a
// registered column.
const NoColumn = ColumnID(^uint(0))

// Handle identifies a column by the module which declares it and its name
// within that module. Two handles are equal iff both components match.
type Handle struct {
	Module string
	Name   string
	// id is populated once the handle has been bound to a registered
	// column; it is NoColumn beforehand (e.g. while still part of an
	// unresolved expression tree).
	id ColumnID
}

// NewHandle constructs an unbound handle for (module, name).
func NewHandle(module, name string) Handle {
	return Handle{module, name, NoColumn}
}

// Bind returns a copy of this handle carrying the given column id.
func (h Handle) Bind(id ColumnID) Handle {
	h.id = id
	return h
}

// ID returns the bound column id, or NoColumn if this handle has not yet
// been resolved against a Set.
func (h Handle) ID() ColumnID { return h.id }

// IsBound reports whether this handle carries a resolved column id.
func (h Handle) IsBound() bool { return h.id != NoColumn }

// Equals reports whether two handles name the same (module, name) pair.
// The bound id, if any, is not part of identity.
func (h Handle) Equals(other Handle) bool {
	return h.Module == other.Module && h.Name == other.Name
}

func (h Handle) String() string {
	if h.Module == "" {
		return h.Name
	}

	return h.Module + "." + h.Name
}

// Mangle produces a stable, ASCII-only identifier for this handle, for use
// across the foreign ABI surface (spec.md §6) where column identifiers
// must round-trip through a plain C string. Dots and any character
// outside [A-Za-z0-9_] are replaced by "_", and the result is prefixed
// with the module name's length to keep the encoding unambiguous (so that
// "ab.cd" and "a.bcd" do not collide).
func (h Handle) Mangle() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "m%d_", len(h.Module))
	mangleInto(&sb, h.Module)
	sb.WriteByte('_')
	mangleInto(&sb, h.Name)

	return sb.String()
}

func mangleInto(sb *strings.Builder, s string) {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
}
