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

import "fmt"

// Set is the column store: a mapping module -> (name -> column id) over a
// dense backing vector of columns. Indices are stable for the lifetime of
// the set, per spec.md §3's invariant.
type Set struct {
	columns   []*Column
	byModule  map[string]map[string]ColumnID
	computed  map[ColumnID]Computation
}

// NewSet constructs an empty column set.
func NewSet() *Set {
	return &Set{
		byModule: make(map[string]map[string]ColumnID),
		computed: make(map[ColumnID]Computation),
	}
}

// Register adds a new column for (module, name), returning its bound
// handle. Returns an error (the "redefinition" kind) if the name is
// already registered within that module.
func (s *Set) Register(module, name string) (Handle, error) {
	if names, ok := s.byModule[module]; ok {
		if _, exists := names[name]; exists {
			return Handle{}, fmt.Errorf("redefinition: column %s.%s already declared", module, name)
		}
	} else {
		s.byModule[module] = make(map[string]ColumnID)
	}

	id := ColumnID(len(s.columns))
	handle := NewHandle(module, name).Bind(id)
	s.columns = append(s.columns, NewColumn(handle))
	s.byModule[module][name] = id

	return handle, nil
}

// Lookup resolves (module, name) to a bound handle, or reports false if
// no such column was registered.
func (s *Set) Lookup(module, name string) (Handle, bool) {
	names, ok := s.byModule[module]
	if !ok {
		return Handle{}, false
	}

	id, ok := names[name]
	if !ok {
		return Handle{}, false
	}

	return s.columns[id].handle, true
}

// Column returns the column bound to handle's id. Panics if handle is
// unbound — callers must resolve handles via Lookup/Register before
// reaching evaluation, matching spec.md §3's invariant that every
// expression's handles are a subset of the column set.
func (s *Set) Column(handle Handle) *Column {
	if !handle.IsBound() {
		panic(fmt.Sprintf("unbound handle %s passed to column set", handle))
	}

	return s.columns[handle.id]
}

// Columns returns the dense backing vector, in registration order.
func (s *Set) Columns() []*Column { return s.columns }

// RegisterComputation records how an absent column's values should
// eventually be derived (composite, interleaved, sorted, cyclic, or
// sorting-constraints — spec.md §3).
func (s *Set) RegisterComputation(target Handle, c Computation) {
	s.computed[target.id] = c
}

// ComputationFor returns the computation registered for a handle, if any.
func (s *Set) ComputationFor(handle Handle) (Computation, bool) {
	c, ok := s.computed[handle.id]
	return c, ok
}

// Expand fills every column which has a registered computation but no
// trace values yet, in registration order. Composite computations may
// depend on other computed columns, so this makes repeated passes until a
// pass fills nothing (a simple, adequate strategy given the acyclicity
// expected of computations; a cyclic dependency will be reported as
// "unresolved" rather than looping forever).
func (s *Set) Expand() error {
	for {
		progressed := false

		for id, col := range s.columns {
			if col.IsFilled() {
				continue
			}

			comp, ok := s.computed[ColumnID(id)]
			if !ok {
				continue
			}

			if err := comp.Compute(s, col.handle); err != nil {
				continue
			}

			progressed = true
		}

		if !progressed {
			break
		}
	}

	var unresolved []string

	for _, col := range s.columns {
		if !col.IsFilled() {
			if _, ok := s.computed[col.handle.id]; ok {
				unresolved = append(unresolved, col.handle.String())
			}
		}
	}

	if len(unresolved) > 0 {
		return fmt.Errorf("could not resolve computed column(s): %v", unresolved)
	}

	return nil
}
