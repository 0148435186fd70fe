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

import (
	"fmt"
	"sort"

	"github.com/zkcorset/corset/pkg/field"
)

// Evaluable is the subset of the expression-tree interface the column
// store needs in order to fill a Composite computation, without this
// package importing the ir package (which itself depends on schema for
// Handle/Set). The concrete implementation lives in pkg/ir.
type Evaluable interface {
	// EvalAt evaluates this expression at row i against set, returning
	// (value, false) when the expression is undefined at that row (e.g.
	// an out-of-range shifted read).
	EvalAt(i int, set *Set) (field.Element, bool)
}

// Computation describes how an absent column's values are derived, per
// the registry named in spec.md §3.
type Computation interface {
	// Compute fills target's values within set, or returns an error if
	// its dependencies are not yet available.
	Compute(set *Set, target Handle) error
}

// Composite fills target by evaluating expr at every row implied by its
// source columns' length. The value of expr at row 0, evaluated against
// the filled sources, becomes the column's padding value; the sources
// are not replaced by zero for this evaluation.
type Composite struct {
	Expr    Evaluable
	Sources []Handle
}

// Compute implements Computation.
func (c Composite) Compute(set *Set, target Handle) error {
	length, ok := commonLength(set, c.Sources)
	if !ok {
		return fmt.Errorf("composite computation for %s: sources not yet filled", target)
	}

	values := make([]field.Element, length)

	for i := 0; i < length; i++ {
		v, _ := c.Expr.EvalAt(i, set)
		values[i] = v
	}

	col := set.Column(target)
	col.Fill(values)

	if padding, ok := c.Expr.EvalAt(0, set); ok {
		col.SetPadding(padding)
	}

	return nil
}

// Interleaved fills target by taking rows from each source column in
// round-robin order: target[i] = sources[i%n][i/n].
type Interleaved struct {
	Sources []Handle
}

// Compute implements Computation.
func (c Interleaved) Compute(set *Set, target Handle) error {
	n := len(c.Sources)
	if n == 0 {
		return fmt.Errorf("interleaved computation for %s: no sources", target)
	}

	lengths := make([]int, n)

	for i, h := range c.Sources {
		l, ok := set.Column(h).Len()
		if !ok {
			return fmt.Errorf("interleaved computation for %s: source %s not yet filled", target, h)
		}

		lengths[i] = l
	}

	for i := 1; i < n; i++ {
		if lengths[i] != lengths[0] {
			return fmt.Errorf("interleaved computation for %s: source lengths differ", target)
		}
	}

	values := make([]field.Element, lengths[0]*n)

	for row := 0; row < lengths[0]; row++ {
		for i, h := range c.Sources {
			v, _ := set.Column(h).Get(row, false)
			values[row*n+i] = v
		}
	}

	set.Column(target).Fill(values)

	return nil
}

// Sorted fills target with the values of Source sorted into ascending
// order. This underpins permutation-style arguments where a column must
// hold its source's multiset in sorted form.
type Sorted struct {
	Source Handle
}

// Compute implements Computation.
func (c Sorted) Compute(set *Set, target Handle) error {
	length, ok := set.Column(c.Source).Len()
	if !ok {
		return fmt.Errorf("sorted computation for %s: source %s not yet filled", target, c.Source)
	}

	values := make([]field.Element, length)

	for i := 0; i < length; i++ {
		v, _ := set.Column(c.Source).Get(i, false)
		values[i] = v
	}

	sort.Slice(values, func(i, j int) bool { return values[i].Cmp(values[j]) < 0 })
	set.Column(target).Fill(values)

	return nil
}

// Cyclic fills target with period repeating as 0,1,...,period-1,0,1,...
// up to a length matching some other already-filled column in the same
// module; it is most commonly used for selector columns.
type Cyclic struct {
	Period uint
	Length Handle
}

// Compute implements Computation.
func (c Cyclic) Compute(set *Set, target Handle) error {
	length, ok := set.Column(c.Length).Len()
	if !ok {
		return fmt.Errorf("cyclic computation for %s: reference column %s not yet filled", target, c.Length)
	}

	values := make([]field.Element, length)

	for i := 0; i < length; i++ {
		values[i] = field.FromUint64(uint64(uint(i) % c.Period))
	}

	set.Column(target).Fill(values)

	return nil
}

// SortingConstraints is a marker computation for columns whose values are
// constrained (via an accompanying Sorted permutation/range constraint)
// rather than directly computed; filling it is a no-op once its
// companion Sorted computation has run.
type SortingConstraints struct {
	Companion Handle
}

// Compute implements Computation.
func (c SortingConstraints) Compute(set *Set, target Handle) error {
	if !set.Column(c.Companion).IsFilled() {
		return fmt.Errorf("sorting-constraints computation for %s: companion %s not yet filled", target, c.Companion)
	}

	return nil
}

func commonLength(set *Set, handles []Handle) (int, bool) {
	length := -1

	for _, h := range handles {
		l, ok := set.Column(h).Len()
		if !ok {
			continue
		}

		if length == -1 {
			length = l
		} else if l != length {
			return 0, false
		}
	}

	if length == -1 {
		return 0, false
	}

	return length, true
}
