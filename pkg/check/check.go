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

// Package check implements the validation engine of spec.md §4.5: it
// scans every row of every constraint in a Set, in parallel, and reports
// the rows at which a constraint is violated.
package check

import (
	"fmt"
	"runtime"
	"sort"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/zkcorset/corset/pkg/field"
	"github.com/zkcorset/corset/pkg/ir"
	"github.com/zkcorset/corset/pkg/schema"
	"github.com/zkcorset/corset/pkg/schema/constraint"
)

// Settings configures a validation run. It is passed explicitly rather
// than read from a package-level global, so that two validations (e.g.
// in tests run in parallel) never interfere with one another.
type Settings struct {
	// Threads bounds the number of constraints checked concurrently.
	// Zero means runtime.NumCPU().
	Threads int
	// TraceSpan is how many rows of context surround a failing row in
	// a failure report. Zero means a default of 5.
	TraceSpan int
	// FullTrace, when set, includes every column of a failing
	// constraint's module in its report rather than just the columns
	// the constraint's expression actually depends on.
	FullTrace bool
	// Skip names constraints to exclude from the run.
	Skip []string
	// Only, if non-empty, restricts the run to exactly these
	// constraints (taking precedence over Skip).
	Only []string
}

// Failure records one violated row of one constraint.
type Failure struct {
	Constraint string
	Row        int
	Report     string
}

// Validate scans every applicable constraint of cs and returns every row
// at which one failed, sorted by constraint name and then row — so that
// output is deterministic however the underlying goroutines interleave.
func Validate(cs *constraint.Set, settings Settings) []Failure {
	active := filterConstraints(cs.Constraints, settings)

	threads := settings.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}

	jobs := make(chan constraint.Constraint)
	results := make(chan []Failure)

	var workers sync.WaitGroup

	for i := 0; i < threads; i++ {
		workers.Add(1)

		go func() {
			defer workers.Done()

			for c := range jobs {
				results <- checkOne(c, cs.Columns, settings)
			}
		}()
	}

	go func() {
		for _, c := range active {
			jobs <- c
		}

		close(jobs)
	}()

	go func() {
		workers.Wait()
		close(results)
	}()

	var all []Failure
	for fs := range results {
		all = append(all, fs...)
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].Constraint != all[j].Constraint {
			return all[i].Constraint < all[j].Constraint
		}

		return all[i].Row < all[j].Row
	})

	return all
}

func filterConstraints(all []constraint.Constraint, settings Settings) []constraint.Constraint {
	if len(settings.Only) > 0 {
		allow := toSet(settings.Only)
		out := make([]constraint.Constraint, 0, len(all))

		for _, c := range all {
			if allow[c.Name()] {
				out = append(out, c)
			}
		}

		return out
	}

	if len(settings.Skip) > 0 {
		deny := toSet(settings.Skip)
		out := make([]constraint.Constraint, 0, len(all))

		for _, c := range all {
			if !deny[c.Name()] {
				out = append(out, c)
			}
		}

		return out
	}

	return all
}

func toSet(names []string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}

	return m
}

func checkOne(c constraint.Constraint, set *schema.Set, settings Settings) []Failure {
	switch v := c.(type) {
	case constraint.Vanishing:
		return checkVanishing(v, set, settings)
	case constraint.Lookup:
		return checkLookup(v, set, settings)
	case constraint.Permutation:
		return checkPermutation(v, set, settings)
	case constraint.InRange:
		return checkRange(v, set, settings)
	default:
		return nil
	}
}

// checkVanishing scans every row named by the constraint's domain (or
// every row, if the domain is unrestricted), reporting every row at
// which the expression evaluates to non-zero. The constraint named
// INV_CONSTRAINTS and Void expressions are silently skipped, per
// spec.md §4.5.
//
// A List-shaped expression is not evaluated through ir.Eval's merged
// List semantics (which short-circuits on the first undefined or
// non-zero element): spec.md §4.5 requires every element of a List to
// be checked as its own independent vanishing constraint, each with its
// own full scan, exactly as original_source/src/check.rs's check()
// recurses into Expression::List. So a List is decomposed here, before
// any row is scanned.
func checkVanishing(v constraint.Vanishing, set *schema.Set, settings Settings) []Failure {
	if v.Name() == constraint.INVConstraintsName || ir.IsVoid(v.Expr) {
		return nil
	}

	if list, ok := v.Expr.(ir.List); ok {
		var out []Failure

		for _, elem := range list.Elements {
			out = append(out, checkVanishing(constraint.Vanishing{
				Handle: v.Name(),
				Domain: v.Domain,
				Expr:   elem,
			}, set, settings)...)
		}

		return out
	}

	length, ok := commonLength(set, v.Expr.Handles())
	if !ok {
		return nil
	}

	// spec.md §4.5/§7: a constraint scan requested against dependent
	// columns that are filled but hold zero rows is reported as an
	// empty-trace failure, distinct from the "no column has values at
	// all" case above (which means this module was never triggered and
	// is silently skipped).
	if length == 0 {
		return []Failure{{
			Constraint: v.Name(),
			Row:        -1,
			Report:     fmt.Sprintf("empty-trace: constraint %q was scanned against a zero-length trace", v.Name()),
		}}
	}

	rows := v.Domain
	if rows == nil {
		rows = sequence(length)
	}

	cache := ir.NewCache(ir.DefaultCacheCapacity)

	var out []Failure

	for _, i := range rows {
		val, defined := ir.Eval(v.Expr, i, set, cache, ir.Settings{})
		if !defined {
			// spec.md §4.5: with an explicit domain, a row the domain
			// names is required to be defined — missing counts as a
			// failure. Without an explicit domain (the default, "every
			// row of the trace"), missing is not a failure.
			if v.Domain != nil {
				out = append(out, Failure{
					Constraint: v.Name(),
					Row:        i,
					Report: fmt.Sprintf(
						"constraint %q is undefined at row %d, which its explicit domain names", v.Name(), i),
				})
			}

			continue
		}

		if !val.IsZero() {
			out = append(out, Failure{
				Constraint: v.Name(),
				Row:        i,
				Report:     formatFailure(v.Name(), v.Expr, i, set, settings),
			})
		}
	}

	return out
}

// checkLookup verifies that every child row's fingerprint appears among
// the parent rows' fingerprints, per spec.md §4.5's plookup scheme.
func checkLookup(l constraint.Lookup, set *schema.Set, settings Settings) []Failure {
	plen, ok := commonLength(set, handlesOf(l.Parents))
	if !ok {
		return nil
	}

	clen, ok := commonLength(set, handlesOf(l.Children))
	if !ok {
		return nil
	}

	cache := ir.NewCache(ir.DefaultCacheCapacity)

	parents := make(map[string]bool, plen)

	for i := 0; i < plen; i++ {
		fp, ok := fingerprint(l.Parents, i, set, cache)
		if !ok {
			continue
		}

		parents[fp.String()] = true
	}

	var out []Failure

	for i := 0; i < clen; i++ {
		fp, ok := fingerprint(l.Children, i, set, cache)
		if !ok {
			continue
		}

		if !parents[fp.String()] {
			out = append(out, Failure{
				Constraint: l.Name(),
				Row:        i,
				Report:     fmt.Sprintf("lookup %q: row %d has no matching parent tuple", l.Name(), i),
			})
		}
	}

	return out
}

// checkPermutation verifies that Lhs and Rhs hold the same multiset of
// row fingerprints — spec.md §9 resolves the open question of whether to
// evaluate this constraint by actually checking it, the same way as
// Lookup.
func checkPermutation(p constraint.Permutation, set *schema.Set, settings Settings) []Failure {
	llen, ok := commonLength(set, handlesOf(p.Lhs))
	if !ok {
		return nil
	}

	rlen, ok := commonLength(set, handlesOf(p.Rhs))
	if !ok {
		return nil
	}

	if llen != rlen {
		return []Failure{{
			Constraint: p.Name(),
			Row:        -1,
			Report:     fmt.Sprintf("permutation %q: side lengths differ (%d vs %d)", p.Name(), llen, rlen),
		}}
	}

	cache := ir.NewCache(ir.DefaultCacheCapacity)

	remaining := make(map[string]int, llen)

	for i := 0; i < llen; i++ {
		fp, ok := fingerprint(p.Lhs, i, set, cache)
		if !ok {
			continue
		}

		remaining[fp.String()]++
	}

	var out []Failure

	for i := 0; i < rlen; i++ {
		fp, ok := fingerprint(p.Rhs, i, set, cache)
		if !ok {
			continue
		}

		key := fp.String()
		if remaining[key] == 0 {
			out = append(out, Failure{
				Constraint: p.Name(),
				Row:        i,
				Report:     fmt.Sprintf("permutation %q: row %d has no remaining match on the left-hand side", p.Name(), i),
			})

			continue
		}

		remaining[key]--
	}

	return out
}

// checkRange verifies that every row of Expr lies in [0, Bound) — the
// other open-question placeholder resolved per spec.md §9's design
// note.
func checkRange(r constraint.InRange, set *schema.Set, settings Settings) []Failure {
	length, ok := commonLength(set, r.Expr.Handles())
	if !ok {
		return nil
	}

	bound := field.FromUint64(r.Bound)
	cache := ir.NewCache(ir.DefaultCacheCapacity)

	var out []Failure

	for i := 0; i < length; i++ {
		v, ok := ir.Eval(r.Expr, i, set, cache, ir.Settings{})
		if !ok {
			continue
		}

		if v.Cmp(bound) >= 0 {
			out = append(out, Failure{
				Constraint: r.Name(),
				Row:        i,
				Report:     fmt.Sprintf("range %q: row %d value %s is not within [0, %d)", r.Name(), i, v.String(), r.Bound),
			})
		}
	}

	return out
}

// fingerprint computes the random-linear-combination Σ(j+2)·col_j[i]
// used to turn a row (a tuple of expressions evaluated at row i) into a
// single field element for set-membership comparisons, per spec.md
// §4.5.
func fingerprint(exprs []ir.Expr, i int, set *schema.Set, cache *ir.Cache) (field.Element, bool) {
	acc := field.Zero

	for j, e := range exprs {
		v, ok := ir.Eval(e, i, set, cache, ir.Settings{})
		if !ok {
			return field.Element{}, false
		}

		acc = acc.Add(field.FromUint64(uint64(j + 2)).Mul(v))
	}

	return acc, true
}

func handlesOf(exprs []ir.Expr) []schema.Handle {
	var hs []schema.Handle
	for _, e := range exprs {
		hs = append(hs, e.Handles()...)
	}

	return hs
}

// commonLength determines the row count shared by a set of handles,
// logging a warning (rather than failing) if their filled lengths
// disagree — the first filled length found is used, per spec.md §4.5.
// If none of the handles is filled, it reports (0, false) so the caller
// can treat the constraint as belonging to an untriggered module and
// skip it entirely.
func commonLength(set *schema.Set, handles []schema.Handle) (int, bool) {
	length := 0
	found := false

	for _, h := range handles {
		n, filled := set.Column(h).Len()
		if !filled {
			continue
		}

		if !found {
			length = n
			found = true

			continue
		}

		if n != length {
			log.Warnf("columns referenced by the same constraint have differing lengths (%d vs %d); using %d", n, length, length)
		}
	}

	return length, found
}

func sequence(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}

	return out
}
