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
package ir

import (
	"github.com/zkcorset/corset/pkg/field"
	"github.com/zkcorset/corset/pkg/schema"

	log "github.com/sirupsen/logrus"
)

// Settings configures a single evaluation pass, as described in spec.md
// §4.4.
type Settings struct {
	// Trace, when set, causes Eval to log the result of each Funcall it
	// evaluates at the top level (including each element of a List);
	// Funcalls nested as arguments of another Funcall are not logged. It
	// is a diagnostic aid, never consulted for correctness.
	Trace bool
}

// Eval evaluates expr at row i against set, consulting and updating
// cache for Mul sub-products. cache may be nil, in which case no
// memoization occurs. This is the entry point the validation engine uses
// (as opposed to Expr.EvalAt, which concrete node types implement
// directly to satisfy schema.Evaluable without needing a cache).
func Eval(expr Expr, i int, set *schema.Set, cache *Cache, settings Settings) (field.Element, bool) {
	switch e := expr.(type) {
	case Funcall:
		v, ok := evalFuncall(e, i, set, cache)
		if settings.Trace && ok {
			traceLog(e, i, v)
		}

		return v, ok
	case List:
		for _, sub := range e.Elements {
			v, ok := Eval(sub, i, set, cache, settings)
			if !ok {
				return field.Zero, false
			}

			if !v.IsZero() {
				return v, true
			}
		}

		return field.Zero, true
	default:
		return expr.EvalAt(i, set)
	}
}

func evalFuncall(f Funcall, i int, set *schema.Set, cache *Cache) (field.Element, bool) {
	switch f.Verb {
	case Add:
		acc := field.Zero

		for _, a := range f.Args {
			v, ok := evalArg(a, i, set, cache)
			if !ok {
				return field.Zero, false
			}

			acc = acc.Add(v)
		}

		return acc, true
	case Sub:
		if len(f.Args) == 0 {
			return field.Zero, true
		}

		acc, ok := evalArg(f.Args[0], i, set, cache)
		if !ok {
			return field.Zero, false
		}

		for _, a := range f.Args[1:] {
			v, ok := evalArg(a, i, set, cache)
			if !ok {
				return field.Zero, false
			}

			acc = acc.Sub(v)
		}

		return acc, true
	case Mul:
		acc := field.One

		for _, a := range f.Args {
			v, ok := evalArg(a, i, set, cache)
			if !ok {
				return field.Zero, false
			}

			if cache != nil {
				key := acc.String() + "*" + v.String()
				if hit, ok := cache.Get(key); ok {
					acc = hit
					continue
				}

				product := acc.Mul(v)
				cache.Put(key, product)
				acc = product

				continue
			}

			acc = acc.Mul(v)
		}

		return acc, true
	case Equals:
		// Lowered to subtraction: (eq a b) evaluates to zero iff
		// (sub a b) does (spec.md §8 property 4).
		if len(f.Args) != 2 {
			return field.Zero, false
		}

		lhs, ok := evalArg(f.Args[0], i, set, cache)
		if !ok {
			return field.Zero, false
		}

		rhs, ok := evalArg(f.Args[1], i, set, cache)
		if !ok {
			return field.Zero, false
		}

		return lhs.Sub(rhs), true
	default:
		return field.Zero, false
	}
}

func evalArg(e Expr, i int, set *schema.Set, cache *Cache) (field.Element, bool) {
	if fc, ok := e.(Funcall); ok {
		return evalFuncall(fc, i, set, cache)
	}

	return e.EvalAt(i, set)
}

func traceLog(f Funcall, row int, v field.Element) {
	log.Debugf("eval %s @ row %d => %s", f.String(), row, v.String())
}
