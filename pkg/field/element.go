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

// Package field provides arithmetic over the BN254 scalar field, used
// throughout the corset toolchain to represent column values, constant
// expressions and lookup fingerprints.
package field

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// Element wraps fr.Element (the BN254 scalar field, internally four
// little-endian uint64 limbs held in Montgomery form) to give it the
// value-type semantics this toolchain relies on: every operation returns a
// fresh Element rather than mutating its receiver.
type Element struct {
	inner fr.Element
}

// Zero is the additive identity.
var Zero = Element{}

// One is the multiplicative identity.
var One = FromUint64(1)

// FromUint64 constructs a field element from a small, non-negative integer.
// This is the canonical embedding for literal constants in parsed
// expressions and for the "(j+2)" lookup-fingerprint weights.
func FromUint64(v uint64) Element {
	var e Element
	e.inner.SetUint64(v)

	return e
}

// FromInt64 constructs a field element from a signed integer, reducing
// negative values modulo the field characteristic.
func FromInt64(v int64) Element {
	var e Element

	if v < 0 {
		e.inner.SetUint64(uint64(-v))
		e.inner.Neg(&e.inner)
	} else {
		e.inner.SetUint64(uint64(v))
	}

	return e
}

// FromDecimalString parses a base-10 (optionally signed) integer literal
// into a field element. Returns an error for malformed input.
func FromDecimalString(s string) (Element, error) {
	var e Element

	if _, err := e.inner.SetString(s); err != nil {
		return Element{}, fmt.Errorf("invalid field element %q: %w", s, err)
	}

	return e, nil
}

// FromBigInt constructs a field element from an arbitrary-precision
// integer, reducing it modulo the field characteristic.
func FromBigInt(v *big.Int) Element {
	var e Element
	e.inner.SetBigInt(v)

	return e
}

// Limbs returns the canonical (non-Montgomery) representation of this
// element as four little-endian 64-bit limbs, for consumption by the
// foreign ABI surface (see SPEC_FULL.md §8).
func (x Element) Limbs() [4]uint64 {
	c := x.inner
	c.FromMont()

	return [4]uint64(c)
}

// Add computes x+y.
func (x Element) Add(y Element) Element {
	var r Element
	r.inner.Add(&x.inner, &y.inner)

	return r
}

// Sub computes x-y.
func (x Element) Sub(y Element) Element {
	var r Element
	r.inner.Sub(&x.inner, &y.inner)

	return r
}

// Mul computes x*y.
func (x Element) Mul(y Element) Element {
	var r Element
	r.inner.Mul(&x.inner, &y.inner)

	return r
}

// Neg computes -x.
func (x Element) Neg() Element {
	var r Element
	r.inner.Neg(&x.inner)

	return r
}

// Inverse computes x⁻¹, or 0 when x is 0.
func (x Element) Inverse() Element {
	var r Element
	r.inner.Inverse(&x.inner)

	return r
}

// IsZero reports whether x is the additive identity.
func (x Element) IsZero() bool {
	return x.inner.IsZero()
}

// Equals reports whether x and y represent the same field element.
func (x Element) Equals(y Element) bool {
	return x.inner.Equal(&y.inner)
}

// Cmp returns -1, 0 or +1 as x is numerically less than, equal to, or
// greater than y (comparing canonical big-integer representations).
func (x Element) Cmp(y Element) int {
	return x.inner.Cmp(&y.inner)
}

// String renders x in decimal.
func (x Element) String() string {
	return x.inner.String()
}

// Text renders x in the given base, as per big.Int.Text.
func (x Element) Text(base int) string {
	return x.inner.Text(base)
}

// BigInt returns x as an arbitrary-precision integer.
func (x Element) BigInt() *big.Int {
	var v big.Int
	x.inner.BigInt(&v)

	return &v
}
