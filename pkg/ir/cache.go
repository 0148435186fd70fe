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

import "github.com/zkcorset/corset/pkg/field"

// DefaultCacheCapacity is the default bound on a Cache's size, matching
// spec.md §4.4.
const DefaultCacheCapacity = 200_000

// Cache memoizes product sub-expressions within the evaluation of a
// single constraint. It is owned by the constraint scan, never shared
// across constraints (spec.md §9 "Cache lifetime"), and evicts the
// oldest-inserted entry once at capacity — a cheap approximation of LRU
// that is adequate because the cache is cleared wholesale between
// constraints anyway.
type Cache struct {
	capacity int
	order    []string
	values   map[string]field.Element
}

// NewCache constructs an empty cache with the given capacity.
func NewCache(capacity int) *Cache {
	return &Cache{
		capacity: capacity,
		values:   make(map[string]field.Element, capacity),
	}
}

// Get returns the cached value for key, if present.
func (c *Cache) Get(key string) (field.Element, bool) {
	v, ok := c.values[key]
	return v, ok
}

// Put records value for key, evicting the oldest entry if the cache is
// at capacity.
func (c *Cache) Put(key string, value field.Element) {
	if _, exists := c.values[key]; exists {
		c.values[key] = value
		return
	}

	if len(c.order) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.values, oldest)
	}

	c.order = append(c.order, key)
	c.values[key] = value
}

// Len returns the current number of cached entries.
func (c *Cache) Len() int { return len(c.values) }
