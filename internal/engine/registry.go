/*
 * MIT License
 *
 * Copyright (c) 2026 Nguyen Thanh Phuong
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package engine

import (
	"fmt"

	"github.com/phuonguno98/monitord/pkg/schema"
)

// Collector is any value able to sample one category's telemetry. Sample is
// expected to be blocking/CPU-bound; callers invoke it off the main
// coordination path via a blocking-safe goroutine.
type Collector interface {
	Sample() (any, error)
	MinIntervalMs() int
	Category() schema.Category
}

// Registry is the immutable-after-startup set of collectors, one per
// category. It never changes at runtime, so reads need no locking.
type Registry struct {
	byCategory map[schema.Category]Collector
}

// NewRegistry builds a Registry from the given collectors. A duplicate
// category is a configuration error, since exactly one Collector Entry may
// exist per category.
func NewRegistry(collectors ...Collector) (*Registry, error) {
	byCategory := make(map[schema.Category]Collector, len(collectors))
	for _, c := range collectors {
		cat := c.Category()
		if _, exists := byCategory[cat]; exists {
			return nil, fmt.Errorf("duplicate collector registered for category %s", cat)
		}
		byCategory[cat] = c
	}
	return &Registry{byCategory: byCategory}, nil
}

// Get returns the collector for a category, if registered.
func (r *Registry) Get(cat schema.Category) (Collector, bool) {
	c, ok := r.byCategory[cat]
	return c, ok
}

// Categories returns every registered category, in AllCategories order.
func (r *Registry) Categories() []schema.Category {
	out := make([]schema.Category, 0, len(r.byCategory))
	for _, cat := range schema.AllCategories() {
		if _, ok := r.byCategory[cat]; ok {
			out = append(out, cat)
		}
	}
	return out
}
