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
	"testing"

	"github.com/phuonguno98/monitord/pkg/schema"
)

func TestProcessFilterCache_HitReturnsIdenticalResult(t *testing.T) {
	c := NewProcessFilterCache(4)
	list := schema.ProcessList{Processes: []schema.ProcessInfo{
		{PID: 1, CPUUsagePercent: 10},
		{PID: 2, CPUUsagePercent: 90},
	}}
	f := &ProcessFilter{TopBy: TopByCPU, TopN: 1}

	first, ok1 := c.Apply(5, f, list)
	second, ok2 := c.Apply(5, f, list)

	if !ok1 || !ok2 {
		t.Fatal("both applications should match")
	}
	firstList := first.(schema.ProcessList).Processes
	secondList := second.(schema.ProcessList).Processes
	if len(firstList) != 1 || len(secondList) != 1 || firstList[0].PID != secondList[0].PID {
		t.Errorf("cached result mismatch: %+v vs %+v", firstList, secondList)
	}
}

func TestProcessFilterCache_DifferentVersionsMiss(t *testing.T) {
	c := NewProcessFilterCache(4)
	list := schema.ProcessList{Processes: []schema.ProcessInfo{{PID: 1, CPUUsagePercent: 10}}}
	f := &ProcessFilter{TopBy: TopByCPU, TopN: 1}

	keyA := processFilterKey(1, f)
	keyB := processFilterKey(2, f)
	if keyA == keyB {
		t.Error("different snapshot versions must produce different cache keys")
	}
	if _, ok := c.Apply(1, f, list); !ok {
		t.Fatal("expected a match")
	}
}

func TestProcessFilterKey_OrderIndependentForSets(t *testing.T) {
	f1 := &ProcessFilter{Usernames: map[string]struct{}{"alice": {}, "bob": {}}}
	f2 := &ProcessFilter{Usernames: map[string]struct{}{"bob": {}, "alice": {}}}
	if processFilterKey(1, f1) != processFilterKey(1, f2) {
		t.Error("set iteration order should not affect the cache key")
	}
}

func TestProcessFilterCache_NilCacheFallsBackToDirectApply(t *testing.T) {
	var c *ProcessFilterCache
	list := schema.ProcessList{Processes: []schema.ProcessInfo{{PID: 1}}}
	out, ok := c.Apply(1, nil, list)
	if !ok {
		t.Fatal("nil filter should match everything")
	}
	if len(out.(schema.ProcessList).Processes) != 1 {
		t.Error("expected the unfiltered list back")
	}
}
