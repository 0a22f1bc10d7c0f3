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
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/phuonguno98/monitord/pkg/schema"
)

// ProcessFilterCache memoizes ProcessFilter application results within a
// single snapshot version. Many PROCESS subscribers commonly share the same
// top_by_cpu/N shape; recomputing an O(n log n) sort once per subscriber per
// tick is wasted work when the filter and version are identical.
type ProcessFilterCache struct {
	entries *lru.Cache[string, processFilterEntry]
}

type processFilterEntry struct {
	list schema.ProcessList
	ok   bool
}

// NewProcessFilterCache creates a cache sized to the daemon's max_clients,
// since that bounds the number of distinct filter shapes live at once.
func NewProcessFilterCache(size int) *ProcessFilterCache {
	if size <= 0 {
		size = 1
	}
	entries, err := lru.New[string, processFilterEntry](size)
	if err != nil {
		// size is always positive here, so New never errors in practice.
		entries, _ = lru.New[string, processFilterEntry](1)
	}
	return &ProcessFilterCache{entries: entries}
}

// Apply applies f to list, reusing a cached result if an identically shaped
// filter was already evaluated against this exact snapshot version.
func (c *ProcessFilterCache) Apply(version uint64, f *ProcessFilter, list schema.ProcessList) (any, bool) {
	if c == nil || c.entries == nil {
		return applyProcessFilter(f, list)
	}

	key := processFilterKey(version, f)
	if cached, hit := c.entries.Get(key); hit {
		return cached.list, cached.ok
	}

	result, ok := applyProcessFilter(f, list)
	filtered, _ := result.(schema.ProcessList)
	c.entries.Add(key, processFilterEntry{list: filtered, ok: ok})
	return result, ok
}

// processFilterKey builds a canonical string identifying a filter's shape so
// two subscribers with equivalent filters hash to the same cache entry.
func processFilterKey(version uint64, f *ProcessFilter) string {
	if f == nil {
		return fmt.Sprintf("%d|nil", version)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d|pids=", version)
	writeSortedInt32s(&b, f.PIDs)
	b.WriteString("|users=")
	writeSortedStrings(&b, f.Usernames)
	b.WriteString("|names=")
	names := append([]string(nil), f.NameSubstrings...)
	sort.Strings(names)
	for _, n := range names {
		b.WriteString(n)
		b.WriteByte(',')
	}
	fmt.Fprintf(&b, "|top=%d:%d", f.TopBy, f.TopN)
	return b.String()
}

func writeSortedInt32s(b *strings.Builder, set map[int32]struct{}) {
	ids := make([]int32, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		fmt.Fprintf(b, "%d,", id)
	}
}

func writeSortedStrings(b *strings.Builder, set map[string]struct{}) {
	names := make([]string, 0, len(set))
	for n := range set {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		b.WriteString(n)
		b.WriteByte(',')
	}
}
