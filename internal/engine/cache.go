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
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/phuonguno98/monitord/pkg/schema"
)

// cell is a versioned slot for one category. publish is single-writer (the
// category's scheduler); reads are lock-free with respect to other reads.
type cell struct {
	current atomic.Pointer[schema.Snapshot]

	mu      sync.Mutex
	waiters chan struct{} // closed and replaced on every publish, broadcasting waiters
}

func newCell() *cell {
	c := &cell{waiters: make(chan struct{})}
	return c
}

func (c *cell) publish(snap *schema.Snapshot) {
	c.current.Store(snap)
	c.mu.Lock()
	old := c.waiters
	c.waiters = make(chan struct{})
	c.mu.Unlock()
	close(old)
}

func (c *cell) load() *schema.Snapshot {
	return c.current.Load()
}

func (c *cell) notifyChan() chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.waiters
}

// Cache is a map<Category, Cell<Snapshot>>, built once at startup with one
// cell per registered category.
type Cache struct {
	cells map[schema.Category]*cell
}

// NewCache allocates one empty cell per category.
func NewCache(categories []schema.Category) *Cache {
	cells := make(map[schema.Category]*cell, len(categories))
	for _, cat := range categories {
		cells[cat] = newCell()
	}
	return &Cache{cells: cells}
}

// Publish atomically replaces a category's contents and wakes all waiters.
// version must be strictly greater than any version previously published
// for this category; the scheduler, the sole writer, guarantees this.
func (c *Cache) Publish(cat schema.Category, version uint64, payload any) {
	cell, ok := c.cells[cat]
	if !ok {
		return
	}
	cell.publish(&schema.Snapshot{
		Category:    cat,
		CollectedAt: time.Now(),
		Version:     version,
		Payload:     payload,
	})
}

// Current returns the latest published snapshot for a category, if any has
// been published yet.
func (c *Cache) Current(cat schema.Category) (*schema.Snapshot, bool) {
	cell, ok := c.cells[cat]
	if !ok {
		return nil, false
	}
	snap := cell.load()
	if snap == nil {
		return nil, false
	}
	return snap, true
}

// WaitNewer blocks until a snapshot newer than cursor is published for cat,
// or ctx is cancelled. cursor 0 matches the first-ever publish.
func (c *Cache) WaitNewer(ctx context.Context, cat schema.Category, cursor uint64) (*schema.Snapshot, error) {
	cell, ok := c.cells[cat]
	if !ok {
		return nil, &InvalidRequest{Reason: "no collector registered for category " + cat.String()}
	}
	for {
		if snap := cell.load(); snap != nil && snap.Version > cursor {
			return snap, nil
		}
		waitCh := cell.notifyChan()
		select {
		case <-waitCh:
			continue
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}
