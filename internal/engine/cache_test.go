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
	"testing"
	"time"

	"github.com/phuonguno98/monitord/pkg/schema"
)

func TestCache_PublishAndCurrent(t *testing.T) {
	c := NewCache([]schema.Category{schema.CategoryCPU})

	if _, ok := c.Current(schema.CategoryCPU); ok {
		t.Fatal("Current() on an unpublished category should report absent")
	}

	c.Publish(schema.CategoryCPU, 1, "payload-1")
	snap, ok := c.Current(schema.CategoryCPU)
	if !ok {
		t.Fatal("Current() after Publish should report present")
	}
	if snap.Version != 1 || snap.Payload != "payload-1" {
		t.Errorf("got version=%d payload=%v, want version=1 payload=payload-1", snap.Version, snap.Payload)
	}
}

func TestCache_WaitNewer_UnblocksOnPublish(t *testing.T) {
	c := NewCache([]schema.Category{schema.CategoryMemory})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	resultCh := make(chan *schema.Snapshot, 1)
	go func() {
		snap, err := c.WaitNewer(ctx, schema.CategoryMemory, 0)
		if err == nil {
			resultCh <- snap
		}
	}()

	time.Sleep(20 * time.Millisecond)
	c.Publish(schema.CategoryMemory, 1, "first")

	select {
	case snap := <-resultCh:
		if snap.Version != 1 {
			t.Errorf("version = %d, want 1", snap.Version)
		}
	case <-time.After(time.Second):
		t.Fatal("WaitNewer did not unblock after Publish")
	}
}

func TestCache_WaitNewer_CursorNeverGoesBackwards(t *testing.T) {
	c := NewCache([]schema.Category{schema.CategoryCPU})
	c.Publish(schema.CategoryCPU, 1, "a")
	c.Publish(schema.CategoryCPU, 2, "b")
	c.Publish(schema.CategoryCPU, 3, "c")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	snap, err := c.WaitNewer(ctx, schema.CategoryCPU, 1)
	if err != nil {
		t.Fatalf("WaitNewer() error = %v", err)
	}
	if snap.Version <= 1 {
		t.Errorf("version = %d, want > 1", snap.Version)
	}
}

func TestCache_WaitNewer_UnknownCategory(t *testing.T) {
	c := NewCache([]schema.Category{schema.CategoryCPU})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if _, err := c.WaitNewer(ctx, schema.CategoryGPU, 0); err == nil {
		t.Fatal("expected an error for an unregistered category")
	}
}

func TestCache_WaitNewer_ContextCancelled(t *testing.T) {
	c := NewCache([]schema.Category{schema.CategoryCPU})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := c.WaitNewer(ctx, schema.CategoryCPU, 0); err == nil {
		t.Fatal("expected an error when the context is already cancelled")
	}
}
