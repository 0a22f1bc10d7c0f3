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

	"github.com/phuonguno98/monitord/pkg/schema"
)

// SubscribeRequest is the Control Surface's Subscribe input.
type SubscribeRequest struct {
	Category   schema.Category
	IntervalMs int
	Filter     Filter
	Sink       Sink
}

// SubscribeResult is the Control Surface's Subscribe output.
type SubscribeResult struct {
	ID     string
	Status StatusCode
}

// Subscribe validates req and, on success, inserts a subscription and
// starts its delivery worker. An interval_ms of 0 is replaced by the
// engine's default update interval; it rejects an interval that is still
// not positive after that, an unknown or unregistered category, or a
// filter attached to the wrong category.
func (e *Engine) Subscribe(req SubscribeRequest) SubscribeResult {
	if req.Category == schema.CategoryUnknown {
		e.telemetry.subscriptionRejected(StatusInvalidType)
		return SubscribeResult{Status: StatusInvalidType}
	}
	if _, ok := e.registry.Get(req.Category); !ok {
		e.telemetry.subscriptionRejected(StatusInvalidType)
		return SubscribeResult{Status: StatusInvalidType}
	}
	if req.IntervalMs == 0 {
		req.IntervalMs = e.defaultIntervalMs
	}
	if req.IntervalMs <= 0 {
		e.telemetry.subscriptionRejected(StatusInvalidInterval)
		return SubscribeResult{Status: StatusInvalidInterval}
	}
	req.Filter.Category = req.Category
	if err := req.Filter.Validate(); err != nil {
		e.telemetry.subscriptionRejected(StatusInvalidFilter)
		return SubscribeResult{Status: StatusInvalidFilter}
	}

	ctx, cancel := context.WithCancel(e.baseCtx)
	sub, err := e.subscriptions.Insert(req.Category, req.IntervalMs, req.Filter, req.Sink, cancel)
	if err != nil {
		cancel()
		if _, isCapacity := err.(*CapacityError); isCapacity {
			e.telemetry.subscriptionRejected(StatusResourceNotAvailable)
			return SubscribeResult{Status: StatusResourceNotAvailable}
		}
		e.telemetry.subscriptionRejected(StatusInternalError)
		return SubscribeResult{Status: StatusInternalError}
	}

	worker := NewDeliveryWorker(sub, e.cache, e.subscriptions, e.telemetry, e.processFilterCache, e.logger)
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		worker.Run(ctx)
	}()

	e.telemetry.setActiveSubscriptions(e.subscriptions.Count())
	return SubscribeResult{ID: sub.ID, Status: StatusSuccess}
}

// SubscribeAllRequest is the Control Surface's Subscribe input for the
// syntactic-sugar `category=ALL`. Filters are category-specific, so ALL
// carries none; each expanded subscription gets an empty filter for its
// category.
type SubscribeAllRequest struct {
	IntervalMs int
	Sink       Sink
}

// SubscribeAll expands `category=ALL` into one Subscribe call per
// concrete, registered category: ALL is syntactic sugar for subscribing to
// every category independently, and the engine performs that expansion
// here rather than pushing it onto callers. It returns one SubscribeResult
// per category of schema.AllCategories, keyed by category, including ones
// the registry does not serve
// (those come back StatusInvalidType) — callers that want all-or-nothing
// semantics can inspect every result themselves. A category without a
// registered collector does not abort the others.
func (e *Engine) SubscribeAll(req SubscribeAllRequest) map[schema.Category]SubscribeResult {
	out := make(map[schema.Category]SubscribeResult, len(schema.AllCategories()))
	for _, cat := range schema.AllCategories() {
		if _, ok := e.registry.Get(cat); !ok {
			out[cat] = SubscribeResult{Status: StatusInvalidType}
			continue
		}
		out[cat] = e.Subscribe(SubscribeRequest{
			Category:   cat,
			IntervalMs: req.IntervalMs,
			Sink:       req.Sink,
		})
	}
	return out
}

// ModifyRequest is the Control Surface's ModifySubscription input.
type ModifyRequest struct {
	ID         string
	IntervalMs int
	Filter     Filter
}

// ModifySubscription rejects absent/closed subscriptions, an interval that
// is not positive once 0 has been replaced by the default update interval,
// or a filter attached to the wrong category; the subscription's category
// is preserved.
func (e *Engine) ModifySubscription(req ModifyRequest) StatusCode {
	sub, ok := e.subscriptions.Get(req.ID)
	if !ok {
		return StatusInvalidType
	}
	if req.IntervalMs == 0 {
		req.IntervalMs = e.defaultIntervalMs
	}
	if req.IntervalMs <= 0 {
		return StatusInvalidInterval
	}
	req.Filter.Category = sub.Category
	if err := req.Filter.Validate(); err != nil {
		return StatusInvalidFilter
	}
	if err := e.subscriptions.Modify(req.ID, req.IntervalMs, req.Filter); err != nil {
		if err == ErrClosed {
			return StatusInvalidType
		}
		return StatusInternalError
	}
	return StatusSuccess
}

// Unsubscribe marks a subscription DRAINING; idempotent, always succeeds.
func (e *Engine) Unsubscribe(id string) StatusCode {
	if err := e.subscriptions.MarkDraining(id); err != nil && err != ErrNotFound {
		return StatusInternalError
	}
	return StatusSuccess
}

// ListSubscriptions returns a snapshot copy of current ACTIVE descriptors.
func (e *Engine) ListSubscriptions() []Descriptor {
	return e.subscriptions.List()
}

// SystemSnapshot is the one-shot composite returned by GetSystemSnapshot.
// A category is absent from Payloads when its collector failed or is
// unregistered.
type SystemSnapshot struct {
	Payloads map[schema.Category]any
}

// GetSystemSnapshot builds a composite snapshot by sampling every
// registered category fresh, equivalent to one Sample() call per category.
// Categories with no registered collector are not visited, so the cache is
// never read here. A per-category collector error yields an absent
// sub-field, never a failed call.
func (e *Engine) GetSystemSnapshot() SystemSnapshot {
	categories := e.registry.Categories()
	out := SystemSnapshot{Payloads: make(map[schema.Category]any, len(categories))}

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, cat := range categories {
		cat := cat
		wg.Add(1)
		go func() {
			defer wg.Done()
			payload, ok := e.sampleOneShot(cat)
			if !ok {
				return
			}
			mu.Lock()
			out.Payloads[cat] = payload
			mu.Unlock()
		}()
	}
	wg.Wait()
	return out
}

func (e *Engine) sampleOneShot(cat schema.Category) (any, bool) {
	collector, ok := e.registry.Get(cat)
	if !ok {
		if snap, ok := e.cache.Current(cat); ok {
			return snap.Payload, true
		}
		return nil, false
	}
	payload, err := collector.Sample()
	if err != nil {
		e.telemetry.collectFailure(cat)
		e.logger.Warn("one-shot sample failed", "category", cat.String(), "error", err)
		return nil, false
	}
	return payload, true
}
