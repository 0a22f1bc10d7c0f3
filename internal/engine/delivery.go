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
	"log/slog"

	"github.com/phuonguno98/monitord/pkg/schema"
)

// DeliveryWorker drives one subscription's fan-out loop: wait for a newer
// snapshot, filter it, and hand it to the subscriber's sink. Exactly one
// worker exists per ACTIVE subscription.
type DeliveryWorker struct {
	sub        *Subscription
	cache      *Cache
	registry   *SubscriptionRegistry
	telemetry  *Telemetry
	procFilter *ProcessFilterCache
	logger     *slog.Logger
}

// NewDeliveryWorker builds a worker for a freshly inserted subscription.
func NewDeliveryWorker(sub *Subscription, cache *Cache, registry *SubscriptionRegistry, telemetry *Telemetry, procFilter *ProcessFilterCache, logger *slog.Logger) *DeliveryWorker {
	return &DeliveryWorker{sub: sub, cache: cache, registry: registry, telemetry: telemetry, procFilter: procFilter, logger: logger}
}

// Run executes the delivery loop until ctx is cancelled (subscription
// Modified does not cancel; Unsubscribe and daemon shutdown do) or the sink
// reports a terminal error. On exit the subscription is retired: marked
// DRAINING, removed from the registry, and its sink closed.
func (w *DeliveryWorker) Run(ctx context.Context) {
	defer w.retire()

	for {
		snap, err := w.cache.WaitNewer(ctx, w.sub.Category, w.sub.Cursor())
		if err != nil {
			return
		}

		// Advance the cursor before attempting the send so a missed or
		// dropped snapshot is never retried; only the latest value is ever
		// delivered per category (coalescing policy).
		w.sub.AdvanceCursor(snap.Version)

		if w.sub.State() != StateActive {
			return
		}

		filter := w.sub.FilterValue()
		var filtered any
		var ok bool
		if w.sub.Category == schema.CategoryProcess {
			procList, _ := snap.Payload.(schema.ProcessList)
			filtered, ok = w.procFilter.Apply(snap.Version, filter.Process, procList)
		} else {
			filtered, ok = Apply(filter, snap.Payload)
		}
		if !ok {
			continue
		}

		switch w.sub.Sink.TrySend(w.sub.Category.String(), filtered) {
		case SendOk:
			continue
		case SendWouldBlock:
			w.sub.IncrementDropped()
			w.telemetry.sampleDropped(w.sub.ID, w.sub.Category)
			continue
		case SendTerminalError:
			return
		}
	}
}

func (w *DeliveryWorker) retire() {
	_ = w.registry.MarkDraining(w.sub.ID)
	w.registry.Remove(w.sub.ID)
	w.telemetry.setActiveSubscriptions(w.registry.Count())
	if err := w.sub.Sink.Close(); err != nil {
		w.logger.Debug("sink close error", "subscription", w.sub.ID, "error", err)
	}
}
