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
	"sync"
	"time"

	"github.com/phuonguno98/monitord/pkg/schema"
	"github.com/prometheus/client_golang/prometheus"
)

// Engine bundles the Collector Registry, Snapshot Cache, per-category
// Sampling Schedulers, Subscription Registry, and the Control Surface
// methods into one daemon-lifetime handle.
type Engine struct {
	registry           *Registry
	cache              *Cache
	subscriptions      *SubscriptionRegistry
	schedulers         map[schema.Category]*Scheduler
	telemetry          *Telemetry
	processFilterCache *ProcessFilterCache
	logger             *slog.Logger

	defaultIntervalMs int
	shutdownGrace     time.Duration

	baseCtx    context.Context
	baseCancel context.CancelFunc
	wg         sync.WaitGroup
}

// Options configures Engine construction.
type Options struct {
	MaxClients              int
	DefaultUpdateIntervalMs int
	ShutdownGrace           time.Duration
	MetricsRegisterer       prometheus.Registerer
	Logger                  *slog.Logger
}

// New builds an Engine from a populated Registry and starts one Scheduler
// goroutine per registered category (each starts paused; Subscribe wakes
// the relevant one).
func New(registry *Registry, opts Options) *Engine {
	categories := registry.Categories()
	cache := NewCache(categories)
	telemetry := NewTelemetry(opts.MetricsRegisterer)
	logger := opts.Logger

	baseCtx, baseCancel := context.WithCancel(context.Background())

	e := &Engine{
		registry:           registry,
		cache:              cache,
		schedulers:         make(map[schema.Category]*Scheduler, len(categories)),
		telemetry:          telemetry,
		processFilterCache: NewProcessFilterCache(opts.MaxClients),
		logger:             logger,
		defaultIntervalMs:  opts.DefaultUpdateIntervalMs,
		shutdownGrace:      opts.ShutdownGrace,
		baseCtx:            baseCtx,
		baseCancel:         baseCancel,
	}

	for _, cat := range categories {
		collector, _ := registry.Get(cat)
		sched := NewScheduler(collector, cache, telemetry, logger)
		e.schedulers[cat] = sched
	}

	e.subscriptions = NewSubscriptionRegistry(opts.MaxClients, e.recomputeCategory)

	for _, sched := range e.schedulers {
		sched := sched
		e.wg.Add(1)
		go func() {
			defer e.wg.Done()
			sched.Run(baseCtx)
		}()
	}

	return e
}

// recomputeCategory re-derives a category's effective interval from its
// currently ACTIVE subscribers. Registered as the SubscriptionRegistry's
// onMutate callback.
func (e *Engine) recomputeCategory(cat schema.Category) {
	sched, ok := e.schedulers[cat]
	if !ok {
		return
	}
	minMs, any := e.subscriptions.MinIntervalForCategory(cat)
	if !any {
		sched.Recompute(0)
		return
	}
	sched.Recompute(int64(minMs))
}

// Shutdown broadcasts cancellation to every scheduler and delivery worker
// and waits up to the configured grace period for them to exit cleanly.
func (e *Engine) Shutdown() {
	e.baseCancel()

	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(e.shutdownGrace):
		e.logger.Warn("shutdown grace period elapsed with workers still running")
	}
}

// FailureCount exposes a category's cumulative collector failure count (0
// for an unregistered category). ListSubscriptions' descriptors do not
// carry this count.
func (e *Engine) FailureCount(cat schema.Category) int64 {
	sched, ok := e.schedulers[cat]
	if !ok {
		return 0
	}
	return sched.FailureCount()
}
