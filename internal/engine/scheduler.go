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
	"sync/atomic"
	"time"

	"github.com/phuonguno98/monitord/pkg/schema"
)

// Scheduler runs one logical sampling task for a single category. It is
// created once per registered collector and lives for the daemon's lifetime,
// pausing and resuming as subscribers come and go.
type Scheduler struct {
	category  schema.Category
	collector Collector
	cache     *Cache
	telemetry *Telemetry
	logger    *slog.Logger

	minIntervalMs int64
	effectiveMs   atomic.Int64
	paused        atomic.Bool
	version       atomic.Uint64
	failures      atomic.Int64

	wake chan struct{}
}

// NewScheduler builds a paused scheduler for a category; it starts paused
// because no subscriber exists yet at construction time.
func NewScheduler(collector Collector, cache *Cache, telemetry *Telemetry, logger *slog.Logger) *Scheduler {
	s := &Scheduler{
		category:      collector.Category(),
		collector:     collector,
		cache:         cache,
		telemetry:     telemetry,
		logger:        logger,
		minIntervalMs: int64(collector.MinIntervalMs()),
		wake:          make(chan struct{}, 1),
	}
	s.effectiveMs.Store(s.minIntervalMs)
	s.paused.Store(true)
	return s
}

// Category returns the category this scheduler drives.
func (s *Scheduler) Category() schema.Category { return s.category }

// FailureCount returns the cumulative count of failed sample() invocations.
func (s *Scheduler) FailureCount() int64 { return s.failures.Load() }

// Recompute derives the new effective interval from the minimum interval
// requested across ACTIVE subscribers for this category, per the invariant
// effective_interval_ms = max(min_interval_ms, min(subscriber intervals)).
// minSubscriberMs of 0 means "no ACTIVE subscribers": the scheduler pauses.
func (s *Scheduler) Recompute(minSubscriberMs int64) {
	if minSubscriberMs <= 0 {
		wasPaused := s.paused.Swap(true)
		if !wasPaused {
			s.telemetry.schedulerPaused(s.category)
		}
		return
	}

	newInterval := minSubscriberMs
	if newInterval < s.minIntervalMs {
		newInterval = s.minIntervalMs
	}

	old := s.effectiveMs.Swap(newInterval)
	wasPaused := s.paused.Swap(false)
	s.telemetry.schedulerInterval(s.category, newInterval)

	// Tighten immediately (wake the sleeper so a new fast subscriber isn't
	// starved of its first update); relax only takes effect at next tick.
	if wasPaused || newInterval < old {
		s.wakeOnce()
	}
}

func (s *Scheduler) wakeOnce() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Run drives the sample/publish loop until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	nextDeadline := time.Now()
	for {
		if s.paused.Load() {
			select {
			case <-s.wake:
			case <-ctx.Done():
				return
			}
			nextDeadline = time.Now()
			continue
		}

		now := time.Now()
		if nextDeadline.After(now) {
			timer := time.NewTimer(nextDeadline.Sub(now))
			select {
			case <-timer.C:
			case <-s.wake:
				timer.Stop()
				nextDeadline = time.Now()
				continue
			case <-ctx.Done():
				timer.Stop()
				return
			}
		}

		start := time.Now()
		payload, err := s.collector.Sample()
		if err != nil {
			s.failures.Add(1)
			s.telemetry.collectFailure(s.category)
			s.logger.Warn("collector sample failed", "category", s.category.String(), "error", err)
		} else {
			v := s.version.Add(1)
			s.cache.Publish(s.category, v, payload)
			s.telemetry.snapshotPublished(s.category)
		}

		elapsed := time.Since(start)
		interval := time.Duration(s.effectiveMs.Load()) * time.Millisecond
		if elapsed >= interval {
			// Sampling itself exceeded the interval: no catch-up burst, only
			// the one missed tick is coalesced.
			nextDeadline = time.Now()
		} else {
			nextDeadline = start.Add(interval)
		}
	}
}
