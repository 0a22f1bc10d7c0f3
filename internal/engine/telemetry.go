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
	"github.com/phuonguno98/monitord/pkg/schema"
	"github.com/prometheus/client_golang/prometheus"
)

// Telemetry wraps the daemon's internal Prometheus instrumentation. A nil
// *Telemetry is valid and every method becomes a no-op, so collectors and
// schedulers can be unit-tested without standing up a registry.
type Telemetry struct {
	collectFailures    *prometheus.CounterVec
	snapshotsPublished *prometheus.CounterVec
	effectiveInterval  *prometheus.GaugeVec
	schedulerPausedVec *prometheus.GaugeVec
	droppedSamples     *prometheus.CounterVec
	activeSubscriptions prometheus.Gauge
	subscriptionErrors  *prometheus.CounterVec
}

// NewTelemetry registers monitord's internal metrics on reg and returns the
// handle used to record them. Pass a fresh prometheus.NewRegistry() in
// production so the metrics server's /metrics endpoint only exposes
// monitord's own series. A nil reg yields a nil (no-op) *Telemetry.
func NewTelemetry(reg prometheus.Registerer) *Telemetry {
	if reg == nil {
		return nil
	}
	t := &Telemetry{
		collectFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "monitord",
			Name:      "collect_failures_total",
			Help:      "Count of collector sample() failures per category.",
		}, []string{"category"}),
		snapshotsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "monitord",
			Name:      "snapshots_published_total",
			Help:      "Count of snapshots published to the cache per category.",
		}, []string{"category"}),
		effectiveInterval: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "monitord",
			Name:      "effective_interval_milliseconds",
			Help:      "Current effective sampling interval per category.",
		}, []string{"category"}),
		schedulerPausedVec: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "monitord",
			Name:      "scheduler_paused",
			Help:      "1 if the category's scheduler is paused (no active subscribers), else 0.",
		}, []string{"category"}),
		droppedSamples: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "monitord",
			Name:      "dropped_samples_total",
			Help:      "Count of snapshots dropped per subscription due to WouldBlock.",
		}, []string{"subscription_id", "category"}),
		activeSubscriptions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "monitord",
			Name:      "active_subscriptions",
			Help:      "Current count of subscriptions held in the registry (ACTIVE or DRAINING) across all categories.",
		}),
		subscriptionErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "monitord",
			Name:      "subscription_errors_total",
			Help:      "Count of Subscribe/Modify rejections by status code.",
		}, []string{"status"}),
	}
	reg.MustRegister(
		t.collectFailures,
		t.snapshotsPublished,
		t.effectiveInterval,
		t.schedulerPausedVec,
		t.droppedSamples,
		t.activeSubscriptions,
		t.subscriptionErrors,
	)
	return t
}

func (t *Telemetry) collectFailure(cat schema.Category) {
	if t == nil {
		return
	}
	t.collectFailures.WithLabelValues(cat.String()).Inc()
}

func (t *Telemetry) snapshotPublished(cat schema.Category) {
	if t == nil {
		return
	}
	t.snapshotsPublished.WithLabelValues(cat.String()).Inc()
}

func (t *Telemetry) schedulerInterval(cat schema.Category, ms int64) {
	if t == nil {
		return
	}
	t.effectiveInterval.WithLabelValues(cat.String()).Set(float64(ms))
	t.schedulerPausedVec.WithLabelValues(cat.String()).Set(0)
}

func (t *Telemetry) schedulerPaused(cat schema.Category) {
	if t == nil {
		return
	}
	t.schedulerPausedVec.WithLabelValues(cat.String()).Set(1)
}

func (t *Telemetry) sampleDropped(subscriptionID string, cat schema.Category) {
	if t == nil {
		return
	}
	t.droppedSamples.WithLabelValues(subscriptionID, cat.String()).Inc()
}

func (t *Telemetry) setActiveSubscriptions(n int) {
	if t == nil {
		return
	}
	t.activeSubscriptions.Set(float64(n))
}

func (t *Telemetry) subscriptionRejected(status StatusCode) {
	if t == nil {
		return
	}
	t.subscriptionErrors.WithLabelValues(status.String()).Inc()
}
