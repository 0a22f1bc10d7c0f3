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

package collector

import (
	"fmt"
	"runtime"
	"time"

	"github.com/phuonguno98/monitord/pkg/metrics"
	"github.com/phuonguno98/monitord/pkg/schema"
	"github.com/shirou/gopsutil/v3/cpu"
)

// CPUCollector samples aggregate and per-core CPU utilization and iowait.
// Utilization is delta-based: the first sample after construction is a
// baseline and reports zero usage.
type CPUCollector struct {
	minIntervalMs int
	prevTotal     metrics.CPUTimeStats
	prevPerCore   []metrics.CPUTimeStats
	firstRun      bool
}

// NewCPUCollector creates a CPU collector with the given floor interval.
func NewCPUCollector(minIntervalMs int) *CPUCollector {
	return &CPUCollector{minIntervalMs: minIntervalMs, firstRun: true}
}

// Category implements engine.Collector.
func (c *CPUCollector) Category() schema.Category { return schema.CategoryCPU }

// MinIntervalMs implements engine.Collector.
func (c *CPUCollector) MinIntervalMs() int { return c.minIntervalMs }

// Sample implements engine.Collector.
func (c *CPUCollector) Sample() (any, error) {
	info, err := cpu.Info()
	if err != nil {
		return nil, fmt.Errorf("get cpu info: %w", err)
	}
	modelName := "unknown"
	if len(info) > 0 {
		modelName = info[0].ModelName
	}

	totalTimes, err := cpu.Times(false)
	if err != nil || len(totalTimes) == 0 {
		return nil, fmt.Errorf("get aggregate cpu times: %w", err)
	}
	perCoreTimes, err := cpu.Times(true)
	if err != nil {
		return nil, fmt.Errorf("get per-core cpu times: %w", err)
	}

	now := time.Now()
	currentTotal := toTimeStats(totalTimes[0], now)
	currentPerCore := make([]metrics.CPUTimeStats, len(perCoreTimes))
	for i, t := range perCoreTimes {
		currentPerCore[i] = toTimeStats(t, now)
	}

	if c.firstRun {
		c.prevTotal = currentTotal
		c.prevPerCore = currentPerCore
		c.firstRun = false
		physical, _ := cpu.Counts(false)
		logical, _ := cpu.Counts(true)
		cores := make([]schema.CoreInfo, len(currentPerCore))
		for i := range cores {
			cores[i] = schema.CoreInfo{Index: i}
		}
		return schema.CpuInfo{
			ModelName:     modelName,
			PhysicalCores: physical,
			LogicalCores:  logical,
			Cores:         cores,
		}, nil
	}

	utilization := metrics.CalculateCPUUtilization(&c.prevTotal, &currentTotal)
	iowaitVal := metrics.CalculateCPUIOWait(&c.prevTotal, &currentTotal)
	var iowait *float64
	if v := c.platformIOWait(iowaitVal); v != nil {
		iowait = v
	}

	cores := make([]schema.CoreInfo, len(currentPerCore))
	for i, cur := range currentPerCore {
		usage := 0.0
		if i < len(c.prevPerCore) {
			usage = metrics.CalculateCPUUtilization(&c.prevPerCore[i], &cur)
		}
		cores[i] = schema.CoreInfo{Index: i, UsagePercent: usage}
	}

	c.prevTotal = currentTotal
	c.prevPerCore = currentPerCore

	physical, _ := cpu.Counts(false)
	logical, _ := cpu.Counts(true)

	return schema.CpuInfo{
		ModelName:     modelName,
		PhysicalCores: physical,
		LogicalCores:  logical,
		UsagePercent:  utilization,
		IOWaitPercent: iowait,
		Cores:         cores,
	}, nil
}

func toTimeStats(t cpu.TimesStat, ts time.Time) metrics.CPUTimeStats {
	return metrics.CPUTimeStats{
		User:      t.User,
		System:    t.System,
		Idle:      t.Idle,
		IOWait:    t.Iowait,
		Irq:       t.Irq,
		SoftIrq:   t.Softirq,
		Steal:     t.Steal,
		Guest:     t.Guest,
		GuestNice: t.GuestNice,
		Timestamp: ts,
	}
}

// platformIOWait accounts for iowait availability differing by platform:
// Windows has no iowait concept at all, and macOS reports an unreliable
// near-zero estimate that is better surfaced as absent. A negative v is
// CalculateCPUIOWait's "unavailable" result and is absent on every platform.
func (c *CPUCollector) platformIOWait(v float64) *float64 {
	if v < 0 {
		return nil
	}
	switch runtime.GOOS {
	case "windows":
		return nil
	case "darwin":
		if v == 0 {
			return nil
		}
		return &v
	default:
		return &v
	}
}
