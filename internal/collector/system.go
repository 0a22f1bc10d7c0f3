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

	"github.com/phuonguno98/monitord/pkg/schema"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/load"
)

// SystemCollector samples host identity and overall uptime/load. Load
// average is nil on platforms that don't expose the concept (Windows).
type SystemCollector struct {
	minIntervalMs int
}

// NewSystemCollector creates a system info collector with the given floor interval.
func NewSystemCollector(minIntervalMs int) *SystemCollector {
	return &SystemCollector{minIntervalMs: minIntervalMs}
}

// Category implements engine.Collector.
func (s *SystemCollector) Category() schema.Category { return schema.CategorySystem }

// MinIntervalMs implements engine.Collector.
func (s *SystemCollector) MinIntervalMs() int { return s.minIntervalMs }

// Sample implements engine.Collector.
func (s *SystemCollector) Sample() (any, error) {
	info, err := host.Info()
	if err != nil {
		return nil, fmt.Errorf("get host info: %w", err)
	}

	sys := schema.SystemInfo{
		Hostname:      info.Hostname,
		OS:            info.OS,
		KernelVersion: info.KernelVersion,
		Architecture:  runtime.GOARCH,
		Uptime:        time.Duration(info.Uptime) * time.Second,
		BootTime:      time.Unix(int64(info.BootTime), 0),
		ProcessCount:  info.Procs,
	}

	if avg, err := load.Avg(); err == nil {
		l1, l5, l15 := avg.Load1, avg.Load5, avg.Load15
		sys.LoadAverage1Min = &l1
		sys.LoadAverage5Min = &l5
		sys.LoadAverage15Min = &l15
	}

	return sys, nil
}
