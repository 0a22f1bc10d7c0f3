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

	"github.com/phuonguno98/monitord/pkg/schema"
	"github.com/shirou/gopsutil/v3/mem"
)

// MemoryCollector samples system memory and swap utilization. Stateless:
// every sample is a direct gopsutil read, no delta tracking required.
type MemoryCollector struct {
	minIntervalMs int
}

// NewMemoryCollector creates a memory collector with the given floor interval.
func NewMemoryCollector(minIntervalMs int) *MemoryCollector {
	return &MemoryCollector{minIntervalMs: minIntervalMs}
}

// Category implements engine.Collector.
func (m *MemoryCollector) Category() schema.Category { return schema.CategoryMemory }

// MinIntervalMs implements engine.Collector.
func (m *MemoryCollector) MinIntervalMs() int { return m.minIntervalMs }

// Sample implements engine.Collector.
func (m *MemoryCollector) Sample() (any, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return nil, fmt.Errorf("get virtual memory stats: %w", err)
	}
	swap, err := mem.SwapMemory()
	if err != nil {
		return nil, fmt.Errorf("get swap stats: %w", err)
	}

	return schema.MemoryInfo{
		TotalBytes:     vm.Total,
		UsedBytes:      vm.Used,
		AvailableBytes: vm.Available,
		UsagePercent:   vm.UsedPercent,
		SwapTotalBytes: swap.Total,
		SwapUsedBytes:  swap.Used,
	}, nil
}
