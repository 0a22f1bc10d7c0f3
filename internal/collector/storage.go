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
	"github.com/shirou/gopsutil/v3/disk"
)

// StorageCollector samples per-device disk usage and delta-based I/O
// performance counters (utilization, await, IOPS).
type StorageCollector struct {
	minIntervalMs  int
	prevStats      map[string]metrics.DiskIOStats
	includeDevices []string
	excludeDevices []string
	firstRun       bool
}

// NewStorageCollector creates a storage collector. Device names in
// includeDevices/excludeDevices may carry a "/dev/" prefix or not; both
// forms are normalized for comparison against disk.IOCounters() keys.
func NewStorageCollector(minIntervalMs int, includeDevices, excludeDevices []string) *StorageCollector {
	return &StorageCollector{
		minIntervalMs:  minIntervalMs,
		prevStats:      make(map[string]metrics.DiskIOStats),
		includeDevices: normalizeDeviceList(includeDevices),
		excludeDevices: normalizeDeviceList(excludeDevices),
		firstRun:       true,
	}
}

// Category implements engine.Collector.
func (d *StorageCollector) Category() schema.Category { return schema.CategoryStorage }

// MinIntervalMs implements engine.Collector.
func (d *StorageCollector) MinIntervalMs() int { return d.minIntervalMs }

// Sample implements engine.Collector.
func (d *StorageCollector) Sample() (any, error) {
	ioCounters, err := disk.IOCounters()
	if err != nil {
		return nil, fmt.Errorf("get disk io counters: %w", err)
	}
	partitions, err := disk.Partitions(false)
	if err != nil {
		return nil, fmt.Errorf("get disk partitions: %w", err)
	}
	mountByDevice := make(map[string]disk.PartitionStat, len(partitions))
	for _, p := range partitions {
		mountByDevice[normalizeDeviceName(p.Device)] = p
	}

	now := time.Now()
	devices := make([]schema.StorageInfo, 0, len(ioCounters))

	for deviceName, counter := range ioCounters {
		if !d.shouldMonitor(deviceName) {
			continue
		}

		currentStats := metrics.DiskIOStats{
			ReadCount:  counter.ReadCount,
			WriteCount: counter.WriteCount,
			ReadTime:   counter.ReadTime,
			WriteTime:  counter.WriteTime,
			IOTime:     d.getIOTime(&counter),
			Timestamp:  now,
		}

		info := schema.StorageInfo{Device: deviceName}
		if part, ok := mountByDevice[deviceName]; ok {
			info.MountPoint = part.Mountpoint
			info.Filesystem = part.Fstype
			if usage, err := disk.Usage(part.Mountpoint); err == nil {
				info.TotalBytes = usage.Total
				info.UsedBytes = usage.Used
				info.AvailableBytes = usage.Free
				info.UsagePercent = usage.UsedPercent
			}
		}

		prevStats, exists := d.prevStats[deviceName]
		d.prevStats[deviceName] = currentStats
		if !d.firstRun && exists {
			info.UtilizationPercent = metrics.CalculateDiskUtilization(prevStats, currentStats)
			info.AwaitMillis = metrics.CalculateDiskAwait(prevStats, currentStats)
			info.IOPS = metrics.CalculateDiskIOPS(prevStats, currentStats)
		}

		devices = append(devices, info)
	}

	if d.firstRun {
		d.firstRun = false
	}

	return schema.StorageList{Devices: devices}, nil
}

// getIOTime extracts IOTime with platform-specific handling: Windows does
// not populate IoTime, so it is approximated from read+write time instead.
func (d *StorageCollector) getIOTime(counter *disk.IOCountersStat) uint64 {
	if runtime.GOOS == "windows" && counter.IoTime == 0 {
		return counter.ReadTime + counter.WriteTime
	}
	return counter.IoTime
}

// shouldMonitor checks include/exclude device filters; exclude wins, and an
// empty include list means "monitor everything not excluded".
func (d *StorageCollector) shouldMonitor(deviceName string) bool {
	for _, excluded := range d.excludeDevices {
		if excluded == deviceName {
			return false
		}
	}
	if len(d.includeDevices) == 0 {
		return true
	}
	for _, included := range d.includeDevices {
		if included == deviceName {
			return true
		}
	}
	return false
}

// normalizeDeviceName strips a "/dev/" prefix so devices specified either
// way (as seen in list-devices output or as raw IOCounters keys) compare
// equal.
func normalizeDeviceName(name string) string {
	const prefix = "/dev/"
	if len(name) >= len(prefix) && name[:len(prefix)] == prefix {
		return name[len(prefix):]
	}
	return name
}

func normalizeDeviceList(devices []string) []string {
	normalized := make([]string, len(devices))
	for i, device := range devices {
		normalized[i] = normalizeDeviceName(device)
	}
	return normalized
}
