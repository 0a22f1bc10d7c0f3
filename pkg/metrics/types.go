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

// Package metrics holds the pure delta-rate arithmetic behind monitord's
// CPU, storage and network collectors. The collectors
// (internal/collector/cpu.go, storage.go, network.go) keep one of these
// stat structs per device/interface from the previous Sample() call and
// pass (previous, current) into the functions in calculator.go on every
// tick; the engine's scheduler publishes whatever rate comes out, so a
// wrong delta here surfaces directly in a subscriber's next snapshot.
package metrics

import "time"

// CPUTimeStats is the CPU time accounting gopsutil reports for one
// collection tick; CalculateCPUUtilization and CalculateCPUIOWait diff two
// of these to get a percentage.
type CPUTimeStats struct {
	User      float64
	System    float64
	Idle      float64
	IOWait    float64
	Irq       float64
	SoftIrq   float64
	Steal     float64
	Guest     float64
	GuestNice float64
	Timestamp time.Time
}

// DiskIOStats is the per-device I/O counter snapshot the storage collector
// retains between ticks to compute IOPS, await and utilization.
type DiskIOStats struct {
	ReadCount  uint64
	WriteCount uint64
	ReadTime   uint64 // Milliseconds
	WriteTime  uint64 // Milliseconds
	IOTime     uint64 // Milliseconds disk was busy
	Timestamp  time.Time
}

// NetworkIOStats is the per-interface counter snapshot the network
// collector retains between ticks to compute bandwidth.
type NetworkIOStats struct {
	BytesSent uint64
	BytesRecv uint64
	Timestamp time.Time
}
