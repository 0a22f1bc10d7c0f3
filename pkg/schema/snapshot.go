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

package schema

import "time"

// Snapshot is an opaque, immutable telemetry reading for a single category.
// Once published by the scheduler it is never mutated; Payload holds one of
// the category-specific message types below.
type Snapshot struct {
	Category    Category
	CollectedAt time.Time
	Version     uint64
	Payload     any
}

// SystemInfo is the SYSTEM category payload: general host identity.
type SystemInfo struct {
	Hostname        string
	OS              string
	KernelVersion   string
	Architecture    string
	Uptime          time.Duration
	BootTime        time.Time
	ProcessCount    uint64
	LoadAverage1Min *float64
	LoadAverage5Min *float64
	LoadAverage15Min *float64
}

// CpuCache describes one cache level of a CPU core.
type CpuCache struct {
	Level     int
	SizeBytes uint64
}

// CoreInfo describes one logical CPU core.
type CoreInfo struct {
	Index          int
	UsagePercent   float64
	FrequencyMHz   *float64
	TemperatureC   *float64
	Caches         []CpuCache
}

// CpuInfo is the CPU category payload.
type CpuInfo struct {
	ModelName         string
	PhysicalCores     int
	LogicalCores      int
	UsagePercent      float64
	IOWaitPercent     *float64 // nil when the platform cannot report iowait
	Cores             []CoreInfo
}

// DramInfo describes one physical DRAM module, when the platform exposes it.
type DramInfo struct {
	Slot         string
	SizeBytes    uint64
	SpeedMHz     *uint32
	Manufacturer *string
}

// MemoryInfo is the MEMORY category payload.
type MemoryInfo struct {
	TotalBytes     uint64
	UsedBytes      uint64
	AvailableBytes uint64
	UsagePercent   float64
	SwapTotalBytes uint64
	SwapUsedBytes  uint64
	Dram           []DramInfo
}

// GpuProcessInfo is one process using a GPU. The collector fills it only
// when gpu_config.collect_processes is set, and a subscription's GpuFilter
// strips it unless IncludeProcesses is set; with no GpuFilter it is kept.
type GpuProcessInfo struct {
	PID             int32
	Name            string
	MemoryUsedBytes uint64
}

// GpuInfo is one GPU device's payload.
type GpuInfo struct {
	Index              int
	Name               string
	Vendor             string // as set by the collector; currently always "NVIDIA"
	DriverVersion      *string
	UsagePercent       *float64
	MemoryUsedBytes    *uint64
	MemoryTotalBytes   *uint64
	TemperatureC       *float64
	PowerWatts         *float64
	EncoderUsagePercent *float64
	DecoderUsagePercent *float64
	Processes          []GpuProcessInfo
}

// GpuList is the GPU category payload: zero or more devices.
type GpuList struct {
	GPUs []GpuInfo
}

// NetworkInfo is one network interface's payload.
type NetworkInfo struct {
	Name               string
	BytesSent          uint64
	BytesReceived      uint64
	PacketsSent        uint64
	PacketsReceived    uint64
	ErrorsIn           uint64
	ErrorsOut          uint64
	DropsIn            uint64
	DropsOut            uint64
	BandwidthBitsPerSec float64
	Addresses          []string
	IsUp               bool
}

// NetworkList is the NETWORK category payload.
type NetworkList struct {
	Interfaces []NetworkInfo
}

// SmartData is the subset of S.M.A.R.T. attributes monitord surfaces,
// present only when the platform and device expose them.
type SmartData struct {
	HealthOK        bool
	TemperatureC    *float64
	PowerOnHours    *uint64
	ReallocatedSectors *uint64
}

// StorageInfo is one storage device's payload.
type StorageInfo struct {
	Device          string
	MountPoint      string
	Filesystem      string
	TotalBytes      uint64
	UsedBytes       uint64
	AvailableBytes  uint64
	UsagePercent    float64
	UtilizationPercent float64
	AwaitMillis     float64
	IOPS            float64
	Smart           *SmartData
}

// StorageList is the STORAGE category payload.
type StorageList struct {
	Devices []StorageInfo
}

// KeyValuePair is used for process environment variables.
type KeyValuePair struct {
	Key   string
	Value string
}

// ProcessInfo is one process's payload.
type ProcessInfo struct {
	PID               int32
	PPID              int32
	Name              string
	Username          string
	CPUUsagePercent   float64
	MemoryUsagePercent float64
	MemoryRSSBytes    uint64
	DiskReadBytesPerSec  *float64
	DiskWriteBytesPerSec *float64
	CommandLine       []string          // nil unless process_config.collect_command_line
	Environment       []KeyValuePair    // nil unless process_config.collect_environment
	CreatedAt         time.Time
}

// ProcessList is the PROCESS category payload.
type ProcessList struct {
	Processes []ProcessInfo
	TotalCount int // count before any subscription-level filtering
}
