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
	"os/exec"
	"strconv"
	"strings"

	"github.com/phuonguno98/monitord/pkg/schema"
)

// GpuCollector samples GPU utilization by shelling out to vendor query
// tools when present on PATH. There is no pure-Go GPU telemetry library in
// use elsewhere in this codebase, so this collector degrades gracefully to
// an empty list on hosts without a supported vendor tool rather than
// failing the whole category.
type GpuCollector struct {
	minIntervalMs    int
	includeProcesses bool
	lookPath         func(string) (string, error)
	runQuery         func(name string, args ...string) ([]byte, error)
}

// NewGpuCollector creates a GPU collector with the given floor interval.
func NewGpuCollector(minIntervalMs int, includeProcesses bool) *GpuCollector {
	return &GpuCollector{
		minIntervalMs:    minIntervalMs,
		includeProcesses: includeProcesses,
		lookPath:         exec.LookPath,
		runQuery: func(name string, args ...string) ([]byte, error) {
			return exec.Command(name, args...).Output()
		},
	}
}

// Category implements engine.Collector.
func (g *GpuCollector) Category() schema.Category { return schema.CategoryGPU }

// MinIntervalMs implements engine.Collector.
func (g *GpuCollector) MinIntervalMs() int { return g.minIntervalMs }

// Sample implements engine.Collector. A host with no recognized vendor tool
// on PATH yields an empty GPU list rather than an error, since "no GPU" is
// an expected, not exceptional, outcome.
func (g *GpuCollector) Sample() (any, error) {
	if _, err := g.lookPath("nvidia-smi"); err == nil {
		gpus, err := g.sampleNvidia()
		if err == nil {
			return schema.GpuList{GPUs: gpus}, nil
		}
	}
	return schema.GpuList{GPUs: nil}, nil
}

// sampleNvidia queries nvidia-smi's CSV output format, the same interface
// NVIDIA documents for scripting and the only one available without cgo
// bindings to a vendor SDK.
func (g *GpuCollector) sampleNvidia() ([]schema.GpuInfo, error) {
	out, err := g.runQuery("nvidia-smi",
		"--query-gpu=index,name,driver_version,utilization.gpu,memory.used,memory.total,temperature.gpu,power.draw",
		"--format=csv,noheader,nounits")
	if err != nil {
		return nil, err
	}

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	gpus := make([]schema.GpuInfo, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, ",")
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}
		if len(fields) < 8 {
			continue
		}

		index, _ := strconv.Atoi(fields[0])
		driver := fields[2]
		gpu := schema.GpuInfo{
			Index:         index,
			Name:          fields[1],
			Vendor:        "NVIDIA",
			DriverVersion: &driver,
		}
		if usage, err := strconv.ParseFloat(fields[3], 64); err == nil {
			gpu.UsagePercent = &usage
		}
		if memUsedMB, err := strconv.ParseFloat(fields[4], 64); err == nil {
			v := uint64(memUsedMB * 1024 * 1024)
			gpu.MemoryUsedBytes = &v
		}
		if memTotalMB, err := strconv.ParseFloat(fields[5], 64); err == nil {
			v := uint64(memTotalMB * 1024 * 1024)
			gpu.MemoryTotalBytes = &v
		}
		if temp, err := strconv.ParseFloat(fields[6], 64); err == nil {
			gpu.TemperatureC = &temp
		}
		if power, err := strconv.ParseFloat(fields[7], 64); err == nil {
			gpu.PowerWatts = &power
		}

		if g.includeProcesses {
			gpu.Processes = g.sampleProcesses(index)
		}

		gpus = append(gpus, gpu)
	}
	return gpus, nil
}

// sampleProcesses queries per-process GPU memory usage; failures here are
// swallowed since process accounting is a best-effort enrichment, not the
// primary payload.
func (g *GpuCollector) sampleProcesses(gpuIndex int) []schema.GpuProcessInfo {
	out, err := g.runQuery("nvidia-smi",
		"--query-compute-apps=pid,process_name,used_memory",
		"--format=csv,noheader,nounits", "-i", strconv.Itoa(gpuIndex))
	if err != nil {
		return nil
	}

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	procs := make([]schema.GpuProcessInfo, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, ",")
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}
		if len(fields) < 3 {
			continue
		}
		pid, _ := strconv.Atoi(fields[0])
		memMB, _ := strconv.ParseFloat(fields[2], 64)
		procs = append(procs, schema.GpuProcessInfo{
			PID:             int32(pid),
			Name:            fields[1],
			MemoryUsedBytes: uint64(memMB * 1024 * 1024),
		})
	}
	return procs
}
