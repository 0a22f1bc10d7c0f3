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
	"time"

	"github.com/phuonguno98/monitord/pkg/schema"
	"github.com/shirou/gopsutil/v3/process"
)

// ProcessConfig gates the expensive, privacy-sensitive per-process fields.
type ProcessConfig struct {
	CollectCommandLine  bool
	CollectEnvironment  bool
	CollectIOStatistics bool
}

// ProcessCollector samples the host's process table. Per-process I/O rates
// are delta-based; everything else is a direct gopsutil read.
type ProcessCollector struct {
	minIntervalMs int
	cfg           ProcessConfig
	prevIO        map[int32]ioSample
}

type ioSample struct {
	readBytes  uint64
	writeBytes uint64
	at         time.Time
}

// NewProcessCollector creates a process collector with the given floor
// interval and field-collection policy.
func NewProcessCollector(minIntervalMs int, cfg ProcessConfig) *ProcessCollector {
	return &ProcessCollector{
		minIntervalMs: minIntervalMs,
		cfg:           cfg,
		prevIO:        make(map[int32]ioSample),
	}
}

// Category implements engine.Collector.
func (p *ProcessCollector) Category() schema.Category { return schema.CategoryProcess }

// MinIntervalMs implements engine.Collector.
func (p *ProcessCollector) MinIntervalMs() int { return p.minIntervalMs }

// Sample implements engine.Collector. Per-process failures (a process that
// exits mid-enumeration, permission errors reading another user's
// environment) are skipped rather than failing the whole sample.
func (p *ProcessCollector) Sample() (any, error) {
	procs, err := process.Processes()
	if err != nil {
		return nil, fmt.Errorf("enumerate processes: %w", err)
	}

	now := time.Now()
	out := make([]schema.ProcessInfo, 0, len(procs))
	seen := make(map[int32]struct{}, len(procs))

	for _, proc := range procs {
		info, ok := p.sampleOne(proc, now)
		if !ok {
			continue
		}
		seen[proc.Pid] = struct{}{}
		out = append(out, info)
	}

	for pid := range p.prevIO {
		if _, ok := seen[pid]; !ok {
			delete(p.prevIO, pid)
		}
	}

	return schema.ProcessList{Processes: out, TotalCount: len(out)}, nil
}

func (p *ProcessCollector) sampleOne(proc *process.Process, now time.Time) (schema.ProcessInfo, bool) {
	name, err := proc.Name()
	if err != nil {
		return schema.ProcessInfo{}, false
	}
	ppid, _ := proc.Ppid()
	username, _ := proc.Username()
	cpuPercent, _ := proc.CPUPercent()
	memPercent, _ := proc.MemoryPercent()

	var rss uint64
	if memInfo, err := proc.MemoryInfo(); err == nil && memInfo != nil {
		rss = memInfo.RSS
	}

	createTime, _ := proc.CreateTime()

	info := schema.ProcessInfo{
		PID:                proc.Pid,
		PPID:               ppid,
		Name:               name,
		Username:           username,
		CPUUsagePercent:    cpuPercent,
		MemoryUsagePercent: float64(memPercent),
		MemoryRSSBytes:     rss,
		CreatedAt:          time.UnixMilli(createTime),
	}

	if p.cfg.CollectCommandLine {
		if cmdline, err := proc.CmdlineSlice(); err == nil {
			info.CommandLine = cmdline
		}
	}

	if p.cfg.CollectEnvironment {
		if env, err := proc.Environ(); err == nil {
			pairs := make([]schema.KeyValuePair, 0, len(env))
			for _, kv := range env {
				key, value := splitEnvPair(kv)
				pairs = append(pairs, schema.KeyValuePair{Key: key, Value: value})
			}
			info.Environment = pairs
		}
	}

	if p.cfg.CollectIOStatistics {
		if io, err := proc.IOCounters(); err == nil && io != nil {
			cur := ioSample{readBytes: io.ReadBytes, writeBytes: io.WriteBytes, at: now}
			if prev, ok := p.prevIO[proc.Pid]; ok {
				elapsed := cur.at.Sub(prev.at).Seconds()
				if elapsed > 0 {
					readRate := float64(cur.readBytes-prev.readBytes) / elapsed
					writeRate := float64(cur.writeBytes-prev.writeBytes) / elapsed
					info.DiskReadBytesPerSec = &readRate
					info.DiskWriteBytesPerSec = &writeRate
				}
			}
			p.prevIO[proc.Pid] = cur
		}
	}

	return info, true
}

// splitEnvPair splits a "KEY=VALUE" environment entry on the first '='.
func splitEnvPair(kv string) (string, string) {
	for i := 0; i < len(kv); i++ {
		if kv[i] == '=' {
			return kv[:i], kv[i+1:]
		}
	}
	return kv, ""
}
