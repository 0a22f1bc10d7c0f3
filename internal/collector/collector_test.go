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
	"errors"
	"testing"
	"time"

	"github.com/phuonguno98/monitord/pkg/schema"
)

var errNotFound = errors.New("not found")

func TestMemoryCollector_Sample(t *testing.T) {
	c := NewMemoryCollector(1000)
	if c.Category() != schema.CategoryMemory {
		t.Errorf("Category() = %v, want MEMORY", c.Category())
	}

	payload, err := c.Sample()
	if err != nil {
		t.Fatalf("Sample() error = %v", err)
	}
	info := payload.(schema.MemoryInfo)
	if info.UsagePercent < 0 || info.UsagePercent > 100 {
		t.Errorf("UsagePercent = %v, want [0, 100]", info.UsagePercent)
	}
	if info.TotalBytes == 0 {
		t.Error("TotalBytes should be nonzero on any real host")
	}
}

func TestCPUCollector_Sample(t *testing.T) {
	c := NewCPUCollector(1000)

	first, err := c.Sample()
	if err != nil {
		t.Fatalf("first Sample() error = %v", err)
	}
	if first.(schema.CpuInfo).UsagePercent != 0 {
		t.Error("baseline sample should report zero usage")
	}

	time.Sleep(50 * time.Millisecond)

	second, err := c.Sample()
	if err != nil {
		t.Fatalf("second Sample() error = %v", err)
	}
	info := second.(schema.CpuInfo)
	if info.UsagePercent < 0 || info.UsagePercent > 100 {
		t.Errorf("UsagePercent = %v, want [0, 100]", info.UsagePercent)
	}
	if len(info.Cores) == 0 {
		t.Error("expected at least one core reported")
	}
}

func TestStorageCollector_Sample(t *testing.T) {
	c := NewStorageCollector(1000, nil, nil)

	if _, err := c.Sample(); err != nil {
		t.Fatalf("first Sample() error = %v", err)
	}
	time.Sleep(50 * time.Millisecond)

	payload, err := c.Sample()
	if err != nil {
		t.Fatalf("second Sample() error = %v", err)
	}
	for _, dev := range payload.(schema.StorageList).Devices {
		if dev.UtilizationPercent < 0 {
			t.Errorf("device %s utilization = %v, want >= 0", dev.Device, dev.UtilizationPercent)
		}
	}
}

func TestStorageCollector_ShouldMonitor(t *testing.T) {
	tests := []struct {
		name    string
		include []string
		exclude []string
		device  string
		want    bool
	}{
		{"default monitors all", nil, nil, "sda", true},
		{"exclude specific", nil, []string{"sda"}, "sda", false},
		{"exclude different leaves match", nil, []string{"sdb"}, "sda", true},
		{"include match", []string{"sda"}, nil, "sda", true},
		{"include no match", []string{"sda"}, nil, "sdb", false},
		{"exclude overrides include", []string{"sda"}, []string{"sda"}, "sda", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewStorageCollector(1000, tt.include, tt.exclude)
			if got := c.shouldMonitor(tt.device); got != tt.want {
				t.Errorf("shouldMonitor(%q) = %v, want %v", tt.device, got, tt.want)
			}
		})
	}
}

func TestNormalizeDeviceName(t *testing.T) {
	if got := normalizeDeviceName("/dev/sda1"); got != "sda1" {
		t.Errorf("normalizeDeviceName(/dev/sda1) = %q, want sda1", got)
	}
	if got := normalizeDeviceName("sda1"); got != "sda1" {
		t.Errorf("normalizeDeviceName(sda1) = %q, want sda1", got)
	}
}

func TestNetworkCollector_Sample(t *testing.T) {
	c := NewNetworkCollector(1000, nil, nil)

	if _, err := c.Sample(); err != nil {
		t.Fatalf("first Sample() error = %v", err)
	}
	time.Sleep(50 * time.Millisecond)

	payload, err := c.Sample()
	if err != nil {
		t.Fatalf("second Sample() error = %v", err)
	}
	for _, iface := range payload.(schema.NetworkList).Interfaces {
		if iface.Name == "lo" || iface.Name == "lo0" {
			t.Errorf("loopback interface %s should have been skipped", iface.Name)
		}
		if iface.BandwidthBitsPerSec < 0 {
			t.Errorf("interface %s bandwidth = %v, want >= 0", iface.Name, iface.BandwidthBitsPerSec)
		}
	}
}

func TestNetworkCollector_ShouldMonitor(t *testing.T) {
	tests := []struct {
		name    string
		include []string
		exclude []string
		iface   string
		want    bool
	}{
		{"default", nil, nil, "eth0", true},
		{"exclude", nil, []string{"eth0"}, "eth0", false},
		{"include match", []string{"eth0"}, nil, "eth0", true},
		{"include no match", []string{"eth0"}, nil, "eth1", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewNetworkCollector(1000, tt.include, tt.exclude)
			if got := c.shouldMonitor(tt.iface); got != tt.want {
				t.Errorf("shouldMonitor(%q) = %v, want %v", tt.iface, got, tt.want)
			}
		})
	}
}

func TestSystemCollector_Sample(t *testing.T) {
	c := NewSystemCollector(1000)
	payload, err := c.Sample()
	if err != nil {
		t.Fatalf("Sample() error = %v", err)
	}
	info := payload.(schema.SystemInfo)
	if info.Hostname == "" {
		t.Error("Hostname should not be empty")
	}
}

func TestProcessCollector_Sample(t *testing.T) {
	c := NewProcessCollector(1000, ProcessConfig{})
	payload, err := c.Sample()
	if err != nil {
		t.Fatalf("Sample() error = %v", err)
	}
	list := payload.(schema.ProcessList)
	if list.TotalCount == 0 {
		t.Error("expected at least one process (this test process itself)")
	}
	for _, p := range list.Processes {
		if p.CommandLine != nil {
			t.Error("CommandLine should be nil when CollectCommandLine is disabled")
		}
		if p.Environment != nil {
			t.Error("Environment should be nil when CollectEnvironment is disabled")
		}
	}
}

func TestGpuCollector_NoVendorToolYieldsEmptyList(t *testing.T) {
	c := NewGpuCollector(1000, false)
	c.lookPath = func(string) (string, error) { return "", errNotFound }

	payload, err := c.Sample()
	if err != nil {
		t.Fatalf("Sample() error = %v", err)
	}
	if list := payload.(schema.GpuList); len(list.GPUs) != 0 {
		t.Errorf("GPUs = %v, want empty on a host with no vendor tool", list.GPUs)
	}
}

func TestSplitEnvPair(t *testing.T) {
	key, value := splitEnvPair("PATH=/usr/bin")
	if key != "PATH" || value != "/usr/bin" {
		t.Errorf("splitEnvPair = (%q, %q), want (PATH, /usr/bin)", key, value)
	}
}
