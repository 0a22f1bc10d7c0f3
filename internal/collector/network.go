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

	"github.com/phuonguno98/monitord/pkg/metrics"
	"github.com/phuonguno98/monitord/pkg/schema"
	"github.com/shirou/gopsutil/v3/net"
)

// NetworkCollector samples per-interface throughput counters and derives
// bandwidth via delta calculation, skipping loopback interfaces.
type NetworkCollector struct {
	minIntervalMs     int
	prevStats         map[string]metrics.NetworkIOStats
	includeInterfaces []string
	excludeInterfaces []string
	firstRun          bool
}

// NewNetworkCollector creates a network collector with the given floor interval.
func NewNetworkCollector(minIntervalMs int, includeInterfaces, excludeInterfaces []string) *NetworkCollector {
	return &NetworkCollector{
		minIntervalMs:     minIntervalMs,
		prevStats:         make(map[string]metrics.NetworkIOStats),
		includeInterfaces: includeInterfaces,
		excludeInterfaces: excludeInterfaces,
		firstRun:          true,
	}
}

// Category implements engine.Collector.
func (n *NetworkCollector) Category() schema.Category { return schema.CategoryNetwork }

// MinIntervalMs implements engine.Collector.
func (n *NetworkCollector) MinIntervalMs() int { return n.minIntervalMs }

// Sample implements engine.Collector.
func (n *NetworkCollector) Sample() (any, error) {
	ioCounters, err := net.IOCounters(true)
	if err != nil {
		return nil, fmt.Errorf("get network io counters: %w", err)
	}
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, fmt.Errorf("get network interfaces: %w", err)
	}
	ifaceByName := make(map[string]net.InterfaceStat, len(ifaces))
	for _, iface := range ifaces {
		ifaceByName[iface.Name] = iface
	}

	now := time.Now()
	interfaces := make([]schema.NetworkInfo, 0, len(ioCounters))

	for _, counter := range ioCounters {
		name := counter.Name
		if n.isLoopback(name) || !n.shouldMonitor(name) {
			continue
		}

		currentStats := metrics.NetworkIOStats{
			BytesSent: counter.BytesSent,
			BytesRecv: counter.BytesRecv,
			Timestamp: now,
		}

		info := schema.NetworkInfo{
			Name:             name,
			BytesSent:        counter.BytesSent,
			BytesReceived:    counter.BytesRecv,
			PacketsSent:      counter.PacketsSent,
			PacketsReceived:  counter.PacketsRecv,
			ErrorsIn:         counter.Errin,
			ErrorsOut:        counter.Errout,
			DropsIn:          counter.Dropin,
			DropsOut:         counter.Dropout,
		}

		if iface, ok := ifaceByName[name]; ok {
			addrs := make([]string, len(iface.Addrs))
			for i, a := range iface.Addrs {
				addrs[i] = a.Addr
			}
			info.Addresses = addrs
			info.IsUp = hasFlag(iface.Flags, "up")
		}

		prevStats, exists := n.prevStats[name]
		n.prevStats[name] = currentStats
		if !n.firstRun && exists {
			info.BandwidthBitsPerSec = metrics.CalculateNetworkBandwidth(prevStats, currentStats)
		}

		interfaces = append(interfaces, info)
	}

	if n.firstRun {
		n.firstRun = false
	}

	return schema.NetworkList{Interfaces: interfaces}, nil
}

func hasFlag(flags []string, want string) bool {
	for _, f := range flags {
		if f == want {
			return true
		}
	}
	return false
}

// isLoopback skips interfaces never meaningful for bandwidth monitoring.
func (n *NetworkCollector) isLoopback(interfaceName string) bool {
	for _, lo := range []string{"lo", "lo0", "Loopback"} {
		if interfaceName == lo {
			return true
		}
	}
	return false
}

// shouldMonitor checks include/exclude interface filters; exclude wins, and
// an empty include list means "monitor everything not excluded".
func (n *NetworkCollector) shouldMonitor(interfaceName string) bool {
	for _, excluded := range n.excludeInterfaces {
		if excluded == interfaceName {
			return false
		}
	}
	if len(n.includeInterfaces) == 0 {
		return true
	}
	for _, included := range n.includeInterfaces {
		if included == interfaceName {
			return true
		}
	}
	return false
}
