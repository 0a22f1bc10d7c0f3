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

package engine

import (
	"sort"
	"strings"

	"github.com/phuonguno98/monitord/pkg/schema"
)

// TopBy selects which process metric a ProcessFilter's top-N ranks by.
type TopBy int

const (
	TopByNone TopBy = iota
	TopByCPU
	TopByMemory
	TopByDisk
)

// ProcessFilter narrows and ranks a ProcessList payload. Positive sets
// (PIDs, name substrings, usernames) are unioned; empty sets mean "do not
// filter on that attribute". Top-N is applied after set filtering.
type ProcessFilter struct {
	PIDs             map[int32]struct{}
	NameSubstrings   []string
	Usernames        map[string]struct{}
	TopBy            TopBy
	TopN             int
}

// GpuFilter narrows a GpuList payload.
type GpuFilter struct {
	Names            map[string]struct{}
	Vendors          map[string]struct{}
	IncludeProcesses bool
}

// NetworkFilter narrows a NetworkList payload.
type NetworkFilter struct {
	InterfaceNames map[string]struct{}
}

// StorageFilter narrows a StorageList payload.
type StorageFilter struct {
	Devices     map[string]struct{}
	MountPoints map[string]struct{}
}

// Filter is the category-tagged union attached to a subscription. Exactly
// one of the typed fields is meaningful, matching Category.
type Filter struct {
	Category schema.Category
	Process  *ProcessFilter
	Gpu      *GpuFilter
	Network  *NetworkFilter
	Storage  *StorageFilter
}

// Validate rejects a filter attached to the wrong category.
func (f Filter) Validate() error {
	switch f.Category {
	case schema.CategoryProcess:
		if f.Gpu != nil || f.Network != nil || f.Storage != nil {
			return &FilterError{Reason: "process filter carries a non-process payload"}
		}
	case schema.CategoryGPU:
		if f.Process != nil || f.Network != nil || f.Storage != nil {
			return &FilterError{Reason: "gpu filter carries a non-gpu payload"}
		}
	case schema.CategoryNetwork:
		if f.Process != nil || f.Gpu != nil || f.Storage != nil {
			return &FilterError{Reason: "network filter carries a non-network payload"}
		}
	case schema.CategoryStorage:
		if f.Process != nil || f.Gpu != nil || f.Network != nil {
			return &FilterError{Reason: "storage filter carries a non-storage payload"}
		}
	default:
		if f.Process != nil || f.Gpu != nil || f.Network != nil || f.Storage != nil {
			return &FilterError{Reason: "category does not accept a filter"}
		}
	}
	return nil
}

// Apply filters a snapshot payload in place of the daemon's delivery-worker
// loop. ok is false when the filter elides the payload entirely (e.g. a
// name filter matching no process), in which case the send must be skipped.
func Apply(filter Filter, payload any) (any, bool) {
	switch v := payload.(type) {
	case schema.ProcessList:
		return applyProcessFilter(filter.Process, v)
	case schema.GpuList:
		return applyGpuFilter(filter.Gpu, v)
	case schema.NetworkList:
		return applyNetworkFilter(filter.Network, v)
	case schema.StorageList:
		return applyStorageFilter(filter.Storage, v)
	default:
		return payload, true
	}
}

func applyProcessFilter(f *ProcessFilter, list schema.ProcessList) (any, bool) {
	if f == nil {
		return list, true
	}
	filtered := make([]schema.ProcessInfo, 0, len(list.Processes))
	for _, p := range list.Processes {
		if matchesProcess(f, p) {
			filtered = append(filtered, p)
		}
	}
	filtered = applyTopN(f, filtered)
	if len(filtered) == 0 {
		return schema.ProcessList{}, false
	}
	list.Processes = filtered
	return list, true
}

func matchesProcess(f *ProcessFilter, p schema.ProcessInfo) bool {
	if len(f.PIDs) > 0 {
		if _, ok := f.PIDs[p.PID]; ok {
			return true
		}
	}
	if len(f.Usernames) > 0 {
		if _, ok := f.Usernames[p.Username]; ok {
			return true
		}
	}
	if len(f.NameSubstrings) > 0 {
		for _, sub := range f.NameSubstrings {
			if strings.Contains(p.Name, sub) {
				return true
			}
		}
	}
	// No positive sets configured: nothing to filter on, so everything matches.
	return len(f.PIDs) == 0 && len(f.Usernames) == 0 && len(f.NameSubstrings) == 0
}

func applyTopN(f *ProcessFilter, procs []schema.ProcessInfo) []schema.ProcessInfo {
	if f.TopBy == TopByNone || f.TopN <= 0 {
		return procs
	}
	sorted := make([]schema.ProcessInfo, len(procs))
	copy(sorted, procs)
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		var av, bv float64
		switch f.TopBy {
		case TopByCPU:
			av, bv = a.CPUUsagePercent, b.CPUUsagePercent
		case TopByMemory:
			av, bv = a.MemoryUsagePercent, b.MemoryUsagePercent
		case TopByDisk:
			av, bv = diskRate(a), diskRate(b)
		}
		if av != bv {
			return av > bv
		}
		return a.PID < b.PID
	})
	if len(sorted) > f.TopN {
		sorted = sorted[:f.TopN]
	}
	return sorted
}

func diskRate(p schema.ProcessInfo) float64 {
	var total float64
	if p.DiskReadBytesPerSec != nil {
		total += *p.DiskReadBytesPerSec
	}
	if p.DiskWriteBytesPerSec != nil {
		total += *p.DiskWriteBytesPerSec
	}
	return total
}

func applyGpuFilter(f *GpuFilter, list schema.GpuList) (any, bool) {
	if f == nil {
		return list, true
	}
	filtered := make([]schema.GpuInfo, 0, len(list.GPUs))
	for _, g := range list.GPUs {
		if len(f.Names) > 0 {
			if _, ok := f.Names[g.Name]; !ok {
				continue
			}
		}
		if len(f.Vendors) > 0 {
			if _, ok := f.Vendors[g.Vendor]; !ok {
				continue
			}
		}
		if !f.IncludeProcesses {
			g.Processes = nil
		}
		filtered = append(filtered, g)
	}
	if len(filtered) == 0 {
		return schema.GpuList{}, false
	}
	list.GPUs = filtered
	return list, true
}

func applyNetworkFilter(f *NetworkFilter, list schema.NetworkList) (any, bool) {
	if f == nil || len(f.InterfaceNames) == 0 {
		return list, true
	}
	filtered := make([]schema.NetworkInfo, 0, len(list.Interfaces))
	for _, iface := range list.Interfaces {
		if _, ok := f.InterfaceNames[iface.Name]; ok {
			filtered = append(filtered, iface)
		}
	}
	if len(filtered) == 0 {
		return schema.NetworkList{}, false
	}
	list.Interfaces = filtered
	return list, true
}

func applyStorageFilter(f *StorageFilter, list schema.StorageList) (any, bool) {
	if f == nil || (len(f.Devices) == 0 && len(f.MountPoints) == 0) {
		return list, true
	}
	filtered := make([]schema.StorageInfo, 0, len(list.Devices))
	for _, d := range list.Devices {
		_, devOK := f.Devices[d.Device]
		_, mountOK := f.MountPoints[d.MountPoint]
		if devOK || mountOK {
			filtered = append(filtered, d)
		}
	}
	if len(filtered) == 0 {
		return schema.StorageList{}, false
	}
	list.Devices = filtered
	return list, true
}
