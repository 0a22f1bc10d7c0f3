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

package transport

import (
	"encoding/json"
	"fmt"

	"github.com/phuonguno98/monitord/internal/engine"
	"github.com/phuonguno98/monitord/pkg/schema"
)

// wireProcessFilter is the JSON shape of a ProcessFilter in a Subscribe or
// Modify request.
type wireProcessFilter struct {
	PIDs           []int32  `json:"pids"`
	NameSubstrings []string `json:"name_substrings"`
	Usernames      []string `json:"usernames"`
	TopBy          string   `json:"top_by"`
	TopN           int      `json:"top_n"`
}

type wireGpuFilter struct {
	Names            []string `json:"names"`
	Vendors          []string `json:"vendors"`
	IncludeProcesses bool     `json:"include_processes"`
}

type wireNetworkFilter struct {
	InterfaceNames []string `json:"interface_names"`
}

type wireStorageFilter struct {
	Devices     []string `json:"devices"`
	MountPoints []string `json:"mount_points"`
}

// decodeFilter parses the JSON-encoded filter for cat. An empty payload
// means no filter is attached, which is always valid. A payload naming
// fields for the wrong category is a caller error and returns an error so
// the handler can report INVALID_FILTER.
func decodeFilter(cat schema.Category, raw []byte) (engine.Filter, error) {
	f := engine.Filter{Category: cat}
	if len(raw) == 0 {
		return f, nil
	}

	switch cat {
	case schema.CategoryProcess:
		var w wireProcessFilter
		if err := json.Unmarshal(raw, &w); err != nil {
			return f, fmt.Errorf("decode process filter: %w", err)
		}
		topBy, err := parseTopBy(w.TopBy)
		if err != nil {
			return f, err
		}
		f.Process = &engine.ProcessFilter{
			PIDs:           toInt32Set(w.PIDs),
			NameSubstrings: w.NameSubstrings,
			Usernames:      toStringSet(w.Usernames),
			TopBy:          topBy,
			TopN:           w.TopN,
		}
	case schema.CategoryGPU:
		var w wireGpuFilter
		if err := json.Unmarshal(raw, &w); err != nil {
			return f, fmt.Errorf("decode gpu filter: %w", err)
		}
		f.Gpu = &engine.GpuFilter{
			Names:            toStringSet(w.Names),
			Vendors:          toStringSet(w.Vendors),
			IncludeProcesses: w.IncludeProcesses,
		}
	case schema.CategoryNetwork:
		var w wireNetworkFilter
		if err := json.Unmarshal(raw, &w); err != nil {
			return f, fmt.Errorf("decode network filter: %w", err)
		}
		f.Network = &engine.NetworkFilter{InterfaceNames: toStringSet(w.InterfaceNames)}
	case schema.CategoryStorage:
		var w wireStorageFilter
		if err := json.Unmarshal(raw, &w); err != nil {
			return f, fmt.Errorf("decode storage filter: %w", err)
		}
		f.Storage = &engine.StorageFilter{
			Devices:     toStringSet(w.Devices),
			MountPoints: toStringSet(w.MountPoints),
		}
	default:
		return f, fmt.Errorf("category %s does not accept a filter", cat)
	}
	return f, nil
}

func parseTopBy(name string) (engine.TopBy, error) {
	switch name {
	case "", "none":
		return engine.TopByNone, nil
	case "cpu":
		return engine.TopByCPU, nil
	case "memory":
		return engine.TopByMemory, nil
	case "disk":
		return engine.TopByDisk, nil
	default:
		return engine.TopByNone, fmt.Errorf("unknown top_by: %q", name)
	}
}

func toStringSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func toInt32Set(values []int32) map[int32]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[int32]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
