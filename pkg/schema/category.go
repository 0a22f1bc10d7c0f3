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

// Package schema defines the wire-identity message shapes monitord streams
// to subscribers: one Go struct per category payload, plus the Category
// enum and the envelope (Snapshot) that carries a payload with its version.
package schema

import "fmt"

// Category is a closed enum of collectable telemetry domains.
type Category int

const (
	// CategoryUnknown is the zero value and never a valid subscription target.
	CategoryUnknown Category = iota
	CategorySystem
	CategoryCPU
	CategoryMemory
	CategoryGPU
	CategoryNetwork
	CategoryStorage
	CategoryProcess
)

// AllCategories lists every concrete category ALL expands to, in a fixed
// order so expansion is deterministic.
func AllCategories() []Category {
	return []Category{
		CategorySystem,
		CategoryCPU,
		CategoryMemory,
		CategoryGPU,
		CategoryNetwork,
		CategoryStorage,
		CategoryProcess,
	}
}

// String implements fmt.Stringer.
func (c Category) String() string {
	switch c {
	case CategorySystem:
		return "SYSTEM"
	case CategoryCPU:
		return "CPU"
	case CategoryMemory:
		return "MEMORY"
	case CategoryGPU:
		return "GPU"
	case CategoryNetwork:
		return "NETWORK"
	case CategoryStorage:
		return "STORAGE"
	case CategoryProcess:
		return "PROCESS"
	default:
		return "UNKNOWN"
	}
}

// ParseCategory parses a category name. "ALL" is accepted by callers that
// handle expansion themselves; ParseCategory rejects it here because it
// is not a single concrete category.
func ParseCategory(name string) (Category, error) {
	switch name {
	case "SYSTEM":
		return CategorySystem, nil
	case "CPU":
		return CategoryCPU, nil
	case "MEMORY":
		return CategoryMemory, nil
	case "GPU":
		return CategoryGPU, nil
	case "NETWORK":
		return CategoryNetwork, nil
	case "STORAGE":
		return CategoryStorage, nil
	case "PROCESS":
		return CategoryProcess, nil
	default:
		return CategoryUnknown, fmt.Errorf("unknown category: %q", name)
	}
}
