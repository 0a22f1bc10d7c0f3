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

// Package engine implements monitord's subscription/fan-out core: the
// collector registry, the versioned snapshot cache, the per-category
// sampling scheduler, the subscription registry, delivery workers, and the
// control surface that ties them together.
package engine

import (
	"errors"
	"fmt"

	"github.com/phuonguno98/monitord/pkg/schema"
)

// StatusCode mirrors the control-surface response codes of the subscription
// service surface.
type StatusCode int

const (
	StatusSuccess StatusCode = iota
	StatusInvalidType
	StatusInvalidInterval
	StatusInvalidFilter
	StatusResourceNotAvailable
	StatusInternalError
)

func (s StatusCode) String() string {
	switch s {
	case StatusSuccess:
		return "SUCCESS"
	case StatusInvalidType:
		return "INVALID_TYPE"
	case StatusInvalidInterval:
		return "INVALID_INTERVAL"
	case StatusInvalidFilter:
		return "INVALID_FILTER"
	case StatusResourceNotAvailable:
		return "RESOURCE_NOT_AVAILABLE"
	case StatusInternalError:
		return "INTERNAL_ERROR"
	default:
		return "UNKNOWN"
	}
}

// CollectError means a collector failed to produce a snapshot on a given
// tick. It is handled locally by the scheduler: logged and counted, never
// propagated to subscribers.
type CollectError struct {
	Category schema.Category
	Err      error
}

func (e *CollectError) Error() string {
	return fmt.Sprintf("collect %s: %v", e.Category, e.Err)
}

func (e *CollectError) Unwrap() error { return e.Err }

// FilterError is a malformed filter supplied at Subscribe/Modify time.
type FilterError struct {
	Reason string
}

func (e *FilterError) Error() string { return "invalid filter: " + e.Reason }

// SinkError is a per-subscriber transport failure. Transient is true for
// WouldBlock-class failures; false means the subscription must retire.
type SinkError struct {
	Transient bool
	Err       error
}

func (e *SinkError) Error() string { return fmt.Sprintf("sink error: %v", e.Err) }
func (e *SinkError) Unwrap() error { return e.Err }

// CapacityError means the subscription count would exceed max_clients.
type CapacityError struct{}

func (e *CapacityError) Error() string { return "subscription capacity exceeded" }

// InvalidRequest covers unknown category, interval 0, or a missing id for
// Modify/Unsubscribe.
type InvalidRequest struct {
	Reason string
}

func (e *InvalidRequest) Error() string { return "invalid request: " + e.Reason }

// FatalError is unrecoverable: only configuration errors at startup and
// irrecoverable executor failure use it. The daemon exits non-zero.
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string { return fmt.Sprintf("fatal: %v", e.Err) }
func (e *FatalError) Unwrap() error { return e.Err }

// ErrNotFound is returned by registry lookups for an unknown subscription id.
var ErrNotFound = errors.New("subscription not found")

// ErrClosed is returned by operations attempted on a CLOSED subscription.
var ErrClosed = errors.New("subscription closed")
