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
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/phuonguno98/monitord/pkg/schema"
)

// State is a subscription's lifecycle state.
type State int

const (
	StateActive State = iota
	StateDraining
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "ACTIVE"
	case StateDraining:
		return "DRAINING"
	case StateClosed:
		return "CLOSED"
	default:
		return "UNKNOWN"
	}
}

// Subscription is one subscriber's runtime record. mu guards the mutable
// config fields (interval/filter/state); cursor and dropped-count are
// atomic so the delivery worker can update them without taking mu.
type Subscription struct {
	ID        string
	Category  schema.Category
	CreatedAt time.Time
	Sink      Sink

	mu         sync.RWMutex
	intervalMs int
	filter     Filter
	state      State

	cursor       atomic.Uint64
	droppedCount atomic.Int64

	cancel func()
}

// Descriptor is a read-only snapshot of a subscription's public fields,
// returned by ListSubscriptions.
type Descriptor struct {
	ID           string
	Category     schema.Category
	IntervalMs   int
	State        State
	CreatedAt    time.Time
	Cursor       uint64
	DroppedCount int64
}

func (s *Subscription) descriptor() Descriptor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Descriptor{
		ID:           s.ID,
		Category:     s.Category,
		IntervalMs:   s.intervalMs,
		State:        s.state,
		CreatedAt:    s.CreatedAt,
		Cursor:       s.cursor.Load(),
		DroppedCount: s.droppedCount.Load(),
	}
}

// IntervalMs returns the subscription's currently configured interval.
func (s *Subscription) IntervalMs() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.intervalMs
}

// FilterValue returns the subscription's currently configured filter.
func (s *Subscription) FilterValue() Filter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter
}

// State returns the subscription's current lifecycle state.
func (s *Subscription) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Cursor returns the last version offered to the subscription's worker; it
// is advanced before the send, so it also covers dropped or filtered-out
// snapshots.
func (s *Subscription) Cursor() uint64 { return s.cursor.Load() }

// AdvanceCursor sets the cursor forward. Called by the delivery worker
// before attempting a send so missed snapshots are never re-attempted.
func (s *Subscription) AdvanceCursor(v uint64) { s.cursor.Store(v) }

// IncrementDropped records a WouldBlock tick.
func (s *Subscription) IncrementDropped() { s.droppedCount.Add(1) }

// SubscriptionRegistry is the thread-safe id->Subscription map. It is the
// exclusive owner of subscription records; a CLOSED subscription is absent
// from it.
type SubscriptionRegistry struct {
	mu            sync.RWMutex
	byID          map[string]*Subscription
	onMutate      func(schema.Category)
	maxClients    int
}

// NewSubscriptionRegistry builds an empty registry. onMutate is invoked
// (outside the lock) after every insert/modify/mark_draining/remove so the
// relevant category's scheduler can recompute its effective interval.
func NewSubscriptionRegistry(maxClients int, onMutate func(schema.Category)) *SubscriptionRegistry {
	return &SubscriptionRegistry{
		byID:       make(map[string]*Subscription),
		onMutate:   onMutate,
		maxClients: maxClients,
	}
}

// Insert assigns a fresh uuid, inserts an ACTIVE record, and returns its id.
// Returns CapacityError if the registry is already at max_clients.
func (r *SubscriptionRegistry) Insert(cat schema.Category, intervalMs int, filter Filter, sink Sink, cancel func()) (*Subscription, error) {
	r.mu.Lock()
	if len(r.byID) >= r.maxClients {
		r.mu.Unlock()
		return nil, &CapacityError{}
	}
	sub := &Subscription{
		ID:         uuid.NewString(),
		Category:   cat,
		CreatedAt:  time.Now(),
		Sink:       sink,
		intervalMs: intervalMs,
		filter:     filter,
		state:      StateActive,
		cancel:     cancel,
	}
	r.byID[sub.ID] = sub
	r.mu.Unlock()

	r.notify(cat)
	return sub, nil
}

// Modify updates a subscription's interval and filter in place. Rejects if
// the subscription is absent or CLOSED. Category is preserved.
func (r *SubscriptionRegistry) Modify(id string, intervalMs int, filter Filter) error {
	r.mu.RLock()
	sub, ok := r.byID[id]
	r.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}

	sub.mu.Lock()
	if sub.state == StateClosed {
		sub.mu.Unlock()
		return ErrClosed
	}
	sub.intervalMs = intervalMs
	sub.filter = filter
	sub.mu.Unlock()

	r.notify(sub.Category)
	return nil
}

// MarkDraining transitions a subscription to DRAINING. Idempotent; used by
// Unsubscribe and by delivery workers on terminal sink errors.
func (r *SubscriptionRegistry) MarkDraining(id string) error {
	r.mu.RLock()
	sub, ok := r.byID[id]
	r.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}

	sub.mu.Lock()
	already := sub.state != StateActive
	if !already {
		sub.state = StateDraining
	}
	sub.mu.Unlock()

	if !already && sub.cancel != nil {
		sub.cancel()
	}
	r.notify(sub.Category)
	return nil
}

// Remove deletes a DRAINING or ACTIVE record; this is the destruction point
// for a subscription, called once its delivery worker has exited.
func (r *SubscriptionRegistry) Remove(id string) {
	r.mu.Lock()
	sub, ok := r.byID[id]
	if ok {
		delete(r.byID, id)
	}
	r.mu.Unlock()
	if ok {
		r.notify(sub.Category)
	}
}

// Get returns a subscription by id.
func (r *SubscriptionRegistry) Get(id string) (*Subscription, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sub, ok := r.byID[id]
	return sub, ok
}

// List returns a snapshot copy of current ACTIVE descriptors.
func (r *SubscriptionRegistry) List() []Descriptor {
	r.mu.RLock()
	subs := make([]*Subscription, 0, len(r.byID))
	for _, sub := range r.byID {
		subs = append(subs, sub)
	}
	r.mu.RUnlock()

	out := make([]Descriptor, 0, len(subs))
	for _, sub := range subs {
		d := sub.descriptor()
		if d.State == StateActive {
			out = append(out, d)
		}
	}
	return out
}

// MinIntervalForCategory returns the minimum interval_ms across ACTIVE
// subscriptions for a category, and whether any exist.
func (r *SubscriptionRegistry) MinIntervalForCategory(cat schema.Category) (int, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	min := 0
	found := false
	for _, sub := range r.byID {
		if sub.Category != cat {
			continue
		}
		sub.mu.RLock()
		active := sub.state == StateActive
		interval := sub.intervalMs
		sub.mu.RUnlock()
		if !active {
			continue
		}
		if !found || interval < min {
			min = interval
			found = true
		}
	}
	return min, found
}

// Count returns the total number of subscriptions tracked, ACTIVE or
// DRAINING (DRAINING still occupies a capacity slot until Remove).
func (r *SubscriptionRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

func (r *SubscriptionRegistry) notify(cat schema.Category) {
	if r.onMutate != nil {
		r.onMutate(cat)
	}
}
