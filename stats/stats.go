// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package stats provides collections of named counters, used to
// account for enumeration progress. Counters are safe for concurrent
// update, and a collection can be snapshotted at any time for
// progress reporting.
package stats

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
)

// A Map is a collection of counters keyed by name.
type Map struct {
	mu       sync.Mutex
	counters map[string]*Int
}

// NewMap returns a fresh, empty Map.
func NewMap() *Map {
	return &Map{counters: make(map[string]*Int)}
}

// Int returns the counter with the provided name, creating it if it
// does not already exist. Callers that update a counter frequently
// should retrieve it once and retain it.
func (m *Map) Int(name string) *Int {
	m.mu.Lock()
	c := m.counters[name]
	if c == nil {
		c = new(Int)
		m.counters[name] = c
	}
	m.mu.Unlock()
	return c
}

// AddAll adds the current value of each counter in the map to the
// provided snapshot.
func (m *Map) AddAll(vals Values) {
	m.mu.Lock()
	for name, c := range m.counters {
		vals[name] += c.Get()
	}
	m.mu.Unlock()
}

// Values returns a snapshot of the current values of the counters in
// the map.
func (m *Map) Values() Values {
	vals := make(Values)
	m.AddAll(vals)
	return vals
}

// An Int is an integer counter that can be atomically incremented,
// set, and read. Methods on a nil Int are no-ops, so counters are
// safe to update even when accounting is disabled.
type Int struct {
	val int64
}

// Add increments the counter by delta.
func (c *Int) Add(delta int64) {
	if c == nil {
		return
	}
	atomic.AddInt64(&c.val, delta)
}

// Set sets the counter to val.
func (c *Int) Set(val int64) {
	if c == nil {
		return
	}
	atomic.StoreInt64(&c.val, val)
}

// Get returns the counter's current value.
func (c *Int) Get() int64 {
	if c == nil {
		return 0
	}
	return atomic.LoadInt64(&c.val)
}

// Values is a point-in-time snapshot of a counter collection.
type Values map[string]int64

// Copy returns a copy of the snapshot v.
func (v Values) Copy() Values {
	w := make(Values, len(v))
	for name, val := range v {
		w[name] = val
	}
	return w
}

// String renders the snapshot compactly, sorted by counter name.
func (v Values) String() string {
	keys := make([]string, 0, len(v))
	for key := range v {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for i, key := range keys {
		keys[i] = fmt.Sprintf("%s:%d", key, v[key])
	}
	return strings.Join(keys, " ")
}
