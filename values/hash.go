// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package values

import (
	"fmt"
	"math"

	"github.com/spaolacci/murmur3"
)

// Class seeds keep equal-looking values of different classes from
// colliding trivially (e.g. the string "a.0" and the atom a.0).
const (
	seedNumber uint32 = 0x9e3779b9
	seedString uint32 = 0x85ebca6b
	seedAtom   uint32 = 0xc2b2ae35
	seedTuple  uint32 = 0x27d4eb2f
	seedMap    uint32 = 0x165667b1
)

// Hash returns a 32-bit hash of v with the given seed. Values that
// are equal under Compare hash equally: integers and integral floats
// hash through their int64 value.
func Hash(v Value, seed uint32) uint32 {
	switch v := v.(type) {
	case int:
		return hash64(uint64(v), seed^seedNumber)
	case int64:
		return hash64(uint64(v), seed^seedNumber)
	case float64:
		if isIntegral(v) {
			return hash64(uint64(int64(v)), seed^seedNumber)
		}
		return hash64(math.Float64bits(v), seed^seedNumber)
	case string:
		return murmur3.Sum32WithSeed([]byte(v), seed^seedString)
	case Atom:
		h := murmur3.Sum32WithSeed([]byte(v.Set), seed^seedAtom)
		return hash64(uint64(v.Index), h)
	case Tuple:
		h := hash64(uint64(len(v)), seed^seedTuple)
		for _, e := range v {
			h = Hash(e, h)
		}
		return h
	case Map:
		h := hash64(uint64(len(v.pairs)), seed^seedMap)
		for _, p := range v.pairs {
			h = Hash(p.Key, h)
			h = Hash(p.Value, h)
		}
		return h
	}
	panic(fmt.Sprintf("values: unsupported type %T", v))
}

func isIntegral(f float64) bool {
	return f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64
}

// hash64 hashes a 64-bit integer with murmur3.
func hash64(x uint64, seed uint32) uint32 {
	var b [8]byte
	b[0] = byte(x)
	b[1] = byte(x >> 8)
	b[2] = byte(x >> 16)
	b[3] = byte(x >> 24)
	b[4] = byte(x >> 32)
	b[5] = byte(x >> 40)
	b[6] = byte(x >> 48)
	b[7] = byte(x >> 56)
	return murmur3.Sum32WithSeed(b[:], seed)
}

// Set is a hashed set of canonical values. Membership is decided by
// Compare, with Hash used only for bucketing. The zero Set is ready
// to use.
type Set struct {
	buckets map[uint32][]Value
	len     int
}

// Add inserts v, reporting whether it was not already present.
func (s *Set) Add(v Value) bool {
	if s.buckets == nil {
		s.buckets = make(map[uint32][]Value)
	}
	h := Hash(v, 0)
	for _, w := range s.buckets[h] {
		if Compare(v, w) == 0 {
			return false
		}
	}
	s.buckets[h] = append(s.buckets[h], v)
	s.len++
	return true
}

// Contains reports whether v is in the set.
func (s *Set) Contains(v Value) bool {
	if s.buckets == nil {
		return false
	}
	for _, w := range s.buckets[Hash(v, 0)] {
		if Compare(v, w) == 0 {
			return true
		}
	}
	return false
}

// Len returns the number of values in the set.
func (s *Set) Len() int { return s.len }

// Dedup returns vs with duplicates (under Compare) removed, keeping
// the first occurrence of each value in order.
func Dedup(vs []Value) []Value {
	var (
		set Set
		out []Value
	)
	for _, v := range vs {
		if set.Add(v) {
			out = append(out, v)
		}
	}
	return out
}
