// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package values defines the canonical value model for enumerated
// elements: numbers (int, int64, float64), strings, atoms, tuples,
// and maps. Values of these types form a closed universe with a
// total order defined by Compare, so that enumeration output is
// deterministic and can be sorted, deduplicated, and reduced
// independently of the order in which it was produced.
package values

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"math"
	"sort"
	"strings"
)

func init() {
	gob.Register(Atom{})
	gob.Register(Tuple{})
	gob.Register(Map{})
	gob.Register(Pair{})
}

// Value is any canonical value. The canonical types are int, int64,
// float64, string, Atom, Tuple, and Map. Operations in this package
// panic when handed a value outside of this universe.
type Value interface{}

// Atom is an opaque labeled token minted by an atom set. Atoms with
// the same set name and index are identical; atoms are comparable
// and may be used as Go map keys.
type Atom struct {
	// Set is the name of the atom set that minted this atom.
	Set string
	// Index is the atom's position within its set.
	Index int
}

// String returns a diagnostic representation of the atom.
func (a Atom) String() string {
	return fmt.Sprintf("%s.%d", a.Set, a.Index)
}

// Tuple is an ordered sequence of values.
type Tuple []Value

// String returns a diagnostic representation of the tuple.
func (t Tuple) String() string {
	var b strings.Builder
	b.WriteString("(")
	for i, v := range t {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprint(&b, v)
	}
	b.WriteString(")")
	return b.String()
}

// Pair is a single key-value association within a Map.
type Pair struct {
	Key, Value Value
}

// Map is an immutable association of keys to values. Its pairs are
// held sorted by key in comparator order, so two maps built from the
// same associations compare equal regardless of insertion order.
type Map struct {
	pairs []Pair
}

// NewMap returns a Map holding the given pairs in canonical order.
// NewMap panics if two pairs share a key, or on a NaN key, which the
// comparator cannot order.
func NewMap(pairs []Pair) Map {
	sorted := make([]Pair, len(pairs))
	copy(sorted, pairs)
	for _, p := range sorted {
		if f, ok := p.Key.(float64); ok && math.IsNaN(f) {
			panic("values.NewMap: NaN key")
		}
	}
	sortPairs(sorted)
	for i := 1; i < len(sorted); i++ {
		if Compare(sorted[i-1].Key, sorted[i].Key) == 0 {
			panic(fmt.Sprintf("values.NewMap: duplicate key %v", sorted[i].Key))
		}
	}
	return Map{pairs: sorted}
}

// newMapCanonical sorts pairs in place by (key, value) and returns a
// Map over them. Unlike NewMap, duplicate keys are permitted; this is
// used when substitution may collapse distinct keys.
func newMapCanonical(pairs []Pair) Map {
	sortPairs(pairs)
	return Map{pairs: pairs}
}

func sortPairs(pairs []Pair) {
	sort.SliceStable(pairs, func(i, j int) bool {
		if c := Compare(pairs[i].Key, pairs[j].Key); c != 0 {
			return c < 0
		}
		return Compare(pairs[i].Value, pairs[j].Value) < 0
	})
}

// Len returns the number of pairs in the map.
func (m Map) Len() int { return len(m.pairs) }

// Pair returns the i'th pair in canonical order.
func (m Map) Pair(i int) Pair { return m.pairs[i] }

// Get returns the value bound to the given key and whether the key
// is present.
func (m Map) Get(key Value) (Value, bool) {
	i := sort.Search(len(m.pairs), func(i int) bool {
		return Compare(m.pairs[i].Key, key) >= 0
	})
	if i < len(m.pairs) && Compare(m.pairs[i].Key, key) == 0 {
		return m.pairs[i].Value, true
	}
	return nil, false
}

// String returns a diagnostic representation of the map.
func (m Map) String() string {
	var b strings.Builder
	b.WriteString("{")
	for i, p := range m.pairs {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%v: %v", p.Key, p.Value)
	}
	b.WriteString("}")
	return b.String()
}

// GobEncode implements gob encoding for maps. The canonical pair
// order is preserved across the wire.
func (m Map) GobEncode() ([]byte, error) {
	var b bytes.Buffer
	if err := gob.NewEncoder(&b).Encode(m.pairs); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// GobDecode implements gob decoding for maps.
func (m *Map) GobDecode(p []byte) error {
	return gob.NewDecoder(bytes.NewReader(p)).Decode(&m.pairs)
}

// Bindings is a candidate substitution from atoms to values, as
// consulted by Compare2.
type Bindings map[Atom]Value
