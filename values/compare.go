// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package values

import (
	"fmt"
	"math"
	"strings"
)

// Ranks of the canonical type classes. Cross-class comparisons
// resolve by rank alone: numbers < strings < atoms < tuples < maps.
const (
	rankNumber = iota
	rankString
	rankAtom
	rankTuple
	rankMap
)

func rank(v Value) int {
	switch v.(type) {
	case int, int64, float64:
		return rankNumber
	case string:
		return rankString
	case Atom:
		return rankAtom
	case Tuple:
		return rankTuple
	case Map:
		return rankMap
	}
	panic(fmt.Sprintf("values: unsupported type %T", v))
}

// Compare defines a total order over canonical values, returning -1,
// 0, or 1 as a sorts before, equal to, or after b. Values of
// different classes order by class rank: numbers sort before
// strings, strings before atoms, atoms before tuples, and tuples
// before maps. Within a class:
//
//	numbers	numerically; int and int64 compare exactly, and any
//		comparison involving a float64 is performed in float64
//	strings	bytewise
//	atoms	by set name, then index
//	tuples	lexicographically elementwise; a strict prefix sorts
//		before its extension
//	maps	lexicographically over their canonical (key, value)
//		pair sequences
//
// Compare panics on values outside the canonical universe and on
// NaN, neither of which have a place in the order.
func Compare(a, b Value) int {
	ra, rb := rank(a), rank(b)
	if ra != rb {
		return cmpInt(int64(ra), int64(rb))
	}
	switch ra {
	case rankNumber:
		return compareNumber(a, b)
	case rankString:
		return strings.Compare(a.(string), b.(string))
	case rankAtom:
		aa, ba := a.(Atom), b.(Atom)
		if c := strings.Compare(aa.Set, ba.Set); c != 0 {
			return c
		}
		return cmpInt(int64(aa.Index), int64(ba.Index))
	case rankTuple:
		return compareTuple(a.(Tuple), b.(Tuple))
	default: // rankMap
		return compareMap(a.(Map), b.(Map))
	}
}

// Equal reports whether a and b are equal under Compare.
func Equal(a, b Value) bool {
	return Compare(a, b) == 0
}

func compareNumber(a, b Value) int {
	_, afloat := a.(float64)
	_, bfloat := b.(float64)
	if afloat || bfloat {
		x, y := asFloat(a), asFloat(b)
		if math.IsNaN(x) || math.IsNaN(y) {
			panic("values: cannot compare NaN")
		}
		if x < y {
			return -1
		} else if x > y {
			return 1
		}
		return 0
	}
	return cmpInt(asInt(a), asInt(b))
}

func compareTuple(a, b Tuple) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if c := Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	return cmpInt(int64(len(a)), int64(len(b)))
}

func compareMap(a, b Map) int {
	n := len(a.pairs)
	if len(b.pairs) < n {
		n = len(b.pairs)
	}
	for i := 0; i < n; i++ {
		pa, pb := a.pairs[i], b.pairs[i]
		if c := Compare(pa.Key, pb.Key); c != 0 {
			return c
		}
		if c := Compare(pa.Value, pb.Value); c != 0 {
			return c
		}
	}
	return cmpInt(int64(len(a.pairs)), int64(len(b.pairs)))
}

func cmpInt(x, y int64) int {
	if x < y {
		return -1
	} else if x > y {
		return 1
	}
	return 0
}

func asInt(v Value) int64 {
	switch v := v.(type) {
	case int:
		return int64(v)
	case int64:
		return v
	}
	panic(fmt.Sprintf("values: not an integer: %T", v))
}

func asFloat(v Value) float64 {
	switch v := v.(type) {
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case float64:
		return v
	}
	panic(fmt.Sprintf("values: not a number: %T", v))
}

// Compare2 compares a and b after substituting atoms through each
// operand's own bindings: atoms in a are looked up in ba, atoms in b
// in bb. A bound atom is replaced by its binding in a single step;
// bindings are not chased further, and atoms absent from their
// bindings compare literally. Maps are re-canonicalized after
// substitution. Compare2 with empty bindings is Compare.
//
// The two binding maps are independent. It is legal for them to bind
// the same atom differently; each side sees only its own.
func Compare2(a Value, ba Bindings, b Value, bb Bindings) int {
	return Compare(substitute(a, ba), substitute(b, bb))
}

func substitute(v Value, b Bindings) Value {
	if len(b) == 0 {
		return v
	}
	switch v := v.(type) {
	case Atom:
		if bound, ok := b[v]; ok {
			return bound
		}
		return v
	case Tuple:
		out := make(Tuple, len(v))
		for i, e := range v {
			out[i] = substitute(e, b)
		}
		return out
	case Map:
		pairs := make([]Pair, len(v.pairs))
		for i, p := range v.pairs {
			pairs[i] = Pair{substitute(p.Key, b), substitute(p.Value, b)}
		}
		return newMapCanonical(pairs)
	default:
		return v
	}
}

// Canonical reports whether v lies in the canonical value universe:
// numbers, strings, atoms, and tuples and maps thereof. NaN is not
// canonical, having no place in the total order.
func Canonical(v Value) bool {
	switch v := v.(type) {
	case int, int64, string, Atom:
		return true
	case float64:
		return !math.IsNaN(v)
	case Tuple:
		for _, e := range v {
			if !Canonical(e) {
				return false
			}
		}
		return true
	case Map:
		for _, p := range v.pairs {
			if !Canonical(p.Key) || !Canonical(p.Value) {
				return false
			}
		}
		return true
	}
	return false
}

// CollectAtoms returns the set of distinct atoms reachable anywhere
// within v, including map keys and values. Numbers and strings
// contribute nothing.
func CollectAtoms(v Value) map[Atom]bool {
	atoms := make(map[Atom]bool)
	collectAtoms(v, atoms)
	return atoms
}

func collectAtoms(v Value, atoms map[Atom]bool) {
	switch v := v.(type) {
	case int, int64, float64, string:
	case Atom:
		atoms[v] = true
	case Tuple:
		for _, e := range v {
			collectAtoms(e, atoms)
		}
	case Map:
		for _, p := range v.pairs {
			collectAtoms(p.Key, atoms)
			collectAtoms(p.Value, atoms)
		}
	default:
		panic(fmt.Sprintf("values: unsupported type %T", v))
	}
}

// ReplaceAtoms structurally rebuilds v, replacing every atom x with
// fn(x). Container shape and ordering are preserved, except that
// maps are re-canonicalized, since fn may reorder or even collapse
// keys. Non-atom leaves pass through unchanged.
func ReplaceAtoms(v Value, fn func(Atom) Value) Value {
	switch v := v.(type) {
	case int, int64, float64, string:
		return v
	case Atom:
		return fn(v)
	case Tuple:
		out := make(Tuple, len(v))
		for i, e := range v {
			out[i] = ReplaceAtoms(e, fn)
		}
		return out
	case Map:
		pairs := make([]Pair, len(v.pairs))
		for i, p := range v.pairs {
			pairs[i] = Pair{ReplaceAtoms(p.Key, fn), ReplaceAtoms(p.Value, fn)}
		}
		return newMapCanonical(pairs)
	default:
		panic(fmt.Sprintf("values: unsupported type %T", v))
	}
}
