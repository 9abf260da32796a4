// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

/*
	Package bigenum implements lazily evaluated combinatorial domains:
	collections of structured values that are described intensionally
	and enumerated on demand. Users compose domains from a handful of
	primitives (ranges, literal values, atom sets) and combinators
	(Map, Filter, Take, Product, Join, Permutations, Subsets, Mappings,
	Sequences); the resulting domain computes its elements only when
	they are read.

	Every domain exposes a step space, positions [0, steps) that may be
	visited independently and in any order. For most domains each step
	yields exactly one element; filtered domains retain the step space
	of their parent, and a step yields either one element or none.
	Because windows of the step space are independent, enumeration
	splits across parallel scans without coordination: see package
	github.com/grailbio/bigenum/exec.

	Domains yield canonical values as defined by package
	github.com/grailbio/bigenum/values: numbers, strings, atoms,
	tuples, and maps, all ordered by a single total order. Atoms are
	interchangeable labeled elements, useful for enumerating structures
	up to isomorphism.

	Domains may be unbounded. Combinators that cannot address an
	unbounded operand (Product, Permutations, Subsets, Mappings) reject
	one at construction time; Join and Take accept unbounded operands,
	and Take renders them finite. Whole-domain operations such as
	Collect return ErrUnbounded when the step space is unknown.
*/
package bigenum
