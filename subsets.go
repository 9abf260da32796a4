// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package bigenum

import (
	"context"
	"fmt"

	"github.com/grailbio/bigenum/enumcheck"
	"github.com/grailbio/bigenum/enumio"
	"github.com/grailbio/bigenum/values"
)

type subsetsDomain struct {
	parent Domain
	n      int64
	// k restricts subsets to exactly k elements; -1 means all sizes.
	k     int64
	steps int64
}

// Subsets returns the domain of all subsets of the elements of
// domain, each a tuple in the parent's element order. Subsets
// enumerate in binary counting order of the parent positions, with
// earlier positions as the low bits: the empty subset first, then
// {e0}, {e1}, {e0,e1}, {e2}, and so on.
//
// The parent must be strict and of at most 62 elements; Subsets
// panics otherwise.
func Subsets(domain Domain) Domain {
	return subsets(domain, -1)
}

// SubsetsK returns the domain of size-k subsets of the elements of
// domain, each a tuple in the parent's element order, enumerated in
// lexicographic order of the member positions. The parent must be
// strict and of at most 62 elements; SubsetsK panics otherwise, or
// if k is negative.
func SubsetsK(domain Domain, k int64) Domain {
	if k < 0 {
		enumcheck.Panicf(1, "subsets: negative subset size %d", k)
	}
	return subsets(domain, k)
}

func subsets(domain Domain, k int64) Domain {
	if !domain.Strict() {
		enumcheck.Panicf(2, "subsets: domain %s is not strict", domain.Name())
	}
	n, _ := domain.Size()
	if n > 62 {
		enumcheck.Panicf(2, "subsets: domain %s has too many elements (%d)", domain.Name(), n)
	}
	steps := int64(1) << uint(n)
	if k >= 0 {
		steps = binomial(n, k)
	}
	return &subsetsDomain{parent: domain, n: n, k: k, steps: steps}
}

func (s *subsetsDomain) Name() string {
	if s.k >= 0 {
		return fmt.Sprintf("subsets(%s, %d)", s.parent.Name(), s.k)
	}
	return fmt.Sprintf("subsets(%s)", s.parent.Name())
}

func (s *subsetsDomain) Size() (int64, bool) { return s.steps, true }

func (s *subsetsDomain) Steps() (int64, bool) { return s.steps, true }

func (s *subsetsDomain) Filtered() bool { return false }

func (s *subsetsDomain) Strict() bool { return true }

func (s *subsetsDomain) Iterate(start, stop int64) enumio.Reader {
	start, stop, errr := checkWindow(s, start, stop)
	if errr != nil {
		return errr
	}
	return &subsetsReader{op: s, pos: start, stop: stop}
}

func (s *subsetsDomain) Generate(n int) enumio.Reader { return generate(s, n) }

type subsetsReader struct {
	op        *subsetsDomain
	pos, stop int64
	elems     []values.Value
}

func (r *subsetsReader) Read(ctx context.Context, out []values.Value) (int, error) {
	if r.elems == nil {
		r.elems = make([]values.Value, 0, r.op.n)
		if err := enumio.ReadAll(ctx, r.op.parent.Iterate(0, r.op.n), &r.elems); err != nil {
			return 0, err
		}
	}
	var n int
	for n < len(out) && r.pos < r.stop {
		if r.op.k >= 0 {
			out[n] = r.op.unrankK(r.pos, r.elems)
		} else {
			out[n] = r.op.unrankMask(r.pos, r.elems)
		}
		n++
		r.pos++
	}
	if r.pos >= r.stop {
		return n, enumio.EOF
	}
	return n, nil
}

// unrankMask interprets pos as a bitmask over parent positions.
func (s *subsetsDomain) unrankMask(pos int64, elems []values.Value) values.Value {
	var tup values.Tuple
	for i := int64(0); i < s.n; i++ {
		if pos&(1<<uint(i)) != 0 {
			tup = append(tup, elems[i])
		}
	}
	if tup == nil {
		tup = values.Tuple{}
	}
	return tup
}

// unrankK unranks pos into the pos'th k-subset in lexicographic
// order of member positions.
func (s *subsetsDomain) unrankK(pos int64, elems []values.Value) values.Value {
	var (
		tup  = make(values.Tuple, 0, s.k)
		next int64
	)
	for slot := int64(0); slot < s.k; slot++ {
		for {
			// Subsets beginning with position next continue with any
			// (k-slot-1)-subset of the following positions.
			c := binomial(s.n-next-1, s.k-slot-1)
			if pos < c {
				tup = append(tup, elems[next])
				next++
				break
			}
			pos -= c
			next++
		}
	}
	return tup
}
