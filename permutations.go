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

type permutationsDomain struct {
	parent Domain
	n      int64
	steps  int64
	facts  []int64
}

// Permutations returns the domain of all orderings of the elements
// of domain, as tuples. Orderings enumerate in lexicographic order
// of the parent's element positions: position p unranks through the
// factorial number system.
//
// The parent must be strict, and of at most 20 elements so that the
// number of orderings is representable; Permutations panics
// otherwise.
func Permutations(domain Domain) Domain {
	if !domain.Strict() {
		enumcheck.Panicf(1, "permutations: domain %s is not strict", domain.Name())
	}
	n, _ := domain.Size()
	steps, ok := factorial(n)
	if !ok {
		enumcheck.Panicf(1, "permutations: domain %s has too many elements (%d)", domain.Name(), n)
	}
	// facts[i] holds i!.
	facts := make([]int64, n+1)
	facts[0] = 1
	for i := int64(1); i <= n; i++ {
		facts[i] = facts[i-1] * i
	}
	return &permutationsDomain{parent: domain, n: n, steps: steps, facts: facts}
}

func (p *permutationsDomain) Name() string {
	return fmt.Sprintf("permutations(%s)", p.parent.Name())
}

func (p *permutationsDomain) Size() (int64, bool) { return p.steps, true }

func (p *permutationsDomain) Steps() (int64, bool) { return p.steps, true }

func (p *permutationsDomain) Filtered() bool { return false }

func (p *permutationsDomain) Strict() bool { return true }

func (p *permutationsDomain) Iterate(start, stop int64) enumio.Reader {
	start, stop, errr := checkWindow(p, start, stop)
	if errr != nil {
		return errr
	}
	return &permutationsReader{op: p, pos: start, stop: stop}
}

func (p *permutationsDomain) Generate(n int) enumio.Reader { return generate(p, n) }

type permutationsReader struct {
	op        *permutationsDomain
	pos, stop int64
	elems     []values.Value
}

func (r *permutationsReader) Read(ctx context.Context, out []values.Value) (int, error) {
	if r.elems == nil {
		r.elems = make([]values.Value, 0, r.op.n)
		if err := enumio.ReadAll(ctx, r.op.parent.Iterate(0, r.op.n), &r.elems); err != nil {
			return 0, err
		}
	}
	var n int
	for n < len(out) && r.pos < r.stop {
		out[n] = r.op.unrank(r.pos, r.elems)
		n++
		r.pos++
	}
	if r.pos >= r.stop {
		return n, enumio.EOF
	}
	return n, nil
}

// unrank converts a position into its permutation by Lehmer code:
// successive factoradic digits select from the remaining elements.
func (p *permutationsDomain) unrank(pos int64, elems []values.Value) values.Value {
	var (
		avail = make([]values.Value, len(elems))
		tup   = make(values.Tuple, 0, len(elems))
	)
	copy(avail, elems)
	for i := p.n - 1; i >= 0; i-- {
		j := pos / p.facts[i]
		pos %= p.facts[i]
		tup = append(tup, avail[j])
		avail = append(avail[:j], avail[j+1:]...)
	}
	return tup
}
