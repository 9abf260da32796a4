// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package bigenum

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/bigenum/enumcheck"
	"github.com/grailbio/bigenum/enumio"
	"github.com/grailbio/bigenum/values"
)

type takeDomain struct {
	Domain
	k int64
}

// Take returns the domain of the first k elements of its parent.
// Composed takes keep only the smaller cap: Take(Take(d, a), b)
// behaves as Take(d, min(a, b)).
//
// Over a strict parent the position space is capped along with the
// size. Over a filtered parent the parent's position space is
// preserved and Size reports k as an upper bound; each window reader
// independently stops after k retained elements, and exact results
// are restored by trimming the reassembled output to the domain's
// size.
//
// Take panics if k is negative.
func Take(domain Domain, k int64) Domain {
	if k < 0 {
		enumcheck.Panicf(1, "take: negative count %d", k)
	}
	if parent, ok := domain.(*takeDomain); ok {
		if parent.k < k {
			k = parent.k
		}
		domain = parent.Domain
	}
	return &takeDomain{Domain: domain, k: k}
}

func (t *takeDomain) Name() string {
	return fmt.Sprintf("take(%s, %d)", t.Domain.Name(), t.k)
}

func (t *takeDomain) Size() (int64, bool) {
	if size, ok := t.Domain.Size(); ok && size < t.k {
		return size, true
	}
	return t.k, true
}

func (t *takeDomain) Steps() (int64, bool) {
	steps, ok := t.Domain.Steps()
	if t.Domain.Filtered() {
		// The parent's position space is preserved; the cap applies
		// to retained elements, not positions.
		return steps, ok
	}
	if !ok || steps > t.k {
		return t.k, true
	}
	return steps, true
}

func (t *takeDomain) Strict() bool { return !t.Domain.Filtered() }

func (t *takeDomain) Iterate(start, stop int64) enumio.Reader {
	start, stop, errr := checkWindow(t, start, stop)
	if errr != nil {
		return errr
	}
	if !t.Domain.Filtered() {
		return t.Domain.Iterate(start, stop)
	}
	return &takeReader{reader: t.Domain.Iterate(start, stop), n: t.k}
}

func (t *takeDomain) Generate(n int) enumio.Reader {
	if !t.Domain.Filtered() {
		return generate(t, n)
	}
	return &takeSampler{op: t, n: n, rnd: rand.New(rand.NewSource(rand.Int63()))}
}

type takeReader struct {
	reader enumio.Reader
	n      int64
}

func (t *takeReader) Read(ctx context.Context, out []values.Value) (n int, err error) {
	if t.n <= 0 {
		return 0, enumio.EOF
	}
	n, err = t.reader.Read(ctx, out)
	t.n -= int64(n)
	if t.n < 0 {
		n -= int(-t.n)
	}
	return
}

// A takeSampler samples a take over a filtered parent. Membership in
// the k-prefix cannot be decided positionally, so the prefix is
// enumerated once and samples are drawn from it.
type takeSampler struct {
	op    *takeDomain
	n     int
	rnd   *rand.Rand
	elems []values.Value
	err   error
}

func (t *takeSampler) Read(ctx context.Context, out []values.Value) (int, error) {
	if t.err != nil {
		return 0, t.err
	}
	if t.n <= 0 {
		return 0, enumio.EOF
	}
	if t.elems == nil {
		steps, ok := t.op.Steps()
		if !ok {
			t.err = ErrUnbounded
			return 0, t.err
		}
		t.elems = []values.Value{}
		if err := enumio.ReadAll(ctx, t.op.Iterate(0, steps), &t.elems); err != nil {
			t.err = err
			return 0, err
		}
		if len(t.elems) == 0 {
			t.err = errors.E(errors.Unavailable, fmt.Sprintf("%s: cannot sample an empty domain", t.op.Name()))
			return 0, t.err
		}
	}
	var n int
	for n < len(out) && t.n > 0 {
		out[n] = t.elems[t.rnd.Intn(len(t.elems))]
		n++
		t.n--
	}
	if t.n == 0 {
		return n, enumio.EOF
	}
	return n, nil
}
