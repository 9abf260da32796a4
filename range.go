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

type rangeDomain struct {
	name         string
	lo, hi, step int64
}

// Range returns the domain of integers [0, n). Elements are int64
// values; a nonpositive n yields the empty domain.
func Range(n int64) Domain {
	return &rangeDomain{name: fmt.Sprintf("range(%d)", n), lo: 0, hi: n, step: 1}
}

// RangeFrom returns the domain of integers [lo, hi). A hi smaller
// than lo yields the empty domain.
func RangeFrom(lo, hi int64) Domain {
	return &rangeDomain{name: fmt.Sprintf("range(%d, %d)", lo, hi), lo: lo, hi: hi, step: 1}
}

// RangeStep returns the domain of integers lo, lo+step, ... up to
// but excluding hi. RangeStep panics if step is not positive.
func RangeStep(lo, hi, step int64) Domain {
	if step <= 0 {
		enumcheck.Panicf(1, "rangestep: step %d is not positive", step)
	}
	return &rangeDomain{name: fmt.Sprintf("range(%d, %d, %d)", lo, hi, step), lo: lo, hi: hi, step: step}
}

func (r *rangeDomain) Name() string { return r.name }

func (r *rangeDomain) Size() (int64, bool) { return r.steps(), true }

func (r *rangeDomain) Steps() (int64, bool) { return r.steps(), true }

func (r *rangeDomain) steps() int64 {
	if r.hi <= r.lo {
		return 0
	}
	return (r.hi - r.lo + r.step - 1) / r.step
}

func (r *rangeDomain) Filtered() bool { return false }

func (r *rangeDomain) Strict() bool { return true }

func (r *rangeDomain) Iterate(start, stop int64) enumio.Reader {
	start, stop, errr := checkWindow(r, start, stop)
	if errr != nil {
		return errr
	}
	return &rangeReader{op: r, pos: start, stop: stop}
}

func (r *rangeDomain) Generate(n int) enumio.Reader { return generate(r, n) }

type rangeReader struct {
	op        *rangeDomain
	pos, stop int64
}

func (r *rangeReader) Read(ctx context.Context, out []values.Value) (int, error) {
	var n int
	for n < len(out) && r.pos < r.stop {
		out[n] = r.op.lo + r.pos*r.op.step
		n++
		r.pos++
	}
	if r.pos >= r.stop {
		return n, enumio.EOF
	}
	return n, nil
}
