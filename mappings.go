// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package bigenum

import (
	"context"
	"fmt"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/bigenum/enumcheck"
	"github.com/grailbio/bigenum/enumio"
	"github.com/grailbio/bigenum/values"
)

type mappingsDomain struct {
	keys, vals Domain
	nk, nv     int64
	steps      int64
	stepsOK    bool
}

// Mappings returns the domain of all total maps from the elements of
// keys to elements of vals. Elements are canonical Maps. The
// leftmost key (in the key domain's order) varies slowest: position
// p decomposes into one value index per key by mixed radix over the
// value domain's size.
//
// Both operands must be strict; Mappings panics otherwise. The
// number of mappings may overflow an int64, in which case the domain
// reports unbounded steps and only int64-addressable windows can be
// enumerated.
func Mappings(keys, vals Domain) Domain {
	if !keys.Strict() {
		enumcheck.Panicf(1, "mappings: key domain %s is not strict", keys.Name())
	}
	if !vals.Strict() {
		enumcheck.Panicf(1, "mappings: value domain %s is not strict", vals.Name())
	}
	nk, _ := keys.Size()
	nv, _ := vals.Size()
	steps, ok := powCheck(nv, nk)
	return &mappingsDomain{keys: keys, vals: vals, nk: nk, nv: nv, steps: steps, stepsOK: ok}
}

func (m *mappingsDomain) Name() string {
	return fmt.Sprintf("mappings(%s, %s)", m.keys.Name(), m.vals.Name())
}

func (m *mappingsDomain) Size() (int64, bool) { return m.steps, m.stepsOK }

func (m *mappingsDomain) Steps() (int64, bool) { return m.steps, m.stepsOK }

func (m *mappingsDomain) Filtered() bool { return false }

func (m *mappingsDomain) Strict() bool { return m.stepsOK }

func (m *mappingsDomain) Iterate(start, stop int64) enumio.Reader {
	start, stop, errr := checkWindow(m, start, stop)
	if errr != nil {
		return errr
	}
	return &mappingsReader{
		op:    m,
		pos:   start,
		stop:  stop,
		cache: make([]mappingsElem, m.nk),
	}
}

func (m *mappingsDomain) Generate(n int) enumio.Reader { return generate(m, n) }

type mappingsElem struct {
	digit int64
	v     values.Value
	valid bool
}

type mappingsReader struct {
	op        *mappingsDomain
	pos, stop int64
	keys      []values.Value
	cache     []mappingsElem
}

func (r *mappingsReader) Read(ctx context.Context, out []values.Value) (int, error) {
	if r.keys == nil {
		r.keys = make([]values.Value, 0, r.op.nk)
		if err := enumio.ReadAll(ctx, r.op.keys.Iterate(0, r.op.nk), &r.keys); err != nil {
			return 0, err
		}
	}
	var n int
	for n < len(out) && r.pos < r.stop {
		pairs := make([]values.Pair, r.op.nk)
		pos := r.pos
		// Digits are drawn rightmost first, so that the leftmost key
		// varies slowest.
		for i := r.op.nk - 1; i >= 0; i-- {
			digit := pos % r.op.nv
			pos /= r.op.nv
			c := &r.cache[i]
			if !c.valid || c.digit != digit {
				v, ok, err := readOne(ctx, r.op.vals, digit)
				if err != nil {
					return n, err
				}
				if !ok {
					return n, errors.E(errors.Invalid,
						fmt.Sprintf("mappings: value domain %s yielded no element at %d", r.op.vals.Name(), digit))
				}
				*c = mappingsElem{digit: digit, v: v, valid: true}
			}
			pairs[i] = values.Pair{Key: r.keys[i], Value: c.v}
		}
		out[n] = values.NewMap(pairs)
		n++
		r.pos++
	}
	if r.pos >= r.stop {
		return n, enumio.EOF
	}
	return n, nil
}
