// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package bigenum

import (
	"context"
	"fmt"
	"strings"

	"github.com/grailbio/bigenum/enumcheck"
	"github.com/grailbio/bigenum/enumio"
	"github.com/grailbio/bigenum/values"
)

type productDomain struct {
	children []Domain
	// strides give the position-space weight of each child, leftmost
	// slowest. A stride beyond int64 means positions with a nonzero
	// index for that child are unaddressable.
	strides  []int64
	strideOK []bool
	steps    int64
	stepsOK  bool
}

// Product returns the cross product of the given domains. Elements
// are tuples with one component per operand; the leftmost operand
// varies slowest, so position p decomposes by mixed radix over the
// operands' step counts. The product of zero domains is the
// singleton domain of the empty tuple.
//
// Every operand must have a bounded position space; Product panics
// on an unbounded operand. The product's own position space may
// still overflow, in which case the domain reports unbounded steps
// and only int64-addressable windows can be enumerated.
func Product(domains ...Domain) Domain {
	for _, d := range domains {
		if _, ok := d.Steps(); !ok {
			enumcheck.Panicf(1, "product: unbounded operand %s", d.Name())
		}
	}
	p := &productDomain{
		children: domains,
		strides:  make([]int64, len(domains)),
		strideOK: make([]bool, len(domains)),
	}
	var (
		stride   int64 = 1
		strideOK       = true
	)
	for i := len(domains) - 1; i >= 0; i-- {
		p.strides[i], p.strideOK[i] = stride, strideOK
		if strideOK {
			steps, _ := domains[i].Steps()
			stride, strideOK = mulCheck(stride, steps)
		}
	}
	// The total is the leftmost stride times the leftmost steps.
	p.steps, p.stepsOK = stride, strideOK
	return p
}

func (p *productDomain) Name() string {
	names := make([]string, len(p.children))
	for i, d := range p.children {
		names[i] = d.Name()
	}
	return fmt.Sprintf("product(%s)", strings.Join(names, ", "))
}

func (p *productDomain) Size() (int64, bool) {
	size := int64(1)
	for _, d := range p.children {
		n, ok := d.Size()
		if !ok {
			return 0, false
		}
		if size, ok = mulCheck(size, n); !ok {
			return 0, false
		}
	}
	return size, true
}

func (p *productDomain) Steps() (int64, bool) { return p.steps, p.stepsOK }

func (p *productDomain) Filtered() bool {
	for _, d := range p.children {
		if d.Filtered() {
			return true
		}
	}
	return false
}

func (p *productDomain) Strict() bool {
	if !p.stepsOK {
		return false
	}
	for _, d := range p.children {
		if !d.Strict() {
			return false
		}
	}
	return true
}

func (p *productDomain) Iterate(start, stop int64) enumio.Reader {
	start, stop, errr := checkWindow(p, start, stop)
	if errr != nil {
		return errr
	}
	return &productReader{
		op:    p,
		pos:   start,
		stop:  stop,
		cache: make([]productElem, len(p.children)),
	}
}

func (p *productDomain) Generate(n int) enumio.Reader { return generate(p, n) }

// index returns child i's step index at position pos.
func (p *productDomain) index(i int, pos int64) int64 {
	if !p.strideOK[i] {
		return 0
	}
	steps, _ := p.children[i].Steps()
	return pos / p.strides[i] % steps
}

// skip returns the first position after pos whose index for child i
// differs, or past if the block extends beyond addressable space.
func (p *productDomain) skip(i int, pos, past int64) int64 {
	if !p.strideOK[i] {
		return past
	}
	next, ok := addCheck(pos-pos%p.strides[i], p.strides[i])
	if !ok {
		return past
	}
	return next
}

type productElem struct {
	idx   int64
	v     values.Value
	ok    bool
	valid bool
}

type productReader struct {
	op        *productDomain
	pos, stop int64
	cache     []productElem
}

func (p *productReader) Read(ctx context.Context, out []values.Value) (int, error) {
	var n int
scan:
	for n < len(out) && p.pos < p.stop {
		tup := make(values.Tuple, len(p.op.children))
		for i, child := range p.op.children {
			idx := p.op.index(i, p.pos)
			c := &p.cache[i]
			if !c.valid || c.idx != idx {
				v, ok, err := readOne(ctx, child, idx)
				if err != nil {
					return n, err
				}
				*c = productElem{idx: idx, v: v, ok: ok, valid: true}
			}
			if !c.ok {
				// The child retains nothing at this index: skip the
				// whole block of positions that share it.
				p.pos = p.op.skip(i, p.pos, p.stop)
				continue scan
			}
			tup[i] = c.v
		}
		out[n] = tup
		n++
		p.pos++
	}
	if p.pos >= p.stop {
		return n, enumio.EOF
	}
	return n, nil
}
