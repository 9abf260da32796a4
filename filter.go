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

type filterDomain struct {
	Domain
	pred func(values.Value) bool
}

// Filter returns the domain containing the elements of its parent
// for which pred returns true. The parent's position space is
// preserved: filtered positions simply yield no element, so the
// domain's exact size is unknown until scanned and windows cost time
// proportional to positions scanned rather than elements returned.
func Filter(domain Domain, pred func(values.Value) bool) Domain {
	if pred == nil {
		enumcheck.Panic(1, "filter: nil predicate")
	}
	return &filterDomain{Domain: domain, pred: pred}
}

func (f *filterDomain) Name() string {
	return fmt.Sprintf("filter(%s)", f.Domain.Name())
}

func (f *filterDomain) Size() (int64, bool) { return 0, false }

func (f *filterDomain) Filtered() bool { return true }

func (f *filterDomain) Strict() bool { return false }

func (f *filterDomain) Iterate(start, stop int64) enumio.Reader {
	start, stop, errr := checkWindow(f, start, stop)
	if errr != nil {
		return errr
	}
	return &filterReader{op: f, reader: f.Domain.Iterate(start, stop)}
}

func (f *filterDomain) Generate(n int) enumio.Reader { return generate(f, n) }

type filterReader struct {
	op     *filterDomain
	reader enumio.Reader
	in     []values.Value
	err    error
}

func (f *filterReader) Read(ctx context.Context, out []values.Value) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	var (
		m   int
		max = len(out)
	)
	for m < max && f.err == nil {
		if len(f.in) < max-m {
			f.in = make([]values.Value, max-m)
		}
		var n int
		n, f.err = f.reader.Read(ctx, f.in[:max-m])
		for i := 0; i < n; i++ {
			if f.op.pred(f.in[i]) {
				out[m] = f.in[i]
				m++
			}
		}
	}
	return m, f.err
}
