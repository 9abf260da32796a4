// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package bigenum

import (
	"context"

	"github.com/grailbio/base/traverse"
	"github.com/grailbio/bigenum/enumcheck"
	"github.com/grailbio/bigenum/enumio"
	"github.com/grailbio/bigenum/values"
)

// Collect enumerates domain to completion, returning its elements in
// order. Collect returns ErrUnbounded if the domain's step space is
// unbounded.
func Collect(ctx context.Context, domain Domain) ([]values.Value, error) {
	steps, ok := domain.Steps()
	if !ok {
		return nil, ErrUnbounded
	}
	var vs []values.Value
	if err := enumio.ReadAll(ctx, domain.Iterate(0, steps), &vs); err != nil {
		return nil, err
	}
	return trim(domain, vs), nil
}

// CollectParallel enumerates domain with up to p parallel scans over
// contiguous windows, reassembling the output in order. It panics if
// p is not positive, and returns ErrUnbounded if the domain's step
// space is unbounded.
func CollectParallel(ctx context.Context, domain Domain, p int) ([]values.Value, error) {
	if p <= 0 {
		enumcheck.Panicf(1, "collectparallel: parallelism %d is not positive", p)
	}
	steps, ok := domain.Steps()
	if !ok {
		return nil, ErrUnbounded
	}
	nchunk := int64(p)
	if steps < nchunk {
		nchunk = steps
	}
	if nchunk == 0 {
		return nil, nil
	}
	var (
		chunks = make([][]values.Value, nchunk)
		quo    = steps / nchunk
		rem    = steps % nchunk
	)
	err := traverse.Limit(p).Each(int(nchunk), func(i int) error {
		var (
			start = int64(i)*quo + min64(int64(i), rem)
			size  = quo
		)
		if int64(i) < rem {
			size++
		}
		return enumio.ReadAll(ctx, domain.Iterate(start, start+size), &chunks[i])
	})
	if err != nil {
		return nil, err
	}
	var vs []values.Value
	for _, chunk := range chunks {
		vs = append(vs, chunk...)
	}
	return trim(domain, vs), nil
}

// trim caps vs at the domain's declared size. A Take over a filtered
// parent caps each window independently; the global cap applies only
// after windows are concatenated in order.
func trim(domain Domain, vs []values.Value) []values.Value {
	if size, ok := domain.Size(); ok && int64(len(vs)) > size {
		vs = vs[:size]
	}
	return vs
}
