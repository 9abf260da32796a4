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

type mapDomain struct {
	Domain
	fn func(values.Value) values.Value
}

// Map transforms a domain by invoking fn for each element. The
// function must be total and side-effect-free, and must return
// canonical values; under those conditions Map preserves its
// parent's order, size, and addressability.
func Map(domain Domain, fn func(values.Value) values.Value) Domain {
	if fn == nil {
		enumcheck.Panic(1, "map: nil function")
	}
	return &mapDomain{Domain: domain, fn: fn}
}

func (m *mapDomain) Name() string {
	return fmt.Sprintf("map(%s)", m.Domain.Name())
}

func (m *mapDomain) Iterate(start, stop int64) enumio.Reader {
	start, stop, errr := checkWindow(m, start, stop)
	if errr != nil {
		return errr
	}
	return &mapReader{op: m, reader: m.Domain.Iterate(start, stop)}
}

func (m *mapDomain) Generate(n int) enumio.Reader { return generate(m, n) }

type mapReader struct {
	op     *mapDomain
	reader enumio.Reader
}

func (m *mapReader) Read(ctx context.Context, out []values.Value) (int, error) {
	n, err := m.reader.Read(ctx, out)
	for i := 0; i < n; i++ {
		out[i] = m.op.fn(out[i])
	}
	return n, err
}
