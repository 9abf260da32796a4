// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package bigenum

import (
	"fmt"

	"github.com/grailbio/bigenum/enumcheck"
	"github.com/grailbio/bigenum/enumio"
	"github.com/grailbio/bigenum/values"
)

type literalDomain struct {
	name string
	vs   []values.Value
}

// Values returns the domain enumerating exactly the provided values
// in order. Values panics if any element lies outside the canonical
// value universe.
func Values(vs ...values.Value) Domain {
	for i, v := range vs {
		if !values.Canonical(v) {
			enumcheck.Panicf(1, "values: element %d (%v) is not a canonical value", i, v)
		}
	}
	return &literalDomain{name: fmt.Sprintf("values(%d)", len(vs)), vs: vs}
}

func (l *literalDomain) Name() string { return l.name }

func (l *literalDomain) Size() (int64, bool) { return int64(len(l.vs)), true }

func (l *literalDomain) Steps() (int64, bool) { return int64(len(l.vs)), true }

func (l *literalDomain) Filtered() bool { return false }

func (l *literalDomain) Strict() bool { return true }

func (l *literalDomain) Iterate(start, stop int64) enumio.Reader {
	start, stop, errr := checkWindow(l, start, stop)
	if errr != nil {
		return errr
	}
	return enumio.ValuesReader(l.vs[start:stop])
}

func (l *literalDomain) Generate(n int) enumio.Reader { return generate(l, n) }
