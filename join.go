// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package bigenum

import (
	"fmt"
	"strings"

	"github.com/grailbio/bigenum/enumio"
)

type joinDomain struct {
	children []Domain
}

// Join returns the ordered union of the given domains: all elements
// of the first operand, then all elements of the second, and so on.
// Position p is served by the operand whose step range covers p,
// offset by the operands before it.
//
// Operands past an unbounded one are unreachable, as are positions
// past the point where the cumulative offset overflows; such joins
// report unbounded steps.
func Join(domains ...Domain) Domain {
	return &joinDomain{children: domains}
}

func (j *joinDomain) Name() string {
	names := make([]string, len(j.children))
	for i, d := range j.children {
		names[i] = d.Name()
	}
	return fmt.Sprintf("join(%s)", strings.Join(names, ", "))
}

func (j *joinDomain) Size() (int64, bool) {
	var size int64
	for _, d := range j.children {
		n, ok := d.Size()
		if !ok {
			return 0, false
		}
		if size, ok = addCheck(size, n); !ok {
			return 0, false
		}
	}
	return size, true
}

func (j *joinDomain) Steps() (int64, bool) {
	var steps int64
	for _, d := range j.children {
		n, ok := d.Steps()
		if !ok {
			return 0, false
		}
		if steps, ok = addCheck(steps, n); !ok {
			return 0, false
		}
	}
	return steps, true
}

func (j *joinDomain) Filtered() bool {
	for _, d := range j.children {
		if d.Filtered() {
			return true
		}
	}
	return false
}

func (j *joinDomain) Strict() bool {
	if _, ok := j.Steps(); !ok {
		return false
	}
	for _, d := range j.children {
		if !d.Strict() {
			return false
		}
	}
	return true
}

func (j *joinDomain) Iterate(start, stop int64) enumio.Reader {
	start, stop, errr := checkWindow(j, start, stop)
	if errr != nil {
		return errr
	}
	var (
		readers []enumio.Reader
		off     int64
	)
	for _, d := range j.children {
		steps, ok := d.Steps()
		if !ok {
			steps = stop - off // addressable prefix only
		}
		lo, hi := start-off, stop-off
		if lo < 0 {
			lo = 0
		}
		if hi > steps {
			hi = steps
		}
		if lo < hi {
			readers = append(readers, d.Iterate(lo, hi))
		}
		if off, ok = addCheck(off, steps); !ok || off >= stop {
			break
		}
	}
	return enumio.MultiReader(readers...)
}

func (j *joinDomain) Generate(n int) enumio.Reader { return generate(j, n) }
