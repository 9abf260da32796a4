// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package bigenum

import (
	"fmt"

	"github.com/grailbio/bigenum/enumcheck"
)

// Sequences returns the domain of all tuples over domain with
// lengths in [minLen, maxLen]. Shorter sequences enumerate first;
// within a length, tuples enumerate in product order with the
// leftmost component slowest. Sequences of length zero contribute a
// single empty tuple.
//
// Sequences panics on a negative minLen, a maxLen smaller than
// minLen, or an unbounded domain.
func Sequences(domain Domain, minLen, maxLen int) Domain {
	if minLen < 0 || maxLen < minLen {
		enumcheck.Panicf(1, "sequences: invalid length range [%d, %d]", minLen, maxLen)
	}
	if _, ok := domain.Steps(); !ok {
		enumcheck.Panicf(1, "sequences: domain %s is unbounded", domain.Name())
	}
	lengths := make([]Domain, 0, maxLen-minLen+1)
	for l := minLen; l <= maxLen; l++ {
		copies := make([]Domain, l)
		for i := range copies {
			copies[i] = domain
		}
		lengths = append(lengths, Product(copies...))
	}
	return &named{
		Domain: Join(lengths...),
		name:   fmt.Sprintf("sequences(%s, %d, %d)", domain.Name(), minLen, maxLen),
	}
}
