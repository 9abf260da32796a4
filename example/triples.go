// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package example

import (
	"github.com/grailbio/bigenum"
	"github.com/grailbio/bigenum/values"
)

// PythagoreanTriples returns the domain of ordered Pythagorean
// triples (a, b, c) with 1 <= a <= b <= c <= n. We use this small
// domain to illustrate testing facilities. See triples_test.go.
func PythagoreanTriples(n int64) bigenum.Domain {
	side := bigenum.Map(bigenum.Range(n), func(v values.Value) values.Value {
		return v.(int64) + 1
	})
	return bigenum.Filter(bigenum.Product(side, side, side), func(v values.Value) bool {
		t := v.(values.Tuple)
		a, b, c := t[0].(int64), t[1].(int64), t[2].(int64)
		return a <= b && b <= c && a*a+b*b == c*c
	})
}
