// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package bigenum

import "math"

// mulCheck returns a*b, reporting whether the product is
// representable. Operands are nonnegative.
func mulCheck(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if a > math.MaxInt64/b {
		return 0, false
	}
	return a * b, true
}

// addCheck returns a+b, reporting whether the sum is representable.
// Operands are nonnegative.
func addCheck(a, b int64) (int64, bool) {
	if a > math.MaxInt64-b {
		return 0, false
	}
	return a + b, true
}

// powCheck returns base**exp, reporting whether the power is
// representable. Operands are nonnegative.
func powCheck(base, exp int64) (int64, bool) {
	var (
		p  int64 = 1
		ok bool
	)
	for i := int64(0); i < exp; i++ {
		if p, ok = mulCheck(p, base); !ok {
			return 0, false
		}
	}
	return p, true
}

// factorial returns n!, reporting whether it is representable.
func factorial(n int64) (int64, bool) {
	var (
		f  int64 = 1
		ok bool
	)
	for i := int64(2); i <= n; i++ {
		if f, ok = mulCheck(f, i); !ok {
			return 0, false
		}
	}
	return f, true
}

// binomial returns n choose k. It is computed additively, so any
// value representable in an int64 is exact.
func binomial(n, k int64) int64 {
	if k < 0 || k > n {
		return 0
	}
	if k > n-k {
		k = n - k
	}
	// One row of Pascal's triangle at a time.
	row := make([]int64, k+1)
	row[0] = 1
	for i := int64(1); i <= n; i++ {
		for j := min64(i, k); j > 0; j-- {
			row[j] += row[j-1]
		}
	}
	return row[k]
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
