// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.
package enumtest_test

import (
	"testing"

	"github.com/grailbio/bigenum"
	"github.com/grailbio/bigenum/enumtest"
	"github.com/grailbio/bigenum/values"
)

func TestRunScheduled(t *testing.T) {
	even := func(v values.Value) bool { return v.(int64)%2 == 0 }
	domain := bigenum.Product(bigenum.Filter(bigenum.Range(30), even), bigenum.Range(5))
	want := enumtest.Run(t, domain)
	if got, want := len(want), 75; got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
	for _, p := range []int{1, 3, 8} {
		enumtest.AssertValues(t, enumtest.RunScheduled(t, domain, p), want)
	}
}
