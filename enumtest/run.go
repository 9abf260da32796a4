// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package enumtest provides utilities for testing bigenum user code.
// The utilities here are generally not optimized for performance or
// robustness; they are strictly intended for unit testing.
package enumtest

import (
	"context"
	"testing"
	"time"

	"github.com/grailbio/bigenum"
	"github.com/grailbio/bigenum/exec"
	"github.com/grailbio/bigenum/values"
)

// Run enumerates the provided domain sequentially, returning its
// elements in domain order. Errors are reported as fatal to the
// provided t instance. Run is intended for unit testing of Domain
// implementations.
func Run(t *testing.T, domain bigenum.Domain) []values.Value {
	t.Helper()
	vs, err := bigenum.Collect(context.Background(), domain)
	if err != nil {
		t.Fatal(err)
	}
	return vs
}

// RunScheduled enumerates the provided domain on a local session with
// parallelism p, returning its elements in domain order. Errors are
// reported as fatal to the provided t instance.
func RunScheduled(t *testing.T, domain bigenum.Domain, p int) []values.Value {
	t.Helper()
	sess := exec.Start(exec.Local, exec.Parallelism(p), exec.PollInterval(time.Millisecond))
	defer sess.Shutdown()
	res, err := sess.Run(context.Background(), domain)
	if err != nil {
		t.Fatal(err)
	}
	return res.Values()
}

// AssertValues fails t when got and want differ under the canonical
// comparator.
func AssertValues(t *testing.T, got, want []values.Value) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d values, want %d", len(got), len(want))
	}
	for i := range got {
		if values.Compare(got[i], want[i]) != 0 {
			t.Errorf("value %d: got %v, want %v", i, got[i], want[i])
		}
	}
}
