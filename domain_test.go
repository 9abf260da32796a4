// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package bigenum_test

import (
	"context"
	"math/rand"
	"runtime"
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/bigenum"
	"github.com/grailbio/bigenum/enumcheck"
	"github.com/grailbio/bigenum/enumio"
	"github.com/grailbio/bigenum/values"
)

func ints(vs ...int64) []values.Value {
	out := make([]values.Value, len(vs))
	for i, v := range vs {
		out[i] = v
	}
	return out
}

func tuple(vs ...values.Value) values.Value {
	if len(vs) == 0 {
		return values.Tuple{}
	}
	return values.Tuple(vs)
}

// window reads the elements of domain at positions [start, stop).
func window(t *testing.T, domain bigenum.Domain, start, stop int64) []values.Value {
	t.Helper()
	var vs []values.Value
	if err := enumio.ReadAll(context.Background(), domain.Iterate(start, stop), &vs); err != nil {
		t.Fatalf("%s: window [%d, %d): %v", domain.Name(), start, stop, err)
	}
	return vs
}

func collect(t *testing.T, domain bigenum.Domain) []values.Value {
	t.Helper()
	vs, err := bigenum.Collect(context.Background(), domain)
	if err != nil {
		t.Fatalf("%s: %v", domain.Name(), err)
	}
	return vs
}

func assertValues(t *testing.T, got, want []values.Value) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range got {
		if !values.Equal(got[i], want[i]) {
			t.Errorf("element %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func expectDomainError(t *testing.T, message string, fn func()) {
	t.Helper()
	enumcheck.TestCalldepth = 2
	_, file, line, ok := runtime.Caller(1)
	if !ok {
		t.Fatal("runtime.Caller error")
	}
	defer func() {
		t.Helper()
		enumcheck.TestCalldepth = 0
		e := recover()
		if e == nil {
			t.Fatal("expected error")
		}
		err, ok := e.(*enumcheck.Error)
		if !ok {
			t.Fatalf("expected domain error, got %T", e)
		}
		if got, want := err.File, file; got != want {
			t.Errorf("got %v, want %v", got, want)
		}
		if got, want := err.Line, line; got != want {
			t.Errorf("got %v, want %v", got, want)
		}
		if got, want := err.Err.Error(), message; got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	}()
	fn()
}

func TestInvalidWindow(t *testing.T) {
	ctx := context.Background()
	for _, win := range [][2]int64{{-1, 5}, {5, 2}, {-3, -1}} {
		r := bigenum.Range(10).Iterate(win[0], win[1])
		_, err := r.Read(ctx, make([]values.Value, 1))
		if err == nil || !errors.Is(errors.Invalid, err) {
			t.Errorf("window %v: got %v, want invalid", win, err)
		}
	}
}

func TestWindowClamp(t *testing.T) {
	assertValues(t, window(t, bigenum.Range(10), 5, 100), ints(5, 6, 7, 8, 9))
	assertValues(t, window(t, bigenum.Range(10), 3, 3), nil)
	assertValues(t, window(t, bigenum.Range(10), 12, 20), nil)
}

// TestPositionIndependence verifies that reading the step space one
// position at a time produces the same elements as a single scan.
func TestPositionIndependence(t *testing.T) {
	even := func(v values.Value) bool { return v.(int64)%2 == 0 }
	tens := func(v values.Value) values.Value { return v.(int64) * 10 }
	for _, domain := range []bigenum.Domain{
		bigenum.Range(17),
		bigenum.RangeStep(3, 40, 7),
		bigenum.Map(bigenum.Range(9), tens),
		bigenum.Filter(bigenum.Range(20), even),
		bigenum.Take(bigenum.Range(20), 11),
		bigenum.Product(bigenum.Range(3), bigenum.Filter(bigenum.Range(4), even), bigenum.Range(2)),
		bigenum.Join(bigenum.Range(3), bigenum.Filter(bigenum.Range(6), even), bigenum.RangeFrom(10, 14)),
		bigenum.Permutations(bigenum.Range(4)),
		bigenum.Subsets(bigenum.Range(4)),
		bigenum.SubsetsK(bigenum.Range(5), 3),
		bigenum.Mappings(bigenum.NewASet(2, "k"), bigenum.Range(3)),
		bigenum.Sequences(bigenum.Range(3), 0, 3),
	} {
		steps, ok := domain.Steps()
		if !ok {
			t.Fatalf("%s: unbounded", domain.Name())
		}
		var got []values.Value
		for pos := int64(0); pos < steps; pos++ {
			got = append(got, window(t, domain, pos, pos+1)...)
		}
		if want := window(t, domain, 0, steps); !valuesEqual(got, want) {
			t.Errorf("%s: got %v, want %v", domain.Name(), got, want)
		}
	}
}

func valuesEqual(a, b []values.Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !values.Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// TestWindowFuzz checks random windows against slices of a full scan.
func TestWindowFuzz(t *testing.T) {
	for _, domain := range []bigenum.Domain{
		bigenum.Range(100),
		bigenum.Product(bigenum.Range(5), bigenum.Range(4), bigenum.Range(5)),
		bigenum.Permutations(bigenum.Range(5)),
		bigenum.Subsets(bigenum.Range(6)),
		bigenum.Sequences(bigenum.Range(4), 1, 3),
	} {
		steps, ok := domain.Steps()
		if !ok {
			t.Fatalf("%s: unbounded", domain.Name())
		}
		if domain.Filtered() || !domain.Strict() {
			t.Fatalf("%s: windows of a fuzzed strict domain must be strict", domain.Name())
		}
		full := window(t, domain, 0, steps)
		rnd := rand.New(rand.NewSource(0))
		for i := 0; i < 50; i++ {
			start := rnd.Int63n(steps + 1)
			stop := start + rnd.Int63n(steps+1-start)
			if got, want := window(t, domain, start, stop), full[start:stop]; !valuesEqual(got, want) {
				t.Errorf("%s: window [%d, %d): got %v, want %v", domain.Name(), start, stop, got, want)
			}
		}
	}
}
