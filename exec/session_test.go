// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package exec

import (
	"context"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/bigenum"
	"github.com/grailbio/bigenum/values"
)

func init() {
	log.AddFlags()
}

func startTestSession(p int) *Session {
	return Start(Parallelism(p), PollInterval(time.Millisecond))
}

func TestSessionRun(t *testing.T) {
	double := func(v values.Value) values.Value { return v.(int64) * 2 }
	even := func(v values.Value) bool { return v.(int64)%2 == 0 }
	domains := []bigenum.Domain{
		bigenum.Map(bigenum.Range(10000), double),
		bigenum.Filter(bigenum.Range(1000), even),
		bigenum.Product(bigenum.Filter(bigenum.Range(40), even), bigenum.Range(10)),
		bigenum.Permutations(bigenum.Range(6)),
		bigenum.SubsetsK(bigenum.Range(10), 3),
	}
	for _, domain := range domains {
		want, err := bigenum.Collect(context.Background(), domain)
		if err != nil {
			t.Fatal(err)
		}
		for _, p := range []int{1, 2, 7} {
			sess := startTestSession(p)
			res, err := sess.Run(context.Background(), domain)
			sess.Shutdown()
			if err != nil {
				t.Fatal(err)
			}
			if got := res.Values(); !reflect.DeepEqual(got, want) {
				t.Errorf("%s x%d: got %d values, want %d", domain.Name(), p, len(got), len(want))
			}
		}
	}
}

func TestSessionTakeFiltered(t *testing.T) {
	// A take over a filtered parent caps each window independently;
	// the run's final trim restores the declared size.
	ge6 := func(v values.Value) bool { return v.(int64) >= 6 }
	domain := bigenum.Take(bigenum.Filter(bigenum.Range(100), ge6), 3)
	sess := startTestSession(4)
	defer sess.Shutdown()
	res, err := sess.Run(context.Background(), domain)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := res.Values(), []values.Value{int64(6), int64(7), int64(8)}; !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestSessionReduce(t *testing.T) {
	sum := func(acc, v values.Value) values.Value { return acc.(int64) + v.(int64) }
	sess := startTestSession(2)
	defer sess.Shutdown()
	res, err := sess.Run(context.Background(), bigenum.Range(100),
		WithWorkerReduce(sum, nil), WithGlobalReduce(sum, nil))
	if err != nil {
		t.Fatal(err)
	}
	v, ok := res.Reduced()
	if !ok {
		t.Fatal("expected a reduced value")
	}
	if got, want := v, int64(4950); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	// One partial per job is retained.
	if got, want := len(res.Values()), 8; got != want {
		t.Errorf("got %v partials, want %v", got, want)
	}
}

func TestSessionReduceInit(t *testing.T) {
	sum := func(acc, v values.Value) values.Value { return acc.(int64) + v.(int64) }
	tenK := func() values.Value { return int64(10000) }
	sess := startTestSession(2)
	defer sess.Shutdown()
	ctx := context.Background()

	res, err := sess.Run(ctx, bigenum.Range(10), WithGlobalReduce(sum, tenK))
	if err != nil {
		t.Fatal(err)
	}
	v, ok := res.Reduced()
	if !ok {
		t.Fatal("expected a reduced value")
	}
	if got, want := v, int64(10045); got != want {
		t.Errorf("got %v, want %v", got, want)
	}

	// An empty domain reduces to the initial value alone.
	res, err = sess.Run(ctx, bigenum.Range(0), WithGlobalReduce(sum, tenK))
	if err != nil {
		t.Fatal(err)
	}
	v, ok = res.Reduced()
	if !ok {
		t.Fatal("expected a reduced value")
	}
	if got, want := v, int64(10000); got != want {
		t.Errorf("got %v, want %v", got, want)
	}

	// Without an initial value there is nothing to reduce.
	res, err = sess.Run(ctx, bigenum.Range(0), WithGlobalReduce(sum, nil))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok = res.Reduced(); ok {
		t.Error("unexpected reduced value")
	}
}

func TestSessionReduceSparse(t *testing.T) {
	// Windows in which every position is filtered out contribute no
	// partial when no initial value is configured.
	big := func(v values.Value) bool { return v.(int64) >= 90 }
	sum := func(acc, v values.Value) values.Value { return acc.(int64) + v.(int64) }
	sess := startTestSession(2)
	defer sess.Shutdown()
	res, err := sess.Run(context.Background(), bigenum.Filter(bigenum.Range(100), big),
		WithWorkerReduce(sum, nil), WithGlobalReduce(sum, nil))
	if err != nil {
		t.Fatal(err)
	}
	if got, want := len(res.Values()), 1; got != want {
		t.Fatalf("got %v partials, want %v", got, want)
	}
	v, ok := res.Reduced()
	if !ok {
		t.Fatal("expected a reduced value")
	}
	if got, want := v, int64(945); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestSessionRunError(t *testing.T) {
	boom := bigenum.Map(bigenum.Range(100), func(v values.Value) values.Value {
		if v.(int64) == 63 {
			panic("user code exploded")
		}
		return v
	})
	sess := startTestSession(2)
	defer sess.Shutdown()
	_, err := sess.Run(context.Background(), boom)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Match(errors.E(errors.Fatal), err) {
		t.Errorf("error %v should be fatal", err)
	}
	if !strings.Contains(err.Error(), "user code exploded") {
		t.Errorf("error %v should name the panic", err)
	}
}

func TestSessionRunTimeout(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	slow := bigenum.Map(bigenum.Range(100), func(v values.Value) values.Value {
		if v.(int64) >= 64 {
			<-block
		}
		return v
	})
	sess := startTestSession(2)
	defer sess.Shutdown()
	res, err := sess.Run(context.Background(), slow, WithTimeout(500*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	if !res.TimedOut() {
		t.Fatal("expected timeout")
	}
	if got, want := res.Values(), intValues(0, 64); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestResultScanner(t *testing.T) {
	sess := startTestSession(2)
	defer sess.Shutdown()
	res, err := sess.Run(context.Background(), bigenum.Range(100))
	if err != nil {
		t.Fatal(err)
	}
	var (
		scanner = res.Scanner()
		ctx     = context.Background()
		got     []values.Value
		v       values.Value
	)
	for scanner.Scan(ctx, &v) {
		got = append(got, v)
	}
	if err := scanner.Err(); err != nil {
		t.Fatal(err)
	}
	if want := intValues(0, 100); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestSessionStats(t *testing.T) {
	sess := startTestSession(2)
	defer sess.Shutdown()
	ctx := context.Background()
	if _, err := sess.Run(ctx, bigenum.Range(100)); err != nil {
		t.Fatal(err)
	}
	vals := sess.Stats()
	for name, want := range map[string]int64{"runs": 1, "jobs": 8, "steps": 100, "elems": 100} {
		if got := vals[name]; got != want {
			t.Errorf("%s: got %v, want %v", name, got, want)
		}
	}
	// Counters accumulate across the session's runs.
	if _, err := sess.Run(ctx, bigenum.Range(10)); err != nil {
		t.Fatal(err)
	}
	vals = sess.Stats()
	if got, want := vals["runs"], int64(2); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := vals["steps"], int64(110); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}
