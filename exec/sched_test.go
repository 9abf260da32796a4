// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package exec

import (
	"context"
	"encoding/gob"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/grailbio/bigenum"
	"github.com/grailbio/bigenum/values"
	"github.com/grailbio/testutil"
)

// testExecutor hands dispatched jobs to the test body, which
// completes them in whatever order the test calls for.
type testExecutor struct {
	workers int
	jobs    chan *Job
}

func newTestExecutor(workers int) *testExecutor {
	return &testExecutor{workers: workers, jobs: make(chan *Job, 1024)}
}

func (e *testExecutor) Start(*Session) (shutdown func()) { return func() {} }

func (e *testExecutor) WorkerCount() int { return e.workers }

func (e *testExecutor) Run(job *Job) {
	job.Set(JobWaiting)
	e.jobs <- job
}

// finish enumerates the job's window and completes it.
func finish(job *Job) {
	job.Set(JobRunning)
	result, err := job.Do(context.Background())
	if err != nil {
		job.Error(err)
		return
	}
	job.Done(result)
}

func newTestSession(ex Executor) *Session {
	s := newSession()
	s.p = ex.WorkerCount()
	if s.p == 0 {
		s.p = 1
	}
	s.inflight = defaultInflight
	s.poll = time.Millisecond
	s.executor = ex
	s.start()
	return s
}

// schedTest runs a scheduled enumeration against a testExecutor in
// the background.
type schedTest struct {
	Exec *testExecutor
	Sess *Session

	wg  sync.WaitGroup
	res *Result
	err error
}

func (s *schedTest) Go(ctx context.Context, domain bigenum.Domain, options ...RunOption) {
	s.Sess = newTestSession(s.Exec)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.res, s.err = s.Sess.Run(ctx, domain, options...)
	}()
}

func (s *schedTest) Wait() (*Result, error) {
	s.wg.Wait()
	return s.res, s.err
}

func intValues(lo, hi int) []values.Value {
	vs := make([]values.Value, 0, hi-lo)
	for i := lo; i < hi; i++ {
		vs = append(vs, int64(i))
	}
	return vs
}

func TestSchedOutOfOrder(t *testing.T) {
	test := schedTest{Exec: newTestExecutor(2)}
	test.Go(context.Background(), bigenum.Range(100))
	// Jobs arrive in batches bounded by the in-flight window.
	// Completing each batch in reverse exercises reassembly.
	go func() {
		for job := range test.Exec.jobs {
			batch := []*Job{job}
		drain:
			for {
				select {
				case next := <-test.Exec.jobs:
					batch = append(batch, next)
				default:
					break drain
				}
			}
			for i := len(batch) - 1; i >= 0; i-- {
				finish(batch[i])
			}
		}
	}()
	res, err := test.Wait()
	if err != nil {
		t.Fatal(err)
	}
	close(test.Exec.jobs)
	if got, want := res.Values(), intValues(0, 100); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if res.TimedOut() || res.Canceled() {
		t.Error("run should have completed cleanly")
	}
}

func TestSchedInflight(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	test := schedTest{Exec: newTestExecutor(2)}
	test.Go(ctx, bigenum.Range(100))
	// With 2 workers, no more than 4 jobs may be dispatched before
	// one completes.
	first := <-test.Exec.jobs
	var dispatched int
	for done := false; !done; {
		select {
		case <-test.Exec.jobs:
			dispatched++
		case <-time.After(50 * time.Millisecond):
			done = true
		}
	}
	if got, want := dispatched, 2*defaultInflight-1; got != want {
		t.Errorf("got %v jobs in flight, want %v", got, want)
	}
	finish(first)
	select {
	case <-test.Exec.jobs:
	case <-time.After(time.Second):
		t.Error("expected another dispatch after completion")
	}
	cancel()
	if _, err := test.Wait(); err != nil {
		t.Fatal(err)
	}
}

func TestSchedPartial(t *testing.T) {
	test := schedTest{Exec: newTestExecutor(2)}
	test.Go(context.Background(), bigenum.Range(100), WithTimeout(500*time.Millisecond))
	// Finish only the windows below 64, stranding the rest so that
	// the deadline cuts the run short.
	go func() {
		for job := range test.Exec.jobs {
			if job.StartIndex < 64 {
				finish(job)
			}
		}
	}()
	res, err := test.Wait()
	if err != nil {
		t.Fatal(err)
	}
	close(test.Exec.jobs)
	if !res.TimedOut() {
		t.Error("expected timeout")
	}
	if res.Canceled() {
		t.Error("run was not canceled")
	}
	if got, want := res.Values(), intValues(0, 64); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestSchedCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	test := schedTest{Exec: newTestExecutor(2)}
	test.Go(ctx, bigenum.Range(100))
	// The first two windows are [0, 13) and [13, 26).
	finish(<-test.Exec.jobs)
	finish(<-test.Exec.jobs)
	cancel()
	res, err := test.Wait()
	if err != nil {
		t.Fatal(err)
	}
	if !res.Canceled() {
		t.Error("expected cancellation")
	}
	if got, want := res.Values(), intValues(0, 26); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestSchedError(t *testing.T) {
	test := schedTest{Exec: newTestExecutor(2)}
	test.Go(context.Background(), bigenum.Range(100))
	job := <-test.Exec.jobs
	job.Errorf("worker exploded")
	res, err := test.Wait()
	if err == nil {
		t.Fatal("expected error")
	}
	if got, want := err.Error(), "worker exploded"; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if res != nil {
		t.Error("failed runs have no result")
	}
}

func TestSchedNoWorkers(t *testing.T) {
	test := schedTest{Exec: newTestExecutor(0)}
	test.Go(context.Background(), bigenum.Range(10))
	_, err := test.Wait()
	if got, want := err, ErrNoWorkers; got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestSchedUnbounded(t *testing.T) {
	test := schedTest{Exec: newTestExecutor(2)}
	unbounded := bigenum.Product(bigenum.Range(4000000000), bigenum.Range(4000000000))
	test.Go(context.Background(), unbounded)
	_, err := test.Wait()
	if got, want := err, bigenum.ErrUnbounded; got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestSchedSnapshots(t *testing.T) {
	dir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	test := schedTest{Exec: newTestExecutor(2)}
	test.Go(context.Background(), bigenum.Range(100), WithSnapshots(dir, 2))
	go func() {
		for job := range test.Exec.jobs {
			finish(job)
		}
	}()
	if _, err := test.Wait(); err != nil {
		t.Fatal(err)
	}
	close(test.Exec.jobs)
	paths, err := filepath.Glob(filepath.Join(dir, "partial-*.gob"))
	if err != nil {
		t.Fatal(err)
	}
	// 8 jobs snapshotted after every 2nd completion.
	if got, want := len(paths), 4; got != want {
		t.Fatalf("got %v snapshots, want %v", got, want)
	}
	sort.Strings(paths)
	f, err := os.Open(paths[len(paths)-1])
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	var snap []values.Value
	if err := gob.NewDecoder(f).Decode(&snap); err != nil {
		t.Fatal(err)
	}
	// Snapshots hold results in completion order.
	sort.Slice(snap, func(i, j int) bool { return snap[i].(int64) < snap[j].(int64) })
	if got, want := snap, intValues(0, 100); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}
