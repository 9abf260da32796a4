// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package exec implements partitioned, scheduled enumeration of
// domains. A domain's step space is split into contiguous jobs that
// are dispatched to an executor-managed worker pool; completed jobs
// are reassembled in domain order regardless of completion order,
// with optional per-worker and global reductions.
package exec

import (
	"context"
	"sort"
	"time"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/status"
	"github.com/grailbio/bigenum"
	"github.com/grailbio/bigenum/enumio"
	"github.com/grailbio/bigenum/values"
)

// Executor defines an interface used to provide implementations of
// job runners. An Executor is responsible for running single jobs
// and attaching their results.
type Executor interface {
	// Start starts the executor. It is called before any jobs are
	// dispatched. Start need not return a shutdown function.
	Start(*Session) (shutdown func())

	// WorkerCount returns the size of the executor's worker pool.
	WorkerCount() int

	// Run dispatches the job asynchronously. After a call to Run, the
	// job has state >= JobWaiting. The executor owns the job after
	// calling Run, and only the executor should modify its state.
	Run(*Job)
}

// ErrNoWorkers is returned by runs attempted on a session whose
// executor reports an empty worker pool.
var ErrNoWorkers = errors.E(errors.Unavailable, "no workers available")

const (
	defaultChunksize = 1024

	// defaultInflight is the default multiple of the worker count
	// used to bound submitted-but-unfetched jobs, limiting the memory
	// held by buffered results.
	defaultInflight = 2

	// defaultPollInterval is the default backoff between empty
	// completion-queue polls.
	defaultPollInterval = 100 * time.Millisecond

	// defaultProgressInterval is the default interval between
	// progress log entries.
	defaultProgressInterval = 10 * time.Second
)

// A ReduceFunc folds a value into an accumulator. Reductions are
// applied left-to-right in domain order; a non-associative or
// non-commutative function therefore sees a deterministic order.
type ReduceFunc func(acc, v values.Value) values.Value

// An InitFunc supplies the initial accumulator for a reduction. When
// absent, a reduction seeds from its first value.
type InitFunc func() values.Value

// A RunOption configures a single run.
type RunOption func(*runConfig)

type runConfig struct {
	workerReduce ReduceFunc
	workerInit   InitFunc
	globalReduce ReduceFunc
	globalInit   InitFunc
	timeout      time.Duration
	progress     time.Duration
	snapPath     string
	snapEvery    int
}

// WithWorkerReduce folds each job's elements on the worker, so that
// only the folded value crosses back to the scheduler. If init is
// nil, the fold seeds from the job's first element and a job that
// retains no elements contributes nothing.
func WithWorkerReduce(fn ReduceFunc, init InitFunc) RunOption {
	return func(c *runConfig) {
		c.workerReduce = fn
		c.workerInit = init
	}
}

// WithGlobalReduce folds the reassembled per-job results, in domain
// order, into a single value. If init is nil, the fold seeds from
// the first result; folding no results yields no reduced value.
func WithGlobalReduce(fn ReduceFunc, init InitFunc) RunOption {
	return func(c *runConfig) {
		c.globalReduce = fn
		c.globalInit = init
	}
}

// WithTimeout bounds the run by the provided wall-clock duration.
// On expiry the run stops dispatching, abandons unfinished jobs, and
// returns the completed prefix of results without error. A zero
// duration means no bound.
func WithTimeout(d time.Duration) RunOption {
	return func(c *runConfig) { c.timeout = d }
}

// WithProgress sets the interval between progress log entries.
func WithProgress(d time.Duration) RunOption {
	return func(c *runConfig) { c.progress = d }
}

// WithSnapshots writes a snapshot of the results completed so far
// under prefix after every n completed jobs. Snapshot failures are
// logged, not fatal.
func WithSnapshots(prefix string, n int) RunOption {
	return func(c *runConfig) {
		c.snapPath = prefix
		c.snapEvery = n
	}
}

// sched dispatches the domain's jobs to the session's executor and
// polls for completions, reassembling results in domain order. It is
// the sole consumer of the completion queue; executor workers are
// its producers.
func sched(ctx context.Context, sess *Session, domain bigenum.Domain, cfg runConfig, group *status.Group) (*Result, error) {
	steps, ok := domain.Steps()
	if !ok {
		return nil, bigenum.ErrUnbounded
	}
	workers := sess.executor.WorkerCount()
	if workers <= 0 {
		return nil, ErrNoWorkers
	}
	jobs := partition(steps, workers)
	for _, job := range jobs {
		job.Do = jobDo(domain, job.StartIndex, job.Size, cfg.workerReduce, cfg.workerInit)
	}
	var (
		sub       = NewJobSubscriber()
		completed = make([]*Job, 0, len(jobs))
		inflight  int
		next      int
		stepsDone int64
		elemsDone int64
		timedOut  bool
		canceled  bool
		deadline  time.Time
		progress  = newProgressLogger(domain, cfg.progress)
		saver     *resultSaver

		njob  = sess.stats.Int("jobs")
		nstep = sess.stats.Int("steps")
		nelem = sess.stats.Int("elems")
	)
	if cfg.timeout > 0 {
		deadline = time.Now().Add(cfg.timeout)
	}
	if cfg.snapPath != "" && cfg.snapEvery > 0 {
		saver = newResultSaver(cfg.snapPath, cfg.snapEvery)
		saver.snaps = sess.stats.Int("snapshots")
		defer saver.wait()
	}
	submit := func() {
		for inflight < workers*sess.inflight && next < len(jobs) {
			job := jobs[next]
			job.Status = group.Startf("[%d, %d)", job.StartIndex, job.StartIndex+job.Size)
			job.Subscribe(sub)
			sess.executor.Run(job)
			next++
			inflight++
		}
	}
	submit()
poll:
	for len(completed) < len(jobs) {
		if ctx.Err() != nil {
			canceled = true
			break
		}
		if !deadline.IsZero() && !time.Now().Before(deadline) {
			timedOut = true
			break
		}
		changed := sub.Jobs()
		if len(changed) == 0 {
			select {
			case <-ctx.Done():
				canceled = true
				break poll
			case <-time.After(sess.poll):
			}
			continue
		}
		for _, job := range changed {
			switch job.State() {
			case JobOk:
				job.Status.Done()
				completed = append(completed, job)
				inflight--
				stepsDone += job.Size
				elemsDone += int64(len(job.Result()))
				njob.Add(1)
				nstep.Add(job.Size)
				nelem.Add(int64(len(job.Result())))
				progress.jobDone(len(completed), len(jobs), stepsDone, elemsDone)
				if saver != nil {
					saver.jobDone(ctx, job)
				}
			case JobErr:
				job.Status.Done()
				return nil, job.Err()
			}
		}
		submit()
		group.Printf("jobs: %d/%d", len(completed), len(jobs))
	}
	if timedOut || canceled {
		// Jobs that finished before the deadline but were not yet
		// fetched still count.
		for _, job := range sub.Jobs() {
			if job.State() == JobOk {
				job.Status.Done()
				completed = append(completed, job)
				njob.Add(1)
				nstep.Add(job.Size)
				nelem.Add(int64(len(job.Result())))
			}
		}
	}
	sort.Slice(completed, func(i, j int) bool {
		return completed[i].StartIndex < completed[j].StartIndex
	})
	return assemble(domain, completed, cfg, timedOut, canceled), nil
}

// jobDo returns the closure run on a worker for the window
// [start, start+size): enumerate the window, folding elements as
// they arrive when a worker reduction is configured.
func jobDo(domain bigenum.Domain, start, size int64, reduce ReduceFunc, init InitFunc) func(ctx context.Context) ([]values.Value, error) {
	return func(ctx context.Context) ([]values.Value, error) {
		reader := domain.Iterate(start, start+size)
		if reduce == nil {
			var vs []values.Value
			err := enumio.ReadAll(ctx, reader, &vs)
			return vs, err
		}
		var (
			acc  values.Value
			have bool
			buf  = make([]values.Value, defaultChunksize)
		)
		if init != nil {
			acc, have = init(), true
		}
		for {
			n, err := reader.Read(ctx, buf)
			for i := 0; i < n; i++ {
				if !have {
					acc, have = buf[i], true
				} else {
					acc = reduce(acc, buf[i])
				}
			}
			if err == enumio.EOF {
				break
			}
			if err != nil {
				return nil, err
			}
		}
		if !have {
			return nil, nil
		}
		return []values.Value{acc}, nil
	}
}

// assemble reassembles completed jobs, already sorted by start
// index, into the run's result: per-job results are concatenated,
// trimmed to the domain's declared size when no worker reduction ran,
// and finally folded by the global reduction if one is configured.
func assemble(domain bigenum.Domain, jobs []*Job, cfg runConfig, timedOut, canceled bool) *Result {
	var vs []values.Value
	for _, job := range jobs {
		vs = append(vs, job.Result()...)
	}
	if cfg.workerReduce == nil {
		if size, ok := domain.Size(); ok && int64(len(vs)) > size {
			vs = vs[:size]
		}
	}
	result := &Result{vals: vs, timedOut: timedOut, canceled: canceled}
	if cfg.globalReduce != nil && (len(vs) > 0 || cfg.globalInit != nil) {
		var (
			acc  values.Value
			have bool
		)
		if cfg.globalInit != nil {
			acc, have = cfg.globalInit(), true
		}
		for _, v := range vs {
			if !have {
				acc, have = v, true
			} else {
				acc = cfg.globalReduce(acc, v)
			}
		}
		result.reduced, result.hasReduced = acc, have
	}
	return result
}
