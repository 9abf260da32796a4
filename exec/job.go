// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package exec

import (
	"context"
	"fmt"
	"sync"

	"github.com/grailbio/base/status"
	"github.com/grailbio/base/sync/ctxsync"
	"github.com/grailbio/bigenum/values"
)

func init() {
	close(closedc)
}

// closedc is closed in init which can be used any time we just want a
// closed channel (i.e., a channel that is always ready and receives a
// zero value).
var closedc = make(chan struct{})

// JobState represents the runtime state of a Job. JobState values
// are defined so that their magnitudes correspond with job
// progression.
type JobState int

const (
	// JobInit is the initial state of a job. Jobs in state JobInit
	// have not yet been handed to an executor.
	JobInit JobState = iota

	// JobWaiting indicates that a job has been handed to an executor
	// but has not yet been allocated a worker.
	JobWaiting
	// JobRunning is the state of a job that is currently enumerating
	// its window. After a job is in state JobRunning, it can only
	// enter a larger-valued state.
	JobRunning

	// JobOk indicates that a job has successfully completed and its
	// result is attached.
	JobOk

	// JobErr indicates that the job experienced a failure while
	// running.
	JobErr

	maxState
)

var states = [...]string{
	JobInit:    "INIT",
	JobWaiting: "WAITING",
	JobRunning: "RUNNING",
	JobOk:      "OK",
	JobErr:     "ERROR",
}

// String returns the job's state as an upper-case string.
func (s JobState) String() string {
	return states[s]
}

// A JobSubscriber is subscribed to jobs using Subscribe. It is then
// notified whenever a job's state changes, and acts as the
// completion queue between executor-owned workers (the producers)
// and the scheduler's poll loop (the sole consumer).
type JobSubscriber struct {
	sync.Mutex
	cond *ctxsync.Cond

	// jobs holds the set of jobs that has changed since the last call
	// to Jobs.
	jobs map[*Job]struct{}
}

// NewJobSubscriber returns a new JobSubscriber. It must be
// subscribed to a job with Subscribe for it to be notified of that
// job's state changes.
func NewJobSubscriber() *JobSubscriber {
	s := &JobSubscriber{jobs: make(map[*Job]struct{})}
	s.cond = ctxsync.NewCond(s)
	return s
}

// Notify notifies s of a job whose state has changed.
func (s *JobSubscriber) Notify(job *Job) {
	s.Lock()
	defer s.Unlock()
	s.jobs[job] = struct{}{}
	s.cond.Broadcast()
}

// Ready returns a channel that is closed if a subsequent call to
// Jobs will return a non-nil slice.
func (s *JobSubscriber) Ready() <-chan struct{} {
	s.Lock()
	if len(s.jobs) > 0 {
		s.Unlock()
		return closedc
	}
	return s.cond.Done()
}

// Jobs returns the jobs whose state has changed since the last call
// to Jobs. It does not block.
func (s *JobSubscriber) Jobs() []*Job {
	s.Lock()
	defer s.Unlock()
	jobs := make([]*Job, 0, len(s.jobs))
	for job := range s.jobs {
		jobs = append(jobs, job)
	}
	s.jobs = make(map[*Job]struct{})
	return jobs
}

// A Job is a contiguous window of a domain's step space, dispatched
// to a worker for enumeration and optional worker-side reduction.
// Jobs coordinate execution between the scheduler and a single
// executor: they embed a mutex for coordination and provide a
// context-aware condition variable to coordinate runtime state
// changes.
//
// A job's result is attached exactly once, by the executor, when the
// job transitions to JobOk.
type Job struct {
	// StartIndex is the first step position of the job's window.
	StartIndex int64
	// Size is the number of step positions in the job's window.
	Size int64
	// Do computes the job's result: the elements at the job's window,
	// already folded when a worker reduction is configured.
	Do func(ctx context.Context) ([]values.Value, error)

	// Status is a status object to which job status is reported.
	Status *status.Task

	// subs is the set of subscribers to which this job will be sent
	// whenever its state changes.
	subs []*JobSubscriber

	// The following coordinate runtime execution.

	sync.Mutex
	waitc chan struct{}

	// state is the job's state. It is protected by the job's lock and
	// state changes are also broadcast on the job's condition
	// variable.
	state JobState
	// err is defined when state == JobErr.
	err error
	// result holds the job's output once state == JobOk.
	result []values.Value
}

// String returns a short, human-readable string describing the
// job's state.
func (j *Job) String() string {
	// State and err are read without the lock so that String is safe
	// to call while it is held.
	s := fmt.Sprintf("job [%d, %d) %s", j.StartIndex, j.StartIndex+j.Size, j.state)
	if j.err != nil {
		s += ": " + j.err.Error()
	}
	return s
}

// Set sets the job's state to the provided state and notifies any
// waiters.
func (j *Job) Set(state JobState) {
	j.Lock()
	j.state = state
	j.Broadcast()
	j.Unlock()
}

// Done attaches the job's result, transitions it to JobOk, and
// notifies any waiters.
func (j *Job) Done(result []values.Value) {
	j.Lock()
	j.result = result
	j.state = JobOk
	j.Broadcast()
	j.Unlock()
}

// Error sets the job's state to JobErr and its error to the provided
// error. Waiters are notified.
func (j *Job) Error(err error) {
	j.Lock()
	j.state = JobErr
	j.err = err
	j.Status.Printf(err.Error())
	j.Broadcast()
	j.Unlock()
}

// Errorf formats an error message using fmt.Errorf, sets the job's
// state to JobErr and its err to the resulting error message.
func (j *Job) Errorf(format string, v ...interface{}) {
	j.Error(fmt.Errorf(format, v...))
}

// Err returns the job's error, if any. Err returns nil unless the
// job's state is JobErr.
func (j *Job) Err() error {
	j.Lock()
	defer j.Unlock()
	if j.state == JobErr {
		if j.err == nil {
			panic("JobErr without an err")
		}
		return j.err
	}
	return nil
}

// State returns the job's current state.
func (j *Job) State() JobState {
	j.Lock()
	state := j.state
	j.Unlock()
	return state
}

// Result returns the job's attached result. It is valid only after
// the job has entered state JobOk.
func (j *Job) Result() []values.Value {
	j.Lock()
	result := j.result
	j.Unlock()
	return result
}

// Broadcast notifies waiters of a state change. Broadcast must only
// be called while the job's lock is held.
func (j *Job) Broadcast() {
	if j.waitc != nil {
		close(j.waitc)
		j.waitc = nil
	}
	for _, sub := range j.subs {
		sub.Notify(j)
	}
}

// Wait returns after the next call to Broadcast, or if the context
// is complete. The job's lock must be held when calling Wait.
func (j *Job) Wait(ctx context.Context) error {
	if j.waitc == nil {
		j.waitc = make(chan struct{})
	}
	waitc := j.waitc
	j.Unlock()
	var err error
	select {
	case <-waitc:
	case <-ctx.Done():
		err = ctx.Err()
	}
	j.Lock()
	return err
}

// WaitState returns when the job's state is at least the provided
// state, or else when the context is done.
func (j *Job) WaitState(ctx context.Context, state JobState) (JobState, error) {
	j.Lock()
	defer j.Unlock()
	var err error
	for j.state < state && err == nil {
		err = j.Wait(ctx)
	}
	return j.state, err
}

// Subscribe subscribes s to be notified of any changes to j's state.
// If s has already been subscribed, no-op.
func (j *Job) Subscribe(s *JobSubscriber) {
	j.Lock()
	defer j.Unlock()
	for _, sub := range j.subs {
		if s == sub {
			return
		}
	}
	j.subs = append(j.subs, s)
}

// Unsubscribe unsubscribes previously subscribed s. s will no longer
// be notified of j's state changes.
func (j *Job) Unsubscribe(s *JobSubscriber) {
	j.Lock()
	defer j.Unlock()
	for i, sub := range j.subs {
		if s == sub {
			j.subs[i] = j.subs[len(j.subs)-1]
			j.subs = j.subs[:len(j.subs)-1]
			return
		}
	}
}
