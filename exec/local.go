// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package exec

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/grailbio/base/backgroundcontext"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/limiter"
	"github.com/grailbio/base/log"
	"github.com/grailbio/bigenum/values"
)

// LocalExecutor runs jobs in-process in separate goroutines,
// emulating a worker pool of the session's parallelism. All results
// are buffered in memory.
type localExecutor struct {
	limiter *limiter.Limiter
	sess    *Session
}

func newLocalExecutor() *localExecutor {
	return &localExecutor{limiter: limiter.New()}
}

func (l *localExecutor) Start(sess *Session) (shutdown func()) {
	l.sess = sess
	l.limiter.Release(sess.p)
	return
}

func (l *localExecutor) WorkerCount() int {
	return l.sess.p
}

func (l *localExecutor) Run(job *Job) {
	job.Lock()
	switch job.state {
	case JobWaiting, JobRunning:
		job.Unlock()
		return
	}
	job.state = JobWaiting
	job.Broadcast()
	job.Unlock()
	go l.run(job)
}

func (l *localExecutor) run(job *Job) {
	ctx := backgroundcontext.Get()
	if err := l.limiter.Acquire(ctx, 1); err != nil {
		// The only errors we should encounter here are context
		// errors, in which case there is no more work to do.
		if err != context.Canceled && err != context.DeadlineExceeded {
			log.Panicf("exec.Local: unexpected error: %v", err)
		}
		return
	}
	defer l.limiter.Release(1)
	job.Set(JobRunning)
	result, err := doJob(ctx, job)
	if err != nil {
		job.Error(err)
		return
	}
	job.Done(result)
}

// doJob invokes the job's Do, converting panics in user code into
// fatal errors so that a failing closure fails the run rather than
// the process.
func doJob(ctx context.Context, job *Job) (result []values.Value, err error) {
	defer func() {
		if e := recover(); e != nil {
			stack := debug.Stack()
			err = fmt.Errorf("panic while enumerating %s: %v\n%s", job, e, string(stack))
			err = errors.E(err, errors.Fatal)
		}
	}()
	return job.Do(ctx)
}
