// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package exec

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/grailbio/base/backgroundcontext"
	"github.com/grailbio/base/diagnostic/dump"
	"github.com/grailbio/base/eventlog"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/status"
	"github.com/grailbio/bigenum"
	"github.com/grailbio/bigenum/stats"
)

// Session represents a bigenum compute session. A session shares an
// executor and its worker pool, and is valid for the run of the
// binary. A session can run any number of enumerations, serially or
// concurrently.
//
// A session is started by the Start method:
//
//	func main() {
//		sess := exec.Start(exec.Parallelism(8))
//		defer sess.Shutdown()
//		res, err := sess.Run(ctx, bigenum.Permutations(bigenum.Range(10)))
//		if err != nil {
//			log.Fatal(err)
//		}
//		// Success!
//	}
type Session struct {
	context.Context
	index    int32
	shutdown func()
	p        int
	inflight int
	poll     time.Duration
	executor Executor
	status   *status.Status
	eventer  eventlog.Eventer
	stats    *stats.Map

	nrun int32
}

func newSession() *Session {
	return &Session{
		Context: backgroundcontext.Get(),
		index:   atomic.AddInt32(&nextSessionIndex, 1) - 1,
		eventer: eventlog.Nop{},
		stats:   stats.NewMap(),
	}
}

// An Option represents a session configuration parameter value.
type Option func(s *Session)

// Local configures a session with the local in-binary executor.
var Local Option = func(s *Session) {
	s.executor = newLocalExecutor()
}

// Parallelism configures the session with the provided worker
// pool size.
func Parallelism(p int) Option {
	if p <= 0 {
		panic("exec.Parallelism: p <= 0")
	}
	return func(s *Session) {
		s.p = p
	}
}

// Inflight configures the per-worker bound on dispatched jobs: at
// most p*n jobs are outstanding at a time.
func Inflight(n int) Option {
	if n <= 0 {
		panic("exec.Inflight: n <= 0")
	}
	return func(s *Session) {
		s.inflight = n
	}
}

// PollInterval configures how long the scheduler sleeps between
// polls of an empty completion queue.
func PollInterval(d time.Duration) Option {
	return func(s *Session) {
		s.poll = d
	}
}

// Status configures the session with a status object to which run
// statuses are reported.
func Status(status *status.Status) Option {
	return func(s *Session) {
		s.status = status

		name := fmt.Sprintf("bigenum-%02d-status", s.index)
		dump.Register(name, func(ctx context.Context, w io.Writer) error {
			return status.Marshal(w)
		})
	}
}

// Eventer configures the session with an Eventer that will be used
// to log session events (for analytics).
func Eventer(e eventlog.Eventer) Option {
	return func(s *Session) {
		s.eventer = e
	}
}

// nextSessionIndex is the index of the next session that will be
// started by Start. In general, there should be only one session per
// process, but we violate this in some tests.
var nextSessionIndex int32

// Start creates and starts a new bigenum session, configuring it
// according to the provided options. The returned session remains
// valid for the lifetime of the binary. If no executor is
// configured, the session uses the local executor.
func Start(options ...Option) *Session {
	s := newSession()
	for _, opt := range options {
		opt(s)
	}
	if s.p == 0 {
		s.p = 1
	}
	if s.inflight == 0 {
		s.inflight = defaultInflight
	}
	if s.poll == 0 {
		s.poll = defaultPollInterval
	}
	if s.executor == nil {
		s.executor = newLocalExecutor()
	}
	s.start()
	return s
}

func (s *Session) start() {
	s.shutdown = s.executor.Start(s)
	s.eventer.Event("bigenum:sessionStart",
		"command", command(),
		"parallelism", s.p,
		"inflight", s.inflight)
}

// Run enumerates the provided domain on the session's worker pool.
// The domain's step space is partitioned into contiguous jobs that
// are dispatched to workers; completed windows are reassembled in
// domain order. Run returns when the enumeration has completed, or
// else on error. It is safe to make concurrent calls to Run; the
// underlying enumerations are performed in parallel.
//
// If the run is configured with a timeout, or ctx is canceled, Run
// returns the partial result assembled from the jobs that completed
// in time; the Result reports how it was cut short.
func (s *Session) Run(ctx context.Context, domain bigenum.Domain, options ...RunOption) (*Result, error) {
	var cfg runConfig
	for _, opt := range options {
		opt(&cfg)
	}
	var group *status.Group
	if s.status != nil {
		group = s.status.Groupf("run %s [%d] jobs", domain.Name(), atomic.AddInt32(&s.nrun, 1)-1)
	}
	s.eventer.Event("bigenum:run",
		"domain", domain.Name(),
		"parallelism", s.p)
	s.stats.Int("runs").Add(1)
	return sched(ctx, s, domain, cfg, group)
}

// Must is a version of Run that panics if the enumeration fails.
func (s *Session) Must(ctx context.Context, domain bigenum.Domain, options ...RunOption) *Result {
	res, err := s.Run(ctx, domain, options...)
	if err != nil {
		log.Panicf("exec.Run: %v", err)
	}
	return res
}

// Parallelism returns the size of the session's worker pool.
func (s *Session) Parallelism() int {
	return s.p
}

// Shutdown tears down resources associated with this session. It
// should be called when the session is discarded.
func (s *Session) Shutdown() {
	if s.shutdown != nil {
		s.shutdown()
	}
}

// Status returns the session's status aggregator.
func (s *Session) Status() *status.Status {
	return s.status
}

// Stats returns a snapshot of the session's counters, cumulative
// over all of its runs.
func (s *Session) Stats() stats.Values {
	return s.stats.Values()
}
