// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package exec

import (
	"context"
	"encoding/gob"
	"fmt"
	"io"
	"time"

	"github.com/grailbio/base/data"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/retry"
	"github.com/grailbio/bigenum/stats"
	"github.com/grailbio/bigenum/values"
	"golang.org/x/sync/errgroup"
)

var saverRetryPolicy = retry.Backoff(time.Second, 5*time.Second, 1.5)

const saverMaxTries = 3

// A resultSaver periodically persists the results completed so far,
// so that an interrupted run is not a total loss. Snapshots are gob
// encoded and written asynchronously under a file prefix, which may
// be any URL supported by grailfile (e.g., S3). Writes are
// best-effort: failures are retried a few times, then logged and
// dropped.
type resultSaver struct {
	prefix string
	every  int
	snaps  *stats.Int

	g errgroup.Group

	count int
	seq   int
	vals  []values.Value
}

func newResultSaver(prefix string, every int) *resultSaver {
	return &resultSaver{prefix: prefix, every: every}
}

// jobDone buffers the job's results and, on every n-th completion,
// snapshots all results buffered so far. Results are buffered in
// completion order.
func (r *resultSaver) jobDone(ctx context.Context, job *Job) {
	r.vals = append(r.vals, job.Result()...)
	r.count++
	if r.count%r.every != 0 {
		return
	}
	var (
		snap = make([]values.Value, len(r.vals))
		seq  = r.seq
	)
	copy(snap, r.vals)
	r.seq++
	r.g.Go(func() error {
		r.write(ctx, seq, snap)
		return nil
	})
}

// wait blocks until all in-flight snapshot writes have finished.
func (r *resultSaver) wait() {
	_ = r.g.Wait()
}

func (r *resultSaver) write(ctx context.Context, seq int, snap []values.Value) {
	path := file.Join(r.prefix, fmt.Sprintf("partial-%05d.gob", seq))
	for retries := 0; retries < saverMaxTries; retries++ {
		n, err := r.writeOnce(ctx, path, snap)
		if err == nil {
			r.snaps.Add(1)
			log.Debug.Printf("saved %d results (%s) to %s", len(snap), data.Size(n), path)
			return
		}
		log.Error.Printf("snapshot %s: %v", path, err)
		if err = retry.Wait(ctx, saverRetryPolicy, retries); err != nil {
			return
		}
	}
}

func (r *resultSaver) writeOnce(ctx context.Context, path string, snap []values.Value) (int64, error) {
	f, err := file.Create(ctx, path)
	if err != nil {
		return 0, err
	}
	w := countingWriter{w: f.Writer(ctx)}
	if err = gob.NewEncoder(&w).Encode(snap); err != nil {
		_ = f.Close(ctx)
		return 0, err
	}
	return w.n, f.Close(ctx)
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
