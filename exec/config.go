// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package exec

import (
	"time"

	"github.com/grailbio/base/config"
)

func init() {
	config.Register("bigenum", func(inst *config.Instance) {
		sess := newSession()
		var pollMs int
		inst.IntVar(&sess.p, "parallelism", 1, "number of workers enumerating jobs")
		inst.IntVar(&sess.inflight, "inflight", defaultInflight, "per-worker bound on dispatched jobs")
		inst.IntVar(&pollMs, "poll-interval-ms", int(defaultPollInterval/time.Millisecond), "scheduler sleep between empty completion polls")
		inst.Doc = "bigenum configures the bigenum runtime"
		inst.New = func() (interface{}, error) {
			sess.poll = time.Duration(pollMs) * time.Millisecond
			sess.executor = newLocalExecutor()
			sess.start()
			return sess, nil
		}
	})
}
