// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package exec

import (
	"time"

	"github.com/grailbio/base/log"
	"github.com/grailbio/bigenum"
)

// A progressLogger reports run progress on job completions,
// rate-limited to one log entry per interval.
type progressLogger struct {
	name     string
	interval time.Duration
	last     time.Time
}

func newProgressLogger(domain bigenum.Domain, interval time.Duration) *progressLogger {
	if interval <= 0 {
		interval = defaultProgressInterval
	}
	return &progressLogger{
		name:     domain.Name(),
		interval: interval,
		last:     time.Now(),
	}
}

func (p *progressLogger) jobDone(done, total int, steps, elems int64) {
	if time.Since(p.last) < p.interval {
		return
	}
	p.last = time.Now()
	log.Printf("run %s: %d/%d jobs done, %d steps enumerated, %d values", p.name, done, total, steps, elems)
}
