// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package exec

// chunksPerWorker is the number of jobs created per worker. Windows
// are sized so that no single job dominates the run, while keeping
// per-job dispatch overhead small.
const chunksPerWorker = 4

// partition splits the step space [0, steps) into at most
// chunksPerWorker*workers contiguous jobs of near-equal size, the
// remainder going to the first jobs. The returned jobs cover the
// step space exactly, in order.
func partition(steps int64, workers int) []*Job {
	if steps <= 0 {
		return nil
	}
	njob := int64(workers) * chunksPerWorker
	if steps < njob {
		njob = steps
	}
	var (
		jobs  = make([]*Job, njob)
		quo   = steps / njob
		rem   = steps % njob
		start int64
	)
	for i := range jobs {
		size := quo
		if int64(i) < rem {
			size++
		}
		jobs[i] = &Job{StartIndex: start, Size: size}
		start += size
	}
	return jobs
}
