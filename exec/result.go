// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package exec

import (
	"github.com/grailbio/bigenum/enumio"
	"github.com/grailbio/bigenum/values"
)

// A Result is the output of a scheduled enumeration. It holds the
// completed job windows reassembled in domain order, or, when the
// run was configured with reduction, the reduced value.
type Result struct {
	vals       []values.Value
	reduced    values.Value
	hasReduced bool
	timedOut   bool
	canceled   bool
}

// Values returns the enumerated elements in domain order. When the
// run was cut short by a timeout or cancellation, Values returns the
// elements of the jobs that completed; the windows that are present
// are contiguous within themselves but the set of windows may have
// gaps.
func (r *Result) Values() []values.Value {
	return r.vals
}

// Reduced returns the final reduced value of a run configured with
// WithGlobalReduce. The boolean is false when the run was not
// reduced, or when reduction had no inputs and no initial value.
func (r *Result) Reduced() (values.Value, bool) {
	return r.reduced, r.hasReduced
}

// TimedOut returns whether the run was cut short by its configured
// timeout.
func (r *Result) TimedOut() bool {
	return r.timedOut
}

// Canceled returns whether the run was cut short by context
// cancellation.
func (r *Result) Canceled() bool {
	return r.canceled
}

// Scanner returns a scanner over the result's values.
func (r *Result) Scanner() *enumio.Scanner {
	return &enumio.Scanner{Reader: enumio.ValuesReader(r.vals)}
}
