// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package enumio

import (
	"context"

	"github.com/grailbio/bigenum/values"
)

// A Scanner provides a convenient interface for reading elements one
// at a time (e.g. from a domain window or a run result). Successive
// calls to Scan return the next element. Scanning stops when no more
// elements are available or if an error is encountered. Scan returns
// true while it's safe to continue scanning. When scanning is
// complete, the user should inspect the scanner's error to see if
// scanning stopped because of an EOF or because another error
// occurred.
type Scanner struct {
	Reader Reader

	err      error
	started  bool
	in       []values.Value
	beg, end int
}

// Scan the next element into *out. Scan returns true while no errors
// are encountered and there remains data to be scanned.
func (s *Scanner) Scan(ctx context.Context, out *values.Value) bool {
	if s.err != nil {
		return false
	}
	if !s.started {
		s.started = true
		s.in = make([]values.Value, defaultChunksize)
		s.beg, s.end = 0, 0
	}
	// Read the next batch of input.
	for s.beg == s.end {
		if s.Reader == nil {
			s.err = EOF
			return false
		}
		n, err := s.Reader.Read(ctx, s.in)
		if err != nil && err != EOF {
			s.err = err
			return false
		}
		s.beg, s.end = 0, n
		if err == EOF {
			s.Reader = nil
		}
	}
	*out = s.in[s.beg]
	s.beg++
	return true
}

// Scanv scans a batch of elements into out, returning the number of
// elements scanned together with a boolean indicating whether
// scanning should continue, as in Scan.
func (s *Scanner) Scanv(ctx context.Context, out []values.Value) (int, bool) {
	for i := range out {
		if !s.Scan(ctx, &out[i]) {
			return i, false
		}
	}
	return len(out), true
}

// Err returns any error that occurred while scanning.
func (s *Scanner) Err() error {
	if s.err == EOF {
		return nil
	}
	return s.err
}
