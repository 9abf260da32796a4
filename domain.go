// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package bigenum

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/bigenum/enumio"
	"github.com/grailbio/bigenum/values"
)

// ErrUnbounded is returned by operations that require a bounded
// step space, such as collecting or scheduling a domain whose
// addressable positions overflow an int64.
var ErrUnbounded = errors.E(errors.NotSupported, "domain is unbounded")

// A Domain is an ordered, lazily enumerated combinatorial
// collection. Domains are composed from primitive domains (ranges,
// literal values, atom sets) by operators like Map, Filter, Take,
// Product, and Join; composition is cheap and performs no
// enumeration.
//
// A domain's elements are addressed by positions in its step space,
// the half-open interval [0, Steps()). For a strict domain every
// position yields exactly one element, so Steps equals Size and any
// window of elements can be produced in O(1) time after index
// arithmetic. A filtered domain retains the position space of its
// parent but not every position yields an element; windows then cost
// time proportional to positions scanned, not elements returned.
type Domain interface {
	// Name returns a displayable name describing the domain's
	// composition.
	Name() string

	// Size returns the number of elements in the domain. For
	// filtered domains the exact count is unknown until scanned, and
	// Size returns false; for a Take over a filtered parent, Size
	// returns the declared cap, which is an upper bound.
	Size() (int64, bool)

	// Steps returns the length of the domain's addressable position
	// space. Steps returns false when the position space cannot be
	// represented in an int64.
	Steps() (int64, bool)

	// Filtered returns true if some positions may not yield an
	// element.
	Filtered() bool

	// Strict returns true if the domain's size is known exactly and
	// every position yields an element.
	Strict() bool

	// Iterate returns a reader over the elements at positions
	// [start, stop). The window is clamped to the domain's step
	// space. A negative start or a stop smaller than start yields a
	// reader that returns an Invalid error.
	Iterate(start, stop int64) enumio.Reader

	// Generate returns a reader of n elements sampled independently
	// and uniformly at random. Sampling a filtered domain retries
	// until a retained element is found; a domain too sparse to
	// sample, or an empty one, yields an Unavailable error.
	Generate(n int) enumio.Reader
}

// checkWindow validates [start, stop) against d's step space,
// clamping stop. The returned reader is non-nil for windows that can
// be answered without enumeration: invalid windows and empty ones.
func checkWindow(d Domain, start, stop int64) (int64, int64, enumio.Reader) {
	if start < 0 || stop < start {
		err := errors.E(errors.Invalid, fmt.Sprintf("%s: invalid window [%d, %d)", d.Name(), start, stop))
		return 0, 0, enumio.ErrReader(err)
	}
	if steps, ok := d.Steps(); ok && stop > steps {
		stop = steps
	}
	if start >= stop {
		return start, stop, enumio.EmptyReader{}
	}
	return start, stop, nil
}

// readOne reads the element at position pos of d. The returned
// boolean is false when the position yields no element, as happens
// on filtered positions.
func readOne(ctx context.Context, d Domain, pos int64) (values.Value, bool, error) {
	var buf [1]values.Value
	n, err := d.Iterate(pos, pos+1).Read(ctx, buf[:])
	if err != nil && err != enumio.EOF {
		return nil, false, err
	}
	if n == 0 {
		return nil, false, nil
	}
	return buf[0], true, nil
}

// maxGenerateAttempts bounds rejection sampling on filtered domains.
// A domain sparser than one retained element per this many positions
// is reported Unavailable rather than spinning.
const maxGenerateAttempts = 64

// generate returns the generic positional sampler for d: each
// element is drawn by sampling a position uniformly from the step
// space and enumerating it, retrying filtered misses.
func generate(d Domain, n int) enumio.Reader {
	return &generateReader{
		domain: d,
		n:      n,
		rnd:    rand.New(rand.NewSource(rand.Int63())),
	}
}

type generateReader struct {
	domain Domain
	n      int
	rnd    *rand.Rand
}

func (g *generateReader) Read(ctx context.Context, out []values.Value) (int, error) {
	if g.n <= 0 {
		return 0, enumio.EOF
	}
	steps, ok := g.domain.Steps()
	if !ok {
		return 0, ErrUnbounded
	}
	if steps == 0 {
		return 0, errors.E(errors.Unavailable, fmt.Sprintf("%s: cannot sample an empty domain", g.domain.Name()))
	}
	var n int
	for n < len(out) && g.n > 0 {
		var (
			v     values.Value
			found bool
		)
		for attempt := 0; attempt < maxGenerateAttempts; attempt++ {
			var err error
			v, found, err = readOne(ctx, g.domain, g.rnd.Int63n(steps))
			if err != nil {
				return n, err
			}
			if found {
				break
			}
		}
		if !found {
			return n, errors.E(errors.Unavailable,
				fmt.Sprintf("%s: no retained element found in %d attempts", g.domain.Name(), maxGenerateAttempts))
		}
		out[n] = v
		n++
		g.n--
	}
	if g.n == 0 {
		return n, enumio.EOF
	}
	return n, nil
}

// named overrides a domain's display name. It is used by domains
// that are implemented by composition.
type named struct {
	Domain
	name string
}

func (n *named) Name() string { return n.name }
