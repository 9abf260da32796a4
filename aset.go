// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package bigenum

import (
	"context"

	"github.com/grailbio/bigenum/enumcheck"
	"github.com/grailbio/bigenum/enumio"
	"github.com/grailbio/bigenum/values"
)

// An ASet mints a finite set of atoms sharing a label. Atoms are
// opaque interchangeable tokens; they carry no structure beyond
// their set name and index, and are used to enumerate structures up
// to relabeling. An ASet is itself a strict domain enumerating its
// atoms in index order.
type ASet struct {
	name string
	n    int
}

// NewASet returns an atom set of n atoms labeled name.
func NewASet(n int, name string) *ASet {
	if n < 0 {
		enumcheck.Panicf(1, "aset: negative size %d", n)
	}
	if name == "" {
		enumcheck.Panic(1, "aset: empty name")
	}
	return &ASet{name: name, n: n}
}

// Atom returns the i'th atom of the set.
func (s *ASet) Atom(i int) values.Atom {
	if i < 0 || i >= s.n {
		enumcheck.Panicf(1, "aset: atom %d out of range [0, %d)", i, s.n)
	}
	return values.Atom{Set: s.name, Index: i}
}

// All returns all atoms of the set in index order.
func (s *ASet) All() []values.Atom {
	atoms := make([]values.Atom, s.n)
	for i := range atoms {
		atoms[i] = values.Atom{Set: s.name, Index: i}
	}
	return atoms
}

func (s *ASet) Name() string { return s.name }

func (s *ASet) Size() (int64, bool) { return int64(s.n), true }

func (s *ASet) Steps() (int64, bool) { return int64(s.n), true }

func (s *ASet) Filtered() bool { return false }

func (s *ASet) Strict() bool { return true }

func (s *ASet) Iterate(start, stop int64) enumio.Reader {
	start, stop, errr := checkWindow(s, start, stop)
	if errr != nil {
		return errr
	}
	return &asetReader{op: s, pos: start, stop: stop}
}

func (s *ASet) Generate(n int) enumio.Reader { return generate(s, n) }

type asetReader struct {
	op        *ASet
	pos, stop int64
}

func (r *asetReader) Read(ctx context.Context, out []values.Value) (int, error) {
	var n int
	for n < len(out) && r.pos < r.stop {
		out[n] = values.Atom{Set: r.op.name, Index: int(r.pos)}
		n++
		r.pos++
	}
	if r.pos >= r.stop {
		return n, enumio.EOF
	}
	return n, nil
}
