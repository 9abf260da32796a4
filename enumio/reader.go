// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package enumio provides the iteration primitives used to consume
// enumerated domains: vectorized readers over canonical values, an
// EOF protocol, and a record scanner.
package enumio

import (
	"context"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/bigenum/values"
)

// DefaultChunksize is the default size used for read vectors within
// the enumio package.
const defaultChunksize = 1024

// EOF is the error returned by Reader.Read when no more elements are
// available. EOF is intended as a sentinel error: it signals a
// graceful end of output. If output terminates unexpectedly, a
// different error should be returned.
var EOF = errors.New("EOF")

// A Reader represents a stateful stream of enumerated elements. Each
// call to Read reads the next batch of available elements.
type Reader interface {
	// Read reads a vector of elements into out, returning the number
	// of elements read, or an error. When no more elements are
	// available, Read returns EOF. Read may return EOF when n > 0; in
	// this case, n elements were read, but no more are available.
	//
	// Read should not be called concurrently.
	Read(ctx context.Context, out []values.Value) (int, error)
}

type multiReader struct {
	q   []Reader
	err error
}

// MultiReader returns a Reader that's the logical concatenation of
// the provided input readers. Once every underlying Reader has
// returned EOF, Read will return EOF, too. Non-EOF errors are
// returned immediately.
func MultiReader(readers ...Reader) Reader {
	return &multiReader{q: readers}
}

func (m *multiReader) Read(ctx context.Context, out []values.Value) (n int, err error) {
	if m.err != nil {
		return 0, m.err
	}
	for len(m.q) > 0 {
		n, err := m.q[0].Read(ctx, out)
		switch {
		case err == EOF:
			// The final batch of a reader may arrive with its EOF.
			m.q = m.q[1:]
			if n > 0 {
				return n, nil
			}
		case err != nil:
			m.err = err
			return n, err
		case n > 0:
			return n, err
		}
	}
	return 0, EOF
}

// A valuesReader reads from a single slice of elements.
type valuesReader struct {
	vs []values.Value
}

// ValuesReader returns a Reader that reads the provided elements to
// completion.
func ValuesReader(vs []values.Value) Reader {
	return &valuesReader{vs}
}

func (v *valuesReader) Read(ctx context.Context, out []values.Value) (int, error) {
	n := copy(out, v.vs)
	v.vs = v.vs[n:]
	if len(v.vs) == 0 {
		return n, EOF
	}
	return n, nil
}

// ReadAll reads reader r to completion, appending its elements to
// *vs.
func ReadAll(ctx context.Context, r Reader, vs *[]values.Value) error {
	buf := make([]values.Value, defaultChunksize)
	for {
		n, err := r.Read(ctx, buf)
		if err != nil && err != EOF {
			return err
		}
		*vs = append(*vs, buf[:n]...)
		if err == EOF {
			return nil
		}
	}
}

// ReadFull reads len(out) elements. ReadFull reads short only on
// EOF.
func ReadFull(ctx context.Context, r Reader, out []values.Value) (n int, err error) {
	for n < len(out) {
		m, err := r.Read(ctx, out[n:])
		n += m
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// An errReader is a reader that only returns errors.
type errReader struct{ Err error }

// ErrReader returns a reader that returns the provided error
// on every call to read. ErrReader panics if err is nil.
func ErrReader(err error) Reader {
	if err == nil {
		panic("nil error")
	}
	return &errReader{err}
}

func (e errReader) Read(ctx context.Context, out []values.Value) (int, error) {
	return 0, e.Err
}

// EmptyReader returns an EOF.
type EmptyReader struct{}

func (EmptyReader) Read(ctx context.Context, out []values.Value) (int, error) {
	return 0, EOF
}
