// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package bigenum_test

import (
	"testing"

	"github.com/grailbio/bigenum"
	"github.com/grailbio/bigenum/values"
)

func TestMappings(t *testing.T) {
	var (
		keys     = bigenum.NewASet(2, "k")
		d        = bigenum.Mappings(keys, bigenum.Range(2))
		k0, k1   = keys.Atom(0), keys.Atom(1)
		mappings = func(v0, v1 int64) values.Value {
			return values.NewMap([]values.Pair{{Key: k0, Value: v0}, {Key: k1, Value: v1}})
		}
	)
	if got, want := d.Name(), "mappings(k, range(2))"; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if size, ok := d.Size(); !ok || size != 4 {
		t.Errorf("got %v, %v, want 4, true", size, ok)
	}
	// The leftmost key varies slowest.
	assertValues(t, collect(t, d), []values.Value{
		mappings(0, 0),
		mappings(0, 1),
		mappings(1, 0),
		mappings(1, 1),
	})
	assertValues(t, window(t, d, 1, 3), []values.Value{
		mappings(0, 1),
		mappings(1, 0),
	})
}

func TestMappingsEmpty(t *testing.T) {
	d := bigenum.Mappings(bigenum.Range(0), bigenum.Range(3))
	if size, ok := d.Size(); !ok || size != 1 {
		t.Errorf("got %v, %v, want 1, true", size, ok)
	}
	assertValues(t, collect(t, d), []values.Value{values.NewMap(nil)})

	d = bigenum.Mappings(bigenum.Range(2), bigenum.Range(0))
	if size, ok := d.Size(); !ok || size != 0 {
		t.Errorf("got %v, %v, want 0, true", size, ok)
	}
	assertValues(t, collect(t, d), nil)
}

func TestMappingsOverflow(t *testing.T) {
	d := bigenum.Mappings(bigenum.Range(64), bigenum.Range(2))
	if _, ok := d.Steps(); ok {
		t.Fatal("expected unbounded steps")
	}
	if d.Strict() {
		t.Error("an unbounded mapping domain must not be strict")
	}
}

func TestMappingsErrors(t *testing.T) {
	f := bigenum.Filter(bigenum.Range(3), even)
	expectDomainError(t, "mappings: key domain filter(range(3)) is not strict", func() { bigenum.Mappings(f, bigenum.Range(2)) })
	expectDomainError(t, "mappings: value domain filter(range(3)) is not strict", func() { bigenum.Mappings(bigenum.Range(2), f) })
}
