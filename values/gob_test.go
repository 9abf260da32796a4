// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package values

import (
	"bytes"
	"encoding/gob"
	"testing"
)

// TestGob verifies that canonical values survive gob, as result
// snapshots encode them behind the Value interface.
func TestGob(t *testing.T) {
	a := Atom{Set: "a", Index: 2}
	vs := []Value{
		int64(42),
		3.25,
		"hello",
		a,
		Tuple{int64(1), "x", a},
		NewMap([]Pair{{a, Tuple{int64(7)}}, {int64(0), "zero"}}),
		Tuple{},
		NewMap(nil),
	}
	var b bytes.Buffer
	if err := gob.NewEncoder(&b).Encode(vs); err != nil {
		t.Fatal(err)
	}
	var got []Value
	if err := gob.NewDecoder(bytes.NewReader(b.Bytes())).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if len(got) != len(vs) {
		t.Fatalf("got %d values, want %d", len(got), len(vs))
	}
	for i := range vs {
		if !Equal(got[i], vs[i]) {
			t.Errorf("value %d: got %v, want %v", i, got[i], vs[i])
		}
	}
	m, ok := got[5].(Map)
	if !ok {
		t.Fatalf("got %T, want Map", got[5])
	}
	if v, ok := m.Get(a); !ok || !Equal(v, Tuple{int64(7)}) {
		t.Errorf("got %v, %v after decode", v, ok)
	}
}
