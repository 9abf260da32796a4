// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package bigenum_test

import (
	"context"
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/bigenum"
	"github.com/grailbio/bigenum/enumio"
	"github.com/grailbio/bigenum/values"
)

func generateN(t *testing.T, domain bigenum.Domain, n int) []values.Value {
	t.Helper()
	var vs []values.Value
	if err := enumio.ReadAll(context.Background(), domain.Generate(n), &vs); err != nil {
		t.Fatalf("%s: %v", domain.Name(), err)
	}
	if got, want := len(vs), n; got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
	return vs
}

func TestGenerate(t *testing.T) {
	for _, v := range generateN(t, bigenum.Range(100), 50) {
		if i := v.(int64); i < 0 || i >= 100 {
			t.Errorf("sampled %v outside the domain", i)
		}
	}
}

func TestGenerateFiltered(t *testing.T) {
	d := bigenum.Filter(bigenum.Range(100), even)
	for _, v := range generateN(t, d, 20) {
		if i := v.(int64); i%2 != 0 {
			t.Errorf("sampled %v outside the domain", i)
		}
	}
}

func TestGenerateComposite(t *testing.T) {
	d := bigenum.Product(bigenum.Range(3), bigenum.Range(4))
	var members values.Set
	for _, v := range collect(t, d) {
		members.Add(v)
	}
	for _, v := range generateN(t, d, 25) {
		if !members.Contains(v) {
			t.Errorf("sampled %v outside the domain", v)
		}
	}
}

func TestGenerateTakeFiltered(t *testing.T) {
	d := bigenum.Take(bigenum.Filter(bigenum.Range(10), even), 3)
	// The prefix is 0, 2, 4.
	for _, v := range generateN(t, d, 20) {
		if i := v.(int64); i != 0 && i != 2 && i != 4 {
			t.Errorf("sampled %v outside the take prefix", i)
		}
	}
}

func TestGenerateEmpty(t *testing.T) {
	ctx := context.Background()
	var vs []values.Value
	err := enumio.ReadAll(ctx, bigenum.Range(0).Generate(1), &vs)
	if err == nil || !errors.Is(errors.Unavailable, err) {
		t.Errorf("got %v, want unavailable", err)
	}
}

func TestGenerateSparse(t *testing.T) {
	ctx := context.Background()
	d := bigenum.Filter(bigenum.Range(1000), func(values.Value) bool { return false })
	var vs []values.Value
	err := enumio.ReadAll(ctx, d.Generate(1), &vs)
	if err == nil || !errors.Is(errors.Unavailable, err) {
		t.Errorf("got %v, want unavailable", err)
	}
}

func TestGenerateUnbounded(t *testing.T) {
	ctx := context.Background()
	u := bigenum.Product(bigenum.Range(4000000000), bigenum.Range(4000000000))
	var vs []values.Value
	if got, want := enumio.ReadAll(ctx, u.Generate(1), &vs), bigenum.ErrUnbounded; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestGenerateZero(t *testing.T) {
	var vs []values.Value
	if err := enumio.ReadAll(context.Background(), bigenum.Range(10).Generate(0), &vs); err != nil {
		t.Fatal(err)
	}
	if len(vs) != 0 {
		t.Errorf("got %v, want none", vs)
	}
}
