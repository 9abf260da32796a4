// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/grailbio/bigenum"
	"github.com/grailbio/bigenum/exec"
	"github.com/grailbio/bigenum/values"
)

// safe reports whether no two queens of the placement share a
// diagonal. The placement is a permutation of columns indexed by row,
// so rows and columns are distinct by construction.
func safe(v values.Value) bool {
	t := v.(values.Tuple)
	for i := range t {
		for j := i + 1; j < len(t); j++ {
			d := t[i].(int64) - t[j].(int64)
			if d < 0 {
				d = -d
			}
			if d == int64(j-i) {
				return false
			}
		}
	}
	return true
}

func queens(sess *exec.Session, args []string) error {
	var (
		flags = flag.NewFlagSet("queens", flag.ExitOnError)
		n     = flags.Int64("n", 8, "size of the board")
	)
	flags.Usage = func() {
		fmt.Fprintln(os.Stderr, `usage: bigenum queens [-n N]`)
		flags.PrintDefaults()
		os.Exit(2)
	}
	if err := flags.Parse(args); err != nil {
		return err
	}
	var (
		domain = bigenum.Filter(bigenum.Permutations(bigenum.Range(*n)), safe)
		zero   = func() values.Value { return int64(0) }
		count  = func(acc, _ values.Value) values.Value { return acc.(int64) + 1 }
		sum    = func(acc, v values.Value) values.Value { return acc.(int64) + v.(int64) }
	)
	res, err := sess.Run(context.Background(), domain,
		exec.WithWorkerReduce(count, zero),
		exec.WithGlobalReduce(sum, zero))
	if err != nil {
		return err
	}
	total, _ := res.Reduced()
	fmt.Printf("%d-queens: %d solutions\n", *n, total)
	return nil
}
