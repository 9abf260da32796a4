// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/grailbio/bigenum/example"
	"github.com/grailbio/bigenum/exec"
	"github.com/grailbio/bigenum/values"
)

func triples(sess *exec.Session, args []string) error {
	var (
		flags = flag.NewFlagSet("triples", flag.ExitOnError)
		n     = flags.Int64("n", 20, "largest side length")
	)
	flags.Usage = func() {
		fmt.Fprintln(os.Stderr, `usage: bigenum triples [-n N]`)
		flags.PrintDefaults()
		os.Exit(2)
	}
	if err := flags.Parse(args); err != nil {
		return err
	}
	ctx := context.Background()
	res, err := sess.Run(ctx, example.PythagoreanTriples(*n))
	if err != nil {
		return err
	}
	var (
		scanner = res.Scanner()
		v       values.Value
	)
	for scanner.Scan(ctx, &v) {
		fmt.Println(v)
	}
	return scanner.Err()
}
