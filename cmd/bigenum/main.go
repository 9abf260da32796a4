// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Bigenum is a demo program that runs combinatorial enumerations on
// a local worker pool.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/grailbio/bigenum/enumcmd"
	"github.com/grailbio/bigenum/exec"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `usage: bigenum command args...

Available commands are:

	queens
		Count the solutions to the n-queens puzzle.
	triples
		Print the Pythagorean triples with sides up to a bound.
`)
		flag.PrintDefaults()
		os.Exit(2)
	}
	enumcmd.Main(func(sess *exec.Session, args []string) error {
		if len(args) == 0 {
			flag.Usage()
		}
		cmd, args := args[0], args[1:]
		switch cmd {
		case "queens":
			return queens(sess, args)
		case "triples":
			return triples(sess, args)
		}
		fmt.Fprintf(os.Stderr, "unknown command %s\n", cmd)
		flag.Usage()
		panic("not reached")
	})
}
