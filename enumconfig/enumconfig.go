// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package enumconfig provides a mechanism to create a bigenum
// session from a shared configuration. Enumconfig uses the
// configuration mechanism in package
// github.com/grailbio/base/config, and reads a default profile from
// $HOME/.bigenum/config.
package enumconfig

import (
	"flag"
	"os"

	"github.com/grailbio/base/config"
	"github.com/grailbio/base/must"

	"github.com/grailbio/bigenum/exec"
)

// Path determines the location of the bigenum profile read by Parse.
var Path = os.ExpandEnv("$HOME/.bigenum/config")

// Parse registers configuration flags and calls flag.Parse. It reads
// bigenum configuration from Path defined in this package. Parse
// returns the session as configured by the configuration and any
// flags provided. Parse panics if session creation fails.
func Parse() (sess *exec.Session, shutdown func()) {
	config.RegisterFlags("", Path)
	flag.Parse()
	must.Nil(config.ProcessFlags())
	config.Must("bigenum", &sess)
	return sess, sess.Shutdown
}
