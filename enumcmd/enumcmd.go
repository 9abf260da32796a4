// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package enumcmd provides utilities for implementing bigenum-based
// command line tools. The main entry point, enumcmd.Main, configures
// bigenum according to a common set of flags, and then invokes the
// user's driver code.
//
// An enumcmd tool follows this form:
//
//	func main() {
//		var (
//			applicationFlag1 = flag.Int(...)
//			applicationFlag2 = ...
//		)
//		enumcmd.Main(func(sess *exec.Session, args []string) error {
//			ctx := context.Background()
//			res, err := sess.Run(ctx, MyDomain)
//			if err != nil {
//				return err
//			}
//			// Do something with res...
//			return nil
//		})
//	}
package enumcmd

import (
	"flag"
	"net/http"
	// Pprof is included to be exposed on the local diagnostic web server.
	_ "net/http/pprof"
	"os"
	"runtime"
	"time"

	"github.com/grailbio/base/log"
	"github.com/grailbio/base/status"
	"github.com/grailbio/bigenum/exec"
)

// Flags represents the flags that configure a bigenum command.
type Flags struct {
	Parallelism   int
	Inflight      int
	Poll          time.Duration
	HTTPAddress   string
	ConsoleStatus bool
}

// RegisterFlags registers the bigenum command line flags with the
// supplied flag set. The flag names are prefixed with the supplied
// prefix.
func RegisterFlags(fs *flag.FlagSet, bf *Flags, prefix string) {
	fs.IntVar(&bf.Parallelism, prefix+"parallelism", 0, "maximum degree of parallelism in terms of CPU cores, 0 requests an appropriate default for the machine")
	fs.IntVar(&bf.Inflight, prefix+"inflight", 0, "per-worker bound on outstanding jobs, 0 requests the default")
	fs.DurationVar(&bf.Poll, prefix+"poll", 0, "interval between completion queue polls, 0 requests the default")
	fs.StringVar(&bf.HTTPAddress, prefix+"http", ":3333", "address of http status server")
	fs.BoolVar(&bf.ConsoleStatus, prefix+"console-status", false, "print status to stdout")
}

// ExecOptions returns the session options specified by the flags.
func (bf *Flags) ExecOptions() []exec.Option {
	var enumStatus status.Status
	options := []exec.Option{exec.Local, exec.Status(&enumStatus)}
	if bf.Parallelism > 0 {
		options = append(options, exec.Parallelism(bf.Parallelism))
	} else {
		options = append(options, exec.Parallelism(runtime.GOMAXPROCS(0)))
	}
	if bf.Inflight > 0 {
		options = append(options, exec.Inflight(bf.Inflight))
	}
	if bf.Poll > 0 {
		options = append(options, exec.PollInterval(bf.Poll))
	}
	return options
}

// Main is a convenient entry point for an enumcmd. Main does not
// return; it should be called after other initialization is
// performed. Main parses (global) flags and configures bigenum
// accordingly. Main then invokes the provided func with a session
// which can be used to run enumerations, passing along the unparsed
// arguments.
//
// Main starts a diagnostic web server (default address :3333), using
// http.DefaultServeMux, which includes pprof handlers as well as the
// session's status page.
//
// Main terminates the program after the user func returns. If it
// returns with an error, the error is reported and the process exits
// with code 1; otherwise it exits successfully.
func Main(main func(sess *exec.Session, args []string) error) {
	var fl Flags
	RegisterFlags(flag.CommandLine, &fl, "")
	log.AddFlags()
	flag.Parse()
	sess := exec.Start(fl.ExecOptions()...)
	DisplayStatus(fl, sess)
	err := main(sess, flag.Args())
	sess.Shutdown()
	if err != nil {
		log.Fatal(err)
	}
	log.Debug.Printf("session stats: %s", sess.Stats())
	os.Exit(0)
}

// DisplayStatus arranges for the session status to be displayed on
// the console and/or a web page depending on the flags specified on
// the command line. The web page is hosted at /debug/status on
// http.DefaultServeMux.
func DisplayStatus(bf Flags, sess *exec.Session) {
	if bf.ConsoleStatus {
		var console status.Reporter
		go console.Go(os.Stdout, sess.Status())
	}
	if bf.HTTPAddress != "" {
		http.Handle("/debug/status", status.Handler(sess.Status()))
		go func() {
			log.Printf("http status at %s", bf.HTTPAddress)
			if err := http.ListenAndServe(bf.HTTPAddress, nil); err != nil {
				log.Error.Printf("failed to start http server at %s: %v", bf.HTTPAddress, err)
			}
		}()
	}
}
