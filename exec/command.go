// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package exec

import (
	"os"
	"strings"
)

// shellQuote quotes a string for use as an argument in an sh command
// line. Wrapping in single quotes handles every character except the
// single quote itself, which is spliced back in as "'\''".
func shellQuote(s string) string {
	return "'" + strings.Replace(s, "'", `'\''`, -1) + "'"
}

// command returns the command line of the current execution, in a
// form that can be pasted directly into sh.
func command() string {
	args := make([]string, len(os.Args))
	for i := range args {
		args[i] = shellQuote(os.Args[i])
	}
	return strings.Join(args, " ")
}
