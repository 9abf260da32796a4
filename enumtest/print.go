// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package enumtest

import (
	"context"
	"fmt"

	"github.com/grailbio/base/log"
	"github.com/grailbio/bigenum"
)

// Print prints the domain's elements to stdout, one per line, in
// domain order. This is useful in examples, which can rely on the
// deterministic order in their expected output.
func Print(domain bigenum.Domain) {
	vs, err := bigenum.Collect(context.Background(), domain)
	if err != nil {
		log.Panicf("unhandled error enumerating %s: %v", domain.Name(), err)
	}
	for _, v := range vs {
		fmt.Println(v)
	}
}
