// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package values

import (
	"bytes"
	"encoding/gob"
)

func init() {
	gob.Register(Atom{})
	gob.Register(Tuple{})
	gob.Register(Map{})
}

// GobEncode implements custom gob encoding for maps, which encode as
// their canonical pair sequence.
func (m Map) GobEncode() ([]byte, error) {
	var b bytes.Buffer
	if err := gob.NewEncoder(&b).Encode(m.pairs); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// GobDecode implements gob decoding for maps. The pair sequence is
// trusted to be canonical, as produced by GobEncode.
func (m *Map) GobDecode(p []byte) error {
	return gob.NewDecoder(bytes.NewReader(p)).Decode(&m.pairs)
}
