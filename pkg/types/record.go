// Copyright 2025 objfiledb Authors
// SPDX-License-Identifier: Apache-2.0

package types

import "strconv"

// ObjectRecord identifies one distinct object file variant.
// Name is the logical name stored in the container and is not unique on its
// own; Version is the 0-based creation ordinal among variants sharing Name.
type ObjectRecord struct {
	Name    string `json:"name"`
	Version int    `json:"version"`
	Hash    uint32 `json:"hash"`
}

// UniqueName returns Name + "-v" + Version. It is unique across the corpus
// and is used to name every per-object output.
func (r ObjectRecord) UniqueName() string {
	return r.Name + "-v" + strconv.Itoa(r.Version)
}

func (r ObjectRecord) String() string {
	return r.UniqueName()
}
