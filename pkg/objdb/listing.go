// Copyright 2025 objfiledb Authors
// SPDX-License-Identifier: Apache-2.0

package objdb

import (
	"strconv"
	"strings"
)

// GenerateListing renders which variants went into which container.
// Containers are sorted by name; placements keep decode order.
func (db *DB) GenerateListing() string {
	var b strings.Builder
	b.WriteString(";; DGO File Listing\n\n")

	for _, container := range db.Containers() {
		b.WriteString("(\"" + container + "\"\n")
		for _, rec := range db.byContainer[container] {
			b.WriteString("  " + rec.Name + " :version " + strconv.Itoa(rec.Version) + "\n")
		}
		b.WriteString("  )\n\n")
	}

	return b.String()
}
