// Copyright 2025 objfiledb Authors
// SPDX-License-Identifier: Apache-2.0

package types

// Stats counts what container ingestion has seen.
type Stats struct {
	TotalContainers     int    `json:"total_containers"`
	TotalContainerBytes uint64 `json:"total_container_bytes"`
	// TotalObjFiles counts every occurrence, duplicates included.
	TotalObjFiles  int    `json:"total_obj_files"`
	UniqueObjFiles int    `json:"unique_obj_files"`
	UniqueObjBytes uint64 `json:"unique_obj_bytes"`
}

// Add merges o into s. Merge order does not matter.
func (s *Stats) Add(o Stats) {
	s.TotalContainers += o.TotalContainers
	s.TotalContainerBytes += o.TotalContainerBytes
	s.TotalObjFiles += o.TotalObjFiles
	s.UniqueObjFiles += o.UniqueObjFiles
	s.UniqueObjBytes += o.UniqueObjBytes
}

// DuplicateObjFiles is the number of occurrences that deduplicated onto an
// existing variant.
func (s Stats) DuplicateObjFiles() int {
	return s.TotalObjFiles - s.UniqueObjFiles
}
