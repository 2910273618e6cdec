// Copyright 2025 objfiledb Authors
// SPDX-License-Identifier: Apache-2.0

package linked

// Stats are the per-object counters produced by linking and code discovery.
// They are summed across the corpus with Add.
type Stats struct {
	TotalCodeBytes int

	TotalV2CodeBytes    int
	TotalV2LinkBytes    int
	TotalV2Pointers     int
	TotalV2PointerSeeks int
	TotalV2SymbolCount  int
	TotalV2SymbolLinks  int

	V3CodeBytes        int
	V3LinkBytes        int
	V3Pointers         int
	V3SplitPointers    int
	V3WordPointers     int
	V3PointerSeeks     int
	V3SymbolCount      int
	V3SymbolLinkOffset int
	V3SymbolLinkWord   int

	CodeBytes         int
	DataBytes         int
	FunctionCount     int
	DecodedOps        int
	NFPRegUse         int
	NFPRegUseResolved int
}

// Add accumulates o into s.
func (s *Stats) Add(o Stats) {
	s.TotalCodeBytes += o.TotalCodeBytes

	s.TotalV2CodeBytes += o.TotalV2CodeBytes
	s.TotalV2LinkBytes += o.TotalV2LinkBytes
	s.TotalV2Pointers += o.TotalV2Pointers
	s.TotalV2PointerSeeks += o.TotalV2PointerSeeks
	s.TotalV2SymbolCount += o.TotalV2SymbolCount
	s.TotalV2SymbolLinks += o.TotalV2SymbolLinks

	s.V3CodeBytes += o.V3CodeBytes
	s.V3LinkBytes += o.V3LinkBytes
	s.V3Pointers += o.V3Pointers
	s.V3SplitPointers += o.V3SplitPointers
	s.V3WordPointers += o.V3WordPointers
	s.V3PointerSeeks += o.V3PointerSeeks
	s.V3SymbolCount += o.V3SymbolCount
	s.V3SymbolLinkOffset += o.V3SymbolLinkOffset
	s.V3SymbolLinkWord += o.V3SymbolLinkWord

	s.CodeBytes += o.CodeBytes
	s.DataBytes += o.DataBytes
	s.FunctionCount += o.FunctionCount
	s.DecodedOps += o.DecodedOps
	s.NFPRegUse += o.NFPRegUse
	s.NFPRegUseResolved += o.NFPRegUseResolved
}

// ExpectedOps is the number of instructions the code region should decode
// to.
func (s *Stats) ExpectedOps() int {
	return s.CodeBytes / InstructionSize
}

// PartialDecode reports whether fewer instructions were decoded than the
// code region holds.
func (s *Stats) PartialDecode() bool {
	return s.ExpectedOps() > s.DecodedOps
}
