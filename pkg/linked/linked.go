// Copyright 2025 objfiledb Authors
// SPDX-License-Identifier: Apache-2.0

// Package linked defines the boundary between the object file database and
// the passes that understand object file contents: linking, instruction
// decoding, basic block partitioning and prologue analysis. None of those
// are implemented here.
package linked

import (
	"github.com/LeeDigitalWorks/objfiledb/pkg/function"
)

// InstructionSize is the width of one instruction word in bytes.
const InstructionSize = 4

// TopLevelSegment is the segment holding the top-level init function in
// objects with TopLevelSegmentCount segments.
const (
	TopLevelSegmentCount = 3
	TopLevelSegment      = 2
)

// Object is the symbol-resolved form of one object file. Methods that
// mutate are called by exactly one stage at a time.
type Object interface {
	// Segments is the number of structural segments produced by linking.
	Segments() int
	// FunctionsBySeg returns the functions found in segment seg, in address
	// order. The returned functions may be mutated in place.
	FunctionsBySeg(seg int) []*function.Function
	Stats() *Stats

	FindCode()
	FindFunctions()
	DisassembleFunctions()
	ProcessFPRelativeLinks()
	// SetOrderedLabelNames names every label and returns how many it named.
	SetOrderedLabelNames() int

	PrintWords() string
	PrintDisassembly() string
	PrintScripts() string
	HasAnyFunctions() bool
}

// Linker turns raw object file bytes into an Object.
type Linker interface {
	Link(data []byte, name string) (Object, error)
}

// LinkerFunc adapts a function to Linker.
type LinkerFunc func(data []byte, name string) (Object, error)

func (f LinkerFunc) Link(data []byte, name string) (Object, error) {
	return f(data, name)
}

// BlockFinder partitions a function into basic blocks.
type BlockFinder interface {
	FindBasicBlocks(obj Object, seg int, fn *function.Function) ([]function.BasicBlock, error)
}

// FunctionAnalyzer runs the per-function passes that need decoded
// instructions.
type FunctionAnalyzer interface {
	// AnalyzePrologue fills fn.Prologue and trims it from the first block.
	AnalyzePrologue(obj Object, fn *function.Function) error
	// FindGlobalFunctionDefs scans a top-level function for global function
	// definitions.
	FindGlobalFunctionDefs(obj Object, fn *function.Function) error
}
