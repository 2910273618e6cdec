// Copyright 2025 objfiledb Authors
// SPDX-License-Identifier: Apache-2.0

// Package function holds the per-function results attached to linked
// object files: word ranges, basic blocks and the decoded stack prologue.
package function

import "strings"

// BasicBlock is a half-open range of instruction words.
type BasicBlock struct {
	StartWord int
	EndWord   int
}

// Function is one function found in a segment of a linked object file.
// Word indices are relative to the segment.
type Function struct {
	StartWord int
	EndWord   int

	// GuessedName is empty until a pass names the function.
	GuessedName string
	BasicBlocks []BasicBlock

	Prologue      Prologue
	PrologueStart int
	PrologueEnd   int

	// SuspectedAsm is set when the prologue does not look compiler
	// generated.
	SuspectedAsm bool
	Warnings     []string
}

func New(startWord, endWord int) *Function {
	return &Function{StartWord: startWord, EndWord: endWord}
}

// Words returns the function length in instruction words.
func (f *Function) Words() int {
	return f.EndWord - f.StartWord
}

// Warn records a non-fatal analysis problem on the function.
func (f *Function) Warn(msg string) {
	f.Warnings = append(f.Warnings, msg)
}

// WarningText joins warnings one per line, the way they are printed above a
// function in disassembly output.
func (f *Function) WarningText() string {
	if len(f.Warnings) == 0 {
		return ""
	}
	return strings.Join(f.Warnings, "\n") + "\n"
}
