// Copyright 2025 objfiledb Authors
// SPDX-License-Identifier: Apache-2.0

// Package raw is a linker that does no symbol resolution. Every object file
// becomes a single data segment of words, which lets the pipeline and the
// word and disassembly dumps run without an instruction-set aware linker.
package raw

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/LeeDigitalWorks/objfiledb/pkg/function"
	"github.com/LeeDigitalWorks/objfiledb/pkg/linked"
)

// Linker links object files into raw Objects.
var Linker linked.Linker = linked.LinkerFunc(Link)

// Object is an object file viewed as one data segment.
type Object struct {
	name  string
	words []uint32
	// tail holds the trailing bytes that do not fill a word.
	tail  []byte
	stats linked.Stats
}

// Link wraps data without copying it.
func Link(data []byte, name string) (linked.Object, error) {
	o := &Object{
		name:  name,
		words: make([]uint32, len(data)/linked.InstructionSize),
		tail:  data[len(data)-len(data)%linked.InstructionSize:],
	}
	for i := range o.words {
		o.words[i] = binary.LittleEndian.Uint32(data[i*linked.InstructionSize:])
	}
	return o, nil
}

func (o *Object) Name() string { return o.name }

func (o *Object) Segments() int { return 1 }

func (o *Object) FunctionsBySeg(int) []*function.Function { return nil }

func (o *Object) Stats() *linked.Stats { return &o.stats }

// FindCode classifies every byte as data.
func (o *Object) FindCode() {
	o.stats.DataBytes = len(o.words)*linked.InstructionSize + len(o.tail)
}

func (o *Object) FindFunctions()          {}
func (o *Object) DisassembleFunctions()   {}
func (o *Object) ProcessFPRelativeLinks() {}

func (o *Object) SetOrderedLabelNames() int { return 0 }

// PrintWords lists every word with its byte offset.
func (o *Object) PrintWords() string {
	var b strings.Builder
	fmt.Fprintf(&b, ";; %s: %d words\n", o.name, len(o.words))
	for i, w := range o.words {
		fmt.Fprintf(&b, "[%6d] 0x%08x\n", i*linked.InstructionSize, w)
	}
	o.printTail(&b)
	return b.String()
}

// PrintDisassembly renders the data segment the way data zones appear in
// disassembly output.
func (o *Object) PrintDisassembly() string {
	var b strings.Builder
	fmt.Fprintf(&b, ";------------------------------------------\n;  %s\n;------------------------------------------\n", o.name)
	for _, w := range o.words {
		fmt.Fprintf(&b, "    .word 0x%x\n", w)
	}
	o.printTail(&b)
	return b.String()
}

func (o *Object) printTail(b *strings.Builder) {
	for _, c := range o.tail {
		fmt.Fprintf(b, "    .byte 0x%x\n", c)
	}
}

func (o *Object) PrintScripts() string { return "" }

func (o *Object) HasAnyFunctions() bool { return false }
