// Copyright 2025 objfiledb Authors
// SPDX-License-Identifier: Apache-2.0

package dgo

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrStructuralCorruption is returned when container headers or byte
	// accounting do not line up.
	ErrStructuralCorruption = errors.New("structural corruption")
	// ErrDecodeFailure is returned when the compressed stream is corrupt or
	// ends before the declared size is produced.
	ErrDecodeFailure = errors.New("decode failure")
)

// Error describes where in a container decoding failed. It unwraps to
// ErrStructuralCorruption or ErrDecodeFailure.
type Error struct {
	Kind      error
	Container string
	Entry     string
	// Offset is a byte offset into the raw stream for decode failures and
	// into the plain body for structural corruption. -1 when unknown.
	Offset int
	Msg    string
	Err    error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("dgo")
	if e.Container != "" {
		fmt.Fprintf(&b, " %s", e.Container)
	}
	if e.Entry != "" {
		fmt.Fprintf(&b, ": entry %q", e.Entry)
	}
	if e.Offset >= 0 {
		fmt.Fprintf(&b, " at 0x%x", e.Offset)
	}
	fmt.Fprintf(&b, ": %v: %s", e.Kind, e.Msg)
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func corruption(offset int, entry, format string, args ...any) *Error {
	return &Error{Kind: ErrStructuralCorruption, Entry: entry, Offset: offset, Msg: fmt.Sprintf(format, args...)}
}

func decodeFailure(offset int, cause error, format string, args ...any) *Error {
	return &Error{Kind: ErrDecodeFailure, Offset: offset, Msg: fmt.Sprintf(format, args...), Err: cause}
}
