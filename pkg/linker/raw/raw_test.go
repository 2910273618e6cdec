// Copyright 2025 objfiledb Authors
// SPDX-License-Identifier: Apache-2.0

package raw

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLink(t *testing.T) {
	t.Parallel()

	lo, err := Linker.Link([]byte{0x01, 0x00, 0x00, 0x00, 0xef, 0xbe, 0xad, 0xde, 0x7f}, "foo")
	require.NoError(t, err)

	assert.Equal(t, 1, lo.Segments())
	assert.Empty(t, lo.FunctionsBySeg(0))
	assert.False(t, lo.HasAnyFunctions())
	assert.Empty(t, lo.PrintScripts())
	assert.Equal(t, 0, lo.SetOrderedLabelNames())

	lo.FindCode()
	assert.Equal(t, 9, lo.Stats().DataBytes)
	assert.Equal(t, 0, lo.Stats().CodeBytes)
	assert.False(t, lo.Stats().PartialDecode())

	want := ";; foo: 2 words\n" +
		"[     0] 0x00000001\n" +
		"[     4] 0xdeadbeef\n" +
		"    .byte 0x7f\n"
	assert.Equal(t, want, lo.PrintWords())
	assert.Contains(t, lo.PrintDisassembly(), "    .word 0xdeadbeef\n")
}

func TestLink_Empty(t *testing.T) {
	t.Parallel()

	lo, err := Link(nil, "empty")
	require.NoError(t, err)
	lo.FindCode()
	assert.Equal(t, 0, lo.Stats().DataBytes)
	assert.Equal(t, ";; empty: 0 words\n", lo.PrintWords())
}
