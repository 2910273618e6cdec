// Copyright 2025 objfiledb Authors
// SPDX-License-Identifier: Apache-2.0

package function

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpectedBackups(t *testing.T) {
	t.Parallel()

	reg, err := ExpectedGPRBackup(0, 3)
	require.NoError(t, err)
	assert.Equal(t, "s4", reg)

	reg, err = ExpectedGPRBackup(2, 3)
	require.NoError(t, err)
	assert.Equal(t, "gp", reg)

	reg, err = ExpectedFPRBackup(0, 1)
	require.NoError(t, err)
	assert.Equal(t, "f30", reg)

	_, err = ExpectedGPRBackup(0, 8)
	assert.Error(t, err)
	_, err = ExpectedFPRBackup(2, 2)
	assert.Error(t, err)
}

func TestCheckStackLayout(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		p       Prologue
		wantErr string
	}{
		{
			name: "leaf without stack",
			p:    Prologue{},
		},
		{
			name: "ra and fp only",
			p: Prologue{
				TotalStackUsage: 16,
				RABackedUp:      true,
				RABackupOffset:  0,
				FPBackedUp:      true,
				FPBackupOffset:  8,
				FPSet:           true,
			},
		},
		{
			name: "ra, stack vars, gprs and fprs",
			p: Prologue{
				TotalStackUsage: 0x50,
				RABackedUp:      true,
				RABackupOffset:  0,
				NStackVarBytes:  8,
				StackVarOffset:  8,
				NGPRBackup:      3,
				GPRBackupOffset: 16,
				NFPRBackup:      2,
				FPRBackupOffset: 64,
			},
		},
		{
			name: "fp without ra skips the ra slot",
			p: Prologue{
				TotalStackUsage: 16,
				FPBackedUp:      true,
				FPBackupOffset:  8,
				FPSet:           true,
			},
		},
		{
			name: "misplaced gpr backups",
			p: Prologue{
				TotalStackUsage: 0x30,
				RABackedUp:      true,
				NGPRBackup:      2,
				GPRBackupOffset: 8,
			},
			wantErr: "gpr backups at 8, expected 16",
		},
		{
			name: "fp never set",
			p: Prologue{
				TotalStackUsage: 16,
				RABackedUp:      true,
				FPBackedUp:      true,
				FPBackupOffset:  8,
			},
			wantErr: "never set",
		},
		{
			name: "total does not add up",
			p: Prologue{
				TotalStackUsage: 0x20,
				RABackedUp:      true,
			},
			wantErr: "layout adds up to 0x10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.p.CheckStackLayout()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestPrologueString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "  BAD PROLOGUE", (&Prologue{}).String(2))

	p := Prologue{
		Decoded:         true,
		TotalStackUsage: 0x50,
		RABackedUp:      true,
		NStackVarBytes:  8,
		StackVarOffset:  8,
		NGPRBackup:      2,
		NFPRBackup:      1,
	}
	want := " stack: total 0x50, fp? 0 ra? 1\n" +
		" stack_vars: 8 bytes at 8\n" +
		" gprs: gp s5\n" +
		" fprs: f30"
	assert.Equal(t, want, p.String(1))
}

func TestFunctionWarnings(t *testing.T) {
	t.Parallel()

	f := New(4, 20)
	assert.Equal(t, 16, f.Words())
	assert.Empty(t, f.WarningText())

	f.Warn("Stack Zeroing Detected, prologue may be wrong")
	f.Warn("a0 on stack detected, prologue may be wrong")
	assert.Equal(t, "Stack Zeroing Detected, prologue may be wrong\na0 on stack detected, prologue may be wrong\n", f.WarningText())
}
