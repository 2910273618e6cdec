// Copyright 2025 objfiledb Authors
// SPDX-License-Identifier: Apache-2.0

package function

import (
	"fmt"
	"strings"
)

// Register names saved by a prologue, in the order the compiler assigns
// them. A function saving n GPRs stores GPRBackups[n-1] first.
var (
	GPRBackups = []string{"gp", "s5", "s4", "s3", "s2", "s1", "s0"}
	FPRBackups = []string{"f30", "f28", "f26", "f24", "f22", "f20"}
)

// Prologue describes the stack frame set up at function entry.
type Prologue struct {
	Decoded         bool
	TotalStackUsage int

	RABackedUp     bool
	RABackupOffset int
	FPBackedUp     bool
	FPBackupOffset int
	FPSet          bool

	NStackVarBytes int
	StackVarOffset int

	NGPRBackup      int
	GPRBackupOffset int
	NFPRBackup      int
	FPRBackupOffset int
}

// ExpectedGPRBackup returns the register stored at slot n of total GPR
// backups.
func ExpectedGPRBackup(n, total int) (string, error) {
	return expectedBackup(GPRBackups, n, total)
}

// ExpectedFPRBackup returns the register stored at slot n of total FPR
// backups.
func ExpectedFPRBackup(n, total int) (string, error) {
	return expectedBackup(FPRBackups, n, total)
}

func expectedBackup(regs []string, n, total int) (string, error) {
	if total > len(regs) || n < 0 || n >= total {
		return "", fmt.Errorf("backup slot %d of %d out of range (max %d)", n, total, len(regs))
	}
	return regs[(total-1)-n], nil
}

func align16(in int) int { return (in + 15) &^ 15 }
func align8(in int) int  { return (in + 7) &^ 7 }
func align4(in int) int  { return (in + 3) &^ 3 }

// CheckStackLayout walks the frame in allocation order (ra, fp, stack
// variables, GPRs, FPRs) and checks each recorded offset against the
// aligned running total, and the total against TotalStackUsage.
func (p *Prologue) CheckStackLayout() error {
	if p.NStackVarBytes < 0 {
		return fmt.Errorf("negative stack variable size %d", p.NStackVarBytes)
	}

	total := 0
	if p.RABackedUp {
		total = align8(total)
		if p.RABackupOffset != total {
			return fmt.Errorf("ra backup at %d, expected %d", p.RABackupOffset, total)
		}
		total += 8
	}

	if !p.RABackedUp && p.FPBackedUp {
		// fp without ra still leaves the ra slot empty.
		total += 8
	}

	if p.FPBackedUp {
		total = align8(total)
		if p.FPBackupOffset != total {
			return fmt.Errorf("fp backup at %d, expected %d", p.FPBackupOffset, total)
		}
		if !p.FPSet {
			return fmt.Errorf("fp backed up but never set")
		}
		total += 8
	}

	if p.NStackVarBytes > 0 {
		if p.StackVarOffset != total {
			return fmt.Errorf("stack vars at %d, expected %d", p.StackVarOffset, total)
		}
		total += p.NStackVarBytes
	}

	if p.NGPRBackup > 0 {
		total = align16(total)
		if p.GPRBackupOffset != total {
			return fmt.Errorf("gpr backups at %d, expected %d", p.GPRBackupOffset, total)
		}
		total += 16 * p.NGPRBackup
	}

	if p.NFPRBackup > 0 {
		total = align4(total)
		if p.FPRBackupOffset != total {
			return fmt.Errorf("fpr backups at %d, expected %d", p.FPRBackupOffset, total)
		}
		total += 4 * p.NFPRBackup
	}

	total = align16(total)
	if p.TotalStackUsage != total {
		return fmt.Errorf("stack usage 0x%x, layout adds up to 0x%x", p.TotalStackUsage, total)
	}
	return nil
}

// String renders the prologue summary printed above a function, each line
// prefixed with indent spaces.
func (p *Prologue) String(indent int) string {
	pad := strings.Repeat(" ", indent)
	if !p.Decoded {
		return pad + "BAD PROLOGUE"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%sstack: total 0x%02x, fp? %d ra? %d", pad, p.TotalStackUsage, btoi(p.FPSet), btoi(p.RABackedUp))
	if p.NStackVarBytes > 0 {
		fmt.Fprintf(&b, "\n%sstack_vars: %d bytes at %d", pad, p.NStackVarBytes, p.StackVarOffset)
	}
	if p.NGPRBackup > 0 {
		fmt.Fprintf(&b, "\n%sgprs:", pad)
		for i := 0; i < p.NGPRBackup && i < len(GPRBackups); i++ {
			b.WriteString(" " + GPRBackups[i])
		}
	}
	if p.NFPRBackup > 0 {
		fmt.Fprintf(&b, "\n%sfprs:", pad)
		for i := 0; i < p.NFPRBackup && i < len(FPRBackups); i++ {
			b.WriteString(" " + FPRBackups[i])
		}
	}
	return b.String()
}

func btoi(b bool) int {
	if b {
		return 1
	}
	return 0
}
