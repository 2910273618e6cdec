// Copyright 2025 objfiledb Authors
// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/LeeDigitalWorks/objfiledb/pkg/function"
	"github.com/LeeDigitalWorks/objfiledb/pkg/linked"
	"github.com/LeeDigitalWorks/objfiledb/pkg/logger"
	"github.com/LeeDigitalWorks/objfiledb/pkg/objdb"

	"github.com/dustin/go-humanize"
)

// TopLevelFunctionName is given to the single function in the top-level
// segment of each object.
const TopLevelFunctionName = "(top-level-init)"

const (
	StageLink     = "link"
	StageLabels   = "labels"
	StageCode     = "code"
	StageAnalysis = "analysis"
	StageWords    = "words"
	StageDisasm   = "disassembly"
	StageScripts  = "scripts"
)

func objectError(obj *objdb.ObjectData, err error) error {
	return fmt.Errorf("%s: %w", obj.Record.UniqueName(), err)
}

// ProcessLinkData links every object and returns the summed link statistics.
func (p *Pipeline) ProcessLinkData(ctx context.Context) (linked.Stats, error) {
	var combined linked.Stats
	if p.linker == nil {
		return combined, fmt.Errorf("%w: no linker configured", ErrMissingCollaborator)
	}
	done := startStage(ctx, StageLink, "Processing Link Data...")

	var mu sync.Mutex
	err := p.ForEachObject(ctx, func(ctx context.Context, obj *objdb.ObjectData) error {
		data, err := p.db.Bytes(obj)
		if err != nil {
			return err
		}
		lo, err := p.linker.Link(data, obj.Record.Name)
		if err != nil {
			return objectError(obj, fmt.Errorf("link: %w", err))
		}
		obj.Annotation.SetLinked(lo)

		mu.Lock()
		combined.Add(*lo.Stats())
		mu.Unlock()
		ObjectsProcessed.WithLabelValues(StageLink).Inc()
		return nil
	})
	if err != nil {
		return combined, err
	}

	elapsed := done()
	logger.Ctx(ctx).Info().
		Str("code", humanize.Bytes(uint64(combined.TotalCodeBytes))).
		Int("v2_code_bytes", combined.TotalV2CodeBytes).
		Int("v2_link_bytes", combined.TotalV2LinkBytes).
		Int("v2_pointers", combined.TotalV2Pointers).
		Int("v2_pointer_seeks", combined.TotalV2PointerSeeks).
		Int("v2_symbols", combined.TotalV2SymbolCount).
		Int("v2_symbol_links", combined.TotalV2SymbolLinks).
		Int("v3_code_bytes", combined.V3CodeBytes).
		Int("v3_link_bytes", combined.V3LinkBytes).
		Int("v3_pointers", combined.V3Pointers).
		Int("v3_split_pointers", combined.V3SplitPointers).
		Int("v3_word_pointers", combined.V3WordPointers).
		Int("v3_pointer_seeks", combined.V3PointerSeeks).
		Int("v3_symbols", combined.V3SymbolCount).
		Int("v3_offset_symbol_links", combined.V3SymbolLinkOffset).
		Int("v3_word_symbol_links", combined.V3SymbolLinkWord).
		Dur("elapsed", elapsed).
		Msg("Processed Link Data")
	return combined, nil
}

// ProcessLabels names the labels of every linked object and returns how
// many were named.
func (p *Pipeline) ProcessLabels(ctx context.Context) (int, error) {
	done := startStage(ctx, StageLabels, "Processing Labels...")

	var (
		mu    sync.Mutex
		total int
	)
	err := p.ForEachObject(ctx, func(ctx context.Context, obj *objdb.ObjectData) error {
		lo, err := obj.Annotation.Object(linked.Linked)
		if err != nil {
			return objectError(obj, err)
		}
		n := lo.SetOrderedLabelNames()

		mu.Lock()
		total += n
		mu.Unlock()
		ObjectsProcessed.WithLabelValues(StageLabels).Inc()
		return nil
	})
	if err != nil {
		return 0, err
	}

	elapsed := done()
	logger.Ctx(ctx).Info().Int("labels", total).Dur("elapsed", elapsed).Msg("Processed Labels")
	return total, nil
}

// FindCode splits every object into code and data, finds and disassembles
// its functions and resolves frame-pointer relative links. Objects that do
// not fully decode are logged and kept.
func (p *Pipeline) FindCode(ctx context.Context) (linked.Stats, error) {
	done := startStage(ctx, StageCode, "Finding code in object files...")

	var (
		mu       sync.Mutex
		combined linked.Stats
	)
	err := p.ForEachObject(ctx, func(ctx context.Context, obj *objdb.ObjectData) error {
		if phase := obj.Annotation.Phase(); phase != linked.Linked {
			return objectError(obj, fmt.Errorf("%w: find code needs %s, object is %s", linked.ErrPhase, linked.Linked, phase))
		}
		lo, err := obj.Annotation.Object(linked.Linked)
		if err != nil {
			return objectError(obj, err)
		}

		lo.FindCode()
		lo.FindFunctions()
		lo.DisassembleFunctions()

		name := obj.Record.UniqueName()
		if SkipFPRelativeLinks(name, p.cfg.GameVersion) {
			logger.Ctx(ctx).Info().Str("object", name).Msg("skipping process_fp_relative_links")
		} else {
			lo.ProcessFPRelativeLinks()
		}

		stats := lo.Stats()
		if stats.PartialDecode() {
			PartialDecodes.Inc()
			logger.Ctx(ctx).Warn().
				Str("object", name).
				Int("decoded_ops", stats.DecodedOps).
				Int("expected_ops", stats.ExpectedOps()).
				Msg("failed to decode all instructions")
		}

		if err := obj.Annotation.Advance(linked.Linked, linked.CodeDiscovered); err != nil {
			return objectError(obj, err)
		}

		mu.Lock()
		combined.Add(*stats)
		mu.Unlock()
		ObjectsProcessed.WithLabelValues(StageCode).Inc()
		return nil
	})
	if err != nil {
		return combined, err
	}

	elapsed := done()
	totalOps := combined.ExpectedOps()
	logger.Ctx(ctx).Info().
		Str("code", humanize.Bytes(uint64(combined.CodeBytes))).
		Str("data", humanize.Bytes(uint64(combined.DataBytes))).
		Int("functions", combined.FunctionCount).
		Int("fp_uses_resolved", combined.NFPRegUseResolved).
		Int("fp_uses", combined.NFPRegUse).
		Float64("fp_resolved_pct", percent(combined.NFPRegUseResolved, combined.NFPRegUse)).
		Int("decoded_ops", combined.DecodedOps).
		Int("total_ops", totalOps).
		Float64("decoded_pct", percent(combined.DecodedOps, totalOps)).
		Dur("elapsed", elapsed).
		Msg("Found code")
	return combined, nil
}

// checkPrologue marks a function whose decoded frame does not add up as
// suspected asm.
func checkPrologue(ctx context.Context, obj *objdb.ObjectData, seg int, fn *function.Function) {
	if !fn.Prologue.Decoded {
		return
	}
	if err := fn.Prologue.CheckStackLayout(); err != nil {
		fn.SuspectedAsm = true
		fn.Warn("Suspected asm function due to stack layout: " + err.Error())
	}
	if fn.SuspectedAsm {
		logger.Ctx(ctx).Debug().
			Str("object", obj.Record.UniqueName()).
			Int("segment", seg).
			Int("start_word", fn.StartWord).
			Str("prologue", fn.Prologue.String(0)).
			Str("warnings", fn.WarningText()).
			Msg("suspected asm function")
	}
}

// AnalyzeFunctions partitions functions into basic blocks and decodes their
// prologues when find_basic_blocks is set, then names the top-level function
// of every three-segment object and scans it for global definitions. It
// returns the number of basic blocks found.
func (p *Pipeline) AnalyzeFunctions(ctx context.Context) (int, error) {
	done := startStage(ctx, StageAnalysis, "Analyzing Functions...")

	totalBlocks := 0
	if p.cfg.FindBasicBlocks {
		if p.blocks == nil || p.analyzer == nil {
			return 0, fmt.Errorf("%w: basic block analysis needs a block finder and a function analyzer", ErrMissingCollaborator)
		}

		var mu sync.Mutex
		err := p.ForEachFunction(ctx, func(ctx context.Context, fn *function.Function, seg int, obj *objdb.ObjectData) error {
			lo, err := obj.Annotation.Object(linked.CodeDiscovered)
			if err != nil {
				return objectError(obj, err)
			}
			blocks, err := p.blocks.FindBasicBlocks(lo, seg, fn)
			if err != nil {
				return objectError(obj, fmt.Errorf("segment %d: basic blocks: %w", seg, err))
			}
			fn.BasicBlocks = blocks
			if err := p.analyzer.AnalyzePrologue(lo, fn); err != nil {
				return objectError(obj, fmt.Errorf("segment %d: prologue: %w", seg, err))
			}
			checkPrologue(ctx, obj, seg, fn)

			mu.Lock()
			totalBlocks += len(blocks)
			mu.Unlock()
			return nil
		})
		if err != nil {
			return 0, err
		}
		logger.Ctx(ctx).Info().Int("basic_blocks", totalBlocks).Msg("Found basic blocks")
	}

	err := p.ForEachObject(ctx, func(ctx context.Context, obj *objdb.ObjectData) error {
		lo, err := obj.Annotation.Object(linked.CodeDiscovered)
		if err != nil {
			return objectError(obj, err)
		}
		if lo.Segments() == linked.TopLevelSegmentCount {
			if err := p.analyzeTopLevel(lo); err != nil {
				return objectError(obj, err)
			}
		}
		if err := obj.Annotation.Advance(linked.CodeDiscovered, linked.Analyzed); err != nil {
			return objectError(obj, err)
		}
		ObjectsProcessed.WithLabelValues(StageAnalysis).Inc()
		return nil
	})
	if err != nil {
		return 0, err
	}

	elapsed := done()
	logger.Ctx(ctx).Info().Dur("elapsed", elapsed).Msg("Analyzed Functions")
	return totalBlocks, nil
}

func (p *Pipeline) analyzeTopLevel(lo linked.Object) error {
	fns := lo.FunctionsBySeg(linked.TopLevelSegment)
	if len(fns) != 1 {
		return fmt.Errorf("%w: top-level segment has %d functions, want 1", ErrInvariantViolation, len(fns))
	}
	fn := fns[0]
	if fn.GuessedName != "" {
		return fmt.Errorf("%w: top-level function already named %q", ErrInvariantViolation, fn.GuessedName)
	}
	if p.analyzer == nil {
		return fmt.Errorf("%w: top-level analysis needs a function analyzer", ErrMissingCollaborator)
	}

	fn.GuessedName = TopLevelFunctionName
	return p.analyzer.FindGlobalFunctionDefs(lo, fn)
}
