// Copyright 2025 objfiledb Authors
// SPDX-License-Identifier: Apache-2.0

// Package pipeline drives analysis stages over the deduplicated object file
// database. Stages run one after another; within a stage every unique object
// is visited exactly once, optionally by several workers.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/LeeDigitalWorks/objfiledb/pkg/compression"
	"github.com/LeeDigitalWorks/objfiledb/pkg/debug"
	"github.com/LeeDigitalWorks/objfiledb/pkg/linked"
	"github.com/LeeDigitalWorks/objfiledb/pkg/logger"
	"github.com/LeeDigitalWorks/objfiledb/pkg/objdb"
	"github.com/LeeDigitalWorks/objfiledb/pkg/types"
)

var (
	// ErrInvariantViolation means the input does not have the shape the
	// analysis assumes, such as a top-level segment with several functions.
	ErrInvariantViolation = errors.New("invariant violation")

	// ErrMissingCollaborator is returned when a stage needs a linker or
	// analyzer that was not configured.
	ErrMissingCollaborator = errors.New("missing collaborator")
)

// Option configures a Pipeline.
type Option func(*Pipeline)

func WithLinker(l linked.Linker) Option {
	return func(p *Pipeline) { p.linker = l }
}

func WithBlockFinder(b linked.BlockFinder) Option {
	return func(p *Pipeline) { p.blocks = b }
}

func WithFunctionAnalyzer(a linked.FunctionAnalyzer) Option {
	return func(p *Pipeline) { p.analyzer = a }
}

// Pipeline runs stages over one database. The database must not change
// once a pipeline is built on it.
type Pipeline struct {
	db  *objdb.DB
	cfg types.Config

	linker   linked.Linker
	blocks   linked.BlockFinder
	analyzer linked.FunctionAnalyzer

	dumpAlgo compression.Algorithm
}

// New builds a pipeline over db.
func New(db *objdb.DB, cfg types.Config, opts ...Option) (*Pipeline, error) {
	if err := cfg.Validate().Err(); err != nil {
		return nil, err
	}
	algo, err := compression.ParseAlgorithm(cfg.DumpCompression)
	if err != nil {
		return nil, fmt.Errorf("dump_compression: %w", err)
	}
	if !algo.Streams() {
		return nil, fmt.Errorf("dump_compression: %q cannot be used for dumps", cfg.DumpCompression)
	}

	p := &Pipeline{
		db:       db,
		cfg:      cfg,
		dumpAlgo: algo,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Run executes every stage the configuration enables and writes dumps to
// outputDir.
func (p *Pipeline) Run(ctx context.Context, outputDir string) error {
	defer debug.SetStage("")

	if _, err := p.ProcessLinkData(ctx); err != nil {
		return err
	}
	if p.cfg.WriteHexdump {
		if _, err := p.WriteObjectFileWords(ctx, outputDir, p.cfg.WriteHexdumpOnV3Only); err != nil {
			return err
		}
	}
	if _, err := p.ProcessLabels(ctx); err != nil {
		return err
	}
	if _, err := p.FindCode(ctx); err != nil {
		return err
	}
	if _, err := p.AnalyzeFunctions(ctx); err != nil {
		return err
	}
	if p.cfg.WriteDisassembly {
		if _, err := p.WriteDisassembly(ctx, outputDir, p.cfg.DisassembleObjectsWithoutFunctions); err != nil {
			return err
		}
	}
	if p.cfg.WriteScripts {
		if _, err := p.FindAndWriteScripts(ctx, outputDir); err != nil {
			return err
		}
	}
	return nil
}

// startStage marks name as running and returns a function that records its
// duration.
func startStage(ctx context.Context, name, msg string) func() time.Duration {
	debug.SetStage(name)
	logger.Ctx(ctx).Info().Str("stage", name).Msg(msg)
	start := time.Now()
	return func() time.Duration {
		elapsed := time.Since(start)
		StageDuration.WithLabelValues(name).Observe(elapsed.Seconds())
		return elapsed
	}
}

// perSecond divides n by elapsed seconds, treating zero elapsed as tiny.
func perSecond(n float64, elapsed time.Duration) float64 {
	return n / max(elapsed.Seconds(), 1e-9)
}

// percent returns 100*num/den, or 0 when den is 0.
func percent(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return 100 * float64(num) / float64(den)
}

func megabytes(n uint64) float64 {
	return float64(n) / float64(1<<20)
}
