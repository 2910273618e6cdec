// Copyright 2025 objfiledb Authors
// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/LeeDigitalWorks/objfiledb/pkg/compression"
	"github.com/LeeDigitalWorks/objfiledb/pkg/linked"
	"github.com/LeeDigitalWorks/objfiledb/pkg/logger"
	"github.com/LeeDigitalWorks/objfiledb/pkg/objdb"
	"github.com/LeeDigitalWorks/objfiledb/pkg/utils"
)

// ScriptsFileName is the combined output of FindAndWriteScripts.
const ScriptsFileName = "all_scripts.lisp"

// DumpReport summarizes one dump stage.
type DumpReport struct {
	Files   int
	Bytes   uint64
	Elapsed time.Duration
}

func (r DumpReport) log(ctx context.Context, msg string) {
	logger.Ctx(ctx).Info().
		Int("files", r.Files).
		Float64("mb", megabytes(r.Bytes)).
		Float64("mb_per_sec", perSecond(megabytes(r.Bytes), r.Elapsed)).
		Dur("elapsed", r.Elapsed).
		Msg(msg)
}

// WriteObjectFileWords writes each object's word listing to
// <unique_name>.txt. With v3Only, objects without three segments are
// skipped.
func (p *Pipeline) WriteObjectFileWords(ctx context.Context, dir string, v3Only bool) (DumpReport, error) {
	msg := "Writing object file dumps (all)..."
	if v3Only {
		msg = "Writing object file dumps (v3 only)..."
	}
	done := startStage(ctx, StageWords, msg)

	report, err := p.dumpEach(ctx, dir, StageWords, ".txt", linked.Linked,
		func(lo linked.Object) (string, bool) {
			if v3Only && lo.Segments() != linked.TopLevelSegmentCount {
				return "", false
			}
			return lo.PrintWords(), true
		})
	if err != nil {
		return report, err
	}
	report.Elapsed = done()
	report.log(ctx, "Wrote object file dumps")
	return report, nil
}

// WriteDisassembly writes each object's disassembly to <unique_name>.func.
// Objects without functions are skipped unless withoutFunctions is set.
func (p *Pipeline) WriteDisassembly(ctx context.Context, dir string, withoutFunctions bool) (DumpReport, error) {
	done := startStage(ctx, StageDisasm, "Writing functions...")

	report, err := p.dumpEach(ctx, dir, StageDisasm, ".func", linked.CodeDiscovered,
		func(lo linked.Object) (string, bool) {
			if !lo.HasAnyFunctions() && !withoutFunctions {
				return "", false
			}
			return lo.PrintDisassembly(), true
		})
	if err != nil {
		return report, err
	}
	report.Elapsed = done()
	report.log(ctx, "Wrote functions dumps")
	return report, nil
}

// FindAndWriteScripts collects the scripts of every object into one file,
// each preceded by a banner naming the object. Objects without scripts are
// left out.
func (p *Pipeline) FindAndWriteScripts(ctx context.Context, dir string) (DumpReport, error) {
	done := startStage(ctx, StageScripts, "Finding scripts in object files...")

	scripts := make([]string, len(p.db.Objects()))
	err := p.forEachIndexed(ctx, func(ctx context.Context, i int, obj *objdb.ObjectData) error {
		lo, err := obj.Annotation.Object(linked.Linked)
		if err != nil {
			return objectError(obj, err)
		}
		if text := lo.PrintScripts(); text != "" {
			scripts[i] = scriptBanner(obj.Record.UniqueName()) + text
		}
		return nil
	})
	if err != nil {
		return DumpReport{}, err
	}

	all := strings.Join(scripts, "")
	if err := utils.EnsureDir(dir); err != nil {
		return DumpReport{}, err
	}
	if err := p.writeText(filepath.Join(dir, ScriptsFileName), all); err != nil {
		return DumpReport{}, err
	}
	DumpBytes.WithLabelValues(StageScripts).Add(float64(len(all)))

	report := DumpReport{Files: 1, Bytes: uint64(len(all)), Elapsed: done()}
	report.log(ctx, "Found scripts")
	return report, nil
}

func scriptBanner(uniqueName string) string {
	return ";--------------------------------------\n" +
		"; " + uniqueName + "\n" +
		";---------------------------------------\n"
}

// dumpEach renders every object reaching phase min with render and writes
// the text to <unique_name><ext>. Objects for which render returns false
// are skipped.
func (p *Pipeline) dumpEach(ctx context.Context, dir, stage, ext string, min linked.Phase,
	render func(lo linked.Object) (string, bool)) (DumpReport, error) {
	if err := utils.EnsureDir(dir); err != nil {
		return DumpReport{}, err
	}

	var files, total atomic.Uint64
	err := p.ForEachObject(ctx, func(ctx context.Context, obj *objdb.ObjectData) error {
		lo, err := obj.Annotation.Object(min)
		if err != nil {
			return objectError(obj, err)
		}
		text, ok := render(lo)
		if !ok {
			return nil
		}
		path := filepath.Join(dir, obj.Record.UniqueName()+ext)
		if err := p.writeText(path, text); err != nil {
			return err
		}
		files.Add(1)
		total.Add(uint64(len(text)))
		DumpBytes.WithLabelValues(stage).Add(float64(len(text)))
		return nil
	})
	return DumpReport{Files: int(files.Load()), Bytes: total.Load()}, err
}

// writeText writes text to path, compressed with the configured dump codec.
// The codec extension is appended to path.
func (p *Pipeline) writeText(path, text string) (err error) {
	path += p.dumpAlgo.Extension()
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create dump: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	w, err := compression.CompressWriter(p.dumpAlgo, f)
	if err != nil {
		return err
	}
	if _, err := w.Write([]byte(text)); err != nil {
		w.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return nil
}
