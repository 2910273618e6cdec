// Copyright 2025 objfiledb Authors
// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"context"

	"github.com/LeeDigitalWorks/objfiledb/pkg/function"
	"github.com/LeeDigitalWorks/objfiledb/pkg/linked"
	"github.com/LeeDigitalWorks/objfiledb/pkg/objdb"

	"golang.org/x/sync/errgroup"
)

// ObjectFunc is called once per unique object. It may mutate the object's
// annotation.
type ObjectFunc func(ctx context.Context, obj *objdb.ObjectData) error

// FunctionFunc is called once per function of a code-discovered object.
type FunctionFunc func(ctx context.Context, fn *function.Function, seg int, obj *objdb.ObjectData) error

// ForEachObject calls fn for every unique object in first-seen name order,
// then version order. With more than one worker, objects are visited
// concurrently but no object is visited twice, and ForEachObject returns
// only after every call has finished. The first error stops the iteration.
func (p *Pipeline) ForEachObject(ctx context.Context, fn ObjectFunc) error {
	return p.forEachIndexed(ctx, func(ctx context.Context, _ int, obj *objdb.ObjectData) error {
		return fn(ctx, obj)
	})
}

// ForEachFunction calls fn for every function of every object, segment by
// segment in address order. Objects must have been through FindCode.
func (p *Pipeline) ForEachFunction(ctx context.Context, fn FunctionFunc) error {
	return p.ForEachObject(ctx, func(ctx context.Context, obj *objdb.ObjectData) error {
		lo, err := obj.Annotation.Object(linked.CodeDiscovered)
		if err != nil {
			return objectError(obj, err)
		}
		for seg := 0; seg < lo.Segments(); seg++ {
			for _, f := range lo.FunctionsBySeg(seg) {
				if err := fn(ctx, f, seg, obj); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// forEachIndexed is ForEachObject with the object's position in iteration
// order, so callers can assemble ordered output from parallel work.
func (p *Pipeline) forEachIndexed(ctx context.Context, fn func(ctx context.Context, i int, obj *objdb.ObjectData) error) error {
	objs := p.db.Objects()

	if p.cfg.Workers <= 1 {
		for i, obj := range objs {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := fn(ctx, i, obj); err != nil {
				return err
			}
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Workers)
	for i, obj := range objs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(gctx, i, obj)
		})
	}
	return g.Wait()
}
