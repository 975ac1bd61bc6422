package compiler

import (
	"github.com/ori-lang/oric/internal/classifier"
	"github.com/ori-lang/oric/internal/diag"
	"github.com/ori-lang/oric/internal/dropinfo"
	"github.com/ori-lang/oric/internal/emit"
	"github.com/ori-lang/oric/internal/liveness"
	"github.com/ori-lang/oric/internal/match"
	"github.com/ori-lang/oric/internal/types"
	"github.com/ori-lang/oric/internal/unify"
)

// TypePoolStage ensures a TypePool and a classifier over it exist,
// creating them fresh if the caller didn't pre-seed ctx.Pool. The pool
// is always rebuilt per compilation — no cross-module incremental type
// reuse, only the AST-level reuse internal/cache provides upstream of
// this pipeline.
type TypePoolStage struct{}

func (TypePoolStage) Process(ctx *Context) *Context {
	if ctx.Pool == nil {
		ctx.Pool = types.New()
	}
	if ctx.Classify == nil {
		ctx.Classify = classifier.New(ctx.Pool)
	}
	if ctx.UnifyCtx == nil {
		ctx.UnifyCtx = unify.New(ctx.Pool)
	}
	return ctx
}

// UnifyStage checks every pending constraint, reporting each failure as
// a diagnostic and continuing — one mismatched call site never stops
// the rest of the module from type-checking.
type UnifyStage struct{}

func (UnifyStage) Process(ctx *Context) *Context {
	if ctx.UnifyCtx == nil {
		return ctx
	}
	for _, c := range ctx.Constraints {
		if err := ctx.UnifyCtx.Unify(c.A, c.B, c.Site, c.Index); err != nil {
			ctx.Diagnostics.Report(diag.FromUnifyError(err, c.Span))
		}
	}
	return ctx
}

// MatchCompileStage compiles every pending pattern matrix into a
// decision tree, sequentially.
type MatchCompileStage struct{}

func (MatchCompileStage) Process(ctx *Context) *Context {
	if len(ctx.Matches) == 0 {
		return ctx
	}
	if ctx.DecisionTrees == nil {
		ctx.DecisionTrees = make(map[string]*match.DecisionTree, len(ctx.Matches))
	}
	for _, task := range ctx.Matches {
		ctx.DecisionTrees[task.Name] = match.Compile(task.Matrix, task.Paths)
	}
	return ctx
}

// LivenessStage computes backward dataflow liveness for every function
// in the module, sequentially.
type LivenessStage struct{}

func (LivenessStage) Process(ctx *Context) *Context {
	if len(ctx.Functions) == 0 || ctx.Classify == nil {
		return ctx
	}
	if ctx.LivenessOf == nil {
		ctx.LivenessOf = make(map[string]liveness.BlockLiveness, len(ctx.Functions))
	}
	for _, fn := range ctx.Functions {
		live := liveness.Compute(fn, ctx.Classify)
		ctx.LivenessOf[fn.Name] = live
		ctx.Diagnostics.Info("liveness(%s) converged after %d iterations", fn.Name, live.Iterations)
	}
	return ctx
}

// DropStage synthesizes the deduplicated drop descriptor set every
// RcDec site in the module needs.
type DropStage struct{}

func (DropStage) Process(ctx *Context) *Context {
	if ctx.Pool == nil || ctx.Classify == nil {
		return ctx
	}
	ctx.DropInfos = dropinfo.Collect(ctx.Functions, ctx.Pool, ctx.Classify)
	return ctx
}

// EmitStage serializes each function, its liveness, and the module's
// drop descriptors into the IR handoff bundle.
type EmitStage struct{}

func (EmitStage) Process(ctx *Context) *Context {
	if len(ctx.Functions) == 0 {
		return ctx
	}
	if ctx.Bundles == nil {
		ctx.Bundles = make(map[string][]byte, len(ctx.Functions))
	}
	for _, fn := range ctx.Functions {
		live, ok := ctx.LivenessOf[fn.Name]
		if !ok {
			continue
		}
		bundle := emit.Bundle{
			RunID:    ctx.RunID,
			Function: fn,
			Liveness: live,
			Drops:    ctx.DropInfos,
		}
		out, err := emit.Marshal(bundle)
		if err != nil {
			ctx.Diagnostics.Reportf(diag.EmitFailed, diag.Span{File: fn.Name}, "emit %s: %v", fn.Name, err)
			continue
		}
		ctx.Bundles[fn.Name] = out
	}
	return ctx
}
