package compiler

import (
	"sync"

	"github.com/ori-lang/oric/internal/liveness"
	"github.com/ori-lang/oric/internal/match"
)

// ParallelLivenessStage is LivenessStage spread across a bounded worker
// pool. Each function's liveness is independent of every other
// function's, so this is an embarrassingly parallel fan-out — no
// pack dependency supplies a worker-pool abstraction, so this stays on
// channels and sync.WaitGroup like the rest of the module's ambient
// concurrency.
type ParallelLivenessStage struct {
	// Workers caps concurrent liveness computations. Zero means
	// unbounded (one goroutine per function).
	Workers int
}

func (s ParallelLivenessStage) Process(ctx *Context) *Context {
	if len(ctx.Functions) == 0 || ctx.Classify == nil {
		return ctx
	}

	type result struct {
		name string
		live liveness.BlockLiveness
	}
	results := make(chan result, len(ctx.Functions))
	work := make(chan int)

	workers := s.Workers
	if workers <= 0 || workers > len(ctx.Functions) {
		workers = len(ctx.Functions)
	}

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for idx := range work {
				fn := ctx.Functions[idx]
				results <- result{name: fn.Name, live: liveness.Compute(fn, ctx.Classify)}
			}
		}()
	}

	go func() {
		for i := range ctx.Functions {
			work <- i
		}
		close(work)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	if ctx.LivenessOf == nil {
		ctx.LivenessOf = make(map[string]liveness.BlockLiveness, len(ctx.Functions))
	}
	for r := range results {
		ctx.LivenessOf[r.name] = r.live
		ctx.Diagnostics.Info("liveness(%s) converged after %d iterations", r.name, r.live.Iterations)
	}
	return ctx
}

// ParallelMatchCompileStage is MatchCompileStage spread across a
// bounded worker pool. Decision-tree compilation for one match
// expression never reads another's matrix, so fan-out is safe.
type ParallelMatchCompileStage struct {
	Workers int
}

func (s ParallelMatchCompileStage) Process(ctx *Context) *Context {
	if len(ctx.Matches) == 0 {
		return ctx
	}

	type result struct {
		name string
		tree *match.DecisionTree
	}
	results := make(chan result, len(ctx.Matches))
	work := make(chan int)

	workers := s.Workers
	if workers <= 0 || workers > len(ctx.Matches) {
		workers = len(ctx.Matches)
	}

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for idx := range work {
				task := ctx.Matches[idx]
				results <- result{name: task.Name, tree: match.Compile(task.Matrix, task.Paths)}
			}
		}()
	}

	go func() {
		for i := range ctx.Matches {
			work <- i
		}
		close(work)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	if ctx.DecisionTrees == nil {
		ctx.DecisionTrees = make(map[string]*match.DecisionTree, len(ctx.Matches))
	}
	for r := range results {
		ctx.DecisionTrees[r.name] = r.tree
	}
	return ctx
}
