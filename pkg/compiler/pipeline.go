package compiler

// Pipeline runs a fixed sequence of Processors over one Context.
type Pipeline struct {
	stages []Processor
}

// New builds a pipeline from an explicit stage list, in the order they
// run.
func New(stages ...Processor) *Pipeline {
	return &Pipeline{stages: stages}
}

// Default returns the six ordered stages the front-end semantic core
// always runs: TypePool init, Unify, MatchCompile, Liveness, Drop, Emit.
func Default() *Pipeline {
	return New(
		TypePoolStage{},
		UnifyStage{},
		MatchCompileStage{},
		LivenessStage{},
		DropStage{},
		EmitStage{},
	)
}

// DefaultParallel is Default with the two per-function stages
// (Liveness, MatchCompile) swapped for their worker-pool variants. Pick
// this for modules large enough that per-function analysis dominates
// wall time; the sequential Default is simpler to reason about for
// small modules and in tests.
func DefaultParallel(workers int) *Pipeline {
	return New(
		TypePoolStage{},
		UnifyStage{},
		ParallelMatchCompileStage{Workers: workers},
		ParallelLivenessStage{Workers: workers},
		DropStage{},
		EmitStage{},
	)
}

// Run executes every stage in order. A stage never aborts the pipeline
// by returning early on a per-item error — it records the error into
// ctx.Diagnostics and continues, so a bad function never blocks
// compilation of the rest of the module.
func (p *Pipeline) Run(ctx *Context) *Context {
	for _, stage := range p.stages {
		ctx = stage.Process(ctx)
	}
	return ctx
}
