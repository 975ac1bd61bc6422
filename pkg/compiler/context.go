// Package compiler drives the semantic core — TypePool, Unifier, the
// pattern-match compiler, liveness, and drop-descriptor synthesis —
// through a fixed, ordered pipeline of stages that accumulate
// diagnostics instead of aborting on the first error, so one bad
// function never blocks compilation of the rest of the module.
package compiler

import (
	"github.com/google/uuid"

	"github.com/ori-lang/oric/internal/arcir"
	"github.com/ori-lang/oric/internal/classifier"
	"github.com/ori-lang/oric/internal/diag"
	"github.com/ori-lang/oric/internal/dropinfo"
	"github.com/ori-lang/oric/internal/liveness"
	"github.com/ori-lang/oric/internal/match"
	"github.com/ori-lang/oric/internal/types"
	"github.com/ori-lang/oric/internal/unify"
)

// Constraint is one equation an earlier elaboration pass wants the
// Unifier to check; UnifyStage consumes these in order.
type Constraint struct {
	A, B  types.Idx
	Site  unify.Site
	Index int
	Span  diag.Span
}

// MatchTask is one pattern match ready for decision-tree compilation.
type MatchTask struct {
	Name   string
	Matrix match.PatternMatrix
	Paths  []match.ScrutineePath
}

// Context threads state between pipeline stages. Every field an earlier
// stage doesn't need is simply left at its zero value; a stage that
// finds its prerequisite missing is a no-op, mirroring the donor
// pipeline's "if ctx.AstRoot == nil { return ctx }" guard.
type Context struct {
	RunID uuid.UUID

	Pool     *types.Pool
	UnifyCtx *unify.Context
	Classify classifier.Classification

	Constraints []Constraint
	Matches     []MatchTask
	Functions   []*arcir.Function

	DecisionTrees map[string]*match.DecisionTree
	LivenessOf    map[string]liveness.BlockLiveness
	DropInfos     []dropinfo.Info
	Bundles       map[string][]byte

	Diagnostics *diag.Sink
}

// NewContext builds a Context ready for the TypePoolStage, stamping a
// fresh correlation id that every emitted bundle carries back to the
// caller.
func NewContext(colorMode diag.ColorMode) *Context {
	return &Context{
		RunID:       uuid.New(),
		Diagnostics: diag.NewSink(colorMode),
	}
}

// Processor is one pipeline stage. It receives and returns the shared
// Context so stages compose without a central dispatch switch.
type Processor interface {
	Process(ctx *Context) *Context
}
