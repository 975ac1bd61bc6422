// Package unify implements link-based union-find unification over the
// interned type pool: making two types equal by linking variables, with an
// occurs check, rank-aware generalization/instantiation, and a structured
// error taxonomy identifying the mismatch and its context.
package unify

import "github.com/ori-lang/oric/internal/types"

// Context holds the unifier's mutable state: the pool it operates over,
// the current scope rank, and accumulated non-fatal errors.
//
// A Context is not safe for concurrent use — per the single-threaded-per-
// compilation resource model, it is owned exclusively by the driver for
// the duration of one compilation.
type Context struct {
	Pool      *types.Pool
	rank      types.Rank
	rankStack []types.Rank
	Errors    []*Error
}

// New creates a unification context at Rank::FIRST over pool.
func New(pool *types.Pool) *Context {
	return &Context{Pool: pool, rank: types.RankFirst}
}

// Rank returns the current scope rank.
func (c *Context) Rank() types.Rank { return c.rank }

// EnterScope pushes the current rank and increments it, entering a new
// (deeper) scope — e.g. the body of a let-binding about to be
// generalized.
func (c *Context) EnterScope() {
	c.rankStack = append(c.rankStack, c.rank)
	c.rank++
}

// ExitScope pops back to the rank active before the matching EnterScope.
func (c *Context) ExitScope() {
	n := len(c.rankStack)
	c.rank = c.rankStack[n-1]
	c.rankStack = c.rankStack[:n-1]
}

// FreshVar allocates a new unbound variable at the current rank.
func (c *Context) FreshVar() types.Idx {
	return c.Pool.FreshVarWithRank(c.rank)
}

// Resolve follows Var -> Link chains with path compression.
func (c *Context) Resolve(idx types.Idx) types.Idx {
	return c.Pool.ResolveVar(idx, true)
}

// ResolveReadonly performs the same traversal without mutating the pool.
func (c *Context) ResolveReadonly(idx types.Idx) types.Idx {
	return c.Pool.ResolveVar(idx, false)
}

// recordError appends err to the accumulated error list and returns it, so
// call sites can `return nil, c.recordError(...)` in one line.
func (c *Context) recordError(err *Error) *Error {
	c.Errors = append(c.Errors, err)
	return err
}
