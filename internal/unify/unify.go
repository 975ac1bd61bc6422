package unify

import "github.com/ori-lang/oric/internal/types"

// Unify makes a and b equal, linking variables as needed, or returns a
// structured Error describing the first mismatch found. Idempotent and
// commutative modulo which side's variable gets linked to which (the
// resulting resolved shape is the same either way — see Scenario
// unification-symmetry in the testable-properties list).
func (c *Context) Unify(a, b types.Idx, ctx Site, index int) *Error {
	a = c.Resolve(a)
	b = c.Resolve(b)

	// 1. Identity.
	if a == b {
		return nil
	}

	// 2. Error absorption: either side carrying HAS_ERROR silently
	// succeeds, preventing cascading diagnostics from one bad inference.
	if c.Pool.Flags(a).Has(types.HasError) || c.Pool.Flags(b).Has(types.HasError) {
		return nil
	}

	// 3. Never is bottom: unifies with anything.
	if c.Pool.Tag(a) == types.TagNever || c.Pool.Tag(b) == types.TagNever {
		return nil
	}

	aIsVar := c.Pool.Tag(a) == types.TagVar
	bIsVar := c.Pool.Tag(b) == types.TagVar

	// 4. Variable linking (both variables, or one variable + one concrete
	// type): occurs check then link, lowering ranks along the way.
	if aIsVar && bIsVar {
		return c.linkVars(a, b)
	}
	if aIsVar {
		return c.linkVarToType(a, b, ctx, index)
	}
	if bIsVar {
		return c.linkVarToType(b, a, ctx, index)
	}

	// 5. Rigid variables never link; a mismatch here is a checking
	// failure, not a unification resolution.
	aRigid := c.Pool.Tag(a) == types.TagRigidVar
	bRigid := c.Pool.Tag(b) == types.TagRigidVar
	if aRigid || bRigid {
		if aRigid && bRigid {
			if c.Pool.VarID(a) == c.Pool.VarID(b) {
				return nil
			}
			return c.recordError(&Error{Kind: RigidRigidMismatch, Expected: a, Found: b, Ctx: ctx, Index: index})
		}
		return c.recordError(&Error{Kind: RigidMismatch, Expected: a, Found: b, Ctx: ctx, Index: index})
	}

	// 6. A Generalized scheme reaching unification is a compiler
	// invariant violation: callers must instantiate before unifying.
	if c.Pool.Tag(a) == types.TagGeneralized || c.Pool.Tag(b) == types.TagGeneralized {
		return c.recordError(&Error{Kind: UninstantiatedGeneralized, Expected: a, Found: b, Ctx: ctx, Index: index})
	}

	// 7. Structural dispatch.
	return c.unifyStructural(a, b, ctx, index)
}

func (c *Context) linkVars(a, b types.Idx) *Error {
	va, vb := c.Pool.VarID(a), c.Pool.VarID(b)
	if va == vb {
		return nil
	}
	sa, sb := c.Pool.VarState(va), c.Pool.VarState(vb)
	// Link the higher-rank (more local) variable to the lower-rank one so
	// generalization never captures a variable that escaped its scope via
	// an earlier, shallower binding.
	if sa.Rank <= sb.Rank {
		c.Pool.SetVarState(vb, types.VarState{Kind: types.VarLink, ID: vb, Link: a})
	} else {
		c.Pool.SetVarState(va, types.VarState{Kind: types.VarLink, ID: va, Link: b})
	}
	return nil
}

// linkVarToType links variable v (already resolved, confirmed to be a
// Var) to concrete type t, after an occurs check and rank lowering.
func (c *Context) linkVarToType(v, t types.Idx, ctx Site, index int) *Error {
	vid := c.Pool.VarID(v)
	if c.occurs(vid, t) {
		return c.recordError(&Error{Kind: InfiniteType, VarID: vid, Container: t, Ctx: ctx, Index: index})
	}
	rank := c.Pool.VarState(vid).Rank
	c.lowerRanks(t, rank)
	c.Pool.SetVarState(vid, types.VarState{Kind: types.VarLink, ID: vid, Link: t})
	return nil
}

// occurs reports whether variable vid appears anywhere inside t,
// short-circuited by the HAS_VAR flag so types without any variable are
// rejected in O(1).
func (c *Context) occurs(vid uint32, t types.Idx) bool {
	t = c.ResolveReadonly(t)
	if !c.Pool.Flags(t).Has(types.HasVar) {
		return false
	}
	if c.Pool.Tag(t) == types.TagVar {
		return c.Pool.VarID(t) == vid
	}
	for _, child := range children(c.Pool, t) {
		if c.occurs(vid, child) {
			return true
		}
	}
	return false
}

// lowerRanks walks t (gated on HAS_VAR) and reduces every unbound
// variable's rank to at most maxRank, preventing a variable from being
// generalized past the scope of something it was just linked to.
func (c *Context) lowerRanks(t types.Idx, maxRank types.Rank) {
	t = c.ResolveReadonly(t)
	if !c.Pool.Flags(t).Has(types.HasVar) {
		return
	}
	if c.Pool.Tag(t) == types.TagVar {
		vid := c.Pool.VarID(t)
		st := c.Pool.VarState(vid)
		if st.Kind == types.VarUnbound && st.Rank > maxRank {
			st.Rank = maxRank
			c.Pool.SetVarState(vid, st)
		}
		return
	}
	for _, child := range children(c.Pool, t) {
		c.lowerRanks(child, maxRank)
	}
}

// children enumerates the immediate child Idx values of a compound type,
// used by occurs/lowerRanks traversal. Primitives and variables have none.
func children(p *types.Pool, t types.Idx) []types.Idx {
	switch p.Tag(t) {
	case types.TagList:
		return []types.Idx{p.ListElem(t)}
	case types.TagOption:
		return []types.Idx{p.OptionInner(t)}
	case types.TagSet:
		return []types.Idx{p.SetElem(t)}
	case types.TagChannel:
		return []types.Idx{p.ChannelElem(t)}
	case types.TagRange:
		return []types.Idx{p.RangeElem(t)}
	case types.TagIterator:
		return []types.Idx{p.IteratorElem(t)}
	case types.TagMap:
		return []types.Idx{p.MapKey(t), p.MapValue(t)}
	case types.TagResult:
		return []types.Idx{p.ResultOk(t), p.ResultErr(t)}
	case types.TagBorrowed:
		return []types.Idx{p.BorrowedInner(t)}
	case types.TagFunction:
		params := p.FunctionParams(t)
		return append(append([]types.Idx(nil), params...), p.FunctionReturn(t))
	case types.TagTuple:
		return p.TupleElems(t)
	case types.TagStruct:
		fields := p.StructFields(t)
		out := make([]types.Idx, len(fields))
		for i, f := range fields {
			out[i] = f.Type
		}
		return out
	case types.TagEnum:
		var out []types.Idx
		for _, v := range p.EnumVariants(t) {
			out = append(out, v.FieldTypes...)
		}
		return out
	case types.TagApplied:
		return p.AppliedArgs(t)
	case types.TagAlias:
		return []types.Idx{p.AliasTarget(t)}
	default:
		return nil
	}
}

func (c *Context) unifyStructural(a, b types.Idx, ctx Site, index int) *Error {
	ta, tb := c.Pool.Tag(a), c.Pool.Tag(b)
	if ta != tb {
		return c.recordError(&Error{Kind: Mismatch, Expected: a, Found: b, Ctx: ctx, Index: index})
	}

	switch ta {
	case types.TagList:
		return c.Unify(c.Pool.ListElem(a), c.Pool.ListElem(b), CtxListElement, 0)
	case types.TagSet:
		return c.Unify(c.Pool.SetElem(a), c.Pool.SetElem(b), CtxListElement, 0)
	case types.TagChannel:
		return c.Unify(c.Pool.ChannelElem(a), c.Pool.ChannelElem(b), CtxListElement, 0)
	case types.TagIterator:
		return c.Unify(c.Pool.IteratorElem(a), c.Pool.IteratorElem(b), CtxListElement, 0)
	case types.TagRange:
		return c.Unify(c.Pool.RangeElem(a), c.Pool.RangeElem(b), CtxListElement, 0)
	case types.TagOption:
		return c.Unify(c.Pool.OptionInner(a), c.Pool.OptionInner(b), CtxOptionInner, 0)
	case types.TagMap:
		if err := c.Unify(c.Pool.MapKey(a), c.Pool.MapKey(b), CtxMapKey, 0); err != nil {
			return err
		}
		return c.Unify(c.Pool.MapValue(a), c.Pool.MapValue(b), CtxMapValue, 0)
	case types.TagResult:
		if err := c.Unify(c.Pool.ResultOk(a), c.Pool.ResultOk(b), CtxResultOk, 0); err != nil {
			return err
		}
		return c.Unify(c.Pool.ResultErr(a), c.Pool.ResultErr(b), CtxResultErr, 0)
	case types.TagBorrowed:
		if c.Pool.BorrowedLifetime(a) != c.Pool.BorrowedLifetime(b) {
			return c.recordError(&Error{Kind: Mismatch, Expected: a, Found: b, Ctx: CtxBorrowedInner, Index: 0})
		}
		return c.Unify(c.Pool.BorrowedInner(a), c.Pool.BorrowedInner(b), CtxBorrowedInner, 0)
	case types.TagFunction:
		pa, pb := c.Pool.FunctionParams(a), c.Pool.FunctionParams(b)
		if len(pa) != len(pb) {
			return c.recordError(&Error{Kind: ArityMismatch, ArityExpected: len(pa), ArityFound: len(pb), ArityOf: ArityFunction})
		}
		for i := range pa {
			if err := c.Unify(pa[i], pb[i], CtxParam, i); err != nil {
				return err
			}
		}
		return c.Unify(c.Pool.FunctionReturn(a), c.Pool.FunctionReturn(b), CtxTop, 0)
	case types.TagTuple:
		ea, eb := c.Pool.TupleElems(a), c.Pool.TupleElems(b)
		if len(ea) != len(eb) {
			return c.recordError(&Error{Kind: ArityMismatch, ArityExpected: len(ea), ArityFound: len(eb), ArityOf: ArityTuple})
		}
		for i := range ea {
			if err := c.Unify(ea[i], eb[i], CtxTupleElem, i); err != nil {
				return err
			}
		}
		return nil
	case types.TagApplied:
		if c.Pool.AppliedName(a) != c.Pool.AppliedName(b) {
			return c.recordError(&Error{Kind: Mismatch, Expected: a, Found: b, Ctx: ctx, Index: index})
		}
		argsA, argsB := c.Pool.AppliedArgs(a), c.Pool.AppliedArgs(b)
		if len(argsA) != len(argsB) {
			return c.recordError(&Error{Kind: ArityMismatch, ArityExpected: len(argsA), ArityFound: len(argsB), ArityOf: ArityTypeArgs})
		}
		for i := range argsA {
			if err := c.Unify(argsA[i], argsB[i], CtxTypeArg, i); err != nil {
				return err
			}
		}
		return nil
	case types.TagNamed:
		if c.Pool.NamedName(a) != c.Pool.NamedName(b) {
			return c.recordError(&Error{Kind: Mismatch, Expected: a, Found: b, Ctx: ctx, Index: index})
		}
		return nil
	case types.TagStruct, types.TagEnum:
		// Struct/Enum identity is interning identity (step 1 already
		// handled the equal case); reaching here with equal tags but
		// different idx values means two distinct nominal definitions.
		return c.recordError(&Error{Kind: Mismatch, Expected: a, Found: b, Ctx: ctx, Index: index})
	default:
		// Remaining primitive tags: equal tag with different idx is
		// impossible (primitives are singletons), so this path is
		// unreachable in practice; treat conservatively as a mismatch.
		return c.recordError(&Error{Kind: Mismatch, Expected: a, Found: b, Ctx: ctx, Index: index})
	}
}
