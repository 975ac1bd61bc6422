package unify

import "github.com/ori-lang/oric/internal/types"

// Generalize quantifies every unbound variable in t whose rank is at or
// deeper than the unifier's current rank, turning it into a `Generalized`
// scheme. Variables at a shallower rank belong to an enclosing scope and
// are left unbound.
func (c *Context) Generalize(t types.Idx) types.Idx {
	seen := map[uint32]bool{}
	var vars []uint32
	c.collectGeneralizable(t, seen, &vars)
	if len(vars) == 0 {
		return t
	}
	for _, id := range vars {
		st := c.Pool.VarState(id)
		st.Kind = types.VarGeneralized
		c.Pool.SetVarState(id, st)
	}
	return c.Pool.Scheme(vars, t)
}

// collectGeneralizable walks t (gated on HAS_VAR) collecting the ids of
// unbound variables with rank greater than or equal to the unifier's
// current rank, in first-occurrence order, each exactly once.
func (c *Context) collectGeneralizable(t types.Idx, seen map[uint32]bool, out *[]uint32) {
	t = c.ResolveReadonly(t)
	if !c.Pool.Flags(t).Has(types.HasVar) {
		return
	}
	if c.Pool.Tag(t) == types.TagVar {
		id := c.Pool.VarID(t)
		st := c.Pool.VarState(id)
		if st.Kind == types.VarUnbound && st.Rank >= c.rank && !seen[id] {
			seen[id] = true
			*out = append(*out, id)
		}
		return
	}
	for _, child := range children(c.Pool, t) {
		c.collectGeneralizable(child, seen, out)
	}
}

// Instantiate replaces every bound variable of a `Generalized` scheme with
// a fresh unbound variable at the current rank, substituting through the
// body. idx must be a TagGeneralized item; a non-scheme idx is returned
// unchanged (instantiating a monomorphic type is a no-op).
func (c *Context) Instantiate(idx types.Idx) types.Idx {
	if c.Pool.Tag(idx) != types.TagGeneralized {
		return idx
	}
	boundVars := c.Pool.SchemeVars(idx)
	body := c.Pool.SchemeBody(idx)
	subst := make(map[uint32]types.Idx, len(boundVars))
	for _, id := range boundVars {
		subst[id] = c.FreshVar()
	}
	return c.substitute(body, subst)
}

// substitute rebuilds t with every occurrence of a bound variable in subst
// replaced by its fresh instantiation, sharing structure for any subtree
// that contains none of the substituted variables.
func (c *Context) substitute(t types.Idx, subst map[uint32]types.Idx) types.Idx {
	if !c.Pool.Flags(t).Has(types.HasVar) {
		return t
	}
	p := c.Pool
	switch p.Tag(t) {
	case types.TagVar:
		if fresh, ok := subst[p.VarID(t)]; ok {
			return fresh
		}
		return t
	case types.TagList:
		return p.List(c.substitute(p.ListElem(t), subst))
	case types.TagOption:
		return p.Option(c.substitute(p.OptionInner(t), subst))
	case types.TagSet:
		return p.Set(c.substitute(p.SetElem(t), subst))
	case types.TagChannel:
		return p.Channel(c.substitute(p.ChannelElem(t), subst))
	case types.TagRange:
		return p.RangeOf(c.substitute(p.RangeElem(t), subst))
	case types.TagIterator:
		return p.Iterator(c.substitute(p.IteratorElem(t), subst))
	case types.TagMap:
		return p.Map(c.substitute(p.MapKey(t), subst), c.substitute(p.MapValue(t), subst))
	case types.TagResult:
		return p.Result(c.substitute(p.ResultOk(t), subst), c.substitute(p.ResultErr(t), subst))
	case types.TagBorrowed:
		return p.Borrowed(c.substitute(p.BorrowedInner(t), subst), p.BorrowedLifetime(t))
	case types.TagFunction:
		params := p.FunctionParams(t)
		newParams := make([]types.Idx, len(params))
		for i, pr := range params {
			newParams[i] = c.substitute(pr, subst)
		}
		return p.Function(newParams, c.substitute(p.FunctionReturn(t), subst))
	case types.TagTuple:
		elems := p.TupleElems(t)
		newElems := make([]types.Idx, len(elems))
		for i, e := range elems {
			newElems[i] = c.substitute(e, subst)
		}
		return p.Tuple(newElems)
	case types.TagApplied:
		args := p.AppliedArgs(t)
		newArgs := make([]types.Idx, len(args))
		for i, a := range args {
			newArgs[i] = c.substitute(a, subst)
		}
		return p.Applied(p.AppliedName(t), newArgs)
	case types.TagAlias:
		return p.Alias(p.AliasName(t), c.substitute(p.AliasTarget(t), subst))
	default:
		// Struct/Enum/Named are nominal: their variables, if any, come
		// from their own declaration site and are not substituted here.
		return t
	}
}
