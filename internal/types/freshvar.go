package types

// FreshVar allocates a new unbound type variable at RankFirst.
func (p *Pool) FreshVar() Idx { return p.FreshVarWithRank(RankFirst) }

// FreshVarWithRank allocates a new unbound type variable at the given rank
// (used by the unifier when entering a nested scope).
func (p *Pool) FreshVarWithRank(rank Rank) Idx {
	return p.freshVar(rank, "")
}

// FreshNamedVar allocates a new unbound type variable carrying a
// display-only name (e.g. for a surface-level type parameter like `a` in
// `fn id<a>`).
func (p *Pool) FreshNamedVar(name string) Idx {
	return p.freshVar(RankFirst, name)
}

func (p *Pool) freshVar(rank Rank, name string) Idx {
	id := uint32(len(p.vars))
	p.vars = append(p.vars, VarState{Kind: VarUnbound, ID: id, Rank: rank, Name: name})
	return p.intern(TagVar, id, baseFlags(TagVar))
}

// VarState returns a copy of the variable-state entry for id.
func (p *Pool) VarState(id uint32) VarState { return p.vars[id] }

// SetVarState overwrites the variable-state entry for id. Used by the
// unifier to link, lower rank, or generalize a variable.
func (p *Pool) SetVarState(id uint32, st VarState) { p.vars[id] = st }

// NumVars returns the number of allocated variable ids.
func (p *Pool) NumVars() int { return len(p.vars) }

// MakeRigid interns a RigidVar with a fresh id, used for skolemized type
// parameters during checking of a polymorphic function's body against its
// declared signature.
func (p *Pool) MakeRigid(name string) Idx {
	id := uint32(len(p.vars))
	p.vars = append(p.vars, VarState{Kind: VarRigid, ID: id, Name: name})
	return p.intern(TagRigidVar, id, baseFlags(TagRigidVar))
}
