package types

// maxResolutionDepth bounds the Named/Applied/Alias resolution chase (the
// type graph is not acyclic in general: mutually recursive named types are
// legal and intern Named(name) eagerly before their concrete definition is
// known).
const maxResolutionDepth = 16

// SetResolution records the Named/Applied/Alias -> concrete edge for named,
// to be followed later by Resolve/ResolveFully.
func (p *Pool) SetResolution(named, concrete Idx) {
	p.resolutions[named] = concrete
}

// Resolve chases the Named/Applied/Alias resolution map up to
// maxResolutionDepth. Returns the final concrete Idx and true if at least
// one edge was followed; returns (idx, false) if idx has no resolution.
func (p *Pool) Resolve(idx Idx) (Idx, bool) {
	cur := idx
	followed := false
	for depth := 0; depth < maxResolutionDepth; depth++ {
		next, ok := p.resolutions[cur]
		if !ok {
			return cur, followed
		}
		cur = next
		followed = true
	}
	p.depthWarnings.Add(1)
	return cur, followed
}

// ResolveFully first follows Var -> Link chains (with path compression),
// then chases Named/Applied/Alias resolutions. As a fallback, an
// Applied(name, _) with no direct resolution is resolved by searching for
// a Named(name) entry that does have one.
func (p *Pool) ResolveFully(idx Idx) Idx {
	cur := p.ResolveVar(idx, true)
	if resolved, ok := p.Resolve(cur); ok {
		return resolved
	}
	if p.items[cur].Tag == TagApplied {
		name := p.AppliedName(cur)
		if named := p.findNamed(name); named != 0 || name == 0 {
			if resolved, ok := p.Resolve(named); ok {
				return resolved
			}
		}
	}
	return cur
}

// findNamed linearly searches interned Named(name) items. Compilations
// intern a bounded number of Named types so this is acceptable; callers
// needing this on a hot path should cache the Named idx themselves.
func (p *Pool) findNamed(name Name) Idx {
	for idx, it := range p.items {
		if it.Tag == TagNamed && p.NamedName(Idx(idx)) == name {
			return Idx(idx)
		}
	}
	return 0
}

// DepthWarnings returns the number of resolution chases that were
// truncated at maxResolutionDepth, for diagnostic reporting.
func (p *Pool) DepthWarnings() int { return int(p.depthWarnings.Load()) }

// ResolveVar follows a Var -> Link chain to its terminal target (Unbound,
// Rigid, Generalized, or a concrete non-variable type). When compress is
// true, every intermediate variable visited is updated to link directly to
// the terminal target (the union-find "path compression" step). Non-Var
// idx values are returned unchanged.
func (p *Pool) ResolveVar(idx Idx, compress bool) Idx {
	return p.resolveVarChain(idx, compress)
}

func (p *Pool) resolveVarChain(idx Idx, compress bool) Idx {
	if p.items[idx].Tag != TagVar {
		return idx
	}
	id := p.VarID(idx)
	visited := []Idx{idx}
	cur := idx
	for {
		st := &p.vars[id]
		if st.Kind != VarLink {
			break
		}
		target := st.Link
		if p.items[target].Tag != TagVar {
			cur = target
			break
		}
		cur = target
		id = p.VarID(target)
		visited = append(visited, target)
	}
	if compress && len(visited) > 1 {
		for _, v := range visited[:len(visited)-1] {
			p.vars[p.VarID(v)].Link = cur
			p.vars[p.VarID(v)].Kind = VarLink
		}
	}
	return cur
}
