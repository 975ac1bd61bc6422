package types

// assertTag debug-asserts the expected tag; a release-mode mismatch is a
// compiler bug, not a user-facing error (callers that need graceful
// handling should check Tag() themselves first).
func (p *Pool) assertTag(idx Idx, want Tag) {
	if got := p.items[idx].Tag; got != want {
		panic("types: accessor tag mismatch: want " + want.String() + " got " + got.String())
	}
}

func (p *Pool) singleChild(idx Idx, want Tag) Idx {
	p.assertTag(idx, want)
	return Idx(p.items[idx].Data)
}

func (p *Pool) ListElem(idx Idx) Idx     { return p.singleChild(idx, TagList) }
func (p *Pool) OptionInner(idx Idx) Idx  { return p.singleChild(idx, TagOption) }
func (p *Pool) SetElem(idx Idx) Idx      { return p.singleChild(idx, TagSet) }
func (p *Pool) ChannelElem(idx Idx) Idx  { return p.singleChild(idx, TagChannel) }
func (p *Pool) RangeElem(idx Idx) Idx    { return p.singleChild(idx, TagRange) }
func (p *Pool) IteratorElem(idx Idx) Idx { return p.singleChild(idx, TagIterator) }

func (p *Pool) pair(idx Idx, want Tag) (Idx, Idx) {
	p.assertTag(idx, want)
	start := p.items[idx].Data
	e := p.extraAt(start, 2)
	return Idx(e[0]), Idx(e[1])
}

func (p *Pool) MapKey(idx Idx) Idx   { k, _ := p.pair(idx, TagMap); return k }
func (p *Pool) MapValue(idx Idx) Idx { _, v := p.pair(idx, TagMap); return v }

func (p *Pool) ResultOk(idx Idx) Idx  { ok, _ := p.pair(idx, TagResult); return ok }
func (p *Pool) ResultErr(idx Idx) Idx { _, err := p.pair(idx, TagResult); return err }

func (p *Pool) BorrowedInner(idx Idx) Idx {
	inner, _ := p.pair(idx, TagBorrowed)
	return inner
}

func (p *Pool) BorrowedLifetime(idx Idx) uint32 {
	_, lt := p.pair(idx, TagBorrowed)
	return uint32(lt)
}

func (p *Pool) FunctionParams(idx Idx) []Idx {
	p.assertTag(idx, TagFunction)
	start := p.items[idx].Data
	n := p.extra[start]
	raw := p.extraAt(start+1, int(n))
	out := make([]Idx, n)
	for i, v := range raw {
		out[i] = Idx(v)
	}
	return out
}

func (p *Pool) FunctionReturn(idx Idx) Idx {
	p.assertTag(idx, TagFunction)
	start := p.items[idx].Data
	n := p.extra[start]
	return Idx(p.extra[start+1+n])
}

func (p *Pool) TupleElems(idx Idx) []Idx {
	p.assertTag(idx, TagTuple)
	start := p.items[idx].Data
	n := p.extra[start]
	raw := p.extraAt(start+1, int(n))
	out := make([]Idx, n)
	for i, v := range raw {
		out[i] = Idx(v)
	}
	return out
}

func (p *Pool) StructName(idx Idx) Name {
	p.assertTag(idx, TagStruct)
	start := p.items[idx].Data
	return joinName(p.extra[start], p.extra[start+1])
}

func (p *Pool) StructFields(idx Idx) []StructField {
	p.assertTag(idx, TagStruct)
	start := p.items[idx].Data
	n := p.extra[start+2]
	out := make([]StructField, n)
	off := start + 3
	for i := uint32(0); i < n; i++ {
		lo, hi, ty := p.extra[off], p.extra[off+1], p.extra[off+2]
		out[i] = StructField{Name: joinName(lo, hi), Type: Idx(ty)}
		off += 3
	}
	return out
}

func (p *Pool) EnumName(idx Idx) Name {
	p.assertTag(idx, TagEnum)
	start := p.items[idx].Data
	return joinName(p.extra[start], p.extra[start+1])
}

// EnumVariants returns (variant_name, field_types) for every variant, in
// declaration order.
func (p *Pool) EnumVariants(idx Idx) []EnumVariant {
	p.assertTag(idx, TagEnum)
	start := p.items[idx].Data
	n := p.extra[start+2]
	out := make([]EnumVariant, n)
	off := start + 3
	for i := uint32(0); i < n; i++ {
		lo, hi, fc := p.extra[off], p.extra[off+1], p.extra[off+2]
		off += 3
		fields := make([]Idx, fc)
		for j := uint32(0); j < fc; j++ {
			fields[j] = Idx(p.extra[off])
			off++
		}
		out[i] = EnumVariant{Name: joinName(lo, hi), FieldTypes: fields}
	}
	return out
}

func (p *Pool) NamedName(idx Idx) Name {
	p.assertTag(idx, TagNamed)
	start := p.items[idx].Data
	return joinName(p.extra[start], p.extra[start+1])
}

func (p *Pool) AppliedName(idx Idx) Name {
	p.assertTag(idx, TagApplied)
	start := p.items[idx].Data
	return joinName(p.extra[start], p.extra[start+1])
}

func (p *Pool) AppliedArgs(idx Idx) []Idx {
	p.assertTag(idx, TagApplied)
	start := p.items[idx].Data
	n := p.extra[start+2]
	raw := p.extraAt(start+3, int(n))
	out := make([]Idx, n)
	for i, v := range raw {
		out[i] = Idx(v)
	}
	return out
}

func (p *Pool) AliasName(idx Idx) Name {
	p.assertTag(idx, TagAlias)
	start := p.items[idx].Data
	return joinName(p.extra[start], p.extra[start+1])
}

func (p *Pool) AliasTarget(idx Idx) Idx {
	p.assertTag(idx, TagAlias)
	start := p.items[idx].Data
	return Idx(p.extra[start+2])
}

func (p *Pool) SchemeVars(idx Idx) []uint32 {
	p.assertTag(idx, TagGeneralized)
	start := p.items[idx].Data
	n := p.extra[start]
	out := make([]uint32, n)
	copy(out, p.extraAt(start+1, int(n)))
	return out
}

func (p *Pool) SchemeBody(idx Idx) Idx {
	p.assertTag(idx, TagGeneralized)
	start := p.items[idx].Data
	n := p.extra[start]
	return Idx(p.extra[start+1+n])
}

// VarID returns the variable id carried by a Var/BoundVar/RigidVar item.
func (p *Pool) VarID(idx Idx) uint32 {
	tag := p.items[idx].Tag
	if tag != TagVar && tag != TagBoundVar && tag != TagRigidVar {
		panic("types: VarID on non-variable tag " + tag.String())
	}
	return p.items[idx].Data
}
