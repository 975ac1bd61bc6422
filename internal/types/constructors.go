package types

// EnumVariant describes one variant of an enum type at construction time:
// its name and the types of its positional fields.
type EnumVariant struct {
	Name       Name
	FieldTypes []Idx
}

func (p *Pool) child(idx Idx) Flags { return p.flags[idx] }

// List interns `[elem]`.
func (p *Pool) List(elem Idx) Idx {
	return p.intern(TagList, uint32(elem), withChildFlags(baseFlags(TagList), p.child(elem)))
}

// Option interns `option[inner]`.
func (p *Pool) Option(inner Idx) Idx {
	return p.intern(TagOption, uint32(inner), withChildFlags(baseFlags(TagOption), p.child(inner)))
}

// Set interns `set[elem]`.
func (p *Pool) Set(elem Idx) Idx {
	return p.intern(TagSet, uint32(elem), withChildFlags(baseFlags(TagSet), p.child(elem)))
}

// Channel interns `chan<elem>`.
func (p *Pool) Channel(elem Idx) Idx {
	return p.intern(TagChannel, uint32(elem), withChildFlags(baseFlags(TagChannel), p.child(elem)))
}

// RangeOf interns `range[elem]`.
func (p *Pool) RangeOf(elem Idx) Idx {
	return p.intern(TagRange, uint32(elem), withChildFlags(baseFlags(TagRange), p.child(elem)))
}

// Iterator interns `iterator[elem]`.
func (p *Pool) Iterator(elem Idx) Idx {
	return p.intern(TagIterator, uint32(elem), withChildFlags(baseFlags(TagIterator), p.child(elem)))
}

// Map interns `{key: value}`.
func (p *Pool) Map(key, value Idx) Idx {
	extra := []uint32{uint32(key), uint32(value)}
	return p.internComplex(TagMap, extra, withChildFlags(baseFlags(TagMap), p.child(key), p.child(value)))
}

// Result interns `result[ok, err]`.
func (p *Pool) Result(ok, err Idx) Idx {
	extra := []uint32{uint32(ok), uint32(err)}
	return p.internComplex(TagResult, extra, withChildFlags(baseFlags(TagResult), p.child(ok), p.child(err)))
}

// Borrowed interns `&'lifetime inner`.
func (p *Pool) Borrowed(inner Idx, lifetime uint32) Idx {
	extra := []uint32{uint32(inner), lifetime}
	return p.internComplex(TagBorrowed, extra, withChildFlags(baseFlags(TagBorrowed), p.child(inner)))
}

// Function interns `(params...) -> ret`.
func (p *Pool) Function(params []Idx, ret Idx) Idx {
	extra := make([]uint32, 0, 2+len(params))
	extra = append(extra, uint32(len(params)))
	for _, pm := range params {
		extra = append(extra, uint32(pm))
	}
	extra = append(extra, uint32(ret))
	childFlags := make([]Flags, 0, len(params)+1)
	for _, pm := range params {
		childFlags = append(childFlags, p.child(pm))
	}
	childFlags = append(childFlags, p.child(ret))
	return p.internComplex(TagFunction, extra, withChildFlags(baseFlags(TagFunction), childFlags...))
}

// Tuple interns `(elems...)`.
func (p *Pool) Tuple(elems []Idx) Idx {
	extra := make([]uint32, 0, 1+len(elems))
	extra = append(extra, uint32(len(elems)))
	childFlags := make([]Flags, 0, len(elems))
	for _, e := range elems {
		extra = append(extra, uint32(e))
		childFlags = append(childFlags, p.child(e))
	}
	return p.internComplex(TagTuple, extra, withChildFlags(baseFlags(TagTuple), childFlags...))
}

// StructField is a (name, type) pair used by StructType.
type StructField struct {
	Name Name
	Type Idx
}

// StructType interns a named struct with positional (name, type) fields.
// Extra-data layout: [name_lo, name_hi, field_count, (field_name_lo,
// field_name_hi, field_type) x field_count].
func (p *Pool) StructType(name Name, fields []StructField) Idx {
	lo, hi := splitName(name)
	extra := make([]uint32, 0, 3+3*len(fields))
	extra = append(extra, lo, hi, uint32(len(fields)))
	childFlags := make([]Flags, 0, len(fields))
	for _, f := range fields {
		flo, fhi := splitName(f.Name)
		extra = append(extra, flo, fhi, uint32(f.Type))
		childFlags = append(childFlags, p.child(f.Type))
	}
	return p.internComplex(TagStruct, extra, withChildFlags(baseFlags(TagStruct), childFlags...))
}

// EnumType interns a named enum with ordered variants.
func (p *Pool) EnumType(name Name, variants []EnumVariant) Idx {
	lo, hi := splitName(name)
	extra := []uint32{lo, hi, uint32(len(variants))}
	var childFlags []Flags
	for _, v := range variants {
		vlo, vhi := splitName(v.Name)
		extra = append(extra, vlo, vhi, uint32(len(v.FieldTypes)))
		for _, ft := range v.FieldTypes {
			extra = append(extra, uint32(ft))
			childFlags = append(childFlags, p.child(ft))
		}
	}
	return p.internComplex(TagEnum, extra, withChildFlags(baseFlags(TagEnum), childFlags...))
}

// Named interns a forward-declared named type, resolvable later via
// SetResolution.
func (p *Pool) Named(name Name) Idx {
	lo, hi := splitName(name)
	return p.internComplex(TagNamed, []uint32{lo, hi}, baseFlags(TagNamed))
}

// Applied interns `Name<args...>`, a named type constructor applied to type
// arguments.
func (p *Pool) Applied(name Name, args []Idx) Idx {
	lo, hi := splitName(name)
	extra := make([]uint32, 0, 3+len(args))
	extra = append(extra, lo, hi, uint32(len(args)))
	childFlags := make([]Flags, 0, len(args))
	for _, a := range args {
		extra = append(extra, uint32(a))
		childFlags = append(childFlags, p.child(a))
	}
	return p.internComplex(TagApplied, extra, withChildFlags(baseFlags(TagApplied), childFlags...))
}

// Alias interns a transparent alias to another type.
func (p *Pool) Alias(name Name, target Idx) Idx {
	lo, hi := splitName(name)
	extra := []uint32{lo, hi, uint32(target)}
	return p.internComplex(TagAlias, extra, withChildFlags(baseFlags(TagAlias), p.child(target)))
}

// Scheme interns a `Generalized` quantified type: a list of bound variable
// ids plus a body type.
func (p *Pool) Scheme(vars []uint32, body Idx) Idx {
	extra := make([]uint32, 0, 1+len(vars)+1)
	extra = append(extra, uint32(len(vars)))
	extra = append(extra, vars...)
	extra = append(extra, uint32(body))
	return p.internComplex(TagGeneralized, extra, baseFlags(TagGeneralized))
}
