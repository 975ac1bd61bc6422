package types

import "testing"

// Scenario A — primitive interning.
func TestPrimitiveInterning(t *testing.T) {
	p := New()

	if got := p.Tag(INT); got != TagInt {
		t.Fatalf("Tag(INT) = %v, want Int", got)
	}
	want := IsPrimitive | IsResolved | IsMono | IsCopyable
	if got := p.Flags(INT); !got.Has(want) {
		t.Fatalf("Flags(INT) = %v, missing bits of %v", got, want)
	}
	if got := p.intern(TagInt, 0, baseFlags(TagInt)); got != INT {
		t.Fatalf("intern(Int, 0) = %v, want INT", got)
	}
}

func TestPrimitivesAtCorrectIndices(t *testing.T) {
	p := New()
	cases := []struct {
		idx Idx
		tag Tag
	}{
		{INT, TagInt}, {FLOAT, TagFloat}, {BOOL, TagBool}, {STR, TagStr},
		{CHAR, TagChar}, {BYTE, TagByte}, {UNIT, TagUnit}, {NEVER, TagNever},
		{ERROR, TagError}, {DURATION, TagDuration}, {SIZE, TagSize}, {ORDERING, TagOrdering},
	}
	for _, c := range cases {
		if got := p.Tag(c.idx); got != c.tag {
			t.Errorf("Tag(%d) = %v, want %v", c.idx, got, c.tag)
		}
	}
	if FirstDynamic != 12 {
		t.Fatalf("FirstDynamic = %d, want 12", FirstDynamic)
	}
}

func TestInterningIdempotence(t *testing.T) {
	p := New()
	a := p.List(INT)
	b := p.List(INT)
	if a != b {
		t.Fatalf("List(INT) not idempotent: %v != %v", a, b)
	}

	names := NewNameTable()
	n := names.Intern("Point")
	s1 := p.StructType(n, []StructField{{Name: names.Intern("x"), Type: INT}})
	s2 := p.StructType(n, []StructField{{Name: names.Intern("x"), Type: INT}})
	if s1 != s2 {
		t.Fatalf("StructType not idempotent: %v != %v", s1, s2)
	}
}

func TestFlagMonotonicityOverContainers(t *testing.T) {
	p := New()
	v := p.FreshVar()
	list := p.List(v)
	if !p.Flags(list).Has(HasVar) {
		t.Fatalf("List(var) should propagate HasVar")
	}
	if p.Flags(list).Has(IsMono) {
		t.Fatalf("List(var) should not be IS_MONO")
	}

	tup := p.Tuple([]Idx{INT, STR})
	if p.Flags(tup).Any(HasVar | HasError) {
		t.Fatalf("Tuple(int,str) should carry no HAS_* bits")
	}
	if !p.Flags(tup).Has(IsMono) {
		t.Fatalf("Tuple(int,str) should be IS_MONO")
	}

	errTup := p.Tuple([]Idx{ERROR, STR})
	if !p.Flags(errTup).Has(HasError) {
		t.Fatalf("Tuple(error,str) should propagate HasError")
	}
}

func TestAccessorsRoundTrip(t *testing.T) {
	p := New()
	names := NewNameTable()

	opt := p.Option(STR)
	if p.OptionInner(opt) != STR {
		t.Fatalf("OptionInner mismatch")
	}

	fn := p.Function([]Idx{INT, STR}, BOOL)
	if got := p.FunctionParams(fn); len(got) != 2 || got[0] != INT || got[1] != STR {
		t.Fatalf("FunctionParams mismatch: %v", got)
	}
	if p.FunctionReturn(fn) != BOOL {
		t.Fatalf("FunctionReturn mismatch")
	}

	tup := p.Tuple([]Idx{INT, STR, BOOL})
	if got := p.TupleElems(tup); len(got) != 3 {
		t.Fatalf("TupleElems mismatch: %v", got)
	}

	sname := names.Intern("Pair")
	fx := names.Intern("a")
	fy := names.Intern("b")
	st := p.StructType(sname, []StructField{{Name: fx, Type: INT}, {Name: fy, Type: STR}})
	fields := p.StructFields(st)
	if len(fields) != 2 || fields[0].Type != INT || fields[1].Type != STR {
		t.Fatalf("StructFields mismatch: %v", fields)
	}

	ename := names.Intern("Opt")
	vnone := names.Intern("None")
	vsome := names.Intern("Some")
	en := p.EnumType(ename, []EnumVariant{
		{Name: vnone, FieldTypes: nil},
		{Name: vsome, FieldTypes: []Idx{STR}},
	})
	variants := p.EnumVariants(en)
	if len(variants) != 2 || len(variants[0].FieldTypes) != 0 || len(variants[1].FieldTypes) != 1 {
		t.Fatalf("EnumVariants mismatch: %v", variants)
	}
}

func TestResolveFollowsNamedResolution(t *testing.T) {
	p := New()
	names := NewNameTable()
	name := names.Intern("Tree")
	named := p.Named(name)
	st := p.StructType(name, []StructField{{Name: names.Intern("value"), Type: INT}})
	p.SetResolution(named, st)

	resolved, ok := p.Resolve(named)
	if !ok || resolved != st {
		t.Fatalf("Resolve(named) = (%v, %v), want (%v, true)", resolved, ok, st)
	}

	unresolved, ok := p.Resolve(st)
	if ok || unresolved != st {
		t.Fatalf("Resolve(struct) should be a no-op, got (%v, %v)", unresolved, ok)
	}
}

func TestFreshVarAllocatesUnbound(t *testing.T) {
	p := New()
	v := p.FreshVar()
	if p.Tag(v) != TagVar {
		t.Fatalf("FreshVar did not produce a Var item")
	}
	id := p.VarID(v)
	st := p.VarState(id)
	if st.Kind != VarUnbound || st.Rank != RankFirst {
		t.Fatalf("fresh var state = %+v, want Unbound at RankFirst", st)
	}
}
