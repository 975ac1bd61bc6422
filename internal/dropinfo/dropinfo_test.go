package dropinfo

import (
	"testing"

	"github.com/ori-lang/oric/internal/arcir"
	"github.com/ori-lang/oric/internal/classifier"
	"github.com/ori-lang/oric/internal/types"
)

func setup() (*types.Pool, classifier.Classification) {
	pool := types.New()
	return pool, classifier.New(pool)
}

func TestScalarsReturnNoDropInfo(t *testing.T) {
	pool, c := setup()
	for _, ty := range []types.Idx{types.INT, types.FLOAT, types.BOOL, types.CHAR, types.UNIT} {
		if _, ok := Compute(ty, pool, c); ok {
			t.Fatalf("scalar %v must not produce a drop descriptor", ty)
		}
	}
}

func TestOptionOfScalarReturnsNone(t *testing.T) {
	pool, c := setup()
	optInt := pool.Option(types.INT)
	if _, ok := Compute(optInt, pool, c); ok {
		t.Fatal("option[int] is scalar, must not produce a drop descriptor")
	}
}

func TestTupleOfScalarsReturnsNone(t *testing.T) {
	pool, c := setup()
	tup := pool.Tuple([]types.Idx{types.INT, types.FLOAT, types.BOOL})
	if _, ok := Compute(tup, pool, c); ok {
		t.Fatal("all-scalar tuple must not produce a drop descriptor")
	}
}

func TestStrIsTrivial(t *testing.T) {
	pool, c := setup()
	info, ok := Compute(types.STR, pool, c)
	if !ok {
		t.Fatal("str needs a drop descriptor")
	}
	if info.Type != types.STR || info.Kind != Trivial {
		t.Fatalf("expected Trivial for str, got %+v", info)
	}
}

func TestListOfScalarIsTrivial(t *testing.T) {
	pool, c := setup()
	list := pool.List(types.INT)
	info, ok := Compute(list, pool, c)
	if !ok || info.Kind != Trivial {
		t.Fatalf("expected Trivial for [int], got ok=%v %+v", ok, info)
	}
}

func TestListOfStrIsCollection(t *testing.T) {
	pool, c := setup()
	list := pool.List(types.STR)
	info, ok := Compute(list, pool, c)
	if !ok || info.Kind != KindCollection || info.ElementType != types.STR {
		t.Fatalf("expected Collection{str} for [str], got ok=%v %+v", ok, info)
	}
}

func TestListOfListIsCollection(t *testing.T) {
	pool, c := setup()
	inner := pool.List(types.INT)
	outer := pool.List(inner)
	info, ok := Compute(outer, pool, c)
	if !ok || info.Kind != KindCollection || info.ElementType != inner {
		t.Fatalf("expected Collection{inner} for [[int]], got ok=%v %+v", ok, info)
	}
}

func TestSetOfScalarIsTrivial(t *testing.T) {
	pool, c := setup()
	set := pool.Set(types.INT)
	info, ok := Compute(set, pool, c)
	if !ok || info.Kind != Trivial {
		t.Fatalf("expected Trivial for set[int], got ok=%v %+v", ok, info)
	}
}

func TestSetOfStrIsCollection(t *testing.T) {
	pool, c := setup()
	set := pool.Set(types.STR)
	info, ok := Compute(set, pool, c)
	if !ok || info.Kind != KindCollection || info.ElementType != types.STR {
		t.Fatalf("expected Collection{str} for set[str], got ok=%v %+v", ok, info)
	}
}

func TestMapScalarKeysAndValuesIsTrivial(t *testing.T) {
	pool, c := setup()
	m := pool.Map(types.INT, types.FLOAT)
	info, ok := Compute(m, pool, c)
	if !ok || info.Kind != Trivial {
		t.Fatalf("expected Trivial for {int: float}, got ok=%v %+v", ok, info)
	}
}

func TestMapStrKeysScalarValues(t *testing.T) {
	pool, c := setup()
	m := pool.Map(types.STR, types.INT)
	info, ok := Compute(m, pool, c)
	if !ok || info.Kind != KindMap || !info.DecKeys || info.DecValues {
		t.Fatalf("expected Map{dec_keys} for {str: int}, got ok=%v %+v", ok, info)
	}
}

func TestMapScalarKeysStrValues(t *testing.T) {
	pool, c := setup()
	m := pool.Map(types.INT, types.STR)
	info, ok := Compute(m, pool, c)
	if !ok || info.Kind != KindMap || info.DecKeys || !info.DecValues {
		t.Fatalf("expected Map{dec_values} for {int: str}, got ok=%v %+v", ok, info)
	}
}

func TestMapStrKeysStrValues(t *testing.T) {
	pool, c := setup()
	m := pool.Map(types.STR, types.STR)
	info, ok := Compute(m, pool, c)
	if !ok || info.Kind != KindMap || !info.DecKeys || !info.DecValues {
		t.Fatalf("expected Map{dec_keys,dec_values} for {str: str}, got ok=%v %+v", ok, info)
	}
}

func name(raw int) types.Name { return types.Name(raw) }

func TestStructWithOneRCField(t *testing.T) {
	pool, c := setup()
	s := pool.StructType(name(30), []types.StructField{
		{Name: name(31), Type: types.INT},
		{Name: name(32), Type: types.STR},
	})
	info, ok := Compute(s, pool, c)
	if !ok || info.Kind != KindFields {
		t.Fatalf("expected Fields, got ok=%v %+v", ok, info)
	}
	if len(info.RCFields) != 1 || info.RCFields[0].Index != 1 || info.RCFields[0].Type != types.STR {
		t.Fatalf("expected RCFields=[(1,str)], got %+v", info.RCFields)
	}
}

func TestStructWithMultipleRCFields(t *testing.T) {
	pool, c := setup()
	listInt := pool.List(types.INT)
	s := pool.StructType(name(40), []types.StructField{
		{Name: name(41), Type: types.STR},
		{Name: name(42), Type: types.INT},
		{Name: name(43), Type: listInt},
	})
	info, ok := Compute(s, pool, c)
	if !ok || info.Kind != KindFields {
		t.Fatalf("expected Fields, got ok=%v %+v", ok, info)
	}
	want := []RCField{{Index: 0, Type: types.STR}, {Index: 2, Type: listInt}}
	if len(info.RCFields) != len(want) || info.RCFields[0] != want[0] || info.RCFields[1] != want[1] {
		t.Fatalf("expected %+v, got %+v", want, info.RCFields)
	}
}

func TestTupleWithRCElement(t *testing.T) {
	pool, c := setup()
	tup := pool.Tuple([]types.Idx{types.INT, types.STR})
	info, ok := Compute(tup, pool, c)
	if !ok || info.Kind != KindFields || len(info.RCFields) != 1 || info.RCFields[0].Index != 1 {
		t.Fatalf("expected Fields=[(1,str)], got ok=%v %+v", ok, info)
	}
}

func TestEnumWithRCVariantFields(t *testing.T) {
	pool, c := setup()
	e := pool.EnumType(name(50), []types.EnumVariant{
		{Name: name(51), FieldTypes: []types.Idx{types.INT}},
		{Name: name(52), FieldTypes: []types.Idx{types.STR}},
	})
	info, ok := Compute(e, pool, c)
	if !ok || info.Kind != KindEnum {
		t.Fatalf("expected Enum, got ok=%v %+v", ok, info)
	}
	if len(info.Variants[0]) != 0 {
		t.Fatalf("variant 0 (int) must have no RC fields, got %+v", info.Variants[0])
	}
	if len(info.Variants[1]) != 1 || info.Variants[1][0].Type != types.STR {
		t.Fatalf("variant 1 (str) must dec field 0, got %+v", info.Variants[1])
	}
}

func TestEnumAllScalarPayloadsReturnsNone(t *testing.T) {
	pool, c := setup()
	e := pool.EnumType(name(70), []types.EnumVariant{
		{Name: name(71), FieldTypes: []types.Idx{types.INT}},
		{Name: name(72), FieldTypes: []types.Idx{types.FLOAT}},
	})
	if _, ok := Compute(e, pool, c); ok {
		t.Fatal("all-scalar-payload enum is itself scalar, must not produce a drop descriptor")
	}
}

func TestOptionStrIsEnumDrop(t *testing.T) {
	pool, c := setup()
	opt := pool.Option(types.STR)
	info, ok := Compute(opt, pool, c)
	if !ok || info.Kind != KindEnum {
		t.Fatalf("expected Enum, got ok=%v %+v", ok, info)
	}
	if len(info.Variants[0]) != 0 {
		t.Fatal("None must have no RC fields")
	}
	if len(info.Variants[1]) != 1 || info.Variants[1][0].Type != types.STR {
		t.Fatalf("Some must dec field 0 of type str, got %+v", info.Variants[1])
	}
}

func TestResultDropsOkOnly(t *testing.T) {
	pool, c := setup()
	res := pool.Result(types.STR, types.INT)
	info, ok := Compute(res, pool, c)
	if !ok || info.Kind != KindEnum {
		t.Fatalf("expected Enum, got ok=%v %+v", ok, info)
	}
	if len(info.Variants[0]) != 1 || len(info.Variants[1]) != 0 {
		t.Fatalf("expected Ok-only dec, got %+v", info.Variants)
	}
}

func TestResultDropsErrOnly(t *testing.T) {
	pool, c := setup()
	res := pool.Result(types.INT, types.STR)
	info, ok := Compute(res, pool, c)
	if !ok || info.Kind != KindEnum {
		t.Fatalf("expected Enum, got ok=%v %+v", ok, info)
	}
	if len(info.Variants[0]) != 0 || len(info.Variants[1]) != 1 {
		t.Fatalf("expected Err-only dec, got %+v", info.Variants)
	}
}

func TestResultDropsBoth(t *testing.T) {
	pool, c := setup()
	res := pool.Result(types.STR, types.STR)
	info, ok := Compute(res, pool, c)
	if !ok || info.Kind != KindEnum {
		t.Fatalf("expected Enum, got ok=%v %+v", ok, info)
	}
	if len(info.Variants[0]) != 1 || len(info.Variants[1]) != 1 {
		t.Fatalf("expected both Ok and Err dec, got %+v", info.Variants)
	}
}

func TestResultOfScalarsReturnsNone(t *testing.T) {
	pool, c := setup()
	res := pool.Result(types.INT, types.FLOAT)
	if _, ok := Compute(res, pool, c); ok {
		t.Fatal("result[int, float] is scalar, must not produce a drop descriptor")
	}
}

func TestChannelIsTrivial(t *testing.T) {
	pool, c := setup()
	ch := pool.Channel(types.INT)
	info, ok := Compute(ch, pool, c)
	if !ok || info.Kind != Trivial {
		t.Fatalf("expected Trivial for chan<int>, got ok=%v %+v", ok, info)
	}
}

func TestFunctionIsTrivial(t *testing.T) {
	pool, c := setup()
	fn := pool.Function([]types.Idx{types.INT}, types.STR)
	info, ok := Compute(fn, pool, c)
	if !ok || info.Kind != Trivial {
		t.Fatalf("expected Trivial for a function type, got ok=%v %+v", ok, info)
	}
}

func TestNamedTypeResolvesToStructDrop(t *testing.T) {
	pool, c := setup()
	n := name(80)
	namedIdx := pool.Named(n)
	structIdx := pool.StructType(n, []types.StructField{
		{Name: name(81), Type: types.STR},
		{Name: name(82), Type: types.INT},
	})
	pool.SetResolution(namedIdx, structIdx)

	info, ok := Compute(namedIdx, pool, c)
	if !ok || info.Kind != KindFields {
		t.Fatalf("expected Fields after resolving the named type, got ok=%v %+v", ok, info)
	}
	if info.Type != namedIdx {
		t.Fatal("DropInfo.Type must name the type as referenced, not its resolved form")
	}
	if len(info.RCFields) != 1 || info.RCFields[0].Index != 0 || info.RCFields[0].Type != types.STR {
		t.Fatalf("expected RCFields=[(0,str)], got %+v", info.RCFields)
	}
}

func TestStructWithNestedOptionStrField(t *testing.T) {
	pool, c := setup()
	optStr := pool.Option(types.STR)
	s := pool.StructType(name(130), []types.StructField{
		{Name: name(131), Type: types.INT},
		{Name: name(132), Type: optStr},
	})
	info, ok := Compute(s, pool, c)
	if !ok || info.Kind != KindFields {
		t.Fatalf("expected Fields, got ok=%v %+v", ok, info)
	}
	if len(info.RCFields) != 1 || info.RCFields[0].Index != 1 || info.RCFields[0].Type != optStr {
		t.Fatalf("expected field 1 (option[str]) to need dec, got %+v", info.RCFields)
	}
}

func TestClosureEnvAllScalar(t *testing.T) {
	c := classifier.New(types.New())
	info := ClosureEnvDrop([]types.Idx{types.INT, types.FLOAT}, c)
	if info.Kind != Trivial {
		t.Fatalf("expected Trivial, got %+v", info)
	}
}

func TestClosureEnvWithRCCaptures(t *testing.T) {
	pool, c := setup()
	listInt := pool.List(types.INT)
	info := ClosureEnvDrop([]types.Idx{types.INT, types.STR, listInt}, c)
	if info.Kind != KindClosureEnv {
		t.Fatalf("expected ClosureEnv, got %+v", info)
	}
	want := []RCField{{Index: 1, Type: types.STR}, {Index: 2, Type: listInt}}
	if len(info.RCFields) != len(want) || info.RCFields[0] != want[0] || info.RCFields[1] != want[1] {
		t.Fatalf("expected %+v, got %+v", want, info.RCFields)
	}
}

func TestClosureEnvSingleRCCapture(t *testing.T) {
	c := classifier.New(types.New())
	info := ClosureEnvDrop([]types.Idx{types.STR}, c)
	if info.Kind != KindClosureEnv || len(info.RCFields) != 1 || info.RCFields[0].Index != 0 {
		t.Fatalf("expected ClosureEnv=[(0,str)], got %+v", info)
	}
}

// ── Collect ────────────────────────────────────────────────────────

func rcDecFunc(varType types.Idx, decCount int) *arcir.Function {
	body := make([]arcir.Instr, decCount)
	for i := range body {
		body[i] = arcir.Instr{Kind: arcir.InstrRcDec, Var: 0}
	}
	return &arcir.Function{
		Params:     []arcir.Param{{Var: 0, Type: varType}},
		ReturnType: types.UNIT,
		VarTypes:   []types.Idx{varType},
		Entry:      0,
		Blocks: []arcir.Block{
			{ID: 0, Body: body, Terminator: arcir.Terminator{Kind: arcir.TermReturn, Value: 0}},
		},
	}
}

func TestCollectFromEmptyFunctions(t *testing.T) {
	pool, c := setup()
	infos := Collect(nil, pool, c)
	if len(infos) != 0 {
		t.Fatalf("expected no infos, got %+v", infos)
	}
}

func TestCollectDeduplicatesTypes(t *testing.T) {
	pool, c := setup()
	fn := rcDecFunc(types.STR, 2)
	infos := Collect([]*arcir.Function{fn}, pool, c)
	if len(infos) != 1 || infos[0].Type != types.STR || infos[0].Kind != Trivial {
		t.Fatalf("expected a single deduplicated str Trivial entry, got %+v", infos)
	}
}

func TestCollectSkipsScalarRCDec(t *testing.T) {
	pool, c := setup()
	fn := rcDecFunc(types.INT, 1)
	infos := Collect([]*arcir.Function{fn}, pool, c)
	if len(infos) != 0 {
		t.Fatalf("RcDec on a scalar var must be skipped, got %+v", infos)
	}
}

func TestCollectMultipleTypes(t *testing.T) {
	pool, c := setup()
	listStr := pool.List(types.STR)
	fn := &arcir.Function{
		Params:     []arcir.Param{{Var: 0, Type: types.STR}, {Var: 1, Type: listStr}},
		ReturnType: types.UNIT,
		VarTypes:   []types.Idx{types.STR, listStr},
		Entry:      0,
		Blocks: []arcir.Block{{
			ID: 0,
			Body: []arcir.Instr{
				{Kind: arcir.InstrRcDec, Var: 0},
				{Kind: arcir.InstrRcDec, Var: 1},
			},
			Terminator: arcir.Terminator{Kind: arcir.TermReturn, Value: 0},
		}},
	}
	infos := Collect([]*arcir.Function{fn}, pool, c)
	if len(infos) != 2 {
		t.Fatalf("expected 2 infos, got %+v", infos)
	}
	var strInfo, listInfo *Info
	for i := range infos {
		switch infos[i].Type {
		case types.STR:
			strInfo = &infos[i]
		case listStr:
			listInfo = &infos[i]
		}
	}
	if strInfo == nil || strInfo.Kind != Trivial {
		t.Fatalf("expected str -> Trivial, got %+v", strInfo)
	}
	if listInfo == nil || listInfo.Kind != KindCollection || listInfo.ElementType != types.STR {
		t.Fatalf("expected [str] -> Collection{str}, got %+v", listInfo)
	}
}
