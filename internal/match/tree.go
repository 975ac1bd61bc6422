package match

import "github.com/ori-lang/oric/internal/types"

// TestKind identifies what kind of equality/range test a Switch node's
// edges perform. Every edge's TestValue at a given Switch carries the
// same kind — the compiler infers it once from the first collected value.
type TestKind uint8

const (
	TestEnumTag TestKind = iota
	TestIntEq
	TestStrEq
	TestBoolEq
	TestFloatEq
	TestCharEq
	TestIntRange
	TestListLen
)

// TestValueKind discriminates the closed set of runtime tests a Switch
// edge can perform against the scrutinee at a path.
type TestValueKind uint8

const (
	TVTag TestValueKind = iota
	TVInt
	TVStr
	TVBool
	TVFloat
	TVChar
	TVIntRange
	TVListLen
)

// TestValue is one concrete value (or range/length) a Switch edge tests
// the scrutinee against.
type TestValue struct {
	Kind TestValueKind

	VariantIndex uint32
	VariantName  types.Name // display-only; equality uses VariantIndex

	Int       int64
	Str       types.Name
	Bool      bool
	FloatBits uint64
	Char      rune

	RangeLo        int64
	RangeHi        int64
	RangeInclusive bool

	ListLen     uint32
	ListIsExact bool
}

// dedupKey returns a comparable key identifying the constructor a test
// value represents, ignoring any cosmetic fields (e.g. VariantName),
// so structurally-equal test values collected from different rows collapse
// into a single Switch edge.
func (tv TestValue) dedupKey() any {
	switch tv.Kind {
	case TVTag:
		return [2]any{tv.Kind, tv.VariantIndex}
	case TVInt:
		return [2]any{tv.Kind, tv.Int}
	case TVStr:
		return [2]any{tv.Kind, tv.Str}
	case TVBool:
		return [2]any{tv.Kind, tv.Bool}
	case TVFloat:
		return [2]any{tv.Kind, tv.FloatBits}
	case TVChar:
		return [2]any{tv.Kind, tv.Char}
	case TVIntRange:
		return [4]any{tv.Kind, tv.RangeLo, tv.RangeHi, tv.RangeInclusive}
	case TVListLen:
		return [3]any{tv.Kind, tv.ListLen, tv.ListIsExact}
	default:
		return tv.Kind
	}
}

// DecisionTreeKind discriminates the closed set of decision-tree nodes.
type DecisionTreeKind uint8

const (
	TreeFail DecisionTreeKind = iota
	TreeLeaf
	TreeGuard
	TreeSwitch
)

// SwitchEdge is one (test value, subtree) arm of a Switch node.
type SwitchEdge struct {
	Value TestValue
	Tree  *DecisionTree
}

// DecisionTree is a compiled match expression: a tree of runtime tests
// terminating in either Fail (exhaustiveness violation, unreachable by
// construction), Leaf (an arm fires unconditionally), or Guard (an arm
// fires only if its boolean guard expression also holds).
type DecisionTree struct {
	Kind DecisionTreeKind

	// Leaf / Guard
	ArmIndex uint32
	Bindings []Binding

	// Guard
	Guard  uint32
	OnFail *DecisionTree

	// Switch
	Path     ScrutineePath
	TestKind TestKind
	Edges    []SwitchEdge
	Default  *DecisionTree
}
