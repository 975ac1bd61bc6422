// Package arcir defines the block-structured IR that the liveness analyzer
// and the drop descriptor builder operate over: the output of the
// reference-counting-insertion pass and the input to the backend emitter.
package arcir

import "github.com/ori-lang/oric/internal/types"

// VarID names a local value within a function. Dense and small: used as an
// index wherever a bitset-backed live set would otherwise be preferable.
type VarID uint32

// BlockID names a basic block within a function.
type BlockID uint32

// Ownership records whether a function parameter owns its incoming
// reference (responsible for its own RcDec) or merely borrows it.
type Ownership uint8

const (
	Owned Ownership = iota
	Borrowed
)

// Param is one function parameter.
type Param struct {
	Var       VarID
	Type      types.Idx
	Ownership Ownership
}

// Function is a single compiled function's RC-annotated IR.
type Function struct {
	Name       string
	Params     []Param
	ReturnType types.Idx
	Blocks     []Block
	Entry      BlockID
	VarTypes   []types.Idx // indexed by VarID
	Spans      [][]*Span   // per block, per instruction (may contain nils)
}

// VarType returns the declared type of v. There is no fallback: callers
// must only query variables that appear in VarTypes, and an out-of-range
// v panics.
func (f *Function) VarType(v VarID) types.Idx {
	return f.VarTypes[v]
}

// Span is a minimal external diagnostic-position contract: the lexer and
// parser are out of scope, so arcir only carries what downstream
// diagnostics need to point at source.
type Span struct {
	File   string
	Line   int
	Column int
	Length int
}

// Block is one basic block: SSA-style parameters, a straight-line body,
// and a single terminator.
type Block struct {
	ID         BlockID
	Params     []BlockParam
	Body       []Instr
	Terminator Terminator
}

// BlockParam is a block-entry parameter, the target of Jump arguments from
// every predecessor.
type BlockParam struct {
	Var  VarID
	Type types.Idx
}

// PrimOp identifies a primitive scalar/string operation used by Let values
// built from a binary or unary op. The specific operator set is not
// normative here; arcir only needs to carry operand variables for
// liveness's used_vars().
type PrimOp struct {
	Name string
	Args []VarID
}

// LitValue is a literal constant.
type LitValue struct {
	Kind LitKind
	Int  int64
	Flt  uint64 // bit pattern, per the TestValue::Float convention
	Bool bool
	Str  string
}

type LitKind uint8

const (
	LitInt LitKind = iota
	LitFloat
	LitBool
	LitStr
	LitChar
)

// Value is the right-hand side of a Let instruction.
type Value struct {
	Lit    *LitValue
	Prim   *PrimOp
	Copy   VarID // plain variable reference / move
	IsCopy bool
}
