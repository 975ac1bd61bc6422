package arcir

import "github.com/ori-lang/oric/internal/types"

// InstrKind discriminates the closed set of straight-line ARC IR
// instructions.
type InstrKind uint8

const (
	InstrLet InstrKind = iota
	InstrApply
	InstrApplyIndirect
	InstrPartialApply
	InstrProject
	InstrConstruct
	InstrRcInc
	InstrRcDec
	InstrIsShared
	InstrReset
	InstrReuse
	InstrSet
	InstrSetTag
)

// Instr is a single straight-line ARC IR instruction. Only the fields
// relevant to Kind are populated; this mirrors a closed sum type using a
// tagged struct, the idiomatic Go rendering of the original enum.
type Instr struct {
	Kind InstrKind

	Dst  VarID
	Type types.Idx

	// Let
	Value Value

	// Apply / ApplyIndirect / PartialApply
	Func    string
	Closure VarID
	Args    []VarID

	// Project
	Base  VarID
	Field uint32

	// Construct / Reuse
	Ctor string

	// RcInc
	Count uint32

	// RcDec / IsShared
	Var VarID

	// Reset / Reuse
	Token VarID

	// Set / SetTag
	Tag uint32
}

// UsedVars returns every variable read by instr, in evaluation order. Used
// variables that are also the destination of this same instruction are
// still reported here; the liveness gen/kill builder is responsible for
// excluding already-killed variables before adding to gen.
func (i Instr) UsedVars() []VarID {
	switch i.Kind {
	case InstrLet:
		if i.Value.IsCopy {
			return []VarID{i.Value.Copy}
		}
		if i.Value.Prim != nil {
			return append([]VarID(nil), i.Value.Prim.Args...)
		}
		return nil
	case InstrApply, InstrPartialApply:
		return append([]VarID(nil), i.Args...)
	case InstrApplyIndirect:
		return append([]VarID{i.Closure}, i.Args...)
	case InstrProject:
		return []VarID{i.Base}
	case InstrConstruct:
		return append([]VarID(nil), i.Args...)
	case InstrRcInc, InstrRcDec, InstrIsShared:
		return []VarID{i.Var}
	case InstrReset:
		return []VarID{i.Var}
	case InstrReuse:
		args := append([]VarID{i.Token}, i.Args...)
		return args
	case InstrSet:
		return []VarID{i.Base, i.Value.Copy}
	case InstrSetTag:
		return []VarID{i.Base}
	default:
		return nil
	}
}

// DefinedVar returns the destination variable defined by instr, and true
// if instr defines one (RcInc/RcDec/IsShared/Set/SetTag/Reset do not define
// a new destination variable in the sense liveness cares about, except
// IsShared and Reset which do).
func (i Instr) DefinedVar() (VarID, bool) {
	switch i.Kind {
	case InstrLet, InstrApply, InstrApplyIndirect, InstrPartialApply, InstrProject, InstrConstruct:
		return i.Dst, true
	case InstrIsShared:
		return i.Dst, true
	case InstrReuse:
		return i.Dst, true
	case InstrReset:
		return i.Token, true
	default:
		return 0, false
	}
}
