package unify

import (
	"fmt"

	"github.com/ori-lang/oric/internal/types"
)

// ErrorKind is the closed taxonomy of unification failures from §7/§4.2.
type ErrorKind uint8

const (
	Mismatch ErrorKind = iota
	InfiniteType
	RigidMismatch
	RigidRigidMismatch
	ArityMismatch
	UninstantiatedGeneralized
)

func (k ErrorKind) String() string {
	switch k {
	case Mismatch:
		return "Mismatch"
	case InfiniteType:
		return "InfiniteType"
	case RigidMismatch:
		return "RigidMismatch"
	case RigidRigidMismatch:
		return "RigidRigidMismatch"
	case ArityMismatch:
		return "ArityMismatch"
	case UninstantiatedGeneralized:
		return "UninstantiatedGeneralized"
	default:
		return "Unknown"
	}
}

// ArityKind distinguishes what kind of arity mismatched.
type ArityKind uint8

const (
	ArityFunction ArityKind = iota
	ArityTuple
	ArityTypeArgs
)

func (k ArityKind) String() string {
	switch k {
	case ArityFunction:
		return "Function"
	case ArityTuple:
		return "Tuple"
	case ArityTypeArgs:
		return "TypeArgs"
	default:
		return "Unknown"
	}
}

// Site identifies where in a larger type a unification failure occurred,
// so the narrowest available context is attached to the diagnostic (per
// §7, "prefer Param(i) over top-level when known").
type Site uint8

const (
	CtxTop Site = iota
	CtxParam
	CtxTupleElem
	CtxTypeArg
	CtxListElement
	CtxMapKey
	CtxMapValue
	CtxOptionInner
	CtxResultOk
	CtxResultErr
	CtxBorrowedInner
)

func (c Site) String() string {
	switch c {
	case CtxTop:
		return "Top"
	case CtxParam:
		return "Param"
	case CtxTupleElem:
		return "TupleElem"
	case CtxTypeArg:
		return "TypeArg"
	case CtxListElement:
		return "ListElement"
	case CtxMapKey:
		return "MapKey"
	case CtxMapValue:
		return "MapValue"
	case CtxOptionInner:
		return "OptionInner"
	case CtxResultOk:
		return "ResultOk"
	case CtxResultErr:
		return "ResultErr"
	case CtxBorrowedInner:
		return "BorrowedInner"
	default:
		return "Unknown"
	}
}

// Error is a structured unification failure.
type Error struct {
	Kind ErrorKind

	// Mismatch / RigidMismatch / RigidRigidMismatch
	Expected types.Idx
	Found    types.Idx
	Ctx      Site
	Index    int // positional index within Ctx (param i, tuple elem j, ...)

	// InfiniteType
	VarID     uint32
	Container types.Idx

	// ArityMismatch
	ArityExpected int
	ArityFound    int
	ArityOf       ArityKind
}

func (e *Error) Error() string {
	switch e.Kind {
	case Mismatch, RigidMismatch, RigidRigidMismatch:
		return fmt.Sprintf("%s: expected %v, found %v (in %s[%d])", e.Kind, e.Expected, e.Found, e.Ctx, e.Index)
	case InfiniteType:
		return fmt.Sprintf("infinite type: variable %d occurs in %v", e.VarID, e.Container)
	case ArityMismatch:
		return fmt.Sprintf("arity mismatch (%s): expected %d, found %d", e.ArityOf, e.ArityExpected, e.ArityFound)
	case UninstantiatedGeneralized:
		return "internal-compiler-error: uninstantiated Generalized type reached unification"
	default:
		return e.Kind.String()
	}
}
