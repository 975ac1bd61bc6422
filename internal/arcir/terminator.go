package arcir

import "github.com/ori-lang/oric/internal/types"

// TerminatorKind discriminates the closed set of block terminators.
type TerminatorKind uint8

const (
	TermReturn TerminatorKind = iota
	TermJump
	TermBranch
	TermSwitch
	TermInvoke
	TermResume
	TermUnreachable
)

// SwitchCase is one (value, target) arm of a Switch terminator.
type SwitchCase struct {
	Value int64
	Block BlockID
}

// Terminator is a basic block's single exit point.
type Terminator struct {
	Kind TerminatorKind

	// Return
	Value VarID

	// Jump
	Target BlockID
	Args   []VarID

	// Branch
	Cond       VarID
	ThenBlock  BlockID
	ElseBlock  BlockID

	// Switch
	Scrutinee VarID
	Cases     []SwitchCase
	Default   BlockID

	// Invoke
	Dst        VarID
	Type       types.Idx
	Func       string
	InvokeArgs []VarID
	Normal     BlockID
	Unwind     BlockID
}

// UsedVars returns every variable read by the terminator itself (not
// counting variables defined by it, e.g. Invoke's Dst).
func (t Terminator) UsedVars() []VarID {
	switch t.Kind {
	case TermReturn:
		return []VarID{t.Value}
	case TermJump:
		return append([]VarID(nil), t.Args...)
	case TermBranch:
		return []VarID{t.Cond}
	case TermSwitch:
		return []VarID{t.Scrutinee}
	case TermInvoke:
		return append([]VarID(nil), t.InvokeArgs...)
	case TermResume, TermUnreachable:
		return nil
	default:
		return nil
	}
}

// SuccessorEdges returns (successor block, jump arguments) pairs for every
// outgoing control-flow edge. Jump is the only terminator that carries
// block arguments; Branch/Switch/Invoke successors receive no arguments of
// their own (their "parameters", if any, are produced by instructions at
// the top of the successor block, e.g. an Invoke's Dst).
func (t Terminator) SuccessorEdges() []struct {
	Block BlockID
	Args  []VarID
} {
	type edge = struct {
		Block BlockID
		Args  []VarID
	}
	switch t.Kind {
	case TermJump:
		return []edge{{t.Target, t.Args}}
	case TermBranch:
		return []edge{{t.ThenBlock, nil}, {t.ElseBlock, nil}}
	case TermSwitch:
		edges := make([]edge, 0, len(t.Cases)+1)
		for _, c := range t.Cases {
			edges = append(edges, edge{c.Block, nil})
		}
		edges = append(edges, edge{t.Default, nil})
		return edges
	case TermInvoke:
		return []edge{{t.Normal, nil}, {t.Unwind, nil}}
	case TermReturn, TermResume, TermUnreachable:
		return nil
	default:
		return nil
	}
}
