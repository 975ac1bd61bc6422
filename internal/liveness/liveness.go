// Package liveness computes, for every basic block of a reference-counted
// IR function, which variables are live (will be read in the future) at
// block entry and exit. This drives RC insertion: a variable's last use is
// where its decrement goes, and any read after a shared value's first use
// needs an increment.
//
// Only RC-needing variables are tracked — scalars never generate RcInc/
// RcDec, so carrying them through the dataflow would only waste memory.
package liveness

import (
	"github.com/ori-lang/oric/internal/arcir"
	"github.com/ori-lang/oric/internal/classifier"
)

// Set is the live-variable set at one program point.
type Set map[arcir.VarID]bool

func (s Set) has(v arcir.VarID) bool { return s[v] }

func (s Set) equal(other Set) bool {
	if len(s) != len(other) {
		return false
	}
	for v := range s {
		if !other[v] {
			return false
		}
	}
	return true
}

func (s Set) clone() Set {
	out := make(Set, len(s))
	for v := range s {
		out[v] = true
	}
	return out
}

// BlockLiveness holds the live-in and live-out sets of every block in a
// function, indexed by BlockID.
type BlockLiveness struct {
	LiveIn  []Set
	LiveOut []Set

	// Iterations is the number of fixed-point passes the dataflow took to
	// converge, surfaced so a caller can log it as a diagnostic event
	// rather than this package reaching for a logging dependency itself.
	Iterations int
}

// Compute runs backward dataflow liveness over fn, tracking only variables
// for which classifier reports NeedsRC.
//
// Algorithm: precompute gen/kill per block, then iterate to a fixed point
// in postorder (successors settle before predecessors, which gives fast
// convergence for a backward analysis):
//
//	live_out(B) = union of live_in(S) for every successor S
//	live_in(B)  = gen(B) ∪ (live_out(B) - kill(B))
func Compute(fn *arcir.Function, classify classifier.Classification) BlockLiveness {
	numBlocks := len(fn.Blocks)

	invokeDefs := collectInvokeDefs(fn)

	gen := make([]Set, numBlocks)
	kill := make([]Set, numBlocks)
	for i, block := range fn.Blocks {
		gen[i], kill[i] = computeGenKill(block, fn, classify, invokeDefs)
	}

	postorder := computePostorder(fn)

	liveIn := make([]Set, numBlocks)
	liveOut := make([]Set, numBlocks)
	for i := range liveIn {
		liveIn[i] = Set{}
		liveOut[i] = Set{}
	}

	iterations := 0
	for {
		iterations++
		changed := false
		for _, idx := range postorder {
			newLiveOut := Set{}
			for _, edge := range fn.Blocks[idx].Terminator.SuccessorEdges() {
				succ := int(edge.Block)
				if succ < numBlocks {
					for v := range liveIn[succ] {
						newLiveOut[v] = true
					}
				}
			}

			newLiveIn := gen[idx].clone()
			for v := range newLiveOut {
				if !kill[idx].has(v) {
					newLiveIn[v] = true
				}
			}

			if !newLiveIn.equal(liveIn[idx]) || !newLiveOut.equal(liveOut[idx]) {
				changed = true
				liveIn[idx] = newLiveIn
				liveOut[idx] = newLiveOut
			}
		}
		if !changed {
			break
		}
	}

	return BlockLiveness{LiveIn: liveIn, LiveOut: liveOut, Iterations: iterations}
}

// computeGenKill precomputes a block's gen (used-before-defined) and kill
// (defined-in-block, including block params and Invoke destinations
// landing here) sets with a single forward scan of its body.
func computeGenKill(block arcir.Block, fn *arcir.Function, classify classifier.Classification, invokeDefs map[arcir.BlockID][]arcir.VarID) (Set, Set) {
	gen := Set{}
	kill := Set{}

	for _, p := range block.Params {
		if needsRCVar(p.Var, fn, classify) {
			kill[p.Var] = true
		}
	}

	// An Invoke in a predecessor block defines dst at the normal
	// successor's entry — that definition behaves like a block parameter
	// here, not at the invoking block.
	for _, dst := range invokeDefs[block.ID] {
		if needsRCVar(dst, fn, classify) {
			kill[dst] = true
		}
	}

	for _, instr := range block.Body {
		for _, v := range instr.UsedVars() {
			if needsRCVar(v, fn, classify) && !kill.has(v) {
				gen[v] = true
			}
		}
		if dst, ok := instr.DefinedVar(); ok && needsRCVar(dst, fn, classify) {
			kill[dst] = true
		}
	}

	for _, v := range block.Terminator.UsedVars() {
		if needsRCVar(v, fn, classify) && !kill.has(v) {
			gen[v] = true
		}
	}

	return gen, kill
}

func needsRCVar(v arcir.VarID, fn *arcir.Function, classify classifier.Classification) bool {
	if int(v) < len(fn.VarTypes) {
		return classify.NeedsRC(fn.VarTypes[v])
	}
	// Out-of-bounds variable id: conservatively assume it needs RC rather
	// than silently dropping a cleanup obligation.
	return true
}

// collectInvokeDefs maps each Invoke terminator's normal successor to the
// destination variable it defines there. The unwind successor never
// receives this definition.
func collectInvokeDefs(fn *arcir.Function) map[arcir.BlockID][]arcir.VarID {
	defs := map[arcir.BlockID][]arcir.VarID{}
	for _, block := range fn.Blocks {
		if block.Terminator.Kind == arcir.TermInvoke {
			defs[block.Terminator.Normal] = append(defs[block.Terminator.Normal], block.Terminator.Dst)
		}
	}
	return defs
}

// computePostorder performs an iterative DFS from fn.Entry, visiting only
// reachable blocks, and returns their indices in postorder (a block's
// successors are emitted before the block itself).
func computePostorder(fn *arcir.Function) []int {
	numBlocks := len(fn.Blocks)
	visited := make([]bool, numBlocks)
	postorder := make([]int, 0, numBlocks)

	type frame struct {
		idx  int
		done bool
	}
	stack := []frame{{idx: int(fn.Entry)}}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.done {
			postorder = append(postorder, top.idx)
			stack = stack[:len(stack)-1]
			continue
		}
		top.done = true

		if top.idx >= numBlocks || visited[top.idx] {
			stack = stack[:len(stack)-1]
			continue
		}
		visited[top.idx] = true

		for _, edge := range fn.Blocks[top.idx].Terminator.SuccessorEdges() {
			succ := int(edge.Block)
			if succ < numBlocks && !visited[succ] {
				stack = append(stack, frame{idx: succ})
			}
		}
	}

	return postorder
}
