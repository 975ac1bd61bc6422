package match

import "testing"

// optionMatrix builds the matrix for `match x { Some(0) -> A, Some(_) -> B, None -> C }`.
func optionMatrix() PatternMatrix {
	return PatternMatrix{
		{
			Patterns: []FlatPattern{{Kind: PatVariant, VariantIndex: 0, Fields: []FlatPattern{{Kind: PatLitInt, Int: 0}}}},
			ArmIndex: 0,
		},
		{
			Patterns: []FlatPattern{{Kind: PatVariant, VariantIndex: 0, Fields: []FlatPattern{{Kind: PatWildcard}}}},
			ArmIndex: 1,
		},
		{
			Patterns: []FlatPattern{{Kind: PatVariant, VariantIndex: 1, Fields: nil}},
			ArmIndex: 2,
		},
	}
}

func TestCompileOptionMatchTree(t *testing.T) {
	tree := Compile(optionMatrix(), []ScrutineePath{{}})

	if tree.Kind != TreeSwitch {
		t.Fatalf("expected root Switch, got %v", tree.Kind)
	}
	if tree.TestKind != TestEnumTag {
		t.Fatalf("expected EnumTag test, got %v", tree.TestKind)
	}
	if tree.Default != nil {
		t.Fatal("expected no default at the outer switch (Option is exhaustively covered)")
	}
	if len(tree.Edges) != 2 {
		t.Fatalf("expected 2 edges (Some, None), got %d", len(tree.Edges))
	}

	var someEdge, noneEdge *SwitchEdge
	for i := range tree.Edges {
		e := &tree.Edges[i]
		switch e.Value.VariantIndex {
		case 0:
			someEdge = e
		case 1:
			noneEdge = e
		}
	}
	if someEdge == nil || noneEdge == nil {
		t.Fatal("expected edges for both variant 0 (Some) and variant 1 (None)")
	}

	noneLeaf := noneEdge.Tree
	if noneLeaf.Kind != TreeLeaf || noneLeaf.ArmIndex != 2 {
		t.Fatalf("expected None -> Leaf(arm 2), got %+v", noneLeaf)
	}

	someSub := someEdge.Tree
	if someSub.Kind != TreeSwitch || someSub.TestKind != TestIntEq {
		t.Fatalf("expected Some payload to Switch on IntEq, got kind=%v testKind=%v", someSub.Kind, someSub.TestKind)
	}
	if someSub.Default == nil {
		t.Fatal("expected a default branch under the Some payload switch for the Some(_) arm")
	}
	if someSub.Default.Kind != TreeLeaf || someSub.Default.ArmIndex != 1 {
		t.Fatalf("expected default -> Leaf(arm 1), got %+v", someSub.Default)
	}
	if len(someSub.Edges) != 1 || someSub.Edges[0].Value.Int != 0 {
		t.Fatalf("expected a single Int(0) edge under Some, got %+v", someSub.Edges)
	}
	if someSub.Edges[0].Tree.Kind != TreeLeaf || someSub.Edges[0].Tree.ArmIndex != 0 {
		t.Fatalf("expected Int(0) -> Leaf(arm 0), got %+v", someSub.Edges[0].Tree)
	}
}

func TestCompileEmptyMatrixFails(t *testing.T) {
	tree := Compile(PatternMatrix{}, nil)
	if tree.Kind != TreeFail {
		t.Fatalf("expected Fail, got %v", tree.Kind)
	}
}

func TestCompileWildcardOnlyYieldsLeaf(t *testing.T) {
	matrix := PatternMatrix{{Patterns: []FlatPattern{{Kind: PatBinding, Name: 7}}, ArmIndex: 0}}
	tree := Compile(matrix, []ScrutineePath{{}})
	if tree.Kind != TreeLeaf || tree.ArmIndex != 0 {
		t.Fatalf("expected Leaf(arm 0), got %+v", tree)
	}
	if len(tree.Bindings) != 1 || tree.Bindings[0].Name != 7 {
		t.Fatalf("expected binding to name 7 at root path, got %+v", tree.Bindings)
	}
}

func TestCompileTupleDecomposesWithoutSwitch(t *testing.T) {
	matrix := PatternMatrix{
		{
			Patterns: []FlatPattern{{Kind: PatTuple, Elements: []FlatPattern{
				{Kind: PatLitInt, Int: 1},
				{Kind: PatWildcard},
			}}},
			ArmIndex: 0,
		},
		{
			Patterns: []FlatPattern{{Kind: PatWildcard}},
			ArmIndex: 1,
		},
	}
	tree := Compile(matrix, []ScrutineePath{{}})
	if tree.Kind != TreeSwitch {
		t.Fatalf("expected a Switch on the decomposed tuple's first element, got %v", tree.Kind)
	}
	if tree.TestKind != TestIntEq {
		t.Fatalf("expected IntEq test on tuple element 0, got %v", tree.TestKind)
	}
	if len(tree.Path) != 1 || tree.Path[0].Kind != StepTupleIndex || tree.Path[0].Index != 0 {
		t.Fatalf("expected path [TupleIndex(0)], got %+v", tree.Path)
	}
}

func TestListExactVsAtLeastExclusion(t *testing.T) {
	matrix := PatternMatrix{
		{
			Patterns: []FlatPattern{{Kind: PatList, ListElements: []FlatPattern{{Kind: PatWildcard}}}},
			ArmIndex: 0, // exact [x]
		},
		{
			Patterns: []FlatPattern{{Kind: PatList, ListElements: []FlatPattern{{Kind: PatWildcard}}, HasRest: true, RestName: 1}},
			ArmIndex: 1, // [x, ..rest]
		},
		{
			Patterns: []FlatPattern{{Kind: PatWildcard}},
			ArmIndex: 2,
		},
	}
	tree := Compile(matrix, []ScrutineePath{{}})
	if tree.Kind != TreeSwitch || tree.TestKind != TestListLen {
		t.Fatalf("expected a ListLen switch, got kind=%v testKind=%v", tree.Kind, tree.TestKind)
	}
	// Both test values collected at length 1: one exact, one at-least.
	if len(tree.Edges) != 2 {
		t.Fatalf("expected 2 distinct ListLen edges (exact and at-least), got %d", len(tree.Edges))
	}
	for _, e := range tree.Edges {
		if e.Value.ListIsExact {
			if e.Tree.Kind != TreeLeaf || e.Tree.ArmIndex != 0 {
				t.Fatalf("exact edge should resolve only to arm 0, got %+v", e.Tree)
			}
		} else {
			if e.Tree.Kind != TreeLeaf || e.Tree.ArmIndex != 1 {
				t.Fatalf("at-least edge should resolve only to arm 1 (exact pattern excluded), got %+v", e.Tree)
			}
		}
	}
}
