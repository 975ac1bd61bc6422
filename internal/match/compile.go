package match

// Compile turns a pattern matrix into a decision tree. paths gives the
// scrutinee path for each column — initially a single-element slice
// holding the empty root path; as the algorithm recurses it grows columns
// for decomposed sub-patterns and extends their paths accordingly.
//
// Every row of matrix must carry exactly len(paths) patterns; this is a
// compiler invariant enforced by the caller assembling the initial matrix
// and preserved by every specialization step below.
func Compile(matrix PatternMatrix, paths []ScrutineePath) *DecisionTree {
	// 1. Empty matrix: no arms left to try. Unreachable by exhaustiveness
	// checking, so this path only actually fires for a deliberately
	// non-exhaustive match the checker already flagged.
	if len(matrix) == 0 {
		return &DecisionTree{Kind: TreeFail}
	}

	// 2. First row all wildcards: an unconditional (or guarded) match.
	if allWildcardLike(matrix[0].Patterns) {
		bindings := extractAllBindings(matrix[0], paths)
		if matrix[0].Guard != nil {
			remaining := append(PatternMatrix(nil), matrix[1:]...)
			onFail := Compile(remaining, paths)
			return &DecisionTree{
				Kind:     TreeGuard,
				ArmIndex: matrix[0].ArmIndex,
				Bindings: bindings,
				Guard:    *matrix[0].Guard,
				OnFail:   onFail,
			}
		}
		return &DecisionTree{Kind: TreeLeaf, ArmIndex: matrix[0].ArmIndex, Bindings: bindings}
	}

	// 3. Pick the column with the most distinct constructors.
	col := pickColumn(matrix)
	path := paths[col]

	// 3b. Single-constructor (Tuple/Struct) columns need no runtime test —
	// there is only one possible shape — so decompose directly.
	if isSingleConstructorColumn(matrix, col) {
		decomposed := decomposeSingleConstructor(matrix, col, paths, path)
		return Compile(decomposed.matrix, decomposed.paths)
	}

	// 4. Gather the distinct test values present at the chosen column.
	testValues := collectTestValues(matrix, col)
	testKind := inferTestKind(testValues)

	// 5. Specialize the matrix for each test value and recurse.
	edges := make([]SwitchEdge, 0, len(testValues))
	for _, tv := range testValues {
		spec := specializeMatrix(matrix, col, tv, paths, path)
		edges = append(edges, SwitchEdge{Value: tv, Tree: Compile(spec.matrix, spec.paths)})
	}

	// 6. Rows that were wildcards at the chosen column form the default.
	defSpec := defaultMatrix(matrix, col, paths)
	var def *DecisionTree
	if len(defSpec.matrix) > 0 {
		def = Compile(defSpec.matrix, defSpec.paths)
	}

	return &DecisionTree{Kind: TreeSwitch, Path: path, TestKind: testKind, Edges: edges, Default: def}
}

func allWildcardLike(pats []FlatPattern) bool {
	for _, p := range pats {
		if !p.IsWildcardLike() {
			return false
		}
	}
	return true
}

// pickColumn chooses the column with the most distinct constructors
// (Maranget's "most branching power" heuristic), breaking ties leftmost.
// If no column has any constructor at all (every pattern everywhere is a
// wildcard/binding except possibly a lone non-wildcard column this scan
// still finds), falls back to the first column containing a non-wildcard.
func pickColumn(matrix PatternMatrix) int {
	ncols := len(matrix[0].Patterns)
	bestCol, bestScore := 0, 0
	for col := 0; col < ncols; col++ {
		score := countDistinctConstructors(matrix, col)
		if score > bestScore {
			bestScore = score
			bestCol = col
		}
	}
	if bestScore == 0 {
		for col := 0; col < ncols; col++ {
			for _, row := range matrix {
				if !row.Patterns[col].IsWildcardLike() {
					return col
				}
			}
		}
	}
	return bestCol
}

func isSingleConstructorColumn(matrix PatternMatrix, col int) bool {
	hasSingleCtor := false
	for _, row := range matrix {
		pat := unwrapAt(row.Patterns[col])
		switch pat.Kind {
		case PatTuple, PatStruct:
			hasSingleCtor = true
		case PatWildcard, PatBinding:
		default:
			return false
		}
	}
	return hasSingleCtor
}

type specialized struct {
	matrix PatternMatrix
	paths  []ScrutineePath
}

// decomposeSingleConstructor unconditionally decomposes a Tuple/Struct
// column into its sub-pattern columns; unlike specializeMatrix there is no
// TestValue, because the type system already guarantees every row's
// scrutinee has this one shape.
func decomposeSingleConstructor(matrix PatternMatrix, col int, paths []ScrutineePath, basePath ScrutineePath) specialized {
	subCount := findSingleCtorSubCount(matrix, col)

	newPaths := make([]ScrutineePath, 0, len(paths)-1+subCount)
	newPaths = append(newPaths, paths[:col]...)
	for i := 0; i < subCount; i++ {
		newPaths = append(newPaths, basePath.extend(findSingleCtorPathInstruction(matrix, col, i)))
	}
	newPaths = append(newPaths, paths[col+1:]...)

	newMatrix := make(PatternMatrix, 0, len(matrix))
	for _, row := range matrix {
		bindings := append([]Binding(nil), row.Bindings...)
		bindings = append(bindings, collectConsumedBindings(row.Patterns[col], basePath)...)

		subPats := decomposeSingleCtorPattern(row.Patterns[col], subCount)
		newPats := make([]FlatPattern, 0, len(row.Patterns)-1+len(subPats))
		newPats = append(newPats, row.Patterns[:col]...)
		newPats = append(newPats, subPats...)
		newPats = append(newPats, row.Patterns[col+1:]...)

		newMatrix = append(newMatrix, PatternRow{
			Patterns: newPats,
			ArmIndex: row.ArmIndex,
			Guard:    row.Guard,
			Bindings: bindings,
		})
	}

	return specialized{matrix: newMatrix, paths: newPaths}
}

func findSingleCtorSubCount(matrix PatternMatrix, col int) int {
	for _, row := range matrix {
		pat := unwrapAt(row.Patterns[col])
		switch pat.Kind {
		case PatTuple:
			return len(pat.Elements)
		case PatStruct:
			return len(pat.StructFields)
		}
	}
	return 0
}

func findSingleCtorPathInstruction(matrix PatternMatrix, col, index int) PathInstruction {
	for _, row := range matrix {
		pat := unwrapAt(row.Patterns[col])
		switch pat.Kind {
		case PatTuple:
			return PathInstruction{Kind: StepTupleIndex, Index: uint32(index)}
		case PatStruct:
			return PathInstruction{Kind: StepStructField, Index: uint32(index)}
		}
	}
	return PathInstruction{Kind: StepTupleIndex, Index: uint32(index)}
}

func decomposeSingleCtorPattern(pat FlatPattern, subCount int) []FlatPattern {
	switch pat.Kind {
	case PatTuple:
		return append([]FlatPattern(nil), pat.Elements...)
	case PatStruct:
		out := make([]FlatPattern, len(pat.StructFields))
		for i, f := range pat.StructFields {
			out[i] = f.Value
		}
		return out
	case PatWildcard, PatBinding:
		return wildcards(subCount)
	case PatAt:
		return decomposeSingleCtorPattern(*pat.Inner, subCount)
	case PatOr:
		if len(pat.Alts) > 0 {
			return decomposeSingleCtorPattern(pat.Alts[0], subCount)
		}
		return wildcards(subCount)
	default:
		return wildcards(subCount)
	}
}

func wildcards(n int) []FlatPattern {
	out := make([]FlatPattern, n)
	for i := range out {
		out[i] = FlatPattern{Kind: PatWildcard}
	}
	return out
}

func countDistinctConstructors(matrix PatternMatrix, col int) int {
	seen := map[any]bool{}
	for _, row := range matrix {
		if key, ok := constructorKey(row.Patterns[col]); ok {
			seen[key] = true
		}
	}
	return len(seen)
}

// constructorKey returns a comparable key identifying a pattern's
// constructor, ignoring its sub-patterns (those are handled by matrix
// specialization, not column selection). Wildcards/bindings have none.
func constructorKey(pat FlatPattern) (any, bool) {
	switch pat.Kind {
	case PatWildcard, PatBinding:
		return nil, false
	case PatLitInt:
		return [2]any{pat.Kind, pat.Int}, true
	case PatLitFloat:
		return [2]any{pat.Kind, pat.FloatBits}, true
	case PatLitBool:
		return [2]any{pat.Kind, pat.Bool}, true
	case PatLitStr:
		return [2]any{pat.Kind, pat.Str}, true
	case PatLitChar:
		return [2]any{pat.Kind, pat.Char}, true
	case PatVariant:
		return [2]any{pat.Kind, pat.VariantIndex}, true
	case PatTuple:
		return pat.Kind, true
	case PatStruct:
		return pat.Kind, true
	case PatList:
		return [3]any{pat.Kind, len(pat.ListElements), pat.HasRest}, true
	case PatRange:
		return [4]any{pat.Kind, pat.RangeStart, pat.RangeEnd, pat.RangeInclusive}, true
	case PatOr:
		if len(pat.Alts) > 0 {
			return constructorKey(pat.Alts[0])
		}
		return nil, false
	case PatAt:
		return constructorKey(*pat.Inner)
	default:
		return nil, false
	}
}

// collectTestValues gathers every distinct test value present at col, in
// first-occurrence order (so Switch edges come out in deterministic,
// source-stable order).
func collectTestValues(matrix PatternMatrix, col int) []TestValue {
	seen := map[any]bool{}
	var values []TestValue
	for _, row := range matrix {
		for _, tv := range testValuesFromPattern(row.Patterns[col]) {
			key := tv.dedupKey()
			if !seen[key] {
				seen[key] = true
				values = append(values, tv)
			}
		}
	}
	return values
}

func testValuesFromPattern(pat FlatPattern) []TestValue {
	switch pat.Kind {
	case PatWildcard, PatBinding:
		return nil
	case PatLitInt:
		return []TestValue{{Kind: TVInt, Int: pat.Int}}
	case PatLitFloat:
		return []TestValue{{Kind: TVFloat, FloatBits: pat.FloatBits}}
	case PatLitBool:
		return []TestValue{{Kind: TVBool, Bool: pat.Bool}}
	case PatLitStr:
		return []TestValue{{Kind: TVStr, Str: pat.Str}}
	case PatLitChar:
		return []TestValue{{Kind: TVChar, Char: pat.Char}}
	case PatVariant:
		return []TestValue{{Kind: TVTag, VariantIndex: pat.VariantIndex}}
	case PatTuple, PatStruct:
		// Single-constructor shapes need no tag test; handled by
		// decomposeSingleConstructor before this function is ever reached
		// for such a column, but a defensive empty result is correct too.
		return nil
	case PatList:
		return []TestValue{{Kind: TVListLen, ListLen: uint32(len(pat.ListElements)), ListIsExact: !pat.HasRest}}
	case PatRange:
		if pat.HasRangeStart && pat.HasRangeEnd {
			return []TestValue{{Kind: TVIntRange, RangeLo: pat.RangeStart, RangeHi: pat.RangeEnd, RangeInclusive: pat.RangeInclusive}}
		}
		// Open-ended ranges are treated as wildcards for decision purposes.
		return nil
	case PatOr:
		var out []TestValue
		for _, alt := range pat.Alts {
			out = append(out, testValuesFromPattern(alt)...)
		}
		return out
	case PatAt:
		return testValuesFromPattern(*pat.Inner)
	default:
		return nil
	}
}

// inferTestKind determines the TestKind for a Switch node from the first
// collected test value; every edge at one Switch node shares a kind.
func inferTestKind(values []TestValue) TestKind {
	if len(values) == 0 {
		return TestEnumTag
	}
	switch values[0].Kind {
	case TVInt:
		return TestIntEq
	case TVStr:
		return TestStrEq
	case TVBool:
		return TestBoolEq
	case TVFloat:
		return TestFloatEq
	case TVChar:
		return TestCharEq
	case TVIntRange:
		return TestIntRange
	case TVListLen:
		return TestListLen
	default:
		return TestEnumTag
	}
}

// specializeMatrix filters and decomposes matrix for one test value at
// col: rows whose pattern there matches tv are kept with their
// sub-patterns spliced in; wildcard rows are kept with fresh wildcard
// sub-patterns; rows with an incompatible constructor are dropped.
func specializeMatrix(matrix PatternMatrix, col int, tv TestValue, paths []ScrutineePath, basePath ScrutineePath) specialized {
	subCount := inferSubPatternCount(matrix, col, tv)

	newPaths := make([]ScrutineePath, 0, len(paths)-1+subCount)
	newPaths = append(newPaths, paths[:col]...)
	for i := 0; i < subCount; i++ {
		newPaths = append(newPaths, basePath.extend(subPathInstruction(tv, i)))
	}
	newPaths = append(newPaths, paths[col+1:]...)

	colPath := paths[col]
	newMatrix := make(PatternMatrix, 0, len(matrix))
	for _, row := range matrix {
		if newRow, ok := specializeRow(row, col, tv, subCount, colPath); ok {
			newMatrix = append(newMatrix, newRow)
		}
	}

	return specialized{matrix: newMatrix, paths: newPaths}
}

func inferSubPatternCount(matrix PatternMatrix, col int, tv TestValue) int {
	switch tv.Kind {
	case TVTag:
		for _, row := range matrix {
			if count, ok := variantFieldCount(row.Patterns[col], tv.VariantIndex); ok {
				return count
			}
		}
		return 0
	case TVListLen:
		return int(tv.ListLen)
	default:
		return 0
	}
}

func variantFieldCount(pat FlatPattern, targetIndex uint32) (int, bool) {
	switch pat.Kind {
	case PatVariant:
		if pat.VariantIndex == targetIndex {
			return len(pat.Fields), true
		}
		return 0, false
	case PatOr:
		for _, alt := range pat.Alts {
			if count, ok := variantFieldCount(alt, targetIndex); ok {
				return count, true
			}
		}
		return 0, false
	case PatAt:
		return variantFieldCount(*pat.Inner, targetIndex)
	default:
		return 0, false
	}
}

func subPathInstruction(tv TestValue, index int) PathInstruction {
	switch tv.Kind {
	case TVTag:
		return PathInstruction{Kind: StepTagPayload, Index: uint32(index)}
	case TVListLen:
		return PathInstruction{Kind: StepListElement, Index: uint32(index)}
	default:
		// No other test value kind produces sub-patterns; reaching here
		// is a compiler bug in the caller, not a data-dependent case.
		return PathInstruction{}
	}
}

func specializeRow(row PatternRow, col int, tv TestValue, expectedSubCount int, colPath ScrutineePath) (PatternRow, bool) {
	pat := row.Patterns[col]
	subs, ok := specializePattern(pat, tv, expectedSubCount)
	if !ok {
		return PatternRow{}, false
	}

	bindings := append([]Binding(nil), row.Bindings...)
	bindings = append(bindings, collectConsumedBindings(pat, colPath)...)

	newPats := make([]FlatPattern, 0, len(row.Patterns)-1+len(subs))
	newPats = append(newPats, row.Patterns[:col]...)
	newPats = append(newPats, subs...)
	newPats = append(newPats, row.Patterns[col+1:]...)

	return PatternRow{Patterns: newPats, ArmIndex: row.ArmIndex, Guard: row.Guard, Bindings: bindings}, true
}

// specializePattern tests pat against tv. The bool result reports whether
// pat is compatible with tv; when true, the returned slice holds pat's
// sub-patterns (wildcard-expanded to expectedSubCount for a wildcard/
// binding pat, so every row in a specialized matrix has the same arity).
func specializePattern(pat FlatPattern, tv TestValue, expectedSubCount int) ([]FlatPattern, bool) {
	switch {
	case pat.Kind == PatWildcard || pat.Kind == PatBinding:
		return wildcards(expectedSubCount), true

	case pat.Kind == PatVariant && tv.Kind == TVTag:
		if pat.VariantIndex == tv.VariantIndex {
			return pat.Fields, true
		}
		return nil, false

	case pat.Kind == PatLitInt && tv.Kind == TVInt:
		return nil, pat.Int == tv.Int
	case pat.Kind == PatLitBool && tv.Kind == TVBool:
		return nil, pat.Bool == tv.Bool
	case pat.Kind == PatLitStr && tv.Kind == TVStr:
		return nil, pat.Str == tv.Str
	case pat.Kind == PatLitFloat && tv.Kind == TVFloat:
		return nil, pat.FloatBits == tv.FloatBits
	case pat.Kind == PatLitChar && tv.Kind == TVChar:
		return nil, pat.Char == tv.Char

	case pat.Kind == PatList && tv.Kind == TVListLen:
		if len(pat.ListElements) != int(tv.ListLen) {
			return nil, false
		}
		// An exact pattern (no rest) in an at-least subtree must lose to
		// a rest pattern, never appearing there at all — otherwise it
		// would wrongly outrank the rest arm's priority.
		if !pat.HasRest && !tv.ListIsExact {
			return nil, false
		}
		return pat.ListElements, true

	case pat.Kind == PatRange && tv.Kind == TVIntRange:
		match := pat.HasRangeStart && pat.HasRangeEnd &&
			pat.RangeStart == tv.RangeLo && pat.RangeEnd == tv.RangeHi && pat.RangeInclusive == tv.RangeInclusive
		return nil, match

	case pat.Kind == PatOr:
		var matching [][]FlatPattern
		for _, alt := range pat.Alts {
			if subs, ok := specializePattern(alt, tv, expectedSubCount); ok {
				matching = append(matching, subs)
			}
		}
		switch len(matching) {
		case 0:
			return nil, false
		case 1:
			return matching[0], true
		default:
			combined := make([]FlatPattern, expectedSubCount)
			for col := 0; col < expectedSubCount; col++ {
				alts := make([]FlatPattern, len(matching))
				for i, subs := range matching {
					alts[i] = subs[col]
				}
				combined[col] = FlatPattern{Kind: PatOr, Alts: alts}
			}
			return combined, true
		}

	case pat.Kind == PatAt:
		return specializePattern(*pat.Inner, tv, expectedSubCount)

	default:
		return nil, false
	}
}

// defaultMatrix collects the rows whose pattern at col is a wildcard (so
// they're compatible with any constructor not explicitly tested), with
// that column removed.
func defaultMatrix(matrix PatternMatrix, col int, paths []ScrutineePath) specialized {
	newPaths := make([]ScrutineePath, 0, len(paths)-1)
	newPaths = append(newPaths, paths[:col]...)
	newPaths = append(newPaths, paths[col+1:]...)

	colPath := paths[col]
	newMatrix := make(PatternMatrix, 0, len(matrix))
	for _, row := range matrix {
		if !row.Patterns[col].IsWildcardLike() {
			continue
		}
		bindings := append([]Binding(nil), row.Bindings...)
		bindings = append(bindings, collectConsumedBindings(row.Patterns[col], colPath)...)

		newPats := make([]FlatPattern, 0, len(row.Patterns)-1)
		newPats = append(newPats, row.Patterns[:col]...)
		newPats = append(newPats, row.Patterns[col+1:]...)

		newMatrix = append(newMatrix, PatternRow{Patterns: newPats, ArmIndex: row.ArmIndex, Guard: row.Guard, Bindings: bindings})
	}
	return specialized{matrix: newMatrix, paths: newPaths}
}

// extractAllBindings merges a fully-wildcard row's accumulated bindings
// with any Binding/At/list-rest names still present in its remaining
// patterns.
func extractAllBindings(row PatternRow, paths []ScrutineePath) []Binding {
	bindings := append([]Binding(nil), row.Bindings...)
	for i, pat := range row.Patterns {
		collectBindings(pat, paths[i], &bindings)
	}
	return bindings
}

func collectBindings(pat FlatPattern, path ScrutineePath, out *[]Binding) {
	switch pat.Kind {
	case PatBinding:
		*out = append(*out, Binding{Name: pat.Name, Path: path})
	case PatAt:
		*out = append(*out, Binding{Name: pat.Name, Path: path})
		collectBindings(*pat.Inner, path, out)
	case PatList:
		if pat.HasRest && !pat.RestAnon {
			restPath := path.extend(PathInstruction{Kind: StepListRest, Index: uint32(len(pat.ListElements))})
			*out = append(*out, Binding{Name: pat.RestName, Path: restPath})
		}
	}
}

// collectConsumedBindings preserves the bindings a pattern would have
// contributed had it survived to extractAllBindings, for a pattern being
// removed from a row by specialization or decomposition instead.
func collectConsumedBindings(pat FlatPattern, path ScrutineePath) []Binding {
	switch pat.Kind {
	case PatBinding:
		return []Binding{{Name: pat.Name, Path: path}}
	case PatAt:
		out := []Binding{{Name: pat.Name, Path: path}}
		return append(out, collectConsumedBindings(*pat.Inner, path)...)
	case PatList:
		if pat.HasRest && !pat.RestAnon {
			restPath := path.extend(PathInstruction{Kind: StepListRest, Index: uint32(len(pat.ListElements))})
			return []Binding{{Name: pat.RestName, Path: restPath}}
		}
		return nil
	default:
		return nil
	}
}
