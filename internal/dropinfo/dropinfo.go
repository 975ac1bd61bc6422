// Package dropinfo computes, for every reference-counted type, a
// declarative description of the cleanup its refcount-zero path needs:
// which fields carry RC'd children, whether to switch on an enum tag,
// whether to iterate a collection. The backend emitter turns a DropInfo
// into an actual drop function; this package only decides WHAT needs
// decrementing, never HOW.
//
// Two categories of reference-counted type reach a drop function:
//
//   - Self-RC: types behind their own refcount (str, lists, sets, maps,
//     closures). The emitter calls RcDec(ptr, dropFn).
//   - Transitive-RC: stack types holding RC'd children (option[str],
//     (int, str), structs). The emitter destructures inline and Decs
//     the children named here.
package dropinfo

import (
	"github.com/ori-lang/oric/internal/arcir"
	"github.com/ori-lang/oric/internal/classifier"
	"github.com/ori-lang/oric/internal/types"
)

// Kind discriminates the shape of cleanup a type needs.
type Kind uint8

const (
	// Trivial means no RC'd children: just free the allocation.
	Trivial Kind = iota
	// KindFields means a fixed-layout type (struct, tuple, range): Dec
	// the listed fields.
	KindFields
	// KindEnum means switch on the variant tag, then Dec that variant's
	// listed fields. Also used for option (2 variants) and result
	// (2 variants).
	KindEnum
	// KindCollection means iterate a variable-length list or set,
	// Dec'ing each element.
	KindCollection
	// KindMap means iterate entries, Dec'ing keys and/or values.
	KindMap
	// KindClosureEnv is structurally identical to KindFields but named
	// separately: the emitter generates it under the closure's
	// synthesized drop-function name rather than a struct's.
	KindClosureEnv
)

// RCField is one field that needs RcDec before the enclosing value is
// freed: its index within the layout (struct_gep / tuple / variant
// position) and its own type, so the emitter can look up its drop
// function recursively.
type RCField struct {
	Index uint32
	Type  types.Idx
}

// Info is the complete drop descriptor for one type. Only the fields
// relevant to Kind are populated.
type Info struct {
	Type types.Idx
	Kind Kind

	// KindFields / KindClosureEnv
	RCFields []RCField

	// KindEnum: outer slice indexed by variant ordinal, inner holds that
	// variant's RC'd fields. An empty inner slice means that variant
	// carries nothing to decrement.
	Variants [][]RCField

	// KindCollection
	ElementType types.Idx

	// KindMap
	KeyType   types.Idx
	ValueType types.Idx
	DecKeys   bool
	DecValues bool
}

// Compute returns the drop descriptor for ty, or ok=false for a scalar
// type, which needs no drop function at all.
func Compute(ty types.Idx, pool *types.Pool, classify classifier.Classification) (Info, bool) {
	if classify.IsScalar(ty) {
		return Info{}, false
	}
	return computeDropInfo(ty, pool, classify), true
}

// ClosureEnvDrop builds the drop descriptor for a closure environment
// from the types of its captured variables, in capture order. Captures
// that don't need RC are simply omitted. Returns Trivial if nothing in
// the environment needs decrementing.
func ClosureEnvDrop(captureTypes []types.Idx, classify classifier.Classification) Info {
	fields := rcFields(captureTypes, classify)
	if len(fields) == 0 {
		return Info{Kind: Trivial}
	}
	return Info{Kind: KindClosureEnv, RCFields: fields}
}

// Collect gathers drop descriptors for every type that appears in an
// RcDec instruction across fns, deduplicated by type. For nested
// payload types (a struct field's own type, say) the emitter should
// call Compute lazily when it generates that field's drop function;
// Collect only surfaces the types RcDec touches directly.
func Collect(fns []*arcir.Function, pool *types.Pool, classify classifier.Classification) []Info {
	seen := map[types.Idx]bool{}
	var infos []Info

	for _, fn := range fns {
		for _, block := range fn.Blocks {
			for _, instr := range block.Body {
				if instr.Kind != arcir.InstrRcDec {
					continue
				}
				ty := fn.VarType(instr.Var)
				if !classify.NeedsRC(ty) || seen[ty] {
					continue
				}
				seen[ty] = true
				if info, ok := Compute(ty, pool, classify); ok {
					infos = append(infos, info)
				}
			}
		}
	}

	return infos
}

// computeDropInfo dispatches on ty's resolved tag. ty itself (not the
// resolved form) is kept as Info.Type: the emitter names drop functions
// after the type as written, even when it's a Named alias.
func computeDropInfo(ty types.Idx, pool *types.Pool, classify classifier.Classification) Info {
	resolved, tag := resolveType(ty, pool)

	switch tag {
	case types.TagList:
		elem := pool.ListElem(resolved)
		if classify.NeedsRC(elem) {
			return Info{Type: ty, Kind: KindCollection, ElementType: elem}
		}
		return Info{Type: ty, Kind: Trivial}

	case types.TagSet:
		elem := pool.SetElem(resolved)
		if classify.NeedsRC(elem) {
			return Info{Type: ty, Kind: KindCollection, ElementType: elem}
		}
		return Info{Type: ty, Kind: Trivial}

	case types.TagMap:
		key, value := pool.MapKey(resolved), pool.MapValue(resolved)
		dk, dv := classify.NeedsRC(key), classify.NeedsRC(value)
		if dk || dv {
			return Info{Type: ty, Kind: KindMap, KeyType: key, ValueType: value, DecKeys: dk, DecValues: dv}
		}
		return Info{Type: ty, Kind: Trivial}

	case types.TagStruct:
		fieldTypes := make([]types.Idx, 0, len(pool.StructFields(resolved)))
		for _, f := range pool.StructFields(resolved) {
			fieldTypes = append(fieldTypes, f.Type)
		}
		return fieldsInfo(ty, fieldTypes, classify)

	case types.TagTuple:
		return fieldsInfo(ty, pool.TupleElems(resolved), classify)

	case types.TagEnum:
		variants := pool.EnumVariants(resolved)
		fieldTypesPerVariant := make([][]types.Idx, len(variants))
		for i, v := range variants {
			fieldTypesPerVariant[i] = v.FieldTypes
		}
		return enumInfo(ty, fieldTypesPerVariant, classify)

	case types.TagOption:
		inner := pool.OptionInner(resolved)
		if classify.NeedsRC(inner) {
			return Info{Type: ty, Kind: KindEnum, Variants: [][]RCField{
				nil,                       // None
				{{Index: 0, Type: inner}}, // Some
			}}
		}
		return Info{Type: ty, Kind: Trivial}

	case types.TagResult:
		okTy, errTy := pool.ResultOk(resolved), pool.ResultErr(resolved)
		okRC, errRC := classify.NeedsRC(okTy), classify.NeedsRC(errTy)
		if okRC || errRC {
			variants := [][]RCField{nil, nil}
			if okRC {
				variants[0] = []RCField{{Index: 0, Type: okTy}}
			}
			if errRC {
				variants[1] = []RCField{{Index: 0, Type: errTy}}
			}
			return Info{Type: ty, Kind: KindEnum, Variants: variants}
		}
		return Info{Type: ty, Kind: Trivial}

	case types.TagRange:
		elem := pool.RangeElem(resolved)
		if classify.NeedsRC(elem) {
			return Info{Type: ty, Kind: KindFields, RCFields: []RCField{{Index: 0, Type: elem}, {Index: 1, Type: elem}}}
		}
		return Info{Type: ty, Kind: Trivial}

	default:
		// Named/Applied/Alias should already have been resolved above;
		// an unresolved one, a type variable, or a scheme gets a
		// trivial drop rather than blocking codegen.
		return Info{Type: ty, Kind: Trivial}
	}
}

func fieldsInfo(ty types.Idx, fieldTypes []types.Idx, classify classifier.Classification) Info {
	fields := rcFields(fieldTypes, classify)
	if len(fields) == 0 {
		return Info{Type: ty, Kind: Trivial}
	}
	return Info{Type: ty, Kind: KindFields, RCFields: fields}
}

func enumInfo(ty types.Idx, fieldTypesPerVariant [][]types.Idx, classify classifier.Classification) Info {
	variants := make([][]RCField, len(fieldTypesPerVariant))
	anyRC := false
	for i, fts := range fieldTypesPerVariant {
		variants[i] = rcFields(fts, classify)
		if len(variants[i]) > 0 {
			anyRC = true
		}
	}
	if !anyRC {
		return Info{Type: ty, Kind: Trivial}
	}
	return Info{Type: ty, Kind: KindEnum, Variants: variants}
}

func rcFields(fieldTypes []types.Idx, classify classifier.Classification) []RCField {
	var out []RCField
	for i, ft := range fieldTypes {
		if classify.NeedsRC(ft) {
			out = append(out, RCField{Index: uint32(i), Type: ft})
		}
	}
	return out
}

// resolveType walks Named/Applied/Alias indirection down to a concrete
// tag, returning the first resolution failure's own (idx, tag) if the
// chain dead-ends.
func resolveType(ty types.Idx, pool *types.Pool) (types.Idx, types.Tag) {
	tag := pool.Tag(ty)
	switch tag {
	case types.TagNamed, types.TagApplied, types.TagAlias:
		if resolved, ok := pool.Resolve(ty); ok {
			return resolveType(resolved, pool)
		}
		return ty, tag
	default:
		return ty, tag
	}
}
