// Package classifier implements the external Idx -> {scalar, needs-rc}
// predicate consumed by the liveness analyzer and the drop descriptor
// builder. It is kept as a small interface, per the design note on dynamic
// dispatch in the classifier: a specific backend may substitute its own
// implementation (e.g. treating channels as non-RC on a runtime that
// manages them itself).
package classifier

import "github.com/ori-lang/oric/internal/types"

// Classification answers the two predicates every downstream RC pass
// needs. needs_rc and is_scalar are complements of each other for every
// reachable type.
type Classification interface {
	IsScalar(t types.Idx) bool
	NeedsRC(t types.Idx) bool
}

// Default is the pool-driven classifier: everything tagged as a
// self-contained value (numbers, bool, char, byte, unit, duration, size,
// ordering, and tuples/structs/enums/options/results/ranges whose every
// component is scalar) is scalar; everything else — str, collections,
// functions, channels, and unresolved named types — needs RC.
type Default struct {
	pool *types.Pool
}

// New returns the default classifier over pool.
func New(pool *types.Pool) *Default {
	return &Default{pool: pool}
}

func (c *Default) IsScalar(t types.Idx) bool {
	switch c.pool.Tag(t) {
	case types.TagInt, types.TagFloat, types.TagBool, types.TagChar, types.TagByte,
		types.TagUnit, types.TagNever, types.TagDuration, types.TagSize, types.TagOrdering:
		return true
	case types.TagStr:
		return false
	case types.TagFunction, types.TagChannel:
		// Closures and channels are reference counted in this classifier;
		// a backend targeting a different channel representation may
		// substitute its own Classification.
		return false
	case types.TagTuple:
		for _, e := range c.pool.TupleElems(t) {
			if !c.IsScalar(e) {
				return false
			}
		}
		return true
	case types.TagStruct:
		for _, f := range c.pool.StructFields(t) {
			if !c.IsScalar(f.Type) {
				return false
			}
		}
		return true
	case types.TagEnum:
		for _, v := range c.pool.EnumVariants(t) {
			for _, ft := range v.FieldTypes {
				if !c.IsScalar(ft) {
					return false
				}
			}
		}
		return true
	case types.TagOption:
		return c.IsScalar(c.pool.OptionInner(t))
	case types.TagResult:
		return c.IsScalar(c.pool.ResultOk(t)) && c.IsScalar(c.pool.ResultErr(t))
	case types.TagRange:
		return c.IsScalar(c.pool.RangeElem(t))
	case types.TagNamed, types.TagApplied, types.TagAlias:
		if resolved, ok := c.pool.Resolve(t); ok {
			return c.IsScalar(resolved)
		}
		// An unresolved named type is conservatively treated as RC'd: it
		// may turn out to box a string/list once its definition lands.
		return false
	default:
		return false
	}
}

func (c *Default) NeedsRC(t types.Idx) bool { return !c.IsScalar(t) }
