package types

// Idx is an opaque 32-bit handle into a Pool. Equality of two Idx values is
// equality of the types they name — no structural comparison is ever
// needed once a type has been interned.
type Idx uint32

// Reserved primitive indices. These are stable across runs: a fresh Pool
// always interns exactly these tags, in this order, before anything else.
const (
	INT Idx = iota
	FLOAT
	BOOL
	STR
	CHAR
	BYTE
	UNIT
	NEVER
	ERROR
	DURATION
	SIZE
	ORDERING

	firstDynamic
)

// FirstDynamic is the first Idx available to user-defined/dynamic types.
const FirstDynamic = firstDynamic

var primitiveTags = [firstDynamic]Tag{
	INT:      TagInt,
	FLOAT:    TagFloat,
	BOOL:     TagBool,
	STR:      TagStr,
	CHAR:     TagChar,
	BYTE:     TagByte,
	UNIT:     TagUnit,
	NEVER:    TagNever,
	ERROR:    TagError,
	DURATION: TagDuration,
	SIZE:     TagSize,
	ORDERING: TagOrdering,
}
