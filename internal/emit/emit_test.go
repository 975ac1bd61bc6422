package emit

import (
	"testing"

	"github.com/google/uuid"

	"github.com/ori-lang/oric/internal/arcir"
	"github.com/ori-lang/oric/internal/classifier"
	"github.com/ori-lang/oric/internal/dropinfo"
	"github.com/ori-lang/oric/internal/liveness"
	"github.com/ori-lang/oric/internal/types"
)

func strFunc() *arcir.Function {
	return &arcir.Function{
		Name:       "takesStr",
		Params:     []arcir.Param{{Var: 0, Type: types.STR}},
		ReturnType: types.UNIT,
		VarTypes:   []types.Idx{types.STR},
		Entry:      0,
		Blocks: []arcir.Block{
			{
				ID:         0,
				Body:       []arcir.Instr{{Kind: arcir.InstrRcDec, Var: 0}},
				Terminator: arcir.Terminator{Kind: arcir.TermReturn, Value: 0},
			},
		},
	}
}

func TestMarshalProducesNonEmptyBytes(t *testing.T) {
	pool := types.New()
	classify := classifier.New(pool)
	fn := strFunc()

	live := liveness.Compute(fn, classify)
	drops := dropinfo.Collect([]*arcir.Function{fn}, pool, classify)

	out, err := Marshal(Bundle{
		RunID:    uuid.New(),
		Function: fn,
		Liveness: live,
		Drops:    drops,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) == 0 {
		t.Fatal("expected non-empty serialized bundle")
	}
}

func TestMarshalWithNoDropsStillSucceeds(t *testing.T) {
	pool := types.New()
	classify := classifier.New(pool)
	fn := &arcir.Function{
		Name:       "noop",
		ReturnType: types.UNIT,
		Entry:      0,
		Blocks: []arcir.Block{
			{ID: 0, Terminator: arcir.Terminator{Kind: arcir.TermReturn, Value: 0}},
		},
	}
	live := liveness.Compute(fn, classify)

	out, err := Marshal(Bundle{RunID: uuid.New(), Function: fn, Liveness: live})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) == 0 {
		t.Fatal("expected non-empty serialized bundle even with no drop infos")
	}
}
