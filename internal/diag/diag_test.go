package diag

import (
	"strings"
	"testing"

	"github.com/ori-lang/oric/internal/types"
	"github.com/ori-lang/oric/internal/unify"
)

func TestSinkAccumulatesAcrossStages(t *testing.T) {
	sink := NewSink(ColorNever)
	sink.Reportf(Mismatch, Span{File: "a.ori", Line: 1, Column: 2}, "stage one failed")
	sink.Reportf(ArityMismatch, Span{File: "a.ori", Line: 3, Column: 4}, "stage two failed")

	got := sink.Diagnostics()
	if len(got) != 2 {
		t.Fatalf("expected 2 diagnostics, got %d", len(got))
	}
	if got[0].Code != Mismatch || got[1].Code != ArityMismatch {
		t.Fatalf("expected codes in report order, got %+v", got)
	}
}

func TestSinkHasErrorsIgnoresWarnings(t *testing.T) {
	sink := NewSink(ColorNever)
	sink.Info("just an informational note")
	if sink.HasErrors() {
		t.Fatal("an Info-only sink must not report HasErrors")
	}
	sink.Reportf(Mismatch, Span{}, "boom")
	if !sink.HasErrors() {
		t.Fatal("expected HasErrors after an Error-severity report")
	}
}

func TestFormatNeverColorsWithColorNever(t *testing.T) {
	sink := NewSink(ColorNever)
	sink.Reportf(Mismatch, Span{File: "x.ori", Line: 5, Column: 1}, "bad type")
	out := sink.Format()
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("ColorNever must never emit ANSI escapes, got %q", out)
	}
	if !strings.Contains(out, "x.ori:5:1") {
		t.Fatalf("expected rendered span in output, got %q", out)
	}
}

func TestFormatAlwaysColors(t *testing.T) {
	sink := NewSink(ColorAlways)
	sink.Reportf(Mismatch, Span{}, "bad type")
	out := sink.Format()
	if !strings.Contains(out, "\x1b[") {
		t.Fatalf("ColorAlways must emit ANSI escapes, got %q", out)
	}
}

func TestFromUnifyErrorPreservesMessage(t *testing.T) {
	uerr := &unify.Error{
		Kind:     unify.Mismatch,
		Expected: types.INT,
		Found:    types.STR,
		Ctx:      unify.CtxParam,
		Index:    0,
	}
	d := FromUnifyError(uerr, Span{File: "f.ori", Line: 1, Column: 1})
	if d.Code != Mismatch {
		t.Fatalf("expected Mismatch code, got %v", d.Code)
	}
	if !strings.Contains(d.Error(), uerr.Error()) {
		t.Fatalf("expected the unify error's own message to survive, got %q", d.Error())
	}
}
